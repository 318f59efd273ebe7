package webhookController

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
)

// webhookTolerance is the maximum accepted clock skew for deliveries
const webhookTolerance = 5 * time.Minute

// webhookEvent is the verified payload envelope
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// VerifySignature checks an svix-style webhook signature: HMAC-SHA256 over
// "{id}.{timestamp}.{payload}" keyed with the base64 secret after the
// "whsec_" prefix, compared constant-time against every v1 entry of the
// signature header.
func VerifySignature(secret, msgID, timestamp, signatureHeader string, payload []byte) bool {
	if secret == "" || msgID == "" || timestamp == "" || signatureHeader == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	skew := time.Since(time.Unix(ts, 0))
	if skew > webhookTolerance || skew < -webhookTolerance {
		return false
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, versioned := range strings.Split(signatureHeader, " ") {
		parts := strings.SplitN(versioned, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		if hmac.Equal([]byte(parts[1]), []byte(expected)) {
			return true
		}
	}
	return false
}

// ClerkWebhook ingests user lifecycle events from the identity provider.
// The signature must verify before anything in the payload is trusted.
func ClerkWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	ok := VerifySignature(
		config.AppConfig.ClerkWebhookSecret,
		c.Get("svix-id"),
		c.Get("svix-timestamp"),
		c.Get("svix-signature"),
		payload,
	)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid webhook signature!", nil)
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook payload!", nil)
	}

	db := database.Database.Db

	switch event.Type {
	case "user.created", "user.updated":
		// Deliveries may carry no email address at all; the mirror keeps a
		// NULL email in that case so it cannot collide with other mirrors
		var email *string
		if len(event.Data.EmailAddresses) > 0 && event.Data.EmailAddresses[0].EmailAddress != "" {
			email = &event.Data.EmailAddresses[0].EmailAddress
		}
		name := strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName)

		var user models.User
		err := db.Where("external_id = ?", event.Data.ID).First(&user).Error
		if err == gorm.ErrRecordNotFound {
			externalID := event.Data.ID
			user = models.User{
				ExternalID: &externalID,
				Name:       name,
				Email:      email,
				ImageURL:   event.Data.ImageURL,
			}
			err = db.Create(&user).Error
		} else if err == nil {
			user.Name = name
			if email != nil {
				user.Email = email
			}
			user.ImageURL = event.Data.ImageURL
			err = db.Save(&user).Error
		}
		if err != nil {
			log.Printf("Error upserting webhook user %s: %v", event.Data.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process webhook!", nil)
		}

	case "user.deleted":
		if err := db.Model(&models.User{}).Where("external_id = ?", event.Data.ID).Update("is_deleted", true).Error; err != nil {
			log.Printf("Error deleting webhook user %s: %v", event.Data.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process webhook!", nil)
		}

	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unhandled event type!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook processed successfully!", nil)
}
