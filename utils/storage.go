package utils

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"lms/config"
)

// UploadResult is the subset of the storage API response we care about
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// UploadBuffer pushes a byte buffer to the media storage API and returns the
// durable public URL. Uploads are signed with the account secret.
func UploadBuffer(data []byte, filename string) (*UploadResult, error) {
	cfg := config.AppConfig
	if cfg.CloudName == "" || cfg.CloudApiKey == "" || cfg.CloudSecret == "" {
		return nil, fmt.Errorf("media storage is not configured")
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signature := signUpload(cfg.UploadFolder, timestamp, cfg.CloudSecret)

	uploadURL := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/auto/upload", cfg.CloudName)

	client := resty.New().SetTimeout(30 * time.Second)

	var result UploadResult
	resp, err := client.R().
		SetFileReader("file", filename, bytes.NewReader(data)).
		SetFormData(map[string]string{
			"api_key":   cfg.CloudApiKey,
			"timestamp": timestamp,
			"folder":    cfg.UploadFolder,
			"signature": signature,
		}).
		SetResult(&result).
		Post(uploadURL)
	if err != nil {
		log.Printf("Error uploading %s to media storage: %v", filename, err)
		return nil, fmt.Errorf("media upload failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		log.Printf("Media storage rejected %s: %s", filename, resp.String())
		return nil, fmt.Errorf("media upload failed, code: %d", resp.StatusCode())
	}
	if result.SecureURL == "" {
		return nil, fmt.Errorf("media upload returned no URL")
	}

	return &result, nil
}

// signUpload builds the request signature: SHA1 over the sorted upload params
// joined with the API secret.
func signUpload(folder, timestamp, secret string) string {
	toSign := fmt.Sprintf("folder=%s&timestamp=%s%s", folder, timestamp, secret)
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}
