package utils

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"lms/config"
)

// SendEmail sends a transactional email through SendGrid
func SendEmail(toName, toEmail, subject, htmlBody string) error {
	cfg := config.AppConfig
	if cfg.SendGridApiKey == "" {
		log.Println("SENDGRID_API_KEY is empty, skipping email to", toEmail)
		return nil
	}

	from := sgmail.NewEmail("LMS", cfg.EmailSender)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(cfg.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s - status: %d - body: %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// getEmailTemplate wraps the mail body in the shared HTML shell
func getEmailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B3A4B; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #1B3A4B; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LMS</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LMS. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendEnrollmentEmail confirms a successful course enrollment
func SendEnrollmentEmail(email, name, courseTitle string) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<p>Head to your dashboard to start with the first lecture.</p>
	`, name, courseTitle)

	go SendEmail(name, email, subject, getEmailTemplate("Enrollment Successful", body))
}

// SendPasswordResetEmail delivers a password reset token, valid for a short
// window
func SendPasswordResetEmail(email, name, token string) {
	subject := "Password Reset Request"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Use the token below to reset your password. It expires in 10 minutes.</p>
		<p><strong>%s</strong></p>
		<p>If you did not request a reset, you can ignore this email.</p>
	`, name, token)

	go SendEmail(name, email, subject, getEmailTemplate("Reset Your Password", body))
}

// SendCourseCompletedEmail congratulates a student on finishing a course
func SendCourseCompletedEmail(email, name, courseTitle string) {
	subject := "Course Completed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have completed every lecture of <strong>%s</strong>.</p>
		<p>Leave a rating to help other students find the course.</p>
	`, name, courseTitle)

	go SendEmail(name, email, subject, getEmailTemplate("Congratulations!", body))
}
