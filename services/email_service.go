package services

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"campus-connect-server/config"
	"campus-connect-server/models"
)

// EmailService sends transactional mail through SendGrid. When no API key is
// configured all sends are logged and dropped.
type EmailService struct {
	key  string
	from *mail.Email
}

// NewEmailService creates an email service from app config
func NewEmailService() *EmailService {
	cfg := config.AppConfig.Email
	return &EmailService{
		key:  cfg.SendgridKey,
		from: mail.NewEmail(cfg.FromName, cfg.FromAddress),
	}
}

// SendWelcomeEmail greets a newly registered user
func (es *EmailService) SendWelcomeEmail(user models.User) error {
	subject := "Welcome to Campus Connect"
	body := fmt.Sprintf("Hi %s,\n\nYour Campus Connect account is ready. Browse listings, join communities and track your attendance from the app.\n\nSee you on campus!", user.FullName)
	return es.send(user, subject, body)
}

// SendAccountStatusEmail notifies a user their account was banned or restored
func (es *EmailService) SendAccountStatusEmail(user models.User) error {
	var subject, body string
	if user.IsBanned() {
		subject = "Your Campus Connect account has been suspended"
		body = fmt.Sprintf("Hi %s,\n\nYour account has been suspended by a campus administrator. If you believe this is a mistake, reply to this email.", user.FullName)
	} else {
		subject = "Your Campus Connect account has been restored"
		body = fmt.Sprintf("Hi %s,\n\nYour account has been restored. Welcome back!", user.FullName)
	}
	return es.send(user, subject, body)
}

func (es *EmailService) send(user models.User, subject, body string) error {
	if es.key == "" {
		log.Printf("📧 Email not configured, dropping %q to %s", subject, user.Email)
		return nil
	}

	to := mail.NewEmail(user.FullName, user.Email)
	message := mail.NewSingleEmail(es.from, subject, to, body, "")

	client := sendgrid.NewSendClient(es.key)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("❌ Email send failed to %s: %v", user.Email, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("❌ Email send rejected for %s: %d %s", user.Email, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned %d", resp.StatusCode)
	}

	log.Printf("📧 Email %q sent to %s", subject, user.Email)
	return nil
}
