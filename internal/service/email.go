package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
	"github.com/selfgrowth/tracker/internal/markdown"
)

type EmailService struct {
	client    *resend.Client
	parser    *markdown.Parser
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		parser:    markdown.NewParser(),
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendWelcomeEmail(email, name string) error {
	msg, err := s.render("welcome.md", map[string]any{
		"Name":    name,
		"AppName": s.appName,
		"AppURL":  s.appURL,
	})
	if err != nil {
		return err
	}

	return s.send(context.Background(), "welcome", email, msg)
}

func (s *EmailService) SendHabitReminder(ctx context.Context, email, name, habitName, cadence string) error {
	msg, err := s.render("habit_reminder.md", map[string]any{
		"Name":      name,
		"HabitName": habitName,
		"Cadence":   cadenceLabel(cadence),
		"AppName":   s.appName,
		"AppURL":    s.appURL,
	})
	if err != nil {
		return err
	}

	return s.send(ctx, "habit_reminder", email, msg)
}

func (s *EmailService) send(ctx context.Context, kind, to string, msg *emailMessage) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", msg.Subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}
