package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/convene-events/server/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service sends notification emails through the configured provider. With the
// "disabled" provider (the default) sends are logged and skipped, which keeps
// local development and tests free of outbound traffic.
type Service struct {
	config       config.EmailConfig
	templates    *template.Template
	resendClient *resend.Client
	logger       zerolog.Logger
}

// WelcomeData holds data for rendering the welcome email template
type WelcomeData struct {
	Name        string
	CurrentYear int
}

// EventRegistrationData holds data for rendering the registration
// confirmation template
type EventRegistrationData struct {
	Name        string
	EventName   string
	CurrentYear int
}

// NewService creates a new email service instance
func NewService(cfg config.EmailConfig, logger zerolog.Logger) (*Service, error) {
	if cfg.Provider != config.EmailProviderDisabled {
		if err := validateEmailAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender email in config: %w", err)
		}
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	service := &Service{
		config:    cfg,
		templates: templates,
		logger:    logger.With().Str("component", "email").Logger(),
	}
	if cfg.Provider == config.EmailProviderResend {
		service.resendClient = resend.NewClient(cfg.ResendAPIKey)
	}
	return service, nil
}

// SendWelcome sends the account creation confirmation to a new user.
func (s *Service) SendWelcome(ctx context.Context, to, name string) error {
	htmlBody, err := s.renderTemplate("welcome.html", WelcomeData{
		Name:        name,
		CurrentYear: time.Now().Year(),
	})
	if err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}

	subject := "Welcome to Convene"
	if err := s.send(ctx, to, subject, htmlBody); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

// SendEventRegistration sends a registration confirmation for an event.
func (s *Service) SendEventRegistration(ctx context.Context, to, name, eventName string) error {
	htmlBody, err := s.renderTemplate("event_registration.html", EventRegistrationData{
		Name:        name,
		EventName:   eventName,
		CurrentYear: time.Now().Year(),
	})
	if err != nil {
		return fmt.Errorf("failed to render event registration template: %w", err)
	}

	subject := fmt.Sprintf("Event Registration Confirmation: %s", eventName)
	if err := s.send(ctx, to, subject, htmlBody); err != nil {
		return fmt.Errorf("failed to send event registration email: %w", err)
	}
	return nil
}

func (s *Service) send(ctx context.Context, to, subject, htmlBody string) error {
	if err := validateEmailAddress(to); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	switch s.config.Provider {
	case config.EmailProviderResend:
		return s.sendViaResend(ctx, to, subject, htmlBody)
	case config.EmailProviderSMTP:
		return s.sendViaSMTP(to, subject, htmlBody)
	default:
		s.logger.Info().
			Str("to", to).
			Str("subject", subject).
			Msg("email provider disabled, skipping send")
		return nil
	}
}

// validateEmailAddress validates an email address for format and header
// injection attempts
func validateEmailAddress(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("invalid email address: contains newline characters")
	}
	return nil
}

// renderTemplate renders an email template with the given data
func (s *Service) renderTemplate(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
