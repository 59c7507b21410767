package email

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/convene-events/server/internal/config"
)

func disabledConfig() config.EmailConfig {
	return config.EmailConfig{
		Provider: config.EmailProviderDisabled,
		From:     "Convene <no-reply@convene.events>",
	}
}

func TestNewServiceValidatesSender(t *testing.T) {
	cfg := config.EmailConfig{Provider: config.EmailProviderSMTP, From: "not an address", SMTPHost: "smtp.example.com"}
	_, err := NewService(cfg, zerolog.Nop())
	require.ErrorContains(t, err, "invalid sender email")
}

func TestDisabledProviderSkipsSend(t *testing.T) {
	service, err := NewService(disabledConfig(), zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, service.SendWelcome(context.Background(), "ana@example.com", "Ana"))
	require.NoError(t, service.SendEventRegistration(context.Background(), "ana@example.com", "Ana", "Kickoff"))
}

func TestSendRejectsInvalidRecipient(t *testing.T) {
	service, err := NewService(disabledConfig(), zerolog.Nop())
	require.NoError(t, err)

	err = service.SendWelcome(context.Background(), "not an address", "Ana")
	require.ErrorContains(t, err, "invalid recipient email")
}

func TestTemplatesRender(t *testing.T) {
	service, err := NewService(disabledConfig(), zerolog.Nop())
	require.NoError(t, err)

	body, err := service.renderTemplate("welcome.html", WelcomeData{Name: "Ana", CurrentYear: 2026})
	require.NoError(t, err)
	require.Contains(t, body, "Welcome Ana!")

	body, err = service.renderTemplate("event_registration.html", EventRegistrationData{Name: "Ana", EventName: "Kickoff", CurrentYear: 2026})
	require.NoError(t, err)
	require.Contains(t, body, "Kickoff")
}
