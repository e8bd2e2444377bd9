// Package notifier delivers password reset codes to account owners.
package notifier

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/config"
)

// Notifier sends a one-time password reset code to an email address.
type Notifier interface {
	SendOTP(ctx context.Context, email, code string) error
}

// New returns the notifier selected by cfg.NotifierDriver.
func New(cfg *config.Config, log zerolog.Logger) (Notifier, error) {
	switch cfg.NotifierDriver {
	case config.NotifierDriverLog, "":
		return NewLogNotifier(log), nil
	case config.NotifierDriverSendgrid:
		if cfg.SendgridAPIKey == "" {
			return nil, fmt.Errorf("notifier: SENDGRID_API_KEY is required for driver %q", cfg.NotifierDriver)
		}
		return NewSendgridNotifier(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromAddress, log), nil
	default:
		return nil, fmt.Errorf("notifier: unknown driver %q", cfg.NotifierDriver)
	}
}

const otpSubject = "Your password reset code"

func otpText(code string) string {
	return fmt.Sprintf("Your password reset code is %s. It expires in 10 minutes. "+
		"If you did not request a reset, you can ignore this email.", code)
}

func otpHTML(code string) string {
	return fmt.Sprintf("<p>Your password reset code is <strong>%s</strong>.</p>"+
		"<p>It expires in 10 minutes. If you did not request a reset, you can ignore this email.</p>", code)
}
