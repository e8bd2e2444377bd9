package notifier

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes codes to the application log instead of sending mail.
// Meant for local development.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notifier").Str("driver", "log").Logger()}
}

// SendOTP logs the message that would have been emailed.
func (n *LogNotifier) SendOTP(ctx context.Context, email, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Info().
		Str("to", email).
		Str("subject", otpSubject).
		Str("body", otpText(code)).
		Msg("Email (not sent)")
	return nil
}
