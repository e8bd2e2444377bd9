package notifier

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridNotifier emails codes through the SendGrid v3 API.
type SendgridNotifier struct {
	key  string
	host string
	from *sgmail.Email
	log  zerolog.Logger
}

// NewSendgridNotifier creates a new SendgridNotifier.
func NewSendgridNotifier(key, fromName, fromAddress string, log zerolog.Logger) *SendgridNotifier {
	return &SendgridNotifier{
		key:  key,
		host: sendgridHost,
		from: sgmail.NewEmail(fromName, fromAddress),
		log:  log.With().Str("component", "notifier").Str("driver", "sendgrid").Logger(),
	}
}

func (n *SendgridNotifier) prepare(email, code string) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = otpSubject
	p.AddTos(sgmail.NewEmail("", email))

	m := sgmail.NewV3Mail()
	m.SetFrom(n.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", otpText(code)),
		sgmail.NewContent("text/html", otpHTML(code)),
	)
	return m
}

// SendOTP sends the code synchronously and reports any delivery failure.
func (n *SendgridNotifier) SendOTP(ctx context.Context, email, code string) error {
	req := sendgrid.GetRequest(n.key, sendgridEndpoint, n.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(n.prepare(email, code))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		n.log.Error().Int("status", res.StatusCode).Str("body", res.Body).Msg("SendGrid rejected email")
		return fmt.Errorf("sendgrid: status %d", res.StatusCode)
	}
	return nil
}
