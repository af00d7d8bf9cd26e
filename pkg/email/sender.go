package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/aurelia-jewels/aurelia-backend/pkg/config"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
)

// Sender delivers transactional mail through Sendgrid.
type Sender struct {
	client   *sendgrid.Client
	from     *mail.Email
	logg     *logger.Logger
	disabled bool
}

func NewSender(cfg config.SendgridConfig, logg *logger.Logger) *Sender {
	if cfg.APIKey == "" {
		// local/dev without a key: sends become log lines
		return &Sender{logg: logg, disabled: true, from: mail.NewEmail(cfg.FromName, cfg.DefaultFrom)}
	}
	return &Sender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.DefaultFrom),
		logg:   logg,
	}
}

// Send delivers a plain-text message to a single recipient.
func (s *Sender) Send(ctx context.Context, toEmail, subject, body string) error {
	if toEmail == "" {
		return errors.New("recipient email is required")
	}
	if s.disabled {
		if s.logg != nil {
			ctx = s.logg.WithFields(ctx, map[string]any{"to": toEmail, "subject": subject})
			s.logg.Info(ctx, "email.skipped (sendgrid not configured)")
		}
		return nil
	}

	msg := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", toEmail), body, body)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// SendOTP mails a login code.
func (s *Sender) SendOTP(ctx context.Context, toEmail, code string) error {
	body := fmt.Sprintf("Your Aurelia Jewels login code is %s. It expires in 10 minutes.", code)
	return s.Send(ctx, toEmail, "Your login code", body)
}

// SendResetToken mails a password reset token.
func (s *Sender) SendResetToken(ctx context.Context, toEmail, token string) error {
	body := fmt.Sprintf("Use this token to reset your Aurelia Jewels password: %s", token)
	return s.Send(ctx, toEmail, "Reset your password", body)
}
