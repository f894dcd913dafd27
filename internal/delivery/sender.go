// Package delivery sends generated reminder emails and records successful
// escalations in the nudge store.
package delivery

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	gomail "github.com/wneessen/go-mail"

	"github.com/campus-ops/outreach-cli/internal/config"
)

// Sender delivers one email to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	smtp      config.SMTPConfig
	fromEmail string
	fromName  string
}

// NewSMTPSender creates an SMTPSender from credentials and sender identity.
func NewSMTPSender(smtp config.SMTPConfig, outreach config.OutreachConfig) *SMTPSender {
	return &SMTPSender{
		smtp:      smtp,
		fromEmail: outreach.FromEmail,
		fromName:  outreach.FromName,
	}
}

// Send delivers a single HTML email.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return eris.Wrap(err, "delivery: set from")
	}
	if err := msg.To(to); err != nil {
		return eris.Wrap(err, "delivery: set recipient")
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	client, err := gomail.NewClient(s.smtp.Host,
		gomail.WithPort(s.smtp.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.smtp.Username),
		gomail.WithPassword(s.smtp.Password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return eris.Wrap(err, "delivery: smtp client")
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return eris.Wrap(err, "delivery: smtp send")
	}

	return nil
}
