package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email sends plain-text alerts over SMTP.
type Email struct {
	sender mailSender
	from   string
	to     []string
}

var _ Notifier = (*Email)(nil)

type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

func NewEmail(opts SMTPOptions) *Email {
	return &Email{
		sender: gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password),
		from:   opts.From,
		to:     opts.To,
	}
}

func (e *Email) Notify(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.to...)
	m.SetHeader("Subject", event.Subject)
	m.SetBody("text/plain", event.Body)

	if err := e.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
