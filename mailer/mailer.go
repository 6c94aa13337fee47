// Package mailer delivers the account e-mails produced by user lifecycle transitions.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"olilab/inventory"
)

// Sender 发送一封纯文本邮件
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// SMTPSender 通过 SMTP（PLAIN 认证）发信
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender { return &SMTPSender{cfg: cfg} }

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := []byte("To: " + to + "\r\n" +
		"From: " + s.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
		body)
	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}
	return smtp.SendMail(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.From, []string{to}, msg)
}

// LogSender 只把邮件写进日志，未配置 SMTP 时使用
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender { return &LogSender{log: log} }

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Info().Str("to", to).Str("subject", subject).Str("body", body).Msg("simulated email")
	return nil
}

// Dispatcher 把 inventory.EmailEvent 渲染成邮件并逐个收件人发送
type Dispatcher struct {
	sender Sender
}

func NewDispatcher(sender Sender) *Dispatcher { return &Dispatcher{sender: sender} }

func (d *Dispatcher) Deliver(ctx context.Context, ev inventory.EmailEvent) error {
	subject, body, err := Render(ev)
	if err != nil {
		return err
	}
	var errs []error
	for _, r := range ev.Recipients {
		if strings.TrimSpace(r.Email) == "" {
			continue
		}
		if err := d.sender.Send(ctx, r.Email, subject, body); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", r.Email, err))
		}
	}
	return errors.Join(errs...)
}
