package mailer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/motortrade/notification-api/internal/config"
	"github.com/motortrade/notification-api/pkg/errors"
	"github.com/motortrade/notification-api/pkg/metrics"
)

// SMTPMailer delivers HTML email over SMTP with an implicit-TLS dialer.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewSMTPMailer(cfg config.SMTPConfig, logger zerolog.Logger, m *metrics.Metrics) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.From, cfg.Password)
	dialer.SSL = cfg.Port == 465

	return &SMTPMailer{
		dialer:  dialer,
		from:    cfg.From,
		timeout: cfg.Timeout,
		logger:  logger,
		metrics: m,
	}
}

// Send makes a single synchronous delivery attempt, bounded by the
// configured timeout. A hung SMTP server surfaces as a send failure; the
// goroutine behind it is left to drain on its own.
func (s *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.dialer.DialAndSend(msg)
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if s.metrics != nil {
		s.metrics.EmailSendLatency.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		s.logger.Warn().Err(err).Str("to", to).Str("subject", subject).Msg("email send failed")
		return errors.MailSendFailed(err)
	}

	s.logger.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
