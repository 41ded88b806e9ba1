package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/mfreeman451/camwatch/pkg/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// EmailHandler mails a message to every subscriber over a single SMTP
// session per notification event.
type EmailHandler struct {
	from        string
	dialer      Dialer
	subscribers SubscriberSource
	timeout     time.Duration
	logger      *zap.Logger
}

// NewEmailHandler builds a handler on a gomail dialer. SSL selects implicit
// TLS; otherwise gomail upgrades with STARTTLS when the server offers it.
func NewEmailHandler(cfg *config.SMTPConfig, subscribers SubscriberSource, logger *zap.Logger) *EmailHandler {
	d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL

	h := NewEmailHandlerWithDialer(cfg.From, d, subscribers, logger)
	h.SetTimeout(cfg.Timeout)

	return h
}

func NewEmailHandlerWithDialer(from string, dialer Dialer, subscribers SubscriberSource, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{
		from:        from,
		dialer:      dialer,
		subscribers: subscribers,
		logger:      logger,
	}
}

// SetTimeout bounds each notification event. Zero leaves only the caller's
// context in charge.
func (h *EmailHandler) SetTimeout(d time.Duration) {
	h.timeout = d
}

// SendNotification re-reads the subscriber list, opens one session and sends
// one message per subscriber. The first transport error ends the session.
//
// gomail sets no deadline once connected, so the session runs in its own
// goroutine. When the context or the handler timeout expires first the
// session is abandoned and ErrSend is returned.
func (h *EmailHandler) SendNotification(ctx context.Context, msg *Message) error {
	recipients, err := h.subscribers.Subscribers()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribers, err)
	}

	if len(recipients) == 0 {
		h.logger.Warn("No email subscribers configured, skipping", zap.String("device", msg.Device))
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	done := make(chan error, 1)

	go func() {
		done <- h.deliver(ctx, recipients, msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		h.logger.Warn("Abandoning stalled mail session",
			zap.String("device", msg.Device),
			zap.Error(ctx.Err()))

		return fmt.Errorf("%w: %w", ErrSend, ctx.Err())
	}
}

func (h *EmailHandler) deliver(ctx context.Context, recipients []string, msg *Message) error {
	session, err := h.dialer.Dial()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDial, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			h.logger.Warn("Failed to close mail session", zap.Error(err))
		}
	}()

	for _, to := range recipients {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w to %s: %w", ErrSend, to, err)
		}

		m := gomail.NewMessage()
		m.SetHeader("From", h.from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", msg.Subject)
		m.SetBody("text/plain", msg.Body)

		if err := gomail.Send(session, m); err != nil {
			return fmt.Errorf("%w to %s: %w", ErrSend, to, err)
		}

		h.logger.Debug("Email sent", zap.String("to", to), zap.String("subject", msg.Subject))
	}

	return nil
}
