package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/mfreeman451/camwatch/pkg/alerts"
	"github.com/mfreeman451/camwatch/pkg/models"
	"go.uber.org/zap"
)

const megabytesPerGigabyte = 1000

// WebhookHandler forwards messages to a webhook alerter.
type WebhookHandler struct {
	alerter alerts.AlertService
	logger  *zap.Logger
}

func NewWebhookHandler(alerter alerts.AlertService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		alerter: alerter,
		logger:  logger,
	}
}

// SendNotification posts the message. Disabled alerters and cooldown skips
// are not failures.
func (h *WebhookHandler) SendNotification(ctx context.Context, msg *Message) error {
	if !h.alerter.IsEnabled() {
		return nil
	}

	alert := &alerts.WebhookAlert{
		Level:     alertLevel(msg.Level),
		Title:     msg.Subject,
		Message:   msg.Body,
		Timestamp: msg.Timestamp.Format(time.RFC3339),
		Device:    msg.Device,
		Details: map[string]any{
			"level":       msg.Level.String(),
			"used_gb":     msg.Reading.UsedSpace / megabytesPerGigabyte,
			"capacity_gb": msg.Reading.AvailableSpace / megabytesPerGigabyte,
		},
	}

	if pct, err := msg.Reading.Percentage(); err == nil {
		alert.Details["percentage"] = pct
	}

	err := h.alerter.Alert(ctx, alert)
	if errors.Is(err, alerts.ErrWebhookCooldown) {
		h.logger.Debug("Webhook alert suppressed by cooldown", zap.String("device", msg.Device))
		return nil
	}

	return err
}

func alertLevel(level models.Level) alerts.AlertLevel {
	switch level {
	case models.LevelCritical:
		return alerts.Error
	case models.LevelWarning:
		return alerts.Warning
	default:
		return alerts.Info
	}
}
