// Package poller pkg/poller/interfaces.go
package poller

import (
	"context"
	"time"

	"github.com/mfreeman451/camwatch/pkg/models"
)

//go:generate mockgen -destination=mock_poller.go -package=poller github.com/mfreeman451/camwatch/pkg/poller DeviceClient,DeviceLister,StatusStore,Notifier,HistoryRecorder

// DeviceClient fetches one storage reading from a device address.
type DeviceClient interface {
	FetchReading(ctx context.Context, address string) (models.StorageReading, error)
}

// DeviceLister returns the configured device addresses.
type DeviceLister interface {
	Devices() ([]string, error)
}

// StatusStore is the persisted device name to percentage mapping.
type StatusStore interface {
	Load() (map[string]float64, error)
	Save(status map[string]float64) error
}

// Notifier delivers a transition to subscribers.
type Notifier interface {
	Notify(ctx context.Context, reading models.StorageReading, level models.Level) error
}

// HistoryRecorder appends readings and transitions to long-term storage.
type HistoryRecorder interface {
	RecordReading(reading models.StorageReading, at time.Time) error
	RecordTransition(transition *models.Transition) error
}

// TransitionPublisher receives fired transitions as they happen.
type TransitionPublisher interface {
	PublishTransition(transition models.Transition)
}

// ReadingObserver receives every successful reading's percentage.
type ReadingObserver interface {
	AddReading(device string, timestamp time.Time, percentage float64)
}
