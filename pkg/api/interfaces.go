package api

import (
	"github.com/mfreeman451/camwatch/pkg/db"
	"github.com/mfreeman451/camwatch/pkg/models"
	"github.com/mfreeman451/camwatch/pkg/monitoring"
	"github.com/mfreeman451/camwatch/pkg/poller"
)

// StateSource reports the scheduler loop's state.
type StateSource interface {
	State() monitoring.State
}

// ReportSource returns the last finished cycle, nil before the first.
type ReportSource interface {
	LastReport() *poller.CycleReport
}

// StatusSource reads the persisted status mapping.
type StatusSource interface {
	Load() (map[string]float64, error)
}

// HistorySource is the read side of the history database.
type HistorySource interface {
	GetDeviceHistory(device string, limit int) ([]db.ReadingPoint, error)
	GetTransitions(limit int) ([]models.Transition, error)
}

// RecentSource is the in-memory sample buffer. It serves history when no
// database is configured and fills in devices the status file lacks.
type RecentSource interface {
	GetReadings(device string) []models.PercentPoint
	GetLastReading(device string) *models.PercentPoint
	Devices() []string
	GetActiveDevices() int64
}
