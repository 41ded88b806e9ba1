package metrics

import (
	"time"

	"github.com/mfreeman451/camwatch/pkg/models"
)

//go:generate mockgen -destination=mock_metrics.go -package=metrics github.com/mfreeman451/camwatch/pkg/metrics RecentCollector

// PointStore keeps the most recent samples for a single device.
type PointStore interface {
	Add(timestamp time.Time, percentage float64)
	GetPoints() []models.PercentPoint
	GetLastPoint() *models.PercentPoint
}

// RecentCollector keeps recent samples for every polled device.
type RecentCollector interface {
	AddReading(device string, timestamp time.Time, percentage float64)
	GetReadings(device string) []models.PercentPoint
	GetLastReading(device string) *models.PercentPoint
	Devices() []string
	GetActiveDevices() int64
}
