// Package db pkg/db/interfaces.go
package db

import (
	"time"

	"github.com/mfreeman451/camwatch/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/mfreeman451/camwatch/pkg/db Service

// Service represents all history database operations.
type Service interface {
	// Write operations.

	RecordReading(reading models.StorageReading, at time.Time) error
	RecordTransition(transition *models.Transition) error

	// Read operations.

	GetDeviceHistory(device string, limit int) ([]ReadingPoint, error)
	GetTransitions(limit int) ([]models.Transition, error)

	// Maintenance operations.

	CleanOldData(retentionPeriod time.Duration) error
	Close() error
}
