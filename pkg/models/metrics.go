// Package models pkg/models/metrics.go
package models

import "time"

// PercentPoint is one in-memory storage utilization sample.
type PercentPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Percentage float64   `json:"percentage"`
}
