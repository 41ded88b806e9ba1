package db

import "time"

// ReadingPoint is one stored storage reading for a device.
type ReadingPoint struct {
	Device         string    `json:"device"`
	UsedSpace      float64   `json:"used_space"`
	AvailableSpace float64   `json:"available_space"`
	Percentage     float64   `json:"percentage"`
	Timestamp      time.Time `json:"timestamp"`
}
