package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownLevel = errors.New("unknown level")
)

// Level is the notification severity derived from a storage percentage.
type Level int

const (
	LevelHealthy Level = iota
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelHealthy:
		return "healthy"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseLevel is the inverse of Level.String.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "healthy":
		return LevelHealthy, nil
	case "warning":
		return LevelWarning, nil
	case "critical":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}

	*l = parsed

	return nil
}

// Transition is a fired level change for one device.
type Transition struct {
	Device    string    `json:"device"`
	Level     Level     `json:"level"`
	Previous  float64   `json:"previous"`
	Current   float64   `json:"current"`
	Timestamp time.Time `json:"timestamp"`
}
