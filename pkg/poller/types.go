// Package poller provides the poll cycle: fetch every device, evaluate
// threshold transitions, notify and persist.
package poller

import (
	"errors"
	"time"

	"github.com/mfreeman451/camwatch/pkg/metrics"
	"github.com/mfreeman451/camwatch/pkg/models"
	"github.com/mfreeman451/camwatch/pkg/threshold"
	"go.uber.org/zap"
)

// Options wires the poller's collaborators. Devices, Client, Store and
// Notifier are required; the rest may be nil.
type Options struct {
	Devices    DeviceLister
	Client     DeviceClient
	Store      StatusStore
	Notifier   Notifier
	Thresholds threshold.Thresholds

	History   HistoryRecorder
	Publisher TransitionPublisher
	Observer  ReadingObserver
	Metrics   *metrics.Metrics
	Logger    *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// CycleReport is the structured result of one poll cycle. Per-device and
// notification failures land here instead of aborting the cycle.
type CycleReport struct {
	Started           time.Time
	Finished          time.Time
	DevicesConfigured int
	Readings          []models.StorageReading
	Transitions       []models.Transition
	FetchErrors       []error
	NotifyErrors      []error
	HistoryErrors     []error
	Interrupted       bool
}

// Err joins every recovered failure in the report, or returns nil.
func (r *CycleReport) Err() error {
	all := make([]error, 0, len(r.FetchErrors)+len(r.NotifyErrors)+len(r.HistoryErrors))
	all = append(all, r.FetchErrors...)
	all = append(all, r.NotifyErrors...)
	all = append(all, r.HistoryErrors...)

	return errors.Join(all...)
}

// CycleSummary is the JSON view of a CycleReport.
type CycleSummary struct {
	Started           time.Time           `json:"started"`
	Finished          time.Time           `json:"finished"`
	DevicesConfigured int                 `json:"devices_configured"`
	DevicesRead       int                 `json:"devices_read"`
	Transitions       []models.Transition `json:"transitions"`
	Errors            []string            `json:"errors"`
	Interrupted       bool                `json:"interrupted"`
}

func (r *CycleReport) Summary() CycleSummary {
	s := CycleSummary{
		Started:           r.Started,
		Finished:          r.Finished,
		DevicesConfigured: r.DevicesConfigured,
		DevicesRead:       len(r.Readings),
		Transitions:       append([]models.Transition{}, r.Transitions...),
		Errors:            []string{},
		Interrupted:       r.Interrupted,
	}

	for _, group := range [][]error{r.FetchErrors, r.NotifyErrors, r.HistoryErrors} {
		for _, err := range group {
			s.Errors = append(s.Errors, err.Error())
		}
	}

	return s
}
