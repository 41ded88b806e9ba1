/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package poller pkg/poller/poller.go
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mfreeman451/camwatch/pkg/models"
	"go.uber.org/zap"
)

// Poller runs poll cycles. Devices are processed strictly one after another.
type Poller struct {
	opts   Options
	logger *zap.Logger

	mu         sync.RWMutex
	lastReport *CycleReport
}

func New(opts *Options) (*Poller, error) {
	if opts.Devices == nil || opts.Client == nil || opts.Store == nil || opts.Notifier == nil {
		return nil, ErrMissingDependency
	}

	if err := opts.Thresholds.Validate(); err != nil {
		return nil, err
	}

	o := *opts
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	if o.Now == nil {
		o.Now = time.Now
	}

	return &Poller{
		opts:   o,
		logger: o.Logger,
	}, nil
}

// RunCycle loads the status mapping, polls each configured device, fires
// notifications on transitions and saves the mapping. Device, notification
// and history failures are collected in the report; the returned error is
// set only when the cycle itself could not run or could not persist.
//
// A cancelled context stops the cycle before the next device, but whatever
// was processed so far is still saved.
func (p *Poller) RunCycle(ctx context.Context) (*CycleReport, error) {
	report := &CycleReport{Started: p.opts.Now()}

	err := p.runCycle(ctx, report)

	report.Finished = p.opts.Now()

	p.mu.Lock()
	p.lastReport = report
	p.mu.Unlock()

	if p.opts.Metrics != nil {
		p.opts.Metrics.RecordCycle(err, report.Finished.Sub(report.Started), len(report.Readings))
	}

	fields := []zap.Field{
		zap.Int("devices", report.DevicesConfigured),
		zap.Int("read", len(report.Readings)),
		zap.Int("transitions", len(report.Transitions)),
		zap.Int("fetch_errors", len(report.FetchErrors)),
		zap.Int("notify_errors", len(report.NotifyErrors)),
		zap.Bool("interrupted", report.Interrupted),
		zap.Duration("duration", report.Finished.Sub(report.Started)),
	}

	if err != nil {
		p.logger.Error("Poll cycle failed", append(fields, zap.Error(err))...)

		return report, err
	}

	p.logger.Info("Poll cycle completed", fields...)

	return report, nil
}

func (p *Poller) runCycle(ctx context.Context, report *CycleReport) error {
	statusMap, err := p.opts.Store.Load()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadStatus, err)
	}

	addresses, err := p.opts.Devices.Devices()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListDevices, err)
	}

	report.DevicesConfigured = len(addresses)

	for _, address := range addresses {
		if ctx.Err() != nil {
			report.Interrupted = true

			break
		}

		if !p.pollDevice(ctx, address, statusMap, report) {
			report.Interrupted = true

			break
		}
	}

	if report.Interrupted {
		p.logger.Warn("Poll cycle interrupted, saving partial status")
	}

	if err := p.opts.Store.Save(statusMap); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveStatus, err)
	}

	return nil
}

// pollDevice handles one device. It returns false when the fetch was cut
// short by cancellation.
func (p *Poller) pollDevice(ctx context.Context, address string, statusMap map[string]float64, report *CycleReport) bool {
	reading, err := p.opts.Client.FetchReading(ctx, address)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}

		p.recordFetchError(address, err, report)

		return true
	}

	current, err := reading.Percentage()
	if err != nil {
		p.recordFetchError(address, fmt.Errorf("%w from %s: %w", ErrInvalidReading, address, err), report)

		return true
	}

	now := p.opts.Now()
	report.Readings = append(report.Readings, reading)

	// absent entries count as previously healthy
	previous := statusMap[reading.Name]

	p.logger.Info("Device reading",
		zap.String("device", reading.Name),
		zap.String("address", address),
		zap.Stringer("reading", reading),
		zap.Float64("previous", previous))

	if p.opts.Observer != nil {
		p.opts.Observer.AddReading(reading.Name, now, current)
	}

	if p.opts.Metrics != nil {
		p.opts.Metrics.SetStoragePercent(reading.Name, current)
	}

	if p.opts.History != nil {
		if err := p.opts.History.RecordReading(reading, now); err != nil {
			p.recordHistoryError(reading.Name, err, report)
		}
	}

	if level, fire := p.opts.Thresholds.Evaluate(previous, current); fire {
		p.fireTransition(ctx, reading, &models.Transition{
			Device:    reading.Name,
			Level:     level,
			Previous:  previous,
			Current:   current,
			Timestamp: now,
		}, report)
	}

	statusMap[reading.Name] = current

	return true
}

func (p *Poller) fireTransition(ctx context.Context, reading models.StorageReading, t *models.Transition, report *CycleReport) {
	p.logger.Info("Storage level transition",
		zap.String("device", t.Device),
		zap.Stringer("level", t.Level),
		zap.Float64("previous", t.Previous),
		zap.Float64("current", t.Current))

	report.Transitions = append(report.Transitions, *t)

	err := p.opts.Notifier.Notify(ctx, reading, t.Level)
	if p.opts.Metrics != nil {
		p.opts.Metrics.RecordNotification(t.Level.String(), err)
	}

	if err != nil {
		// swallowed: subscribers may miss this one, the cycle goes on
		p.logger.Error("Failed to send notification",
			zap.String("device", t.Device),
			zap.Stringer("level", t.Level),
			zap.Error(err))

		report.NotifyErrors = append(report.NotifyErrors, fmt.Errorf("%w for %s: %w", ErrNotify, t.Device, err))
	}

	if p.opts.Publisher != nil {
		p.opts.Publisher.PublishTransition(*t)
	}

	if p.opts.History != nil {
		if err := p.opts.History.RecordTransition(t); err != nil {
			p.recordHistoryError(t.Device, err, report)
		}
	}
}

func (p *Poller) recordFetchError(address string, err error, report *CycleReport) {
	p.logger.Warn("Skipping device for this cycle",
		zap.String("address", address),
		zap.Error(err))

	report.FetchErrors = append(report.FetchErrors, err)

	if p.opts.Metrics != nil {
		p.opts.Metrics.RecordFetchError(address)
	}
}

func (p *Poller) recordHistoryError(device string, err error, report *CycleReport) {
	p.logger.Warn("Failed to write history",
		zap.String("device", device),
		zap.Error(err))

	report.HistoryErrors = append(report.HistoryErrors, fmt.Errorf("%w for %s: %w", ErrHistory, device, err))
}

// LastReport returns the most recent cycle's report, or nil before the
// first cycle.
func (p *Poller) LastReport() *CycleReport {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.lastReport
}

// Check adapts RunCycle to the scheduler's check signature.
func (p *Poller) Check(ctx context.Context) error {
	_, err := p.RunCycle(ctx)

	return err
}
