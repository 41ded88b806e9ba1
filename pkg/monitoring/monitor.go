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

// Package monitoring pkg/monitoring/monitor.go
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	ErrInvalidInterval = errors.New("monitor interval must be positive")
	ErrCheckPanicked   = errors.New("check panicked")
)

// State is the scheduler loop's current phase.
type State int32

const (
	StateRunning State = iota
	StateSleepingAfterSuccess
	StateSleepingAfterError
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSleepingAfterSuccess:
		return "sleeping_after_success"
	case StateSleepingAfterError:
		return "sleeping_after_error"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MonitorConfig holds configuration for monitoring.
type MonitorConfig struct {
	Interval time.Duration
}

// Monitor runs a check, sleeps a fixed interval and repeats until its
// context is cancelled.
type Monitor struct {
	config MonitorConfig
	logger *zap.Logger
	state  atomic.Int32
	cycles atomic.Int64
}

// NewMonitor creates a new monitoring loop. It starts in StateStopped until
// Run is called.
func NewMonitor(cfg MonitorConfig, logger *zap.Logger) (*Monitor, error) {
	if cfg.Interval <= 0 {
		return nil, ErrInvalidInterval
	}

	m := &Monitor{
		config: cfg,
		logger: logger,
	}
	m.state.Store(int32(StateStopped))

	return m, nil
}

// Run executes check immediately and then once per interval after the
// previous check finished, whether it succeeded, failed or panicked. It
// returns when ctx is cancelled.
func (m *Monitor) Run(ctx context.Context, check func(context.Context) error) {
	defer m.setState(StateStopped)

	for {
		if ctx.Err() != nil {
			m.logger.Info("Monitor stopped")
			return
		}

		m.setState(StateRunning)

		err := m.runCheck(ctx, check)
		m.cycles.Add(1)

		next := StateSleepingAfterSuccess
		if err != nil {
			next = StateSleepingAfterError

			m.logger.Error("Check failed, retrying after interval",
				zap.Error(err),
				zap.Duration("interval", m.config.Interval))
		}

		m.setState(next)

		timer := time.NewTimer(m.config.Interval)

		select {
		case <-ctx.Done():
			timer.Stop()
			m.logger.Info("Monitor stopped")

			return
		case <-timer.C:
		}
	}
}

// runCheck turns a panic inside check into an error so the loop survives.
func (m *Monitor) runCheck(ctx context.Context, check func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Recovered from panic in check",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))

			err = fmt.Errorf("%w: %v", ErrCheckPanicked, r)
		}
	}()

	return check(ctx)
}

func (m *Monitor) setState(s State) {
	m.state.Store(int32(s))
}

func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Cycles returns how many checks have completed.
func (m *Monitor) Cycles() int64 {
	return m.cycles.Load()
}
