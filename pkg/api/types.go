/*-
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

package api

import (
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/mfreeman451/camwatch/pkg/models"
	"github.com/mfreeman451/camwatch/pkg/monitoring"
	"github.com/mfreeman451/camwatch/pkg/poller"
	"github.com/mfreeman451/camwatch/pkg/threshold"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// SystemStatus is the /api/status payload.
type SystemStatus struct {
	State         monitoring.State     `json:"state"`
	LastCycle     *poller.CycleSummary `json:"last_cycle"`
	ActiveDevices int64                `json:"active_devices,omitempty"`
}

// DeviceStatus is one entry of the /api/devices payload.
type DeviceStatus struct {
	Device     string       `json:"device"`
	Percentage float64      `json:"percentage"`
	Level      models.Level `json:"level"`
	LastPolled *time.Time   `json:"last_polled,omitempty"`
}

// Options wires the server's data sources. Every field but Status may be
// nil; the matching endpoint then degrades or reports 503.
type Options struct {
	Status     StatusSource
	State      StateSource
	Reports    ReportSource
	History    HistorySource
	Recent     RecentSource
	Gatherer   prometheus.Gatherer
	Thresholds threshold.Thresholds
	Logger     *zap.Logger
}

type APIServer struct {
	opts   Options
	router *mux.Router
	events *eventHub
	logger *zap.Logger

	mu     sync.RWMutex
	recent []models.Transition
}
