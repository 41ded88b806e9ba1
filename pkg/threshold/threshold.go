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

// Package threshold decides when a storage percentage change is worth a
// notification.
package threshold

import (
	"errors"
	"fmt"

	"github.com/mfreeman451/camwatch/pkg/models"
)

const (
	DefaultWarning  = 80.0
	DefaultCritical = 90.0
)

var (
	ErrInvalidThresholds = errors.New("invalid thresholds")
)

// Thresholds holds the two percentage lines a device can cross.
type Thresholds struct {
	Warning  float64 `json:"warning"`
	Critical float64 `json:"critical"`
}

// Default returns the 80/90 thresholds.
func Default() Thresholds {
	return Thresholds{Warning: DefaultWarning, Critical: DefaultCritical}
}

// Validate implements config.Validator.
func (t Thresholds) Validate() error {
	if t.Warning <= 0 || t.Warning > 100 || t.Critical <= 0 || t.Critical > 100 {
		return fmt.Errorf("%w: thresholds must be within (0, 100], got warning=%v critical=%v",
			ErrInvalidThresholds, t.Warning, t.Critical)
	}

	if t.Warning >= t.Critical {
		return fmt.Errorf("%w: warning (%v) must be below critical (%v)",
			ErrInvalidThresholds, t.Warning, t.Critical)
	}

	return nil
}

// Evaluate compares the previously recorded percentage with the current one
// and reports the level to notify at, if any. Rules apply in order and the
// first match wins:
//
//  1. previous < warning  && current >= warning  -> Warning
//  2. previous < critical && current >= critical -> Critical
//  3. previous >= warning && current < warning   -> Healthy
//
// Dropping from critical to warning fires nothing.
func (t Thresholds) Evaluate(previous, current float64) (models.Level, bool) {
	switch {
	case previous < t.Warning && current >= t.Warning:
		return models.LevelWarning, true
	case previous < t.Critical && current >= t.Critical:
		return models.LevelCritical, true
	case previous >= t.Warning && current < t.Warning:
		return models.LevelHealthy, true
	default:
		return models.LevelHealthy, false
	}
}

// Classify maps a percentage onto the band it sits in.
func (t Thresholds) Classify(pct float64) models.Level {
	switch {
	case pct >= t.Critical:
		return models.LevelCritical
	case pct >= t.Warning:
		return models.LevelWarning
	default:
		return models.LevelHealthy
	}
}
