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

// Package models pkg/models/reading.go
package models

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrZeroCapacity    = errors.New("device reported zero storage capacity")
	ErrInvalidCapacity = errors.New("device reported storage figures with no finite percentage")
)

// megabytesPerGigabyte converts the device's MB figures for display.
const megabytesPerGigabyte = 1000

// StorageReading is one snapshot of a device's storage utilization.
// It is immutable once constructed.
type StorageReading struct {
	Name           string  `json:"name"`
	AvailableSpace float64 `json:"available_space"`
	UsedSpace      float64 `json:"used_space"`
}

// NewStorageReading builds a reading from the raw device figures. The device
// reports remaining space in its "size" field, so it is inverted here once
// and UsedSpace always means space consumed.
func NewStorageReading(name string, capacity, size float64) StorageReading {
	return StorageReading{
		Name:           name,
		AvailableSpace: capacity,
		UsedSpace:      capacity - size,
	}
}

// Percentage returns the share of capacity in use, 0-100.
func (r StorageReading) Percentage() (float64, error) {
	if r.AvailableSpace <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrZeroCapacity, r.Name)
	}

	pct := 100 - ((r.AvailableSpace-r.UsedSpace)/r.AvailableSpace)*100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCapacity, r.Name)
	}

	return pct, nil
}

func (r StorageReading) String() string {
	availableGB := r.AvailableSpace / megabytesPerGigabyte
	usedGB := r.UsedSpace / megabytesPerGigabyte

	pct, err := r.Percentage()
	if err != nil {
		return fmt.Sprintf("%s: %.2fGB/%.2fGB (capacity unknown)", r.Name, usedGB, availableGB)
	}

	return fmt.Sprintf("%s: %.2fGB/%.2fGB (%.2f%%)", r.Name, usedGB, availableGB, pct)
}
