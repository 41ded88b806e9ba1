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

// Package status persists the last observed storage percentage per device.
package status

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mfreeman451/camwatch/pkg/config"
)

var (
	ErrLoadStatus = errors.New("failed to load status document")
	ErrSaveStatus = errors.New("failed to save status document")
)

const filePerm = 0o644

// Store is the persisted mapping from device name to last percentage.
type Store interface {
	Load() (map[string]float64, error)
	Save(status map[string]float64) error
}

// FileStore keeps the mapping as a flat JSON object on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load parses the status document. A missing or malformed document is an
// error; defaulting absent devices to 0 is the caller's business.
func (s *FileStore) Load() (map[string]float64, error) {
	var status map[string]float64

	if err := config.LoadFile(s.path, &status); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadStatus, err)
	}

	if status == nil {
		return nil, fmt.Errorf("%w: '%s' does not hold a JSON object", ErrLoadStatus, s.path)
	}

	return status, nil
}

// Save replaces the document atomically: the new content is written to a
// temp file in the same directory and renamed over the old one.
func (s *FileStore) Save(status map[string]float64) error {
	if status == nil {
		status = map[string]float64{}
	}

	data, err := json.MarshalIndent(status, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveStatus, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveStatus, err)
	}

	tmpName := tmp.Name()

	if err := writeAndClose(tmp, data); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("%w: %w", ErrSaveStatus, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("%w: %w", ErrSaveStatus, err)
	}

	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()

		return err
	}

	if err := f.Chmod(filePerm); err != nil {
		_ = f.Close()

		return err
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}
