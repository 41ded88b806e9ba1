package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	CamerasFile = "cameras.txt"
	EmailsFile  = "emails.txt"
	StatusFile  = "status.json"

	commentPrefix = "#"
)

// ReadLines returns the trimmed, non-empty lines of path that are not
// '#' comments, in file order. A missing file is an error.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrReadList, path, err)
	}
	defer f.Close()

	var lines []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrReadList, path, err)
	}

	return lines, nil
}

// Lists reads the camera and subscriber lists from a data directory on
// every call, so edits apply without a restart.
type Lists struct {
	Dir string
}

// Devices returns the configured camera base addresses.
func (l Lists) Devices() ([]string, error) {
	return ReadLines(filepath.Join(l.Dir, CamerasFile))
}

// Subscribers returns the notification email addresses.
func (l Lists) Subscribers() ([]string, error) {
	return ReadLines(filepath.Join(l.Dir, EmailsFile))
}

// StatusPath is the location of the persisted status document.
func (l Lists) StatusPath() string {
	return filepath.Join(l.Dir, StatusFile)
}
