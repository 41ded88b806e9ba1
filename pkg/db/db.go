// Package db pkg/db/db.go provides SQLite history storage for device readings
// and fired transitions.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mfreeman451/camwatch/pkg/models"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// DefaultRetention is how long readings and transitions are kept.
	DefaultRetention = 30 * 24 * time.Hour

	// Maximum number of rows a single history query returns.
	maxHistoryPoints = 1000

	// SQL statements for database initialization.
	createTablesSQL = `
	-- Storage readings, one row per successful device poll
	CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device TEXT NOT NULL,
		used_space REAL NOT NULL,
		available_space REAL NOT NULL,
		percentage REAL NOT NULL,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Fired level transitions
	CREATE TABLE IF NOT EXISTS transitions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device TEXT NOT NULL,
		level TEXT NOT NULL,
		previous_pct REAL NOT NULL,
		current_pct REAL NOT NULL,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_readings_device_time
		ON readings(device, timestamp);
	CREATE INDEX IF NOT EXISTS idx_transitions_time
		ON transitions(timestamp);
	`
)

// DB represents the database connection and operations.
type DB struct {
	*sql.DB
}

// New opens (creating if needed) the history database at dbPath.
func New(dbPath string) (Service, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToEnableWAL, err)
	}

	db := &DB{sqlDB}
	if err := db.initSchema(); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return db, nil
}

// initSchema creates the database tables if they don't exist.
func (db *DB) initSchema() error {
	_, err := db.Exec(createTablesSQL)

	return err
}

// RecordReading appends a reading to the device's history.
func (db *DB) RecordReading(reading models.StorageReading, at time.Time) error {
	pct, err := reading.Percentage()
	if err != nil {
		return fmt.Errorf("%w reading: %w", ErrFailedToInsert, err)
	}

	const insertSQL = `
		INSERT INTO readings (device, used_space, available_space, percentage, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = db.Exec(insertSQL,
		reading.Name,
		reading.UsedSpace,
		reading.AvailableSpace,
		pct,
		at.UTC())
	if err != nil {
		return fmt.Errorf("%w reading: %w", ErrFailedToInsert, err)
	}

	return nil
}

// RecordTransition appends a fired transition.
func (db *DB) RecordTransition(t *models.Transition) error {
	const insertSQL = `
		INSERT INTO transitions (device, level, previous_pct, current_pct, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(insertSQL,
		t.Device,
		t.Level.String(),
		t.Previous,
		t.Current,
		t.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("%w transition: %w", ErrFailedToInsert, err)
	}

	return nil
}

// GetDeviceHistory returns the most recent readings for a device, newest first.
func (db *DB) GetDeviceHistory(device string, limit int) (points []ReadingPoint, err error) {
	limit, err = clampLimit(limit)
	if err != nil {
		return nil, err
	}

	const querySQL = `
		SELECT used_space, available_space, percentage, timestamp
		FROM readings
		WHERE device = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.Query(querySQL, device, limit)
	if err != nil {
		return nil, fmt.Errorf("%w device history: %w", ErrFailedToQuery, err)
	}
	defer closeRows(rows, &err)

	for rows.Next() {
		p := ReadingPoint{Device: device}

		if err := rows.Scan(&p.UsedSpace, &p.AvailableSpace, &p.Percentage, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("%w reading row: %w", ErrFailedToScan, err)
		}

		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w device history: %w", ErrFailedToQuery, err)
	}

	return points, nil
}

// GetTransitions returns the most recent transitions across all devices,
// newest first.
func (db *DB) GetTransitions(limit int) (transitions []models.Transition, err error) {
	limit, err = clampLimit(limit)
	if err != nil {
		return nil, err
	}

	const querySQL = `
		SELECT device, level, previous_pct, current_pct, timestamp
		FROM transitions
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.Query(querySQL, limit)
	if err != nil {
		return nil, fmt.Errorf("%w transitions: %w", ErrFailedToQuery, err)
	}
	defer closeRows(rows, &err)

	for rows.Next() {
		var (
			t     models.Transition
			level string
		)

		if err := rows.Scan(&t.Device, &level, &t.Previous, &t.Current, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("%w transition row: %w", ErrFailedToScan, err)
		}

		if t.Level, err = models.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("%w transition row: %w", ErrFailedToScan, err)
		}

		transitions = append(transitions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w transitions: %w", ErrFailedToQuery, err)
	}

	return transitions, nil
}

// CleanOldData removes data older than the retention period.
func (db *DB) CleanOldData(retentionPeriod time.Duration) (err error) {
	cutoff := time.Now().UTC().Add(-retentionPeriod)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}
	defer rollbackOnError(tx, &err)

	if _, err = tx.Exec("DELETE FROM readings WHERE timestamp < ?", cutoff); err != nil {
		return fmt.Errorf("%w readings: %w", ErrFailedToClean, err)
	}

	if _, err = tx.Exec("DELETE FROM transitions WHERE timestamp < ?", cutoff); err != nil {
		return fmt.Errorf("%w transitions: %w", ErrFailedToClean, err)
	}

	return tx.Commit()
}

func rollbackOnError(tx *sql.Tx, err *error) {
	if *err == nil {
		return
	}

	if rbErr := tx.Rollback(); rbErr != nil {
		*err = errors.Join(*err, fmt.Errorf("rollback: %w", rbErr))
	}
}

func closeRows(rows *sql.Rows, err *error) {
	if cErr := rows.Close(); cErr != nil && *err == nil {
		*err = fmt.Errorf("failed to close rows: %w", cErr)
	}
}

func clampLimit(limit int) (int, error) {
	if limit <= 0 {
		return 0, ErrInvalidLimit
	}

	if limit > maxHistoryPoints {
		return maxHistoryPoints, nil
	}

	return limit, nil
}
