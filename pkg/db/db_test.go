package db

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mfreeman451/camwatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestDB(t *testing.T) Service {
	t.Helper()

	svc, err := New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = svc.Close() })

	return svc
}

func TestRecordAndGetDeviceHistory(t *testing.T) {
	svc := newTestDB(t)
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, svc.RecordReading(models.NewStorageReading("Garage", 1000, 500), base))
	require.NoError(t, svc.RecordReading(models.NewStorageReading("Garage", 1000, 100), base.Add(10*time.Minute)))
	require.NoError(t, svc.RecordReading(models.NewStorageReading("Porch", 2000, 2000), base))

	points, err := svc.GetDeviceHistory("Garage", 10)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "Garage", points[0].Device)
	assert.InDelta(t, 90.0, points[0].Percentage, 1e-9)
	assert.InDelta(t, 900.0, points[0].UsedSpace, 1e-9)
	assert.True(t, points[0].Timestamp.Equal(base.Add(10*time.Minute)))
	assert.InDelta(t, 50.0, points[1].Percentage, 1e-9)

	limited, err := svc.GetDeviceHistory("Garage", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := svc.GetDeviceHistory("Attic", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordReadingZeroCapacity(t *testing.T) {
	svc := newTestDB(t)

	err := svc.RecordReading(models.NewStorageReading("Broken", 0, 0), time.Now())
	require.ErrorIs(t, err, ErrFailedToInsert)
	require.ErrorIs(t, err, models.ErrZeroCapacity)
}

func TestRecordAndGetTransitions(t *testing.T) {
	svc := newTestDB(t)
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, svc.RecordTransition(&models.Transition{
		Device: "Garage", Level: models.LevelWarning, Previous: 0, Current: 90, Timestamp: base,
	}))
	require.NoError(t, svc.RecordTransition(&models.Transition{
		Device: "Garage", Level: models.LevelHealthy, Previous: 90, Current: 50, Timestamp: base.Add(time.Hour),
	}))

	transitions, err := svc.GetTransitions(10)
	require.NoError(t, err)
	require.Len(t, transitions, 2)

	assert.Equal(t, models.LevelHealthy, transitions[0].Level)
	assert.InDelta(t, 50.0, transitions[0].Current, 1e-9)
	assert.Equal(t, models.LevelWarning, transitions[1].Level)
	assert.True(t, transitions[1].Timestamp.Equal(base))
}

func TestInvalidLimit(t *testing.T) {
	svc := newTestDB(t)

	_, err := svc.GetDeviceHistory("Garage", 0)
	require.ErrorIs(t, err, ErrInvalidLimit)

	_, err = svc.GetTransitions(-1)
	require.ErrorIs(t, err, ErrInvalidLimit)
}

func TestCleanOldData(t *testing.T) {
	svc := newTestDB(t)
	now := time.Now().UTC()

	require.NoError(t, svc.RecordReading(models.NewStorageReading("Garage", 1000, 500), now.Add(-40*24*time.Hour)))
	require.NoError(t, svc.RecordReading(models.NewStorageReading("Garage", 1000, 400), now.Add(-time.Hour)))
	require.NoError(t, svc.RecordTransition(&models.Transition{
		Device: "Garage", Level: models.LevelWarning, Current: 85, Timestamp: now.Add(-40 * 24 * time.Hour),
	}))

	require.NoError(t, svc.CleanOldData(DefaultRetention))

	points, err := svc.GetDeviceHistory("Garage", 10)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, 60.0, points[0].Percentage, 1e-9)

	transitions, err := svc.GetTransitions(10)
	require.NoError(t, err)
	assert.Empty(t, transitions)
}

type countingCleaner struct {
	calls     atomic.Int32
	retention atomic.Int64
}

func (c *countingCleaner) CleanOldData(retention time.Duration) error {
	c.calls.Add(1)
	c.retention.Store(int64(retention))

	return nil
}

func TestRetentionServiceRunsImmediatelyAndStops(t *testing.T) {
	cleaner := &countingCleaner{}
	svc := NewRetentionService(cleaner, RetentionConfig{Interval: time.Hour}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		svc.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return cleaner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(DefaultRetention), cleaner.retention.Load())

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("retention service did not stop")
	}
}

func TestRetentionServiceSurvivesCleanupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	history := NewMockService(ctrl)

	var calls atomic.Int32

	history.EXPECT().CleanOldData(DefaultRetention).DoAndReturn(func(time.Duration) error {
		if calls.Add(1) == 1 {
			return errors.New("database is locked")
		}

		return nil
	}).MinTimes(2)

	core, logs := observer.New(zap.ErrorLevel)
	svc := NewRetentionService(history, RetentionConfig{Interval: 10 * time.Millisecond}, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		svc.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	assert.Equal(t, 1, logs.FilterMessage("History cleanup failed").Len())
}
