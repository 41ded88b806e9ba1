package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mfreeman451/camwatch/pkg/db"
	"github.com/mfreeman451/camwatch/pkg/metrics"
	"github.com/mfreeman451/camwatch/pkg/models"
	"github.com/mfreeman451/camwatch/pkg/monitoring"
	"github.com/mfreeman451/camwatch/pkg/poller"
	"github.com/mfreeman451/camwatch/pkg/threshold"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type staticStatus struct {
	values map[string]float64
	err    error
}

func (s staticStatus) Load() (map[string]float64, error) {
	return s.values, s.err
}

type fixedState monitoring.State

func (s fixedState) State() monitoring.State { return monitoring.State(s) }

type fixedReport struct {
	report *poller.CycleReport
}

func (f fixedReport) LastReport() *poller.CycleReport { return f.report }

func newServer(t *testing.T, opts *Options) *APIServer {
	t.Helper()

	if opts.Thresholds == (threshold.Thresholds{}) {
		opts.Thresholds = threshold.Default()
	}

	opts.Logger = zap.NewNop()

	s, err := NewAPIServer(opts)
	require.NoError(t, err)

	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, http.NoBody))

	return rec
}

func TestNewAPIServerRequiresStatus(t *testing.T) {
	_, err := NewAPIServer(&Options{})
	require.ErrorIs(t, err, ErrSourceRequired)
}

func TestGetSystemStatus(t *testing.T) {
	started := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	report := &poller.CycleReport{
		Started:           started,
		Finished:          started.Add(3 * time.Second),
		DevicesConfigured: 2,
		Readings:          []models.StorageReading{models.NewStorageReading("Garage", 1000, 100)},
		FetchErrors:       []error{errors.New("device 10.0.0.9 timed out")},
	}

	s := newServer(t, &Options{
		Status:  staticStatus{values: map[string]float64{}},
		State:   fixedState(monitoring.StateSleepingAfterSuccess),
		Reports: fixedReport{report: report},
	})

	rec := get(t, s.Handler(), "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body struct {
		State     string `json:"state"`
		LastCycle struct {
			DevicesConfigured int      `json:"devices_configured"`
			DevicesRead       int      `json:"devices_read"`
			Errors            []string `json:"errors"`
		} `json:"last_cycle"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "sleeping_after_success", body.State)
	assert.Equal(t, 2, body.LastCycle.DevicesConfigured)
	assert.Equal(t, 1, body.LastCycle.DevicesRead)
	assert.Equal(t, []string{"device 10.0.0.9 timed out"}, body.LastCycle.Errors)
}

func TestGetSystemStatusBeforeFirstCycle(t *testing.T) {
	s := newServer(t, &Options{
		Status:  staticStatus{values: map[string]float64{}},
		State:   fixedState(monitoring.StateRunning),
		Reports: fixedReport{},
	})

	rec := get(t, s.Handler(), "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"running","last_cycle":null}`, rec.Body.String())
}

func TestGetDevices(t *testing.T) {
	s := newServer(t, &Options{
		Status: staticStatus{values: map[string]float64{"Porch": 91.5, "Garage": 42, "Attic": 80}},
	})

	rec := get(t, s.Handler(), "/api/devices")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"device":"Attic","percentage":80,"level":"warning"},
		{"device":"Garage","percentage":42,"level":"healthy"},
		{"device":"Porch","percentage":91.5,"level":"critical"}
	]`, rec.Body.String())
}

func TestGetDevicesMergesRecentReadings(t *testing.T) {
	ctrl := gomock.NewController(t)
	recent := metrics.NewMockRecentCollector(ctrl)
	polled := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	recent.EXPECT().Devices().Return([]string{"Garage", "Shed"})
	recent.EXPECT().GetLastReading("Garage").Return(&models.PercentPoint{Timestamp: polled, Percentage: 42}).AnyTimes()
	recent.EXPECT().GetLastReading("Shed").Return(&models.PercentPoint{Timestamp: polled, Percentage: 95}).AnyTimes()
	recent.EXPECT().GetLastReading("Attic").Return(nil).AnyTimes()

	s := newServer(t, &Options{
		Status: staticStatus{values: map[string]float64{"Garage": 42, "Attic": 81}},
		Recent: recent,
	})

	rec := get(t, s.Handler(), "/api/devices")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"device":"Attic","percentage":81,"level":"warning"},
		{"device":"Garage","percentage":42,"level":"healthy","last_polled":"2026-10-18T09:00:00Z"},
		{"device":"Shed","percentage":95,"level":"critical","last_polled":"2026-10-18T09:00:00Z"}
	]`, rec.Body.String())
}

func TestGetSystemStatusActiveDevices(t *testing.T) {
	ctrl := gomock.NewController(t)
	recent := metrics.NewMockRecentCollector(ctrl)
	recent.EXPECT().GetActiveDevices().Return(int64(3))

	s := newServer(t, &Options{
		Status: staticStatus{values: map[string]float64{}},
		State:  fixedState(monitoring.StateSleepingAfterError),
		Recent: recent,
	})

	rec := get(t, s.Handler(), "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"sleeping_after_error","last_cycle":null,"active_devices":3}`, rec.Body.String())
}

func TestGetDevicesLoadError(t *testing.T) {
	s := newServer(t, &Options{Status: staticStatus{err: errors.New("unexpected end of JSON input")}})

	rec := get(t, s.Handler(), "/api/devices")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetDeviceHistoryFromDatabase(t *testing.T) {
	history, err := db.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = history.Close() })

	base := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	require.NoError(t, history.RecordReading(models.NewStorageReading("Garage", 1000, 300), base))
	require.NoError(t, history.RecordReading(models.NewStorageReading("Garage", 1000, 200), base.Add(time.Hour)))
	require.NoError(t, history.RecordTransition(&models.Transition{
		Device: "Garage", Level: models.LevelWarning, Previous: 70, Current: 80, Timestamp: base.Add(time.Hour),
	}))

	s := newServer(t, &Options{Status: staticStatus{}, History: history})

	rec := get(t, s.Handler(), "/api/devices/Garage/history?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var points []db.ReadingPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 1)
	assert.InDelta(t, 80.0, points[0].Percentage, 1e-9)

	rec = get(t, s.Handler(), "/api/devices/Unknown/history")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = get(t, s.Handler(), "/api/transitions")
	require.Equal(t, http.StatusOK, rec.Code)

	var transitions []models.Transition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transitions))
	require.Len(t, transitions, 1)
	assert.Equal(t, models.LevelWarning, transitions[0].Level)
}

func TestGetDeviceHistoryFromMemory(t *testing.T) {
	recent := metrics.NewManager(10)
	now := time.Now().UTC()

	recent.AddReading("Porch", now, 55)
	recent.AddReading("Porch", now.Add(time.Minute), 56)

	s := newServer(t, &Options{Status: staticStatus{}, Recent: recent})

	rec := get(t, s.Handler(), "/api/devices/Porch/history")
	require.Equal(t, http.StatusOK, rec.Code)

	var points []db.ReadingPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 2)
	assert.InDelta(t, 56.0, points[0].Percentage, 1e-9)
	assert.Equal(t, "Porch", points[0].Device)
}

func TestGetDeviceHistoryDisabledAndBadLimit(t *testing.T) {
	s := newServer(t, &Options{Status: staticStatus{}})

	assert.Equal(t, http.StatusServiceUnavailable, get(t, s.Handler(), "/api/devices/Garage/history").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s.Handler(), "/api/devices/Garage/history?limit=abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s.Handler(), "/api/transitions?limit=0").Code)
}

func TestTransitionsFallBackToPublished(t *testing.T) {
	s := newServer(t, &Options{Status: staticStatus{}})

	for i := 0; i < maxRecentTrans+5; i++ {
		s.PublishTransition(models.Transition{Device: "Garage", Level: models.LevelWarning, Current: float64(i)})
	}

	rec := get(t, s.Handler(), "/api/transitions?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var transitions []models.Transition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transitions))
	require.Len(t, transitions, 2)
	assert.InDelta(t, float64(maxRecentTrans+4), transitions[0].Current, 0)
	assert.InDelta(t, float64(maxRecentTrans+3), transitions[1].Current, 0)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.SetStoragePercent("Garage", 77)

	s := newServer(t, &Options{Status: staticStatus{}, Gatherer: reg})

	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `camwatch_storage_used_percent{device="Garage"} 77`)
}

func TestCORSPreflight(t *testing.T) {
	s := newServer(t, &Options{Status: staticStatus{}})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/devices", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestEventsStreamTransitions(t *testing.T) {
	s := newServer(t, &Options{Status: staticStatus{}})

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
		_ = conn.Close()
	}()

	require.Eventually(t, func() bool { return s.events.count() == 1 }, time.Second, 5*time.Millisecond)

	s.PublishTransition(models.Transition{
		Device:   "Garage",
		Level:    models.LevelCritical,
		Previous: 85,
		Current:  92,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var got models.Transition
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "Garage", got.Device)
	assert.Equal(t, models.LevelCritical, got.Level)
	assert.InDelta(t, 92.0, got.Current, 0)

	s.Close()

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
	assert.Eventually(t, func() bool { return s.events.count() == 0 }, time.Second, 5*time.Millisecond)
}
