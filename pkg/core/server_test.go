package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mfreeman451/camwatch/pkg/config"
	"github.com/mfreeman451/camwatch/pkg/models"
	"github.com/mfreeman451/camwatch/pkg/monitoring"
	"github.com/mfreeman451/camwatch/pkg/threshold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// camera serves GetDevName and GetHddInfo; free space is swappable between
// cycles.
type camera struct {
	free atomic.Int64
}

func (c *camera) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Query().Get("cmd") {
	case "GetDevName":
		_, _ = w.Write([]byte(`[{"cmd":"GetDevName","code":0,"value":{"DevName":{"name":"Driveway"}}}]`))
	case "GetHddInfo":
		_ = json.NewEncoder(w).Encode([]map[string]any{{
			"cmd":  "GetHddInfo",
			"code": 0,
			"value": map[string]any{
				"HddInfo": []map[string]any{{"capacity": 1000, "size": c.free.Load()}},
			},
		}})
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func testConfig(t *testing.T, cameraURL string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.CamerasFile), []byte("# cams\n"+cameraURL+"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.EmailsFile), []byte("ops@example.com\n"), 0o600))

	return &config.Config{
		DataDir:      dir,
		PollInterval: time.Hour,
		Reolink: config.ReolinkConfig{
			Username:          "admin",
			Password:          "hunter2",
			Timeout:           2 * time.Second,
			RequestsPerSecond: 100,
		},
		// nothing listens on port 1, so mail delivery fails fast
		SMTP:       config.SMTPConfig{Server: "127.0.0.1", Port: 1, From: "cams@example.com"},
		Thresholds: threshold.Default(),
		DBPath:     filepath.Join(dir, "history.db"),
		ListenAddr: "127.0.0.1:0",
		LogLevel:   "info",
	}
}

func TestServerCyclesEndToEnd(t *testing.T) {
	cam := &camera{}
	cam.free.Store(100)

	srv := httptest.NewServer(cam)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)

	s, err := NewServer(cfg, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	report, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.FetchErrors)
	require.Len(t, report.Transitions, 1)
	assert.Equal(t, models.LevelWarning, report.Transitions[0].Level)

	// delivery failed, but the cycle carried on and saved
	require.Len(t, report.NotifyErrors, 1)

	raw, err := os.ReadFile(filepath.Join(cfg.DataDir, config.StatusFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Driveway": 90}`, string(raw))

	cam.free.Store(850)

	report, err = s.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Transitions, 1)
	assert.Equal(t, models.LevelHealthy, report.Transitions[0].Level)

	h := s.Handler()
	require.NotNil(t, h)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transitions", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	var transitions []models.Transition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transitions))
	require.Len(t, transitions, 2)
	assert.Equal(t, models.LevelHealthy, transitions[0].Level)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/devices/Driveway/history", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"percentage":15`)
}

func TestServerStartStopsOnCancel(t *testing.T) {
	cam := &camera{}
	cam.free.Store(500)

	srv := httptest.NewServer(cam)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.DBPath = ""
	cfg.ListenAddr = ""

	s, err := NewServer(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, s.Handler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool {
		return s.State() == monitoring.StateSleepingAfterSuccess
	}, 2*time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Equal(t, monitoring.StateStopped, s.State())
	require.NoError(t, s.Stop(context.Background()))
}

func TestNewServerBootstrapsDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")

	s, err := NewServer(&config.Config{
		DataDir:      dir,
		PollInterval: time.Minute,
		Reolink:      config.ReolinkConfig{Timeout: time.Second, RequestsPerSecond: 1},
		SMTP:         config.SMTPConfig{Port: 465},
		Thresholds:   threshold.Default(),
	}, zap.NewNop())
	require.NoError(t, err)

	for _, name := range []string{config.CamerasFile, config.EmailsFile, config.StatusFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	report, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.DevicesConfigured)
}
