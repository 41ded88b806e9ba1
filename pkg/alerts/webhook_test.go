package alerts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureServer struct {
	mu      sync.Mutex
	bodies  [][]byte
	headers []http.Header
	status  int
}

func (c *captureServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	c.mu.Lock()
	c.bodies = append(c.bodies, body)
	c.headers = append(c.headers, r.Header.Clone())
	status := c.status
	c.mu.Unlock()

	if status == 0 {
		status = http.StatusNoContent
	}

	w.WriteHeader(status)
}

func (c *captureServer) Bodies() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([][]byte(nil), c.bodies...)
}

func testAlert() *WebhookAlert {
	return &WebhookAlert{
		Level:   Warning,
		Title:   "[Reolink Camera] Garage: Storage level is getting low",
		Message: "Status: Garage: 820.00GB/1000.00GB (82.00%)",
		Device:  "Garage",
		Details: map[string]any{"percentage": 82.0},
	}
}

func TestWebhookAlerterPlainJSON(t *testing.T) {
	capture := &captureServer{}
	srv := httptest.NewServer(capture)
	defer srv.Close()

	alerter := NewWebhookAlerter(WebhookConfig{
		Enabled: true,
		URL:     srv.URL,
		Headers: []Header{{Key: "X-Token", Value: "abc"}},
	}, zap.NewNop())

	require.NoError(t, alerter.Alert(context.Background(), testAlert()))

	bodies := capture.Bodies()
	require.Len(t, bodies, 1)

	var got WebhookAlert
	require.NoError(t, json.Unmarshal(bodies[0], &got))
	assert.Equal(t, Warning, got.Level)
	assert.Equal(t, "Garage", got.Device)
	assert.NotEmpty(t, got.Timestamp)

	capture.mu.Lock()
	defer capture.mu.Unlock()
	assert.Equal(t, "abc", capture.headers[0].Get("X-Token"))
	assert.Equal(t, "application/json", capture.headers[0].Get("Content-Type"))
}

func TestWebhookAlerterDiscordTemplate(t *testing.T) {
	capture := &captureServer{}
	srv := httptest.NewServer(capture)
	defer srv.Close()

	alerter := NewDiscordWebhook(srv.URL, 0, zap.NewNop())
	require.NoError(t, alerter.Alert(context.Background(), testAlert()))

	bodies := capture.Bodies()
	require.Len(t, bodies, 1)

	var payload struct {
		Embeds []struct {
			Title  string `json:"title"`
			Color  int    `json:"color"`
			Fields []struct {
				Name  string `json:"name"`
				Value any    `json:"value"`
			} `json:"fields"`
		} `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(bodies[0], &payload))
	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, 16776960, payload.Embeds[0].Color)
	require.Len(t, payload.Embeds[0].Fields, 2)
	assert.Equal(t, "Device", payload.Embeds[0].Fields[0].Name)
	assert.Equal(t, "Garage", payload.Embeds[0].Fields[0].Value)
}

func TestWebhookAlerterCooldown(t *testing.T) {
	capture := &captureServer{}
	srv := httptest.NewServer(capture)
	defer srv.Close()

	alerter := NewWebhookAlerter(WebhookConfig{Enabled: true, URL: srv.URL, Cooldown: time.Hour}, zap.NewNop())

	require.NoError(t, alerter.Alert(context.Background(), testAlert()))
	require.ErrorIs(t, alerter.Alert(context.Background(), testAlert()), ErrWebhookCooldown)
	assert.Len(t, capture.Bodies(), 1)
}

func TestWebhookAlerterErrors(t *testing.T) {
	capture := &captureServer{status: http.StatusBadGateway}
	srv := httptest.NewServer(capture)
	defer srv.Close()

	disabled := NewWebhookAlerter(WebhookConfig{URL: srv.URL}, zap.NewNop())
	require.ErrorIs(t, disabled.Alert(context.Background(), testAlert()), ErrWebhookDisabled)

	failing := NewWebhookAlerter(WebhookConfig{Enabled: true, URL: srv.URL}, zap.NewNop())
	require.ErrorIs(t, failing.Alert(context.Background(), testAlert()), ErrWebhookStatus)

	badTemplate := NewWebhookAlerter(WebhookConfig{Enabled: true, URL: srv.URL, Template: "{{"}, zap.NewNop())
	require.ErrorIs(t, badTemplate.Alert(context.Background(), testAlert()), ErrTemplateParse)

	notJSON := NewWebhookAlerter(WebhookConfig{Enabled: true, URL: srv.URL, Template: "hello {{.alert.Device}}"}, zap.NewNop())
	require.ErrorIs(t, notJSON.Alert(context.Background(), testAlert()), ErrInvalidJSON)
}
