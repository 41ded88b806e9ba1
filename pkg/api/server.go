// Package api pkg/api/server.go serves a read-only JSON view of the monitor.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mfreeman451/camwatch/pkg/db"
	httpx "github.com/mfreeman451/camwatch/pkg/http"
	"github.com/mfreeman451/camwatch/pkg/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	defaultLimit   = 100
	maxRecentTrans = 100
)

func NewAPIServer(opts *Options) (*APIServer, error) {
	if opts.Status == nil {
		return nil, ErrSourceRequired
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &APIServer{
		opts:   *opts,
		router: mux.NewRouter(),
		events: newEventHub(logger),
		logger: logger,
	}

	s.setupRoutes()

	return s, nil
}

func (s *APIServer) setupRoutes() {
	s.router.Use(httpx.CommonMiddleware, httpx.LoggingMiddleware(s.logger))

	s.router.HandleFunc("/api/status", s.getSystemStatus).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/api/devices", s.getDevices).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/api/devices/{name}/history", s.getDeviceHistory).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/api/transitions", s.getTransitions).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/api/events", s.events.serveWS).Methods(http.MethodGet)

	if s.opts.Gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
}

// Handler returns the HTTP handler for every route.
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// PublishTransition pushes a fired transition to websocket subscribers and
// keeps it for /api/transitions when no history database is configured.
func (s *APIServer) PublishTransition(t models.Transition) {
	s.mu.Lock()
	s.recent = append(s.recent, t)
	if len(s.recent) > maxRecentTrans {
		s.recent = s.recent[len(s.recent)-maxRecentTrans:]
	}
	s.mu.Unlock()

	s.events.broadcast(t)
}

// Close disconnects all websocket subscribers.
func (s *APIServer) Close() {
	s.events.closeAll()
}

func (s *APIServer) getSystemStatus(w http.ResponseWriter, _ *http.Request) {
	var status SystemStatus

	if s.opts.State != nil {
		status.State = s.opts.State.State()
	}

	if s.opts.Reports != nil {
		if report := s.opts.Reports.LastReport(); report != nil {
			summary := report.Summary()
			status.LastCycle = &summary
		}
	}

	if s.opts.Recent != nil {
		status.ActiveDevices = s.opts.Recent.GetActiveDevices()
	}

	s.writeJSON(w, status)
}

func (s *APIServer) getDevices(w http.ResponseWriter, _ *http.Request) {
	statusMap, err := s.opts.Status.Load()
	if err != nil {
		s.logger.Error("Failed to load status document", zap.Error(err))
		http.Error(w, "status unavailable", http.StatusInternalServerError)

		return
	}

	devices := make([]DeviceStatus, 0, len(statusMap))

	for name, pct := range statusMap {
		devices = append(devices, s.deviceStatus(name, pct))
	}

	// Devices read since start but missing from the file, e.g. after a
	// failed save, are reported from memory.
	if s.opts.Recent != nil {
		for _, name := range s.opts.Recent.Devices() {
			if _, ok := statusMap[name]; ok {
				continue
			}

			if last := s.opts.Recent.GetLastReading(name); last != nil {
				devices = append(devices, s.deviceStatus(name, last.Percentage))
			}
		}
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].Device < devices[j].Device })

	s.writeJSON(w, devices)
}

func (s *APIServer) deviceStatus(name string, pct float64) DeviceStatus {
	ds := DeviceStatus{
		Device:     name,
		Percentage: pct,
		Level:      s.opts.Thresholds.Classify(pct),
	}

	if s.opts.Recent != nil {
		if last := s.opts.Recent.GetLastReading(name); last != nil {
			polled := last.Timestamp
			ds.LastPolled = &polled
		}
	}

	return ds
}

func (s *APIServer) getDeviceHistory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	limit, err := parseLimit(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case s.opts.History != nil:
		points, err := s.opts.History.GetDeviceHistory(name, limit)
		if err != nil {
			s.logger.Error("Failed to read device history", zap.String("device", name), zap.Error(err))
			http.Error(w, "history unavailable", http.StatusInternalServerError)

			return
		}

		if points == nil {
			points = []db.ReadingPoint{}
		}

		s.writeJSON(w, points)
	case s.opts.Recent != nil:
		samples := s.opts.Recent.GetReadings(name)
		if len(samples) > limit {
			samples = samples[:limit]
		}

		points := make([]db.ReadingPoint, 0, len(samples))
		for _, p := range samples {
			points = append(points, db.ReadingPoint{
				Device:     name,
				Percentage: p.Percentage,
				Timestamp:  p.Timestamp,
			})
		}

		s.writeJSON(w, points)
	default:
		http.Error(w, ErrHistoryDisabled.Error(), http.StatusServiceUnavailable)
	}
}

func (s *APIServer) getTransitions(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if s.opts.History != nil {
		transitions, err := s.opts.History.GetTransitions(limit)
		if err != nil {
			s.logger.Error("Failed to read transitions", zap.Error(err))
			http.Error(w, "history unavailable", http.StatusInternalServerError)

			return
		}

		if transitions == nil {
			transitions = []models.Transition{}
		}

		s.writeJSON(w, transitions)

		return
	}

	s.mu.RLock()
	transitions := make([]models.Transition, 0, min(limit, len(s.recent)))
	for i := len(s.recent) - 1; i >= 0 && len(transitions) < limit; i-- {
		transitions = append(transitions, s.recent[i])
	}
	s.mu.RUnlock()

	s.writeJSON(w, transitions)
}

func (s *APIServer) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Error encoding response", zap.Error(err))
	}
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errors.Join(ErrInvalidLimit, err)
	}

	return limit, nil
}
