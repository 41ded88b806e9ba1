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

// Package core pkg/core/server.go wires the storage monitor together.
package core

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/mfreeman451/camwatch/pkg/alerts"
	"github.com/mfreeman451/camwatch/pkg/api"
	"github.com/mfreeman451/camwatch/pkg/config"
	"github.com/mfreeman451/camwatch/pkg/db"
	"github.com/mfreeman451/camwatch/pkg/metrics"
	"github.com/mfreeman451/camwatch/pkg/monitoring"
	"github.com/mfreeman451/camwatch/pkg/notifications"
	"github.com/mfreeman451/camwatch/pkg/poller"
	"github.com/mfreeman451/camwatch/pkg/reolink"
	"github.com/mfreeman451/camwatch/pkg/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// NewServer bootstraps the data directory and builds every component from
// cfg. Bootstrap and history-open failures are fatal.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if err := config.Bootstrap(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBootstrap, err)
	}

	lists := config.Lists{Dir: cfg.DataDir}
	store := status.NewFileStore(lists.StatusPath())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		config:   cfg,
		logger:   logger,
		registry: registry,
		metrics:  metrics.New(registry),
		recent:   metrics.NewManager(metrics.DefaultRecentPoints),
	}

	if cfg.DBPath != "" {
		history, err := db.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpenHistory, err)
		}

		s.history = history
		s.retention = db.NewRetentionService(history, db.RetentionConfig{}, logger.Named("retention"))
	}

	if err := s.buildAPI(store); err != nil {
		s.closeHistory()
		return nil, err
	}

	if err := s.buildPoller(lists, store); err != nil {
		s.closeHistory()
		return nil, err
	}

	monitor, err := monitoring.NewMonitor(monitoring.MonitorConfig{Interval: cfg.PollInterval}, logger.Named("monitor"))
	if err != nil {
		s.closeHistory()
		return nil, fmt.Errorf("%w: %w", ErrBuildMonitor, err)
	}

	s.monitor = monitor

	return s, nil
}

func (s *Server) buildAPI(store *status.FileStore) error {
	if s.config.ListenAddr == "" {
		return nil
	}

	opts := &api.Options{
		Status:     store,
		Reports:    reportSource{s},
		State:      stateSource{s},
		Recent:     s.recent,
		Gatherer:   s.registry,
		Thresholds: s.config.Thresholds,
		Logger:     s.logger.Named("api"),
	}

	if s.history != nil {
		opts.History = s.history
	}

	apiServer, err := api.NewAPIServer(opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildAPI, err)
	}

	s.apiServer = apiServer

	return nil
}

func (s *Server) buildPoller(lists config.Lists, store *status.FileStore) error {
	notifier := notifications.NewService(s.logger.Named("notifications"))
	notifier.RegisterHandler(notifications.TargetTypeEmail,
		notifications.NewEmailHandler(&s.config.SMTP, lists, s.logger.Named("email")))

	if s.config.Webhook.URL != "" {
		notifier.RegisterHandler(notifications.TargetTypeWebhook,
			notifications.NewWebhookHandler(s.webhookAlerter(), s.logger.Named("webhook")))
	}

	opts := &poller.Options{
		Devices:    lists,
		Client:     reolink.NewClient(&s.config.Reolink, s.logger.Named("reolink")),
		Store:      store,
		Notifier:   notifier,
		Thresholds: s.config.Thresholds,
		Observer:   s.recent,
		Metrics:    s.metrics,
		Logger:     s.logger.Named("poller"),
	}

	if s.history != nil {
		opts.History = s.history
	}

	if s.apiServer != nil {
		opts.Publisher = s.apiServer
	}

	p, err := poller.New(opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildPoller, err)
	}

	s.poller = p

	return nil
}

func (s *Server) webhookAlerter() *alerts.WebhookAlerter {
	logger := s.logger.Named("alerts")

	if s.config.Webhook.Discord {
		return alerts.NewDiscordWebhook(s.config.Webhook.URL, s.config.Webhook.Cooldown, logger)
	}

	return alerts.NewWebhookAlerter(alerts.WebhookConfig{
		Enabled:  true,
		URL:      s.config.Webhook.URL,
		Cooldown: s.config.Webhook.Cooldown,
	}, logger)
}

// Start runs the scheduler loop, and the history retention loop when history
// is enabled, until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	var wg sync.WaitGroup

	if s.retention != nil {
		wg.Add(1)

		go func() {
			defer wg.Done()
			s.retention.Run(ctx)
		}()
	}

	s.logger.Info("Starting storage monitor",
		zap.String("data_dir", s.config.DataDir),
		zap.Duration("interval", s.config.PollInterval),
		zap.Float64("warning", s.config.Thresholds.Warning),
		zap.Float64("critical", s.config.Thresholds.Critical))

	s.monitor.Run(ctx, s.poller.Check)

	wg.Wait()

	return nil
}

// Stop releases the API subscribers and the history database.
func (s *Server) Stop(_ context.Context) error {
	if s.apiServer != nil {
		s.apiServer.Close()
	}

	return s.closeHistory()
}

func (s *Server) closeHistory() error {
	if s.history == nil {
		return nil
	}

	return s.history.Close()
}

// Handler returns the status API handler, or nil when the API is disabled.
func (s *Server) Handler() http.Handler {
	if s.apiServer == nil {
		return nil
	}

	return s.apiServer.Handler()
}

// RunCycle runs a single poll cycle outside the scheduler loop.
func (s *Server) RunCycle(ctx context.Context) (*poller.CycleReport, error) {
	return s.poller.RunCycle(ctx)
}

func (s *Server) State() monitoring.State {
	return s.monitor.State()
}

type reportSource struct{ s *Server }

func (r reportSource) LastReport() *poller.CycleReport {
	if r.s.poller == nil {
		return nil
	}

	return r.s.poller.LastReport()
}

type stateSource struct{ s *Server }

func (r stateSource) State() monitoring.State {
	if r.s.monitor == nil {
		return monitoring.StateStopped
	}

	return r.s.monitor.State()
}
