package db

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultCleanupInterval = time.Hour

// Cleaner is the part of Service the retention loop needs.
type Cleaner interface {
	CleanOldData(retentionPeriod time.Duration) error
}

// RetentionConfig controls how often history is pruned and how much is kept.
type RetentionConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// RetentionService periodically removes history older than the retention
// period.
type RetentionService struct {
	cleaner Cleaner
	config  RetentionConfig
	logger  *zap.Logger
}

// NewRetentionService creates a new retention service.
func NewRetentionService(cleaner Cleaner, config RetentionConfig, logger *zap.Logger) *RetentionService {
	if config.Interval == 0 {
		config.Interval = defaultCleanupInterval
	}

	if config.Retention == 0 {
		config.Retention = DefaultRetention
	}

	return &RetentionService{
		cleaner: cleaner,
		config:  config,
		logger:  logger,
	}
}

// Run cleans once immediately and then on every interval until ctx is done.
func (s *RetentionService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("History retention service stopped")
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *RetentionService) cleanup() {
	if err := s.cleaner.CleanOldData(s.config.Retention); err != nil {
		s.logger.Error("History cleanup failed", zap.Error(err))
		return
	}

	s.logger.Debug("History cleanup completed", zap.Duration("retention", s.config.Retention))
}
