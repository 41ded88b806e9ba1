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

package notifications

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mfreeman451/camwatch/pkg/models"
	"go.uber.org/zap"
)

// Service renders a transition once and hands it to every registered
// target. It implements Notifier.
type Service struct {
	handlers  map[TargetType]NotificationHandler
	handlerMu sync.RWMutex
	logger    *zap.Logger
}

// NewService creates a new notification service.
func NewService(logger *zap.Logger) *Service {
	return &Service{
		handlers: make(map[TargetType]NotificationHandler),
		logger:   logger,
	}
}

// RegisterHandler registers a notification handler for a specific target type.
func (s *Service) RegisterHandler(targetType TargetType, handler NotificationHandler) {
	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()

	s.handlers[targetType] = handler
}

// Notify delivers to all targets, in target-name order. One target failing
// does not stop the others; all failures are joined into the result.
func (s *Service) Notify(ctx context.Context, reading models.StorageReading, level models.Level) error {
	msg, err := Render(reading, level)
	if err != nil {
		return err
	}

	s.handlerMu.RLock()
	handlers := make(map[TargetType]NotificationHandler, len(s.handlers))
	for t, h := range s.handlers {
		handlers[t] = h
	}
	s.handlerMu.RUnlock()

	if len(handlers) == 0 {
		return ErrNoHandlers
	}

	targets := make([]TargetType, 0, len(handlers))
	for t := range handlers {
		targets = append(targets, t)
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

	var errs []error

	for _, target := range targets {
		if err := handlers[target].SendNotification(ctx, msg); err != nil {
			s.logger.Error("Notification delivery failed",
				zap.String("target", string(target)),
				zap.String("device", msg.Device),
				zap.Stringer("level", level),
				zap.Error(err))

			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrHandlerError, target, err))

			continue
		}

		s.logger.Info("Notification delivered",
			zap.String("target", string(target)),
			zap.String("device", msg.Device),
			zap.Stringer("level", level))
	}

	return errors.Join(errs...)
}
