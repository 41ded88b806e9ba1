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

// Package notifications delivers storage level transitions to subscribers.
package notifications

import (
	"context"

	"github.com/mfreeman451/camwatch/pkg/models"
	"gopkg.in/gomail.v2"
)

// Notifier announces a level transition for a reading.
type Notifier interface {
	Notify(ctx context.Context, reading models.StorageReading, level models.Level) error
}

// NotificationHandler is the interface that notification targets must implement.
type NotificationHandler interface {
	// SendNotification delivers a rendered message to the target.
	SendNotification(ctx context.Context, msg *Message) error
}

// SubscriberSource yields the current subscriber addresses.
type SubscriberSource interface {
	Subscribers() ([]string, error)
}

// Dialer opens one authenticated mail session. *gomail.Dialer satisfies it.
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}
