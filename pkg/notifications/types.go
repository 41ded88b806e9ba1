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
	"time"

	"github.com/mfreeman451/camwatch/pkg/models"
)

// TargetType identifies a delivery channel.
type TargetType string

const (
	TargetTypeEmail   TargetType = "email"
	TargetTypeWebhook TargetType = "webhook"
)

// Message is a rendered notification, shared by every target.
type Message struct {
	Device    string                `json:"device"`
	Level     models.Level          `json:"level"`
	Subject   string                `json:"subject"`
	Body      string                `json:"body"`
	Reading   models.StorageReading `json:"reading"`
	Timestamp time.Time             `json:"timestamp"`
}
