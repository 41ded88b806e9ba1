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

import "errors"

var (
	// ErrRender is returned when a message template fails to execute.
	ErrRender = errors.New("failed to render notification")

	// ErrHandlerError is returned when a target fails to deliver a message.
	ErrHandlerError = errors.New("handler failed to deliver notification")

	// ErrNoHandlers is returned when Notify is called with nothing registered.
	ErrNoHandlers = errors.New("no notification handlers registered")

	// ErrSubscribers is returned when the subscriber list cannot be read.
	ErrSubscribers = errors.New("failed to load subscribers")

	// ErrDial is returned when the mail session cannot be opened.
	ErrDial = errors.New("failed to open mail session")

	// ErrSend is returned when the transport rejects a message.
	ErrSend = errors.New("failed to send email")
)
