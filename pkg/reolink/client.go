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

// Package reolink pkg/reolink/client.go talks to the camera HTTP API.
//
// The API takes the username and password as cleartext query parameters.
// That is a property of the device firmware; use HTTPS addresses where the
// camera supports it.
package reolink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mfreeman451/camwatch/pkg/config"
	"github.com/mfreeman451/camwatch/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiPath         = "/api.cgi"
	maxResponseSize = 1 << 20
	redacted        = "xxxxx"
)

// Client fetches storage readings from cameras. Requests are issued one at a
// time, paced by a rate limiter and bounded by the configured timeout.
type Client struct {
	cfg        *config.ReolinkConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewClient(cfg *config.ReolinkConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		logger:  logger,
	}
}

// FetchReading looks up storage info and then the device name, and combines
// them. A failure in either step discards the whole reading.
func (c *Client) FetchReading(ctx context.Context, address string) (models.StorageReading, error) {
	info, err := c.FetchStorageInfo(ctx, address)
	if err != nil {
		return models.StorageReading{}, err
	}

	name, err := c.FetchDeviceName(ctx, address)
	if err != nil {
		return models.StorageReading{}, err
	}

	return models.NewStorageReading(name, info.Capacity, info.Size), nil
}

// FetchDeviceName returns value.DevName.name of the first response element.
func (c *Client) FetchDeviceName(ctx context.Context, address string) (string, error) {
	var v devNameValue

	if err := c.call(ctx, address, cmdGetDevName, &v); err != nil {
		return "", &DeviceError{Op: opDevName, Address: address, Wrapped: err}
	}

	if v.DevName == nil || v.DevName.Name == nil {
		return "", &DeviceError{
			Op:      opDevName,
			Address: address,
			Wrapped: fmt.Errorf("%w: DevName.name", ErrMissingField),
		}
	}

	return *v.DevName.Name, nil
}

// FetchStorageInfo returns capacity and size of the first HddInfo entry.
func (c *Client) FetchStorageInfo(ctx context.Context, address string) (StorageInfo, error) {
	var v hddInfoValue

	if err := c.call(ctx, address, cmdGetHddInfo, &v); err != nil {
		return StorageInfo{}, &DeviceError{Op: opHddInfo, Address: address, Wrapped: err}
	}

	if len(v.HddInfo) == 0 {
		return StorageInfo{}, &DeviceError{
			Op:      opHddInfo,
			Address: address,
			Wrapped: fmt.Errorf("%w: HddInfo[0]", ErrMissingField),
		}
	}

	hdd := v.HddInfo[0]
	if hdd.Capacity == nil || hdd.Size == nil {
		return StorageInfo{}, &DeviceError{
			Op:      opHddInfo,
			Address: address,
			Wrapped: fmt.Errorf("%w: HddInfo[0].capacity/size", ErrMissingField),
		}
	}

	return StorageInfo{Capacity: *hdd.Capacity, Size: *hdd.Size}, nil
}

// call issues one api.cgi command and decodes the value object of the first
// response element into dst.
func (c *Client) call(ctx context.Context, address, cmd string, dst interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.commandURL(address, cmd, c.cfg.Password), http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}

	c.logger.Debug("Querying device",
		zap.String("cmd", cmd),
		zap.String("url", c.commandURL(address, cmd, redacted)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, redactError(err, c.cfg.Password))
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", zap.Error(err))
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status=%d", ErrStatus, resp.StatusCode)
	}

	var elements []apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&elements); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if len(elements) == 0 {
		return ErrEmptyResponse
	}

	first := elements[0]
	if first.Error != nil || first.Code != 0 {
		detail := ""
		if first.Error != nil {
			detail = first.Error.Detail
		}

		return fmt.Errorf("%w: cmd=%s code=%d detail=%q", ErrDeviceAPI, first.Cmd, first.Code, detail)
	}

	if len(first.Value) == 0 {
		return fmt.Errorf("%w: value", ErrMissingField)
	}

	if err := json.Unmarshal(first.Value, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return nil
}

func (c *Client) commandURL(address, cmd, password string) string {
	q := url.Values{}
	q.Set("cmd", cmd)
	q.Set("user", c.cfg.Username)
	q.Set("password", password)

	return strings.TrimRight(address, "/") + apiPath + "?" + q.Encode()
}

// redactError strips the password from transport errors, which embed the
// full request URL.
func redactError(err error, password string) error {
	if password == "" {
		return err
	}

	msg := err.Error()
	escaped := url.QueryEscape(password)

	if !strings.Contains(msg, escaped) && !strings.Contains(msg, password) {
		return err
	}

	msg = strings.ReplaceAll(msg, escaped, redacted)
	msg = strings.ReplaceAll(msg, password, redacted)

	return &redactedError{msg: msg, wrapped: err}
}

type redactedError struct {
	msg     string
	wrapped error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.wrapped }
