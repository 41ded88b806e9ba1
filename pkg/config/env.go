/*-
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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mfreeman451/camwatch/pkg/threshold"
	"github.com/spf13/viper"
)

const (
	DefaultEnvFile      = ".env"
	DefaultDataDir      = "data"
	DefaultPollInterval = 10 * time.Minute
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultDeviceRate   = 5.0
	DefaultSMTPPort     = 465
	DefaultSMTPTimeout  = time.Minute
	DefaultLogLevel     = "info"

	implicitTLSPort = 465
	maxPort         = 65535
)

// Environment keys. Viper matches them case-insensitively against both the
// env file and the process environment.
const (
	keyReolinkUsername   = "REOLINK_USERNAME"
	keyReolinkPassword   = "REOLINK_PASSWORD"
	keySMTPServer        = "SMTP_SERVER"
	keySMTPPort          = "SMTP_PORT"
	keySMTPUsername      = "SMTP_USERNAME"
	keySMTPPassword      = "SMTP_PASSWORD"
	keySMTPFrom          = "SMTP_FROM"
	keySMTPSSL           = "SMTP_SSL"
	keySMTPTimeout       = "CAMWATCH_SMTP_TIMEOUT"
	keyDataDir           = "CAMWATCH_DATA_DIR"
	keyPollInterval      = "CAMWATCH_POLL_INTERVAL"
	keyHTTPTimeout       = "CAMWATCH_HTTP_TIMEOUT"
	keyDeviceRate        = "CAMWATCH_DEVICE_RATE"
	keyWarningThreshold  = "CAMWATCH_WARNING_THRESHOLD"
	keyCriticalThreshold = "CAMWATCH_CRITICAL_THRESHOLD"
	keyDBPath            = "CAMWATCH_DB_PATH"
	keyListenAddr        = "CAMWATCH_LISTEN_ADDR"
	keyWebhookURL        = "CAMWATCH_WEBHOOK_URL"
	keyWebhookDiscord    = "CAMWATCH_WEBHOOK_DISCORD"
	keyWebhookCooldown   = "CAMWATCH_WEBHOOK_COOLDOWN"
	keyLogLevel          = "CAMWATCH_LOG_LEVEL"
)

// Load reads the configuration from ./.env (if present) and the process
// environment, which takes precedence.
func Load() (*Config, error) {
	return LoadFrom(DefaultEnvFile)
}

// LoadFrom is Load with an explicit env file path. An empty path or a
// missing file is not an error.
func LoadFrom(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := readEnvFile(v, envFile); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyDataDir, DefaultDataDir)
	v.SetDefault(keyPollInterval, DefaultPollInterval.String())
	v.SetDefault(keyHTTPTimeout, DefaultHTTPTimeout.String())
	v.SetDefault(keyDeviceRate, DefaultDeviceRate)
	v.SetDefault(keySMTPPort, DefaultSMTPPort)
	v.SetDefault(keySMTPTimeout, DefaultSMTPTimeout.String())
	v.SetDefault(keyWarningThreshold, threshold.DefaultWarning)
	v.SetDefault(keyCriticalThreshold, threshold.DefaultCritical)
	v.SetDefault(keyWebhookCooldown, "0s")
	v.SetDefault(keyLogLevel, DefaultLogLevel)
}

func readEnvFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("%w '%s': %w", ErrReadEnvFile, path, err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w '%s': %w", ErrReadEnvFile, path, err)
	}

	return nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	pollInterval, err := parseDuration(v.GetString(keyPollInterval))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", keyPollInterval, err)
	}

	timeout, err := parseDuration(v.GetString(keyHTTPTimeout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", keyHTTPTimeout, err)
	}

	cooldown, err := parseDuration(v.GetString(keyWebhookCooldown))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", keyWebhookCooldown, err)
	}

	smtpTimeout, err := parseDuration(v.GetString(keySMTPTimeout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", keySMTPTimeout, err)
	}

	port := v.GetInt(keySMTPPort)

	ssl := port == implicitTLSPort
	if v.IsSet(keySMTPSSL) {
		ssl = v.GetBool(keySMTPSSL)
	}

	return &Config{
		DataDir:      v.GetString(keyDataDir),
		PollInterval: pollInterval,
		Reolink: ReolinkConfig{
			Username:          v.GetString(keyReolinkUsername),
			Password:          v.GetString(keyReolinkPassword),
			Timeout:           timeout,
			RequestsPerSecond: v.GetFloat64(keyDeviceRate),
		},
		SMTP: SMTPConfig{
			Server:   v.GetString(keySMTPServer),
			Port:     port,
			Username: v.GetString(keySMTPUsername),
			Password: v.GetString(keySMTPPassword),
			From:     v.GetString(keySMTPFrom),
			SSL:      ssl,
			Timeout:  smtpTimeout,
		},
		Thresholds: threshold.Thresholds{
			Warning:  v.GetFloat64(keyWarningThreshold),
			Critical: v.GetFloat64(keyCriticalThreshold),
		},
		DBPath:     v.GetString(keyDBPath),
		ListenAddr: v.GetString(keyListenAddr),
		Webhook: WebhookConfig{
			URL:      v.GetString(keyWebhookURL),
			Discord:  v.GetBool(keyWebhookDiscord),
			Cooldown: cooldown,
		},
		LogLevel: strings.ToLower(v.GetString(keyLogLevel)),
	}, nil
}

// parseDuration accepts Go duration strings; a bare integer is seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	return d, nil
}

// Validate implements Validator.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data dir is required", ErrInvalidConfig)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	}

	if c.Reolink.Timeout <= 0 {
		return fmt.Errorf("%w: http timeout must be positive", ErrInvalidConfig)
	}

	if c.Reolink.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: device rate must be positive", ErrInvalidConfig)
	}

	if c.SMTP.Port < 1 || c.SMTP.Port > maxPort {
		return fmt.Errorf("%w: smtp port %d out of range", ErrInvalidConfig, c.SMTP.Port)
	}

	if c.SMTP.Timeout <= 0 {
		return fmt.Errorf("%w: smtp timeout must be positive", ErrInvalidConfig)
	}

	if c.Webhook.Cooldown < 0 {
		return fmt.Errorf("%w: webhook cooldown must not be negative", ErrInvalidConfig)
	}

	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
