package config

import (
	"time"

	"github.com/mfreeman451/camwatch/pkg/threshold"
)

// ReolinkConfig holds the static device credentials and request limits.
type ReolinkConfig struct {
	Username          string        `json:"username"`
	Password          string        `json:"-"`
	Timeout           time.Duration `json:"timeout"`
	RequestsPerSecond float64       `json:"requests_per_second"`
}

// SMTPConfig describes the outbound mail transport.
type SMTPConfig struct {
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
	From     string `json:"from"`
	SSL      bool   `json:"ssl"` // true = implicit TLS (465), false = STARTTLS when offered

	// Timeout bounds one notification event: dial, handshake and every send.
	Timeout time.Duration `json:"timeout"`
}

// WebhookConfig enables the optional webhook alert channel.
type WebhookConfig struct {
	URL      string        `json:"url"`
	Discord  bool          `json:"discord"`
	Cooldown time.Duration `json:"cooldown"`
}

// Config is the process configuration, built once at start.
type Config struct {
	DataDir      string               `json:"data_dir"`
	PollInterval time.Duration        `json:"poll_interval"`
	Reolink      ReolinkConfig        `json:"reolink"`
	SMTP         SMTPConfig           `json:"smtp"`
	Thresholds   threshold.Thresholds `json:"thresholds"`
	DBPath       string               `json:"db_path"`
	ListenAddr   string               `json:"listen_addr"`
	Webhook      WebhookConfig        `json:"webhook"`
	LogLevel     string               `json:"log_level"`
}
