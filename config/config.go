package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Environment
	IsProd bool `json:"is_prod"`

	// Dashboard backend API
	API APIConfig `json:"api"`

	// Live channel (WebSocket push feed)
	LiveChannel LiveChannelConfig `json:"live_channel"`

	// Fixed-cadence polling fallback
	Poll PollConfig `json:"poll"`

	// Preference persistence
	Prefs PrefsConfig `json:"prefs"`

	// Notification defaults
	Notifications NotificationsConfig `json:"notifications"`

	// Discord alert mirror - token excluded from serialized settings (env var only)
	Discord DiscordConfig `json:"discord"`

	// Status server
	StatusServer StatusServerConfig `json:"status_server"`
}

// APIConfig holds dashboard backend API configuration.
type APIConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// LiveChannelConfig holds live channel configuration.
type LiveChannelConfig struct {
	URL              string        `json:"url"`
	PingInterval     time.Duration `json:"ping_interval"`
	HandshakeTimeout time.Duration `json:"handshake_timeout"`
	BackoffBase      time.Duration `json:"backoff_base"`
	BackoffMax       time.Duration `json:"backoff_max"`
}

// PollConfig holds the fixed polling fallback configuration.
type PollConfig struct {
	Interval time.Duration `json:"interval"`
}

// PrefsConfig holds preference store configuration.
type PrefsConfig struct {
	FilePath string `json:"file_path"`
}

// NotificationsConfig holds notification queue configuration.
type NotificationsConfig struct {
	DefaultTTL time.Duration `json:"default_ttl"`
}

// DiscordConfig holds the optional Discord alert mirror configuration.
type DiscordConfig struct {
	BotToken  string `json:"-"` // Excluded - env var only
	ChannelID string `json:"channel_id"`
}

// StatusServerConfig holds status/health server configuration.
type StatusServerConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

// Defaults returns a config with hardcoded default values.
func Defaults() *Config {
	return &Config{
		IsProd: false,
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		LiveChannel: LiveChannelConfig{
			URL:              "ws://localhost:8080/ws",
			PingInterval:     10 * time.Second,
			HandshakeTimeout: 10 * time.Second,
			BackoffBase:      1 * time.Second,
			BackoffMax:       60 * time.Second,
		},
		Poll: PollConfig{
			Interval: 5 * time.Second,
		},
		Prefs: PrefsConfig{
			FilePath: "dashboard_prefs.json",
		},
		Notifications: NotificationsConfig{
			DefaultTTL: 5 * time.Second,
		},
		Discord: DiscordConfig{},
		StatusServer: StatusServerConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// Load loads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		IsProd: envBool("STAGE", "PROD"),

		API: APIConfig{
			BaseURL: envString("DASHBOARD_API_URL", "http://localhost:8080"),
			Timeout: envDuration("DASHBOARD_API_TIMEOUT", 30*time.Second),
		},

		LiveChannel: LiveChannelConfig{
			URL:              envString("LIVE_CHANNEL_URL", "ws://localhost:8080/ws"),
			PingInterval:     envDuration("LIVE_CHANNEL_PING_INTERVAL", 10*time.Second),
			HandshakeTimeout: envDuration("LIVE_CHANNEL_HANDSHAKE_TIMEOUT", 10*time.Second),
			BackoffBase:      envDuration("LIVE_CHANNEL_BACKOFF_BASE", 1*time.Second),
			BackoffMax:       envDuration("LIVE_CHANNEL_BACKOFF_MAX", 60*time.Second),
		},

		Poll: PollConfig{
			Interval: envDuration("POLL_INTERVAL", 5*time.Second),
		},

		Prefs: PrefsConfig{
			FilePath: envString("PREFS_FILE_PATH", "dashboard_prefs.json"),
		},

		Notifications: NotificationsConfig{
			DefaultTTL: envDuration("NOTIFICATION_DEFAULT_TTL", 5*time.Second),
		},

		Discord: DiscordConfig{
			BotToken:  envString("DISCORD_BOT_TOKEN", ""),
			ChannelID: envString("DISCORD_ALERT_CHANNEL_ID", ""),
		},

		StatusServer: StatusServerConfig{
			Enabled: envBoolDefault("STATUS_SERVER_ENABLED", true),
			Port:    envInt("STATUS_SERVER_PORT", 9090),
		},
	}
}

// Helper functions for parsing environment variables

func envString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func envBool(key, trueValue string) bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(key)), trueValue)
}

func envBoolDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "1") || strings.EqualFold(v, "yes")
}
