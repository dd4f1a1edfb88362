package config

import (
	"time"
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of config validation.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validate checks the config for invalid values.
func (c *Config) Validate() ValidationResult {
	var errors []ValidationError

	errors = append(errors, validateAPI(&c.API)...)
	errors = append(errors, validateLiveChannel(&c.LiveChannel)...)
	errors = append(errors, validatePoll(&c.Poll)...)
	errors = append(errors, validateNotifications(&c.Notifications)...)
	errors = append(errors, validateStatusServer(&c.StatusServer)...)

	return ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

func validateAPI(a *APIConfig) []ValidationError {
	var errors []ValidationError

	if a.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Message: "must not be empty",
		})
	}

	if a.Timeout < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "api.timeout",
			Message: "must be at least 1 second",
		})
	}

	return errors
}

func validateLiveChannel(lc *LiveChannelConfig) []ValidationError {
	var errors []ValidationError

	if lc.URL == "" {
		errors = append(errors, ValidationError{
			Field:   "live_channel.url",
			Message: "must not be empty",
		})
	}

	if lc.BackoffBase < 100*time.Millisecond {
		errors = append(errors, ValidationError{
			Field:   "live_channel.backoff_base",
			Message: "must be at least 100ms",
		})
	}

	if lc.BackoffMax < lc.BackoffBase {
		errors = append(errors, ValidationError{
			Field:   "live_channel.backoff_max",
			Message: "must be at least backoff_base",
		})
	}

	if lc.PingInterval < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "live_channel.ping_interval",
			Message: "must be at least 1 second",
		})
	}

	return errors
}

func validatePoll(p *PollConfig) []ValidationError {
	var errors []ValidationError

	if p.Interval < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "poll.interval",
			Message: "must be at least 1 second",
		})
	}

	return errors
}

func validateNotifications(n *NotificationsConfig) []ValidationError {
	var errors []ValidationError

	if n.DefaultTTL < 100*time.Millisecond {
		errors = append(errors, ValidationError{
			Field:   "notifications.default_ttl",
			Message: "must be at least 100ms",
		})
	}

	return errors
}

func validateStatusServer(s *StatusServerConfig) []ValidationError {
	var errors []ValidationError

	if s.Enabled && (s.Port < 1 || s.Port > 65535) {
		errors = append(errors, ValidationError{
			Field:   "status_server.port",
			Message: "must be a valid port number",
		})
	}

	return errors
}
