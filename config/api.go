package config

import (
	"strings"
	"time"
)

const (
	minAPITimeout     = time.Second
	maxAPITimeout     = 2 * time.Minute
	defaultAPITimeout = 30 * time.Second
	defaultAPIBaseURL = "http://localhost:8000/api"
)

// APIConfig configures the library REST API client.
type APIConfig struct {
	// BaseURL is the API root, including the /api prefix.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`

	// Timeout bounds every API call.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
}

// Sanitize trims the base URL and clamps the timeout.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultAPIBaseURL
	}
	switch {
	case c.Timeout <= 0:
		c.Timeout = defaultAPITimeout
	case c.Timeout < minAPITimeout:
		c.Timeout = minAPITimeout
	case c.Timeout > maxAPITimeout:
		c.Timeout = maxAPITimeout
	}
}
