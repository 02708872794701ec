package config

import "time"

// SessionConfig configures the browser session.
type SessionConfig struct {
	// TokenTTL is the lifetime of the auth cookie.
	TokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"168h"`

	// MinTokenLength is the shortest token accepted without asking the API.
	MinTokenLength int `env:"SESSION_MIN_TOKEN_LENGTH" envDefault:"10"`

	// ProfileCacheTTL bounds how long a fetched profile is reused.
	ProfileCacheTTL time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"60s"`
}

// Sanitize applies defaults to non-positive values.
func (c *SessionConfig) Sanitize() {
	if c.TokenTTL <= 0 {
		c.TokenTTL = 7 * 24 * time.Hour
	}
	if c.MinTokenLength <= 0 {
		c.MinTokenLength = 10
	}
	if c.ProfileCacheTTL <= 0 {
		c.ProfileCacheTTL = time.Minute
	}
}
