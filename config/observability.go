package config

import "strings"

// MetricsConfig controls the optional StatsD sink.
type MetricsConfig struct {
	// Enabled turns metric emission on.
	Enabled bool `env:"ENABLED" envDefault:"false"`

	// StatsdAddr is the UDP host:port of the StatsD agent.
	StatsdAddr string `env:"STATSD_ADDR" envDefault:"127.0.0.1:8125"`

	// Prefix is prepended to every metric name.
	Prefix string `env:"PREFIX" envDefault:"libris"`

	// Env is attached to every metric as the "env" tag when set.
	Env string `env:"ENV" envDefault:""`
}

// Sanitize trims values and disables metrics that have nowhere to go.
func (m *MetricsConfig) Sanitize() {
	m.StatsdAddr = strings.TrimSpace(m.StatsdAddr)
	m.Prefix = strings.Trim(strings.TrimSpace(m.Prefix), ".")
	m.Env = strings.TrimSpace(m.Env)
	if m.StatsdAddr == "" {
		m.Enabled = false
	}
}

// GlobalTags returns the tags attached to every metric.
func (m MetricsConfig) GlobalTags() map[string]string {
	if m.Env == "" {
		return nil
	}
	return map[string]string{"env": m.Env}
}
