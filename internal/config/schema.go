package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version   int             `yaml:"version"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Canvas    CanvasConfig    `yaml:"canvas"`
	Generator GeneratorConfig `yaml:"generator"`
	Inbox     InboxConfig     `yaml:"inbox"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string   `yaml:"addr" validate:"required"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string `yaml:"allowed_origins,omitempty"`
	MaxSessions     int      `yaml:"max_sessions" validate:"gte=1"`
	SessionTTL      Duration `yaml:"session_ttl"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// LogConfig selects the logger flavor
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// CanvasConfig holds the drawing surface and layout defaults
type CanvasConfig struct {
	Width       int     `yaml:"width" validate:"gte=1,lte=8192"`
	Height      int     `yaml:"height" validate:"gte=1,lte=8192"`
	BaseRadius  float64 `yaml:"base_radius" validate:"gte=0"` // 0 derives from surface size
	ChildRadius float64 `yaml:"child_radius" validate:"gt=0"`
	FanStep     float64 `yaml:"fan_step" validate:"gt=0"`
}

// GeneratorConfig configures topic expansion providers. Providers are tried
// in order; the static provider is always appended as the last resort.
type GeneratorConfig struct {
	Providers []ProviderConfig `yaml:"providers" validate:"dive"`
	Timeout   Duration         `yaml:"timeout"`
	Breaker   BreakerConfig    `yaml:"breaker"`
}

// ProviderConfig is one topic expansion backend
type ProviderConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Kind    string `yaml:"kind" validate:"oneof=openai gemini static"`
	BaseURL string `yaml:"base_url,omitempty" validate:"omitempty,url"`
	Model   string `yaml:"model,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
}

// BreakerConfig tunes the per-provider circuit breaker
type BreakerConfig struct {
	MaxRequests  uint32   `yaml:"max_requests"`
	Interval     Duration `yaml:"interval"`
	Timeout      Duration `yaml:"timeout"`
	MinRequests  uint32   `yaml:"min_requests"`
	FailureRatio float64  `yaml:"failure_ratio" validate:"gte=0,lte=1"`
}

// InboxConfig configures the watched import directory
type InboxConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir" validate:"required_if=Enabled true"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
