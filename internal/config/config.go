// Package config provides configuration management for mindcanvas.
//
// The config file holds how the server runs (listen address, database path,
// canvas defaults, generator providers). Mind maps themselves live in the
// database.
//
// Config file locations (priority order):
//  1. $MINDCANVAS_CONFIG
//  2. ./mindcanvas.yaml
//  3. $XDG_CONFIG_HOME/mindcanvas/config.yaml
//  4. ~/.config/mindcanvas/config.yaml
//  5. /etc/mindcanvas/config.yaml
//
// API keys may be supplied through MINDCANVAS_OPENAI_API_KEY and
// MINDCANVAS_GEMINI_API_KEY instead of the file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// EnvOpenAIKey supplies the key for openai-kind providers without one
	EnvOpenAIKey = "MINDCANVAS_OPENAI_API_KEY"
	// EnvGeminiKey supplies the key for gemini-kind providers without one
	EnvGeminiKey = "MINDCANVAS_GEMINI_API_KEY"
)

// Provider kinds
const (
	KindOpenAI = "openai"
	KindGemini = "gemini"
	KindStatic = "static"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// Validate checks field constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(15 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(60 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Server.MaxSessions == 0 {
		c.Server.MaxSessions = 256
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = Duration(2 * time.Hour)
	}

	if c.Database.Path == "" {
		c.Database.Path = "./mindcanvas.db"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}

	if c.Canvas.Width == 0 {
		c.Canvas.Width = 1200
	}
	if c.Canvas.Height == 0 {
		c.Canvas.Height = 800
	}
	if c.Canvas.ChildRadius == 0 {
		c.Canvas.ChildRadius = 120
	}
	if c.Canvas.FanStep == 0 {
		c.Canvas.FanStep = 0.4
	}

	if c.Generator.Timeout == 0 {
		c.Generator.Timeout = Duration(30 * time.Second)
	}
	if len(c.Generator.Providers) == 0 {
		c.Generator.Providers = []ProviderConfig{
			{Name: "groq", Kind: KindOpenAI, BaseURL: "https://api.groq.com/openai/v1", Model: "llama-3.1-8b-instant"},
			{Name: "gemini", Kind: KindGemini, Model: "gemini-2.0-flash"},
		}
	}
	b := &c.Generator.Breaker
	if b.MaxRequests == 0 {
		b.MaxRequests = 1
	}
	if b.Interval == 0 {
		b.Interval = Duration(time.Minute)
	}
	if b.Timeout == 0 {
		b.Timeout = Duration(30 * time.Second)
	}
	if b.MinRequests == 0 {
		b.MinRequests = 3
	}
	if b.FailureRatio == 0 {
		b.FailureRatio = 0.6
	}

	if c.Inbox.Dir == "" {
		c.Inbox.Dir = "./inbox"
	}
}

// applyEnv fills provider API keys from the environment
func (c *Config) applyEnv() {
	openaiKey := os.Getenv(EnvOpenAIKey)
	geminiKey := os.Getenv(EnvGeminiKey)
	for i := range c.Generator.Providers {
		p := &c.Generator.Providers[i]
		if p.APIKey != "" {
			continue
		}
		switch p.Kind {
		case KindOpenAI:
			p.APIKey = openaiKey
		case KindGemini:
			p.APIKey = geminiKey
		}
	}
}

// ConfiguredProviders returns the providers that can actually be called:
// static ones plus those with an API key
func (c *Config) ConfiguredProviders() []ProviderConfig {
	var out []ProviderConfig
	for _, p := range c.Generator.Providers {
		if p.Kind == KindStatic || p.APIKey != "" {
			out = append(out, p)
		}
	}
	return out
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	var names []string
	for _, p := range c.ConfiguredProviders() {
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		names = append(names, "static only")
	}

	summary := fmt.Sprintf("Listen: %s, Database: %s\n", c.Server.Addr, c.Database.Path)
	summary += fmt.Sprintf("Canvas: %dx%d, Log: %s/%s\n", c.Canvas.Width, c.Canvas.Height, c.Log.Level, c.Log.Format)
	summary += fmt.Sprintf("Generators: %s", strings.Join(names, ", "))
	if c.Inbox.Enabled {
		summary += fmt.Sprintf("\nInbox: %s", c.Inbox.Dir)
	}
	return summary
}
