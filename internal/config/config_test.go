package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Database.Path == "" {
		t.Error("Database.Path should not be empty")
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %s, want :3000", cfg.Server.Addr)
	}
	if cfg.Canvas.ChildRadius != 120 {
		t.Errorf("Canvas.ChildRadius = %v, want 120", cfg.Canvas.ChildRadius)
	}
	if cfg.Canvas.FanStep != 0.4 {
		t.Errorf("Canvas.FanStep = %v, want 0.4", cfg.Canvas.FanStep)
	}
	if len(cfg.Generator.Providers) == 0 {
		t.Error("Generator.Providers should have defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"zero width", func(c *Config) { c.Canvas.Width = 0 }, true},
		{"negative fan step", func(c *Config) { c.Canvas.FanStep = -1 }, true},
		{"unknown provider kind", func(c *Config) {
			c.Generator.Providers = []ProviderConfig{{Name: "x", Kind: "cohere"}}
		}, true},
		{"provider without name", func(c *Config) {
			c.Generator.Providers = []ProviderConfig{{Kind: KindStatic}}
		}, true},
		{"bad base url", func(c *Config) {
			c.Generator.Providers = []ProviderConfig{{Name: "x", Kind: KindOpenAI, BaseURL: "not a url"}}
		}, true},
		{"failure ratio above one", func(c *Config) { c.Generator.Breaker.FailureRatio = 1.5 }, true},
		{"inbox enabled without dir", func(c *Config) {
			c.Inbox.Enabled = true
			c.Inbox.Dir = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "sk-test")
	t.Setenv(EnvGeminiKey, "gm-test")

	cfg := DefaultConfig()
	cfg.Generator.Providers = append(cfg.Generator.Providers, ProviderConfig{
		Name: "explicit", Kind: KindOpenAI, APIKey: "keep-me",
	})
	cfg.applyEnv()

	for _, p := range cfg.Generator.Providers {
		switch {
		case p.Name == "explicit":
			if p.APIKey != "keep-me" {
				t.Errorf("explicit key was overwritten: %s", p.APIKey)
			}
		case p.Kind == KindOpenAI && p.APIKey != "sk-test":
			t.Errorf("provider %s key = %q, want sk-test", p.Name, p.APIKey)
		case p.Kind == KindGemini && p.APIKey != "gm-test":
			t.Errorf("provider %s key = %q, want gm-test", p.Name, p.APIKey)
		}
	}

	if got := len(cfg.ConfiguredProviders()); got != 3 {
		t.Errorf("ConfiguredProviders() = %d, want 3", got)
	}
}

func TestConfiguredProvidersSkipsKeyless(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Providers = []ProviderConfig{
		{Name: "groq", Kind: KindOpenAI},
		{Name: "demo", Kind: KindStatic},
	}
	got := cfg.ConfiguredProviders()
	if len(got) != 1 || got[0].Name != "demo" {
		t.Errorf("ConfiguredProviders() = %+v, want only demo", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":8080"
	cfg.Canvas.Width = 640
	cfg.Canvas.BaseRadius = 200
	cfg.Generator.Timeout = Duration(5 * time.Second)
	cfg.Inbox.Enabled = true

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	if loaded.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %s, want :8080", loaded.Server.Addr)
	}
	if loaded.Canvas.Width != 640 {
		t.Errorf("Canvas.Width = %d, want 640", loaded.Canvas.Width)
	}
	if loaded.Canvas.BaseRadius != 200 {
		t.Errorf("Canvas.BaseRadius = %v, want 200", loaded.Canvas.BaseRadius)
	}
	if loaded.Generator.Timeout.Duration() != 5*time.Second {
		t.Errorf("Generator.Timeout = %s, want 5s", loaded.Generator.Timeout.Duration())
	}
	if !loaded.Inbox.Enabled {
		t.Error("Inbox.Enabled should survive a round trip")
	}
}

func TestLoadFromPathPartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	data := []byte("server:\n  addr: \":9000\"\ncanvas:\n  fan_step: 0.3\n")
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %s, want :9000", cfg.Server.Addr)
	}
	if cfg.Canvas.FanStep != 0.3 {
		t.Errorf("Canvas.FanStep = %v, want 0.3", cfg.Canvas.FanStep)
	}
	if cfg.Canvas.ChildRadius != 120 {
		t.Errorf("Canvas.ChildRadius = %v, want default 120", cfg.Canvas.ChildRadius)
	}
}

func TestLoadFromPathInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "server: [\n"},
		{"bad duration", "server:\n  read_timeout: soon\n"},
		{"fails validation", "log:\n  level: chatty\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0600); err != nil {
				t.Fatal(err)
			}
			if _, _, err := LoadFromPath(path); err == nil {
				t.Error("LoadFromPath() should fail")
			}
		})
	}

	if _, _, err := LoadFromPath(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("LoadFromPath() should fail for a missing file")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	// Should find config in working directory
	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Explicit path doesn't exist, should fall back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	// Explicit path exists, should win
	explicit := filepath.Join(tmpDir, "explicit.yaml")
	if err := cfg.Save(explicit); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
	}
}

func TestSearchPathsOrder(t *testing.T) {
	t.Setenv(EnvConfigPath, "/explicit.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/u")

	paths := SearchPaths()
	want := []string{
		"/explicit.yaml",
		"", // working directory, checked by suffix below
		"/xdg/mindcanvas/config.yaml",
		"/home/u/.config/mindcanvas/config.yaml",
		"/etc/mindcanvas/config.yaml",
	}
	if len(paths) != len(want) {
		t.Fatalf("SearchPaths() = %v", paths)
	}
	for i, w := range want {
		if i == 1 {
			if filepath.Base(paths[i]) != ConfigFileName {
				t.Errorf("paths[1] = %s, want */%s", paths[i], ConfigFileName)
			}
			continue
		}
		if paths[i] != w {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], w)
		}
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	// Test YAML marshaling
	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	tests := []struct {
		name string
		xdg  string
		home string
		want string
	}{
		{"xdg config home", "/xdg", "/home/u", "/xdg/mindcanvas/config.yaml"},
		{"default xdg location", "", "/home/u", "/home/u/.config/mindcanvas/config.yaml"},
		{"working directory", "", "", ConfigFileName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tt.xdg)
			t.Setenv("HOME", tt.home)
			if got := DefaultConfigPath(); got != tt.want {
				t.Errorf("DefaultConfigPath() = %s, want %s", got, tt.want)
			}
		})
	}
}
