package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.ListenAddr != ":8000" {
		t.Errorf("ListenAddr = %q, want :8000", s.ListenAddr)
	}
	if s.OpenAI.APIKey != "" {
		t.Error("APIKey must be empty without the env var")
	}

	cfg := s.AppConfig()
	if cfg.Render.PoolSize < 1 {
		t.Errorf("Render.PoolSize = %d, want >= 1", cfg.Render.PoolSize)
	}
	if cfg.Normalize.EmailWidth != 600 || cfg.Normalize.DefaultWidth != 1280 {
		t.Errorf("viewport defaults = %d/%d, want 600/1280",
			cfg.Normalize.EmailWidth, cfg.Normalize.DefaultWidth)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("ANTHROPIC_BASE_URL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
listen_addr: ":9090"
render:
  pool_size: 4
  headless: false
  render_timeout_seconds: 45
  settle_delay_ms: 250
normalize:
  email_width: 640
  fetch_timeout_seconds: 5
openai:
  base_url: "https://openrouter.example/v1"
  model: "gpt-4o-mini"
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", s.ListenAddr)
	}

	cfg := s.AppConfig()
	if cfg.Render.PoolSize != 4 {
		t.Errorf("PoolSize = %d, want 4", cfg.Render.PoolSize)
	}
	if cfg.Render.Headless {
		t.Error("Headless = true, want false from file")
	}
	if cfg.Render.RenderTimeout != 45*time.Second {
		t.Errorf("RenderTimeout = %s, want 45s", cfg.Render.RenderTimeout)
	}
	if cfg.Render.SettleDelay != 250*time.Millisecond {
		t.Errorf("SettleDelay = %s, want 250ms", cfg.Render.SettleDelay)
	}
	if cfg.Normalize.EmailWidth != 640 {
		t.Errorf("EmailWidth = %d, want 640", cfg.Normalize.EmailWidth)
	}
	// Settings the file leaves out keep their module defaults.
	if cfg.Normalize.DefaultWidth != 1280 {
		t.Errorf("DefaultWidth = %d, want default 1280", cfg.Normalize.DefaultWidth)
	}
	if cfg.OpenAI.BaseURL != "https://openrouter.example/v1" || cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("OpenAI settings = %+v", cfg.OpenAI)
	}
}

func TestLoadEnvironmentLayer(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-env-anthropic")
	t.Setenv("GOOGLE_API_KEY", "g-env-key")
	t.Setenv("OPENAI_BASE_URL", "https://proxy.example/v1")
	t.Setenv("ANTHROPIC_BASE_URL", "")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.OpenAI.APIKey != "sk-env-openai" || s.Anthropic.APIKey != "sk-env-anthropic" || s.Google.APIKey != "g-env-key" {
		t.Error("env API keys not applied")
	}
	if s.OpenAI.BaseURL != "https://proxy.example/v1" {
		t.Errorf("OpenAI.BaseURL = %q", s.OpenAI.BaseURL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() = nil error for a missing explicit config file")
	}
}

func TestAPIKeyNeverSerialized(t *testing.T) {
	// The yaml:"-" tag keeps credentials out of any marshaled settings dump.
	s := Default()
	s.OpenAI.APIKey = "sk-secret"

	path := filepath.Join(t.TempDir(), "dump.yaml")
	if err := os.WriteFile(path, []byte("openai:\n  api_key: sk-from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("ANTHROPIC_BASE_URL", "")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.OpenAI.APIKey != "" {
		t.Error("api_key in a config file must be ignored; keys come from env or requests")
	}
}
