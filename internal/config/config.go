// Package config loads process-wide settings once at startup: listen address,
// render tuning, and the optional server-side provider defaults. Settings are
// read-only after Load returns.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/HackrsValv/design-critic/internal/app"
)

// ProviderSettings are the optional server-side defaults for one provider.
// APIKey is only consulted when a request carries no key of its own (BYOK
// always wins). BaseURL supports OpenRouter-style proxies.
type ProviderSettings struct {
	APIKey  string `yaml:"-"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Settings is the whole service configuration.
type Settings struct {
	ListenAddr string `yaml:"listen_addr"`

	Render struct {
		PoolSize             int   `yaml:"pool_size"`
		Headless             *bool `yaml:"headless"`
		RenderTimeoutSeconds int   `yaml:"render_timeout_seconds"`
		SettleDelayMillis    int   `yaml:"settle_delay_ms"`
	} `yaml:"render"`

	Normalize struct {
		EmailWidth          int `yaml:"email_width"`
		DefaultWidth        int `yaml:"default_width"`
		Height              int `yaml:"height"`
		FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	} `yaml:"normalize"`

	OpenAI    ProviderSettings `yaml:"openai"`
	Anthropic ProviderSettings `yaml:"anthropic"`
	Google    ProviderSettings `yaml:"google"`
}

// Default returns the baseline settings before file and environment layers.
func Default() *Settings {
	s := &Settings{ListenAddr: ":8000"}
	return s
}

// Load builds Settings from defaults, then the optional YAML file at path
// (empty path skips the file layer), then environment variables for the
// provider credentials:
//
//	OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY
//	OPENAI_BASE_URL, ANTHROPIC_BASE_URL
func Load(path string) (*Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	s.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	s.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	s.Google.APIKey = os.Getenv("GOOGLE_API_KEY")
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		s.OpenAI.BaseURL = v
	}
	if v := os.Getenv("ANTHROPIC_BASE_URL"); v != "" {
		s.Anthropic.BaseURL = v
	}

	return s, nil
}

// AppConfig translates Settings into the orchestrator's aggregated config,
// applying module defaults wherever the file left a zero value.
func (s *Settings) AppConfig() *app.Config {
	cfg := app.DefaultConfig()

	if s.Render.PoolSize > 0 {
		cfg.Render.PoolSize = s.Render.PoolSize
	}
	if s.Render.Headless != nil {
		cfg.Render.Headless = *s.Render.Headless
	}
	if s.Render.RenderTimeoutSeconds > 0 {
		cfg.Render.RenderTimeout = time.Duration(s.Render.RenderTimeoutSeconds) * time.Second
	}
	if s.Render.SettleDelayMillis > 0 {
		cfg.Render.SettleDelay = time.Duration(s.Render.SettleDelayMillis) * time.Millisecond
	}

	if s.Normalize.EmailWidth > 0 {
		cfg.Normalize.EmailWidth = s.Normalize.EmailWidth
	}
	if s.Normalize.DefaultWidth > 0 {
		cfg.Normalize.DefaultWidth = s.Normalize.DefaultWidth
	}
	if s.Normalize.Height > 0 {
		cfg.Normalize.Height = s.Normalize.Height
	}
	if s.Normalize.FetchTimeoutSeconds > 0 {
		cfg.Normalize.FetchTimeout = time.Duration(s.Normalize.FetchTimeoutSeconds) * time.Second
	}

	cfg.OpenAI.APIKey = s.OpenAI.APIKey
	cfg.OpenAI.BaseURL = s.OpenAI.BaseURL
	cfg.OpenAI.Model = s.OpenAI.Model
	cfg.Anthropic.APIKey = s.Anthropic.APIKey
	cfg.Anthropic.BaseURL = s.Anthropic.BaseURL
	cfg.Anthropic.Model = s.Anthropic.Model
	cfg.Google.APIKey = s.Google.APIKey
	cfg.Google.Model = s.Google.Model

	return cfg
}
