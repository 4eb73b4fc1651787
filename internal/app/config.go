package app

import (
	"github.com/HackrsValv/design-critic/internal/normalize"
	"github.com/HackrsValv/design-critic/internal/provider/anthropic"
	"github.com/HackrsValv/design-critic/internal/provider/google"
	"github.com/HackrsValv/design-critic/internal/provider/openai"
	"github.com/HackrsValv/design-critic/internal/render"
)

// Config aggregates the per-module configuration the orchestrator wires
// together. Values are read once at startup and never mutated afterwards.
type Config struct {
	Render    render.Config
	Normalize normalize.Config
	OpenAI    openai.Config
	Anthropic anthropic.Config
	Google    google.Config
}

// DefaultConfig returns a Config populated with each module's defaults.
// Provider keys are empty; callers layer environment values on top.
func DefaultConfig() *Config {
	return &Config{
		Render:    render.DefaultConfig(),
		Normalize: normalize.DefaultConfig(),
	}
}
