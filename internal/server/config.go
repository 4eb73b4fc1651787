package server

import (
	"github.com/HackrsValv/design-critic/internal/app"
	"github.com/HackrsValv/design-critic/internal/logging"
)

// Config configures the HTTP API surface.
type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// AppConfig configures the orchestrator NewServer builds when no
	// Orchestrator is injected.
	AppConfig *app.Config

	// Orchestrator, when set, is used as-is (tests inject a stubbed
	// pipeline this way).
	Orchestrator *app.Orchestrator

	// Logger defaults to a JSON stdout logger.
	Logger logging.Logger
}
