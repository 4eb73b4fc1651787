// Package app wires the critique pipeline: validate, normalize, build the
// prompt, select the provider adapter, invoke it, and conform the result.
package app

import (
	"context"

	"github.com/HackrsValv/design-critic/internal/critique"
	"github.com/HackrsValv/design-critic/internal/logging"
	"github.com/HackrsValv/design-critic/internal/normalize"
	"github.com/HackrsValv/design-critic/internal/prompt"
	"github.com/HackrsValv/design-critic/internal/provider"
	"github.com/HackrsValv/design-critic/internal/provider/anthropic"
	"github.com/HackrsValv/design-critic/internal/provider/google"
	"github.com/HackrsValv/design-critic/internal/provider/openai"
	"github.com/HackrsValv/design-critic/internal/render"
)

// Stage identifies a step of the critique pipeline, reported to streaming
// consumers as it begins.
type Stage string

const (
	StageValidating  Stage = "validating"
	StageNormalizing Stage = "normalizing"
	StagePrompting   Stage = "prompting"
	StageCritiquing  Stage = "critiquing"
	StageDone        Stage = "done"
)

// StageEvent is emitted once per stage. Error is set on the terminal event
// of a failed run.
type StageEvent struct {
	Stage    Stage  `json:"stage"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}

// StageFunc receives pipeline progress. A nil StageFunc is valid and means
// the caller does not want events.
type StageFunc func(StageEvent)

// Normalizer is the input-to-image capability the orchestrator depends on.
// Implemented by normalize.Normalizer.
type Normalizer interface {
	Normalize(ctx context.Context, req *critique.CritiqueRequest) (*critique.ImagePayload, error)
}

// Orchestrator runs the critique pipeline. It holds no per-request state;
// a single instance serves all requests concurrently.
type Orchestrator struct {
	normalizer Normalizer
	registry   *provider.Registry
	renderer   *render.Renderer
	logger     logging.Logger
}

// NewOrchestrator builds the full production pipeline from cfg: a chromedp
// renderer, the normalizer on top of it, and the three provider adapters.
func NewOrchestrator(cfg *Config, logger logging.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	renderer := render.New(cfg.Render, logger)
	normalizer := normalize.New(cfg.Normalize, renderer, nil, logger)
	registry := provider.NewRegistry(
		openai.New(cfg.OpenAI, logger),
		anthropic.New(cfg.Anthropic, logger),
		google.New(cfg.Google, logger),
	)

	return &Orchestrator{
		normalizer: normalizer,
		registry:   registry,
		renderer:   renderer,
		logger:     logger.With(logging.Field{Key: "component", Value: "Orchestrator"}),
	}
}

// NewOrchestratorWith assembles an orchestrator from explicit collaborators.
// Used by tests and by callers that manage the renderer lifecycle themselves.
func NewOrchestratorWith(normalizer Normalizer, registry *provider.Registry, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		normalizer: normalizer,
		registry:   registry,
		logger:     logger.With(logging.Field{Key: "component", Value: "Orchestrator"}),
	}
}

// Registry exposes the adapter table for read-only surfaces like the
// provider listing endpoint.
func (o *Orchestrator) Registry() *provider.Registry {
	return o.registry
}

// Critique runs the full pipeline for one request. onStage, when non-nil,
// receives an event as each stage begins and a terminal done/error event.
// Failures are returned as *critique.Error; no partial results escape.
func (o *Orchestrator) Critique(ctx context.Context, req *critique.CritiqueRequest, onStage StageFunc) (*critique.CritiqueResponse, error) {
	emit := func(ev StageEvent) {
		if onStage != nil {
			onStage(ev)
		}
	}
	fail := func(err error) error {
		emit(StageEvent{Stage: StageDone, Provider: string(req.Provider), Error: err.Error()})
		return err
	}

	emit(StageEvent{Stage: StageValidating})
	if err := req.Validate(); err != nil {
		return nil, fail(err)
	}

	emit(StageEvent{Stage: StageNormalizing, Provider: string(req.Provider)})
	img, err := o.normalizer.Normalize(ctx, req)
	if err != nil {
		return nil, fail(err)
	}

	emit(StageEvent{Stage: StagePrompting, Provider: string(req.Provider)})
	focusAreas := req.EffectiveFocusAreas()
	instruction, err := prompt.Build(req.DesignType, focusAreas, req.CustomPrompt)
	if err != nil {
		return nil, fail(err)
	}

	adapter, err := o.registry.Get(req.Provider)
	if err != nil {
		return nil, fail(err)
	}

	emit(StageEvent{Stage: StageCritiquing, Provider: string(req.Provider)})
	resp, err := adapter.Critique(ctx, img, instruction, req.APIKey)
	if err != nil {
		return nil, fail(err)
	}

	critique.ConformScores(resp, focusAreas)

	o.logger.Info("critique complete",
		logging.Field{Key: "provider", Value: string(resp.Provider)},
		logging.Field{Key: "model", Value: resp.Model},
		logging.Field{Key: "overall_score", Value: resp.OverallScore},
		logging.Field{Key: "scored_areas", Value: len(resp.Scores)})

	emit(StageEvent{Stage: StageDone, Provider: string(req.Provider)})
	return resp, nil
}

// Close releases the renderer's browser resources, when the orchestrator
// owns one.
func (o *Orchestrator) Close() {
	if o.renderer != nil {
		_ = o.renderer.Close()
	}
}
