// Package server is the HTTP + WebSocket API surface for the design critique
// service.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HackrsValv/design-critic/internal/app"
	"github.com/HackrsValv/design-critic/internal/critique"
	"github.com/HackrsValv/design-critic/internal/logging"
)

// Version is reported by /health and the version command.
const Version = "0.1.0"

// providerDisplayNames are the human labels for the provider listing.
var providerDisplayNames = map[critique.Provider]string{
	critique.ProviderOpenAI:    "OpenAI GPT-4o",
	critique.ProviderAnthropic: "Anthropic Claude",
	critique.ProviderGoogle:    "Google Gemini",
}

// Server wires the orchestrator behind the HTTP routes.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	metrics      *Metrics
	logger       logging.Logger
}

// NewServer creates a new Server. When cfg.Orchestrator is nil, a production
// orchestrator is built from cfg.AppConfig.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	orch := cfg.Orchestrator
	if orch == nil {
		if cfg.AppConfig == nil {
			cfg.AppConfig = app.DefaultConfig()
		}
		orch = app.NewOrchestrator(cfg.AppConfig, logger)
	}

	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		router:       chi.NewRouter(),
		metrics:      NewMetrics(),
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Matches the permissive CORS policy below.
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)
	r.Use(s.requestIDMiddleware)

	r.Options("/api/critique", s.optionsHandler("POST"))
	r.Options("/api/providers", s.optionsHandler("GET"))

	r.Post("/api/critique", s.handleCritique)
	r.Get("/api/providers", s.handleListProviders)
	r.Get("/health", s.handleHealth)
	r.Get("/ws/critique", s.handleCritiqueWS)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	s.mountSwagger(r)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler. Request bodies are logged through a
// redaction step so a submitted api_key never reaches the log stream.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: redactBody(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// redactBody returns a loggable rendition of a JSON request body with the
// api_key field masked. Non-JSON bodies are not logged at all.
func redactBody(body []byte) string {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return "(non-json body omitted)"
	}
	if _, ok := m["api_key"]; ok {
		m["api_key"] = "[REDACTED]"
	}
	// Payload fields are bulky and uninteresting in logs.
	for _, k := range []string{"html", "image_base64"} {
		if v, ok := m[k].(string); ok && len(v) > 128 {
			m[k] = v[:128] + "...(truncated)"
		}
	}
	enc, err := json.Marshal(m)
	if err != nil {
		return "(body omitted)"
	}
	return string(enc)
}

// Close shuts down the orchestrator and underlying resources.
func (s *Server) Close() {
	if s.orchestrator != nil {
		s.orchestrator.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // renders and provider calls can be slow
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, kind critique.Kind, msg string) {
	writeJSON(w, status, ErrorResponse{Error: string(kind), Message: msg})
}

// statusForError maps the failure taxonomy onto HTTP statuses: the caller's
// fault is 400, upstream trouble is 502, everything else 500.
func statusForError(err error) (int, critique.Kind, string) {
	var ce *critique.Error
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError, critique.KindInternal, "internal error"
	}
	switch ce.Kind {
	case critique.KindValidation:
		return http.StatusBadRequest, ce.Kind, ce.Message
	case critique.KindRender, critique.KindFetch, critique.KindProvider, critique.KindParse:
		return http.StatusBadGateway, ce.Kind, ce.Message
	default:
		return http.StatusInternalServerError, critique.KindInternal, "internal error"
	}
}

// --- HTTP handlers ---

// handleCritique critiques a design using an AI vision model.
//
// @Summary  Critique a design
// @Accept   json
// @Produce  json
// @Param    request body critique.CritiqueRequest true "critique request"
// @Success  200 {object} critique.CritiqueResponse
// @Failure  400 {object} ErrorResponse
// @Failure  502 {object} ErrorResponse
// @Router   /api/critique [post]
func (s *Server) handleCritique(w http.ResponseWriter, r *http.Request) {
	var req critique.CritiqueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, critique.KindValidation, "invalid JSON")
		return
	}

	start := time.Now()
	s.metrics.inflight.Inc()
	defer s.metrics.inflight.Dec()

	resp, err := s.orchestrator.Critique(r.Context(), &req, nil)
	if err != nil {
		status, kind, msg := statusForError(err)
		s.metrics.observe(string(req.Provider), string(kind), time.Since(start))
		s.logger.Warn("critique failed",
			logging.Field{Key: "provider", Value: string(req.Provider)},
			logging.Field{Key: "kind", Value: string(kind)},
			logging.Field{Key: "error", Value: msg})
		writeError(w, status, kind, msg)
		return
	}

	s.metrics.observe(string(resp.Provider), "ok", time.Since(start))
	writeJSON(w, http.StatusOK, resp)
}

// handleListProviders lists the available AI providers and whether a
// server-side default key is configured for each.
//
// @Summary  List providers
// @Produce  json
// @Success  200 {object} ProvidersResponse
// @Router   /api/providers [get]
func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	adapters := s.orchestrator.Registry().Adapters()
	infos := make([]ProviderInfo, 0, len(adapters))
	for _, a := range adapters {
		infos = append(infos, ProviderInfo{
			ID:            string(a.Name()),
			Name:          providerDisplayNames[a.Name()],
			HasDefaultKey: a.HasDefaultKey(),
		})
	}
	writeJSON(w, http.StatusOK, ProvidersResponse{Providers: infos})
}

// handleHealth reports liveness.
//
// @Summary  Health check
// @Produce  json
// @Success  200 {object} HealthResponse
// @Router   /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Version: Version})
}
