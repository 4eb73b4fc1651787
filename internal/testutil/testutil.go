// Package testutil holds shared test doubles and fixtures.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/HackrsValv/design-critic/internal/critique"
	"github.com/HackrsValv/design-critic/internal/logging"
)

// TinyPNGBase64 is a valid 1x1 PNG, base64-encoded, for exercising image
// decoding paths without fixture files.
const TinyPNGBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// DummyLogger records log messages for assertions.
type DummyLogger struct {
	mu       sync.Mutex
	Messages []string
}

func NewDummyLogger() *DummyLogger { return &DummyLogger{} }

// record flattens the message and fields into one line so tests can assert on
// everything that would have reached the log stream.
func (l *DummyLogger) record(msg string, fields []logging.Field) {
	var sb strings.Builder
	sb.WriteString(msg)
	for _, f := range fields {
		fmt.Fprintf(&sb, " %s=%v", f.Key, f.Value)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, sb.String())
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) { l.record(msg, fields) }
func (l *DummyLogger) Info(msg string, fields ...logging.Field)  { l.record(msg, fields) }
func (l *DummyLogger) Warn(msg string, fields ...logging.Field)  { l.record(msg, fields) }
func (l *DummyLogger) Error(msg string, fields ...logging.Field) { l.record(msg, fields) }
func (l *DummyLogger) With(_ ...logging.Field) logging.Logger {
	return l
}

// Recorded returns a snapshot of the logged messages.
func (l *DummyLogger) Recorded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.Messages))
	copy(out, l.Messages)
	return out
}

// StubAdapter is a provider.Adapter with canned behavior.
type StubAdapter struct {
	Provider   critique.Provider
	Response   *critique.CritiqueResponse
	Err        error
	DefaultKey bool

	mu    sync.Mutex
	Calls []StubCall
}

// StubCall records the arguments of one Critique invocation.
type StubCall struct {
	Image  *critique.ImagePayload
	Prompt string
	APIKey string
}

func (a *StubAdapter) Critique(_ context.Context, img *critique.ImagePayload, userPrompt, apiKey string) (*critique.CritiqueResponse, error) {
	a.mu.Lock()
	a.Calls = append(a.Calls, StubCall{Image: img, Prompt: userPrompt, APIKey: apiKey})
	a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	return a.Response, nil
}

func (a *StubAdapter) Name() critique.Provider { return a.Provider }
func (a *StubAdapter) HasDefaultKey() bool     { return a.DefaultKey }

// CallCount returns how many times Critique was invoked.
func (a *StubAdapter) CallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Calls)
}

// StubNormalizer is an app.Normalizer with canned behavior.
type StubNormalizer struct {
	Image *critique.ImagePayload
	Err   error

	mu    sync.Mutex
	calls int
}

func (n *StubNormalizer) Normalize(_ context.Context, _ *critique.CritiqueRequest) (*critique.ImagePayload, error) {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
	if n.Err != nil {
		return nil, n.Err
	}
	if n.Image != nil {
		return n.Image, nil
	}
	return &critique.ImagePayload{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"}, nil
}

// CallCount returns how many times Normalize was invoked.
func (n *StubNormalizer) CallCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

// SampleResponse builds a minimal valid critique response for p.
func SampleResponse(p critique.Provider) *critique.CritiqueResponse {
	return &critique.CritiqueResponse{
		OverallScore: 7,
		Summary:      "solid layout with room to grow",
		Scores: []critique.ScoreItem{
			{Category: "visual_hierarchy", Score: 8, Feedback: "clear focal point", Suggestions: []string{}},
			{Category: "color_scheme", Score: 7, Feedback: "body copy is a little light", Suggestions: []string{"darken secondary text"}},
		},
		Strengths:    []string{"strong hero section"},
		Improvements: []string{"increase button contrast"},
		Provider:     p,
		Model:        "stub-model",
	}
}
