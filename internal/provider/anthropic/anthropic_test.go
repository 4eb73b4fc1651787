package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HackrsValv/design-critic/internal/critique"
	"github.com/HackrsValv/design-critic/internal/testutil"
)

func testImage() *critique.ImagePayload {
	return &critique.ImagePayload{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"}
}

func messageBody(content string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       DefaultModel,
		"stop_reason": "end_turn",
		"content": []map[string]any{
			{"type": "text", "text": content},
		},
		"usage": map[string]any{"input_tokens": 10, "output_tokens": 20},
	}
}

const critiqueContent = `{
  "overall_score": 6,
  "summary": "Decent but dense.",
  "scores": [{"category": "whitespace", "score": 5, "feedback": "needs breathing room", "suggestions": ["add section padding"]}],
  "strengths": ["consistent palette"],
  "improvements": ["more whitespace"]
}`

func TestCritique(t *testing.T) {
	t.Parallel()

	var gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(messageBody(critiqueContent))
	}))
	defer srv.Close()

	a := New(Config{BaseURL: srv.URL}, testutil.NewDummyLogger())
	resp, err := a.Critique(context.Background(), testImage(), "critique this", "sk-ant-test")
	if err != nil {
		t.Fatalf("Critique() error = %v", err)
	}

	if gotKey != "sk-ant-test" {
		t.Errorf("X-Api-Key = %q, want sk-ant-test", gotKey)
	}
	if resp.OverallScore != 6 || resp.Provider != critique.ProviderAnthropic {
		t.Errorf("unexpected response: %+v", resp)
	}

	raw, _ := json.Marshal(gotBody)
	if !strings.Contains(string(raw), "critique this") {
		t.Error("request body missing user prompt")
	}
	if !strings.Contains(string(raw), `"image/png"`) {
		t.Error("request body missing image media type")
	}
	// The system prompt must travel in the dedicated system parameter.
	if _, ok := gotBody["system"]; !ok {
		t.Error("request body missing system parameter")
	}
}

func TestCritiqueMissingKey(t *testing.T) {
	t.Parallel()

	a := New(Config{}, testutil.NewDummyLogger())
	_, err := a.Critique(context.Background(), testImage(), "p", "")
	if critique.KindOf(err) != critique.KindValidation {
		t.Errorf("KindOf(err) = %q, want %q", critique.KindOf(err), critique.KindValidation)
	}
}

func TestCritiqueUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "rate_limit_error", "message": "rate limit exceeded"}}`))
	}))
	defer srv.Close()

	a := New(Config{BaseURL: srv.URL}, testutil.NewDummyLogger())
	_, err := a.Critique(context.Background(), testImage(), "p", "sk-ant-test")
	if critique.KindOf(err) != critique.KindProvider {
		t.Errorf("KindOf(err) = %q, want %q", critique.KindOf(err), critique.KindProvider)
	}
}

func TestCritiqueNoTextContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := messageBody("")
		body["content"] = []map[string]any{}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	a := New(Config{BaseURL: srv.URL}, testutil.NewDummyLogger())
	_, err := a.Critique(context.Background(), testImage(), "p", "sk-ant-test")
	if critique.KindOf(err) != critique.KindParse {
		t.Errorf("KindOf(err) = %q, want %q", critique.KindOf(err), critique.KindParse)
	}
}
