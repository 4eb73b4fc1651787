// Package google adapts the critique call to Google's Gemini API.
package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/HackrsValv/design-critic/internal/critique"
	"github.com/HackrsValv/design-critic/internal/logging"
	"github.com/HackrsValv/design-critic/internal/prompt"
	"github.com/HackrsValv/design-critic/internal/provider"
)

// DefaultModel is the vision-capable model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// Config holds the server-side defaults for the Google adapter.
type Config struct {
	APIKey string
	Model  string
}

// googleClient is the narrow slice of the Gemini API the adapter needs.
// Split out so tests can stub the network call.
type googleClient interface {
	generateContent(ctx context.Context, key, model, fullPrompt string, img *critique.ImagePayload) (string, error)
}

// Adapter implements provider.Adapter against the official generative-ai-go
// SDK.
type Adapter struct {
	cfg    Config
	client googleClient
	logger logging.Logger
}

// New creates the Google adapter.
func New(cfg Config, logger logging.Logger) *Adapter {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Adapter{
		cfg:    cfg,
		client: &sdkClient{},
		logger: logger.With(logging.Field{Key: "component", Value: "GoogleAdapter"}),
	}
}

func (a *Adapter) Name() critique.Provider { return critique.ProviderGoogle }

func (a *Adapter) HasDefaultKey() bool { return a.cfg.APIKey != "" }

// Critique sends the screenshot and prompt to Gemini and parses the JSON
// critique out of the response text. Gemini has no separate system parameter
// here, so the system prompt is prepended to the instruction.
func (a *Adapter) Critique(ctx context.Context, img *critique.ImagePayload, userPrompt, apiKey string) (*critique.CritiqueResponse, error) {
	key := apiKey
	if key == "" {
		key = a.cfg.APIKey
	}
	if key == "" {
		return nil, critique.Validationf("Google API key required: provide api_key or set GOOGLE_API_KEY")
	}

	a.logger.Debug("calling google",
		logging.Field{Key: "model", Value: a.cfg.Model},
		logging.Field{Key: "image_bytes", Value: len(img.Data)})

	fullPrompt := prompt.System + "\n\n" + userPrompt
	text, err := a.client.generateContent(ctx, key, a.cfg.Model, fullPrompt, img)
	if err != nil {
		a.logger.Warn("google call failed", logging.Field{Key: "error", Value: err.Error()})
		return nil, provider.NormalizeError(critique.ProviderGoogle, err)
	}
	if text == "" {
		return nil, critique.Parsef("google returned no text content")
	}

	return provider.ParseCritique(text, critique.ProviderGoogle, a.cfg.Model)
}

// sdkClient is the production googleClient backed by generative-ai-go.
type sdkClient struct{}

func (c *sdkClient) generateContent(ctx context.Context, key, model, fullPrompt string, img *critique.ImagePayload) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return "", fmt.Errorf("creating gemini client: %w", err)
	}
	defer client.Close()

	genModel := client.GenerativeModel(model)
	genModel.ResponseMIMEType = "application/json"

	// genai wants the bare format name, not the full MIME type.
	format := strings.TrimPrefix(img.MIMEType, "image/")

	resp, err := genModel.GenerateContent(ctx,
		genai.Text(fullPrompt),
		genai.ImageData(format, img.Data),
	)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", nil
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", nil
	}

	var text string
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return text, nil
}
