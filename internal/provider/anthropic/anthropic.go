// Package anthropic adapts the critique call to Anthropic's Messages API.
package anthropic

import (
	"context"
	"encoding/base64"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/HackrsValv/design-critic/internal/critique"
	"github.com/HackrsValv/design-critic/internal/logging"
	"github.com/HackrsValv/design-critic/internal/prompt"
	"github.com/HackrsValv/design-critic/internal/provider"
)

// DefaultModel is the vision-capable model used when none is configured.
const DefaultModel = "claude-sonnet-4-20250514"

const maxTokens = 2000

// Config holds the server-side defaults for the Anthropic adapter.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Adapter implements provider.Adapter against the official anthropic-sdk-go.
type Adapter struct {
	cfg    Config
	logger logging.Logger
}

// New creates the Anthropic adapter.
func New(cfg Config, logger logging.Logger) *Adapter {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Adapter{
		cfg:    cfg,
		logger: logger.With(logging.Field{Key: "component", Value: "AnthropicAdapter"}),
	}
}

func (a *Adapter) Name() critique.Provider { return critique.ProviderAnthropic }

func (a *Adapter) HasDefaultKey() bool { return a.cfg.APIKey != "" }

// Critique sends the screenshot and prompt to Anthropic and parses the JSON
// critique out of the message text. The system prompt travels in Anthropic's
// dedicated system parameter, and the image as a base64 content block.
func (a *Adapter) Critique(ctx context.Context, img *critique.ImagePayload, userPrompt, apiKey string) (*critique.CritiqueResponse, error) {
	key := apiKey
	if key == "" {
		key = a.cfg.APIKey
	}
	if key == "" {
		return nil, critique.Validationf("Anthropic API key required: provide api_key or set ANTHROPIC_API_KEY")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if a.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(a.cfg.BaseURL))
	}
	client := anthropicsdk.NewClient(opts...)

	a.logger.Debug("calling anthropic",
		logging.Field{Key: "model", Value: a.cfg.Model},
		logging.Field{Key: "image_bytes", Value: len(img.Data)})

	message, err := client.Messages.New(ctx, anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(a.cfg.Model),
		MaxTokens: maxTokens,
		System: []anthropicsdk.TextBlockParam{
			{Text: prompt.System},
		},
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(
				anthropicsdk.NewImageBlockBase64(img.MIMEType, base64.StdEncoding.EncodeToString(img.Data)),
				anthropicsdk.NewTextBlock(userPrompt),
			),
		},
	})
	if err != nil {
		a.logger.Warn("anthropic call failed", logging.Field{Key: "error", Value: err.Error()})
		return nil, provider.NormalizeError(critique.ProviderAnthropic, err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, critique.Parsef("anthropic returned no text content")
	}

	return provider.ParseCritique(text, critique.ProviderAnthropic, a.cfg.Model)
}
