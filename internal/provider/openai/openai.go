// Package openai adapts the critique call to OpenAI's chat completions API.
package openai

import (
	"context"
	"encoding/base64"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/HackrsValv/design-critic/internal/critique"
	"github.com/HackrsValv/design-critic/internal/logging"
	"github.com/HackrsValv/design-critic/internal/prompt"
	"github.com/HackrsValv/design-critic/internal/provider"
)

// DefaultModel is the vision-capable model used when none is configured.
const DefaultModel = "gpt-4o"

const maxTokens = 2000

// Config holds the server-side defaults for the OpenAI adapter. APIKey is
// only used when a request omits its own key; BaseURL supports OpenRouter
// and proxies.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Adapter implements provider.Adapter against the official openai-go SDK.
type Adapter struct {
	cfg    Config
	logger logging.Logger
}

// New creates the OpenAI adapter.
func New(cfg Config, logger logging.Logger) *Adapter {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Adapter{
		cfg:    cfg,
		logger: logger.With(logging.Field{Key: "component", Value: "OpenAIAdapter"}),
	}
}

func (a *Adapter) Name() critique.Provider { return critique.ProviderOpenAI }

func (a *Adapter) HasDefaultKey() bool { return a.cfg.APIKey != "" }

// Critique sends the screenshot and prompt to OpenAI and parses the JSON
// critique out of the completion. One call, no retries.
func (a *Adapter) Critique(ctx context.Context, img *critique.ImagePayload, userPrompt, apiKey string) (*critique.CritiqueResponse, error) {
	key := apiKey
	if key == "" {
		key = a.cfg.APIKey
	}
	if key == "" {
		return nil, critique.Validationf("OpenAI API key required: provide api_key or set OPENAI_API_KEY")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if a.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(a.cfg.BaseURL))
	}
	client := openaisdk.NewClient(opts...)

	dataURL := "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)

	a.logger.Debug("calling openai",
		logging.Field{Key: "model", Value: a.cfg.Model},
		logging.Field{Key: "image_bytes", Value: len(img.Data)})

	completion, err := client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:     shared.ChatModel(a.cfg.Model),
		MaxTokens: openaisdk.Int(maxTokens),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openaisdk.ChatCompletionSystemMessageParam{
					Content: openaisdk.ChatCompletionSystemMessageParamContentUnion{
						OfString: openaisdk.String(prompt.System),
					},
				},
			},
			{
				OfUser: &openaisdk.ChatCompletionUserMessageParam{
					Content: openaisdk.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: []openaisdk.ChatCompletionContentPartUnionParam{
							{
								OfText: &openaisdk.ChatCompletionContentPartTextParam{Text: userPrompt},
							},
							{
								OfImageURL: &openaisdk.ChatCompletionContentPartImageParam{
									ImageURL: openaisdk.ChatCompletionContentPartImageImageURLParam{URL: dataURL},
								},
							},
						},
					},
				},
			},
		},
		ResponseFormat: openaisdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: openaisdk.Ptr(shared.NewResponseFormatJSONObjectParam()),
		},
	})
	if err != nil {
		a.logger.Warn("openai call failed", logging.Field{Key: "error", Value: err.Error()})
		return nil, provider.NormalizeError(critique.ProviderOpenAI, err)
	}

	if len(completion.Choices) == 0 {
		return nil, critique.Parsef("openai returned no choices")
	}

	return provider.ParseCritique(completion.Choices[0].Message.Content, critique.ProviderOpenAI, a.cfg.Model)
}
