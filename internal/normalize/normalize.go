// Package normalize turns the three request input variants into one canonical
// image payload for the provider adapters.
package normalize

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/HackrsValv/design-critic/internal/critique"
	"github.com/HackrsValv/design-critic/internal/logging"
)

// Renderer is the screenshot capability the normalizer needs for HTML input.
// Implemented by render.Renderer.
type Renderer interface {
	Render(ctx context.Context, html string, width, height int) (*critique.ImagePayload, error)
}

// Config controls viewport selection and remote image fetching.
type Config struct {
	// EmailWidth is the render viewport for email designs; DefaultWidth is
	// used for everything else. Matches typical email-client vs desktop
	// widths.
	EmailWidth   int
	DefaultWidth int
	Height       int

	// FetchTimeout bounds an image_url download.
	FetchTimeout time.Duration

	// MaxImageBytes caps the size of a fetched or decoded image.
	MaxImageBytes int64
}

// DefaultConfig returns normalizer defaults mirroring the service's render
// conventions.
func DefaultConfig() Config {
	return Config{
		EmailWidth:    600,
		DefaultWidth:  1280,
		Height:        800,
		FetchTimeout:  20 * time.Second,
		MaxImageBytes: 20 << 20,
	}
}

// Normalizer converts a validated CritiqueRequest into an ImagePayload.
type Normalizer struct {
	cfg      Config
	renderer Renderer
	client   *http.Client
	logger   logging.Logger
}

// New creates a Normalizer. httpClient may be nil, in which case a default
// client with the configured fetch timeout is used.
func New(cfg Config, renderer Renderer, httpClient *http.Client, logger logging.Logger) *Normalizer {
	if cfg.DefaultWidth == 0 {
		cfg = DefaultConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.FetchTimeout}
	}
	return &Normalizer{
		cfg:      cfg,
		renderer: renderer,
		client:   httpClient,
		logger:   logger.With(logging.Field{Key: "component", Value: "Normalizer"}),
	}
}

// Normalize produces the canonical image for a request that has already
// passed Validate (exactly one input variant set).
func (n *Normalizer) Normalize(ctx context.Context, req *critique.CritiqueRequest) (*critique.ImagePayload, error) {
	switch {
	case req.HTML != "":
		return n.fromHTML(ctx, req)
	case req.ImageURL != "":
		return n.fromURL(ctx, req.ImageURL)
	case req.ImageBase64 != "":
		return n.fromBase64(req.ImageBase64)
	}
	return nil, critique.Validationf("must provide one of: html, image_url, or image_base64")
}

func (n *Normalizer) fromHTML(ctx context.Context, req *critique.CritiqueRequest) (*critique.ImagePayload, error) {
	width := n.cfg.DefaultWidth
	if req.DesignType == critique.DesignEmail {
		width = n.cfg.EmailWidth
	}
	n.logger.Debug("rendering html input", logging.Field{Key: "width", Value: width})
	return n.renderer.Render(ctx, req.HTML, width, n.cfg.Height)
}

func (n *Normalizer) fromURL(ctx context.Context, url string) (*critique.ImagePayload, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, critique.Validationf("invalid image_url: %v", err)
	}

	resp, err := n.client.Do(httpReq)
	if err != nil {
		n.logger.Warn("image fetch failed",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, critique.Fetchf(err, "fetching image: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.logger.Warn("image fetch returned non-2xx",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "status", Value: resp.StatusCode})
		return nil, critique.Fetchf(nil, "fetching image: unexpected status %d", resp.StatusCode)
	}

	mime := contentTypeBase(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(mime, "image/") {
		return nil, critique.Fetchf(nil, "fetching image: content type %q is not an image", mime)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, n.cfg.MaxImageBytes+1))
	if err != nil {
		return nil, critique.Fetchf(err, "reading image body: %v", err)
	}
	if int64(len(body)) > n.cfg.MaxImageBytes {
		return nil, critique.Fetchf(nil, "image exceeds %d byte limit", n.cfg.MaxImageBytes)
	}

	n.logger.Debug("fetched image",
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "bytes", Value: len(body)},
		logging.Field{Key: "mime", Value: mime})

	return &critique.ImagePayload{Data: body, MIMEType: mime}, nil
}

func (n *Normalizer) fromBase64(encoded string) (*critique.ImagePayload, error) {
	// Accept a data URL prefix; clients routinely paste them whole.
	if strings.HasPrefix(encoded, "data:") {
		if idx := strings.Index(encoded, ","); idx >= 0 {
			encoded = encoded[idx+1:]
		}
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, critique.Validationf("image_base64 is not valid base64: %v", err)
	}
	if len(data) == 0 {
		return nil, critique.Validationf("image_base64 decoded to an empty payload")
	}
	if int64(len(data)) > n.cfg.MaxImageBytes {
		return nil, critique.Validationf("image exceeds %d byte limit", n.cfg.MaxImageBytes)
	}

	mime := contentTypeBase(http.DetectContentType(data))
	if !strings.HasPrefix(mime, "image/") {
		return nil, critique.Validationf("image_base64 payload does not look like an image (detected %s)", mime)
	}

	return &critique.ImagePayload{Data: data, MIMEType: mime}, nil
}

// contentTypeBase strips parameters from a Content-Type value.
func contentTypeBase(ct string) string {
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
