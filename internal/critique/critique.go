// Package critique defines the domain model for the design critique service:
// request/response records, the provider and focus-area enums, and the error
// taxonomy shared by every component.
package critique

import "strings"

// Provider identifies one of the supported AI vision providers.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
)

// Providers returns the supported providers in a stable order.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGoogle}
}

// ParseProvider validates a provider name from the wire.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle:
		return Provider(s), nil
	case "":
		// Original default when the field is omitted.
		return ProviderOpenAI, nil
	}
	return "", Validationf("unknown provider %q: must be one of openai, anthropic, google", s)
}

// DesignType categorizes the artifact being critiqued. It biases prompt
// framing and, for HTML input, the render viewport.
type DesignType string

const (
	DesignEmail       DesignType = "email"
	DesignLandingPage DesignType = "landing_page"
	DesignDashboard   DesignType = "dashboard"
	DesignMobileApp   DesignType = "mobile_app"
)

// FocusArea is one of the twelve named critique dimensions.
type FocusArea string

const (
	FocusVisualHierarchy      FocusArea = "visual_hierarchy"
	FocusTypography           FocusArea = "typography"
	FocusColorScheme          FocusArea = "color_scheme"
	FocusWhitespace           FocusArea = "whitespace"
	FocusCTAEffectiveness     FocusArea = "cta_effectiveness"
	FocusReadability          FocusArea = "readability"
	FocusConsistency          FocusArea = "consistency"
	FocusAccessibility        FocusArea = "accessibility"
	FocusMobileResponsiveness FocusArea = "mobile_responsiveness"
	FocusBranding             FocusArea = "branding"
	FocusLayout               FocusArea = "layout"
	FocusImagery              FocusArea = "imagery"
)

// AllFocusAreas returns the twelve focus areas in their canonical order.
// The returned slice is a fresh copy; callers may mutate it.
func AllFocusAreas() []FocusArea {
	return []FocusArea{
		FocusVisualHierarchy,
		FocusTypography,
		FocusColorScheme,
		FocusWhitespace,
		FocusCTAEffectiveness,
		FocusReadability,
		FocusConsistency,
		FocusAccessibility,
		FocusMobileResponsiveness,
		FocusBranding,
		FocusLayout,
		FocusImagery,
	}
}

// ValidFocusArea reports whether f names a known critique dimension.
func ValidFocusArea(f FocusArea) bool {
	for _, known := range AllFocusAreas() {
		if f == known {
			return true
		}
	}
	return false
}

// CritiqueRequest is the payload of POST /api/critique. Exactly one of HTML,
// ImageURL and ImageBase64 must be set. APIKey is BYOK: it is used for the
// single outbound call and never persisted or logged.
type CritiqueRequest struct {
	HTML        string `json:"html,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`

	Provider Provider `json:"provider"`
	APIKey   string   `json:"api_key,omitempty"`

	DesignType   DesignType  `json:"design_type,omitempty"`
	FocusAreas   []FocusArea `json:"focus_areas,omitempty"`
	CustomPrompt string      `json:"custom_prompt,omitempty"`
}

// Validate checks the structural invariants of the request: exactly one input
// variant, a known provider and known focus areas. It normalizes the provider
// and design type defaults in place.
func (r *CritiqueRequest) Validate() error {
	provided := 0
	for _, in := range []string{r.HTML, r.ImageURL, r.ImageBase64} {
		if in != "" {
			provided++
		}
	}
	if provided == 0 {
		return Validationf("must provide one of: html, image_url, or image_base64")
	}
	if provided > 1 {
		return Validationf("provide only one of: html, image_url, or image_base64")
	}

	p, err := ParseProvider(string(r.Provider))
	if err != nil {
		return err
	}
	r.Provider = p

	if r.DesignType == "" {
		r.DesignType = DesignEmail
	}

	for _, fa := range r.FocusAreas {
		if !ValidFocusArea(fa) {
			return Validationf("unknown focus area %q", fa)
		}
	}
	return nil
}

// EffectiveFocusAreas returns the requested focus areas, or all twelve when
// the request leaves them unspecified.
func (r *CritiqueRequest) EffectiveFocusAreas() []FocusArea {
	if len(r.FocusAreas) == 0 {
		return AllFocusAreas()
	}
	out := make([]FocusArea, len(r.FocusAreas))
	copy(out, r.FocusAreas)
	return out
}

// ImagePayload is the canonical single-use image produced by the normalizer
// and consumed by a provider adapter. It lives for one request only.
type ImagePayload struct {
	Data     []byte
	MIMEType string
}

// ScoreItem is one scored critique dimension.
type ScoreItem struct {
	Category    string   `json:"category"`
	Score       int      `json:"score"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

// CritiqueResponse is the canonical critique schema returned to callers,
// regardless of which provider produced it.
type CritiqueResponse struct {
	OverallScore int         `json:"overall_score"`
	Summary      string      `json:"summary"`
	Scores       []ScoreItem `json:"scores"`
	Strengths    []string    `json:"strengths"`
	Improvements []string    `json:"improvements"`
	Provider     Provider    `json:"provider"`
	Model        string      `json:"model"`
}

// ClampScore bounds a provider-reported score to [1,10]. Out-of-range values
// are clamped rather than rejected: the critique itself is still usable and a
// hard failure would waste the provider call.
func ClampScore(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// NormalizeCategory maps a provider-reported category label onto the focus
// area naming convention: lower-cased, spaces and hyphens collapsed to
// underscores. "Visual Hierarchy" and "visual_hierarchy" both normalize to
// the same key.
func NormalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// ConformScores restricts resp.Scores to the requested focus areas, reordered
// to match the request order. Categories the provider invented are dropped;
// areas the provider skipped are absent from the result, preserving the
// subset invariant.
func ConformScores(resp *CritiqueResponse, requested []FocusArea) {
	byCategory := make(map[string]ScoreItem, len(resp.Scores))
	for _, s := range resp.Scores {
		byCategory[NormalizeCategory(s.Category)] = s
	}

	conformed := make([]ScoreItem, 0, len(requested))
	for _, area := range requested {
		if s, ok := byCategory[string(area)]; ok {
			s.Category = string(area)
			conformed = append(conformed, s)
		}
	}
	resp.Scores = conformed
}
