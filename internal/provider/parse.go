package provider

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/HackrsValv/design-critic/internal/critique"
)

// critiqueSchemaJSON is the shape every provider response must satisfy after
// extraction. Scores outside [1,10] are accepted here and clamped afterwards;
// the schema only rejects structurally unusable documents.
const critiqueSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["overall_score", "summary", "scores", "strengths", "improvements"],
  "properties": {
    "overall_score": {"type": "integer"},
    "summary": {"type": "string"},
    "scores": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["category", "score", "feedback"],
        "properties": {
          "category": {"type": "string"},
          "score": {"type": "integer"},
          "feedback": {"type": "string"},
          "suggestions": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "strengths": {"type": "array", "items": {"type": "string"}},
    "improvements": {"type": "array", "items": {"type": "string"}}
  }
}`

var critiqueSchemaLoader = gojsonschema.NewStringLoader(critiqueSchemaJSON)

// critiqueDocument is the wire shape of the provider's critique JSON.
type critiqueDocument struct {
	OverallScore int    `json:"overall_score"`
	Summary      string `json:"summary"`
	Scores       []struct {
		Category    string   `json:"category"`
		Score       int      `json:"score"`
		Feedback    string   `json:"feedback"`
		Suggestions []string `json:"suggestions"`
	} `json:"scores"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// ParseCritique turns raw provider output into a CritiqueResponse. content
// may be the bare JSON document, a fenced code block, or prose with the
// document embedded; anything else fails with a parse error. Scores are
// clamped to [1,10].
func ParseCritique(content string, p critique.Provider, model string) (*critique.CritiqueResponse, error) {
	content = StripFences(content)

	raw := content
	if !json.Valid([]byte(raw)) {
		extracted, err := ExtractJSONObject(content)
		if err != nil {
			return nil, err
		}
		raw = extracted
	}

	result, err := gojsonschema.Validate(critiqueSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, critique.Parsef("provider response is not valid JSON: %v", err)
	}
	if !result.Valid() {
		first := ""
		if errs := result.Errors(); len(errs) > 0 {
			first = errs[0].String()
		}
		return nil, critique.Parsef("provider response does not match the critique schema: %s", first)
	}

	var doc critiqueDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, critique.Parsef("decoding critique document: %v", err)
	}

	resp := &critique.CritiqueResponse{
		OverallScore: critique.ClampScore(doc.OverallScore),
		Summary:      doc.Summary,
		Strengths:    doc.Strengths,
		Improvements: doc.Improvements,
		Provider:     p,
		Model:        model,
	}
	resp.Scores = make([]critique.ScoreItem, 0, len(doc.Scores))
	for _, s := range doc.Scores {
		suggestions := s.Suggestions
		if suggestions == nil {
			suggestions = []string{}
		}
		resp.Scores = append(resp.Scores, critique.ScoreItem{
			Category:    s.Category,
			Score:       critique.ClampScore(s.Score),
			Feedback:    s.Feedback,
			Suggestions: suggestions,
		})
	}
	return resp, nil
}
