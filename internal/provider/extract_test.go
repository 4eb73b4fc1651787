package provider

import (
	"encoding/json"
	"testing"

	"github.com/HackrsValv/design-critic/internal/critique"
)

func TestStripFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, in, want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{}\n```  ", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "bare object",
			in:   `{"overall_score": 8}`,
			want: `{"overall_score": 8}`,
		},
		{
			name: "prose around object",
			in:   `Here is my critique: {"overall_score": 8} I hope it helps!`,
			want: `{"overall_score": 8}`,
		},
		{
			name: "nested objects",
			in:   `note {"a": {"b": {"c": 1}}, "d": [1, 2]} trailing`,
			want: `{"a": {"b": {"c": 1}}, "d": [1, 2]}`,
		},
		{
			name: "braces inside strings",
			in:   `{"feedback": "use {placeholders} like \"{{name}}\" carefully"}`,
			want: `{"feedback": "use {placeholders} like \"{{name}}\" carefully"}`,
		},
		{
			name: "escaped quote before closing brace",
			in:   `{"s": "ends with \\"}`,
			want: `{"s": "ends with \\"}`,
		},
		{
			name:    "no object at all",
			in:      "I cannot critique this image.",
			wantErr: true,
		},
		{
			name:    "unterminated object",
			in:      `{"a": {"b": 1}`,
			wantErr: true,
		},
		{
			name:    "empty input",
			in:      "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ExtractJSONObject(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractJSONObject(%q) = %q, want error", tt.in, got)
				}
				if critique.KindOf(err) != critique.KindParse {
					t.Errorf("KindOf(err) = %q, want %q", critique.KindOf(err), critique.KindParse)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSONObject(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExtractJSONObject(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !json.Valid([]byte(got)) {
				t.Errorf("extracted %q is not valid JSON", got)
			}
		})
	}
}
