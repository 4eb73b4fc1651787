package prompt

import (
	"strings"
	"testing"

	"github.com/HackrsValv/design-critic/internal/critique"
)

func TestBuildEnumeratesFocusAreas(t *testing.T) {
	t.Parallel()

	got, err := Build(critique.DesignEmail, []critique.FocusArea{
		critique.FocusCTAEffectiveness,
		critique.FocusTypography,
	}, "")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, want := range []string{"cta_effectiveness", "typography", "email", "RESPONSE FORMAT"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(got, "visual_hierarchy") {
		t.Error("prompt mentions an unrequested focus area")
	}
}

func TestBuildDefaultsToAllAreas(t *testing.T) {
	t.Parallel()

	got, err := Build(critique.DesignDashboard, nil, "")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, area := range critique.AllFocusAreas() {
		if !strings.Contains(got, string(area)) {
			t.Errorf("prompt missing default focus area %q", area)
		}
	}
}

func TestBuildDesignFraming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		designType critique.DesignType
		marker     string
	}{
		{critique.DesignEmail, "email-client widths"},
		{critique.DesignLandingPage, "conversion flow"},
		{critique.DesignDashboard, "data density"},
		{critique.DesignMobileApp, "touch target"},
	}
	for _, tt := range tests {
		got, err := Build(tt.designType, nil, "")
		if err != nil {
			t.Fatalf("Build(%s) error = %v", tt.designType, err)
		}
		if !strings.Contains(got, tt.marker) {
			t.Errorf("Build(%s) missing framing marker %q", tt.designType, tt.marker)
		}
	}
}

func TestBuildCustomPrompt(t *testing.T) {
	t.Parallel()

	got, err := Build(critique.DesignEmail, nil, "pay attention to the unsubscribe footer")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.Contains(got, "ADDITIONAL CONTEXT") || !strings.Contains(got, "unsubscribe footer") {
		t.Error("custom prompt not appended")
	}

	without, err := Build(critique.DesignEmail, nil, "")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if strings.Contains(without, "ADDITIONAL CONTEXT") {
		t.Error("empty custom prompt must not add the context section")
	}
}

func TestBuildDeterministic(t *testing.T) {
	t.Parallel()

	areas := []critique.FocusArea{critique.FocusLayout, critique.FocusBranding}
	a, err := Build(critique.DesignLandingPage, areas, "ctx")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	b, err := Build(critique.DesignLandingPage, areas, "ctx")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if a != b {
		t.Error("Build() is not deterministic for identical inputs")
	}
}

func TestBuildUnknownFocusArea(t *testing.T) {
	t.Parallel()

	_, err := Build(critique.DesignEmail, []critique.FocusArea{"seo"}, "")
	if err == nil {
		t.Fatal("Build() = nil error for unknown focus area")
	}
	if critique.KindOf(err) != critique.KindValidation {
		t.Errorf("KindOf(err) = %q, want %q", critique.KindOf(err), critique.KindValidation)
	}
}
