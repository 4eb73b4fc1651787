// Package prompt builds the provider-agnostic critique instruction. Build is
// a pure function: identical inputs always produce identical prompts.
package prompt

import (
	"fmt"
	"strings"

	"github.com/HackrsValv/design-critic/internal/critique"
)

// System is the system prompt sent alongside every critique request.
const System = `You are an expert UI/UX designer and design critic with 15+ years of experience reviewing digital designs. You provide constructive, actionable feedback on visual designs.

Your critiques are:
- Specific and actionable (not vague)
- Balanced (acknowledge strengths, not just problems)
- Prioritized (most impactful issues first)
- Professional and respectful

You evaluate designs against industry best practices and modern design principles.`

// focusDescriptions carries the one-line definition of each critique
// dimension, keyed by its wire name.
var focusDescriptions = map[critique.FocusArea]string{
	critique.FocusVisualHierarchy:      "Visual Hierarchy: How well does the design guide the eye? Are the most important elements prominent?",
	critique.FocusTypography:           "Typography: Font choices, sizes, line heights, readability, consistency",
	critique.FocusColorScheme:          "Color Scheme: Color harmony, contrast, accessibility, emotional impact",
	critique.FocusWhitespace:           "Whitespace/Spacing: Breathing room, balance, visual rhythm",
	critique.FocusCTAEffectiveness:     "CTA Effectiveness: Are calls-to-action clear, compelling, and easy to find?",
	critique.FocusReadability:          "Readability: Can users easily scan and read the content?",
	critique.FocusConsistency:          "Consistency: Are visual patterns and styles consistent throughout?",
	critique.FocusAccessibility:        "Accessibility: Color contrast, text size, touch targets",
	critique.FocusMobileResponsiveness: "Mobile Responsiveness: How will this look on smaller screens?",
	critique.FocusBranding:             "Branding: Does it feel cohesive and professional?",
	critique.FocusLayout:               "Layout: Overall structure, grid alignment, visual balance",
	critique.FocusImagery:              "Imagery: Quality, relevance, and integration of images",
}

// designFraming biases the critique toward the conventions of each artifact
// type. Unknown design types get no extra framing.
var designFraming = map[critique.DesignType]string{
	critique.DesignEmail:       "This is an email design: judge it at typical email-client widths, with attention to preheader/above-the-fold content and single-column readability.",
	critique.DesignLandingPage: "This is a landing page: judge conversion flow, hero clarity, and how quickly the value proposition lands.",
	critique.DesignDashboard:   "This is a dashboard: judge data density, scannability, and whether key metrics surface without hunting.",
	critique.DesignMobileApp:   "This is a mobile app screen: judge touch target sizing, thumb reach, and platform conventions.",
}

// Build produces the critique instruction for the given design type and focus
// areas. Every requested area is enumerated by wire name with its one-line
// definition, followed by the expected JSON response shape. customPrompt, when
// non-empty, is appended as additional context. Unknown focus areas fail with
// a validation error.
func Build(designType critique.DesignType, focusAreas []critique.FocusArea, customPrompt string) (string, error) {
	if len(focusAreas) == 0 {
		focusAreas = critique.AllFocusAreas()
	}

	var focusList strings.Builder
	for _, area := range focusAreas {
		desc, ok := focusDescriptions[area]
		if !ok {
			return "", critique.Validationf("unknown focus area %q", area)
		}
		fmt.Fprintf(&focusList, "- %s: %s\n", area, desc)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze this %s design and provide a detailed critique.\n\n", designType)
	if framing, ok := designFraming[designType]; ok {
		sb.WriteString(framing)
		sb.WriteString("\n\n")
	}
	sb.WriteString("FOCUS AREAS:\n")
	sb.WriteString(focusList.String())
	sb.WriteString(`
RESPONSE FORMAT:
Provide your response as a JSON object with this exact structure:
{
    "overall_score": <1-10>,
    "summary": "<2-3 sentence overall assessment>",
    "scores": [
        {
            "category": "<focus area name>",
            "score": <1-10>,
            "feedback": "<specific feedback for this area>",
            "suggestions": ["<actionable improvement 1>", "<actionable improvement 2>"]
        }
    ],
    "strengths": ["<strength 1>", "<strength 2>", "<strength 3>"],
    "improvements": ["<priority improvement 1>", "<priority improvement 2>", "<priority improvement 3>"]
}

Include one scores entry per focus area listed above, using the focus area name as the category.

Score guide:
- 1-3: Poor, needs significant work
- 4-5: Below average, notable issues
- 6-7: Good, some room for improvement
- 8-9: Very good, minor refinements possible
- 10: Excellent, professional quality

Be specific in your feedback. Instead of "improve typography", say "increase body text line-height from 1.2 to 1.5 for better readability".`)

	if customPrompt != "" {
		sb.WriteString("\n\nADDITIONAL CONTEXT:\n")
		sb.WriteString(customPrompt)
	}

	return sb.String(), nil
}
