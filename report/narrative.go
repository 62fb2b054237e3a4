package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"ofiq_backend/ofiqruntime"
)

// ErrNoMeasures is returned when an assessment has no measures to narrate.
var ErrNoMeasures = errors.New("no measures to narrate")

// ErrEmptyResponse is returned when the AI returns an empty response.
var ErrEmptyResponse = errors.New("AI returned empty response")

// NarratorConfig holds configuration for AI narrative generation.
type NarratorConfig struct {
	// Model is the OpenAI model to use (e.g., "gpt-4", "gpt-3.5-turbo")
	Model string

	// MaxTokens is the maximum tokens for the response
	MaxTokens int

	// Temperature controls response randomness (0.0-1.0)
	Temperature float32

	// SystemPrompt frames the narration task
	SystemPrompt string
}

// DefaultNarratorConfig returns sensible defaults for quality narration.
func DefaultNarratorConfig() NarratorConfig {
	return NarratorConfig{
		Model:       "gpt-4",
		MaxTokens:   500,
		Temperature: 0.3,
		SystemPrompt: `You are a facial image quality analyst. You will receive the ` +
			`per-measure scores of an ISO/IEC 29794-5 quality assessment. Quality values ` +
			`are on a 0-100 scale where higher is better; "not computed" means the engine ` +
			`could not evaluate that measure. Write a short plain-language summary (3-5 ` +
			`sentences) of the image's fitness for enrollment: name the strongest and ` +
			`weakest aspects and, if quality is low, the most likely capture problem. ` +
			`Do not repeat every score.`,
	}
}

// NarrativeResult contains a generated narrative.
type NarrativeResult struct {
	// Narrative is the generated summary text
	Narrative string

	// MeasuresDescribed is the number of measures included in the prompt
	MeasuresDescribed int
}

// Narrator generates plain-language summaries of assessments via OpenAI.
type Narrator struct {
	config NarratorConfig
	client *openai.Client
}

// NewNarrator creates a Narrator with the given configuration and client.
func NewNarrator(config NarratorConfig, client *openai.Client) *Narrator {
	return &Narrator{
		config: config,
		client: client,
	}
}

// NewNarratorFromKey creates a Narrator with default configuration, an
// OpenAI client for the given API key and an optional model override.
func NewNarratorFromKey(apiKey, model string) *Narrator {
	config := DefaultNarratorConfig()
	if model != "" {
		config.Model = model
	}
	return NewNarrator(config, openai.NewClient(apiKey))
}

// Narrate generates a narrative for an assessment.
//
// Example:
//
//	client := openai.NewClient(apiKey)
//	narrator := NewNarrator(DefaultNarratorConfig(), client)
//	result, err := narrator.Narrate(ctx, assessment)
func (n *Narrator) Narrate(ctx context.Context, a *ofiqruntime.Assessment) (*NarrativeResult, error) {
	if a == nil || len(a.Measures) == 0 {
		return nil, ErrNoMeasures
	}

	prompt := buildScorePrompt(a)

	resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: n.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: n.config.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   n.config.MaxTokens,
		Temperature: n.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("AI narration failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	narrative := strings.TrimSpace(resp.Choices[0].Message.Content)
	if narrative == "" {
		return nil, ErrEmptyResponse
	}

	return &NarrativeResult{
		Narrative:         narrative,
		MeasuresDescribed: len(a.Measures),
	}, nil
}

// buildScorePrompt renders an assessment as a score table for the model.
func buildScorePrompt(a *ofiqruntime.Assessment) string {
	sorted := make([]ofiqruntime.QualityMeasureResult, len(a.Measures))
	copy(sorted, a.Measures)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Measure < sorted[j].Measure
	})

	var b strings.Builder
	if math.IsNaN(a.OverallQuality) {
		b.WriteString("Overall quality: not computed\n")
	} else {
		fmt.Fprintf(&b, "Overall quality: %.1f\n", a.OverallQuality)
	}
	b.WriteString("Measures:\n")
	for _, m := range sorted {
		if m.IsSuccess() {
			fmt.Fprintf(&b, "- %s: %.1f\n", m.Measure, m.QualityValue)
		} else {
			fmt.Fprintf(&b, "- %s: not computed\n", m.Measure)
		}
	}
	return b.String()
}
