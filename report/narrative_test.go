package report

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"ofiq_backend/ofiqruntime"
)

func TestNarrator_NoMeasures(t *testing.T) {
	narrator := NewNarrator(DefaultNarratorConfig(), nil)

	if _, err := narrator.Narrate(context.Background(), nil); !errors.Is(err, ErrNoMeasures) {
		t.Errorf("Narrate(nil) error = %v, want ErrNoMeasures", err)
	}

	empty := &ofiqruntime.Assessment{}
	if _, err := narrator.Narrate(context.Background(), empty); !errors.Is(err, ErrNoMeasures) {
		t.Errorf("Narrate(empty) error = %v, want ErrNoMeasures", err)
	}
}

func TestBuildScorePrompt(t *testing.T) {
	prompt := buildScorePrompt(sampleAssessment())

	if !strings.Contains(prompt, "Overall quality: 71.5") {
		t.Error("prompt missing overall quality")
	}
	if !strings.Contains(prompt, "- Sharpness: 84.0") {
		t.Errorf("prompt missing computed measure:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- BackgroundUniformity: not computed") {
		t.Error("prompt missing failed measure")
	}

	// Id-ordered: UnifiedQualityScore before EyesOpen.
	uqs := strings.Index(prompt, "UnifiedQualityScore")
	eyes := strings.Index(prompt, "EyesOpen")
	if uqs == -1 || eyes == -1 || uqs > eyes {
		t.Error("prompt measures not in id order")
	}
}

func TestBuildScorePrompt_NaNOverall(t *testing.T) {
	a := sampleAssessment()
	a.OverallQuality = math.NaN()

	prompt := buildScorePrompt(a)
	if !strings.Contains(prompt, "Overall quality: not computed") {
		t.Error("prompt missing not-computed overall line")
	}
}

func TestDefaultNarratorConfig(t *testing.T) {
	config := DefaultNarratorConfig()

	if config.Model == "" {
		t.Error("default model is empty")
	}
	if config.MaxTokens <= 0 {
		t.Error("default MaxTokens must be positive")
	}
	if !strings.Contains(config.SystemPrompt, "29794-5") {
		t.Error("system prompt should frame the assessment standard")
	}
}
