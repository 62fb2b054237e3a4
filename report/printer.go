// Package report renders assessment results for humans: colored terminal
// output, plain-text report files, and optional AI-generated narratives.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"

	"ofiq_backend/ofiqruntime"
)

// DefaultQualityThreshold is the unified-quality score at or above which an
// image is reported as passing. ISO/IEC 29794-5 quality components are on a
// [0,100] scale; 50 is the conventional midpoint acceptance bar.
const DefaultQualityThreshold = 50.0

// Printer renders assessments to a terminal with status colors.
// Construct with NewPrinter and chain With* options, mirroring the
// fluent style used elsewhere in the codebase.
type Printer struct {
	output       io.Writer
	threshold    float64
	showMeasures bool
}

// NewPrinter creates a Printer writing to stdout with default settings.
func NewPrinter() *Printer {
	return &Printer{
		output:       os.Stdout,
		threshold:    DefaultQualityThreshold,
		showMeasures: true,
	}
}

// WithOutput sets the output writer.
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithThreshold sets the pass/fail quality threshold.
func (p *Printer) WithThreshold(threshold float64) *Printer {
	p.threshold = threshold
	return p
}

// WithShowMeasures enables or disables the per-measure breakdown.
func (p *Printer) WithShowMeasures(show bool) *Printer {
	p.showMeasures = show
	return p
}

// PrintAssessment renders one assessment: header, overall verdict,
// per-measure breakdown, and a summary line.
func (p *Printer) PrintAssessment(imagePath string, a *ofiqruntime.Assessment, duration time.Duration) {
	p.printHeader(imagePath)
	p.printOverall(a.OverallQuality)

	if p.showMeasures {
		p.printMeasures(a.Measures)
	}

	p.printSummary(a, duration)
}

// PrintPreprocessing renders the preprocessing artifacts of a full assessment:
// detected faces, head pose, and landmark count.
func (p *Printer) PrintPreprocessing(pre *ofiqruntime.Preprocessing) {
	dim := color.New(color.FgHiBlack)

	fmt.Fprintln(p.output)
	color.New(color.FgCyan).Fprintf(p.output, "  Preprocessing\n")

	if len(pre.Faces) == 0 {
		dim.Fprintf(p.output, "    no faces detected\n")
		return
	}

	for i, face := range pre.Faces {
		dim.Fprintf(p.output, "    face %d: %dx%d at (%d,%d)\n",
			i+1, face.Width, face.Height, face.X, face.Y)
	}
	dim.Fprintf(p.output, "    head pose: yaw %.1f° pitch %.1f° roll %.1f°\n",
		pre.Pose.Yaw, pre.Pose.Pitch, pre.Pose.Roll)
	dim.Fprintf(p.output, "    landmarks: %d points\n", len(pre.Landmarks))
}

// PrintError renders an assessment failure.
func (p *Printer) PrintError(imagePath string, err error) {
	p.printHeader(imagePath)
	errColor := color.New(color.FgRed)
	errColor.Fprintf(p.output, "  ✗ assessment failed\n")
	errColor.Fprintf(p.output, "    └─ %s\n", err.Error())
	fmt.Fprintln(p.output)
}

func (p *Printer) printHeader(title string) {
	fmt.Fprintln(p.output)
	headerColor := color.New(color.FgCyan, color.Bold)
	headerColor.Fprintf(p.output, "━━━ %s ━━━\n", title)
	fmt.Fprintln(p.output)
}

func (p *Printer) printOverall(quality float64) {
	switch {
	case math.IsNaN(quality):
		color.New(color.FgYellow, color.Bold).Fprintf(p.output, "  ! overall quality unavailable\n")
	case quality >= p.threshold:
		color.New(color.FgGreen, color.Bold).Fprintf(p.output, "  ✓ overall quality %.1f (threshold %.1f)\n", quality, p.threshold)
	default:
		color.New(color.FgRed, color.Bold).Fprintf(p.output, "  ✗ overall quality %.1f (threshold %.1f)\n", quality, p.threshold)
	}
}

func (p *Printer) printMeasures(measures []ofiqruntime.QualityMeasureResult) {
	// Stable, id-ordered presentation regardless of native array order.
	sorted := make([]ofiqruntime.QualityMeasureResult, len(measures))
	copy(sorted, measures)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Measure < sorted[j].Measure
	})

	fmt.Fprintln(p.output)
	for _, m := range sorted {
		p.printMeasure(m)
	}
}

func (p *Printer) printMeasure(m ofiqruntime.QualityMeasureResult) {
	dim := color.New(color.FgHiBlack)

	if !m.IsSuccess() {
		clr := color.New(color.FgHiBlack)
		clr.Fprintf(p.output, "  ○ %s", m.Measure)
		dim.Fprintf(p.output, " - not computed (code %d)\n", int32(m.Code))
		return
	}

	var clr *color.Color
	var icon string
	if m.QualityValue >= p.threshold {
		clr = color.New(color.FgGreen)
		icon = "✓"
	} else {
		clr = color.New(color.FgRed)
		icon = "✗"
	}

	clr.Fprintf(p.output, "  %s %s", icon, m.Measure)
	dim.Fprintf(p.output, " - quality %.1f (raw %.4f)\n", m.QualityValue, m.RawScore)
}

func (p *Printer) printSummary(a *ofiqruntime.Assessment, duration time.Duration) {
	computed, failed := 0, 0
	for _, m := range a.Measures {
		if m.IsSuccess() {
			computed++
		} else {
			failed++
		}
	}

	fmt.Fprintln(p.output)
	passed := !math.IsNaN(a.OverallQuality) && a.OverallQuality >= p.threshold
	if passed {
		verdict := color.New(color.FgGreen, color.Bold)
		verdict.Fprintf(p.output, "━━━ Pass ")
	} else {
		verdict := color.New(color.FgRed, color.Bold)
		verdict.Fprintf(p.output, "━━━ Fail ")
	}
	color.New(color.FgHiBlack).Fprintf(p.output, "(%d measures computed, %d failed, %v)",
		computed, failed, duration.Round(time.Millisecond))
	if passed {
		color.New(color.FgGreen, color.Bold).Fprintln(p.output, " ━━━")
	} else {
		color.New(color.FgRed, color.Bold).Fprintln(p.output, " ━━━")
	}
	fmt.Fprintln(p.output)
}
