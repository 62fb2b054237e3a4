package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ofiq_backend/ofiqruntime"
)

// RenderText renders an assessment as a plain-text report suitable for
// writing next to the image in watch mode.
func RenderText(imagePath string, a *ofiqruntime.Assessment, duration time.Duration) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Image: %s\n", imagePath)
	if math.IsNaN(a.OverallQuality) {
		b.WriteString("Overall quality: not computed\n")
	} else {
		fmt.Fprintf(&b, "Overall quality: %.1f\n", a.OverallQuality)
	}
	fmt.Fprintf(&b, "Duration: %v\n\n", duration.Round(time.Millisecond))

	sorted := make([]ofiqruntime.QualityMeasureResult, len(a.Measures))
	copy(sorted, a.Measures)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Measure < sorted[j].Measure
	})

	for _, m := range sorted {
		if m.IsSuccess() {
			fmt.Fprintf(&b, "%-36s quality %6.1f  raw %.4f\n", m.Measure, m.QualityValue, m.RawScore)
		} else {
			fmt.Fprintf(&b, "%-36s not computed (code %d)\n", m.Measure, int32(m.Code))
		}
	}

	return b.String()
}

// WriteFile writes a report atomically: content goes to a "tmp_" staging file
// in the target directory first, then renames into place. A crash mid-write
// leaves only a tmp_ file, which shutdown cleanup removes.
func WriteFile(dir, name, content string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	tmpPath := filepath.Join(dir, "tmp_"+name)
	finalPath := filepath.Join(dir, name)

	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report staging file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize report file: %w", err)
	}

	return nil
}

// FileNameFor derives the report file name for an image path:
// "probe_001.png" becomes "probe_001.quality.txt".
func FileNameFor(imagePath string) string {
	base := filepath.Base(imagePath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".quality.txt"
}
