package logging

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// AssessmentMetrics represents metrics collected during a quality assessment.
// Implements zapcore.ObjectMarshaler for structured logging.
//
// This is a pure data structure with no dependencies on other logging atoms.
//
// Example:
//
//	metrics := AssessmentMetrics{
//		ImagePath:      "face.png",
//		ImageWidth:     640,
//		ImageHeight:    480,
//		MeasureCount:   28,
//		FailedMeasures: 2,
//		OverallQuality: 73.5,
//		Duration:       1200 * time.Millisecond,
//	}
//	logger.Info("assessment complete", zap.Object("assessment", metrics))
type AssessmentMetrics struct {
	// ImagePath identifies the assessed image
	ImagePath string `json:"image_path"`

	// ImageWidth and ImageHeight are the decoded image dimensions in pixels
	ImageWidth  int `json:"image_width"`
	ImageHeight int `json:"image_height"`

	// MeasureCount is the number of measures the native engine reported
	MeasureCount int `json:"measure_count"`

	// FailedMeasures is the number of measures that could not be computed
	FailedMeasures int `json:"failed_measures"`

	// OverallQuality is the unified quality score for the image
	OverallQuality float64 `json:"overall_quality"`

	// Duration is the total time taken for the assessment
	Duration time.Duration `json:"duration"`
}

// MarshalLogObject implements zapcore.ObjectMarshaler for structured logging.
// This allows AssessmentMetrics to be logged as a nested JSON object in zap logs.
//
// Duration is encoded in milliseconds for readability.
func (m AssessmentMetrics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("image_path", m.ImagePath)
	enc.AddInt("image_width", m.ImageWidth)
	enc.AddInt("image_height", m.ImageHeight)
	enc.AddInt("measure_count", m.MeasureCount)
	enc.AddInt("failed_measures", m.FailedMeasures)
	enc.AddFloat64("overall_quality", m.OverallQuality)
	enc.AddInt64("duration_ms", m.Duration.Milliseconds())
	return nil
}
