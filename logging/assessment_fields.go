// Package logging provides structured logging utilities for the OFIQ backend.
// This file contains molecule-level helper functions that compose the
// AssessmentMetrics atom into convenient zap.Field helpers.
package logging

import (
	"time"

	"go.uber.org/zap"
)

// AssessmentFields creates a structured zap field from assessment metrics.
//
// Example:
//
//	logger.Info("assessment complete", logging.AssessmentFields(metrics))
func AssessmentFields(metrics AssessmentMetrics) zap.Field {
	return zap.Object("assessment", metrics)
}

// ImageFields creates a slice of zap fields for a decoded image.
// This is a convenience function for logging image dimensions without a full
// AssessmentMetrics struct.
//
// Example:
//
//	logger.Debug("image decoded", logging.ImageFields(640, 480, 3)...)
func ImageFields(width, height, channels int) []zap.Field {
	return []zap.Field{
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("channels", channels),
	}
}

// TimingFields creates a slice of zap fields for assessment timing.
//
// Example:
//
//	start := time.Now()
//	// ... run assessment ...
//	logger.Info("timing", logging.TimingFields(start, time.Now())...)
func TimingFields(startTime, endTime time.Time) []zap.Field {
	return []zap.Field{
		zap.Time("start_time", startTime),
		zap.Time("end_time", endTime),
		zap.Duration("duration", endTime.Sub(startTime)),
	}
}
