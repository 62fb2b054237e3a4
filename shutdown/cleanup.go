package shutdown

import (
	"context"
	"os"
	"path/filepath"

	"ofiq_backend/core"

	"go.uber.org/zap"
)

// CleanupStaging returns a shutdown function that removes partial artifacts
// from the staging directory. Watch mode writes report files as "tmp_*" and
// renames them on completion, so anything still matching the pattern at
// shutdown is an abandoned partial write.
//
// Priority recommendation: 40+ (final cleanup, after services stopped)
//
// The cleanup function:
//   - Removes files matching "tmp_*" in the staging directory
//   - Logs each file removal (success or failure)
//   - Continues cleanup even if individual file removals fail
//   - Returns nil to avoid blocking shutdown (errors are logged)
//
// Usage:
//
//	manager.Register("cleanup-staging", 45, shutdown.CleanupStaging(logger, cfg.Watch.OutputDir))
func CleanupStaging(logger *zap.Logger, stagingDir string) core.ShutdownFunc {
	return func(ctx context.Context) error {
		return cleanupTempFiles(ctx, logger, stagingDir)
	}
}

// CleanupStagingAndDir returns a shutdown function that removes all partial
// artifacts AND the staging directory itself. Use this when the staging
// directory is purely transient and should not persist between runs.
//
// Priority recommendation: 45+ (very final cleanup)
func CleanupStagingAndDir(logger *zap.Logger, stagingDir string) core.ShutdownFunc {
	return func(ctx context.Context) error {
		if err := cleanupTempFiles(ctx, logger, stagingDir); err != nil {
			// Log but continue - we still want to try removing the directory
			logger.Warn("Error during staging cleanup, continuing with directory removal",
				zap.Error(err),
			)
		}

		// Check context before potentially expensive directory removal
		select {
		case <-ctx.Done():
			logger.Warn("Shutdown context cancelled, skipping directory removal")
			return nil
		default:
		}

		return removeStagingDir(logger, stagingDir)
	}
}

// cleanupTempFiles removes files matching "tmp_*" in the staging directory.
// It returns nil even if some files fail to delete (errors are logged).
func cleanupTempFiles(ctx context.Context, logger *zap.Logger, stagingDir string) error {
	logger.Debug("Starting staging file cleanup",
		zap.String("directory", stagingDir),
	)

	pattern := filepath.Join(stagingDir, "tmp_*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		logger.Error("Failed to list staging files",
			zap.String("pattern", pattern),
			zap.Error(err),
		)
		// Return nil to not block shutdown
		return nil
	}

	if len(matches) == 0 {
		logger.Debug("No staging files to clean up")
		return nil
	}

	logger.Info("Cleaning up staging files",
		zap.Int("file_count", len(matches)),
	)

	var removedCount int
	var failedCount int

	for _, match := range matches {
		// Check context between file deletions
		select {
		case <-ctx.Done():
			logger.Warn("Shutdown context cancelled during cleanup",
				zap.Int("removed", removedCount),
				zap.Int("remaining", len(matches)-removedCount-failedCount),
			)
			return nil
		default:
		}

		if err := os.Remove(match); err != nil {
			failedCount++
			logger.Warn("Failed to remove staging file",
				zap.String("file", filepath.Base(match)),
				zap.Error(err),
			)
		} else {
			removedCount++
			logger.Debug("Removed staging file",
				zap.String("file", filepath.Base(match)),
			)
		}
	}

	logger.Info("Staging file cleanup complete",
		zap.Int("removed", removedCount),
		zap.Int("failed", failedCount),
	)

	return nil
}

// removeStagingDir removes the staging directory and all its contents.
// It returns nil if the directory doesn't exist.
func removeStagingDir(logger *zap.Logger, stagingDir string) error {
	info, err := os.Stat(stagingDir)
	if os.IsNotExist(err) {
		logger.Debug("Staging directory does not exist, nothing to remove",
			zap.String("directory", stagingDir),
		)
		return nil
	}
	if err != nil {
		logger.Error("Failed to stat staging directory",
			zap.String("directory", stagingDir),
			zap.Error(err),
		)
		// Return nil to not block shutdown
		return nil
	}

	if !info.IsDir() {
		logger.Warn("Staging path is not a directory",
			zap.String("path", stagingDir),
		)
		return nil
	}

	if err := os.RemoveAll(stagingDir); err != nil {
		logger.Error("Failed to remove staging directory",
			zap.String("directory", stagingDir),
			zap.Error(err),
		)
		// Return nil to not block shutdown
		return nil
	}

	logger.Info("Removed staging directory",
		zap.String("directory", stagingDir),
	)

	return nil
}
