package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ofiq_backend/core"
	"ofiq_backend/db"
	"ofiq_backend/imageio"
	"ofiq_backend/logging"
	"ofiq_backend/ofiqruntime"
	"ofiq_backend/report"
	"ofiq_backend/shutdown"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		// Use fmt here since the logger isn't initialized yet
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	// Windows service management commands (install, uninstall, ...) are
	// handled before anything else touches the filesystem.
	if HandleServiceCommand(os.Args) {
		return
	}

	// When launched by the service manager there is no console session;
	// hand control to the service wrapper. Interactive runs fall through.
	if ran, err := RunAsService(); ran {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Service error: %v\n", err)
			os.Exit(core.ExitCodeError)
		}
		return
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(core.ExitCodeError)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if command == "version" {
		fmt.Printf("ofiq_backend %s\n", core.GetVersionInfo())
		fmt.Printf("engine bindings: %s\n", ofiqruntime.NewEngine().Version())
		return
	}
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := LoadConfig(core.GetEnvOrDefault("OFIQ_CONFIG", "config.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(core.ExitCodeError)
	}

	isDevelopment := os.Getenv("DEV_MODE") == "true"
	logger, err := logging.NewLogger(isDevelopment, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(core.ExitCodeError)
	}
	defer func() {
		_ = logger.Sync()
	}()

	var exitCode int
	switch command {
	case "assess":
		exitCode = runAssess(cfg, logger, args)
	case "watch":
		exitCode = runWatch(cfg, logger, args)
	case "migrate":
		exitCode = runMigrate(cfg, logger)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		exitCode = core.ExitCodeError
	}

	_ = logger.Sync()
	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println("OFIQ facial image quality assessment")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ofiq_backend assess <image> [image ...]   Assess one or more image files")
	fmt.Println("  ofiq_backend watch <dir>                  Watch a directory for new images")
	fmt.Println("  ofiq_backend migrate                      Apply pending database migrations")
	fmt.Println("  ofiq_backend version                      Print version information")
	fmt.Println()
	fmt.Println("Configuration is read from config.yaml (override with OFIQ_CONFIG),")
	fmt.Println("then from OFIQ_* environment variables. A .env file is loaded if present.")
}

// app bundles the long-lived collaborators shared by assess and watch mode.
type app struct {
	cfg      *Config
	logger   *logging.Logger
	manager  *shutdown.Manager
	database *db.Database
	writer   *db.AsyncWriter
	repo     *db.Repository
	engine   *ofiqruntime.Engine
	printer  *report.Printer
	narrator *report.Narrator
}

// newApp wires the database, async writer, native engine and shutdown
// ordering. On success the shutdown manager owns every resource; callers
// only need to call a.manager.Shutdown().
func newApp(cfg *Config, logger *logging.Logger) (*app, error) {
	a := &app{
		cfg:     cfg,
		logger:  logger,
		manager: shutdown.NewManager(logger.Zap()),
	}

	database, err := db.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	a.database = database

	// The writer's handler needs a repository for the actual inserts, and
	// the repository needs the writer to queue them. Break the cycle with
	// a synchronous repository that only serves the handler.
	syncRepo := db.NewRepository(database, nil)
	a.writer = db.NewAsyncWriter(syncRepo.CreateAsyncWriteHandler())
	a.writer.Start()
	a.repo = db.NewRepository(database, a.writer)

	if err := validateStartup(cfg); err != nil {
		a.writer.Stop()
		database.Close()
		return nil, err
	}
	a.engine = ofiqruntime.NewEngine()
	if err := a.engine.Initialize(cfg.Engine.ConfigDir, cfg.Engine.ConfigFile); err != nil {
		a.writer.Stop()
		database.Close()
		return nil, fmt.Errorf("failed to initialize OFIQ engine: %w", err)
	}

	// The async writer must drain before the database closes, and the
	// engine must release its native session before process exit.
	a.manager.Register("async-writer", 10, func(ctx context.Context) error {
		a.writer.Stop()
		return nil
	})
	a.manager.Register("engine", 20, func(ctx context.Context) error {
		return a.engine.Close()
	})
	a.manager.Register("database", 30, func(ctx context.Context) error {
		return a.database.Close()
	})

	a.printer = report.NewPrinter().
		WithThreshold(cfg.Report.QualityThreshold).
		WithShowMeasures(cfg.Report.ShowMeasures)

	if cfg.Report.Narrative {
		a.narrator = report.NewNarratorFromKey(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	logger.Info("Application initialized",
		zap.String("engine_version", a.engine.Version()),
		zap.String("database", a.database.Path()),
		zap.Float64("quality_threshold", cfg.Report.QualityThreshold),
	)
	return a, nil
}

// validateStartup checks the filesystem prerequisites before the native
// engine is brought up, so a missing model directory fails with a clear
// configuration error instead of a native one.
func validateStartup(cfg *Config) error {
	info, err := os.Stat(cfg.Engine.ConfigDir)
	if err != nil || !info.IsDir() {
		return core.ErrConfigDirMissing(cfg.Engine.ConfigDir)
	}
	if _, err := os.Stat(filepath.Join(cfg.Engine.ConfigDir, cfg.Engine.ConfigFile)); err != nil {
		return core.ErrConfigFileMissing(cfg.Engine.ConfigDir, cfg.Engine.ConfigFile)
	}
	return nil
}

// runAssess assesses each file argument in turn. Any per-file failure is
// reported and recorded but does not stop the remaining files; the exit
// code reflects whether all files were assessed cleanly.
func runAssess(cfg *Config, logger *logging.Logger, files []string) int {
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "assess requires at least one image file")
		return core.ExitCodeError
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("Startup failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return core.ExitCodeError
	}
	a.manager.Start()

	failures := 0
	for _, path := range files {
		err := a.manager.WrapOperation(a.manager.Context(), "assess-image", func(ctx context.Context) error {
			return a.assessFile(ctx, path)
		})
		if err != nil {
			failures++
			if a.manager.IsShuttingDown() {
				break
			}
		}
	}

	if err := a.manager.Shutdown(); err != nil {
		logger.Error("Shutdown reported errors", zap.Error(err))
	}
	if failures > 0 {
		logger.Warn("Assessment run finished with failures",
			zap.Int("failed", failures),
			zap.Int("total", len(files)))
		return core.ExitCodeError
	}
	return core.ExitCodeSuccess
}

// assessFile runs the full pipeline for one image: load, fingerprint,
// native assessment, terminal report, persistence and the optional file
// report and narrative.
func (a *app) assessFile(ctx context.Context, path string) error {
	start := time.Now()

	img, err := imageio.LoadFile(path)
	if err != nil {
		a.printer.PrintError(path, err)
		a.recordFailure(ctx, path, "image_load", err)
		return err
	}
	a.logger.Debug("Image decoded", logging.ImageFields(img.Width, img.Height, img.Channels)...)
	fingerprint := db.Fingerprint(img.Pixels)

	assessment, pre, err := a.engine.AssessQualityWithPreprocessing(img)
	duration := time.Since(start)
	if err != nil {
		a.printer.PrintError(path, err)
		a.recordFailure(ctx, path, "assessment", err)
		return err
	}

	a.printer.PrintAssessment(path, assessment, duration)
	if a.cfg.Report.ShowMeasures {
		a.printer.PrintPreprocessing(pre)
	}

	record := db.AssessmentRecord{
		ImagePath:      path,
		Fingerprint:    fingerprint,
		Width:          img.Width,
		Height:         img.Height,
		Channels:       img.Channels,
		OverallQuality: assessment.OverallQuality,
		EngineVersion:  a.engine.Version(),
		DurationMS:     int(duration.Milliseconds()),
		Status:         "success",
	}
	id, err := a.repo.InsertAssessment(ctx, record, measureRecords(assessment))
	if err != nil {
		a.logger.Error("Failed to persist assessment",
			zap.String("image", path),
			zap.Error(err))
		return err
	}
	failed := 0
	for _, m := range assessment.Measures {
		if !m.IsSuccess() {
			failed++
		}
	}
	a.logger.Info("Assessment recorded",
		zap.String("assessment_id", id),
		zap.String("fingerprint", fingerprint),
		logging.AssessmentFields(logging.AssessmentMetrics{
			ImagePath:      path,
			ImageWidth:     img.Width,
			ImageHeight:    img.Height,
			MeasureCount:   len(assessment.Measures),
			FailedMeasures: failed,
			OverallQuality: assessment.OverallQuality,
			Duration:       duration,
		}))

	if a.cfg.Report.WriteFiles {
		content := report.RenderText(path, assessment, duration)
		name := report.FileNameFor(path)
		if err := report.WriteFile(a.cfg.Watch.OutputDir, name, content); err != nil {
			a.logger.Error("Failed to write report file",
				zap.String("image", path),
				zap.Error(err))
		}
	}

	if a.narrator != nil {
		narrative, err := a.narrator.Narrate(ctx, assessment)
		if err != nil {
			a.logger.Warn("Narrative generation failed",
				zap.String("image", path),
				zap.Error(err))
		} else {
			fmt.Println()
			fmt.Println(narrative.Narrative)
		}
	}
	return nil
}

// recordFailure persists a failed assessment alongside an error-log entry
// so history queries see the attempt. Persistence errors here are logged
// and swallowed; the original failure is what the caller reports.
func (a *app) recordFailure(ctx context.Context, path, errorType string, cause error) {
	record := db.AssessmentRecord{
		ImagePath:     path,
		EngineVersion: a.engine.Version(),
		Status:        "failed",
		ErrorMessage:  cause.Error(),
	}
	id, err := a.repo.InsertAssessment(ctx, record, nil)
	if err != nil {
		a.logger.Error("Failed to persist failed assessment",
			zap.String("image", path),
			zap.Error(err))
		return
	}
	if _, err := a.repo.InsertErrorLog(ctx, db.ErrorLogEntry{
		AssessmentID: id,
		ErrorType:    errorType,
		ErrorMessage: cause.Error(),
		Context:      path,
	}); err != nil {
		a.logger.Error("Failed to persist error log entry",
			zap.String("image", path),
			zap.Error(err))
	}
}

// measureRecords flattens an assessment into persistence rows.
func measureRecords(a *ofiqruntime.Assessment) []db.MeasureRecord {
	records := make([]db.MeasureRecord, 0, len(a.Measures))
	for _, m := range a.Measures {
		records = append(records, db.MeasureRecord{
			MeasureID:    int32(m.Measure),
			MeasureName:  m.Measure.String(),
			RawScore:     m.RawScore,
			QualityValue: m.QualityValue,
			ReturnCode:   int32(m.Code),
		})
	}
	return records
}

// runWatch polls a directory for new images and assesses each one, writing
// a report file next to the database record. Under Windows this is also
// the code path the service wrapper drives.
func runWatch(cfg *Config, logger *logging.Logger, args []string) int {
	inputDir := cfg.Watch.InputDir
	if len(args) == 1 {
		inputDir = args[0]
	} else if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "watch takes at most one directory argument")
		return core.ExitCodeError
	}
	if inputDir == "" {
		fmt.Fprintln(os.Stderr, "watch requires a directory argument or watch.input_dir in config")
		return core.ExitCodeError
	}
	if info, err := os.Stat(inputDir); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "watch directory does not exist: %s\n", inputDir)
		return core.ExitCodeError
	}

	// Watch mode always writes report files.
	cfg.Report.WriteFiles = true

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("Startup failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return core.ExitCodeError
	}

	// Partially written tmp_* reports from an interrupted run are swept
	// after the database and engine are released.
	a.manager.Register("staging-cleanup", 45, shutdown.CleanupStaging(logger.Zap(), cfg.Watch.OutputDir))
	a.manager.Start()

	a.database.StartCleanupSchedulerWithConfig(a.manager.Context(), db.CleanupSchedulerConfig{
		RetentionDays: cfg.Database.RetentionDays,
		Interval:      cfg.Database.CleanupInterval,
		OnCleanup: func(result db.CleanupResult, err error) {
			if err != nil {
				logger.Error("Retention cleanup failed", zap.Error(err))
				return
			}
			logger.Info("Retention cleanup complete",
				zap.Int64("assessments_deleted", result.AssessmentsDeleted),
				zap.Int64("error_logs_deleted", result.ErrorLogDeleted))
		},
	})

	watcher := NewWatcher(a, inputDir)
	go watcher.Start(a.manager.Context())

	logger.Info("Watching for images",
		zap.String("input_dir", inputDir),
		zap.String("output_dir", cfg.Watch.OutputDir),
		zap.Duration("poll_interval", cfg.Watch.PollInterval))

	a.manager.Wait()
	<-watcher.Done()
	if err := a.manager.Shutdown(); err != nil {
		logger.Error("Shutdown reported errors", zap.Error(err))
		return core.ExitCodeError
	}
	return core.ExitCodeSuccess
}

// runMigrate applies pending migrations and reports the resulting schema
// version.
func runMigrate(cfg *Config, logger *logging.Logger) int {
	if err := db.MigrateUpFromPath(cfg.Database.Path, "file://db/migrations"); err != nil {
		logger.Error("Migration failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		return core.ExitCodeError
	}
	version, dirty, err := db.GetMigrationVersionFromPath(cfg.Database.Path, "file://db/migrations")
	if err != nil {
		logger.Error("Could not read migration version", zap.Error(err))
		return core.ExitCodeError
	}
	logger.Info("Migrations applied",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	fmt.Printf("Database schema at version %d\n", version)
	return core.ExitCodeSuccess
}
