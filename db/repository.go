package db

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// AssessmentRecord represents a row in the assessments table.
// One record is written per quality assessment run, successful or not.
type AssessmentRecord struct {
	ID             string    // UUID primary key
	ImagePath      string    // Path of the assessed image ("" for in-memory buffers)
	Fingerprint    string    // BLAKE2b-256 hex digest of the pixel buffer
	Width          int       // Image width in pixels
	Height         int       // Image height in pixels
	Channels       int       // Channel count (1, 3 or 4)
	OverallQuality float64   // Unified quality score; NaN if unavailable
	EngineVersion  string    // Native engine version string
	DurationMS     int       // Assessment duration in milliseconds
	Status         string    // "success" or "error"
	ErrorMessage   string    // Error description if status is "error"
	CreatedAt      time.Time // Timestamp when record was created
}

// MeasureRecord represents a row in the assessment_measures table.
// Scores are stored as NULL when the engine could not compute the measure.
type MeasureRecord struct {
	ID           int64   // Auto-incremented primary key
	AssessmentID string  // UUID of the owning assessment
	MeasureID    int32   // Native measure identifier
	MeasureName  string  // Human-readable measure name
	RawScore     float64 // Native-unit raw score; NaN if not computed
	QualityValue float64 // Mapped quality component [0,100]; NaN if not computed
	ReturnCode   int32   // Per-measure return code (0 = success)
}

// ErrorLogEntry represents a row in the error_log table.
type ErrorLogEntry struct {
	ID           int64     // Auto-incremented primary key
	AssessmentID string    // Optional UUID linking to an assessment
	ErrorType    string    // Category of error (e.g., "image_load", "native_call")
	ErrorMessage string    // Error description
	Context      string    // JSON-encoded additional context
	CreatedAt    time.Time // Timestamp when error was logged
}

// Repository provides CRUD operations for the database tables.
// It wraps a Database instance and provides type-safe methods
// for inserting and querying records.
//
// The Repository is designed to work with both synchronous and
// asynchronous writes via the AsyncWriter.
type Repository struct {
	db          *Database
	asyncWriter *AsyncWriter
}

// NewRepository creates a new Repository instance.
// The asyncWriter parameter is optional; if nil, all writes will be synchronous.
func NewRepository(db *Database, asyncWriter *AsyncWriter) *Repository {
	return &Repository{
		db:          db,
		asyncWriter: asyncWriter,
	}
}

// InsertAssessment inserts an assessment record together with its per-measure
// scores in a single transaction. If record.ID is empty a new UUID is
// generated. If an asyncWriter is configured, the write is queued
// asynchronously. Returns the record ID.
func (r *Repository) InsertAssessment(ctx context.Context, record AssessmentRecord, measures []MeasureRecord) (string, error) {
	if r.db == nil {
		return "", fmt.Errorf("database connection is nil")
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	// Use async writer if available
	if r.asyncWriter != nil && r.asyncWriter.IsStarted() {
		op := asyncAssessmentOp{
			record:   record,
			measures: measures,
		}
		if r.asyncWriter.Write(op) {
			return record.ID, nil // Async write queued successfully
		}
		// Fall through to sync write if channel is full
	}

	if err := r.insertAssessmentTx(record, measures); err != nil {
		return "", err
	}

	return record.ID, nil
}

// insertAssessmentTx performs the transactional insert of an assessment
// and its measures.
func (r *Repository) insertAssessmentTx(record AssessmentRecord, measures []MeasureRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin assessment transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO assessments (
			id, image_path, fingerprint, width, height, channels,
			overall_quality, engine_version, duration_ms, status, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.ImagePath,
		record.Fingerprint,
		record.Width,
		record.Height,
		record.Channels,
		nullFloat(record.OverallQuality),
		record.EngineVersion,
		record.DurationMS,
		record.Status,
		nullString(record.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}

	for _, m := range measures {
		_, err = tx.Exec(`
			INSERT INTO assessment_measures (
				assessment_id, measure_id, measure_name,
				raw_score, quality_value, return_code
			) VALUES (?, ?, ?, ?, ?, ?)`,
			record.ID,
			m.MeasureID,
			m.MeasureName,
			nullFloat(m.RawScore),
			nullFloat(m.QualityValue),
			m.ReturnCode,
		)
		if err != nil {
			return fmt.Errorf("failed to insert measure %q: %w", m.MeasureName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assessment transaction: %w", err)
	}

	return nil
}

// QueryRecentAssessments retrieves the most recent assessment records.
// Results are ordered by created_at DESC.
func (r *Repository) QueryRecentAssessments(ctx context.Context, limit int) ([]AssessmentRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	if limit <= 0 {
		limit = 10 // Default limit
	}

	query := assessmentSelectColumns + `
		FROM assessments
		ORDER BY created_at DESC
		LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	return scanAssessmentRows(rows)
}

// QueryAssessmentByID retrieves a single assessment record by its UUID.
// Returns sql.ErrNoRows wrapped if no record exists.
func (r *Repository) QueryAssessmentByID(ctx context.Context, id string) (AssessmentRecord, error) {
	if r.db == nil {
		return AssessmentRecord{}, fmt.Errorf("database connection is nil")
	}

	query := assessmentSelectColumns + `
		FROM assessments
		WHERE id = ?`

	rows, err := r.db.Query(query, id)
	if err != nil {
		return AssessmentRecord{}, fmt.Errorf("failed to query assessment: %w", err)
	}
	defer rows.Close()

	records, err := scanAssessmentRows(rows)
	if err != nil {
		return AssessmentRecord{}, err
	}
	if len(records) == 0 {
		return AssessmentRecord{}, fmt.Errorf("assessment %s: %w", id, sql.ErrNoRows)
	}

	return records[0], nil
}

// QueryAssessmentsByFingerprint retrieves assessments of the same pixel
// content, newest first. Useful for detecting re-assessments of an image.
func (r *Repository) QueryAssessmentsByFingerprint(ctx context.Context, fingerprint string, limit int) ([]AssessmentRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	if limit <= 0 {
		limit = 10
	}

	query := assessmentSelectColumns + `
		FROM assessments
		WHERE fingerprint = ?
		ORDER BY created_at DESC
		LIMIT ?`

	rows, err := r.db.Query(query, fingerprint, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	return scanAssessmentRows(rows)
}

// QueryMeasuresForAssessment retrieves the per-measure scores for an
// assessment, ordered by measure id.
func (r *Repository) QueryMeasuresForAssessment(ctx context.Context, assessmentID string) ([]MeasureRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT id, assessment_id, measure_id, measure_name,
			   raw_score, quality_value, return_code
		FROM assessment_measures
		WHERE assessment_id = ?
		ORDER BY measure_id ASC`

	rows, err := r.db.Query(query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query measures: %w", err)
	}
	defer rows.Close()

	var measures []MeasureRecord
	for rows.Next() {
		var m MeasureRecord
		var raw, quality sql.NullFloat64

		err := rows.Scan(
			&m.ID,
			&m.AssessmentID,
			&m.MeasureID,
			&m.MeasureName,
			&raw,
			&quality,
			&m.ReturnCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan measure row: %w", err)
		}

		m.RawScore = floatOrNaN(raw)
		m.QualityValue = floatOrNaN(quality)
		measures = append(measures, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating measure rows: %w", err)
	}

	return measures, nil
}

// InsertErrorLog inserts an error log entry.
// If an asyncWriter is configured, the write is queued asynchronously.
func (r *Repository) InsertErrorLog(ctx context.Context, entry ErrorLogEntry) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	query := `
		INSERT INTO error_log (
			assessment_id, error_type, error_message, context
		) VALUES (?, ?, ?, ?)`

	args := []interface{}{
		nullString(entry.AssessmentID),
		entry.ErrorType,
		entry.ErrorMessage,
		nullString(entry.Context),
	}

	// Use async writer if available
	if r.asyncWriter != nil && r.asyncWriter.IsStarted() {
		op := asyncInsertOp{
			query: query,
			args:  args,
		}
		if r.asyncWriter.Write(op) {
			return 0, nil // Async write queued successfully
		}
		// Fall through to sync write if channel is full
	}

	// Synchronous write
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert error log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return id, nil
}

// QueryRecentErrorLogs retrieves the most recent error log entries.
// Results are ordered by created_at DESC.
func (r *Repository) QueryRecentErrorLogs(ctx context.Context, limit int) ([]ErrorLogEntry, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, COALESCE(assessment_id, ''), error_type, error_message,
			   COALESCE(context, ''), created_at
		FROM error_log
		ORDER BY created_at DESC
		LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query error logs: %w", err)
	}
	defer rows.Close()

	var entries []ErrorLogEntry
	for rows.Next() {
		var entry ErrorLogEntry
		var createdAt string

		err := rows.Scan(
			&entry.ID,
			&entry.AssessmentID,
			&entry.ErrorType,
			&entry.ErrorMessage,
			&entry.Context,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan error log row: %w", err)
		}

		entry.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating error log rows: %w", err)
	}

	return entries, nil
}

// CountAssessments returns the total count of assessment records.
func (r *Repository) CountAssessments(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM assessments").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count assessments: %w", err)
	}

	return count, nil
}

// CountErrorLogs returns the total count of error log entries.
func (r *Repository) CountErrorLogs(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM error_log").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count error logs: %w", err)
	}

	return count, nil
}

// asyncInsertOp is an internal type for single-statement async writes.
type asyncInsertOp struct {
	query string
	args  []interface{}
}

// asyncAssessmentOp is an internal type for transactional assessment writes.
type asyncAssessmentOp struct {
	record   AssessmentRecord
	measures []MeasureRecord
}

// CreateAsyncWriteHandler creates a WriteHandler for the Repository.
// The handler processes asyncInsertOp and asyncAssessmentOp operations.
func (r *Repository) CreateAsyncWriteHandler() WriteHandler {
	return func(op WriteOperation) error {
		switch data := op.Data.(type) {
		case asyncInsertOp:
			_, err := r.db.Exec(data.query, data.args...)
			return err
		case asyncAssessmentOp:
			return r.insertAssessmentTx(data.record, data.measures)
		default:
			return fmt.Errorf("invalid operation type: %T", op.Data)
		}
	}
}

const assessmentSelectColumns = `
	SELECT id, COALESCE(image_path, ''), fingerprint, width, height, channels,
		   overall_quality, COALESCE(engine_version, ''),
		   COALESCE(duration_ms, 0), status, COALESCE(error_message, ''),
		   created_at`

// scanAssessmentRows materializes assessment rows. NULL overall_quality
// columns come back as NaN.
func scanAssessmentRows(rows *sql.Rows) ([]AssessmentRecord, error) {
	var records []AssessmentRecord
	for rows.Next() {
		var rec AssessmentRecord
		var overall sql.NullFloat64
		var createdAt string

		err := rows.Scan(
			&rec.ID,
			&rec.ImagePath,
			&rec.Fingerprint,
			&rec.Width,
			&rec.Height,
			&rec.Channels,
			&overall,
			&rec.EngineVersion,
			&rec.DurationMS,
			&rec.Status,
			&rec.ErrorMessage,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment row: %w", err)
		}

		rec.OverallQuality = floatOrNaN(overall)
		// Parse SQLite datetime
		rec.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessment rows: %w", err)
	}

	return records, nil
}

// nullString converts an empty string to sql.NullString for NULL storage.
func nullString(s string) interface{} {
	if s == "" {
		return sql.NullString{String: "", Valid: false}
	}
	return s
}

// nullFloat converts NaN to sql.NullFloat64 for NULL storage. SQLite has no
// NaN representation, so failed scores are persisted as NULL.
func nullFloat(f float64) interface{} {
	if math.IsNaN(f) {
		return sql.NullFloat64{Float64: 0, Valid: false}
	}
	return f
}

// floatOrNaN converts a NULL column back to the NaN sentinel.
func floatOrNaN(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}
