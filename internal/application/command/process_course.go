// Package command contains write operations (CQRS - Commands).
// Commands are responsible for changing the state of the system.
package command

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
	"github.com/edutrack-pro/assessment-engine/internal/domain/course"
	"github.com/edutrack-pro/assessment-engine/internal/domain/outcome"
	"github.com/edutrack-pro/assessment-engine/internal/domain/prediction"
	"github.com/edutrack-pro/assessment-engine/internal/domain/shared"
	"github.com/edutrack-pro/assessment-engine/pkg/logger"
	"github.com/edutrack-pro/assessment-engine/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROCESS COURSE COMMAND
// Runs the full pipeline for one course offering: normalization, statistics,
// CO-PO attainment, predictions, persistence. The core write operation of the
// engine.
// ══════════════════════════════════════════════════════════════════════════════

// ProcessCourseCommand contains the input of one processing run.
type ProcessCourseCommand struct {
	// Semester is the offering's semester label, e.g. "2024-1".
	Semester string

	// CourseCode is the offering's course code, e.g. "EEE-305".
	CourseCode string

	// Records are the raw roster rows in upload order.
	Records []assessment.RawScoreRecord

	// Mapping optionally replaces the built-in CO-PO mapping. Must be an
	// exact 4x12 matrix when provided; nil selects the default.
	Mapping *outcome.Mapping
}

// Validate validates the command.
func (c ProcessCourseCommand) Validate() error {
	if _, err := shared.NewSemester(c.Semester); err != nil {
		return fmt.Errorf("process_course: %w", err)
	}
	if _, err := shared.NewCourseCode(c.CourseCode); err != nil {
		return fmt.Errorf("process_course: %w", err)
	}
	return nil
}

// ProcessCourseResult contains the outcome of a processing run. The Result is
// always usable in memory, regardless of whether persisting it succeeded.
type ProcessCourseResult struct {
	// Result is the full course result of this run.
	Result *course.Result

	// Warnings lists the rows skipped during normalization.
	Warnings []assessment.RowWarning

	// Persisted reports whether the result reached the store.
	Persisted bool

	// SaveError carries the persistence failure when Persisted is false
	// and a save was attempted.
	SaveError error

	// Duration is the total pipeline duration.
	Duration time.Duration
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES (Interfaces)
// ══════════════════════════════════════════════════════════════════════════════

// ResultCache invalidates cached reads after a successful save.
type ResultCache interface {
	// InvalidateCourse drops the cached result of one offering and the
	// course catalogue listing.
	InvalidateCourse(ctx context.Context, semester, courseCode string) error

	// InvalidateStudents drops cached progression reads for the given
	// student ids.
	InvalidateStudents(ctx context.Context, studentIDs []string) error
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ProcessCourseHandler handles the ProcessCourseCommand.
type ProcessCourseHandler struct {
	repo           course.Repository
	cache          ResultCache
	engine         *prediction.Engine
	eventPublisher shared.EventPublisher
	retrier        *retry.Retrier
	log            *logger.Logger
}

// NewProcessCourseHandler creates a new ProcessCourseHandler. The repository
// and cache may be nil for in-memory-only runs; the event publisher may be
// nil when nothing listens.
func NewProcessCourseHandler(
	repo course.Repository,
	cache ResultCache,
	engine *prediction.Engine,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *ProcessCourseHandler {
	if engine == nil {
		engine = prediction.NewEngine(nil)
	}
	if log == nil {
		log = logger.Default()
	}
	return &ProcessCourseHandler{
		repo:           repo,
		cache:          cache,
		engine:         engine,
		eventPublisher: eventPublisher,
		retrier:        retry.DatabaseRetrier(),
		log:            log.With(logger.Component("process_course")),
	}
}

// Handle executes the processing run. Per-row validation failures are
// collected as warnings, never aborting the batch. Cohort statistics and
// attainment are independent of each other and computed concurrently; the
// run joins both before predictions.
func (h *ProcessCourseHandler) Handle(ctx context.Context, cmd ProcessCourseCommand) (*ProcessCourseResult, error) {
	started := time.Now()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	log := h.log.With(
		logger.Semester(cmd.Semester),
		logger.CourseCode(cmd.CourseCode),
	)

	metrics, warnings := assessment.NormalizeRoster(cmd.Records)
	for _, w := range warnings {
		log.Warn("roster row skipped",
			logger.Row(w.Row),
			logger.StudentID(w.StudentID),
			logger.Err(w.Err),
		)
	}

	var (
		wg         sync.WaitGroup
		stats      assessment.CohortStats
		attainment *outcome.Attainment
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		stats = assessment.ComputeCohortStats(metrics)
	}()
	go func() {
		defer wg.Done()
		attainment = outcome.Compute(metrics, cmd.Mapping)
	}()
	wg.Wait()

	predictions := h.engine.Predict(metrics)

	result := &course.Result{
		RunID:       uuid.NewString(),
		Semester:    cmd.Semester,
		CourseCode:  cmd.CourseCode,
		Students:    metrics,
		Stats:       stats,
		Attainment:  attainment,
		Predictions: predictions,
		CreatedAt:   time.Now().UTC(),
	}

	out := &ProcessCourseResult{
		Result:   result,
		Warnings: warnings,
	}

	if h.repo != nil && len(metrics) > 0 {
		out.SaveError = h.persist(ctx, result)
		out.Persisted = out.SaveError == nil
	}

	if out.SaveError != nil {
		log.Error("course result not persisted",
			logger.RunID(result.RunID),
			logger.Err(out.SaveError),
		)
		h.publish(shared.NewCourseSaveFailedEvent(
			result.RunID, result.Semester, result.CourseCode, out.SaveError.Error(),
		))
	}

	if out.Persisted && h.cache != nil {
		if err := h.cache.InvalidateCourse(ctx, result.Semester, result.CourseCode); err != nil {
			log.Warn("course cache invalidation failed", logger.Err(err))
		}
		ids := make([]string, 0, len(metrics))
		for id := range metrics {
			ids = append(ids, id)
		}
		if err := h.cache.InvalidateStudents(ctx, ids); err != nil {
			log.Warn("progression cache invalidation failed", logger.Err(err))
		}
	}

	h.publish(shared.NewCourseProcessedEvent(
		result.RunID, result.Semester, result.CourseCode,
		len(metrics), len(warnings), out.Persisted,
	))

	out.Duration = time.Since(started)
	log.Info("course processed",
		logger.RunID(result.RunID),
		logger.CohortSize(len(metrics)),
		logger.Int("skipped_rows", len(warnings)),
		logger.Bool("persisted", out.Persisted),
		logger.Latency(out.Duration),
	)
	return out, nil
}

// persist saves the result with retries. Context and validation errors are
// permanent; everything else is treated as transient.
func (h *ProcessCourseHandler) persist(ctx context.Context, result *course.Result) error {
	return h.retrier.Do(ctx, func(ctx context.Context) error {
		if err := h.repo.Save(ctx, result); err != nil {
			if ctx.Err() != nil || shared.IsValidation(err) {
				return retry.Permanent(err)
			}
			return retry.Retryable(err)
		}
		return nil
	})
}

func (h *ProcessCourseHandler) publish(event shared.Event) {
	if h.eventPublisher == nil {
		return
	}
	if err := h.eventPublisher.Publish(event); err != nil {
		h.log.Warn("event publish failed", logger.Err(err))
	}
}
