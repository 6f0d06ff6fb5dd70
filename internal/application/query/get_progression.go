package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edutrack-pro/assessment-engine/internal/domain/course"
	"github.com/edutrack-pro/assessment-engine/internal/domain/progression"
	"github.com/edutrack-pro/assessment-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROGRESSION QUERY
// Builds a student's semester-by-semester CGPA series from their stored
// course records. The series is derived on every read, never stored.
// ══════════════════════════════════════════════════════════════════════════════

// GetProgressionQuery contains the parameters of a progression read.
type GetProgressionQuery struct {
	// StudentID identifies the student.
	StudentID string
}

// Validate validates the query.
func (q GetProgressionQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("get_progression: student_id must be provided")
	}
	return nil
}

// GetProgressionOutput contains the progression read result.
type GetProgressionOutput struct {
	// StudentID is the student the series belongs to.
	StudentID string `json:"student_id"`

	// Entries is the semester series in chronological order. Empty when
	// the student has no stored records.
	Entries []progression.Entry `json:"entries"`

	// CurrentCGPA is the cumulative CGPA after the latest semester.
	CurrentCGPA float64 `json:"current_cgpa"`

	// CreditsCompleted is the total credits across all semesters.
	CreditsCompleted float64 `json:"credits_completed"`

	// TrendAvailable reports whether enough semesters exist for a trend.
	TrendAvailable bool `json:"trend_available"`

	// FromCache reports whether the read was served from cache.
	FromCache bool `json:"from_cache"`

	// RetrievedAt is the read timestamp.
	RetrievedAt time.Time `json:"retrieved_at"`
}

// ProgressionCache is the cache-aside collaborator for progression reads.
// A miss is a nil series with a nil error.
type ProgressionCache interface {
	GetProgression(ctx context.Context, studentID string) ([]progression.Entry, error)
	SetProgression(ctx context.Context, studentID string, entries []progression.Entry) error
}

// GetProgressionHandler handles progression reads.
type GetProgressionHandler struct {
	repo  course.Repository
	cache ProgressionCache
	log   *logger.Logger
}

// NewGetProgressionHandler creates a new handler. The cache may be nil.
func NewGetProgressionHandler(repo course.Repository, cache ProgressionCache, log *logger.Logger) *GetProgressionHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetProgressionHandler{
		repo:  repo,
		cache: cache,
		log:   log.With(logger.Component("get_progression")),
	}
}

// Handle executes the read. A student with no stored records yields an empty
// series, not an error.
func (h *GetProgressionHandler) Handle(ctx context.Context, query GetProgressionQuery) (*GetProgressionOutput, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if h.cache != nil {
		entries, err := h.cache.GetProgression(ctx, query.StudentID)
		if err != nil {
			h.log.Warn("progression cache read failed",
				logger.StudentID(query.StudentID),
				logger.Err(err),
			)
		} else if entries != nil {
			return h.buildOutput(query.StudentID, entries, true), nil
		}
	}

	records, err := h.repo.LoadStudent(ctx, query.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_progression: %w", err)
	}

	entries := progression.Build(records)

	if h.cache != nil && len(entries) > 0 {
		if err := h.cache.SetProgression(ctx, query.StudentID, entries); err != nil {
			h.log.Warn("progression cache write failed",
				logger.StudentID(query.StudentID),
				logger.Err(err),
			)
		}
	}

	return h.buildOutput(query.StudentID, entries, false), nil
}

func (h *GetProgressionHandler) buildOutput(studentID string, entries []progression.Entry, fromCache bool) *GetProgressionOutput {
	out := &GetProgressionOutput{
		StudentID:      studentID,
		Entries:        entries,
		TrendAvailable: len(entries) >= progression.MinTrendSemesters,
		FromCache:      fromCache,
		RetrievedAt:    time.Now().UTC(),
	}
	if len(entries) > 0 {
		last := entries[len(entries)-1]
		out.CurrentCGPA = last.CumulativeCGPA
		out.CreditsCompleted = last.CreditsCompleted
	}
	return out
}
