// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/edutrack-pro/assessment-engine/internal/domain/course"
	"github.com/edutrack-pro/assessment-engine/internal/domain/shared"
	"github.com/edutrack-pro/assessment-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COURSE RESULT QUERY
// Fetches one stored course result, cache-aside over the repository.
// ══════════════════════════════════════════════════════════════════════════════

// GetCourseResultQuery contains the parameters of a course result read.
type GetCourseResultQuery struct {
	// Semester is the offering's semester label.
	Semester string

	// CourseCode is the offering's course code.
	CourseCode string
}

// Validate validates the query.
func (q GetCourseResultQuery) Validate() error {
	if _, err := shared.NewSemester(q.Semester); err != nil {
		return fmt.Errorf("get_course_result: %w", err)
	}
	if _, err := shared.NewCourseCode(q.CourseCode); err != nil {
		return fmt.Errorf("get_course_result: %w", err)
	}
	return nil
}

// GetCourseResultOutput contains the read result.
type GetCourseResultOutput struct {
	// Result is the stored course result.
	Result *course.Result `json:"result"`

	// FromCache reports whether the read was served from cache.
	FromCache bool `json:"from_cache"`

	// RetrievedAt is the read timestamp.
	RetrievedAt time.Time `json:"retrieved_at"`
}

// CourseReadCache is the cache-aside collaborator for course reads. A miss is
// reported as a nil result with a nil error; cache failures are tolerated and
// fall through to the repository.
type CourseReadCache interface {
	GetCourse(ctx context.Context, semester, courseCode string) (*course.Result, error)
	SetCourse(ctx context.Context, result *course.Result) error
}

// GetCourseResultHandler handles course result reads.
type GetCourseResultHandler struct {
	repo  course.Repository
	cache CourseReadCache
	log   *logger.Logger
}

// NewGetCourseResultHandler creates a new handler. The cache may be nil.
func NewGetCourseResultHandler(repo course.Repository, cache CourseReadCache, log *logger.Logger) *GetCourseResultHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetCourseResultHandler{
		repo:  repo,
		cache: cache,
		log:   log.With(logger.Component("get_course_result")),
	}
}

// Handle executes the read. Returns course.ErrCourseNotFound when no result
// is stored for the offering.
func (h *GetCourseResultHandler) Handle(ctx context.Context, query GetCourseResultQuery) (*GetCourseResultOutput, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if h.cache != nil {
		cached, err := h.cache.GetCourse(ctx, query.Semester, query.CourseCode)
		if err != nil {
			h.log.Warn("course cache read failed", logger.Err(err))
		} else if cached != nil {
			return &GetCourseResultOutput{
				Result:      cached,
				FromCache:   true,
				RetrievedAt: time.Now().UTC(),
			}, nil
		}
	}

	result, err := h.repo.LoadCourse(ctx, query.Semester, query.CourseCode)
	if err != nil {
		return nil, fmt.Errorf("get_course_result: %w", err)
	}

	if h.cache != nil {
		if err := h.cache.SetCourse(ctx, result); err != nil {
			h.log.Warn("course cache write failed", logger.Err(err))
		}
	}

	return &GetCourseResultOutput{
		Result:      result,
		RetrievedAt: time.Now().UTC(),
	}, nil
}
