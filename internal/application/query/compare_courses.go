package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/edutrack-pro/assessment-engine/internal/domain/course"
	"github.com/edutrack-pro/assessment-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPARE COURSES QUERY
// Cross-course analytics view: one stat row per stored offering, sorted by
// catalogue key.
// ══════════════════════════════════════════════════════════════════════════════

// CompareCoursesQuery contains the parameters of the comparison read.
type CompareCoursesQuery struct {
	// Semester optionally restricts the comparison to one semester.
	Semester string
}

// CourseComparisonRow is one offering's stat row.
type CourseComparisonRow struct {
	// CatalogueKey is the "{semester} - {course}" display key.
	CatalogueKey string `json:"catalogue_key"`

	Semester   string `json:"semester"`
	CourseCode string `json:"course_code"`

	// Cohort aggregates.
	TotalStudents  int     `json:"total_students"`
	AverageMarks   float64 `json:"average_marks"`
	AverageSGPA    float64 `json:"average_sgpa"`
	PassPercentage float64 `json:"pass_percentage"`
	HighestMarks   float64 `json:"highest_marks"`
	LowestMarks    float64 `json:"lowest_marks"`

	// ProcessedAt is when the offering was last processed.
	ProcessedAt time.Time `json:"processed_at"`
}

// CompareCoursesOutput contains the comparison rows.
type CompareCoursesOutput struct {
	// Rows holds one entry per stored offering, sorted by catalogue key.
	Rows []CourseComparisonRow `json:"rows"`

	// RetrievedAt is the read timestamp.
	RetrievedAt time.Time `json:"retrieved_at"`
}

// CompareCoursesHandler handles the comparison read.
type CompareCoursesHandler struct {
	repo course.Repository
	log  *logger.Logger
}

// NewCompareCoursesHandler creates a new handler.
func NewCompareCoursesHandler(repo course.Repository, log *logger.Logger) *CompareCoursesHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CompareCoursesHandler{
		repo: repo,
		log:  log.With(logger.Component("compare_courses")),
	}
}

// Handle executes the read. No stored courses yields an empty row set.
func (h *CompareCoursesHandler) Handle(ctx context.Context, query CompareCoursesQuery) (*CompareCoursesOutput, error) {
	courses, err := h.repo.LoadAllCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("compare_courses: %w", err)
	}

	rows := make([]CourseComparisonRow, 0, len(courses))
	for key, result := range courses {
		if query.Semester != "" && result.Semester != query.Semester {
			continue
		}
		rows = append(rows, CourseComparisonRow{
			CatalogueKey:   key,
			Semester:       result.Semester,
			CourseCode:     result.CourseCode,
			TotalStudents:  result.Stats.TotalStudents,
			AverageMarks:   result.Stats.AverageMarks,
			AverageSGPA:    result.Stats.AverageSGPA,
			PassPercentage: result.Stats.PassPercentage,
			HighestMarks:   result.Stats.HighestMarks,
			LowestMarks:    result.Stats.LowestMarks,
			ProcessedAt:    result.CreatedAt,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CatalogueKey < rows[j].CatalogueKey
	})

	return &CompareCoursesOutput{
		Rows:        rows,
		RetrievedAt: time.Now().UTC(),
	}, nil
}
