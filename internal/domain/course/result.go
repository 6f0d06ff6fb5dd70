// Package course defines the per-offering result aggregate produced by a
// processing run and the persistence contract it is stored through.
package course

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
	"github.com/edutrack-pro/assessment-engine/internal/domain/outcome"
	"github.com/edutrack-pro/assessment-engine/internal/domain/prediction"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE RESULT AGGREGATE
// ══════════════════════════════════════════════════════════════════════════════

// Result is the aggregate of one (semester, course) processing run. It is
// owned by the run that produced it, handed whole to the persistence layer,
// and read back for cross-course aggregation and display. The result stays
// valid and usable even when persisting it fails.
type Result struct {
	// RunID identifies the processing run that produced this result.
	RunID string `json:"run_id"`

	// Semester is the offering's semester label, e.g. "Fall 2024".
	Semester string `json:"semester"`

	// CourseCode is the offering's course code, e.g. "EEE-305".
	CourseCode string `json:"course_code"`

	// Students maps student id to the normalized metric.
	Students map[string]*assessment.StudentMetric `json:"students"`

	// Stats aggregates the cohort.
	Stats assessment.CohortStats `json:"course_stats"`

	// Attainment carries CO and PO attainment percentages. Nil when the
	// cohort had no CO data - callers must distinguish that from zero
	// attainment.
	Attainment *outcome.Attainment `json:"attainment,omitempty"`

	// Predictions maps student id to the prediction record.
	Predictions map[string]*prediction.Record `json:"predictions"`

	// CreatedAt is the run's creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the storage key of this result.
func (r *Result) Key() string {
	return Key(r.Semester, r.CourseCode)
}

// CatalogueKey returns the human-facing key used by course listings.
func (r *Result) CatalogueKey() string {
	return fmt.Sprintf("%s - %s", r.Semester, r.CourseCode)
}

// Key builds the canonical "{semester}_{course}" storage key.
func Key(semester, courseCode string) string {
	return semester + "_" + courseCode
}

// ══════════════════════════════════════════════════════════════════════════════
// PER-STUDENT STORED RECORD
// ══════════════════════════════════════════════════════════════════════════════

// StudentRecord is the per-student slice of a Result as stored for fast
// student-centric reads: the student's own metric plus the course-level
// context it was produced in.
type StudentRecord struct {
	// CourseCode and Semester locate the offering.
	CourseCode string `json:"course_code"`
	Semester   string `json:"semester"`

	// Metric is the student's normalized result.
	Metric *assessment.StudentMetric `json:"student_data"`

	// Stats is the cohort statistics of the offering.
	Stats assessment.CohortStats `json:"course_stats"`

	// Attainment is the offering's CO/PO attainment, nil when absent.
	Attainment *outcome.Attainment `json:"attainment,omitempty"`

	// Prediction is this student's prediction record, nil when absent.
	Prediction *prediction.Record `json:"prediction,omitempty"`

	// CreatedAt is the producing run's timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY CONTRACT
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrCourseNotFound is returned when no result exists for a course key.
	ErrCourseNotFound = errors.New("course: result not found")

	// ErrEmptyResult is returned when a save is attempted with no students.
	ErrEmptyResult = errors.New("course: result has no students")
)

// Repository is the persistence collaborator contract. The engine calls Save
// once per processing run and the load methods on demand; writes are
// last-writer-wins and the engine performs no coordination beyond that.
type Repository interface {
	// Save persists the whole result: the course document plus one
	// StudentRecord per student, upserted under the course key.
	Save(ctx context.Context, result *Result) error

	// LoadStudent returns every stored course record of one student,
	// keyed by Key(semester, course). An unknown student yields an empty
	// map, not an error.
	LoadStudent(ctx context.Context, studentID string) (map[string]*StudentRecord, error)

	// LoadAllCourses returns every stored course result keyed by the
	// catalogue key "{semester} - {course}".
	LoadAllCourses(ctx context.Context) (map[string]*Result, error)

	// LoadCourse returns one stored result, or ErrCourseNotFound.
	LoadCourse(ctx context.Context, semester, courseCode string) (*Result, error)
}
