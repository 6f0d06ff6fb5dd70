package query

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
	"github.com/edutrack-pro/assessment-engine/internal/domain/course"
	"github.com/edutrack-pro/assessment-engine/internal/domain/progression"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type stubRepo struct {
	mu       sync.Mutex
	courses  map[string]*course.Result
	students map[string]map[string]*course.StudentRecord

	loadCourseCalls  int
	loadStudentCalls int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		courses:  make(map[string]*course.Result),
		students: make(map[string]map[string]*course.StudentRecord),
	}
}

func (r *stubRepo) Save(context.Context, *course.Result) error { return nil }

func (r *stubRepo) LoadStudent(_ context.Context, studentID string) (map[string]*course.StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadStudentCalls++
	records, ok := r.students[studentID]
	if !ok {
		return map[string]*course.StudentRecord{}, nil
	}
	return records, nil
}

func (r *stubRepo) LoadAllCourses(context.Context) (map[string]*course.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*course.Result, len(r.courses))
	for _, res := range r.courses {
		out[res.CatalogueKey()] = res
	}
	return out, nil
}

func (r *stubRepo) LoadCourse(_ context.Context, semester, courseCode string) (*course.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadCourseCalls++
	res, ok := r.courses[course.Key(semester, courseCode)]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	return res, nil
}

type stubCourseCache struct {
	mu      sync.Mutex
	stored  map[string]*course.Result
	getErr  error
	setErr  error
	setKeys []string
}

func newStubCourseCache() *stubCourseCache {
	return &stubCourseCache{stored: make(map[string]*course.Result)}
}

func (c *stubCourseCache) GetCourse(_ context.Context, semester, courseCode string) (*course.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.stored[course.Key(semester, courseCode)], nil
}

func (c *stubCourseCache) SetCourse(_ context.Context, result *course.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.stored[result.Key()] = result
	c.setKeys = append(c.setKeys, result.Key())
	return nil
}

type stubProgressionCache struct {
	mu     sync.Mutex
	stored map[string][]progression.Entry
}

func newStubProgressionCache() *stubProgressionCache {
	return &stubProgressionCache{stored: make(map[string][]progression.Entry)}
}

func (c *stubProgressionCache) GetProgression(_ context.Context, studentID string) ([]progression.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stored[studentID], nil
}

func (c *stubProgressionCache) SetProgression(_ context.Context, studentID string, entries []progression.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored[studentID] = entries
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func storedResult(semester, courseCode string, totals ...float64) *course.Result {
	students := make(map[string]*assessment.StudentMetric, len(totals))
	for i, total := range totals {
		id := string(rune('A' + i))
		students[id] = &assessment.StudentMetric{
			ID:         id,
			TotalMarks: total,
		}
	}
	return &course.Result{
		RunID:      "run-" + course.Key(semester, courseCode),
		Semester:   semester,
		CourseCode: courseCode,
		Students:   students,
		Stats: assessment.CohortStats{
			TotalStudents: len(totals),
		},
		CreatedAt: time.Now().UTC(),
	}
}

func storedRecord(semester, courseCode string, sgpa float64) *course.StudentRecord {
	return &course.StudentRecord{
		CourseCode: courseCode,
		Semester:   semester,
		Metric:     &assessment.StudentMetric{SGPA: sgpa},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetCourseResult
// ─────────────────────────────────────────────────────────────────────────────

func TestGetCourseResultCacheMissThenHit(t *testing.T) {
	repo := newStubRepo()
	repo.courses["2024-1_EEE-305"] = storedResult("2024-1", "EEE-305", 72, 85)
	cache := newStubCourseCache()
	handler := NewGetCourseResultHandler(repo, cache, nil)

	query := GetCourseResultQuery{Semester: "2024-1", CourseCode: "EEE-305"}

	out, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, out.FromCache)
	assert.Equal(t, 1, repo.loadCourseCalls)
	assert.Equal(t, []string{"2024-1_EEE-305"}, cache.setKeys)

	out, err = handler.Handle(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, out.FromCache)
	assert.Equal(t, 1, repo.loadCourseCalls)
	assert.Equal(t, "2024-1", out.Result.Semester)
}

func TestGetCourseResultCacheFailureFallsThrough(t *testing.T) {
	repo := newStubRepo()
	repo.courses["2024-1_EEE-305"] = storedResult("2024-1", "EEE-305", 72)
	cache := newStubCourseCache()
	cache.getErr = errors.New("connection refused")
	handler := NewGetCourseResultHandler(repo, cache, nil)

	out, err := handler.Handle(context.Background(), GetCourseResultQuery{
		Semester: "2024-1", CourseCode: "EEE-305",
	})
	require.NoError(t, err)
	assert.False(t, out.FromCache)
	assert.Equal(t, 1, repo.loadCourseCalls)
}

func TestGetCourseResultUnknownCourse(t *testing.T) {
	handler := NewGetCourseResultHandler(newStubRepo(), nil, nil)

	_, err := handler.Handle(context.Background(), GetCourseResultQuery{
		Semester: "2024-1", CourseCode: "EEE-999",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, course.ErrCourseNotFound))
}

// ─────────────────────────────────────────────────────────────────────────────
// GetProgression
// ─────────────────────────────────────────────────────────────────────────────

func TestGetProgressionBuildsSeries(t *testing.T) {
	repo := newStubRepo()
	repo.students["2021001"] = map[string]*course.StudentRecord{
		"2023-2_EEE-101": storedRecord("2023-2", "EEE-101", 3.0),
		"2024-1_EEE-201": storedRecord("2024-1", "EEE-201", 4.0),
	}
	cache := newStubProgressionCache()
	handler := NewGetProgressionHandler(repo, cache, nil)

	out, err := handler.Handle(context.Background(), GetProgressionQuery{StudentID: "2021001"})
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)

	assert.Equal(t, "2023-2", out.Entries[0].Semester)
	assert.Equal(t, "2024-1", out.Entries[1].Semester)
	assert.InDelta(t, 3.5, out.CurrentCGPA, 1e-9)
	assert.InDelta(t, 6.0, out.CreditsCompleted, 1e-9)
	assert.True(t, out.TrendAvailable)
	assert.False(t, out.FromCache)

	// Second read is served from cache.
	out, err = handler.Handle(context.Background(), GetProgressionQuery{StudentID: "2021001"})
	require.NoError(t, err)
	assert.True(t, out.FromCache)
	assert.Equal(t, 1, repo.loadStudentCalls)
}

func TestGetProgressionUnknownStudent(t *testing.T) {
	handler := NewGetProgressionHandler(newStubRepo(), nil, nil)

	out, err := handler.Handle(context.Background(), GetProgressionQuery{StudentID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, out.Entries)
	assert.Zero(t, out.CurrentCGPA)
	assert.False(t, out.TrendAvailable)
}

func TestGetProgressionRequiresStudentID(t *testing.T) {
	handler := NewGetProgressionHandler(newStubRepo(), nil, nil)

	_, err := handler.Handle(context.Background(), GetProgressionQuery{})
	assert.Error(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// CompareCourses
// ─────────────────────────────────────────────────────────────────────────────

func TestCompareCoursesSortsByCatalogueKey(t *testing.T) {
	repo := newStubRepo()
	repo.courses["2024-1_EEE-305"] = storedResult("2024-1", "EEE-305", 72, 85)
	repo.courses["2023-2_EEE-101"] = storedResult("2023-2", "EEE-101", 60)
	handler := NewCompareCoursesHandler(repo, nil)

	out, err := handler.Handle(context.Background(), CompareCoursesQuery{})
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "2023-2 - EEE-101", out.Rows[0].CatalogueKey)
	assert.Equal(t, "2024-1 - EEE-305", out.Rows[1].CatalogueKey)
	assert.Equal(t, 1, out.Rows[0].TotalStudents)
	assert.Equal(t, 2, out.Rows[1].TotalStudents)
}

func TestCompareCoursesSemesterFilter(t *testing.T) {
	repo := newStubRepo()
	repo.courses["2024-1_EEE-305"] = storedResult("2024-1", "EEE-305", 72)
	repo.courses["2023-2_EEE-101"] = storedResult("2023-2", "EEE-101", 60)
	handler := NewCompareCoursesHandler(repo, nil)

	out, err := handler.Handle(context.Background(), CompareCoursesQuery{Semester: "2024-1"})
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "EEE-305", out.Rows[0].CourseCode)
}

func TestCompareCoursesEmptyStore(t *testing.T) {
	handler := NewCompareCoursesHandler(newStubRepo(), nil)

	out, err := handler.Handle(context.Background(), CompareCoursesQuery{})
	require.NoError(t, err)
	assert.Empty(t, out.Rows)
}
