package command

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
	"github.com/edutrack-pro/assessment-engine/internal/domain/course"
	"github.com/edutrack-pro/assessment-engine/internal/domain/shared"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeRepo struct {
	mu        sync.Mutex
	saved     []*course.Result
	saveErr   error
	saveCalls int
}

func (r *fakeRepo) Save(_ context.Context, result *course.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, result)
	return nil
}

func (r *fakeRepo) LoadStudent(context.Context, string) (map[string]*course.StudentRecord, error) {
	return map[string]*course.StudentRecord{}, nil
}

func (r *fakeRepo) LoadAllCourses(context.Context) (map[string]*course.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*course.Result, len(r.saved))
	for _, res := range r.saved {
		out[res.CatalogueKey()] = res
	}
	return out, nil
}

func (r *fakeRepo) LoadCourse(context.Context, string, string) (*course.Result, error) {
	return nil, course.ErrCourseNotFound
}

type fakeCache struct {
	mu                 sync.Mutex
	invalidatedCourses []string
	invalidatedIDs     []string
}

func (c *fakeCache) InvalidateCourse(_ context.Context, semester, courseCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidatedCourses = append(c.invalidatedCourses, course.Key(semester, courseCode))
	return nil
}

func (c *fakeCache) InvalidateStudents(_ context.Context, studentIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidatedIDs = append(c.invalidatedIDs, studentIDs...)
	return nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturingPublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) byType(t shared.EventType) []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func rosterRecord(row int, id string, mid, final, ct, assignment, attendance string) assessment.RawScoreRecord {
	return assessment.RawScoreRecord{
		Row:         row,
		StudentID:   id,
		StudentName: "Student " + id,
		Mid:         mid,
		Final:       final,
		ClassTests:  ct,
		Assignment:  assignment,
		Attendance:  attendance,
		COScores: map[string]string{
			"CO1": "14", "CO2": "12", "CO3": "16", "CO4": "10",
		},
	}
}

func validRoster() []assessment.RawScoreRecord {
	return []assessment.RawScoreRecord{
		rosterRecord(0, "2021001", "25", "34", "15", "4.5", "5"),
		rosterRecord(1, "2021002", "20", "28", "12", "4", "4"),
		rosterRecord(2, "2021003", "15", "22", "10", "3", "5"),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestHandleRunsFullPipeline(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	publisher := &capturingPublisher{}
	handler := NewProcessCourseHandler(repo, cache, nil, publisher, nil)

	out, err := handler.Handle(context.Background(), ProcessCourseCommand{
		Semester:   "2024-1",
		CourseCode: "EEE-305",
		Records:    validRoster(),
	})
	require.NoError(t, err)
	require.NotNil(t, out.Result)

	assert.Empty(t, out.Warnings)
	assert.NotEmpty(t, out.Result.RunID)
	assert.Len(t, out.Result.Students, 3)
	assert.Equal(t, 3, out.Result.Stats.TotalStudents)
	require.NotNil(t, out.Result.Attainment)
	assert.Len(t, out.Result.Predictions, 3)

	assert.True(t, out.Persisted)
	assert.NoError(t, out.SaveError)
	assert.Equal(t, 1, repo.saveCalls)

	assert.Equal(t, []string{"2024-1_EEE-305"}, cache.invalidatedCourses)
	assert.ElementsMatch(t, []string{"2021001", "2021002", "2021003"}, cache.invalidatedIDs)

	processed := publisher.byType(shared.EventCourseProcessed)
	require.Len(t, processed, 1)
	event := processed[0].(shared.CourseProcessedEvent)
	assert.Equal(t, out.Result.RunID, event.RunID)
	assert.Equal(t, 3, event.StudentCount)
	assert.Zero(t, event.SkippedRows)
	assert.True(t, event.Persisted)
	assert.Empty(t, publisher.byType(shared.EventCourseSaveFailed))
}

func TestHandleSkipsInvalidRows(t *testing.T) {
	records := validRoster()
	records = append(records,
		rosterRecord(3, "", "25", "34", "15", "4.5", "5"),
		rosterRecord(4, "2021005", "not-a-number", "34", "15", "4.5", "5"),
	)

	handler := NewProcessCourseHandler(&fakeRepo{}, nil, nil, nil, nil)
	out, err := handler.Handle(context.Background(), ProcessCourseCommand{
		Semester:   "2024-1",
		CourseCode: "EEE-305",
		Records:    records,
	})
	require.NoError(t, err)

	assert.Len(t, out.Warnings, 2)
	assert.Len(t, out.Result.Students, 3)
	assert.Equal(t, 3, out.Result.Stats.TotalStudents)
}

func TestHandleRejectsInvalidCommand(t *testing.T) {
	handler := NewProcessCourseHandler(nil, nil, nil, nil, nil)

	_, err := handler.Handle(context.Background(), ProcessCourseCommand{
		Semester:   "",
		CourseCode: "EEE-305",
		Records:    validRoster(),
	})
	assert.Error(t, err)

	_, err = handler.Handle(context.Background(), ProcessCourseCommand{
		Semester:   "2024-1",
		CourseCode: "!!!",
		Records:    validRoster(),
	})
	assert.Error(t, err)
}

func TestHandleSaveFailureKeepsResult(t *testing.T) {
	repo := &fakeRepo{saveErr: fmt.Errorf("schema rejected document: %w", shared.ErrValidation)}
	cache := &fakeCache{}
	publisher := &capturingPublisher{}
	handler := NewProcessCourseHandler(repo, cache, nil, publisher, nil)

	out, err := handler.Handle(context.Background(), ProcessCourseCommand{
		Semester:   "2024-1",
		CourseCode: "EEE-305",
		Records:    validRoster(),
	})
	require.NoError(t, err)
	require.NotNil(t, out.Result)

	assert.False(t, out.Persisted)
	assert.Error(t, out.SaveError)
	assert.Len(t, out.Result.Students, 3)

	// Validation errors must not be retried.
	assert.Equal(t, 1, repo.saveCalls)

	assert.Empty(t, cache.invalidatedCourses)
	assert.Empty(t, cache.invalidatedIDs)

	failed := publisher.byType(shared.EventCourseSaveFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, out.Result.RunID, failed[0].(shared.CourseSaveFailedEvent).RunID)

	processed := publisher.byType(shared.EventCourseProcessed)
	require.Len(t, processed, 1)
	assert.False(t, processed[0].(shared.CourseProcessedEvent).Persisted)
}

func TestHandleWithoutRepositoryStaysInMemory(t *testing.T) {
	publisher := &capturingPublisher{}
	handler := NewProcessCourseHandler(nil, nil, nil, publisher, nil)

	out, err := handler.Handle(context.Background(), ProcessCourseCommand{
		Semester:   "2024-1",
		CourseCode: "EEE-305",
		Records:    validRoster(),
	})
	require.NoError(t, err)

	assert.False(t, out.Persisted)
	assert.NoError(t, out.SaveError)
	assert.Len(t, out.Result.Students, 3)
	require.Len(t, publisher.byType(shared.EventCourseProcessed), 1)
}
