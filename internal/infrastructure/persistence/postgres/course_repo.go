package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edutrack-pro/assessment-engine/internal/domain/course"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository backed by PostgreSQL. Results
// are stored as JSONB documents: the course aggregate in course_results and
// one denormalized row per student in student_course_records, both upserted
// under the course key (last writer wins).
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

// Save persists one run's result: the course document plus one student record
// per student, in a single transaction.
func (r *CourseRepository) Save(ctx context.Context, result *course.Result) error {
	if result == nil || len(result.Students) == 0 {
		return course.ErrEmptyResult
	}

	document, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("course_repo: marshal result: %w", err)
	}

	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO course_results (course_key, run_id, semester, course_code, document, student_count)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (course_key) DO UPDATE SET
				run_id = EXCLUDED.run_id,
				semester = EXCLUDED.semester,
				course_code = EXCLUDED.course_code,
				document = EXCLUDED.document,
				student_count = EXCLUDED.student_count
		`, result.Key(), result.RunID, result.Semester, result.CourseCode, document, len(result.Students))
		if err != nil {
			return fmt.Errorf("course_repo: upsert course result: %w", err)
		}

		for id, metric := range result.Students {
			rec := course.StudentRecord{
				CourseCode: result.CourseCode,
				Semester:   result.Semester,
				Metric:     metric,
				Stats:      result.Stats,
				Attainment: result.Attainment,
				Prediction: result.Predictions[id],
				CreatedAt:  result.CreatedAt,
			}
			payload, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("course_repo: marshal student record: %w", err)
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO student_course_records (student_id, course_key, semester, course_code, record)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (student_id, course_key) DO UPDATE SET
					semester = EXCLUDED.semester,
					course_code = EXCLUDED.course_code,
					record = EXCLUDED.record
			`, id, result.Key(), result.Semester, result.CourseCode, payload)
			if err != nil {
				return fmt.Errorf("course_repo: upsert student record: %w", err)
			}
		}
		return nil
	})
}

// LoadStudent returns every stored course record of one student, keyed by
// course key. An unknown student yields an empty map.
func (r *CourseRepository) LoadStudent(ctx context.Context, studentID string) (map[string]*course.StudentRecord, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT course_key, record
		FROM student_course_records
		WHERE student_id = $1
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("course_repo: query student records: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*course.StudentRecord)
	for rows.Next() {
		var key string
		var payload []byte
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, fmt.Errorf("course_repo: scan student record: %w", err)
		}

		var rec course.StudentRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("course_repo: unmarshal student record: %w", err)
		}
		records[key] = &rec
	}
	return records, rows.Err()
}

// LoadAllCourses returns every stored course result keyed by the catalogue
// key "{semester} - {course}".
func (r *CourseRepository) LoadAllCourses(ctx context.Context) (map[string]*course.Result, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT document
		FROM course_results
		ORDER BY semester, course_code
	`)
	if err != nil {
		return nil, fmt.Errorf("course_repo: query course results: %w", err)
	}
	defer rows.Close()

	courses := make(map[string]*course.Result)
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("course_repo: scan course result: %w", err)
		}

		var result course.Result
		if err := json.Unmarshal(document, &result); err != nil {
			return nil, fmt.Errorf("course_repo: unmarshal course result: %w", err)
		}
		courses[result.CatalogueKey()] = &result
	}
	return courses, rows.Err()
}

// LoadCourse returns one stored result, or course.ErrCourseNotFound.
func (r *CourseRepository) LoadCourse(ctx context.Context, semester, courseCode string) (*course.Result, error) {
	var document []byte
	err := r.conn.QueryRow(ctx, `
		SELECT document
		FROM course_results
		WHERE course_key = $1
	`, course.Key(semester, courseCode)).Scan(&document)
	if err != nil {
		if IsNoRows(err) {
			return nil, course.ErrCourseNotFound
		}
		return nil, fmt.Errorf("course_repo: load course: %w", err)
	}

	var result course.Result
	if err := json.Unmarshal(document, &result); err != nil {
		return nil, fmt.Errorf("course_repo: unmarshal course result: %w", err)
	}
	return &result, nil
}
