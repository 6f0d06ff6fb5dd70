package assessment

import "math"

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT METRIC
// ══════════════════════════════════════════════════════════════════════════════

// PassStatus reports whether a student passed the course.
type PassStatus string

const (
	// StatusPass means total marks reached the pass mark.
	StatusPass PassStatus = "Pass"
	// StatusFail means total marks fell below the pass mark.
	StatusFail PassStatus = "Fail"
)

// StudentMetric is the normalized result for one student in one course.
// It is created once per processing run and not mutated afterwards; the
// matching prediction is attached at the CourseResult level.
type StudentMetric struct {
	// ID is the student identifier from the roster.
	ID string `json:"id"`

	// Name is the student's display name.
	Name string `json:"name"`

	// StudentEmail is the student's contact address, if supplied.
	StudentEmail string `json:"student_email,omitempty"`

	// ParentEmail is the guardian's contact address, if supplied.
	ParentEmail string `json:"parent_email,omitempty"`

	// Clamped component scores.
	Mid        float64 `json:"mid"`
	Final      float64 `json:"final"`
	ClassTests float64 `json:"ct"`
	Assignment float64 `json:"assignment"`
	Attendance float64 `json:"attendance"`

	// AcademicTotal is mid+final+ct+assignment, without attendance.
	AcademicTotal float64 `json:"academic_total"`

	// TotalMarks is the academic total plus attendance, capped at 100.
	TotalMarks float64 `json:"total_marks"`

	// SGPA is the 0.00-4.00 grade point derived from TotalMarks.
	SGPA float64 `json:"sgpa"`

	// Grade is the letter grade derived from TotalMarks.
	Grade string `json:"grade"`

	// GradeDesc is the textual description of the grade.
	GradeDesc string `json:"grade_desc"`

	// COScores maps CO1..CO4 to clamped 0-20 scores.
	COScores map[string]float64 `json:"co_scores"`

	// Status is Pass iff TotalMarks >= 40.
	Status PassStatus `json:"status"`
}

// MeanCOScore returns the average of the four CO scores.
func (m *StudentMetric) MeanCOScore() float64 {
	if len(m.COScores) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range m.COScores {
		sum += v
	}
	return sum / float64(len(m.COScores))
}

// Passed reports whether the student reached the pass mark.
func (m *StudentMetric) Passed() bool {
	return m.Status == StatusPass
}

// ══════════════════════════════════════════════════════════════════════════════
// NORMALIZATION
// ══════════════════════════════════════════════════════════════════════════════

// Normalize coerces and clamps one raw record into a StudentMetric.
// Clamping precedes rounding; every component ends up in [0, max] and the
// total in [0, 100] regardless of the raw input.
func Normalize(rec RawScoreRecord) (*StudentMetric, error) {
	if rec.StudentID == "" {
		return nil, ErrMissingStudentID
	}

	mid, err := parseCell("Mid_Total", rec.Mid)
	if err != nil {
		return nil, err
	}
	final, err := parseCell("Final_Total", rec.Final)
	if err != nil {
		return nil, err
	}
	ct, err := parseCell("CT_Total", rec.ClassTests)
	if err != nil {
		return nil, err
	}
	assignment, err := parseCell("Assignment_Total", rec.Assignment)
	if err != nil {
		return nil, err
	}
	attendance, err := parseCell("Attendance_Total", rec.Attendance)
	if err != nil {
		return nil, err
	}

	mid = clamp(mid, MaxMid)
	final = clamp(final, MaxFinal)
	ct = clamp(ct, MaxClassTests)
	assignment = clamp(assignment, MaxAssignment)
	attendance = clamp(attendance, MaxAttendance)

	coScores := make(map[string]float64, NumCOs)
	for _, key := range COKeys() {
		raw, ok := rec.COScores[key]
		if !ok {
			coScores[key] = 0
			continue
		}
		v, err := parseCell(key, raw)
		if err != nil {
			return nil, err
		}
		coScores[key] = clamp(v, MaxCOScore)
	}

	academicTotal := mid + final + ct + assignment
	totalMarks := academicTotal + attendance
	if totalMarks > MaxTotalMarks {
		totalMarks = MaxTotalMarks
	}

	grade := GradeForMarks(totalMarks)

	status := StatusFail
	if totalMarks >= PassMark {
		status = StatusPass
	}

	return &StudentMetric{
		ID:            rec.StudentID,
		Name:          rec.StudentName,
		StudentEmail:  rec.StudentEmail,
		ParentEmail:   rec.ParentEmail,
		Mid:           mid,
		Final:         final,
		ClassTests:    ct,
		Assignment:    assignment,
		Attendance:    attendance,
		AcademicTotal: round1(academicTotal),
		TotalMarks:    round1(totalMarks),
		SGPA:          SGPAForMarks(totalMarks),
		Grade:         grade,
		GradeDesc:     DescribeGrade(grade),
		COScores:      coScores,
		Status:        status,
	}, nil
}

// NormalizeRoster normalizes every record in order, skipping records that
// cannot be coerced. It returns the successful metrics keyed by student id
// together with one RowWarning per skipped record. The batch never aborts
// on a bad row.
func NormalizeRoster(records []RawScoreRecord) (map[string]*StudentMetric, []RowWarning) {
	metrics := make(map[string]*StudentMetric, len(records))
	var warnings []RowWarning

	for _, rec := range records {
		metric, err := Normalize(rec)
		if err != nil {
			warnings = append(warnings, RowWarning{
				Row:       rec.Row,
				StudentID: rec.StudentID,
				Err:       err,
			})
			continue
		}
		metrics[metric.ID] = metric
	}

	return metrics, warnings
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
