// Package assessment contains the core scoring model of the EduTrack engine:
// raw roster records, per-student normalized metrics, the marks-to-grade
// mapping, and cohort-level statistics. This is the heart of a processing run
// and has no infrastructure dependencies.
package assessment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPONENT MAXIMA
// ══════════════════════════════════════════════════════════════════════════════

// Fixed per-component maximum marks. Every raw value is clamped into
// [0, max] before any total is computed. The five components sum to 100.
const (
	MaxMid        = 30.0
	MaxFinal      = 40.0
	MaxClassTests = 20.0
	MaxAssignment = 5.0
	MaxAttendance = 5.0

	// MaxCOScore is the maximum score of a single course outcome.
	MaxCOScore = 20.0

	// MaxTotalMarks caps the combined total.
	MaxTotalMarks = 100.0

	// PassMark is the minimum total for a passing status.
	PassMark = 40.0
)

// NumCOs is the fixed number of course outcomes per course.
const NumCOs = 4

// COKeys returns the course outcome identifiers in canonical order.
func COKeys() []string {
	return []string{"CO1", "CO2", "CO3", "CO4"}
}

// ══════════════════════════════════════════════════════════════════════════════
// RAW SCORE RECORD
// ══════════════════════════════════════════════════════════════════════════════

// RawScoreRecord is one roster row as supplied by the ingestion collaborator.
// All score fields are kept as raw cell text: the normalizer owns coercion so
// that a malformed cell fails exactly one record, never the batch. Optional
// fields left empty default to zero (scores) or stay empty (contacts).
type RawScoreRecord struct {
	// Row is the zero-based position of the record in the roster,
	// used to tag per-record warnings.
	Row int

	// StudentID uniquely identifies the student. Required.
	StudentID string

	// StudentName is the student's display name. Required.
	StudentName string

	// StudentEmail is the student's contact address. Optional.
	StudentEmail string

	// ParentEmail is the guardian's contact address. Optional.
	ParentEmail string

	// Mid is the raw mid-term exam cell (0-30).
	Mid string

	// Final is the raw final exam cell (0-40).
	Final string

	// ClassTests is the raw class-test cell (0-20).
	ClassTests string

	// Assignment is the raw assignment cell (0-5).
	Assignment string

	// Attendance is the raw attendance cell (0-5). Excluded from the
	// academic total and from CO-PO attainment.
	Attendance string

	// COScores holds the raw CO1..CO4 cells (each 0-20). Missing keys
	// default to zero.
	COScores map[string]string
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrMissingStudentID is returned when a record has no student identifier.
	ErrMissingStudentID = errors.New("assessment: record has no student id")

	// ErrNotNumeric is returned when a score cell cannot be coerced to a number.
	ErrNotNumeric = errors.New("assessment: score field is not numeric")
)

// RowWarning reports a skipped roster record. The batch continues; the
// warning carries enough context for the caller to surface it.
type RowWarning struct {
	// Row is the zero-based roster position of the skipped record.
	Row int

	// StudentID is the identifier of the record, if one was present.
	StudentID string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (w RowWarning) Error() string {
	if w.StudentID != "" {
		return fmt.Sprintf("row %d (student %s): %v", w.Row, w.StudentID, w.Err)
	}
	return fmt.Sprintf("row %d: %v", w.Row, w.Err)
}

// Unwrap exposes the underlying cause for errors.Is checks.
func (w RowWarning) Unwrap() error {
	return w.Err
}

// ══════════════════════════════════════════════════════════════════════════════
// CELL COERCION
// ══════════════════════════════════════════════════════════════════════════════

// parseCell coerces a raw cell to a number. Empty cells default to zero;
// anything non-numeric fails the record.
func parseCell(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrNotNumeric, field, raw)
	}
	return v, nil
}

// clamp restricts a value to [0, max].
func clamp(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
