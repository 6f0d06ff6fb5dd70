// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// Offering Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// CourseCode identifies a course offering, e.g. "EEE-305".
type CourseCode string

// Course codes: letters, digits, dashes, 2..20 characters.
var courseCodeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _-]{1,19}$`)

// IsValid checks if the course code is well formed.
func (c CourseCode) IsValid() bool {
	return courseCodeRegex.MatchString(string(c))
}

// String returns the string representation.
func (c CourseCode) String() string {
	return string(c)
}

// NewCourseCode creates a CourseCode with validation.
func NewCourseCode(code string) (CourseCode, error) {
	c := CourseCode(strings.TrimSpace(code))
	if !c.IsValid() {
		return "", NewDomainError("shared", "NewCourseCode", ErrInvalidFormat, "invalid course code")
	}
	return c, nil
}

// Semester is a semester label. Labels must be encoded so that lexicographic
// order is chronological, e.g. "2024-1", "2024-2".
type Semester string

// IsValid checks if the semester label is non-empty.
func (s Semester) IsValid() bool {
	return strings.TrimSpace(string(s)) != ""
}

// String returns the string representation.
func (s Semester) String() string {
	return string(s)
}

// NewSemester creates a Semester with validation.
func NewSemester(label string) (Semester, error) {
	s := Semester(strings.TrimSpace(label))
	if !s.IsValid() {
		return "", NewDomainError("shared", "NewSemester", ErrEmptyValue, "semester label cannot be empty")
	}
	return s, nil
}
