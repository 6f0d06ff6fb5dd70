// Package progression computes a student's longitudinal CGPA series from
// their stored per-course results. Entries are recomputed on demand and
// never stored independently.
package progression

import (
	"math"
	"sort"

	"github.com/edutrack-pro/assessment-engine/internal/domain/course"
)

// ══════════════════════════════════════════════════════════════════════════════
// CGPA PROGRESSION
// ══════════════════════════════════════════════════════════════════════════════

// CreditsPerCourse is the fixed credit weight of every course. A modeling
// simplification carried over from the source system, not configurable.
const CreditsPerCourse = 3.0

// MinTrendSemesters is the smallest number of semesters that makes a trend
// display meaningful. Communicated to callers, not enforced here.
const MinTrendSemesters = 2

// Entry is one semester of a student's CGPA progression.
type Entry struct {
	// Semester is the semester label.
	Semester string `json:"semester"`

	// Courses lists the course codes taken that semester.
	Courses []string `json:"courses"`

	// SemesterSGPA is the credit-weighted SGPA of that semester alone.
	SemesterSGPA float64 `json:"semester_sgpa"`

	// CumulativeCGPA is the running CGPA up to and including the semester.
	CumulativeCGPA float64 `json:"cumulative_cgpa"`

	// CreditsCompleted is the running credit total.
	CreditsCompleted float64 `json:"credits_completed"`
}

// Build groups a student's stored course records by semester and walks the
// semesters in ascending label order, accumulating grade points and credits.
// Semester labels must therefore be encoded so that lexicographic order is
// chronological. Returns nil for a student with no records.
func Build(records map[string]*course.StudentRecord) []Entry {
	if len(records) == 0 {
		return nil
	}

	type semesterGroup struct {
		courses []string
		sgpas   []float64
	}
	groups := make(map[string]*semesterGroup)
	for _, rec := range records {
		if rec == nil || rec.Metric == nil {
			continue
		}
		g, ok := groups[rec.Semester]
		if !ok {
			g = &semesterGroup{}
			groups[rec.Semester] = g
		}
		g.courses = append(g.courses, rec.CourseCode)
		g.sgpas = append(g.sgpas, rec.Metric.SGPA)
	}
	if len(groups) == 0 {
		return nil
	}

	semesters := make([]string, 0, len(groups))
	for s := range groups {
		semesters = append(semesters, s)
	}
	sort.Strings(semesters)

	entries := make([]Entry, 0, len(semesters))
	cumulativePoints := 0.0
	cumulativeCredits := 0.0

	for _, sem := range semesters {
		g := groups[sem]
		sort.Strings(g.courses)

		semesterPoints := 0.0
		semesterCredits := 0.0
		for _, sgpa := range g.sgpas {
			semesterPoints += sgpa * CreditsPerCourse
			semesterCredits += CreditsPerCourse
		}

		cumulativePoints += semesterPoints
		cumulativeCredits += semesterCredits

		entries = append(entries, Entry{
			Semester:         sem,
			Courses:          g.courses,
			SemesterSGPA:     round2(semesterPoints / semesterCredits),
			CumulativeCGPA:   round2(cumulativePoints / cumulativeCredits),
			CreditsCompleted: cumulativeCredits,
		})
	}
	return entries
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
