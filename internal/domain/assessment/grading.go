package assessment

// ══════════════════════════════════════════════════════════════════════════════
// MARKS → SGPA / GRADE STEP FUNCTIONS
// ══════════════════════════════════════════════════════════════════════════════

// gradeBand couples one marks threshold with its SGPA value and letter grade.
// The two step functions share the same thresholds, so they are kept in a
// single table to make monotonicity obvious.
type gradeBand struct {
	minMarks float64
	sgpa     float64
	grade    string
}

// gradeBands is ordered from highest threshold to lowest; the first band
// whose threshold the total reaches wins. Totals below the lowest threshold
// map to SGPA 0.00 and grade F.
var gradeBands = []gradeBand{
	{80, 4.00, "A+"},
	{75, 3.75, "A"},
	{70, 3.50, "A-"},
	{65, 3.25, "B+"},
	{60, 3.00, "B"},
	{55, 2.75, "B-"},
	{50, 2.50, "C+"},
	{45, 2.25, "C"},
	{40, 2.00, "D"},
	{35, 1.75, "F"},
	{30, 1.50, "F"},
	{25, 1.25, "F"},
	{20, 1.00, "F"},
}

// SGPAForMarks converts total marks to a 0.00-4.00 grade point.
// Monotonic non-decreasing in total marks.
func SGPAForMarks(totalMarks float64) float64 {
	for _, band := range gradeBands {
		if totalMarks >= band.minMarks {
			return band.sgpa
		}
	}
	return 0.00
}

// GradeForMarks converts total marks to a letter grade. Anything below the
// pass mark is an F; monotonic non-decreasing in total marks.
func GradeForMarks(totalMarks float64) string {
	for _, band := range gradeBands {
		if totalMarks >= band.minMarks {
			return band.grade
		}
	}
	return "F"
}

// gradeDescriptions is the fixed lookup attached to each letter grade.
var gradeDescriptions = map[string]string{
	"A+": "Excellent",
	"A":  "Very Good",
	"A-": "Good",
	"B+": "Above Average",
	"B":  "Average",
	"B-": "Below Average",
	"C+": "Satisfactory",
	"C":  "Marginal",
	"D":  "Pass",
	"F":  "Fail",
}

// DescribeGrade returns the textual description for a letter grade,
// or "Unknown" for grades outside the fixed table.
func DescribeGrade(grade string) string {
	if desc, ok := gradeDescriptions[grade]; ok {
		return desc
	}
	return "Unknown"
}
