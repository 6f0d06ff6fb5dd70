package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSGPAForMarksBands(t *testing.T) {
	cases := []struct {
		marks float64
		sgpa  float64
		grade string
	}{
		{100, 4.00, "A+"},
		{80, 4.00, "A+"},
		{79.9, 3.75, "A"},
		{72, 3.50, "A-"},
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
		{19.9, 0.00, "F"},
		{0, 0.00, "F"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.sgpa, SGPAForMarks(tc.marks), "sgpa for %.1f", tc.marks)
		assert.Equal(t, tc.grade, GradeForMarks(tc.marks), "grade for %.1f", tc.marks)
	}
}

func TestGradeAndSGPAMonotonic(t *testing.T) {
	prevSGPA := -1.0
	prevGradeRank := -1

	rank := map[string]int{
		"F": 0, "D": 1, "C": 2, "C+": 3, "B-": 4, "B": 5,
		"B+": 6, "A-": 7, "A": 8, "A+": 9,
	}

	for marks := 0.0; marks <= 100; marks += 0.5 {
		sgpa := SGPAForMarks(marks)
		assert.GreaterOrEqual(t, sgpa, prevSGPA, "sgpa dropped at %.1f", marks)
		prevSGPA = sgpa

		gradeRank := rank[GradeForMarks(marks)]
		assert.GreaterOrEqual(t, gradeRank, prevGradeRank, "grade dropped at %.1f", marks)
		prevGradeRank = gradeRank
	}
}

func TestDescribeGrade(t *testing.T) {
	assert.Equal(t, "Excellent", DescribeGrade("A+"))
	assert.Equal(t, "Pass", DescribeGrade("D"))
	assert.Equal(t, "Fail", DescribeGrade("F"))
	assert.Equal(t, "Unknown", DescribeGrade("Z"))
}
