package assessment

import "math"

// ══════════════════════════════════════════════════════════════════════════════
// COHORT STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

// CohortStats aggregates one course offering's normalized metrics.
// Percentages are rounded to one decimal, everything else to two.
type CohortStats struct {
	// AverageMarks is the mean of total marks.
	AverageMarks float64 `json:"average_marks"`

	// AcademicAverage is the mean of academic totals (attendance excluded).
	AcademicAverage float64 `json:"academic_average"`

	// HighestMarks is the maximum total marks in the cohort.
	HighestMarks float64 `json:"highest_marks"`

	// LowestMarks is the minimum total marks in the cohort.
	LowestMarks float64 `json:"lowest_marks"`

	// AverageSGPA is the mean SGPA.
	AverageSGPA float64 `json:"average_sgpa"`

	// TotalStudents is the number of successfully normalized students.
	TotalStudents int `json:"total_students"`

	// PassingStudents is the number of students at or above the pass mark.
	PassingStudents int `json:"passing_students"`

	// PassPercentage is the passing share in percent.
	PassPercentage float64 `json:"pass_percentage"`

	// FailPercentage is the failing share in percent.
	FailPercentage float64 `json:"fail_percentage"`

	// StdDeviation is the population standard deviation of total marks.
	StdDeviation float64 `json:"std_deviation"`
}

// ComputeCohortStats aggregates the metrics of one cohort. An empty cohort
// yields the zero value rather than an error so that callers can always
// render a statistics block.
func ComputeCohortStats(metrics map[string]*StudentMetric) CohortStats {
	if len(metrics) == 0 {
		return CohortStats{}
	}

	var (
		sumMarks    float64
		sumAcademic float64
		sumSGPA     float64
		highest     = math.Inf(-1)
		lowest      = math.Inf(1)
		passing     int
	)

	for _, m := range metrics {
		sumMarks += m.TotalMarks
		sumAcademic += m.AcademicTotal
		sumSGPA += m.SGPA
		if m.TotalMarks > highest {
			highest = m.TotalMarks
		}
		if m.TotalMarks < lowest {
			lowest = m.TotalMarks
		}
		if m.TotalMarks >= PassMark {
			passing++
		}
	}

	total := len(metrics)
	mean := sumMarks / float64(total)

	// Population variance over total marks.
	variance := 0.0
	for _, m := range metrics {
		d := m.TotalMarks - mean
		variance += d * d
	}
	variance /= float64(total)

	failing := total - passing

	return CohortStats{
		AverageMarks:    round2(mean),
		AcademicAverage: round2(sumAcademic / float64(total)),
		HighestMarks:    round2(highest),
		LowestMarks:     round2(lowest),
		AverageSGPA:     round2(sumSGPA / float64(total)),
		TotalStudents:   total,
		PassingStudents: passing,
		PassPercentage:  roundPercent(float64(passing) / float64(total) * 100),
		FailPercentage:  roundPercent(float64(failing) / float64(total) * 100),
		StdDeviation:    round2(math.Sqrt(variance)),
	}
}

func roundPercent(v float64) float64 {
	return math.Round(v*10) / 10
}
