package ingestion

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
)

// sampleStudent is one entry of the built-in demo roster.
type sampleStudent struct {
	id, name, email string
}

var sampleStudents = []sampleStudent{
	{"2021001", "John Smith", "john.smith@stamford.edu.bd"},
	{"2021002", "Fahmida Islam", "fahmida@stamford.edu.bd"},
	{"2021003", "Rowshan-E- Gule Jannat", "rowshan@stamford.edu.bd"},
	{"2021004", "Sawkat Islam", "sawkat@stamford.edu.bd"},
	{"2021005", "David Lee", "d.lee@stamford.edu.bd"},
}

// SampleRoster generates the built-in demo roster. Component scores are drawn
// around a shared per-student ability so that exam marks and CO scores
// correlate the way a real cohort's do. The same seed always yields the same
// roster.
func SampleRoster(seed int64) []assessment.RawScoreRecord {
	rng := rand.New(rand.NewSource(seed))

	records := make([]assessment.RawScoreRecord, 0, len(sampleStudents))
	for i, s := range sampleStudents {
		base := boundedF(rng.NormFloat64()*12+70, 35, 95)

		mid := boundedF(base*0.3+rng.NormFloat64()*3, 5, assessment.MaxMid)
		final := boundedF(base*0.4+rng.NormFloat64()*4, 10, assessment.MaxFinal)
		ct := boundedF(base*0.2+rng.NormFloat64()*3, 5, assessment.MaxClassTests)
		assignment := boundedF(base*0.05+rng.NormFloat64(), 2, assessment.MaxAssignment)

		attendance := 5.0
		if rng.Float64() < 0.3 {
			attendance = 4.0
		}

		coBase := base / 100 * 15
		coScores := map[string]string{
			"CO1": cell(boundedF(coBase+rng.NormFloat64()*3, 0, assessment.MaxCOScore)),
			"CO2": cell(boundedF(coBase*1.1+rng.NormFloat64()*3, 0, assessment.MaxCOScore)),
			"CO3": cell(boundedF(coBase*0.9+rng.NormFloat64()*4, 0, assessment.MaxCOScore)),
			"CO4": cell(boundedF(coBase*1.05+rng.NormFloat64()*3, 0, assessment.MaxCOScore)),
		}

		records = append(records, assessment.RawScoreRecord{
			Row:          i,
			StudentID:    s.id,
			StudentName:  s.name,
			StudentEmail: s.email,
			ParentEmail:  fmt.Sprintf("parent.%s@email.com", s.id),
			Mid:          cell(mid),
			Final:        cell(final),
			ClassTests:   cell(ct),
			Assignment:   cell(assignment),
			Attendance:   cell(attendance),
			COScores:     coScores,
		})
	}
	return records
}

// boundedF rounds to one decimal and restricts the value to [lo, hi].
func boundedF(v, lo, hi float64) float64 {
	v = math.Round(v*10) / 10
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func cell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
