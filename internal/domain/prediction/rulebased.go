package prediction

import (
	"math"
	"math/rand"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
)

// ══════════════════════════════════════════════════════════════════════════════
// RULE-BASED FALLBACK
// ══════════════════════════════════════════════════════════════════════════════
//
// Used for every student when the cohort is too small to fit models, and per
// student if the model path is unavailable. The next-term estimate is a
// bounded random walk from the current total; the sector is a random pick
// from a small band-specific candidate list. All randomness comes from the
// injected source, so a seeded run is fully reproducible.

// fallbackBand describes one marks band of the rule-based path.
type fallbackBand struct {
	minMarks float64

	// offsetLow/offsetHigh bound the uniform next-term offset.
	offsetLow  float64
	offsetHigh float64

	// ceil/floor cap the walked estimate. Exactly one of them applies:
	// upper bands cap from above, lower bands floor from below.
	ceil  float64
	floor float64

	// sectors is the candidate list; a single entry means a fixed label.
	sectors []string

	recommendation string
}

var fallbackBands = []fallbackBand{
	{
		minMarks: 80, offsetLow: 0, offsetHigh: 5, ceil: 95,
		sectors:        []string{"Research & Academia", "Power Systems Design", "Advanced Electronics"},
		recommendation: "Pursue graduate studies or competitive industry positions",
	},
	{
		minMarks: 70, offsetLow: -2, offsetHigh: 8, ceil: 90,
		sectors:        []string{"Energy Management", "Control Systems", "Telecommunications"},
		recommendation: "Focus on specialization and internships",
	},
	{
		minMarks: 60, offsetLow: -5, offsetHigh: 10, ceil: 85,
		sectors:        []string{"Renewable Energy", "Maintenance Engineering", "Technical Sales"},
		recommendation: "Improve fundamentals and seek practical experience",
	},
	{
		minMarks: 40, offsetLow: -10, offsetHigh: 15, floor: 40,
		sectors:        []string{"General Engineering with focused skill development"},
		recommendation: "Maintain consistency and seek academic guidance",
	},
	{
		minMarks: 0, offsetLow: -5, offsetHigh: 20, floor: 30,
		sectors:        []string{"Foundation strengthening required"},
		recommendation: "Seek academic support and focus on core concepts",
	},
}

// ruleBasedConfidence is the fixed confidence label of the fallback path.
const ruleBasedConfidence = "Low (Rule-based)"

// genericStrengthFallback is emitted when no component threshold is met.
const genericStrengthFallback = "Developing engineering competencies"

// RuleBased produces a prediction for one student without any fitted model.
func RuleBased(m *assessment.StudentMetric, rng *rand.Rand) *Record {
	band := fallbackBands[len(fallbackBands)-1]
	for _, b := range fallbackBands {
		if m.TotalMarks >= b.minMarks {
			band = b
			break
		}
	}

	offset := band.offsetLow + rng.Float64()*(band.offsetHigh-band.offsetLow)
	next := m.TotalMarks + offset
	if band.ceil > 0 {
		next = math.Min(band.ceil, next)
	}
	if band.floor > 0 {
		next = math.Max(band.floor, next)
	}

	sector := band.sectors[0]
	if len(band.sectors) > 1 {
		sector = band.sectors[rng.Intn(len(band.sectors))]
	}

	rec := newRecord(m.Name)
	rec.CurrentPerformance = formatMarksWithBand(m.TotalMarks, bandFor(m.TotalMarks).label)
	rec.PredictedNextTerm = formatMarks(next)
	rec.GrowthPercentage = formatGrowth(m.TotalMarks, next)
	rec.RecommendedCareerSector = sector
	rec.KeyStrengths = componentStrengths(m)
	rec.Recommendation = band.recommendation
	rec.ConfidenceLevel = ruleBasedConfidence
	return rec
}

// componentStrengths derives strengths from absolute component thresholds,
// unlike the model path which reads CO scores.
func componentStrengths(m *assessment.StudentMetric) []string {
	var strengths []string
	if m.Mid >= 20 {
		strengths = append(strengths, "Good exam preparation skills")
	}
	if m.Final >= 30 {
		strengths = append(strengths, "Strong comprehensive understanding")
	}
	if m.ClassTests >= 15 {
		strengths = append(strengths, "Consistent performance in assessments")
	}
	if m.Assignment >= 4 {
		strengths = append(strengths, "Good assignment completion")
	}

	if len(strengths) == 0 {
		return []string{genericStrengthFallback}
	}
	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}
	return strengths
}
