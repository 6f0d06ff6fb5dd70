package prediction

import (
	"math/rand"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
)

// ══════════════════════════════════════════════════════════════════════════════
// PREDICTION ENGINE
// ══════════════════════════════════════════════════════════════════════════════

// Cohort size thresholds of the mode selection.
const (
	// MinModelCohort is the smallest cohort the model path will fit.
	MinModelCohort = 3

	// MediumConfidenceCohort is the smallest cohort granted "Medium"
	// confidence on the model path.
	MediumConfidenceCohort = 5
)

// Engine produces one prediction per student for a cohort. The engine is
// stateless between invocations: models are fitted from scratch inside each
// Predict call and discarded with it.
type Engine struct {
	rng *rand.Rand
}

// NewEngine creates an engine drawing randomness from the given source.
// Tests inject a seeded source for reproducible fallback outputs.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(42))
	}
	return &Engine{rng: rng}
}

// Predict emits a Record per student. Cohorts below MinModelCohort go
// through the rule-based fallback; larger cohorts are scored by the fitted
// regression and sector classifier. If model fitting fails, every student
// falls back individually so the output map is always fully populated.
func (e *Engine) Predict(metrics map[string]*assessment.StudentMetric) map[string]*Record {
	predictions := make(map[string]*Record, len(metrics))
	if len(metrics) == 0 {
		return predictions
	}

	ids := sortedIDs(metrics)

	if len(metrics) < MinModelCohort {
		for _, id := range ids {
			predictions[id] = RuleBased(metrics[id], e.rng)
		}
		return predictions
	}

	inputs := make([][]float64, len(ids))
	targets := make([]float64, len(ids))
	labels := make([]int, len(ids))
	feats := make([]Features, len(ids))
	for i, id := range ids {
		f := ExtractFeatures(metrics[id])
		feats[i] = f
		inputs[i] = f.modelInputs()
		targets[i] = f.TotalMarks
		labels[i] = sectorLabel(f)
	}

	reg, err := fitRegressor(inputs, targets)
	if err != nil {
		for _, id := range ids {
			predictions[id] = RuleBased(metrics[id], e.rng)
		}
		return predictions
	}
	clf := fitForest(inputs, labels, e.rng)

	confidence := "Low"
	if len(ids) >= MediumConfidenceCohort {
		confidence = "Medium"
	}

	for i, id := range ids {
		m := metrics[id]
		next := clampPrediction(reg.predict(inputs[i]))
		band := bandFor(m.TotalMarks)

		rec := newRecord(m.Name)
		rec.CurrentPerformance = formatMarksWithBand(m.TotalMarks, band.label)
		rec.PredictedNextTerm = formatMarks(next)
		rec.GrowthPercentage = formatGrowth(m.TotalMarks, next)
		rec.RecommendedCareerSector = careerSectors[clf.predict(inputs[i])]
		rec.KeyStrengths = coStrengthsFor(m)
		rec.Recommendation = band.recommendation
		rec.ConfidenceLevel = confidence
		predictions[id] = rec
	}
	return predictions
}

// coStrengthsFor derives up to three strengths from CO thresholds, with a
// generic phrase when none qualify.
func coStrengthsFor(m *assessment.StudentMetric) []string {
	var strengths []string
	for _, key := range assessment.COKeys() {
		if m.COScores[key] >= coStrengthThreshold {
			strengths = append(strengths, coStrengths[key])
		}
	}
	if len(strengths) == 0 {
		return []string{genericStrengthModel}
	}
	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}
	return strengths
}
