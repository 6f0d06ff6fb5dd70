package prediction

import (
	"sort"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
)

// ══════════════════════════════════════════════════════════════════════════════
// FEATURE EXTRACTION
// ══════════════════════════════════════════════════════════════════════════════

// NumModelFeatures is the dimensionality of the model input: the full vector
// minus the current total, which is the prediction target rather than an
// input feature.
const NumModelFeatures = 6

// Features is the per-student feature vector. TotalMarks is the target; the
// remaining six dimensions feed the models.
type Features struct {
	TotalMarks float64
	Mid        float64
	Final      float64
	ClassTests float64
	Assignment float64
	SGPA       float64
	MeanCO     float64
}

// ExtractFeatures builds the feature vector for one student metric.
func ExtractFeatures(m *assessment.StudentMetric) Features {
	return Features{
		TotalMarks: m.TotalMarks,
		Mid:        m.Mid,
		Final:      m.Final,
		ClassTests: m.ClassTests,
		Assignment: m.Assignment,
		SGPA:       m.SGPA,
		MeanCO:     m.MeanCOScore(),
	}
}

// modelInputs returns the six model input dimensions as a slice.
func (f Features) modelInputs() []float64 {
	return []float64{f.Mid, f.Final, f.ClassTests, f.Assignment, f.SGPA, f.MeanCO}
}

// sortedIDs returns the cohort's student ids in a stable order so that the
// seeded random source yields reproducible per-student draws.
func sortedIDs(metrics map[string]*assessment.StudentMetric) []string {
	ids := make([]string, 0, len(metrics))
	for id := range metrics {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
