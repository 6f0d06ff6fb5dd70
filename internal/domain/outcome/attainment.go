package outcome

import (
	"math"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTAINMENT PROPAGATION
// ══════════════════════════════════════════════════════════════════════════════

// Attainment holds the cohort-level attainment percentages of one run.
type Attainment struct {
	// CO maps CO1..CO4 to a 0-100 attainment percentage.
	CO map[string]float64 `json:"co"`

	// PO maps PO1..PO12 to a 0-100 attainment percentage.
	PO map[string]float64 `json:"po"`
}

// ComputeCOAttainment averages each CO score across the cohort and scales it
// to a percentage (score out of 20, so raw average x 5). Returns nil when the
// cohort carries no CO data at all: callers must be able to distinguish
// "no data" from "zero attainment".
func ComputeCOAttainment(metrics map[string]*assessment.StudentMetric) map[string]float64 {
	if len(metrics) == 0 {
		return nil
	}

	sums := make(map[string]float64, NumCOs)
	for _, m := range metrics {
		for key, score := range m.COScores {
			sums[key] += score
		}
	}
	if len(sums) == 0 {
		return nil
	}

	attainment := make(map[string]float64, len(sums))
	n := float64(len(metrics))
	for key, sum := range sums {
		attainment[key] = round2(sum / n * 100 / assessment.MaxCOScore)
	}
	return attainment
}

// PropagateToPO projects CO attainment onto program outcomes through the
// mapping matrix. For each PO column the result is the weight-averaged CO
// attainment, capped at 100. A column with all-zero weights is defined to
// attain exactly 0 - a deliberate policy, not an error. A nil or empty CO
// attainment yields nil.
func PropagateToPO(coAttainment map[string]float64, mapping *Mapping) map[string]float64 {
	if mapping == nil || len(coAttainment) == 0 {
		return nil
	}

	poAttainment := make(map[string]float64, NumPOs)
	for po := 0; po < NumPOs; po++ {
		weightedSum := 0.0
		totalWeight := 0
		for co := 0; co < NumCOs; co++ {
			w := mapping.Weight(co, po)
			if w == 0 {
				continue
			}
			pct, ok := coAttainment[COKey(co)]
			if !ok {
				continue
			}
			weightedSum += pct * float64(w)
			totalWeight += w
		}

		if totalWeight == 0 {
			poAttainment[POKey(po)] = 0
			continue
		}
		poAttainment[POKey(po)] = round2(math.Min(100, weightedSum/float64(totalWeight)))
	}
	return poAttainment
}

// Compute runs both propagation steps for one cohort. Returns nil when the
// cohort has no CO data.
func Compute(metrics map[string]*assessment.StudentMetric, mapping *Mapping) *Attainment {
	co := ComputeCOAttainment(metrics)
	if co == nil {
		return nil
	}
	if mapping == nil {
		mapping = DefaultMapping()
	}
	return &Attainment{
		CO: co,
		PO: PropagateToPO(co, mapping),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
