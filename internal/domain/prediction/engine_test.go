package prediction

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
)

func metricWithTotal(id string, total float64) *assessment.StudentMetric {
	return &assessment.StudentMetric{
		ID:         id,
		Name:       "Student " + id,
		Mid:        total * 0.3,
		Final:      total * 0.4,
		ClassTests: total * 0.2,
		Assignment: total * 0.05,
		TotalMarks: total,
		SGPA:       assessment.SGPAForMarks(total),
		COScores: map[string]float64{
			"CO1": total / 100 * 18,
			"CO2": total / 100 * 14,
			"CO3": total / 100 * 12,
			"CO4": total / 100 * 16,
		},
	}
}

func cohortOf(totals ...float64) map[string]*assessment.StudentMetric {
	metrics := make(map[string]*assessment.StudentMetric, len(totals))
	for i, total := range totals {
		id := string(rune('a' + i))
		metrics[id] = metricWithTotal(id, total)
	}
	return metrics
}

func seeded() *Engine {
	return NewEngine(rand.New(rand.NewSource(42)))
}

func TestSmallCohortUsesRuleBasedFallback(t *testing.T) {
	engine := seeded()
	predictions := engine.Predict(cohortOf(85, 42))

	require.Len(t, predictions, 2)
	for _, rec := range predictions {
		assert.Equal(t, "Low (Rule-based)", rec.ConfidenceLevel)
	}
}

func TestModelPathConfidenceByCohortSize(t *testing.T) {
	engine := seeded()

	small := engine.Predict(cohortOf(85, 72, 60))
	for _, rec := range small {
		assert.Equal(t, "Low", rec.ConfidenceLevel)
	}

	medium := seeded().Predict(cohortOf(85, 72, 60, 45, 90))
	for _, rec := range medium {
		assert.Equal(t, "Medium", rec.ConfidenceLevel)
	}
}

func TestPredictionFieldsAlwaysPresent(t *testing.T) {
	engine := seeded()
	predictions := engine.Predict(cohortOf(85, 72, 60, 45, 20))

	require.Len(t, predictions, 5)
	for id, rec := range predictions {
		assert.NotEmpty(t, rec.StudentName, id)
		assert.NotEmpty(t, rec.CurrentPerformance, id)
		assert.NotEmpty(t, rec.PredictedNextTerm, id)
		assert.NotEmpty(t, rec.GrowthPercentage, id)
		assert.NotEmpty(t, rec.RecommendedCareerSector, id)
		assert.NotEmpty(t, rec.KeyStrengths, id)
		assert.NotEmpty(t, rec.Recommendation, id)
		assert.NotEmpty(t, rec.ConfidenceLevel, id)
	}
}

func TestZeroMarksGrowthIsZero(t *testing.T) {
	engine := seeded()
	predictions := engine.Predict(cohortOf(0, 10))

	rec := predictions["a"]
	require.NotNil(t, rec)
	assert.Equal(t, "0.0%", rec.GrowthPercentage)
}

func TestRuleBasedBoundsTopBand(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := metricWithTotal("x", 88)

	for i := 0; i < 200; i++ {
		rec := RuleBased(m, rng)
		next := parseMarks(t, rec.PredictedNextTerm)
		assert.GreaterOrEqual(t, next, 88.0)
		assert.LessOrEqual(t, next, 95.0)
	}
}

func TestRuleBasedBoundsBottomBand(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := metricWithTotal("x", 25)

	for i := 0; i < 200; i++ {
		rec := RuleBased(m, rng)
		next := parseMarks(t, rec.PredictedNextTerm)
		assert.GreaterOrEqual(t, next, 30.0)
		assert.LessOrEqual(t, next, 45.0)
	}
}

func TestRuleBasedDeterministicWithSeed(t *testing.T) {
	m := metricWithTotal("x", 65)

	first := RuleBased(m, rand.New(rand.NewSource(99)))
	second := RuleBased(m, rand.New(rand.NewSource(99)))

	assert.Equal(t, first, second)
}

func TestModelPredictionsWithinClamp(t *testing.T) {
	engine := seeded()
	predictions := engine.Predict(cohortOf(95, 85, 75, 65, 55, 45, 35))

	for id, rec := range predictions {
		next := parseMarks(t, rec.PredictedNextTerm)
		assert.GreaterOrEqual(t, next, 40.0, id)
		assert.LessOrEqual(t, next, 95.0, id)
	}
}

func TestSectorLabelPriorities(t *testing.T) {
	label := sectorLabel(Features{TotalMarks: 85, SGPA: 4.0})
	assert.Equal(t, 0, label)

	label = sectorLabel(Features{TotalMarks: 77, ClassTests: 16})
	assert.Equal(t, 1, label)

	label = sectorLabel(Features{TotalMarks: 71, Final: 31})
	assert.Equal(t, 2, label)

	label = sectorLabel(Features{TotalMarks: 66, MeanCO: 16})
	assert.Equal(t, 3, label)

	label = sectorLabel(Features{TotalMarks: 62})
	assert.Equal(t, 4, label)

	label = sectorLabel(Features{TotalMarks: 52})
	assert.Equal(t, 5, label)

	label = sectorLabel(Features{TotalMarks: 30})
	assert.Equal(t, 6, label)
}

func TestCOStrengthsCapAndFallback(t *testing.T) {
	m := metricWithTotal("x", 90)
	m.COScores = map[string]float64{"CO1": 18, "CO2": 17, "CO3": 16, "CO4": 19}
	assert.Len(t, coStrengthsFor(m), 3)

	m.COScores = map[string]float64{"CO1": 5, "CO2": 5, "CO3": 5, "CO4": 5}
	assert.Equal(t, []string{"Developing core engineering skills"}, coStrengthsFor(m))
}

// parseMarks extracts the leading number of a "NN.N marks" string.
func parseMarks(t *testing.T, s string) float64 {
	t.Helper()
	fields := strings.Fields(s)
	require.NotEmpty(t, fields)
	v, err := strconv.ParseFloat(fields[0], 64)
	require.NoError(t, err)
	return v
}
