package outcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
)

func cohortWithCO(scores ...map[string]float64) map[string]*assessment.StudentMetric {
	metrics := make(map[string]*assessment.StudentMetric, len(scores))
	for i, co := range scores {
		id := string(rune('a' + i))
		metrics[id] = &assessment.StudentMetric{ID: id, COScores: co}
	}
	return metrics
}

func TestNewMappingRejectsWrongShape(t *testing.T) {
	_, err := NewMapping([][]int{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrMappingShape)

	rows := make([][]int, NumCOs)
	for i := range rows {
		rows[i] = make([]int, NumPOs-1)
	}
	_, err = NewMapping(rows)
	assert.ErrorIs(t, err, ErrMappingShape)
}

func TestNewMappingRejectsBadWeights(t *testing.T) {
	rows := make([][]int, NumCOs)
	for i := range rows {
		rows[i] = make([]int, NumPOs)
	}
	rows[2][7] = 4

	_, err := NewMapping(rows)
	assert.ErrorIs(t, err, ErrMappingWeight)
}

func TestComputeCOAttainment(t *testing.T) {
	metrics := cohortWithCO(
		map[string]float64{"CO1": 20, "CO2": 10, "CO3": 0, "CO4": 16},
		map[string]float64{"CO1": 10, "CO2": 10, "CO3": 0, "CO4": 4},
	)

	co := ComputeCOAttainment(metrics)
	require.NotNil(t, co)

	// Mean CO1 = 15 of 20 -> 75%.
	assert.Equal(t, 75.0, co["CO1"])
	assert.Equal(t, 50.0, co["CO2"])
	assert.Equal(t, 0.0, co["CO3"])
	assert.Equal(t, 50.0, co["CO4"])
}

func TestComputeCOAttainmentNoData(t *testing.T) {
	assert.Nil(t, ComputeCOAttainment(nil))
	assert.Nil(t, ComputeCOAttainment(map[string]*assessment.StudentMetric{}))

	// Students present but without any CO scores: still "no data".
	metrics := cohortWithCO(map[string]float64{})
	assert.Nil(t, ComputeCOAttainment(metrics))
}

func TestPropagateToPOBounds(t *testing.T) {
	co := map[string]float64{"CO1": 100, "CO2": 100, "CO3": 100, "CO4": 100}

	po := PropagateToPO(co, DefaultMapping())
	require.Len(t, po, NumPOs)

	for key, v := range po {
		assert.GreaterOrEqual(t, v, 0.0, key)
		assert.LessOrEqual(t, v, 100.0, key)
	}
}

func TestPropagateToPOAllZeroColumn(t *testing.T) {
	rows := make([][]int, NumCOs)
	for i := range rows {
		rows[i] = make([]int, NumPOs)
		for j := range rows[i] {
			rows[i][j] = 2
		}
		rows[i][4] = 0 // PO5 carries no weight at all
	}
	mapping, err := NewMapping(rows)
	require.NoError(t, err)

	co := map[string]float64{"CO1": 80, "CO2": 60, "CO3": 40, "CO4": 20}
	po := PropagateToPO(co, mapping)

	assert.Equal(t, 0.0, po["PO5"])
	assert.Equal(t, 50.0, po["PO1"])
}

func TestPropagateToPOWeighted(t *testing.T) {
	rows := make([][]int, NumCOs)
	for i := range rows {
		rows[i] = make([]int, NumPOs)
	}
	// PO1 weighs CO1 three times as much as CO2.
	rows[0][0] = 3
	rows[1][0] = 1
	mapping, err := NewMapping(rows)
	require.NoError(t, err)

	co := map[string]float64{"CO1": 100, "CO2": 60, "CO3": 0, "CO4": 0}
	po := PropagateToPO(co, mapping)

	// (100*3 + 60*1) / 4 = 90
	assert.Equal(t, 90.0, po["PO1"])
}

func TestComputeIdempotent(t *testing.T) {
	metrics := cohortWithCO(
		map[string]float64{"CO1": 14, "CO2": 11, "CO3": 9, "CO4": 17},
		map[string]float64{"CO1": 8, "CO2": 13, "CO3": 12, "CO4": 6},
	)

	first := Compute(metrics, nil)
	second := Compute(metrics, nil)

	assert.Equal(t, first, second)
}
