package prediction

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEAST-SQUARES REGRESSION
// ══════════════════════════════════════════════════════════════════════════════

// ErrRegressionFit is returned when the least-squares system cannot be solved.
var ErrRegressionFit = errors.New("prediction: regression fit failed")

// regressor is a linear model with intercept over the six model inputs.
// It is refitted from scratch on every processing run; no model state is
// retained across runs. The target is the student's *current* total, a proxy
// for the unavailable next-term observation.
type regressor struct {
	// coef holds the intercept followed by one coefficient per input.
	coef []float64
}

// ridgeDamping keeps the normal equations solvable when the cohort is
// smaller than the parameter count or the design matrix is rank deficient.
const ridgeDamping = 1e-6

// fitRegressor solves (XᵀX + λI)β = Xᵀy over the design matrix with an
// intercept column.
func fitRegressor(inputs [][]float64, targets []float64) (*regressor, error) {
	n := len(inputs)
	if n == 0 || len(targets) != n {
		return nil, ErrRegressionFit
	}
	cols := NumModelFeatures + 1

	x := mat.NewDense(n, cols, nil)
	y := mat.NewVecDense(n, nil)
	for i, row := range inputs {
		x.Set(i, 0, 1)
		for j, v := range row {
			x.Set(i, j+1, v)
		}
		y.SetVec(i, targets[i])
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 0; j < cols; j++ {
		xtx.Set(j, j, xtx.At(j, j)+ridgeDamping)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return nil, ErrRegressionFit
	}

	coef := make([]float64, cols)
	for j := 0; j < cols; j++ {
		coef[j] = beta.AtVec(j)
	}
	return &regressor{coef: coef}, nil
}

// predict evaluates the model for one input vector.
func (r *regressor) predict(input []float64) float64 {
	v := r.coef[0]
	for j, x := range input {
		v += r.coef[j+1] * x
	}
	return v
}

// Bounds for the model-path next-term estimate.
const (
	modelPredictionFloor = 40.0
	modelPredictionCeil  = 95.0
)

// clampPrediction restricts a model estimate to the allowed score range.
func clampPrediction(v float64) float64 {
	if v < modelPredictionFloor {
		return modelPredictionFloor
	}
	if v > modelPredictionCeil {
		return modelPredictionCeil
	}
	return v
}
