// Package outcome implements CO-PO attainment propagation: cohort-level
// course outcome attainment and its matrix-weighted projection onto the
// twelve program outcomes.
package outcome

import (
	"errors"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// CO-PO MAPPING MATRIX
// ══════════════════════════════════════════════════════════════════════════════

// Matrix dimensions are fixed by the outcome framework: four course outcomes
// against twelve program outcomes.
const (
	NumCOs = 4
	NumPOs = 12
)

var (
	// ErrMappingShape is returned when a supplied mapping is not exactly
	// 4 rows by 12 columns.
	ErrMappingShape = errors.New("outcome: mapping must be 4 COs x 12 POs")

	// ErrMappingWeight is returned when a mapping cell is outside {0,1,2,3}.
	ErrMappingWeight = errors.New("outcome: mapping weights must be in 0..3")
)

// Mapping is the CO-PO correlation matrix. Rows are CO1..CO4, columns are
// PO1..PO12, each cell a weight in {0,1,2,3} where 0 means no correlation.
// The matrix is supplied once per processing run and read-only afterwards.
type Mapping struct {
	weights [NumCOs][NumPOs]int
}

// NewMapping validates and wraps a caller-supplied matrix. The outer slice
// must hold exactly one row per CO, each with one weight per PO.
func NewMapping(rows [][]int) (*Mapping, error) {
	if len(rows) != NumCOs {
		return nil, fmt.Errorf("%w: got %d rows", ErrMappingShape, len(rows))
	}

	var m Mapping
	for i, row := range rows {
		if len(row) != NumPOs {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrMappingShape, i+1, len(row))
		}
		for j, w := range row {
			if w < 0 || w > 3 {
				return nil, fmt.Errorf("%w: CO%d/PO%d is %d", ErrMappingWeight, i+1, j+1, w)
			}
			m.weights[i][j] = w
		}
	}
	return &m, nil
}

// DefaultMapping returns the built-in 4x12 correlation matrix.
// Correlation scale: 1=Low, 2=Medium, 3=High, 0=none.
func DefaultMapping() *Mapping {
	return &Mapping{weights: [NumCOs][NumPOs]int{
		//           PO1 PO2 PO3 PO4 PO5 PO6 PO7 PO8 PO9 P10 P11 P12
		/* CO1 */ {3, 3, 2, 1, 2, 1, 1, 1, 1, 1, 1, 2},
		/* CO2 */ {3, 3, 3, 2, 2, 1, 1, 1, 2, 2, 2, 2},
		/* CO3 */ {2, 3, 2, 3, 3, 1, 1, 1, 2, 2, 2, 2},
		/* CO4 */ {1, 1, 1, 2, 1, 3, 2, 3, 3, 3, 2, 3},
	}}
}

// Weight returns the correlation weight of the given CO row and PO column
// (both zero-based).
func (m *Mapping) Weight(co, po int) int {
	return m.weights[co][po]
}

// POKey returns the canonical identifier of a zero-based PO column.
func POKey(po int) string {
	return fmt.Sprintf("PO%d", po+1)
}

// COKey returns the canonical identifier of a zero-based CO row.
func COKey(co int) string {
	return fmt.Sprintf("CO%d", co+1)
}
