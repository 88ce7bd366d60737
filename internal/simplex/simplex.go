// Package simplex implements a dense-tableau simplex solver for
// minimization LPs in standard form. It knows nothing about commodities
// or factories; callers build the tableau and interpret the solution.
package simplex

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnbounded is returned by Solve when the objective can decrease
// without limit (no positive entry in the pivot column).
var ErrUnbounded = errors.New("simplex: problem is unbounded")

// eps is the tolerance used for basic-column detection when extracting
// the solution. Pivoting itself uses exact arithmetic in the order the
// tableau implies.
const eps = 1e-9

// Solver runs the simplex algorithm over a dense tableau. Row 0 is the
// objective; rows 1..m are constraints expressed as <= with
// non-negative right-hand sides; the last column is the RHS. All
// decision variables are implicitly >= 0.
type Solver struct {
	m       int // constraint rows, excluding the objective row
	n       int // decision-variable columns, excluding the RHS column
	tableau [][]float64
}

// New validates and wraps an initial tableau. The tableau must have at
// least one constraint row and one decision variable, and every row
// must have the same length. The tableau is used in place; callers
// that need the original should pass a copy.
func New(tableau [][]float64) (*Solver, error) {
	if len(tableau) < 2 {
		return nil, fmt.Errorf("simplex: tableau needs an objective row and at least one constraint, got %d rows", len(tableau))
	}
	width := len(tableau[0])
	if width < 2 {
		return nil, fmt.Errorf("simplex: tableau needs at least one decision variable and a RHS column, got width %d", width)
	}
	for i, row := range tableau {
		if len(row) != width {
			return nil, fmt.Errorf("simplex: ragged tableau: row %d has %d columns, expected %d", i, len(row), width)
		}
	}
	return &Solver{
		m:       len(tableau) - 1,
		n:       width - 1,
		tableau: tableau,
	}, nil
}

// Solve pivots the tableau to optimality. It returns ErrUnbounded when
// no finite optimum exists; the tableau contents are then unspecified.
func (s *Solver) Solve() error {
	for {
		// Entering variable: most negative objective coefficient,
		// first occurrence on ties.
		pivotCol := -1
		mostNegative := 0.0
		for j := 0; j < s.n; j++ {
			if s.tableau[0][j] < mostNegative {
				mostNegative = s.tableau[0][j]
				pivotCol = j
			}
		}
		if pivotCol == -1 {
			return nil // Optimal.
		}

		// Leaving variable: minimum ratio over rows with a strictly
		// positive pivot-column entry, first occurrence on ties.
		pivotRow := -1
		minRatio := math.MaxFloat64
		for i := 1; i <= s.m; i++ {
			if s.tableau[i][pivotCol] > 0 {
				ratio := s.tableau[i][s.n] / s.tableau[i][pivotCol]
				if ratio < minRatio {
					minRatio = ratio
					pivotRow = i
				}
			}
		}
		if pivotRow == -1 {
			return ErrUnbounded
		}

		s.pivot(pivotRow, pivotCol)
	}
}

// pivot normalizes the pivot row, then eliminates the pivot column from
// every other row. The pivot row is fully normalized before any
// elimination happens; the elimination order matters for float
// reproducibility.
func (s *Solver) pivot(pivotRow, pivotCol int) {
	pivotVal := s.tableau[pivotRow][pivotCol]
	for j := range s.tableau[pivotRow] {
		s.tableau[pivotRow][j] /= pivotVal
	}
	for i := range s.tableau {
		if i == pivotRow {
			continue
		}
		factor := s.tableau[i][pivotCol]
		for j := range s.tableau[i] {
			s.tableau[i][j] -= factor * s.tableau[pivotRow][j]
		}
	}
}

// Solution extracts decision-variable values from the solved tableau.
// A column is basic when, across the constraint rows, it holds exactly
// one entry within eps of 1 and every other entry within eps of 0; its
// value is the RHS of the unit row. Non-basic variables are 0.
func (s *Solver) Solution() []float64 {
	solution := make([]float64, s.n)
	for j := 0; j < s.n; j++ {
		basicRow := -1
		isBasic := true
		for i := 1; i <= s.m; i++ {
			v := s.tableau[i][j]
			switch {
			case math.Abs(v-1) <= eps:
				if basicRow != -1 {
					isBasic = false
				} else {
					basicRow = i
				}
			case math.Abs(v) <= eps:
				// Zero entry — fine.
			default:
				isBasic = false
			}
			if !isBasic {
				break
			}
		}
		if isBasic && basicRow != -1 {
			solution[j] = s.tableau[basicRow][s.n]
		}
	}
	return solution
}

// OptimalValue returns the RHS entry of the objective row after Solve.
func (s *Solver) OptimalValue() float64 {
	return s.tableau[0][s.n]
}
