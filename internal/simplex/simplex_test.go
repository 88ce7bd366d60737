package simplex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveTextbookMaximization(t *testing.T) {
	// Maximize 3x + 5y subject to x <= 4, 2y <= 12, 3x + 2y <= 18.
	// Objective coefficients are negated; columns are x, y, three
	// slacks, RHS. Known optimum: x = 2, y = 6, value 36.
	tableau := [][]float64{
		{-3, -5, 0, 0, 0, 0},
		{1, 0, 1, 0, 0, 4},
		{0, 2, 0, 1, 0, 12},
		{3, 2, 0, 0, 1, 18},
	}

	s, err := New(tableau)
	require.NoError(t, err)
	require.NoError(t, s.Solve())

	sol := s.Solution()
	require.Len(t, sol, 5)
	assert.InDelta(t, 2.0, sol[0], 1e-9)
	assert.InDelta(t, 6.0, sol[1], 1e-9)
	assert.InDelta(t, 36.0, s.OptimalValue(), 1e-9)
}

func TestSolveSingleVariable(t *testing.T) {
	// Maximize 7x subject to x <= 5.
	tableau := [][]float64{
		{-7, 0, 0},
		{1, 1, 5},
	}

	s, err := New(tableau)
	require.NoError(t, err)
	require.NoError(t, s.Solve())

	sol := s.Solution()
	assert.InDelta(t, 5.0, sol[0], 1e-9)
	assert.InDelta(t, 35.0, s.OptimalValue(), 1e-9)
}

func TestSolveUnbounded(t *testing.T) {
	// Maximize x with only -x <= 1: no positive entry ever enters the
	// pivot column, so the objective grows without limit.
	tableau := [][]float64{
		{-1, 0, 0},
		{-1, 1, 1},
	}

	s, err := New(tableau)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Solve(), ErrUnbounded)
}

func TestSolveAlreadyOptimal(t *testing.T) {
	// No negative objective coefficient: Solve returns immediately and
	// every decision variable stays at zero.
	tableau := [][]float64{
		{2, 3, 0, 0},
		{2, 3, 1, 10},
	}

	s, err := New(tableau)
	require.NoError(t, err)
	require.NoError(t, s.Solve())

	sol := s.Solution()
	assert.Zero(t, sol[0])
	assert.Zero(t, sol[1])
	assert.Zero(t, s.OptimalValue())
}

func TestNewRejectsMalformedTableaus(t *testing.T) {
	cases := []struct {
		name    string
		tableau [][]float64
	}{
		{"nil", nil},
		{"objective only", [][]float64{{-1, 0}}},
		{"too narrow", [][]float64{{0}, {0}}},
		{"ragged", [][]float64{{-1, 0, 0}, {1, 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.tableau)
			assert.Error(t, err)
		})
	}
}

func TestEnteringColumnPrefersFirstOnTies(t *testing.T) {
	// Both variables carry the same objective coefficient; the first
	// column must be chosen, which with these constraints drives x to
	// its bound before y is considered.
	tableau := [][]float64{
		{-4, -4, 0, 0, 0},
		{1, 0, 1, 0, 3},
		{0, 1, 0, 1, 2},
	}

	s, err := New(tableau)
	require.NoError(t, err)
	require.NoError(t, s.Solve())

	sol := s.Solution()
	assert.InDelta(t, 3.0, sol[0], 1e-9)
	assert.InDelta(t, 2.0, sol[1], 1e-9)
	assert.InDelta(t, 20.0, s.OptimalValue(), 1e-9)
}

func TestSolutionIgnoresNonBasicColumns(t *testing.T) {
	// A column that appears in two constraint rows is not basic even if
	// one of its entries is exactly 1.
	tableau := [][]float64{
		{0, 0, 0},
		{1, 0, 4},
		{1, 1, 6},
	}

	s, err := New(tableau)
	require.NoError(t, err)

	sol := s.Solution()
	assert.Zero(t, sol[0])
	assert.InDelta(t, 6.0, sol[1], 1e-9)
}
