// Package solver provides the gonum simplex implementation of the core
// solver capability. It solves the linear relaxation of the instance:
// binary and integer variables keep their box bounds but integrality is
// left to an external MILP when exactness is required.
package solver

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	coresolver "github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/solver"
)

// lpSimplex points to the function used to solve the LP. Tests override it
// to simulate solver failures.
var lpSimplex = lp.Simplex

// SimplexSolver solves instances with gonum's simplex over the converted
// standard form.
type SimplexSolver struct {
	// Tol is the simplex pivot tolerance.
	Tol float64
}

// NewSimplexSolver returns a solver with the default tolerance.
func NewSimplexSolver() *SimplexSolver {
	return &SimplexSolver{Tol: 1e-7}
}

// Solve implements the core Solver interface.
func (s *SimplexSolver) Solve(_ context.Context, in *coresolver.Instance) (*coresolver.Solution, error) {
	n := len(in.Variables)
	c := make([]float64, n)
	for _, t := range in.Objective {
		c[t.Var] += t.Coef
	}

	var ineqRows, eqRows [][]float64
	var h, b []float64
	row := func(terms []coresolver.Term, negate bool) []float64 {
		r := make([]float64, n)
		for _, t := range terms {
			if negate {
				r[t.Var] -= t.Coef
			} else {
				r[t.Var] += t.Coef
			}
		}
		return r
	}
	for _, con := range in.Constraints {
		switch con.Sense {
		case coresolver.LessEq:
			ineqRows = append(ineqRows, row(con.Terms, false))
			h = append(h, con.RHS)
		case coresolver.GreaterEq:
			ineqRows = append(ineqRows, row(con.Terms, true))
			h = append(h, -con.RHS)
		case coresolver.Equal:
			eqRows = append(eqRows, row(con.Terms, false))
			b = append(b, con.RHS)
		}
	}
	// Box bounds become inequality rows; Convert treats every variable as
	// free.
	for i, v := range in.Variables {
		lo := make([]float64, n)
		lo[i] = -1
		ineqRows = append(ineqRows, lo)
		h = append(h, -v.Lower)
		if !math.IsInf(v.Upper, 1) {
			up := make([]float64, n)
			up[i] = 1
			ineqRows = append(ineqRows, up)
			h = append(h, v.Upper)
		}
	}

	g := mat.NewDense(len(ineqRows), n, nil)
	for i, r := range ineqRows {
		g.SetRow(i, r)
	}
	var a mat.Matrix
	if len(eqRows) > 0 {
		ad := mat.NewDense(len(eqRows), n, nil)
		for i, r := range eqRows {
			ad.SetRow(i, r)
		}
		a = ad
	}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	_, xStd, err := lpSimplex(cStd, aStd, bStd, s.Tol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return &coresolver.Solution{Status: coresolver.StatusInfeasible}, nil
		}
		if errors.Is(err, lp.ErrUnbounded) {
			return &coresolver.Solution{Status: coresolver.StatusUnbounded}, nil
		}
		return nil, err
	}

	// Convert splits each free variable into a positive and negative part;
	// recover x from the first 2n standard-form components.
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = xStd[i] - xStd[n+i]
	}
	return &coresolver.Solution{
		Status:    coresolver.StatusOptimal,
		Values:    x,
		Objective: in.ObjectiveValue(x),
	}, nil
}
