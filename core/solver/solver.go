package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// VarKind distinguishes the variable domains understood by the solver.
type VarKind int

const (
	Continuous VarKind = iota
	Binary
	Integer
)

// Variable is one decision variable with its box bounds.
type Variable struct {
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64
}

// Term is one coefficient of a linear expression, referencing a variable by
// its index in the instance.
type Term struct {
	Var  int
	Coef float64
}

// Sense is the relation of a linear constraint.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "=="
	}
}

// Constraint is one linear (in)equality: sum(Terms) Sense RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Instance is a fully assembled optimization problem: a linear objective to
// minimize over bounded continuous/binary/integer variables subject to
// linear constraints. It is pure data and safe to hand to any solver.
type Instance struct {
	Variables   []Variable
	Objective   []Term
	Constraints []Constraint

	index map[string]int
}

// NewInstance returns an empty instance.
func NewInstance() *Instance {
	return &Instance{index: make(map[string]int)}
}

// AddVar appends a variable and returns its index. Names must be unique.
func (in *Instance) AddVar(name string, kind VarKind, lower, upper float64) int {
	if _, ok := in.index[name]; ok {
		panic(fmt.Sprintf("duplicate variable %s", name))
	}
	in.Variables = append(in.Variables, Variable{Name: name, Kind: kind, Lower: lower, Upper: upper})
	id := len(in.Variables) - 1
	in.index[name] = id
	return id
}

// Var returns the index of a named variable.
func (in *Instance) Var(name string) (int, bool) {
	id, ok := in.index[name]
	return id, ok
}

// AddObjective accumulates a coefficient on the objective.
func (in *Instance) AddObjective(v int, coef float64) {
	if coef != 0 {
		in.Objective = append(in.Objective, Term{Var: v, Coef: coef})
	}
}

// AddConstraint appends a constraint.
func (in *Instance) AddConstraint(name string, terms []Term, sense Sense, rhs float64) {
	in.Constraints = append(in.Constraints, Constraint{Name: name, Terms: terms, Sense: sense, RHS: rhs})
}

// FixVar collapses a variable's bounds to a single value.
func (in *Instance) FixVar(v int, value float64) {
	in.Variables[v].Lower = value
	in.Variables[v].Upper = value
}

// ObjectiveValue evaluates the objective at the given assignment.
func (in *Instance) ObjectiveValue(x []float64) float64 {
	var sum float64
	for _, t := range in.Objective {
		sum += t.Coef * x[t.Var]
	}
	return sum
}

// Violations returns the names of constraints and variable bounds the
// assignment breaks, within tol. It is the reference feasibility check used
// by tests and post-solve validation.
func (in *Instance) Violations(x []float64, tol float64) []string {
	var out []string
	if len(x) != len(in.Variables) {
		return []string{fmt.Sprintf("assignment length %d, want %d", len(x), len(in.Variables))}
	}
	for i, v := range in.Variables {
		if x[i] < v.Lower-tol || x[i] > v.Upper+tol {
			out = append(out, fmt.Sprintf("bounds %s: %g not in [%g,%g]", v.Name, x[i], v.Lower, v.Upper))
		}
		if v.Kind != Continuous && math.Abs(x[i]-math.Round(x[i])) > tol {
			out = append(out, fmt.Sprintf("integrality %s: %g", v.Name, x[i]))
		}
	}
	for _, c := range in.Constraints {
		var lhs float64
		for _, t := range c.Terms {
			lhs += t.Coef * x[t.Var]
		}
		ok := false
		switch c.Sense {
		case LessEq:
			ok = lhs <= c.RHS+tol
		case GreaterEq:
			ok = lhs >= c.RHS-tol
		case Equal:
			ok = math.Abs(lhs-c.RHS) <= tol
		}
		if !ok {
			out = append(out, fmt.Sprintf("constraint %s: %g %s %g", c.Name, lhs, c.Sense, c.RHS))
		}
	}
	return out
}

// Status reports the outcome of a solve.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusTimeLimit
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeLimit:
		return "time_limit"
	default:
		return "unknown"
	}
}

// Solution is a solver's assignment for an instance. Values are indexed like
// Instance.Variables.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
}

// Value returns the assignment of a named variable, or 0 if absent.
func (s *Solution) Value(in *Instance, name string) float64 {
	id, ok := in.Var(name)
	if !ok {
		return 0
	}
	return s.Values[id]
}

// Sentinel solve outcomes.
var (
	ErrInfeasible = errors.New("instance infeasible")
	ErrUnbounded  = errors.New("instance unbounded")
)

// Solver is the consumed optimization capability. Implementations must be
// deterministic for a fixed instance or clearly document otherwise.
type Solver interface {
	Solve(ctx context.Context, in *Instance) (*Solution, error)
}
