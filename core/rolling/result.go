package rolling

import (
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/solver"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/uc"
)

// Result is the solved assignment of one window reshaped into per-generator
// hourly series, the form reports and the physics update consume.
type Result struct {
	Window    int
	Horizon   model.Horizon
	Status    solver.Status
	Objective float64

	Gen     map[string][]float64
	Commit  map[string][]bool
	Start   map[string][]bool
	Shut    map[string][]bool
	Curtail map[string][]float64

	NSE       []float64
	Charge    []float64
	Discharge []float64
	SOC       []float64
}

// ExtractResult reads the solver assignment back out of the instance.
func ExtractResult(window int, inst *solver.Instance, sol *solver.Solution, fleet model.Fleet, horizon model.Horizon) *Result {
	T := len(horizon)
	r := &Result{
		Window:    window,
		Horizon:   horizon,
		Status:    sol.Status,
		Objective: sol.Objective,
		Gen:       make(map[string][]float64, len(fleet)),
		Commit:    make(map[string][]bool, len(fleet)),
		Start:     make(map[string][]bool, len(fleet)),
		Shut:      make(map[string][]bool, len(fleet)),
		Curtail:   make(map[string][]float64),
		NSE:       make([]float64, T),
		Charge:    make([]float64, T),
		Discharge: make([]float64, T),
		SOC:       make([]float64, T),
	}
	for _, g := range fleet {
		gen := make([]float64, T)
		commit := make([]bool, T)
		start := make([]bool, T)
		shut := make([]bool, T)
		for t := 0; t < T; t++ {
			gen[t] = sol.Value(inst, uc.VarGen(g.ID, t))
			commit[t] = sol.Value(inst, uc.VarCommit(g.ID, t)) > 0.5
			start[t] = sol.Value(inst, uc.VarStart(g.ID, t)) > 0.5
			shut[t] = sol.Value(inst, uc.VarShut(g.ID, t)) > 0.5
		}
		r.Gen[g.ID] = gen
		r.Commit[g.ID] = commit
		r.Start[g.ID] = start
		r.Shut[g.ID] = shut
		if g.Variable {
			curt := make([]float64, T)
			for t := 0; t < T; t++ {
				curt[t] = sol.Value(inst, uc.VarCurtail(g.ID, t))
			}
			r.Curtail[g.ID] = curt
		}
	}
	for t := 0; t < T; t++ {
		r.NSE[t] = sol.Value(inst, uc.VarNSE(t))
		r.Charge[t] = sol.Value(inst, uc.VarCharge(t))
		r.Discharge[t] = sol.Value(inst, uc.VarDischarge(t))
		r.SOC[t] = sol.Value(inst, uc.VarSOC(t))
	}
	return r
}

// Energy returns the total MWh dispatched by a generator over the window.
func (r *Result) Energy(id string) float64 {
	var sum float64
	for _, v := range r.Gen[id] {
		sum += v
	}
	return sum
}

// TotalNSE returns the window's non-served energy in MWh.
func (r *Result) TotalNSE() float64 {
	var sum float64
	for _, v := range r.NSE {
		sum += v
	}
	return sum
}

// TotalCurtailment returns the window's curtailed energy in MWh.
func (r *Result) TotalCurtailment() float64 {
	var sum float64
	for _, series := range r.Curtail {
		for _, v := range series {
			sum += v
		}
	}
	return sum
}
