package rolling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/logger"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/metrics"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/physics"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/solver"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/uc"
)

// Pipeline drives the rolling loop for one run: build an instance from the
// store, solve it, feed the assignment through the physics update and thread
// the refreshed store into the next window. Windows are strictly sequential;
// only the per-reactor physics update fans out within a window.
type Pipeline struct {
	Fleet    model.Fleet
	Reactors map[string]bool
	Storage  model.StorageParams

	Builder      uc.Config
	Physics      physics.Config
	Coefficients physics.Coefficients
	Limits       physics.ReactivityLimitTable
	Deadtimes    physics.DeadtimeTable

	Solver solver.Solver
	Log    logger.Logger
	Sink   metrics.Sink
	RunID  string
}

// New validates the pipeline wiring and fills in defaults.
func New(p Pipeline) (*Pipeline, error) {
	if err := p.Fleet.Validate(); err != nil {
		return nil, err
	}
	if p.Solver == nil {
		return nil, fmt.Errorf("rolling: no solver configured")
	}
	if p.Log == nil {
		p.Log = logger.NopLogger{}
	}
	if p.Sink == nil {
		p.Sink = metrics.NopSink{}
	}
	if p.RunID == "" {
		p.RunID = uuid.NewString()
	}
	return &p, nil
}

// WindowData is the exogenous input of one window: its horizon, demand and
// variable capacity factors.
type WindowData struct {
	Horizon    model.Horizon
	Load       []float64
	VariableCF map[string][]float64
}

// RunWindow executes one build-solve-update cycle. It returns the window's
// result and the store for the next window. An infeasible or unbounded
// instance is fatal for the window and surfaced with its index.
func (p *Pipeline) RunWindow(ctx context.Context, st Store, data WindowData) (*Result, Store, error) {
	first := st.Window == 0
	T := len(data.Horizon)

	floors := make(map[string]float64, len(st.Physics))
	for id, ps := range st.Physics {
		if ps.P0 > 0 {
			floors[id] = ps.P0
		}
	}

	inst, err := uc.Build(uc.BuildInput{
		Fleet:             p.Fleet,
		Horizon:           data.Horizon,
		Load:              data.Load,
		VariableCF:        data.VariableCF,
		Deadtime:          st.Deadtime,
		RemainingDowntime: st.RemainingDowntime,
		Carryover:         st.Carryover,
		MinPowerFloor:     floors,
		Storage:           p.Storage,
		FirstWindow:       first,
		CriticalReactors:  p.Reactors,
		Config:            p.Builder,
	})
	if err != nil {
		return nil, st, fmt.Errorf("window %d: build: %w", st.Window, err)
	}

	begin := time.Now()
	sol, err := p.Solver.Solve(ctx, inst)
	elapsed := time.Since(begin)
	if err != nil {
		return nil, st, fmt.Errorf("window %d: solve: %w", st.Window, err)
	}
	switch sol.Status {
	case solver.StatusInfeasible:
		return nil, st, fmt.Errorf("window %d: %w", st.Window, solver.ErrInfeasible)
	case solver.StatusUnbounded:
		return nil, st, fmt.Errorf("window %d: %w", st.Window, solver.ErrUnbounded)
	}

	res := ExtractResult(st.Window, inst, sol, p.Fleet, data.Horizon)
	p.Log.Debugw("window solved", map[string]any{
		"window":    st.Window,
		"status":    sol.Status.String(),
		"objective": sol.Objective,
	})

	// Boundary records from the assignment, before the physics update
	// decides availability for the next window.
	carry := make(map[string]model.Carryover, len(p.Fleet))
	for _, g := range p.Fleet {
		c := model.Carryover{Commit: res.Commit[g.ID][T-1]}
		if prev, ok := st.Carryover[g.ID]; ok {
			c.Terminated = prev.Terminated
		}
		if g.Resource == model.ResourcePumpedStorage {
			c.SOC = res.SOC[T-1]
		}
		carry[g.ID] = c
	}

	energy := make(map[string]float64, len(st.Physics))
	for id := range st.Physics {
		energy[id] = res.Energy(id)
	}
	phys, err := physics.Advance(physics.AdvanceInput{
		Window:       st.Window,
		Fleet:        p.Fleet,
		Reactors:     p.Reactors,
		Energy:       energy,
		Hours:        T,
		State:        st.Physics,
		Countdowns:   st.Countdowns,
		Carryover:    carry,
		Coefficients: p.Coefficients,
		Limits:       p.Limits,
		Deadtimes:    p.Deadtimes,
		Config:       p.Physics,
	})
	if err != nil {
		return nil, st, fmt.Errorf("window %d: physics: %w", st.Window, err)
	}

	next := Store{
		Window:            st.Window + 1,
		RemainingDowntime: make(map[string]int, len(p.Fleet)),
		Carryover:         phys.Carryover,
		Physics:           phys.State,
		Deadtime:          phys.Deadtime,
		Countdowns:        phys.Countdowns,
	}
	outages := 0
	for id, cd := range phys.Countdowns {
		if cd.Terminated && !st.Countdowns[id].Terminated {
			outages++
			p.Log.Infof("window %d: reactor %s scheduled for refueling, span %d", st.Window, id, cd.SpanRemaining)
		}
	}
	for _, g := range p.Fleet {
		if !g.Thermal {
			continue
		}
		owed := st.RemainingDowntime[g.ID] - T
		if owed < 0 {
			owed = 0
		}
		dt := p.Builder.DefaultDowntime
		if p.Reactors[g.ID] {
			if d, ok := st.Deadtime[g.ID]; ok {
				dt = d
			}
		}
		for t, s := range res.Shut[g.ID] {
			if !s {
				continue
			}
			if rem := dt - (T - 1 - t); rem > owed {
				owed = rem
			}
		}
		if owed > 0 {
			next.RemainingDowntime[g.ID] = owed
		}
	}

	if err := p.Sink.RecordWindowResult(metrics.WindowResult{
		RunID:            p.RunID,
		Window:           st.Window,
		Status:           sol.Status.String(),
		Objective:        sol.Objective,
		NonServedMWh:     res.TotalNSE(),
		CurtailedMWh:     res.TotalCurtailment(),
		OutagesScheduled: outages,
		SolveSeconds:     elapsed.Seconds(),
		Time:             time.Now(),
	}); err != nil {
		p.Log.Warnf("window %d: record metrics: %v", st.Window, err)
	}
	return res, next, nil
}

// Run executes consecutive windows, invoking each after every solved window
// with the result and the store that will feed the next one.
func (p *Pipeline) Run(ctx context.Context, st Store, windows []WindowData, each func(*Result, Store) error) (Store, error) {
	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		res, next, err := p.RunWindow(ctx, st, w)
		if err != nil {
			return st, err
		}
		st = next
		if each != nil {
			if err := each(res, st); err != nil {
				return st, err
			}
		}
	}
	return st, nil
}
