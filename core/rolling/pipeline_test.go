package rolling

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/metrics"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/physics"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/solver"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/uc"
)

// stubSolver returns a fixed named assignment regardless of the instance.
type stubSolver struct {
	status solver.Status
	assign map[string]float64
	calls  int
}

func (s *stubSolver) Solve(_ context.Context, in *solver.Instance) (*solver.Solution, error) {
	s.calls++
	x := make([]float64, len(in.Variables))
	for name, v := range s.assign {
		if id, ok := in.Var(name); ok {
			x[id] = v
		}
	}
	return &solver.Solution{Status: s.status, Values: x, Objective: in.ObjectiveValue(x)}, nil
}

type captureSink struct {
	results []metrics.WindowResult
}

func (c *captureSink) RecordWindowResult(r metrics.WindowResult) error {
	c.results = append(c.results, r)
	return nil
}

func testFleet() model.Fleet {
	return model.Fleet{{
		ID:         "n1",
		Resource:   model.ResourceAP1000,
		CapacityMW: 1000,
		MinPower:   0.4,
		RampUp:     0.25,
		RampDown:   0.25,
		HeatRate:   10,
		FuelCost:   0.7,
		MinUpHours: 8,
		Thermal:    true,
	}}
}

func testPipeline(t *testing.T, s solver.Solver, sink metrics.Sink) *Pipeline {
	t.Helper()
	p, err := New(Pipeline{
		Fleet:        testFleet(),
		Reactors:     map[string]bool{"n1": true},
		Builder:      uc.DefaultConfig(),
		Physics:      physics.Config{FloorPower: 0.25, RefuelSpan: 3, DefaultDowntime: 8},
		Coefficients: physics.Coefficients{model.ResourceAP1000: 0.02},
		Limits: physics.NewReactivityLimitTable(map[model.ResourceType][]physics.LimitPoint{
			model.ResourceAP1000: {{MaxReactivityXe: 5000, P0: 0.5}},
		}),
		Deadtimes: physics.NewDeadtimeTable(map[model.ResourceType][]physics.DeadtimePoint{
			model.ResourceAP1000: {
				{K: 1.00, DowntimeHours: 48},
				{K: 1.10, DowntimeHours: 24},
				{K: 1.20, DowntimeHours: 12},
			},
		}),
		Solver: s,
		Sink:   sink,
	})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	return p
}

func committedWindow(T int, gen float64) map[string]float64 {
	assign := make(map[string]float64, 4*T)
	for t := 0; t < T; t++ {
		assign[uc.VarGen("n1", t)] = gen
		assign[uc.VarCommit("n1", t)] = 1
		assign[uc.VarStable("n1", t)] = 1
		assign[uc.VarOffset("n1", t)] = gen - 400
	}
	return assign
}

func window(T int) WindowData {
	load := make([]float64, T)
	for i := range load {
		load[i] = 500
	}
	return WindowData{Horizon: model.NewHorizon(1, T), Load: load}
}

func TestRunWindow_ThreadsStateForward(t *testing.T) {
	const T = 4
	stub := &stubSolver{status: solver.StatusOptimal, assign: committedWindow(T, 500)}
	sink := &captureSink{}
	p := testPipeline(t, stub, sink)

	st := NewStore(p.Fleet, p.Reactors)
	res, next, err := p.RunWindow(context.Background(), st, window(T))
	if err != nil {
		t.Fatalf("run window: %v", err)
	}
	if res.Window != 0 || next.Window != 1 {
		t.Fatalf("window indices: res=%d next=%d", res.Window, next.Window)
	}
	if !next.Carryover["n1"].Commit {
		t.Fatalf("final-hour commitment not carried over")
	}
	// 2000 MWh over a 4h window on 1000 MW: alpha 0.5, one depletion step.
	ps := next.Physics["n1"]
	wantKeff := model.InitialKeff - 0.02*0.5
	if math.Abs(ps.Keff-wantKeff) > 1e-12 {
		t.Fatalf("keff = %g, want %g", ps.Keff, wantKeff)
	}
	if ps.NearestK != 1.10 || next.Deadtime["n1"] != 24 {
		t.Fatalf("deadtime handoff: nearestK=%g deadtime=%d", ps.NearestK, next.Deadtime["n1"])
	}
	if len(next.RemainingDowntime) != 0 {
		t.Fatalf("no downtime should be owed: %v", next.RemainingDowntime)
	}
	if len(sink.results) != 1 || sink.results[0].Window != 0 || sink.results[0].Status != "optimal" {
		t.Fatalf("sink results: %+v", sink.results)
	}

	// The physics floor feeds the next window's build as the effective
	// minimum-power fraction.
	if ps.P0 != 0.5 {
		t.Fatalf("p0 = %g, want 0.5", ps.P0)
	}
}

func TestRunWindow_RemainingDowntimeHandoff(t *testing.T) {
	const T = 4
	// Online at hour 0, shutdown declared at hour 1.
	assign := map[string]float64{
		uc.VarGen("n1", 0):    400,
		uc.VarCommit("n1", 0): 1,
		uc.VarStable("n1", 0): 1,
		uc.VarShut("n1", 1):   1,
	}
	stub := &stubSolver{status: solver.StatusOptimal, assign: assign}
	p := testPipeline(t, stub, metrics.NopSink{})

	st := NewStore(p.Fleet, p.Reactors)
	st.Deadtime["n1"] = 8

	_, next, err := p.RunWindow(context.Background(), st, window(T))
	if err != nil {
		t.Fatalf("run window: %v", err)
	}
	// 8 owed hours minus the 2 already served inside this window.
	if got := next.RemainingDowntime["n1"]; got != 6 {
		t.Fatalf("remaining downtime = %d, want 6", got)
	}
	if next.Carryover["n1"].Commit {
		t.Fatalf("unit is offline at the boundary")
	}
}

func TestRunWindow_InfeasibleSurfacesWindow(t *testing.T) {
	stub := &stubSolver{status: solver.StatusInfeasible}
	p := testPipeline(t, stub, metrics.NopSink{})

	st := NewStore(p.Fleet, p.Reactors)
	st.Window = 3
	_, _, err := p.RunWindow(context.Background(), st, window(4))
	if !errors.Is(err, solver.ErrInfeasible) {
		t.Fatalf("got %v, want ErrInfeasible", err)
	}
	if !strings.Contains(err.Error(), "window 3") {
		t.Fatalf("error %q should name the window", err)
	}
}

func TestRun_SequentialWindows(t *testing.T) {
	const T = 4
	stub := &stubSolver{status: solver.StatusOptimal, assign: committedWindow(T, 500)}
	p := testPipeline(t, stub, metrics.NopSink{})

	windows := []WindowData{window(T), window(T), window(T)}
	seen := 0
	st, err := p.Run(context.Background(), NewStore(p.Fleet, p.Reactors), windows, func(r *Result, s Store) error {
		if r.Window != seen || s.Window != seen+1 {
			t.Fatalf("callback ordering: result %d store %d after %d", r.Window, s.Window, seen)
		}
		seen++
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if seen != 3 || st.Window != 3 || stub.calls != 3 {
		t.Fatalf("seen=%d window=%d calls=%d", seen, st.Window, stub.calls)
	}

	// Three windows of depletion accumulated through the threaded store.
	wantKeff := model.InitialKeff - 3*0.02*0.5
	if math.Abs(st.Physics["n1"].Keff-wantKeff) > 1e-12 {
		t.Fatalf("keff = %g, want %g", st.Physics["n1"].Keff, wantKeff)
	}
}

func TestRun_CallbackErrorStops(t *testing.T) {
	const T = 4
	stub := &stubSolver{status: solver.StatusOptimal, assign: committedWindow(T, 500)}
	p := testPipeline(t, stub, metrics.NopSink{})

	boom := fmt.Errorf("disk full")
	_, err := p.Run(context.Background(), NewStore(p.Fleet, p.Reactors),
		[]WindowData{window(T), window(T)},
		func(*Result, Store) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want callback error", err)
	}
	if stub.calls != 1 {
		t.Fatalf("solver called %d times after callback failure", stub.calls)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	stub := &stubSolver{status: solver.StatusOptimal, assign: committedWindow(4, 500)}
	p := testPipeline(t, stub, metrics.NopSink{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx, NewStore(p.Fleet, p.Reactors), []WindowData{window(4)}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if stub.calls != 0 {
		t.Fatalf("solver should not run after cancellation")
	}
}

func TestStoreClone(t *testing.T) {
	st := NewStore(testFleet(), map[string]bool{"n1": true})
	st.RemainingDowntime["n1"] = 5
	cp := st.Clone()
	cp.RemainingDowntime["n1"] = 9
	cp.Physics["n1"] = model.PhysicsState{Keff: 1}
	if st.RemainingDowntime["n1"] != 5 || st.Physics["n1"].Keff != model.InitialKeff {
		t.Fatalf("clone aliases the original store")
	}
}
