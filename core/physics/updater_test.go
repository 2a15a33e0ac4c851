package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
)

func reactor(id string, cap float64) model.Generator {
	return model.Generator{
		ID:         id,
		Resource:   model.ResourceAP1000,
		CapacityMW: cap,
		MinPower:   0.4,
		RampUp:     0.25,
		RampDown:   0.25,
		MinUpHours: 8,
		Thermal:    true,
	}
}

func testInput(fleet model.Fleet, energy map[string]float64) AdvanceInput {
	state := make(map[string]model.PhysicsState, len(fleet))
	reactors := make(map[string]bool, len(fleet))
	for _, g := range fleet {
		state[g.ID] = model.NewPhysicsState()
		reactors[g.ID] = true
	}
	return AdvanceInput{
		Fleet:        fleet,
		Reactors:     reactors,
		Energy:       energy,
		Hours:        24,
		State:        state,
		Countdowns:   make(map[string]model.OutageCountdown),
		Carryover:    make(map[string]model.Carryover),
		Coefficients: Coefficients{model.ResourceAP1000: 0.01},
		Limits: NewReactivityLimitTable(map[model.ResourceType][]LimitPoint{
			model.ResourceAP1000: {
				{MaxReactivityXe: 5000, P0: 0.5},
				{MaxReactivityXe: 15000, P0: 0.3},
			},
		}),
		Deadtimes: NewDeadtimeTable(map[model.ResourceType][]DeadtimePoint{
			model.ResourceAP1000: {
				{K: 1.00, DowntimeHours: 48},
				{K: 1.10, DowntimeHours: 24},
				{K: 1.20, DowntimeHours: 12},
			},
		}),
		Config: Config{FloorPower: 0.25, RefuelSpan: 3, DefaultDowntime: 8},
	}
}

func TestAdvance_Depletion(t *testing.T) {
	fleet := model.Fleet{reactor("n1", 1000)}
	// Full output for the whole window: alpha = 1.
	in := testInput(fleet, map[string]float64{"n1": 24000})

	out, err := Advance(in)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	st := out.State["n1"]
	if st.Alpha != 1 {
		t.Fatalf("alpha = %g, want 1", st.Alpha)
	}
	wantKeff := model.InitialKeff - 0.01
	if math.Abs(st.Keff-wantKeff) > 1e-12 {
		t.Fatalf("keff = %g, want %g", st.Keff, wantKeff)
	}
	wantRho := 1e5 * (wantKeff - 1) / wantKeff
	if math.Abs(st.Reactivity-wantRho) > 1e-9 {
		t.Fatalf("reactivity = %g, want %g", st.Reactivity, wantRho)
	}
	// Reactivity ~16318 pcm clears the 15000 breakpoint.
	if st.P0 != 0.3 {
		t.Fatalf("p0 = %g, want 0.3", st.P0)
	}
	// Keff 1.195 matches the 1.10 deadtime point.
	if st.NearestK != 1.10 {
		t.Fatalf("nearest k = %g, want 1.10", st.NearestK)
	}
	if out.Deadtime["n1"] != 24 {
		t.Fatalf("deadtime = %d, want 24", out.Deadtime["n1"])
	}
	if out.Countdowns["n1"].Terminated {
		t.Fatalf("no outage should be scheduled yet")
	}
	// The input state maps are untouched.
	if in.State["n1"].Keff != model.InitialKeff {
		t.Fatalf("input state mutated")
	}
}

func TestAdvance_IdleReactorDoesNotDeplete(t *testing.T) {
	fleet := model.Fleet{reactor("n1", 1000)}
	in := testInput(fleet, map[string]float64{"n1": 0})

	out, err := Advance(in)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if out.State["n1"].Keff != model.InitialKeff {
		t.Fatalf("idle reactor depleted: keff = %g", out.State["n1"].Keff)
	}
	out2, err := Advance(in)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if out2.State["n1"] != out.State["n1"] {
		t.Fatalf("zero-energy advance is not idempotent: %+v vs %+v",
			out2.State["n1"], out.State["n1"])
	}
}

func TestAdvance_SchedulesOutageBelowTable(t *testing.T) {
	fleet := model.Fleet{reactor("n1", 1000)}
	in := testInput(fleet, map[string]float64{"n1": 24000})
	// Already nearly depleted: one more full window crosses below the lowest
	// tabulated point.
	in.State["n1"] = model.PhysicsState{Keff: 1.005, Reactivity: model.ReactivityOf(1.005)}

	out, err := Advance(in)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	cd := out.Countdowns["n1"]
	if !cd.Terminated || cd.SpanRemaining != in.Config.RefuelSpan {
		t.Fatalf("outage not scheduled: %+v", cd)
	}
	if !out.Carryover["n1"].Terminated {
		t.Fatalf("termination not propagated to carryover")
	}
	st := out.State["n1"]
	if st.Keff != 0 || st.Reactivity != 0 || st.Alpha != 0 || st.P0 != 0 {
		t.Fatalf("state not zeroed on outage: %+v", st)
	}
	// The lowest tabulated point still names the handoff deadtime.
	if out.Deadtime["n1"] != 48 {
		t.Fatalf("deadtime = %d, want 48", out.Deadtime["n1"])
	}
}

func TestAdvance_CountdownAndReset(t *testing.T) {
	fleet := model.Fleet{reactor("n1", 1000)}
	in := testInput(fleet, map[string]float64{"n1": 0})
	in.State["n1"] = model.PhysicsState{}
	in.Countdowns["n1"] = model.OutageCountdown{Terminated: true, SpanRemaining: 2}
	in.Carryover["n1"] = model.Carryover{Terminated: true}

	// Window 1: countdown 2 -> 1, still pending.
	out, err := Advance(in)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if cd := out.Countdowns["n1"]; !cd.Pending() || cd.SpanRemaining != 1 {
		t.Fatalf("countdown after window 1: %+v", cd)
	}
	if !out.Carryover["n1"].Terminated {
		t.Fatalf("carryover should stay terminated mid-countdown")
	}

	// Window 2: countdown expires, core resets to fresh.
	in.State = out.State
	in.Countdowns = out.Countdowns
	in.Carryover = out.Carryover
	out, err = Advance(in)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	cd := out.Countdowns["n1"]
	if cd.Terminated {
		t.Fatalf("reactor should return to active after the reset: %+v", cd)
	}
	st := out.State["n1"]
	if st.Keff != model.InitialKeff {
		t.Fatalf("keff not reset: %g", st.Keff)
	}
	if out.Carryover["n1"].Terminated {
		t.Fatalf("carryover should clear after the reset")
	}
	// A fresh core sits on the 1.20 breakpoint.
	if st.NearestK != 1.20 || out.Deadtime["n1"] != 12 {
		t.Fatalf("fresh core lookup: nearestK=%g deadtime=%d", st.NearestK, out.Deadtime["n1"])
	}
}

func TestAdvance_DefaultDowntimeForUntabulatedFamily(t *testing.T) {
	g := reactor("n2", 300)
	g.Resource = model.ResourceAP300
	fleet := model.Fleet{g}
	in := testInput(fleet, map[string]float64{"n2": 0})

	out, err := Advance(in)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if out.Deadtime["n2"] != in.Config.DefaultDowntime {
		t.Fatalf("deadtime = %d, want default %d", out.Deadtime["n2"], in.Config.DefaultDowntime)
	}
	// No depletion slope and no limit table for the family: fully restricted.
	if out.State["n2"].P0 != 1 {
		t.Fatalf("p0 = %g, want 1", out.State["n2"].P0)
	}
}

func TestAdvance_InternalErrors(t *testing.T) {
	fleet := model.Fleet{reactor("n1", 1000)}
	in := testInput(fleet, nil)
	in.Hours = 0
	if _, err := Advance(in); !errors.Is(err, ErrInternal) {
		t.Fatalf("zero hours: got %v, want ErrInternal", err)
	}

	in = testInput(fleet, nil)
	delete(in.State, "n1")
	if _, err := Advance(in); !errors.Is(err, ErrInternal) {
		t.Fatalf("missing state: got %v, want ErrInternal", err)
	}
}

func TestAdvance_NonReactorsUntouched(t *testing.T) {
	fleet := model.Fleet{reactor("n1", 1000), {
		ID: "w1", Resource: model.ResourceWind, CapacityMW: 200, Variable: true,
	}}
	in := testInput(fleet, map[string]float64{"n1": 0, "w1": 4800})
	delete(in.State, "w1")
	delete(in.Reactors, "w1")
	in.Carryover["w1"] = model.Carryover{Commit: true}

	out, err := Advance(in)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, ok := out.State["w1"]; ok {
		t.Fatalf("non-reactor gained physics state")
	}
	if !out.Carryover["w1"].Commit {
		t.Fatalf("non-reactor carryover lost")
	}
}
