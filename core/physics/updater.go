package physics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
)

// ErrInternal marks internal-consistency failures in the rolling state, as
// opposed to configuration errors in user input.
var ErrInternal = errors.New("physics: internal consistency error")

// Coefficients holds the burnup depletion slope per reactor family.
type Coefficients map[model.ResourceType]float64

// Config carries the updater's tunables.
type Config struct {
	// FloorPower is the absolute lower clamp for a tabulated minimum-power
	// floor.
	FloorPower float64 `json:"floor_power"`
	// RefuelSpan is the number of windows a scheduled refueling outage
	// lasts.
	RefuelSpan int `json:"refuel_span"`
	// DefaultDowntime is the deadtime assignment for reactors absent from
	// the deadtime table.
	DefaultDowntime int `json:"default_downtime"`
}

// AdvanceInput is the state consumed by one physics update.
type AdvanceInput struct {
	Window int
	Fleet  model.Fleet
	// Reactors is the set of units subject to reactor physics.
	Reactors map[string]bool
	// Energy is the total MWh each reactor dispatched over the window.
	Energy map[string]float64
	// Hours is the window length.
	Hours int

	State      map[string]model.PhysicsState
	Countdowns map[string]model.OutageCountdown
	Carryover  map[string]model.Carryover

	Coefficients Coefficients
	Limits       ReactivityLimitTable
	Deadtimes    DeadtimeTable
	Config       Config
}

// AdvanceResult is the refreshed cross-window state. All maps are freshly
// allocated; the input is never mutated.
type AdvanceResult struct {
	State      map[string]model.PhysicsState
	Deadtime   map[string]int
	Countdowns map[string]model.OutageCountdown
	Carryover  map[string]model.Carryover
}

type reactorUpdate struct {
	id       string
	state    model.PhysicsState
	cd       model.OutageCountdown
	deadtime int
}

// Advance runs one window's depletion and outage update for every reactor.
// Each reactor depends only on its own prior state and that window's
// dispatch, so the per-reactor work fans out across goroutines from a
// consistent snapshot of the inputs.
func Advance(in AdvanceInput) (AdvanceResult, error) {
	if in.Hours <= 0 {
		return AdvanceResult{}, fmt.Errorf("%w: window length %d", ErrInternal, in.Hours)
	}
	var reactors model.Fleet
	for _, g := range in.Fleet {
		if in.Reactors[g.ID] {
			reactors = append(reactors, g)
		}
	}
	for _, g := range reactors {
		if _, ok := in.State[g.ID]; !ok {
			return AdvanceResult{}, fmt.Errorf("%w: no physics state for reactor %s", ErrInternal, g.ID)
		}
	}

	updates := make([]reactorUpdate, len(reactors))
	var wg sync.WaitGroup
	for i, g := range reactors {
		wg.Add(1)
		go func(i int, g model.Generator) {
			defer wg.Done()
			updates[i] = advanceOne(in, g)
		}(i, g)
	}
	wg.Wait()

	out := AdvanceResult{
		State:      make(map[string]model.PhysicsState, len(reactors)),
		Deadtime:   make(map[string]int, len(reactors)),
		Countdowns: make(map[string]model.OutageCountdown, len(reactors)),
		Carryover:  make(map[string]model.Carryover, len(in.Carryover)),
	}
	for id, c := range in.Carryover {
		out.Carryover[id] = c
	}
	for _, u := range updates {
		out.State[u.id] = u.state
		out.Deadtime[u.id] = u.deadtime
		out.Countdowns[u.id] = u.cd
		c := out.Carryover[u.id]
		c.Terminated = u.cd.Terminated
		out.Carryover[u.id] = c
	}
	return out, nil
}

// advanceOne applies the depletion, floor, countdown and deadtime logic for
// a single reactor.
func advanceOne(in AdvanceInput, g model.Generator) reactorUpdate {
	st := in.State[g.ID]
	cd := in.Countdowns[g.ID]

	// Utilization and linear burnup depletion.
	st.Alpha = in.Energy[g.ID] / (g.CapacityMW * float64(in.Hours))
	st.Keff -= in.Coefficients[g.Resource] * st.Alpha
	st.Reactivity = model.ReactivityOf(st.Keff)

	// Minimum-power floor from the reactivity limits. An untabulated family
	// is fully restricted; a tabulated floor never drops below the
	// configured absolute minimum.
	p0 := in.Limits.Floor(g.Resource, st.Reactivity)
	if p0 < 1 && p0 < in.Config.FloorPower {
		p0 = in.Config.FloorPower
	}
	st.P0 = p0
	st.NearestK = 0

	// Outage countdown handling precedes the deadtime lookup.
	if cd.SpanRemaining > 0 {
		cd.SpanRemaining--
	}
	if cd.Pending() {
		st = model.PhysicsState{}
	} else if cd.ResetDue() {
		st = model.NewPhysicsState()
		cd.Terminated = false
	}

	if !in.Deadtimes.Has(g.Resource) {
		return reactorUpdate{id: g.ID, state: st, cd: cd, deadtime: in.Config.DefaultDowntime}
	}

	pt, ok := in.Deadtimes.Nearest(g.Resource, st.Keff)
	if !ok && !cd.Terminated {
		// Depleted below every tabulated point with no outage pending:
		// schedule the refueling outage and make the reactor unavailable.
		cd.Terminated = true
		cd.SpanRemaining = in.Config.RefuelSpan
		st = model.PhysicsState{}
	}
	st.NearestK = pt.K
	return reactorUpdate{id: g.ID, state: st, cd: cd, deadtime: pt.DowntimeHours}
}
