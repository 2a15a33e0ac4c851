package uc

import (
	"fmt"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/solver"
)

// rampStateMachine linearizes the three-phase ramp logic for thermal units.
//
// The auxiliary offset is dispatch above the committed minimum-power floor.
// A Big-M pair activates the ramp-up indicator exactly when the offset
// strictly increases by more than the tolerance, and caps the increase by
// the unit's hourly ramp capacity only while the indicator is set;
// symmetric logic covers ramp-down. Exactly one of {ramp-down, ramp-up,
// stable} holds whenever the unit is committed. Once a ramp-down episode
// ends the unit is pinned stable for the configured span.
func (b *builder) rampStateMachine() {
	m := b.in.Config.BigM
	tol := b.in.Config.RampTolerance
	for _, g := range b.in.Fleet {
		if !g.Thermal {
			continue
		}
		floor := b.in.floor(g) * g.CapacityMW
		upCap := g.RampUp * g.CapacityMW
		dnCap := g.RampDown * g.CapacityMW

		for t := 0; t < b.T; t++ {
			// offset == gen - floor*commit
			b.inst.AddConstraint(fmt.Sprintf("offset[%s][%d]", g.ID, t),
				[]solver.Term{
					{Var: b.v(VarOffset(g.ID, t)), Coef: 1},
					{Var: b.v(VarGen(g.ID, t)), Coef: -1},
					{Var: b.v(VarCommit(g.ID, t)), Coef: floor},
				},
				solver.Equal, 0)

			// rampdn + rampup + stable == commit
			b.inst.AddConstraint(fmt.Sprintf("phase[%s][%d]", g.ID, t),
				[]solver.Term{
					{Var: b.v(VarRampDown(g.ID, t)), Coef: 1},
					{Var: b.v(VarRampUp(g.ID, t)), Coef: 1},
					{Var: b.v(VarStable(g.ID, t)), Coef: 1},
					{Var: b.v(VarCommit(g.ID, t)), Coef: -1},
				},
				solver.Equal, 0)
		}

		for t := 1; t < b.T; t++ {
			up := b.v(VarRampUp(g.ID, t))
			dn := b.v(VarRampDown(g.ID, t))
			cur := b.v(VarOffset(g.ID, t))
			prev := b.v(VarOffset(g.ID, t-1))

			// An increase beyond the tolerance forces rampup to 1.
			b.inst.AddConstraint(fmt.Sprintf("rampup_act[%s][%d]", g.ID, t),
				[]solver.Term{
					{Var: cur, Coef: 1}, {Var: prev, Coef: -1}, {Var: up, Coef: -m},
				},
				solver.LessEq, tol)
			// While ramping up the increase is bounded by the ramp capacity.
			b.inst.AddConstraint(fmt.Sprintf("rampup_cap[%s][%d]", g.ID, t),
				[]solver.Term{
					{Var: cur, Coef: 1}, {Var: prev, Coef: -1}, {Var: up, Coef: m},
				},
				solver.LessEq, upCap+m)

			b.inst.AddConstraint(fmt.Sprintf("rampdn_act[%s][%d]", g.ID, t),
				[]solver.Term{
					{Var: prev, Coef: 1}, {Var: cur, Coef: -1}, {Var: dn, Coef: -m},
				},
				solver.LessEq, tol)
			b.inst.AddConstraint(fmt.Sprintf("rampdn_cap[%s][%d]", g.ID, t),
				[]solver.Term{
					{Var: prev, Coef: 1}, {Var: cur, Coef: -1}, {Var: dn, Coef: m},
				},
				solver.LessEq, dnCap+m)
		}

		// After a ramp-down episode ends at hour t+1 the unit must sit in
		// the stable phase for StableSpan hours and may not re-enter a ramp
		// phase during that span. The commitment term releases the pin if
		// the unit goes offline instead.
		for t := 0; t+1 < b.T; t++ {
			end := b.v(VarRampDown(g.ID, t))
			next := b.v(VarRampDown(g.ID, t+1))
			for j := 1; j <= b.in.Config.StableSpan; j++ {
				h := t + j
				if h >= b.T {
					break
				}
				b.inst.AddConstraint(fmt.Sprintf("hold_stable[%s][%d][%d]", g.ID, t, h),
					[]solver.Term{
						{Var: end, Coef: 1},
						{Var: next, Coef: -1},
						{Var: b.v(VarStable(g.ID, h)), Coef: -1},
						{Var: b.v(VarCommit(g.ID, h)), Coef: 1},
					},
					solver.LessEq, 1)
				b.inst.AddConstraint(fmt.Sprintf("hold_noup[%s][%d][%d]", g.ID, t, h),
					[]solver.Term{
						{Var: end, Coef: 1},
						{Var: next, Coef: -1},
						{Var: b.v(VarRampUp(g.ID, h)), Coef: 1},
					},
					solver.LessEq, 1)
				if h != t+1 {
					b.inst.AddConstraint(fmt.Sprintf("hold_nodn[%s][%d][%d]", g.ID, t, h),
						[]solver.Term{
							{Var: end, Coef: 1},
							{Var: next, Coef: -1},
							{Var: b.v(VarRampDown(g.ID, h)), Coef: 1},
						},
						solver.LessEq, 1)
				}
			}
		}
	}
}

// renewableRamps caps hour-over-hour dispatch swings of variable generators
// symmetrically, with no phase indicators.
func (b *builder) renewableRamps() {
	for _, g := range b.in.Fleet {
		if !g.Variable {
			continue
		}
		upCap := g.RampUp * g.CapacityMW
		dnCap := g.RampDown * g.CapacityMW
		for t := 1; t < b.T; t++ {
			cur := b.v(VarGen(g.ID, t))
			prev := b.v(VarGen(g.ID, t-1))
			b.inst.AddConstraint(fmt.Sprintf("vre_rampup[%s][%d]", g.ID, t),
				[]solver.Term{{Var: cur, Coef: 1}, {Var: prev, Coef: -1}},
				solver.LessEq, upCap)
			b.inst.AddConstraint(fmt.Sprintf("vre_rampdn[%s][%d]", g.ID, t),
				[]solver.Term{{Var: prev, Coef: 1}, {Var: cur, Coef: -1}},
				solver.LessEq, dnCap)
		}
	}
}
