package uc

import (
	"fmt"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/solver"
)

// storageDynamics encodes the pumped-storage reservoir: the exact SOC
// recurrence with one-way efficiency, charge-mode exclusivity, zeroed
// exchange at the window boundary hours and a zero terminal SOC. The
// initial SOC is free on the first window of a run and pinned to the
// transferred value afterwards.
func (b *builder) storageDynamics() {
	p := b.in.Storage.PowerCapMW
	eta := b.in.Storage.Efficiency
	last := b.T - 1

	if p <= 0 {
		// No storage configured: the exchange variables are already pinned to
		// zero by their bounds, and the recurrence would divide by a zero
		// efficiency.
		return
	}

	b.inst.FixVar(b.v(VarCharge(0)), 0)
	b.inst.FixVar(b.v(VarDischarge(0)), 0)
	b.inst.FixVar(b.v(VarCharge(last)), 0)
	b.inst.FixVar(b.v(VarDischarge(last)), 0)

	for t := 1; t < b.T; t++ {
		b.inst.AddConstraint(fmt.Sprintf("soc[%d]", t),
			[]solver.Term{
				{Var: b.v(VarSOC(t)), Coef: 1},
				{Var: b.v(VarSOC(t - 1)), Coef: -1},
				{Var: b.v(VarCharge(t - 1)), Coef: -eta},
				{Var: b.v(VarDischarge(t - 1)), Coef: 1 / eta},
			},
			solver.Equal, 0)
	}

	for t := 0; t < b.T; t++ {
		b.inst.AddConstraint(fmt.Sprintf("chmode[%d]", t),
			[]solver.Term{
				{Var: b.v(VarCharge(t)), Coef: 1},
				{Var: b.v(VarChargeMode(t)), Coef: -p},
			},
			solver.LessEq, 0)
		b.inst.AddConstraint(fmt.Sprintf("dismode[%d]", t),
			[]solver.Term{
				{Var: b.v(VarDischarge(t)), Coef: 1},
				{Var: b.v(VarChargeMode(t)), Coef: p},
			},
			solver.LessEq, p)
	}

	b.inst.AddConstraint("soc_final",
		[]solver.Term{{Var: b.v(VarSOC(last)), Coef: 1}},
		solver.Equal, 0)

	if !b.in.FirstWindow {
		var transfer float64
		for _, g := range b.in.Fleet {
			if g.Resource == model.ResourcePumpedStorage {
				if c, ok := b.in.Carryover[g.ID]; ok {
					transfer = c.SOC
				}
			}
		}
		b.inst.AddConstraint("soc_carry",
			[]solver.Term{{Var: b.v(VarSOC(0)), Coef: 1}},
			solver.Equal, transfer)
	}
}

// crossWindowContinuity applies the carried-over state: forced leading-hour
// downtime, whole-window unavailability for mid-refuel reactors, and a
// first-hour commitment consistent with the prior window's final bit unless
// a start or shutdown is declared at hour zero.
func (b *builder) crossWindowContinuity() {
	for _, g := range b.in.Fleet {
		if !g.Thermal {
			continue
		}
		carry, hasCarry := b.in.Carryover[g.ID]
		if hasCarry && carry.Terminated {
			for t := 0; t < b.T; t++ {
				b.inst.FixVar(b.v(VarCommit(g.ID, t)), 0)
			}
			continue
		}

		owed := b.in.RemainingDowntime[g.ID]
		if owed > 0 {
			n := owed
			if n > b.T {
				n = b.T
			}
			for t := 0; t < n; t++ {
				b.inst.FixVar(b.v(VarCommit(g.ID, t)), 0)
			}
			continue
		}

		if !hasCarry {
			continue
		}
		prev := 0.0
		if carry.Commit {
			prev = 1
		}
		terms := []solver.Term{
			{Var: b.v(VarCommit(g.ID, 0)), Coef: 1},
			{Var: b.v(VarStart(g.ID, 0)), Coef: -1},
			{Var: b.v(VarShut(g.ID, 0)), Coef: -1},
		}
		b.inst.AddConstraint(fmt.Sprintf("carry_hi[%s]", g.ID), terms, solver.LessEq, prev)
		terms = []solver.Term{
			{Var: b.v(VarCommit(g.ID, 0)), Coef: -1},
			{Var: b.v(VarStart(g.ID, 0)), Coef: -1},
			{Var: b.v(VarShut(g.ID, 0)), Coef: -1},
		}
		b.inst.AddConstraint(fmt.Sprintf("carry_lo[%s]", g.ID), terms, solver.LessEq, -prev)
	}
}
