package uc

import (
	"fmt"
	"math"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/solver"
)

// Build assembles the unit-commitment instance for one window. It is
// deterministic for identical inputs, performs no I/O and leaves the input
// untouched.
func Build(in BuildInput) (*solver.Instance, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := &builder{in: in, inst: solver.NewInstance(), T: len(in.Horizon)}
	b.addVariables()
	b.addObjective()
	b.powerBalance()
	b.capacityEnvelope()
	b.curtailmentAccounting()
	b.commitmentBookkeeping()
	b.minUpTime()
	b.minDownTime()
	b.rampStateMachine()
	b.renewableRamps()
	b.storageDynamics()
	b.crossWindowContinuity()
	b.deadtimeDebits()
	return b.inst, nil
}

type builder struct {
	in   BuildInput
	inst *solver.Instance
	T    int
}

// v resolves a variable created by addVariables. A miss is an internal
// consistency bug, not an input error.
func (b *builder) v(name string) int {
	id, ok := b.inst.Var(name)
	if !ok {
		panic(fmt.Sprintf("uc: internal: unknown variable %s", name))
	}
	return id
}

func (b *builder) addVariables() {
	for _, g := range b.in.Fleet {
		cap := g.CapacityMW
		for t := 0; t < b.T; t++ {
			b.inst.AddVar(VarGen(g.ID, t), solver.Continuous, 0, cap)
			b.inst.AddVar(VarCommit(g.ID, t), solver.Binary, 0, 1)
			b.inst.AddVar(VarStart(g.ID, t), solver.Binary, 0, 1)
			b.inst.AddVar(VarShut(g.ID, t), solver.Binary, 0, 1)
			if g.Thermal {
				dt := b.in.downtime(g)
				b.inst.AddVar(VarRampDown(g.ID, t), solver.Binary, 0, 1)
				b.inst.AddVar(VarRampUp(g.ID, t), solver.Binary, 0, 1)
				b.inst.AddVar(VarStable(g.ID, t), solver.Binary, 0, 1)
				b.inst.AddVar(VarOffset(g.ID, t), solver.Continuous, 0, cap)
				b.inst.AddVar(VarDebit(g.ID, t), solver.Integer, 0, float64(dt))
			}
			if g.Variable {
				b.inst.AddVar(VarCurtail(g.ID, t), solver.Continuous, 0, cap)
			}
		}
		if !g.Thermal {
			// No on/off decision: commitment, start and shutdown are
			// identically zero.
			for t := 0; t < b.T; t++ {
				b.inst.FixVar(b.v(VarCommit(g.ID, t)), 0)
				b.inst.FixVar(b.v(VarStart(g.ID, t)), 0)
				b.inst.FixVar(b.v(VarShut(g.ID, t)), 0)
			}
		}
		if g.Resource == model.ResourcePumpedStorage {
			// Storage contributes through charge/discharge only, never as
			// ordinary dispatch.
			for t := 0; t < b.T; t++ {
				b.inst.FixVar(b.v(VarGen(g.ID, t)), 0)
			}
		}
	}
	for t := 0; t < b.T; t++ {
		b.inst.AddVar(VarNSE(t), solver.Continuous, 0, math.Inf(1))
	}
	p := b.in.Storage.PowerCapMW
	e := b.in.Storage.EnergyCapMWh()
	for t := 0; t < b.T; t++ {
		b.inst.AddVar(VarCharge(t), solver.Continuous, 0, p)
		b.inst.AddVar(VarDischarge(t), solver.Continuous, 0, p)
		b.inst.AddVar(VarSOC(t), solver.Continuous, 0, e)
		b.inst.AddVar(VarChargeMode(t), solver.Binary, 0, 1)
	}
}

func (b *builder) addObjective() {
	for _, g := range b.in.Fleet {
		mc := g.MarginalCost()
		for t := 0; t < b.T; t++ {
			b.inst.AddObjective(b.v(VarGen(g.ID, t)), mc)
			b.inst.AddObjective(b.v(VarStart(g.ID, t)), g.StartCost*g.CapacityMW)
			b.inst.AddObjective(b.v(VarShut(g.ID, t)), g.ShutdownCost*g.CapacityMW)
			if g.Variable {
				b.inst.AddObjective(b.v(VarCurtail(g.ID, t)), b.in.Config.CurtailPenalty)
			}
		}
	}
	for t := 0; t < b.T; t++ {
		b.inst.AddObjective(b.v(VarNSE(t)), b.in.Config.NSEPenalty)
	}
}

// powerBalance ties dispatch, storage exchange and non-served energy to
// demand with an equality, so any shortfall surfaces entirely as NSE.
func (b *builder) powerBalance() {
	for t := 0; t < b.T; t++ {
		terms := make([]solver.Term, 0, len(b.in.Fleet)+3)
		for _, g := range b.in.Fleet {
			terms = append(terms, solver.Term{Var: b.v(VarGen(g.ID, t)), Coef: 1})
		}
		terms = append(terms,
			solver.Term{Var: b.v(VarDischarge(t)), Coef: 1},
			solver.Term{Var: b.v(VarCharge(t)), Coef: -1},
			solver.Term{Var: b.v(VarNSE(t)), Coef: 1},
		)
		b.inst.AddConstraint(fmt.Sprintf("balance[%d]", t), terms, solver.Equal, b.in.Load[t])
	}
}

func (b *builder) capacityEnvelope() {
	for _, g := range b.in.Fleet {
		switch {
		case g.Thermal:
			floor := b.in.floor(g) * g.CapacityMW
			for t := 0; t < b.T; t++ {
				gen := b.v(VarGen(g.ID, t))
				com := b.v(VarCommit(g.ID, t))
				b.inst.AddConstraint(fmt.Sprintf("pmin[%s][%d]", g.ID, t),
					[]solver.Term{{Var: gen, Coef: 1}, {Var: com, Coef: -floor}},
					solver.GreaterEq, 0)
				b.inst.AddConstraint(fmt.Sprintf("pmax[%s][%d]", g.ID, t),
					[]solver.Term{{Var: gen, Coef: 1}, {Var: com, Coef: -g.CapacityMW}},
					solver.LessEq, 0)
			}
		case g.Variable:
			cf := b.in.VariableCF[g.ID]
			for t := 0; t < b.T; t++ {
				b.inst.AddConstraint(fmt.Sprintf("cfcap[%s][%d]", g.ID, t),
					[]solver.Term{{Var: b.v(VarGen(g.ID, t)), Coef: 1}},
					solver.LessEq, g.CapacityMW*cf[t])
			}
		}
	}
}

// curtailmentAccounting defines curtailment for variable generators as the
// gap between available potential and actual dispatch.
func (b *builder) curtailmentAccounting() {
	for _, g := range b.in.Fleet {
		if !g.Variable {
			continue
		}
		cf := b.in.VariableCF[g.ID]
		for t := 0; t < b.T; t++ {
			b.inst.AddConstraint(fmt.Sprintf("curtail[%s][%d]", g.ID, t),
				[]solver.Term{
					{Var: b.v(VarCurtail(g.ID, t)), Coef: 1},
					{Var: b.v(VarGen(g.ID, t)), Coef: 1},
				},
				solver.Equal, g.CapacityMW*cf[t])
		}
	}
}

// commitmentBookkeeping links the commitment trajectory to the start and
// shutdown indicators for every interior hour.
func (b *builder) commitmentBookkeeping() {
	for _, g := range b.in.Fleet {
		if !g.Thermal {
			continue
		}
		for t := 1; t < b.T; t++ {
			b.inst.AddConstraint(fmt.Sprintf("delta[%s][%d]", g.ID, t),
				[]solver.Term{
					{Var: b.v(VarCommit(g.ID, t)), Coef: 1},
					{Var: b.v(VarCommit(g.ID, t-1)), Coef: -1},
					{Var: b.v(VarStart(g.ID, t)), Coef: -1},
					{Var: b.v(VarShut(g.ID, t)), Coef: 1},
				},
				solver.Equal, 0)
		}
	}
}

// minUpTime keeps a unit committed while any start lies within its minimum
// up-time window, as a sliding-window sum of recent starts.
func (b *builder) minUpTime() {
	for _, g := range b.in.Fleet {
		if !g.Thermal {
			continue
		}
		for t := 0; t < b.T; t++ {
			lo := t - g.MinUpHours + 1
			if lo < 0 {
				lo = 0
			}
			terms := make([]solver.Term, 0, t-lo+2)
			for tau := lo; tau <= t; tau++ {
				terms = append(terms, solver.Term{Var: b.v(VarStart(g.ID, tau)), Coef: 1})
			}
			terms = append(terms, solver.Term{Var: b.v(VarCommit(g.ID, t)), Coef: -1})
			b.inst.AddConstraint(fmt.Sprintf("uptime[%s][%d]", g.ID, t), terms, solver.LessEq, 0)
		}
	}
}

// minDownTime keeps a unit offline while any shutdown lies within its
// required down-time window. The span is the deadtime assignment for
// critical reactors and the configured default otherwise.
func (b *builder) minDownTime() {
	for _, g := range b.in.Fleet {
		if !g.Thermal {
			continue
		}
		dt := b.in.downtime(g)
		if dt <= 0 {
			continue
		}
		for t := 0; t < b.T; t++ {
			lo := t - dt + 1
			if lo < 0 {
				lo = 0
			}
			terms := make([]solver.Term, 0, t-lo+2)
			for tau := lo; tau <= t; tau++ {
				terms = append(terms, solver.Term{Var: b.v(VarShut(g.ID, tau)), Coef: 1})
			}
			terms = append(terms, solver.Term{Var: b.v(VarCommit(g.ID, t)), Coef: 1})
			b.inst.AddConstraint(fmt.Sprintf("downtime[%s][%d]", g.ID, t), terms, solver.LessEq, 1)
		}
	}
}

// deadtimeDebits books deadtime_requirement x shutdown per hour. The value
// feeds the next window's handoff and is not otherwise constrained.
func (b *builder) deadtimeDebits() {
	for _, g := range b.in.Fleet {
		if !g.Thermal {
			continue
		}
		dt := float64(b.in.downtime(g))
		for t := 0; t < b.T; t++ {
			b.inst.AddConstraint(fmt.Sprintf("ddebit[%s][%d]", g.ID, t),
				[]solver.Term{
					{Var: b.v(VarDebit(g.ID, t)), Coef: 1},
					{Var: b.v(VarShut(g.ID, t)), Coef: -dt},
				},
				solver.Equal, 0)
		}
	}
}
