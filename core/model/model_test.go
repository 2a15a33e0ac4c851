package model

import (
	"math"
	"testing"
)

func TestHorizon(t *testing.T) {
	h := NewHorizon(25, 4)
	if len(h) != 4 || h[0] != 25 || h[3] != 28 {
		t.Fatalf("horizon: %v", h)
	}
	if err := h.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := (Horizon{}).Validate(); err == nil {
		t.Fatalf("empty horizon accepted")
	}
	if err := (Horizon{1, 3}).Validate(); err == nil {
		t.Fatalf("non-contiguous horizon accepted")
	}
}

func TestGeneratorValidate(t *testing.T) {
	good := Generator{
		ID: "n1", Resource: ResourceAP1000, CapacityMW: 1000,
		MinPower: 0.4, MinUpHours: 8, Thermal: true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid generator rejected: %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Generator)
	}{
		{"missing id", func(g *Generator) { g.ID = "" }},
		{"unknown resource", func(g *Generator) { g.Resource = "fusion" }},
		{"zero capacity", func(g *Generator) { g.CapacityMW = 0 }},
		{"min power out of range", func(g *Generator) { g.MinPower = 1.5 }},
		{"thermal without up-time", func(g *Generator) { g.MinUpHours = 0 }},
		{"thermal and variable", func(g *Generator) { g.Variable = true }},
	}
	for _, c := range cases {
		g := good
		c.mut(&g)
		if err := g.Validate(); err == nil {
			t.Fatalf("%s: accepted", c.name)
		}
	}
}

func TestFleetValidateDuplicates(t *testing.T) {
	g := Generator{ID: "n1", Resource: ResourceAP1000, CapacityMW: 1000, MinUpHours: 8, Thermal: true}
	if err := (Fleet{g, g}).Validate(); err == nil {
		t.Fatalf("duplicate id accepted")
	}
}

func TestFleetReactors(t *testing.T) {
	f := Fleet{
		{ID: "n1", Resource: ResourceAP1000},
		{ID: "n2", Resource: ResourceAP300},
		{ID: "c1", Resource: ResourceThermal},
		{ID: "w1", Resource: ResourceWind},
	}
	r := f.Reactors()
	if len(r) != 2 || r[0].ID != "n1" || r[1].ID != "n2" {
		t.Fatalf("reactors: %v", r)
	}
	if _, ok := f.ByID("c1"); !ok {
		t.Fatalf("ByID miss")
	}
	if _, ok := f.ByID("x"); ok {
		t.Fatalf("ByID false hit")
	}
}

func TestMarginalCost(t *testing.T) {
	g := Generator{HeatRate: 10, FuelCost: 0.7, VOMCost: 2.3}
	if got := g.MarginalCost(); math.Abs(got-9.3) > 1e-12 {
		t.Fatalf("marginal cost = %g, want 9.3", got)
	}
}

func TestReactivityOf(t *testing.T) {
	if ReactivityOf(0) != 0 {
		t.Fatalf("zero keff must map to zero reactivity")
	}
	got := ReactivityOf(1.25)
	want := 1e5 * 0.25 / 1.25
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("reactivity = %g, want %g", got, want)
	}
	fresh := NewPhysicsState()
	if fresh.Keff != InitialKeff || fresh.Reactivity != ReactivityOf(InitialKeff) {
		t.Fatalf("fresh state: %+v", fresh)
	}
}

func TestOutageCountdown(t *testing.T) {
	active := OutageCountdown{}
	if active.Pending() || active.ResetDue() {
		t.Fatalf("active countdown misreports")
	}
	pending := OutageCountdown{Terminated: true, SpanRemaining: 3}
	if !pending.Pending() || pending.ResetDue() {
		t.Fatalf("pending countdown misreports")
	}
	due := OutageCountdown{Terminated: true}
	if due.Pending() || !due.ResetDue() {
		t.Fatalf("due countdown misreports")
	}
}

func TestStorageEnergyCap(t *testing.T) {
	p := StorageParams{PowerCapMW: 500, DurationHours: 8, Efficiency: 0.84}
	if p.EnergyCapMWh() != 4000 {
		t.Fatalf("energy cap = %g", p.EnergyCapMWh())
	}
}
