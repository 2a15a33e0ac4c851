package model

import "fmt"

// ResourceType identifies the technology of a generator.
type ResourceType string

const (
	ResourceAP1000        ResourceType = "ap1000"
	ResourceAP300         ResourceType = "ap300"
	ResourceThermal       ResourceType = "other_thermal"
	ResourceWind          ResourceType = "onshore_wind_turbine"
	ResourceSolar         ResourceType = "solar_photovoltaic"
	ResourcePumpedStorage ResourceType = "pumped_storage"
)

// IsReactor reports whether the resource is a nuclear reactor family.
func (r ResourceType) IsReactor() bool {
	return r == ResourceAP1000 || r == ResourceAP300
}

// Valid reports whether the resource is a known technology.
func (r ResourceType) Valid() bool {
	switch r {
	case ResourceAP1000, ResourceAP300, ResourceThermal, ResourceWind, ResourceSolar, ResourcePumpedStorage:
		return true
	}
	return false
}

// Generator describes the static attributes of one generating unit.
// Attributes are immutable for the life of a rolling run.
type Generator struct {
	ID         string       // unique, stable across windows
	Resource   ResourceType
	CapacityMW float64 // existing installed capacity in MW

	MinPower float64 // minimum stable output as a fraction of capacity
	RampUp   float64 // hourly ramp-up limit as a fraction of capacity
	RampDown float64 // hourly ramp-down limit as a fraction of capacity

	HeatRate     float64 // MMBtu per MWh
	FuelCost     float64 // $ per MMBtu
	VOMCost      float64 // variable O&M, $ per MWh
	StartCost    float64 // $ per MW of capacity per start
	ShutdownCost float64 // $ per MW of capacity per shutdown

	MinUpHours int  // minimum committed hours after a start
	Thermal    bool // true for units with an on/off commitment decision
	Variable   bool // true for renewables dispatched against a capacity factor
}

// MarginalCost returns the variable cost of one MWh of dispatch.
func (g Generator) MarginalCost() float64 {
	return g.HeatRate*g.FuelCost + g.VOMCost
}

// Validate checks that the generator carries every required attribute.
func (g Generator) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("generator missing r_id")
	}
	if !g.Resource.Valid() {
		return fmt.Errorf("generator %s: unknown resource %q", g.ID, g.Resource)
	}
	if g.CapacityMW <= 0 {
		return fmt.Errorf("generator %s: capacity must be positive", g.ID)
	}
	if g.MinPower < 0 || g.MinPower > 1 {
		return fmt.Errorf("generator %s: min_power must be in [0,1]", g.ID)
	}
	if g.Thermal && g.MinUpHours <= 0 {
		return fmt.Errorf("generator %s: thermal unit requires a positive minimum up-time", g.ID)
	}
	if g.Variable && g.Thermal {
		return fmt.Errorf("generator %s: a unit cannot be both thermal and variable", g.ID)
	}
	return nil
}

// Fleet is an ordered collection of generators. Order is significant: it
// defines row order in every snapshot and report.
type Fleet []Generator

// ByID returns the generator with the given identity.
func (f Fleet) ByID(id string) (Generator, bool) {
	for _, g := range f {
		if g.ID == id {
			return g, true
		}
	}
	return Generator{}, false
}

// Reactors returns the subset of the fleet that is a nuclear reactor.
func (f Fleet) Reactors() Fleet {
	var out Fleet
	for _, g := range f {
		if g.Resource.IsReactor() {
			out = append(out, g)
		}
	}
	return out
}

// Validate validates every generator and rejects duplicate identities.
func (f Fleet) Validate() error {
	seen := make(map[string]bool, len(f))
	for _, g := range f {
		if err := g.Validate(); err != nil {
			return err
		}
		if seen[g.ID] {
			return fmt.Errorf("duplicate generator id %s", g.ID)
		}
		seen[g.ID] = true
	}
	return nil
}
