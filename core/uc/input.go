package uc

import (
	"errors"
	"fmt"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
)

// ErrConfig marks window-construction failures caused by incomplete input
// data, as opposed to solver outcomes or internal-consistency errors.
var ErrConfig = errors.New("uc: configuration error")

// BuildInput carries everything one window's instance is assembled from.
// All fields are read-only to the builder.
type BuildInput struct {
	Fleet   model.Fleet
	Horizon model.Horizon

	// Load is the demand in MW for each hour of the horizon.
	Load []float64
	// VariableCF maps each variable generator to its per-hour capacity
	// factors, aligned with the horizon.
	VariableCF map[string][]float64

	// Deadtime is the physics-derived minimum down-time, in hours, per
	// reactor, produced by the previous window's physics update.
	Deadtime map[string]int
	// RemainingDowntime is the mandatory offline time, in hours, still owed
	// from a shutdown in a prior window.
	RemainingDowntime map[string]int
	// Carryover holds the prior window's boundary record per generator.
	Carryover map[string]model.Carryover
	// MinPowerFloor overrides a generator's static minimum-power fraction
	// with the physics-derived floor p0, where present.
	MinPowerFloor map[string]float64

	Storage     model.StorageParams
	FirstWindow bool
	// CriticalReactors identifies the reactors whose down-time is governed
	// by the deadtime assignment rather than the conventional default.
	CriticalReactors map[string]bool

	Config Config
}

// validate enforces the builder's input contract: complete fleet data and
// full horizon coverage of the load and capacity-factor tables.
func (in BuildInput) validate() error {
	if err := in.Config.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := in.Fleet.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := in.Horizon.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if len(in.Load) != len(in.Horizon) {
		return fmt.Errorf("%w: load covers %d hours, horizon has %d", ErrConfig, len(in.Load), len(in.Horizon))
	}
	for _, g := range in.Fleet {
		if !g.Variable {
			continue
		}
		cf, ok := in.VariableCF[g.ID]
		if !ok {
			return fmt.Errorf("%w: no capacity-factor profile for %s", ErrConfig, g.ID)
		}
		if len(cf) != len(in.Horizon) {
			return fmt.Errorf("%w: capacity-factor profile for %s covers %d hours, horizon has %d",
				ErrConfig, g.ID, len(cf), len(in.Horizon))
		}
	}
	if in.Storage.PowerCapMW > 0 {
		if in.Storage.Efficiency <= 0 || in.Storage.Efficiency > 1 {
			return fmt.Errorf("%w: storage efficiency must be in (0,1]", ErrConfig)
		}
		if in.Storage.DurationHours <= 0 {
			return fmt.Errorf("%w: storage duration must be positive", ErrConfig)
		}
	}
	return nil
}

// floor returns the effective minimum-power fraction for a generator.
func (in BuildInput) floor(g model.Generator) float64 {
	if f, ok := in.MinPowerFloor[g.ID]; ok {
		return f
	}
	return g.MinPower
}

// downtime returns the required minimum down-time for a thermal generator:
// the deadtime assignment for critical reactors, the configured default
// otherwise.
func (in BuildInput) downtime(g model.Generator) int {
	if in.CriticalReactors[g.ID] {
		if d, ok := in.Deadtime[g.ID]; ok {
			return d
		}
	}
	return in.Config.DefaultDowntime
}
