package uc

import "fmt"

// Config holds the builder's tunable constants. RampTolerance and
// DefaultDowntime are deliberately configuration rather than literals; their
// defaults match the historical values.
type Config struct {
	// NSEPenalty is the $/MWh cost of non-served energy.
	NSEPenalty float64 `json:"nse_penalty"`
	// CurtailPenalty is the $/MWh cost of renewable curtailment. Zero by
	// default: curtailment is tracked but not penalized.
	CurtailPenalty float64 `json:"curtail_penalty"`
	// BigM is the large constant used to linearize ramp-activation logic.
	BigM float64 `json:"big_m"`
	// RampTolerance is the MW dead band below which an hour-over-hour
	// dispatch change does not count as a ramp.
	RampTolerance float64 `json:"ramp_tolerance"`
	// StableSpan is the number of hours a unit is held stable after a
	// ramp-down episode ends.
	StableSpan int `json:"stable_span"`
	// DefaultDowntime is the minimum down-time, in hours, for thermal units
	// with no physics-derived deadtime assignment.
	DefaultDowntime int `json:"default_downtime"`
}

// DefaultConfig returns the builder defaults.
func DefaultConfig() Config {
	return Config{
		NSEPenalty:      9000,
		CurtailPenalty:  0,
		BigM:            1e6,
		RampTolerance:   1e-3,
		StableSpan:      4,
		DefaultDowntime: 8,
	}
}

// Validate rejects unusable builder settings.
func (c Config) Validate() error {
	if c.NSEPenalty <= 0 {
		return fmt.Errorf("nse_penalty must be positive")
	}
	if c.BigM <= 0 {
		return fmt.Errorf("big_m must be positive")
	}
	if c.RampTolerance < 0 {
		return fmt.Errorf("ramp_tolerance must not be negative")
	}
	if c.StableSpan < 0 {
		return fmt.Errorf("stable_span must not be negative")
	}
	if c.DefaultDowntime < 0 {
		return fmt.Errorf("default_downtime must not be negative")
	}
	return nil
}
