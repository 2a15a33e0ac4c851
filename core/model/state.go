package model

// Carryover is the per-generator record transferred across a window
// boundary. It is produced from window n's optimized assignment and consumed
// as a boundary constraint by window n+1, then replaced.
type Carryover struct {
	Commit     bool    // commitment at the final hour of the prior window
	SOC        float64 // storage state of charge to transfer (storage unit only)
	Terminated bool    // reactor is mid-refuel and unavailable
}

// PhysicsState is the depletion state of one reactor. While a reactor is
// active Keff only decreases; it is reset to InitialKeff exactly when a
// scheduled outage countdown expires.
type PhysicsState struct {
	Keff       float64
	Reactivity float64 // 1e5*(keff-1)/keff, the normalized lookup key
	Alpha      float64 // window utilization, energy / (capacity * hours)
	P0         float64 // minimum-power floor derived from the reactivity limits
	NearestK   float64 // tabulated operating point matched this window
}

// InitialKeff is the multiplication factor of a freshly refueled core.
const InitialKeff = 1.205

// NewPhysicsState returns the state of a fresh core.
func NewPhysicsState() PhysicsState {
	return PhysicsState{
		Keff:       InitialKeff,
		Reactivity: ReactivityOf(InitialKeff),
	}
}

// ReactivityOf converts a multiplication factor to reactivity in pcm.
func ReactivityOf(keff float64) float64 {
	if keff == 0 {
		return 0
	}
	return 1e5 * (keff - 1) / keff
}

// OutageCountdown tracks a scheduled refueling outage for one reactor.
// Terminated=false is the active state; Terminated=true with SpanRemaining>0
// is a pending outage counting down; Terminated=true with SpanRemaining==0
// triggers a physics reset and returns the reactor to active. At most one
// outage may be pending per reactor.
type OutageCountdown struct {
	Terminated    bool
	SpanRemaining int
}

// Pending reports whether an outage is currently scheduled.
func (c OutageCountdown) Pending() bool { return c.Terminated && c.SpanRemaining > 0 }

// ResetDue reports whether the countdown has expired and the physics state
// must be reset.
func (c OutageCountdown) ResetDue() bool { return c.Terminated && c.SpanRemaining == 0 }

// StorageParams describes the single aggregate pumped-storage unit.
type StorageParams struct {
	PowerCapMW    float64 `json:"power_cap_mw"`
	DurationHours float64 `json:"duration_hours"`
	Efficiency    float64 `json:"efficiency"` // one-way round-trip efficiency
}

// EnergyCapMWh returns the reservoir energy capacity.
func (p StorageParams) EnergyCapMWh() float64 { return p.PowerCapMW * p.DurationHours }
