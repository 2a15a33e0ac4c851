package rolling

import (
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
)

// Store is the record of cross-window state threaded from window n to
// window n+1: commitment and storage carryover, remaining downtime,
// reactor physics state, deadtime assignments and outage countdowns.
// It is single-writer; the pipeline replaces it wholesale each window.
type Store struct {
	Window            int
	RemainingDowntime map[string]int
	Carryover         map[string]model.Carryover
	Physics           map[string]model.PhysicsState
	Deadtime          map[string]int
	Countdowns        map[string]model.OutageCountdown
}

// NewStore seeds the state for a fresh rolling run: every reactor starts
// with a fresh core, nothing is owed and nothing is carried over.
func NewStore(fleet model.Fleet, reactors map[string]bool) Store {
	s := Store{
		RemainingDowntime: make(map[string]int),
		Carryover:         make(map[string]model.Carryover),
		Physics:           make(map[string]model.PhysicsState),
		Deadtime:          make(map[string]int),
		Countdowns:        make(map[string]model.OutageCountdown),
	}
	for _, g := range fleet {
		if reactors[g.ID] {
			s.Physics[g.ID] = model.NewPhysicsState()
			s.Countdowns[g.ID] = model.OutageCountdown{}
		}
	}
	return s
}

// Clone returns a deep copy. The pipeline hands copies between stages so no
// stage aliases another's state.
func (s Store) Clone() Store {
	out := Store{
		Window:            s.Window,
		RemainingDowntime: make(map[string]int, len(s.RemainingDowntime)),
		Carryover:         make(map[string]model.Carryover, len(s.Carryover)),
		Physics:           make(map[string]model.PhysicsState, len(s.Physics)),
		Deadtime:          make(map[string]int, len(s.Deadtime)),
		Countdowns:        make(map[string]model.OutageCountdown, len(s.Countdowns)),
	}
	for k, v := range s.RemainingDowntime {
		out.RemainingDowntime[k] = v
	}
	for k, v := range s.Carryover {
		out.Carryover[k] = v
	}
	for k, v := range s.Physics {
		out.Physics[k] = v
	}
	for k, v := range s.Deadtime {
		out.Deadtime[k] = v
	}
	for k, v := range s.Countdowns {
		out.Countdowns[k] = v
	}
	return out
}
