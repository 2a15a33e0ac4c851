// Package checkpoint persists the rolling state between windows as a CSV
// snapshot, one row per generator in fleet order. Reloading a snapshot
// reproduces ordering and values exactly; it is the sole channel of
// continuity when a run is resumed.
package checkpoint

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/rolling"
)

var header = []string{
	"r_id", "reactor", "window", "remaining_downtime",
	"commit", "soc_transfer", "terminated",
	"keff", "reactivity", "alpha", "p0", "nearest_k",
	"deadtime", "outage_terminated", "span_remaining",
}

func ff(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func fb(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// Save writes the store to w. Generators absent from a store map leave the
// corresponding columns empty, so absence itself survives a round trip: a
// reactor with no deadtime assignment stays without one after a resume
// instead of acquiring a zero-valued entry.
func Save(w io.Writer, fleet model.Fleet, st rolling.Store) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, g := range fleet {
		rec := make([]string, len(header))
		ps, reactor := st.Physics[g.ID]
		rec[0] = g.ID
		rec[1] = fb(reactor)
		rec[2] = strconv.Itoa(st.Window)
		rec[3] = strconv.Itoa(st.RemainingDowntime[g.ID])
		if carry, ok := st.Carryover[g.ID]; ok {
			rec[4] = fb(carry.Commit)
			rec[5] = ff(carry.SOC)
			rec[6] = fb(carry.Terminated)
		}
		if reactor {
			rec[7] = ff(ps.Keff)
			rec[8] = ff(ps.Reactivity)
			rec[9] = ff(ps.Alpha)
			rec[10] = ff(ps.P0)
			rec[11] = ff(ps.NearestK)
		}
		if dt, ok := st.Deadtime[g.ID]; ok {
			rec[12] = strconv.Itoa(dt)
		}
		if cd, ok := st.Countdowns[g.ID]; ok {
			rec[13] = fb(cd.Terminated)
			rec[14] = strconv.Itoa(cd.SpanRemaining)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load reads a snapshot written by Save. Rows must appear in fleet order.
func Load(r io.Reader, fleet model.Fleet) (rolling.Store, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return rolling.Store{}, err
	}
	if len(rows) == 0 || len(rows)-1 != len(fleet) {
		return rolling.Store{}, fmt.Errorf("checkpoint: %d rows, fleet has %d generators", len(rows)-1, len(fleet))
	}
	st := rolling.Store{
		RemainingDowntime: make(map[string]int),
		Carryover:         make(map[string]model.Carryover),
		Physics:           make(map[string]model.PhysicsState),
		Deadtime:          make(map[string]int),
		Countdowns:        make(map[string]model.OutageCountdown),
	}
	for i, g := range fleet {
		rec := rows[i+1]
		if len(rec) != len(header) {
			return rolling.Store{}, fmt.Errorf("checkpoint: row %d has %d fields, want %d", i+1, len(rec), len(header))
		}
		if rec[0] != g.ID {
			return rolling.Store{}, fmt.Errorf("checkpoint: row %d is %s, fleet order expects %s", i+1, rec[0], g.ID)
		}
		var perr error
		pf := func(col int) float64 {
			v, err := strconv.ParseFloat(rec[col], 64)
			if err != nil && perr == nil {
				perr = fmt.Errorf("checkpoint: row %d col %s: %w", i+1, header[col], err)
			}
			return v
		}
		pi := func(col int) int {
			v, err := strconv.Atoi(rec[col])
			if err != nil && perr == nil {
				perr = fmt.Errorf("checkpoint: row %d col %s: %w", i+1, header[col], err)
			}
			return v
		}
		st.Window = pi(2)
		if rd := pi(3); rd > 0 {
			st.RemainingDowntime[g.ID] = rd
		}
		// Empty columns mean the generator had no entry when the snapshot
		// was taken; skipping them keeps the maps presence-identical.
		if rec[4] != "" {
			st.Carryover[g.ID] = model.Carryover{
				Commit:     rec[4] == "1",
				SOC:        pf(5),
				Terminated: rec[6] == "1",
			}
		}
		if rec[1] == "1" {
			st.Physics[g.ID] = model.PhysicsState{
				Keff:       pf(7),
				Reactivity: pf(8),
				Alpha:      pf(9),
				P0:         pf(10),
				NearestK:   pf(11),
			}
		}
		if rec[12] != "" {
			st.Deadtime[g.ID] = pi(12)
		}
		if rec[13] != "" {
			st.Countdowns[g.ID] = model.OutageCountdown{
				Terminated:    rec[13] == "1",
				SpanRemaining: pi(14),
			}
		}
		if perr != nil {
			return rolling.Store{}, perr
		}
	}
	return st, nil
}

// Manager stores one snapshot per window under Dir, deleting the previous
// window's snapshot on success to bound disk use.
type Manager struct {
	Dir string
}

func (m Manager) path(window int) string {
	return filepath.Join(m.Dir, fmt.Sprintf("checkpoint_%d", window), "state.csv")
}

// Save persists the store for its window and removes the prior checkpoint.
func (m Manager) Save(fleet model.Fleet, st rolling.Store) error {
	p := m.path(st.Window)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if err := Save(f, fleet, st); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if st.Window > 0 {
		_ = os.RemoveAll(filepath.Dir(m.path(st.Window - 1)))
	}
	return nil
}

// Load restores the store saved for the given window.
func (m Manager) Load(window int, fleet model.Fleet) (rolling.Store, error) {
	f, err := os.Open(m.path(window))
	if err != nil {
		return rolling.Store{}, err
	}
	defer f.Close()
	return Load(f, fleet)
}
