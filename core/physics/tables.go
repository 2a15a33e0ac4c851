package physics

import (
	"sort"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
)

// DeadtimePoint is one tabulated operating point: a multiplication factor
// and the post-shutdown downtime it requires.
type DeadtimePoint struct {
	K             float64
	DowntimeHours int
}

// DeadtimeTable maps a reactor family to its sorted deadtime breakpoints.
type DeadtimeTable struct {
	families map[model.ResourceType][]DeadtimePoint
}

// NewDeadtimeTable builds a table from per-family points. Points are copied
// and sorted ascending by K.
func NewDeadtimeTable(families map[model.ResourceType][]DeadtimePoint) DeadtimeTable {
	t := DeadtimeTable{families: make(map[model.ResourceType][]DeadtimePoint, len(families))}
	for res, pts := range families {
		cp := make([]DeadtimePoint, len(pts))
		copy(cp, pts)
		sort.Slice(cp, func(i, j int) bool { return cp[i].K < cp[j].K })
		t.families[res] = cp
	}
	return t
}

// Has reports whether the family is tabulated at all.
func (t DeadtimeTable) Has(res model.ResourceType) bool {
	return len(t.families[res]) > 0
}

// Nearest returns the greatest breakpoint not exceeding keff; exact
// equality counts as not exceeding. When keff has depleted below every
// breakpoint it returns the lowest breakpoint and false: the caller must
// treat that as the forced-outage trigger, not as a normal match.
func (t DeadtimeTable) Nearest(res model.ResourceType, keff float64) (DeadtimePoint, bool) {
	pts := t.families[res]
	if len(pts) == 0 {
		return DeadtimePoint{}, false
	}
	// First index with K > keff; the match is the point before it.
	i := sort.Search(len(pts), func(i int) bool { return pts[i].K > keff })
	if i == 0 {
		return pts[0], false
	}
	return pts[i-1], true
}

// LimitPoint is one row of a family's reactivity-limit table: above
// MaxReactivityXe the unit may run down to the power fraction P0.
type LimitPoint struct {
	MaxReactivityXe float64
	P0              float64
}

// ReactivityLimitTable maps a reactor family to its sorted reactivity
// limits.
type ReactivityLimitTable struct {
	families map[model.ResourceType][]LimitPoint
}

// NewReactivityLimitTable builds a table from per-family limit points,
// copied and sorted ascending by MaxReactivityXe.
func NewReactivityLimitTable(families map[model.ResourceType][]LimitPoint) ReactivityLimitTable {
	t := ReactivityLimitTable{families: make(map[model.ResourceType][]LimitPoint, len(families))}
	for res, pts := range families {
		cp := make([]LimitPoint, len(pts))
		copy(cp, pts)
		sort.Slice(cp, func(i, j int) bool { return cp[i].MaxReactivityXe < cp[j].MaxReactivityXe })
		t.families[res] = cp
	}
	return t
}

// Floor returns the minimum-power floor for the given reactivity: the P0 of
// the tightest breakpoint the reactivity has reached, i.e. the greatest
// MaxReactivityXe with reactivity - MaxReactivityXe >= 0. A reactivity
// below every breakpoint, or an untabulated family, yields the fully
// restrictive floor of 1.
func (t ReactivityLimitTable) Floor(res model.ResourceType, reactivity float64) float64 {
	pts := t.families[res]
	if len(pts) == 0 {
		return 1
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].MaxReactivityXe > reactivity })
	if i == 0 {
		return 1
	}
	return pts[i-1].P0
}
