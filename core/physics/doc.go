// Package physics advances each reactor's depletion state across window
// boundaries: burnup-driven keff depletion, reactivity-limit minimum-power
// floors, table-driven deadtime assignment and forced-outage scheduling
// with refueling countdowns. The per-window update is what couples
// consecutive unit-commitment instances.
package physics
