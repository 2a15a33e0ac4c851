// Package uc assembles one rolling-horizon unit-commitment instance: the
// decision variables, linear objective and constraint set scheduling a fleet
// of thermal units, reactors, renewables and a pumped-storage unit over a
// single window. Cross-window coupling (commitment carryover, remaining
// downtime, reactor deadtime requirements, storage transfer) enters through
// BuildInput; the assembled instance is handed to an external solver.
package uc
