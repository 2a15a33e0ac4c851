package metrics

import "time"

// WindowResult summarizes one solved optimization window for observability
// sinks.
type WindowResult struct {
	RunID            string
	Window           int
	Status           string
	Objective        float64
	NonServedMWh     float64
	CurtailedMWh     float64
	OutagesScheduled int
	SolveSeconds     float64
	Time             time.Time
}

// Sink records window results. Implementations must tolerate being called
// once per window from a single goroutine.
type Sink interface {
	RecordWindowResult(res WindowResult) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordWindowResult(WindowResult) error { return nil }

// MultiSink fans records out to multiple sinks, returning the first error
// encountered.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) RecordWindowResult(res WindowResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordWindowResult(res); err != nil {
			return err
		}
	}
	return nil
}
