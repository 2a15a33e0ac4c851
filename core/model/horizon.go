package model

import "fmt"

// Horizon is the ordered, contiguous sequence of hour indices making up one
// optimization window. Consecutive windows need not be aligned in calendar
// time but hours within a window always are.
type Horizon []int

// NewHorizon builds a horizon of length hours starting at the given index.
func NewHorizon(start, length int) Horizon {
	h := make(Horizon, length)
	for i := range h {
		h[i] = start + i
	}
	return h
}

// Validate rejects empty or non-contiguous horizons.
func (h Horizon) Validate() error {
	if len(h) == 0 {
		return fmt.Errorf("horizon is empty")
	}
	for i := 1; i < len(h); i++ {
		if h[i] != h[i-1]+1 {
			return fmt.Errorf("horizon is not contiguous at position %d", i)
		}
	}
	return nil
}
