// Package codes models the sequential numeric ranges that labelforge turns
// into barcodes.
package codes

import (
	"fmt"

	"github.com/labelforge/labelforge/pkg/errors"
)

// MaxCount is the largest number of codes a single batch may contain.
const MaxCount = 5000

// Range is a contiguous run of sequential numeric codes.
type Range struct {
	Start int64 // first code in the range
	Count int   // number of codes
}

// Validate checks the range bounds. Count must be in [1, MaxCount] and the
// start must be non-negative.
func (r Range) Validate() error {
	if r.Count < 1 || r.Count > MaxCount {
		return errors.New(errors.ErrCodeInvalidRange, "count must be between 1 and %d, got %d", MaxCount, r.Count)
	}
	if r.Start < 0 {
		return errors.New(errors.ErrCodeInvalidRange, "start must be non-negative, got %d", r.Start)
	}
	return nil
}

// Last returns the final code in the range.
func (r Range) Last() int64 {
	return r.Start + int64(r.Count) - 1
}

// Expand materializes the range as a slice of codes in ascending order.
func (r Range) Expand() []int64 {
	out := make([]int64, r.Count)
	for i := range out {
		out[i] = r.Start + int64(i)
	}
	return out
}

// String formats the range the way the API reports it, e.g.
// "253310001 - 253310010".
func (r Range) String() string {
	return fmt.Sprintf("%d - %d", r.Start, r.Last())
}
