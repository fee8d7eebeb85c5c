package points

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrMalformed is returned when a persisted points blob cannot be decoded.
var ErrMalformed = errors.New("malformed points blob")

// Ledger is the learner's point total. It only grows.
// Not safe for concurrent use; callers serialize access.
type Ledger struct {
	total int
}

// Total returns the current point total.
func (l *Ledger) Total() int {
	return l.total
}

// Add credits amount and reports whether the total changed.
// Non-positive amounts and amounts that would overflow are refused.
func (l *Ledger) Add(amount int) bool {
	if !l.Fits(amount) {
		return false
	}
	l.total += amount
	return true
}

// Fits reports whether amount is positive and can be credited without
// overflowing the total.
func (l *Ledger) Fits(amount int) bool {
	return amount > 0 && amount <= math.MaxInt-l.total
}

// Restore sets the total after load. Negative values clamp to zero.
func (l *Ledger) Restore(total int) {
	l.total = max(total, 0)
}

// Encode serializes a total as a bare JSON integer.
func Encode(total int) ([]byte, error) {
	data, err := json.Marshal(total)
	if err != nil {
		return nil, fmt.Errorf("encode points: %w", err)
	}
	return data, nil
}

// Decode parses a points blob.
func Decode(data []byte) (int, error) {
	var total int
	if err := json.Unmarshal(data, &total); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if total < 0 {
		return 0, fmt.Errorf("%w: negative total %d", ErrMalformed, total)
	}
	return total, nil
}
