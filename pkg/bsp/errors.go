package bsp

import (
	"errors"
	"fmt"
)

// Decode errors.
var (
	// ErrFormat reports a missing signature or structurally inconsistent tables.
	ErrFormat = errors.New("bsp: invalid format")
	// ErrIndex reports a cross-reference outside its target table.
	ErrIndex = errors.New("bsp: index out of range")
)

// IndexError describes an out-of-range cross-reference.
type IndexError struct {
	Table string // Table being indexed
	Index int    // Offending index
	Len   int    // Table length
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("bsp: %s index %d out of range [0, %d)", e.Table, e.Index, e.Len)
}

// Is makes errors.Is(err, ErrIndex) match any *IndexError.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndex
}
