package rpn

import (
	"fmt"
)

// Cell is one evaluation stack entry. A cell with a non-nil Err is the
// sentinel zero pushed while recovering from that error.
type Cell struct {
	Value float64
	Raw   float64 // Value before rounding.
	Err   error
}

// Number makes a numeric cell, rounded to the stack precision.
func Number(value float64) Cell {
	return Cell{Value: Round(value), Raw: value}
}

// Sentinel makes the recovery cell for an error.
func Sentinel(err error) Cell {
	return Cell{Err: err}
}

// Numeric returns true if the cell holds a computed value.
func (cell Cell) Numeric() bool {
	return cell.Err == nil
}

func (cell Cell) String() string {
	if cell.Err != nil {
		return fmt.Sprintf("0!(%v)", cell.Err)
	}
	return fmt.Sprintf("%v", cell.Value)
}
