package codegen

import (
	"strings"
)

// Flags is the runtime status byte, rpn_flags. Each bit is set by the
// runtime routine that recovered from the condition and stays set for the
// rest of the program.
type Flags uint8

// Flag bit numbers.
const (
	FLAG_OVERFLOW  = 0 // Push onto a full stack; the value was dropped.
	FLAG_UNDERFLOW = 1 // Pop from an empty stack; 0 was used.
	FLAG_DIVZERO   = 2 // Division or modulo by zero.
	FLAG_MEMORY    = 3 // MEM read before it was written.
	FLAG_HISTORY   = 4 // RES index outside the history.
	FLAG_BALANCE   = 5 // A line ended without exactly one cell.
)

var flagNames = []string{
	FLAG_OVERFLOW:  "overflow",
	FLAG_UNDERFLOW: "underflow",
	FLAG_DIVZERO:   "divzero",
	FLAG_MEMORY:    "memory",
	FLAG_HISTORY:   "history",
	FLAG_BALANCE:   "balance",
}

// Has returns true if the flag bit is set.
func (flags Flags) Has(bit int) bool {
	return flags&(1<<bit) != 0
}

func (flags Flags) String() string {
	var names []string
	for bit, name := range flagNames {
		if flags.Has(bit) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
