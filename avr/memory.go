package avr

import (
	"fmt"
)

// Data space map of an ATmega328P-class part.
const (
	IO_START = 0x0020 // First memory mapped I/O register.
	RAMSTART = 0x0100 // First byte of SRAM.
	RAMEND   = 0x08FF // Last byte of SRAM.
	FLASHEND = 0x3FFF // Last program word.
)

// I/O register addresses, as used by in and out.
const (
	IO_SPL  = 0x3D // Stack pointer, low byte.
	IO_SPH  = 0x3E // Stack pointer, high byte.
	IO_SREG = 0x3F // Status register.
)

// Predefined system equates.
var sysEquate = map[string]int{
	"RAMSTART": RAMSTART,
	"RAMEND":   RAMEND,
	"FLASHEND": FLASHEND,
	"SPL":      IO_SPL,
	"SPH":      IO_SPH,
	"SREG":     IO_SREG,
}

// SysEquates returns the predefined equates as assembler source, for
// listings that want to spell them out.
func SysEquates() (lines []string) {
	for _, name := range []string{"RAMEND", "SPL", "SPH", "SREG"} {
		lines = append(lines, fmt.Sprintf(".equ %v, %#04x", name, sysEquate[name]))
	}
	return
}
