// Package avr implements an assembler and an instruction-level CPU for the
// subset of the 8-bit AVR instruction set used by rpnc generated listings.
//
// The CPU has 32 byte-wide registers (r0-r31) with the X, Y and Z pointer
// pairs at r27:r26, r29:r28 and r31:r30, a status register with the C, Z,
// N, V and S flags, a word-indexed program counter, and a data space where
// the register file, the I/O registers and SRAM share one address map. The
// hardware call stack lives in SRAM and grows down from RAMEND.
//
// The assembler accepts gas-flavoured source: labels, `.equ`, `.section`,
// `.byte`/`.space` data allocation and compile-time expressions such as
// lo8(...) and hi8(...).
package avr
