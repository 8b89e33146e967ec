// Package codegen translates token streams into an AVR assembly listing
// that runs the same stack machine as the reference evaluator.
//
// Operands live in a memory-resident stack of 16-bit cells. The
// accumulator A is r17:r16 and the second operand B is r19:r18. Every
// token becomes a short, fixed sequence: numbers are loaded as
// immediates and pushed, operators and the MEM/RES commands call
// runtime routines, and each source line ends by moving its result into
// the history slots that RES reads.
package codegen
