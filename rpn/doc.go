// Package rpn defines the stack-machine semantics shared by the reference
// evaluator and the target code generator, and implements the reference
// evaluator on host floating point.
//
// Every operand token pushes one cell and every binary operator pops two and
// pushes one. Anomalies never abort a line: the evaluator reports a
// Diagnostic, pushes a sentinel zero cell and carries on. Memory and result
// history live in a caller-owned Context.
package rpn
