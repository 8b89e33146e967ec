// Package token implements the finite-state tokenizer for RPN calculator
// lines.
//
// A line is scanned left to right in a single pass into numbers, the six
// binary operators (+ - * / % ^), grouping parentheses, and the two commands
// MEM and RES. The token stream always ends with an END token. Parentheses
// are kept in the stream for display but carry no meaning for evaluation or
// code generation.
package token
