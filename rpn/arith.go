package rpn

import (
	"math"
	"strconv"

	"github.com/ezrec/rpnc/token"
)

// Precision is the number of decimal places kept in every stack cell.
const Precision = 2

// Round rounds to Precision decimal places. The decimal is correctly
// rounded from the exact binary value, so exact halves such as 0.125 go to
// the even digit.
func Round(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', Precision, 64), 64)
	if err != nil {
		return value
	}
	return rounded
}

// Apply computes a op b with host arithmetic.
func Apply(op token.Operator, a, b float64) (value float64, err error) {
	switch op {
	case token.OP_ADD:
		value = a + b
	case token.OP_SUB:
		value = a - b
	case token.OP_MUL:
		value = a * b
	case token.OP_DIV:
		if b == 0 {
			err = ErrDivisionByZero
			return
		}
		value = a / b
	case token.OP_MOD:
		if b == 0 {
			err = ErrDivisionByZero
			return
		}
		if a < 0 || b < 0 {
			err = ErrNegativeModulo
			return
		}
		value = math.Mod(a, b)
	case token.OP_POW:
		value = math.Pow(a, b)
	default:
		panic("unknown operator")
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
		err = ErrDomain
	}

	return
}

// Word converts a number literal to a target cell: the fraction is dropped
// and the integer digits are reduced modulo 2^16, exactly for any length.
func Word(literal string) (value uint16) {
	for _, r := range literal {
		if r < '0' || r > '9' {
			break
		}
		value = value*10 + uint16(r-'0')
	}
	return
}

// ApplyWord computes a op b the way the generated target routines do:
// unsigned 16-bit arithmetic wrapping silently, a quotient of 0xffff and a
// remainder equal to the dividend when dividing by zero.
func ApplyWord(op token.Operator, a, b uint16) (value uint16) {
	switch op {
	case token.OP_ADD:
		value = a + b
	case token.OP_SUB:
		value = a - b
	case token.OP_MUL:
		value = a * b
	case token.OP_DIV:
		value = 0xffff
		if b != 0 {
			value = a / b
		}
	case token.OP_MOD:
		value = a
		if b != 0 {
			value = a % b
		}
	case token.OP_POW:
		value = 1
		for range b {
			value *= a
		}
	default:
		panic("unknown operator")
	}

	return
}

// InWordRange returns true if the value is an integer a target cell holds
// exactly.
func InWordRange(value float64) bool {
	return value >= 0 && value <= 0xffff && value == math.Trunc(value)
}
