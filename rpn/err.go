package rpn

import (
	"errors"

	"github.com/ezrec/rpnc/token"
	"github.com/ezrec/rpnc/translate"
)

var f = translate.From

var (
	// Semantic errors
	ErrStackUnderflow       = errors.New(f("stack underflow"))
	ErrDivisionByZero       = errors.New(f("division by zero"))
	ErrUninitializedMemory  = errors.New(f("MEM not initialized"))
	ErrInvalidHistoryIndex  = errors.New(f("RES index out of range"))
	ErrUnbalancedExpression = errors.New(f("unbalanced expression"))
	ErrNegativeModulo       = errors.New(f("modulo of negative operand"))
	ErrDomain               = errors.New(f("result out of domain"))
)

// Diagnostic reports a recovered semantic error at a token.
type Diagnostic struct {
	Token token.Token
	Err   error
}

func (err *Diagnostic) Error() string {
	return f("column %d %v %v", err.Token.Pos+1, err.Token, err.Err)
}

func (err *Diagnostic) Unwrap() error {
	return err.Err
}
