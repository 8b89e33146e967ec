package codegen

import (
	"errors"

	"github.com/ezrec/rpnc/token"
	"github.com/ezrec/rpnc/translate"
)

var f = translate.From

var (
	ErrHistoryCapacity = errors.New(f("too many lines for the history slots"))
	ErrStackDepth      = errors.New(f("stack depth out of range"))
	ErrHistorySlots    = errors.New(f("history slots out of range"))
	ErrTokenInvalid    = errors.New(f("token invalid"))
)

// ErrLine reports the source line that could not be translated.
type ErrLine struct {
	LineNo int
	Token  token.Token
	Err    error
}

func (err *ErrLine) Error() string {
	return f("line %d %v %v", err.LineNo, err.Token, err.Err)
}

func (err *ErrLine) Unwrap() error {
	return err.Err
}
