package token

import (
	"errors"

	"github.com/ezrec/rpnc/translate"
)

var f = translate.From

var (
	// Lexical errors
	ErrInvalidCharacter = errors.New(f("invalid character"))
	ErrMalformedNumber  = errors.New(f("malformed number"))
	ErrUnknownCommand   = errors.New(f("unknown command"))
)

// ErrLex locates a lexical error in the source line.
type ErrLex struct {
	Pos  int    // Byte offset of the offending text.
	Text string // Offending text.
	Err  error
}

func (err *ErrLex) Error() string {
	return f("column %d '%v' %v", err.Pos+1, err.Text, err.Err)
}

func (err *ErrLex) Unwrap() error {
	return err.Err
}
