package calc

import (
	"errors"

	"github.com/ezrec/rpnc/translate"
)

var f = translate.From

var (
	ErrResultMissing = errors.New(f("target result missing"))
)

// ErrInput locates a failure reading session input.
type ErrInput struct {
	LineNo int
	Err    error
}

func (err *ErrInput) Error() string {
	return f("input line %d %v", err.LineNo, err.Err)
}

func (err *ErrInput) Unwrap() error {
	return err.Err
}
