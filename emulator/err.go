package emulator

import (
	"errors"

	"github.com/ezrec/rpnc/translate"
)

var f = translate.From

var (
	ErrTickLimit = errors.New(f("tick limit reached"))
)

// ErrSymbolMissing indicates the loaded program lacks a runtime data label.
type ErrSymbolMissing string

func (err ErrSymbolMissing) Error() string {
	return f("symbol '%v' missing", string(err))
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
