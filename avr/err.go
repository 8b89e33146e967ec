package avr

import (
	"errors"

	"github.com/ezrec/rpnc/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcRange       = errors.New(f("program counter out of range"))
	ErrStackOverflow = errors.New(f("call stack overflow"))
	ErrStackEmpty    = errors.New(f("call stack empty"))
	ErrAddressRange  = errors.New(f("data address out of range"))

	// Instruction decode errors
	ErrOpcodeInvalid = errors.New(f("opcode invalid"))
	ErrOpcodeArg1    = errors.New(f("arg1"))
	ErrOpcodeArg2    = errors.New(f("arg2"))

	// Assembler errors
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrLabelSyntax      = errors.New(f("label syntax"))
	ErrSectionInvalid   = errors.New(f("section invalid"))
	ErrDataInText       = errors.New(f("data allocation outside .data"))
	ErrCodeInData       = errors.New(f("instruction outside .text"))
	ErrDirectiveInvalid = errors.New(f("directive invalid"))
	ErrOperandCount     = errors.New(f("operand count"))
	ErrRegisterInvalid  = errors.New(f("register invalid"))
	ErrPointerInvalid   = errors.New(f("pointer invalid"))
	ErrImmediateRange   = errors.New(f("immediate out of range"))
	ErrBranchRange      = errors.New(f("branch out of range"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode reports the instruction that failed to execute.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode %v", Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("'%v' is not a valid expression", string(err))
}
