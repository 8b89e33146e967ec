package avr

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))
	assert.Equal(0, prog.Size())
	assert.Equal(RAMSTART, prog.DataEnd)

	assert.Equal(RAMEND, asm.Equate["RAMEND"])
	assert.Equal(RAMSTART, asm.Equate["RAMSTART"])
	assert.Equal(IO_SPL, asm.Equate["SPL"])
	assert.Equal(IO_SPH, asm.Equate["SPH"])
	assert.Equal(IO_SREG, asm.Equate["SREG"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func TestAssemblerInstructions(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"main:",
		"    ldi r16, 0x12       ; immediate",
		"    ldi r17, hi8(0x1234)",
		"    add r16, r17",
		"    lds r18, 0x0100",
		"    sts 0x0102, r18",
		"    rcall main",
		"    rjmp done",
		"done: ret",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{2, 0, []string{"ldi", "r16", "0x12"}, Code{Op: LDI, Rd: 16, K: 0x12}, ""},
		{3, 1, []string{"ldi", "r17", "hi8(0x1234)"}, Code{Op: LDI, Rd: 17, K: 0x12}, ""},
		{4, 2, []string{"add", "r16", "r17"}, Code{Op: ADD, Rd: 16, Rr: 17}, ""},
		{5, 3, []string{"lds", "r18", "0x0100"}, Code{Op: LDS, Rd: 18, K: 0x100}, ""},
		{6, 5, []string{"sts", "0x0102", "r18"}, Code{Op: STS, Rr: 18, K: 0x102}, ""},
		{7, 7, []string{"rcall", "main"}, Code{Op: RCALL, K: 0}, ""},
		{8, 8, []string{"rjmp", "done"}, Code{Op: RJMP, K: 9}, "done"},
		{9, 9, []string{"ret"}, Code{Op: RET}, ""},
	}

	opEqual(t, expected, prog.Opcodes)

	assert.Equal(map[string]int{"main": 0, "done": 9}, prog.Label)
	assert.Equal(10, prog.Size())
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		".equ DEPTH, 4",
		".equ CELL, 2",
		".section .data",
		"count: .byte 1",
		"flags:",
		"    .byte 1",
		"cells: .space DEPTH * CELL",
		"tail: .byte 1",
		".section .text",
		".global main",
		"main:",
		"    lds r16, count",
		"    sts cells+1, r16",
		"    ldi r26, lo8(cells)",
		"    ldi r27, hi8(cells)",
		"    st X+, r16",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal(map[string]int{
		"count": 0x100,
		"flags": 0x101,
		"cells": 0x102,
		"tail":  0x10a,
	}, prog.Data)
	assert.Equal(0x10b, prog.DataEnd)
	assert.Equal(4, prog.Equate["DEPTH"])

	assert.Equal(Code{Op: LDS, Rd: 16, K: 0x100}, prog.Opcodes[0].Code)
	assert.Equal(Code{Op: STS, Rr: 16, K: 0x103}, prog.Opcodes[1].Code)
	assert.Equal(Code{Op: LDI, Rd: 26, K: 0x02}, prog.Opcodes[2].Code)
	assert.Equal(Code{Op: LDI, Rd: 27, K: 0x01}, prog.Opcodes[3].Code)
	assert.Equal(Code{Op: ST, Rr: 16, Ptr: PTR_X_INC}, prog.Opcodes[4].Code)
}

func TestAssemblerExpressions(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", 0x40)

	program := []string{
		".equ FLAG_B, 2",
		"    ldi r16, 'A'",
		"    ldi r17, $(BASE + 8)",
		"    ori r16, (1<<FLAG_B)",
		"    ldi r18, lo8(-1)",
		"    ldi r19, -2",
		"    cpi r20, 0b101",
		"    in r24, SPL",
		"    out SPH, r25",
		"    adiw r24, 1",
		"    sbiw r30, 63",
		"    movw r18, r16",
		"    ld r0, Z",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Code{
		{Op: LDI, Rd: 16, K: 'A'},
		{Op: LDI, Rd: 17, K: 0x48},
		{Op: ORI, Rd: 16, K: 4},
		{Op: LDI, Rd: 18, K: 0xff},
		{Op: LDI, Rd: 19, K: 0xfe},
		{Op: CPI, Rd: 20, K: 5},
		{Op: IN, Rd: 24, K: IO_SPL},
		{Op: OUT, Rr: 25, K: IO_SPH},
		{Op: ADIW, Rd: 24, K: 1},
		{Op: SBIW, Rd: 30, K: 63},
		{Op: MOVW, Rd: 18, Rr: 16},
		{Op: LD, Rd: 0, Ptr: PTR_Z},
	}

	assert.Equal(len(expected), len(prog.Opcodes))
	for n, op := range prog.Opcodes {
		if n < len(expected) {
			assert.Equal(expected[n], op.Code, op.Words)
		}
	}
}

func TestAssemblerErrors(t *testing.T) {
	table := [](struct {
		source string
		lineno int
		err    error
	}){
		{"nop\nfrob r1", 2, ErrOpcodeInvalid},
		{"ldi r3, 1", 1, ErrRegisterInvalid},
		{"mov r16, r32", 1, ErrRegisterInvalid},
		{"movw r17, r18", 1, ErrRegisterInvalid},
		{"adiw r22, 1", 1, ErrRegisterInvalid},
		{"adiw r24, 64", 1, ErrImmediateRange},
		{"ldi r16, 256", 1, ErrImmediateRange},
		{"ldi r16", 1, ErrOperandCount},
		{"ret r16", 1, ErrOperandCount},
		{"ld r16, W", 1, ErrPointerInvalid},
		{"x: nop\nx: nop", 2, ErrLabelDuplicate},
		{".equ A, 1\n.equ A, 2", 2, ErrEquateDuplicate},
		{".equ A", 1, ErrEquateSyntax},
		{"rjmp nowhere\nnop", 1, ErrLabelMissing("nowhere")},
		{".byte 4", 1, ErrDataInText},
		{".section .data\nnop", 2, ErrCodeInData},
		{".section .bss", 1, ErrDirectiveInvalid},
		{".frob", 1, ErrDirectiveInvalid},
		{"ldi r16, UNDEFINED", 1, ErrParseNumber("UNDEFINED")},
		{"ldi r16, lo8(UNDEFINED)", 1, ErrParseExpression("lo8(UNDEFINED)")},
		{"9bad: nop", 1, ErrLabelSyntax},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.source))
		assert.ErrorIs(t, err, entry.err, entry.source)

		var syntax *ErrSyntax
		if assert.True(t, errors.As(err, &syntax), entry.source) {
			assert.Equal(t, entry.lineno, syntax.LineNo, entry.source)
		}
	}
}

func TestAssemblerBranchRange(t *testing.T) {
	assert := assert.New(t)

	near := []string{"top:"}
	for range 63 {
		near = append(near, "nop")
	}
	near = append(near, "brne top")

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(strings.Join(near, "\n")))
	assert.NoError(err)

	far := append([]string{"top:", "nop"}, near[1:]...)
	_, err = asm.Parse(strings.NewReader(strings.Join(far, "\n")))
	assert.ErrorIs(err, ErrBranchRange)

	// Absolute calls reach the whole flash.
	long := []string{"call far", ".equ PAD, 0"}
	for range 3000 {
		long = append(long, "nop")
	}
	long = append(long, "far: ret")
	_, err = asm.Parse(strings.NewReader(strings.Join(long, "\n")))
	assert.NoError(err)

	long[0] = "rcall far"
	_, err = asm.Parse(strings.NewReader(strings.Join(long, "\n")))
	assert.ErrorIs(err, ErrBranchRange)
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("a: nop\nrjmp a"))
	assert.NoError(err)

	prog, err := asm.Parse(strings.NewReader("a: ret"))
	assert.NoError(err)
	assert.Equal(1, len(prog.Opcodes))
	assert.Equal(map[string]int{"a": 0}, prog.Label)
}
