package codegen

import (
	"fmt"
	"log"
	"strings"

	"github.com/ezrec/rpnc/avr"
	"github.com/ezrec/rpnc/rpn"
	"github.com/ezrec/rpnc/token"
)

// Data labels of the runtime state.
const (
	LabelStackPtr  = "stack_ptr"
	LabelFlags     = "rpn_flags"
	LabelMemValid  = "mem_valid"
	LabelHistCount = "hist_count"
	LabelMemCell   = "mem_cell"
	LabelHist      = "hist"
	LabelStack     = "rpn_stack"
	LabelHalt      = "end_program"
)

// CELL_WIDTH is the size of a target cell in bytes.
const CELL_WIDTH = 2

// operatorRoutine maps operators to their runtime routine.
var operatorRoutine = map[token.Operator]string{
	token.OP_ADD: "rpn_add",
	token.OP_SUB: "rpn_sub",
	token.OP_MUL: "rpn_mul",
	token.OP_DIV: "rpn_div",
	token.OP_MOD: "rpn_mod",
	token.OP_POW: "rpn_pow",
}

// Generator translates token streams into an assembly listing.
type Generator struct {
	Config  Config // Target sizing; the zero value selects DefaultConfig.
	Verbose bool   // If set, logs each emitted line block.

	out []string
}

// Generate translates a single line with the default configuration.
func Generate(tokens []token.Token) (listing []string, err error) {
	gen := &Generator{}
	return gen.Generate(tokens)
}

// GenerateProgram translates lines with the default configuration.
func GenerateProgram(lines [][]token.Token) (listing []string, err error) {
	gen := &Generator{}
	return gen.GenerateProgram(lines)
}

// Generate translates a single line into a complete program.
func (gen *Generator) Generate(tokens []token.Token) (listing []string, err error) {
	return gen.GenerateProgram([][]token.Token{tokens})
}

// line appends a formatted line to the listing.
func (gen *Generator) line(format string, args ...any) {
	gen.out = append(gen.out, fmt.Sprintf(format, args...))
}

// op appends an indented instruction.
func (gen *Generator) op(format string, args ...any) {
	gen.line("    "+format, args...)
}

// comment appends a comment line.
func (gen *Generator) comment(format string, args ...any) {
	gen.line("    ; "+format, args...)
}

// source renders tokens as they were written, parentheses included.
func source(tokens []token.Token) string {
	var words []string
	for _, tok := range tokens {
		if tok.Kind != token.END {
			words = append(words, tok.Text)
		}
	}
	return strings.Join(words, " ")
}

// GenerateProgram translates lines into one program with one code block per
// line. Each block stores its result in the next history slot, so RES in a
// later line sees the earlier results.
func (gen *Generator) GenerateProgram(lines [][]token.Token) (listing []string, err error) {
	cfg := gen.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig
	}
	err = cfg.Validate()
	if err != nil {
		return
	}
	if len(lines) > cfg.HistorySlots {
		err = ErrHistoryCapacity
		return
	}

	gen.out = nil

	gen.header(cfg, max(len(lines), 1))

	for n, tokens := range lines {
		err = gen.block(n+1, tokens)
		if err != nil {
			gen.out = nil
			return
		}
	}

	gen.line("%v:", LabelHalt)
	gen.op("rjmp %v", LabelHalt)
	gen.line("")

	gen.runtime()

	listing = gen.out
	gen.out = nil

	return
}

// header emits the equates, the data section and the reset code.
func (gen *Generator) header(cfg Config, slots int) {
	gen.line("; rpnc listing: %d-cell stack, %d history slots", cfg.StackDepth, slots)
	for _, equ := range avr.SysEquates() {
		gen.line("%v", equ)
	}
	gen.line(".equ RPN_STACK_DEPTH, %d", cfg.StackDepth)
	gen.line(".equ HIST_SLOTS, %d", slots)
	gen.line(".equ CELL_WIDTH, %d", CELL_WIDTH)
	gen.line(".equ FLAG_OVERFLOW, %d", FLAG_OVERFLOW)
	gen.line(".equ FLAG_UNDERFLOW, %d", FLAG_UNDERFLOW)
	gen.line(".equ FLAG_DIVZERO, %d", FLAG_DIVZERO)
	gen.line(".equ FLAG_MEMORY, %d", FLAG_MEMORY)
	gen.line(".equ FLAG_HISTORY, %d", FLAG_HISTORY)
	gen.line(".equ FLAG_BALANCE, %d", FLAG_BALANCE)
	gen.line("")

	gen.line(".section .data")
	gen.line("%v: .byte 1", LabelStackPtr)
	gen.line("%v: .byte 1", LabelFlags)
	gen.line("%v: .byte 1", LabelMemValid)
	gen.line("%v: .byte 1", LabelHistCount)
	gen.line("%v: .byte CELL_WIDTH", LabelMemCell)
	gen.line("%v: .byte HIST_SLOTS * CELL_WIDTH", LabelHist)
	gen.line("%v: .byte RPN_STACK_DEPTH * CELL_WIDTH", LabelStack)
	gen.line("")

	gen.line(".section .text")
	gen.line(".global main")
	gen.line("main:")
	gen.op("ldi r16, lo8(RAMEND)")
	gen.op("out SPL, r16")
	gen.op("ldi r16, hi8(RAMEND)")
	gen.op("out SPH, r16")
	gen.op("call rpn_reset")
}

// block emits the code of one source line.
func (gen *Generator) block(lineno int, tokens []token.Token) (err error) {
	if gen.Verbose {
		log.Printf("codegen: line %d: %v", lineno, source(tokens))
	}

	gen.line("")
	gen.comment("line %d: %v", lineno, source(tokens))

	// MEM stores when the token before it left a value on the stack.
	produced := false

	for _, tok := range tokens {
		switch tok.Kind {
		case token.NUMBER:
			word := rpn.Word(tok.Text)
			if float64(word) != tok.Value {
				gen.comment("%v truncated to %d", tok.Text, word)
			}
			gen.op("ldi r16, lo8(%d)", word)
			gen.op("ldi r17, hi8(%d)", word)
			gen.op("call stack_push")
		case token.OPERATOR:
			routine, ok := operatorRoutine[tok.Op]
			if !ok {
				err = &ErrLine{LineNo: lineno, Token: tok, Err: ErrTokenInvalid}
				return
			}
			gen.op("call %v", routine)
		case token.MEM:
			if produced {
				gen.op("call mem_store")
			} else {
				gen.op("call mem_load")
			}
		case token.RES:
			gen.op("call res_load")
		case token.LPAREN, token.RPAREN, token.END:
		default:
			err = &ErrLine{LineNo: lineno, Token: tok, Err: ErrTokenInvalid}
			return
		}

		if tok.Operand() {
			produced = true
		}
	}

	gen.op("call line_end")

	return
}
