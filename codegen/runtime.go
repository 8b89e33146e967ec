package codegen

import (
	"fmt"
)

// binaryRoutine is an operator routine: pop B and A, compute A into A, push.
type binaryRoutine struct {
	name    string
	compute []string
}

var binaryRoutines = []binaryRoutine{
	{"rpn_add", []string{"add r16, r18", "adc r17, r19"}},
	{"rpn_sub", []string{"sub r16, r18", "sbc r17, r19"}},
	{"rpn_mul", []string{"rcall mul16"}},
	{"rpn_div", []string{"rcall div16"}},
	{"rpn_mod", []string{"rcall mod16"}},
	{"rpn_pow", []string{"rcall pow16"}},
}

// label appends a label definition.
func (gen *Generator) label(name string) {
	gen.line("%v:", name)
}

// flag emits a call to flag_set for the named flag bit.
func (gen *Generator) flag(name string) {
	gen.op("ldi r24, (1<<%v)", name)
	gen.op("rcall flag_set")
}

// index points X at base + r24 * CELL_WIDTH. Clobbers r24 and r25.
func (gen *Generator) index(base string) {
	gen.op("clr r25")
	gen.op("lsl r24")
	gen.op("rol r25")
	gen.op("ldi r26, lo8(%v)", base)
	gen.op("ldi r27, hi8(%v)", base)
	gen.op("add r26, r24")
	gen.op("adc r27, r25")
}

// zero clears A.
func (gen *Generator) zero() {
	gen.op("clr r16")
	gen.op("clr r17")
}

// runtime emits the support routines called by the line blocks.
func (gen *Generator) runtime() {
	gen.line("; runtime")

	// rpn_reset: clear all runtime state.
	gen.label("rpn_reset")
	gen.op("clr r16")
	for _, name := range []string{LabelStackPtr, LabelFlags, LabelMemValid, LabelHistCount, LabelMemCell, LabelMemCell + "+1"} {
		gen.op("sts %v, r16", name)
	}
	gen.op("ret")
	gen.line("")

	// flag_set: rpn_flags |= r24
	gen.label("flag_set")
	gen.op("lds r25, %v", LabelFlags)
	gen.op("or r25, r24")
	gen.op("sts %v, r25", LabelFlags)
	gen.op("ret")
	gen.line("")

	gen.label("stack_push")
	gen.op("lds r24, %v", LabelStackPtr)
	gen.op("cpi r24, RPN_STACK_DEPTH")
	gen.op("brlo stack_push_store")
	gen.op("ldi r24, (1<<FLAG_OVERFLOW)")
	gen.op("rjmp flag_set")
	gen.label("stack_push_store")
	gen.op("mov r22, r24")
	gen.op("inc r22")
	gen.op("sts %v, r22", LabelStackPtr)
	gen.index(LabelStack)
	gen.op("st X+, r16")
	gen.op("st X, r17")
	gen.op("ret")
	gen.line("")

	// stack_pop: carry set and A = 0 when empty.
	gen.label("stack_pop")
	gen.op("lds r24, %v", LabelStackPtr)
	gen.op("tst r24")
	gen.op("brne stack_pop_load")
	gen.zero()
	gen.flag("FLAG_UNDERFLOW")
	gen.op("sec")
	gen.op("ret")
	gen.label("stack_pop_load")
	gen.op("dec r24")
	gen.op("sts %v, r24", LabelStackPtr)
	gen.index(LabelStack)
	gen.op("ld r16, X+")
	gen.op("ld r17, X")
	gen.op("clc")
	gen.op("ret")
	gen.line("")

	// stack_pop2: B = top, A = next. Nothing is popped on underflow.
	gen.label("stack_pop2")
	gen.op("lds r24, %v", LabelStackPtr)
	gen.op("cpi r24, 2")
	gen.op("brsh stack_pop2_load")
	gen.zero()
	gen.op("clr r18")
	gen.op("clr r19")
	gen.flag("FLAG_UNDERFLOW")
	gen.op("sec")
	gen.op("ret")
	gen.label("stack_pop2_load")
	gen.op("rcall stack_pop")
	gen.op("movw r18, r16")
	gen.op("rjmp stack_pop")
	gen.line("")

	for _, routine := range binaryRoutines {
		push := fmt.Sprintf("%v_push", routine.name)
		gen.label(routine.name)
		gen.op("rcall stack_pop2")
		gen.op("brcs %v", push)
		for _, line := range routine.compute {
			gen.op("%v", line)
		}
		gen.label(push)
		gen.op("rjmp stack_push")
		gen.line("")
	}

	// mul16: r23:r20 = A * B, A = low word.
	gen.label("mul16")
	gen.op("clr r24")
	gen.op("mul r16, r18")
	gen.op("movw r20, r0")
	gen.op("mul r17, r19")
	gen.op("movw r22, r0")
	for _, pair := range []string{"r16, r19", "r17, r18"} {
		gen.op("mul %v", pair)
		gen.op("add r21, r0")
		gen.op("adc r22, r1")
		gen.op("adc r23, r24")
	}
	gen.op("movw r16, r20")
	gen.op("clr r1")
	gen.op("ret")
	gen.line("")

	// div16: A = A / B, r21:r20 = A % B.
	gen.label("div16")
	gen.op("clr r20")
	gen.op("clr r21")
	gen.op("cp r18, r20")
	gen.op("cpc r19, r21")
	gen.op("brne div16_start")
	gen.flag("FLAG_DIVZERO")
	gen.label("div16_start")
	gen.op("ldi r22, 16")
	gen.label("div16_loop")
	gen.op("lsl r16")
	gen.op("rol r17")
	gen.op("rol r20")
	gen.op("rol r21")
	gen.op("brcs div16_sub")
	gen.op("cp r20, r18")
	gen.op("cpc r21, r19")
	gen.op("brlo div16_next")
	gen.label("div16_sub")
	gen.op("sub r20, r18")
	gen.op("sbc r21, r19")
	gen.op("inc r16")
	gen.label("div16_next")
	gen.op("dec r22")
	gen.op("brne div16_loop")
	gen.op("ret")
	gen.line("")

	gen.label("mod16")
	gen.op("rcall div16")
	gen.op("movw r16, r20")
	gen.op("ret")
	gen.line("")

	// pow16: A = A ^ B, by repeated multiplication.
	gen.label("pow16")
	gen.op("movw r14, r16")
	gen.op("movw r26, r18")
	gen.op("ldi r16, 1")
	gen.op("clr r17")
	gen.label("pow16_loop")
	gen.op("mov r24, r26")
	gen.op("or r24, r27")
	gen.op("breq pow16_done")
	gen.op("movw r18, r14")
	gen.op("rcall mul16")
	gen.op("sbiw r26, 1")
	gen.op("rjmp pow16_loop")
	gen.label("pow16_done")
	gen.op("ret")
	gen.line("")

	// mem_store: keep the top cell on the stack and copy it to memory.
	gen.label("mem_store")
	gen.op("rcall stack_pop")
	gen.op("brcs mem_load")
	gen.op("sts %v, r16", LabelMemCell)
	gen.op("sts %v+1, r17", LabelMemCell)
	gen.op("ldi r24, 1")
	gen.op("sts %v, r24", LabelMemValid)
	gen.op("rjmp stack_push")
	gen.label("mem_load")
	gen.op("lds r24, %v", LabelMemValid)
	gen.op("tst r24")
	gen.op("brne mem_load_cell")
	gen.zero()
	gen.flag("FLAG_MEMORY")
	gen.op("rjmp stack_push")
	gen.label("mem_load_cell")
	gen.op("lds r16, %v", LabelMemCell)
	gen.op("lds r17, %v+1", LabelMemCell)
	gen.op("rjmp stack_push")
	gen.line("")

	// res_load: replace n with the n-th most recent line result.
	gen.label("res_load")
	gen.op("rcall stack_pop")
	gen.op("brcs res_load_push")
	gen.op("tst r17")
	gen.op("brne res_load_invalid")
	gen.op("tst r16")
	gen.op("breq res_load_invalid")
	gen.op("lds r24, %v", LabelHistCount)
	gen.op("cp r24, r16")
	gen.op("brlo res_load_invalid")
	gen.op("sub r24, r16")
	gen.index(LabelHist)
	gen.op("ld r16, X+")
	gen.op("ld r17, X")
	gen.op("rjmp stack_push")
	gen.label("res_load_invalid")
	gen.zero()
	gen.flag("FLAG_HISTORY")
	gen.label("res_load_push")
	gen.op("rjmp stack_push")
	gen.line("")

	// line_end: record the top cell in the next history slot.
	gen.label("line_end")
	gen.op("lds r24, %v", LabelStackPtr)
	gen.op("cpi r24, 1")
	gen.op("breq line_end_pop")
	gen.flag("FLAG_BALANCE")
	gen.label("line_end_pop")
	gen.op("rcall stack_pop")
	gen.op("lds r24, %v", LabelHistCount)
	gen.op("cpi r24, HIST_SLOTS")
	gen.op("brsh line_end_done")
	gen.op("mov r22, r24")
	gen.op("inc r22")
	gen.op("sts %v, r22", LabelHistCount)
	gen.index(LabelHist)
	gen.op("st X+, r16")
	gen.op("st X, r17")
	gen.label("line_end_done")
	gen.op("clr r24")
	gen.op("sts %v, r24", LabelStackPtr)
	gen.op("ret")
}
