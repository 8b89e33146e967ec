package avr

import (
	"fmt"
)

// Mnemonic is an instruction of the supported AVR subset.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	NOP   = Mnemonic(iota) // nop
	LDI                    // ldi
	MOV                    // mov
	MOVW                   // movw
	ADD                    // add
	ADC                    // adc
	SUB                    // sub
	SBC                    // sbc
	SUBI                   // subi
	SBCI                   // sbci
	AND                    // and
	ANDI                   // andi
	OR                     // or
	ORI                    // ori
	EOR                    // eor
	CP                     // cp
	CPC                    // cpc
	CPI                    // cpi
	CLR                    // clr
	TST                    // tst
	LSL                    // lsl
	LSR                    // lsr
	ROL                    // rol
	ROR                    // ror
	INC                    // inc
	DEC                    // dec
	COM                    // com
	MUL                    // mul
	ADIW                   // adiw
	SBIW                   // sbiw
	LDS                    // lds
	STS                    // sts
	LD                     // ld
	ST                     // st
	PUSH                   // push
	POP                    // pop
	IN                     // in
	OUT                    // out
	RJMP                   // rjmp
	RCALL                  // rcall
	RET                    // ret
	BREQ                   // breq
	BRNE                   // brne
	BRCS                   // brcs
	BRCC                   // brcc
	BRLO                   // brlo
	BRSH                   // brsh
	BRMI                   // brmi
	BRPL                   // brpl
	SEC                    // sec
	CLC                    // clc
	JMP                    // jmp
	CALL                   // call
)

// Form is the operand layout of a mnemonic.
type Form int

const (
	FORM_NONE    = Form(iota) // no operands
	FORM_RD                   // Rd
	FORM_RD_RR                // Rd, Rr
	FORM_RD_K                 // Rd, K (r16..r31, 8-bit immediate)
	FORM_RDW_K                // Rd, K (r24..r30 even, 6-bit immediate)
	FORM_RDW_RRW              // Rd, Rr (even pairs)
	FORM_RD_ADDR              // Rd, k (data address)
	FORM_ADDR_RR              // k, Rr (data address)
	FORM_RD_PTR               // Rd, X|X+|Y|Y+|Z|Z+
	FORM_PTR_RR               // X|X+|Y|Y+|Z|Z+, Rr
	FORM_RD_IO                // Rd, A (I/O address)
	FORM_IO_RR                // A, Rr (I/O address)
	FORM_JUMP                 // k (label, +/-2K words)
	FORM_BRANCH               // k (label, +/-64 words)
	FORM_LONG                 // k (label, absolute)
)

var mnemonicForm = map[Mnemonic]Form{
	NOP: FORM_NONE, RET: FORM_NONE, SEC: FORM_NONE, CLC: FORM_NONE,
	CLR: FORM_RD, TST: FORM_RD, LSL: FORM_RD, LSR: FORM_RD,
	ROL: FORM_RD, ROR: FORM_RD, INC: FORM_RD, DEC: FORM_RD,
	COM: FORM_RD, PUSH: FORM_RD, POP: FORM_RD,
	MOV: FORM_RD_RR, ADD: FORM_RD_RR, ADC: FORM_RD_RR, SUB: FORM_RD_RR,
	SBC: FORM_RD_RR, AND: FORM_RD_RR, OR: FORM_RD_RR, EOR: FORM_RD_RR,
	CP: FORM_RD_RR, CPC: FORM_RD_RR, MUL: FORM_RD_RR,
	MOVW: FORM_RDW_RRW,
	LDI:  FORM_RD_K, SUBI: FORM_RD_K, SBCI: FORM_RD_K, ANDI: FORM_RD_K,
	ORI: FORM_RD_K, CPI: FORM_RD_K,
	ADIW: FORM_RDW_K, SBIW: FORM_RDW_K,
	LDS: FORM_RD_ADDR, STS: FORM_ADDR_RR,
	LD: FORM_RD_PTR, ST: FORM_PTR_RR,
	IN: FORM_RD_IO, OUT: FORM_IO_RR,
	RJMP: FORM_JUMP, RCALL: FORM_JUMP,
	JMP: FORM_LONG, CALL: FORM_LONG,
	BREQ: FORM_BRANCH, BRNE: FORM_BRANCH, BRCS: FORM_BRANCH, BRCC: FORM_BRANCH,
	BRLO: FORM_BRANCH, BRSH: FORM_BRANCH, BRMI: FORM_BRANCH, BRPL: FORM_BRANCH,
}

// Form returns the operand layout of the mnemonic.
func (mn Mnemonic) Form() Form {
	return mnemonicForm[mn]
}

// Words returns the number of program words the instruction occupies.
func (mn Mnemonic) Words() int {
	switch mn {
	case LDS, STS, JMP, CALL:
		return 2
	default:
		return 1
	}
}

// Pointer is a pointer register addressing mode of ld and st.
type Pointer int

//go:generate go tool stringer -linecomment -type=Pointer
const (
	PTR_X     = Pointer(iota) // X
	PTR_X_INC                 // X+
	PTR_Y                     // Y
	PTR_Y_INC                 // Y+
	PTR_Z                     // Z
	PTR_Z_INC                 // Z+
)

// Register returns the low register of the pointer pair.
func (ptr Pointer) Register() int {
	return 26 + 2*(int(ptr)/2)
}

// PostIncrement returns true for the X+, Y+ and Z+ forms.
func (ptr Pointer) PostIncrement() bool {
	return int(ptr)%2 == 1
}

// Opcode represents a line of assembled code with its source location.
type Opcode struct {
	LineNo    int
	Pc        int
	Words     []string
	Code      Code
	LinkLabel string
}

// Code is a single decoded instruction.
type Code struct {
	Op  Mnemonic
	Rd  int     // Destination (or only) register.
	Rr  int     // Source register.
	K   int     // Immediate, data address, I/O address, or absolute branch target.
	Ptr Pointer // Pointer mode of ld and st.
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	switch code.Op.Form() {
	case FORM_NONE:
		out = code.Op.String()
	case FORM_RD:
		out = fmt.Sprintf("%v r%d", code.Op, code.Rd)
	case FORM_RD_RR, FORM_RDW_RRW:
		out = fmt.Sprintf("%v r%d, r%d", code.Op, code.Rd, code.Rr)
	case FORM_RD_K, FORM_RDW_K:
		out = fmt.Sprintf("%v r%d, %#x", code.Op, code.Rd, code.K)
	case FORM_RD_ADDR:
		out = fmt.Sprintf("%v r%d, %#04x", code.Op, code.Rd, code.K)
	case FORM_ADDR_RR:
		out = fmt.Sprintf("%v %#04x, r%d", code.Op, code.K, code.Rr)
	case FORM_RD_PTR:
		out = fmt.Sprintf("%v r%d, %v", code.Op, code.Rd, code.Ptr)
	case FORM_PTR_RR:
		out = fmt.Sprintf("%v %v, r%d", code.Op, code.Ptr, code.Rr)
	case FORM_RD_IO:
		out = fmt.Sprintf("%v r%d, %#02x", code.Op, code.Rd, code.K)
	case FORM_IO_RR:
		out = fmt.Sprintf("%v %#02x, r%d", code.Op, code.K, code.Rr)
	case FORM_JUMP, FORM_BRANCH, FORM_LONG:
		out = fmt.Sprintf("%v %#04x", code.Op, code.K)
	}

	return
}
