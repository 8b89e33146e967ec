package avr

import (
	"iter"

	"github.com/ezrec/rpnc/internal"
)

// Program is an assembled program image with its symbol tables.
type Program struct {
	Opcodes []Opcode
	Label   map[string]int // Code labels, in program words.
	Data    map[string]int // Data labels, in SRAM bytes.
	Equate  map[string]int
	DataEnd int // First SRAM byte not allocated by .data.

	index []int // Program word to opcode index, -1 for none.
}

type Debug struct {
	*Opcode
	Index int // Word within the instruction.
}

// Debug maps a program counter back to the source line.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= op.Pc && pc < op.Pc+op.Code.Op.Words() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  pc - op.Pc,
			}
			break
		}
	}

	return
}

// Fetch returns the instruction starting at a program word.
func (prog *Program) Fetch(pc int) (code Code, ok bool) {
	if prog.index == nil {
		prog.index = make([]int, prog.Size())
		for n := range prog.index {
			prog.index[n] = -1
		}
		for n, op := range prog.Opcodes {
			prog.index[op.Pc] = n
		}
	}

	if pc < 0 || pc >= len(prog.index) || prog.index[pc] < 0 {
		return
	}

	return prog.Opcodes[prog.index[pc]].Code, true
}

// Size returns the number of program words.
func (prog *Program) Size() int {
	if len(prog.Opcodes) == 0 {
		return 0
	}
	last := prog.Opcodes[len(prog.Opcodes)-1]
	return last.Pc + last.Code.Op.Words()
}

// Symbol looks up an equate, data label or code label.
func (prog *Program) Symbol(name string) (value int, ok bool) {
	for _, table := range []map[string]int{prog.Equate, prog.Data, prog.Label} {
		if value, ok = table[name]; ok {
			return
		}
	}
	return
}

// Symbols iterates equates, then data labels, then code labels, each in
// name order.
func (prog *Program) Symbols() iter.Seq2[string, int] {
	return internal.IterSeq2Concat(
		internal.SortedAll(prog.Equate),
		internal.SortedAll(prog.Data),
		internal.SortedAll(prog.Label),
	)
}
