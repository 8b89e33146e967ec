package emulator

import (
	"log"
	"strings"

	"github.com/ezrec/rpnc/avr"
	"github.com/ezrec/rpnc/codegen"
)

const (
	TICK_LIMIT = 50_000_000 // Default bound on the instructions of one Run.
)

// Emulator state. CPU plus the program listing it runs.
type Emulator struct {
	Verbose   bool         // If set, enables verbose logging.
	*avr.Cpu               // Reference to the CPU simulation.
	Program   *avr.Program // Reference to the currently running program listing.
	TickLimit int          // Run fails with ErrTickLimit past this many ticks; 0 selects TICK_LIMIT.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:       avr.NewCpu(),
		Program:   &avr.Program{},
		TickLimit: TICK_LIMIT,
	}

	return
}

// Load assembles a listing as the current program, and resets the CPU.
func (emu *Emulator) Load(listing []string) (err error) {
	asm := &avr.Assembler{Verbose: emu.Verbose}
	prog, err := asm.Parse(strings.NewReader(strings.Join(listing, "\n")))
	if err != nil {
		return
	}

	emu.Program = prog
	if emu.Verbose {
		for name, value := range prog.Symbols() {
			log.Printf("emu: %v = %#04x", name, value)
		}
	}
	emu.Reset()

	return
}

// Reset the CPU state.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = false
	emu.Cpu.Reset()
	emu.Cpu.Verbose = emu.Verbose
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Code returns the current instruction code.
func (emu *Emulator) Code() avr.Code {
	code, _ := emu.Program.Fetch(emu.Cpu.Pc)
	return code
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// halted is true when the current instruction jumps to itself.
func (emu *Emulator) halted() bool {
	code, ok := emu.Program.Fetch(emu.Cpu.Pc)
	return ok && code.Op == avr.RJMP && code.K == emu.Cpu.Pc
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.halted() {
		done = true
		return
	}

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick(emu.Program)

	return
}

// Run ticks the emulator until the program halts.
func (emu *Emulator) Run() (err error) {
	limit := emu.TickLimit
	if limit <= 0 {
		limit = TICK_LIMIT
	}

	for emu.Cpu.Ticks < limit {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrTickLimit}

	return
}

// symbol looks up a data label of the loaded program.
func (emu *Emulator) symbol(name string) (addr int, err error) {
	addr, ok := emu.Program.Symbol(name)
	if !ok {
		err = ErrSymbolMissing(name)
	}
	return
}

// Word returns the 16-bit cell at a data address.
func (emu *Emulator) Word(addr int) (value uint16, err error) {
	return emu.Cpu.Word(addr)
}

// byteAt returns the byte at a data label.
func (emu *Emulator) byteAt(name string) (value uint8, err error) {
	addr, err := emu.symbol(name)
	if err != nil {
		return
	}

	return emu.Cpu.Load(addr)
}

// cells reads count cells starting at a data label.
func (emu *Emulator) cells(name string, count int) (values []uint16, err error) {
	addr, err := emu.symbol(name)
	if err != nil {
		return
	}

	values = make([]uint16, 0, count)
	for n := range count {
		var value uint16
		value, err = emu.Word(addr + n*codegen.CELL_WIDTH)
		if err != nil {
			return
		}
		values = append(values, value)
	}

	return
}

// Results returns the line results recorded so far, oldest first.
func (emu *Emulator) Results() (values []uint16, err error) {
	count, err := emu.byteAt(codegen.LabelHistCount)
	if err != nil {
		return
	}

	return emu.cells(codegen.LabelHist, int(count))
}

// Stack returns the operand stack, bottom first.
func (emu *Emulator) Stack() (values []uint16, err error) {
	depth, err := emu.byteAt(codegen.LabelStackPtr)
	if err != nil {
		return
	}

	return emu.cells(codegen.LabelStack, int(depth))
}

// Memory returns the MEM cell and whether it was ever written.
func (emu *Emulator) Memory() (value uint16, valid bool, err error) {
	flag, err := emu.byteAt(codegen.LabelMemValid)
	if err != nil {
		return
	}
	valid = flag != 0

	addr, err := emu.symbol(codegen.LabelMemCell)
	if err != nil {
		return
	}
	value, err = emu.Word(addr)

	return
}

// Flags returns the runtime status byte.
func (emu *Emulator) Flags() (flags codegen.Flags, err error) {
	value, err := emu.byteAt(codegen.LabelFlags)
	flags = codegen.Flags(value)
	return
}
