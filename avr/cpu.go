package avr

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// Status register bits.
const (
	SREG_C = 0 // Carry
	SREG_Z = 1 // Zero
	SREG_N = 2 // Negative
	SREG_V = 3 // Two's complement overflow
	SREG_S = 4 // Sign, N xor V
)

// Cpu is the simulation context for the AVR subset.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [32]uint8         // Register file.
	Sreg     uint8             // Status register.
	Pc       int               // Program counter, in words.
	Sp       uint16            // Hardware stack pointer.
	Data     [RAMEND + 1]uint8 // Data space; the register file and SP/SREG are mapped separately.

	Ticks int // Instructions executed.
}

// NewCpu creates a CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()
	return
}

// Reset the CPU state.
// - Clears the registers, status register and SRAM.
// - Points the stack at RAMEND.
// - Zeros the ticks counter and the program counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Data[:])
	cpu.Sreg = 0
	cpu.Pc = 0
	cpu.Sp = RAMEND
	cpu.Ticks = 0
}

// Flag returns a status register bit.
func (cpu *Cpu) Flag(bit int) bool {
	return cpu.Sreg&(1<<bit) != 0
}

func (cpu *Cpu) setFlag(bit int, on bool) {
	if on {
		cpu.Sreg |= 1 << bit
	} else {
		cpu.Sreg &^= 1 << bit
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	flags := []byte("cznvs")
	for n := range flags {
		if cpu.Flag(n) {
			flags[n] -= 'a' - 'A'
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "   pc: %04X\n", cpu.Pc)
	fmt.Fprintf(&sb, "   sp: %04X\n", cpu.Sp)
	fmt.Fprintf(&sb, " sreg: %s\n", flags)
	for row := 0; row < len(cpu.Register); row += 8 {
		fmt.Fprintf(&sb, "% 5s:", fmt.Sprintf("r%d", row))
		for _, reg := range cpu.Register[row : row+8] {
			fmt.Fprintf(&sb, " %02X", reg)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Load reads a byte from the data space.
func (cpu *Cpu) Load(addr int) (value uint8, err error) {
	switch {
	case addr < 0 || addr > RAMEND:
		err = ErrAddressRange
	case addr < IO_START:
		value = cpu.Register[addr]
	case addr == IO_START+IO_SPL:
		value = uint8(cpu.Sp)
	case addr == IO_START+IO_SPH:
		value = uint8(cpu.Sp >> 8)
	case addr == IO_START+IO_SREG:
		value = cpu.Sreg
	default:
		value = cpu.Data[addr]
	}

	return
}

// Store writes a byte to the data space.
func (cpu *Cpu) Store(addr int, value uint8) (err error) {
	switch {
	case addr < 0 || addr > RAMEND:
		err = ErrAddressRange
	case addr < IO_START:
		cpu.Register[addr] = value
	case addr == IO_START+IO_SPL:
		cpu.Sp = (cpu.Sp & 0xff00) | uint16(value)
	case addr == IO_START+IO_SPH:
		cpu.Sp = (cpu.Sp & 0x00ff) | (uint16(value) << 8)
	case addr == IO_START+IO_SREG:
		cpu.Sreg = value
	default:
		cpu.Data[addr] = value
	}

	return
}

// Word reads a little-endian 16-bit value from SRAM.
func (cpu *Cpu) Word(addr int) (value uint16, err error) {
	lo, err := cpu.Load(addr)
	if err != nil {
		return
	}
	hi, err := cpu.Load(addr + 1)
	if err != nil {
		return
	}
	value = uint16(hi)<<8 | uint16(lo)
	return
}

// push stores a byte at SP and post-decrements it.
func (cpu *Cpu) push(value uint8) (err error) {
	if cpu.Sp < RAMSTART || cpu.Sp > RAMEND {
		err = ErrStackOverflow
		return
	}
	cpu.Data[cpu.Sp] = value
	cpu.Sp--
	return
}

// pop pre-increments SP and reads the byte there.
func (cpu *Cpu) pop() (value uint8, err error) {
	if cpu.Sp >= RAMEND {
		err = ErrStackEmpty
		return
	}
	cpu.Sp++
	value = cpu.Data[cpu.Sp]
	return
}

// setResult sets N, Z, V and S for an 8-bit result.
func (cpu *Cpu) setResult(res uint8, v bool) {
	n := res&0x80 != 0
	cpu.setFlag(SREG_N, n)
	cpu.setFlag(SREG_Z, res == 0)
	cpu.setFlag(SREG_V, v)
	cpu.setFlag(SREG_S, n != v)
}

// add computes d + r + carry.
func (cpu *Cpu) add(d, r uint8, carry bool) (res uint8) {
	sum := int(d) + int(r)
	if carry {
		sum++
	}
	res = uint8(sum)
	cpu.setFlag(SREG_C, sum > 0xff)
	cpu.setResult(res, (d^res)&(r^res)&0x80 != 0)
	return
}

// sub computes d - r - borrow. With chain set, Z is only ever cleared, so
// multi-byte compares see the zero flag of the whole value.
func (cpu *Cpu) sub(d, r uint8, borrow bool, chain bool) (res uint8) {
	diff := int(d) - int(r)
	if borrow {
		diff--
	}
	res = uint8(diff)
	z := cpu.Flag(SREG_Z)
	cpu.setFlag(SREG_C, diff < 0)
	cpu.setResult(res, (d^r)&(d^res)&0x80 != 0)
	if chain {
		cpu.setFlag(SREG_Z, res == 0 && z)
	}
	return
}

// logic sets the flags of a bitwise result.
func (cpu *Cpu) logic(res uint8) uint8 {
	cpu.setResult(res, false)
	return res
}

// branch returns the condition of a conditional branch.
func (cpu *Cpu) branch(op Mnemonic) bool {
	switch op {
	case BREQ:
		return cpu.Flag(SREG_Z)
	case BRNE:
		return !cpu.Flag(SREG_Z)
	case BRCS, BRLO:
		return cpu.Flag(SREG_C)
	case BRCC, BRSH:
		return !cpu.Flag(SREG_C)
	case BRMI:
		return cpu.Flag(SREG_N)
	case BRPL:
		return !cpu.Flag(SREG_N)
	}
	return false
}

// Tick executes the instruction at the program counter.
func (cpu *Cpu) Tick(prog *Program) (err error) {
	code, ok := prog.Fetch(cpu.Pc)
	if !ok {
		err = ErrPcRange
		return
	}

	return cpu.Execute(code)
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("cpu: %04x: %v", cpu.Pc, code)
	}

	if code.Rd < 0 || code.Rd >= len(cpu.Register) {
		err = ErrOpcodeArg1
		return
	}
	if code.Rr < 0 || code.Rr >= len(cpu.Register) {
		err = ErrOpcodeArg2
		return
	}

	next_pc := cpu.Pc + code.Op.Words()

	reg := &cpu.Register
	rd := &reg[code.Rd]
	rr := reg[code.Rr]
	k := uint8(code.K)

	switch code.Op {
	case NOP:
	case LDI:
		*rd = k
	case MOV:
		*rd = rr
	case MOVW:
		if code.Rd%2 != 0 || code.Rr%2 != 0 {
			err = ErrOpcodeArg1
			return
		}
		reg[code.Rd] = reg[code.Rr]
		reg[code.Rd+1] = reg[code.Rr+1]
	case ADD:
		*rd = cpu.add(*rd, rr, false)
	case ADC:
		*rd = cpu.add(*rd, rr, cpu.Flag(SREG_C))
	case LSL:
		*rd = cpu.add(*rd, *rd, false)
	case ROL:
		*rd = cpu.add(*rd, *rd, cpu.Flag(SREG_C))
	case SUB:
		*rd = cpu.sub(*rd, rr, false, false)
	case SBC:
		*rd = cpu.sub(*rd, rr, cpu.Flag(SREG_C), true)
	case SUBI:
		*rd = cpu.sub(*rd, k, false, false)
	case SBCI:
		*rd = cpu.sub(*rd, k, cpu.Flag(SREG_C), true)
	case CP:
		cpu.sub(*rd, rr, false, false)
	case CPC:
		cpu.sub(*rd, rr, cpu.Flag(SREG_C), true)
	case CPI:
		cpu.sub(*rd, k, false, false)
	case AND:
		*rd = cpu.logic(*rd & rr)
	case ANDI:
		*rd = cpu.logic(*rd & k)
	case OR:
		*rd = cpu.logic(*rd | rr)
	case ORI:
		*rd = cpu.logic(*rd | k)
	case EOR:
		*rd = cpu.logic(*rd ^ rr)
	case CLR:
		*rd = cpu.logic(0)
	case TST:
		cpu.logic(*rd)
	case COM:
		*rd = cpu.logic(^*rd)
		cpu.setFlag(SREG_C, true)
	case LSR:
		carry := *rd&1 != 0
		*rd >>= 1
		cpu.setFlag(SREG_C, carry)
		cpu.setResult(*rd, carry)
	case ROR:
		carry := *rd&1 != 0
		*rd >>= 1
		if cpu.Flag(SREG_C) {
			*rd |= 0x80
		}
		cpu.setFlag(SREG_C, carry)
		cpu.setResult(*rd, (*rd&0x80 != 0) != carry)
	case INC:
		cpu.setResult(*rd+1, *rd == 0x7f)
		*rd++
	case DEC:
		cpu.setResult(*rd-1, *rd == 0x80)
		*rd--
	case MUL:
		product := uint16(*rd) * uint16(rr)
		reg[0] = uint8(product)
		reg[1] = uint8(product >> 8)
		cpu.setFlag(SREG_C, product&0x8000 != 0)
		cpu.setFlag(SREG_Z, product == 0)
	case ADIW, SBIW:
		if code.Rd < 24 || code.Rd%2 != 0 {
			err = ErrOpcodeArg1
			return
		}
		word := int(reg[code.Rd+1])<<8 | int(reg[code.Rd])
		var res int
		if code.Op == ADIW {
			res = word + code.K
		} else {
			res = word - code.K
		}
		cpu.setFlag(SREG_C, res < 0 || res > 0xffff)
		res &= 0xffff
		n := res&0x8000 != 0
		w15 := word&0x8000 != 0
		v := !w15 && n
		if code.Op == SBIW {
			v = w15 && !n
		}
		cpu.setFlag(SREG_N, n)
		cpu.setFlag(SREG_Z, res == 0)
		cpu.setFlag(SREG_V, v)
		cpu.setFlag(SREG_S, n != v)
		reg[code.Rd] = uint8(res)
		reg[code.Rd+1] = uint8(res >> 8)
	case LDS:
		var value uint8
		value, err = cpu.Load(code.K)
		if err != nil {
			return
		}
		*rd = value
	case STS:
		err = cpu.Store(code.K, rr)
	case LD, ST:
		ptr := code.Ptr.Register()
		addr := int(reg[ptr+1])<<8 | int(reg[ptr])
		if code.Op == LD {
			var value uint8
			value, err = cpu.Load(addr)
			if err != nil {
				return
			}
			*rd = value
		} else {
			err = cpu.Store(addr, rr)
			if err != nil {
				return
			}
		}
		if code.Ptr.PostIncrement() {
			addr++
			reg[ptr] = uint8(addr)
			reg[ptr+1] = uint8(addr >> 8)
		}
	case PUSH:
		err = cpu.push(*rd)
	case POP:
		var value uint8
		value, err = cpu.pop()
		if err != nil {
			return
		}
		*rd = value
	case IN:
		var value uint8
		value, err = cpu.Load(IO_START + code.K)
		if err != nil {
			return
		}
		*rd = value
	case OUT:
		err = cpu.Store(IO_START+code.K, rr)
	case RJMP, JMP:
		next_pc = code.K
	case RCALL, CALL:
		if err = cpu.push(uint8(next_pc)); err != nil {
			return
		}
		if err = cpu.push(uint8(next_pc >> 8)); err != nil {
			return
		}
		next_pc = code.K
	case RET:
		var hi, lo uint8
		if hi, err = cpu.pop(); err != nil {
			return
		}
		if lo, err = cpu.pop(); err != nil {
			return
		}
		next_pc = int(hi)<<8 | int(lo)
	case BREQ, BRNE, BRCS, BRCC, BRLO, BRSH, BRMI, BRPL:
		if cpu.branch(code.Op) {
			next_pc = code.K
		}
	case SEC:
		cpu.setFlag(SREG_C, true)
	case CLC:
		cpu.setFlag(SREG_C, false)
	default:
		err = ErrOpcodeInvalid
		return
	}
	if err != nil {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}
