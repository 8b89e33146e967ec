package avr

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// arith16 is 16-bit arithmetic on r17:r16 and r19:r18, with the
// product of the low bytes left in r1:r0.
var arith16 = []string{
	".equ A, %d",
	".equ B, %d",
	"    ldi r16, lo8(A)",
	"    ldi r17, hi8(A)",
	"    ldi r18, lo8(B)",
	"    ldi r19, hi8(B)",
	"    movw r20, r16",
	"    add r20, r18",
	"    adc r21, r19",
	"    movw r22, r16",
	"    sub r22, r18",
	"    sbc r23, r19",
	"    movw r24, r16",
	"    eor r24, r18",
	"    eor r25, r19",
	"    mul r16, r18",
	"halt: rjmp halt",
}

func FuzzCpuArith16(f *testing.F) {
	f.Add(uint16(0), uint16(0))
	f.Add(uint16(0xffff), uint16(1))
	f.Add(uint16(1), uint16(0xffff))
	f.Add(uint16(0x8000), uint16(0x7fff))
	f.Add(uint16(12345), uint16(54321))

	f.Fuzz(func(t *testing.T, a uint16, b uint16) {
		assert := assert.New(t)

		source := fmt.Sprintf(strings.Join(arith16, "\n"), a, b)

		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(source))
		if err != nil {
			t.Fatal(err)
		}

		halt, _ := prog.Symbol("halt")

		cpu := NewCpu()
		for cpu.Pc != halt {
			err = cpu.Tick(prog)
			if err != nil {
				t.Fatal(err)
			}
		}

		assert.Equal(a+b, cpu.pair(20))
		assert.Equal(a-b, cpu.pair(22))
		assert.Equal(a^b, cpu.pair(24))
		assert.Equal(uint16(a&0xff)*uint16(b&0xff), cpu.pair(0))
	})
}
