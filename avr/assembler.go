package avr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a two pass assembler for the AVR subset.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]int // Predefines
	Label     map[string]int // Map of code labels to program word addresses.
	Data      map[string]int // Map of data labels to SRAM addresses.
	Equate    map[string]int // Map of equates.

	section string // Current section, .text or .data
	dataPc  int    // Next free SRAM byte.
}

// Predefine defines a new equate or redefines an existing one, before
// Parse runs.
func (asm *Assembler) Predefine(equ string, value int) {
	if asm.predefine == nil {
		asm.predefine = map[string]int{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reSymbol    = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
	reRegister  = regexp.MustCompile(`^[rR]([0-9]|[12][0-9]|3[01])$`)
	reCharacter = regexp.MustCompile(`'\\?[^']'`)
	reParenEval = regexp.MustCompile(`\$\([^\$]*\)`)
)

// mnemonicMap maps instruction names to mnemonics.
var mnemonicMap = func() map[string]Mnemonic {
	mnemonics := make(map[string]Mnemonic, len(mnemonicForm))
	for mn := range mnemonicForm {
		mnemonics[mn.String()] = mn
	}
	return mnemonics
}()

// pointerMap maps ld/st pointer operands.
var pointerMap = map[string]Pointer{
	"X":  PTR_X,
	"X+": PTR_X_INC,
	"Y":  PTR_Y,
	"Y+": PTR_Y_INC,
	"Z":  PTR_Z,
	"Z+": PTR_Z_INC,
}

// symbol looks up an equate or label.
func (asm *Assembler) symbol(name string) (value int, ok bool) {
	if value, ok = asm.Equate[name]; ok {
		return
	}
	if value, ok = asm.Data[name]; ok {
		return
	}
	value, ok = asm.Label[name]
	return
}

// byteOf returns the low or high byte of its single integer argument.
func byteOf(shift int) *starlark.Builtin {
	name := "lo8"
	if shift != 0 {
		name = "hi8"
	}
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(args) != 1 || len(kwargs) != 0 {
			return nil, fmt.Errorf("%s: want 1 argument", b.Name())
		}
		value, err := starlark.AsInt32(args[0])
		if err != nil {
			return nil, err
		}
		return starlark.MakeInt((value >> shift) & 0xff), nil
	})
}

// parenEval does compile-time expression evaluation.
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"lo8": byteOf(0),
		"hi8": byteOf(8),
	}
	for _, table := range []map[string]int{asm.Label, asm.Data, asm.Equate} {
		for key, val := range table {
			if reSymbol.MatchString(key) && !strings.Contains(key, ".") {
				pred[key] = starlark.MakeInt(val)
			}
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// valueOf returns the value of an operand: a number, a symbol, or an
// expression over symbols.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	v64, perr := strconv.ParseInt(word, 0, 64)
	if perr == nil {
		value = int(v64)
		return
	}
	value, ok := asm.symbol(word)
	if ok {
		return
	}
	if reSymbol.MatchString(word) {
		err = ErrParseNumber(word)
		return
	}

	return asm.parenEval(word)
}

// register parses a register operand.
func register(word string) (reg int, err error) {
	if !reRegister.MatchString(word) {
		err = ErrRegisterInvalid
		return
	}
	reg, _ = strconv.Atoi(word[1:])
	return
}

// splitOperands splits an operand list at top-level commas.
func splitOperands(text string) (operands []string) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}

	depth := 0
	start := 0
	for n, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				operands = append(operands, strings.TrimSpace(text[start:n]))
				start = n + 1
			}
		}
	}
	operands = append(operands, strings.TrimSpace(text[start:]))
	return
}

// currentPc gets the current program word address.
func (asm *Assembler) currentPc() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Pc + last.Code.Op.Words()
}

// defineLabel binds a label in the current section.
func (asm *Assembler) defineLabel(label string) (err error) {
	if !reSymbol.MatchString(label) {
		err = ErrLabelSyntax
		return
	}
	if _, ok := asm.symbol(label); ok {
		err = ErrLabelDuplicate
		return
	}

	if asm.section == ".data" {
		asm.Data[label] = asm.dataPc
	} else {
		asm.Label[label] = asm.currentPc()
	}

	if asm.Verbose {
		log.Printf("asm: label %v", label)
	}

	return
}

// parseLine parses a single line, defining its labels and returning its
// mnemonic (or directive) and operands.
func (asm *Assembler) parseLine(line string) (word string, operands []string, err error) {
	line = strings.ReplaceAll(line, "\t", " ")

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParenEval.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	for {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			return
		}
		head, rest, _ := strings.Cut(line, " ")
		if !strings.HasSuffix(head, ":") {
			break
		}
		err = asm.defineLabel(head[:len(head)-1])
		if err != nil {
			return
		}
		line = rest
	}

	word, rest, _ := strings.Cut(line, " ")
	word = strings.ToLower(word)
	operands = splitOperands(rest)

	return
}

// parseDirective handles an assembler directive.
func (asm *Assembler) parseDirective(word string, operands []string) (err error) {
	switch word {
	case ".equ", ".set":
		if len(operands) != 2 || !reSymbol.MatchString(operands[0]) {
			err = ErrEquateSyntax
			return
		}
		var value int
		value, err = asm.valueOf(operands[1])
		if err != nil {
			return
		}
		// Restating a symbol with its own value is allowed.
		if prior, ok := asm.symbol(operands[0]); ok && prior != value {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[operands[0]] = value
	case ".section":
		if len(operands) != 1 {
			err = ErrOperandCount
			return
		}
		return asm.parseDirective(operands[0], nil)
	case ".data", ".text":
		if len(operands) != 0 {
			err = ErrOperandCount
			return
		}
		asm.section = word
	case ".global", ".globl":
		// Single object file; nothing to export.
	case ".byte", ".space":
		if asm.section != ".data" {
			err = ErrDataInText
			return
		}
		if len(operands) != 1 {
			err = ErrOperandCount
			return
		}
		var size int
		size, err = asm.valueOf(operands[0])
		if err != nil {
			return
		}
		if size < 0 || asm.dataPc+size > RAMEND+1 {
			err = ErrAddressRange
			return
		}
		asm.dataPc += size
	default:
		err = ErrDirectiveInvalid
	}

	return
}

// immediate evaluates an operand and checks it against [lo, hi].
func (asm *Assembler) immediate(word string, lo, hi int) (value int, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}
	if value < lo || value > hi {
		err = ErrImmediateRange
		return
	}
	return
}

// parseInstruction encodes one instruction.
func (asm *Assembler) parseInstruction(mn Mnemonic, operands []string) (code Code, label string, err error) {
	code.Op = mn

	form := mn.Form()

	want := 2
	switch form {
	case FORM_NONE:
		want = 0
	case FORM_RD, FORM_JUMP, FORM_BRANCH, FORM_LONG:
		want = 1
	}
	if len(operands) != want {
		err = ErrOperandCount
		return
	}

	switch form {
	case FORM_NONE:
	case FORM_RD:
		code.Rd, err = register(operands[0])
	case FORM_RD_RR:
		if code.Rd, err = register(operands[0]); err != nil {
			return
		}
		code.Rr, err = register(operands[1])
	case FORM_RDW_RRW:
		if code.Rd, err = register(operands[0]); err != nil {
			return
		}
		if code.Rr, err = register(operands[1]); err != nil {
			return
		}
		if code.Rd%2 != 0 || code.Rr%2 != 0 {
			err = ErrRegisterInvalid
		}
	case FORM_RD_K:
		if code.Rd, err = register(operands[0]); err != nil {
			return
		}
		if code.Rd < 16 {
			err = ErrRegisterInvalid
			return
		}
		code.K, err = asm.immediate(operands[1], -128, 255)
		code.K &= 0xff
	case FORM_RDW_K:
		if code.Rd, err = register(operands[0]); err != nil {
			return
		}
		if code.Rd < 24 || code.Rd%2 != 0 {
			err = ErrRegisterInvalid
			return
		}
		code.K, err = asm.immediate(operands[1], 0, 63)
	case FORM_RD_ADDR:
		if code.Rd, err = register(operands[0]); err != nil {
			return
		}
		code.K, err = asm.immediate(operands[1], 0, 0xffff)
	case FORM_ADDR_RR:
		if code.K, err = asm.immediate(operands[0], 0, 0xffff); err != nil {
			return
		}
		code.Rr, err = register(operands[1])
	case FORM_RD_PTR:
		if code.Rd, err = register(operands[0]); err != nil {
			return
		}
		ptr, ok := pointerMap[strings.ToUpper(operands[1])]
		if !ok {
			err = ErrPointerInvalid
			return
		}
		code.Ptr = ptr
	case FORM_PTR_RR:
		ptr, ok := pointerMap[strings.ToUpper(operands[0])]
		if !ok {
			err = ErrPointerInvalid
			return
		}
		code.Ptr = ptr
		code.Rr, err = register(operands[1])
	case FORM_RD_IO:
		if code.Rd, err = register(operands[0]); err != nil {
			return
		}
		code.K, err = asm.immediate(operands[1], 0, 63)
	case FORM_IO_RR:
		if code.K, err = asm.immediate(operands[0], 0, 63); err != nil {
			return
		}
		code.Rr, err = register(operands[1])
	case FORM_JUMP, FORM_BRANCH, FORM_LONG:
		target := operands[0]
		if _, ok := asm.Label[target]; !ok && reSymbol.MatchString(target) {
			// Forward reference, resolved after the full pass.
			label = target
			return
		}
		code.K, err = asm.immediate(target, 0, FLASHEND)
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// checkRange verifies a relative branch reaches its target.
func checkRange(op *Opcode) (err error) {
	offset := op.Code.K - (op.Pc + 1)
	switch op.Code.Op.Form() {
	case FORM_JUMP:
		if offset < -2048 || offset > 2047 {
			err = ErrBranchRange
		}
	case FORM_BRANCH:
		if offset < -64 || offset > 63 {
			err = ErrBranchRange
		}
	}
	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]int, 64)
	asm.Data = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.section = ".text"
	asm.dataPc = RAMSTART

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var word string
		var operands []string
		word, operands, err = asm.parseLine(line)
		if err != nil {
			return
		}
		if len(word) == 0 {
			continue
		}

		if strings.HasPrefix(word, ".") {
			err = asm.parseDirective(word, operands)
			if err != nil {
				return
			}
			continue
		}

		if asm.section != ".text" {
			err = ErrCodeInData
			return
		}

		mn, ok := mnemonicMap[word]
		if !ok {
			err = ErrOpcodeInvalid
			return
		}

		var code Code
		var label string
		code, label, err = asm.parseInstruction(mn, operands)
		if err != nil {
			return
		}

		pc := asm.currentPc()
		if pc+mn.Words() > FLASHEND+1 {
			err = ErrPcRange
			return
		}

		opcode := Opcode{LineNo: lineno, Pc: pc, Words: append([]string{word}, operands...), Code: code, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) != 0 {
			pc, ok := asm.Label[op.LinkLabel]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(op.LinkLabel)
				return
			}
			op.Code.K = pc
		}

		err = checkRange(op)
		if err != nil {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Label:   maps.Clone(asm.Label),
		Data:    maps.Clone(asm.Data),
		Equate:  maps.Clone(asm.Equate),
		DataEnd: asm.dataPc,
	}

	return
}
