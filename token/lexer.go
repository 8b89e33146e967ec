package token

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// state is a tokenizer state.
type state int

const (
	stateStart    = state(iota) // Between tokens.
	stateInteger                // Integer digits of a number.
	stateDot                    // Decimal point, digit required next.
	stateFraction               // Fraction digits of a number.
	stateCommand                // Letters of a command word.
)

// eof is the rune seen past the end of the line.
const eof = rune(-1)

// symbols maps single character tokens.
var symbols = map[rune]Token{
	'(': {Kind: LPAREN},
	')': {Kind: RPAREN},
	'+': {Kind: OPERATOR, Op: OP_ADD},
	'-': {Kind: OPERATOR, Op: OP_SUB},
	'*': {Kind: OPERATOR, Op: OP_MUL},
	'/': {Kind: OPERATOR, Op: OP_DIV},
	'%': {Kind: OPERATOR, Op: OP_MOD},
	'^': {Kind: OPERATOR, Op: OP_POW},
}

// commands maps command words.
var commands = map[string]Kind{
	"MEM": MEM,
	"RES": RES,
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Tokenize scans a line into tokens. The returned slice always ends with an
// END token when err is nil.
func Tokenize(text string) (tokens []Token, err error) {
	st := stateStart
	start := 0
	pos := 0

	fail := func(at int, text string, kind error) {
		err = &ErrLex{Pos: at, Text: text, Err: kind}
	}

	number := func() {
		literal := text[start:pos]
		value, perr := strconv.ParseFloat(literal, 64)
		if perr != nil {
			fail(start, literal, ErrMalformedNumber)
			return
		}
		tokens = append(tokens, Token{Kind: NUMBER, Value: value, Text: literal, Pos: start})
	}

	for err == nil {
		r, size := eof, 0
		if pos < len(text) {
			r, size = utf8.DecodeRuneInString(text[pos:])
		}

		switch st {
		case stateStart:
			switch {
			case r == eof:
				tokens = append(tokens, Token{Kind: END, Pos: pos})
				return
			case unicode.IsSpace(r):
				pos += size
			case isDigit(r):
				st = stateInteger
				start = pos
				pos += size
			case unicode.IsLetter(r):
				st = stateCommand
				start = pos
				pos += size
			default:
				tok, ok := symbols[r]
				if !ok {
					fail(pos, string(r), ErrInvalidCharacter)
					break
				}
				tok.Text = text[pos : pos+size]
				tok.Pos = pos
				tokens = append(tokens, tok)
				pos += size
			}
		case stateInteger:
			switch {
			case isDigit(r):
				pos += size
			case r == '.':
				st = stateDot
				pos += size
			default:
				number()
				st = stateStart
			}
		case stateDot:
			if !isDigit(r) {
				fail(start, text[start:pos], ErrMalformedNumber)
				break
			}
			st = stateFraction
			pos += size
		case stateFraction:
			if isDigit(r) {
				pos += size
				break
			}
			number()
			st = stateStart
		case stateCommand:
			if r != eof && unicode.IsLetter(r) {
				pos += size
				break
			}
			word := text[start:pos]
			kind, ok := commands[word]
			if !ok {
				fail(start, word, ErrUnknownCommand)
				break
			}
			tokens = append(tokens, Token{Kind: kind, Text: word, Pos: start})
			st = stateStart
		}
	}

	tokens = nil
	return
}
