package token

import (
	"fmt"
	"strings"
)

// Kind is the type of token.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	NUMBER   = Kind(0) // number
	OPERATOR = Kind(1) // operator
	LPAREN   = Kind(2) // (
	RPAREN   = Kind(3) // )
	MEM      = Kind(4) // MEM
	RES      = Kind(5) // RES
	END      = Kind(6) // END
)

// Operator is a binary arithmetic operator, stored as its symbol.
type Operator byte

const (
	OP_NONE = Operator(0)
	OP_ADD  = Operator('+')
	OP_SUB  = Operator('-')
	OP_MUL  = Operator('*')
	OP_DIV  = Operator('/')
	OP_MOD  = Operator('%')
	OP_POW  = Operator('^')
)

func (op Operator) String() string {
	if op == OP_NONE {
		return ""
	}
	return string(rune(op))
}

// Token is a single lexical element of a line.
type Token struct {
	Kind  Kind
	Op    Operator // Operator symbol, for OPERATOR tokens.
	Value float64  // Numeric value, for NUMBER tokens.
	Text  string   // Source literal.
	Pos   int      // Byte offset in the source line.
}

// Operand returns true if the token pushes exactly one cell.
func (tok Token) Operand() bool {
	switch tok.Kind {
	case NUMBER, OPERATOR, MEM, RES:
		return true
	}
	return false
}

// Inert returns true for tokens that neither consumers act on.
func (tok Token) Inert() bool {
	switch tok.Kind {
	case LPAREN, RPAREN, END:
		return true
	}
	return false
}

// Equivalent compares the meaning of two tokens, ignoring source position
// and spelling.
func (tok Token) Equivalent(other Token) bool {
	return tok.Kind == other.Kind && tok.Op == other.Op && tok.Value == other.Value
}

func (tok Token) String() string {
	switch tok.Kind {
	case NUMBER:
		return fmt.Sprintf("%v(%v)", tok.Kind, tok.Text)
	case OPERATOR:
		return fmt.Sprintf("%v(%v)", tok.Kind, tok.Op)
	}
	return tok.Kind.String()
}

// Join serializes tokens back to source text, separated by single spaces.
// Parentheses and the END marker are left out.
func Join(tokens []Token) string {
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Inert() {
			continue
		}
		words = append(words, tok.Text)
	}
	return strings.Join(words, " ")
}
