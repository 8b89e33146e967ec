package rpn

import (
	"log"
	"math"

	"github.com/ezrec/rpnc/token"
)

// Evaluator is the reference evaluator.
type Evaluator struct {
	Verbose bool // If set, logs every stack transition.

	// Trace, if set, is called after each token with the stack it left.
	Trace func(tok token.Token, stack []Cell)
}

// Evaluate runs a token stream with a zero-value Evaluator.
func Evaluate(tokens []token.Token, ctx *Context) (result float64, diags []error) {
	ev := &Evaluator{}
	return ev.Evaluate(tokens, ctx)
}

// Evaluate runs a token stream against the context, returning the line
// result and any recovered diagnostics. Only ctx.Memory is modified; the
// caller decides whether to Commit the result to the history.
func (ev *Evaluator) Evaluate(tokens []token.Token, ctx *Context) (result float64, diags []error) {
	var stack Stack
	var last token.Token

	report := func(tok token.Token, err error) {
		diag := &Diagnostic{Token: tok, Err: err}
		diags = append(diags, diag)
		if ev.Verbose {
			log.Printf("rpn: %v", diag)
		}
	}

	for _, tok := range tokens {
		last = tok

		switch tok.Kind {
		case token.NUMBER:
			stack.Push(Number(tok.Value))
		case token.OPERATOR:
			if stack.Len() < 2 {
				report(tok, ErrStackUnderflow)
				stack.Push(Sentinel(ErrStackUnderflow))
				break
			}
			b, _ := stack.Pop()
			a, _ := stack.Pop()
			value, err := Apply(tok.Op, a.Value, b.Value)
			if err != nil {
				report(tok, err)
				stack.Push(Sentinel(err))
				break
			}
			stack.Push(Number(value))
		case token.MEM:
			top, ok := stack.Peek()
			switch {
			case ok && top.Numeric():
				stack.Pop()
				ctx.Memory.Store(top.Value)
				stack.Push(Number(top.Value))
			case ctx.Memory.Valid:
				stack.Push(Number(ctx.Memory.Value))
			default:
				report(tok, ErrUninitializedMemory)
				stack.Push(Sentinel(ErrUninitializedMemory))
			}
		case token.RES:
			index, ok := stack.Pop()
			if !ok {
				report(tok, ErrStackUnderflow)
				stack.Push(Sentinel(ErrStackUnderflow))
				break
			}
			n := math.Trunc(index.Value)
			if n < 1 || n > float64(ctx.History.Len()) {
				report(tok, ErrInvalidHistoryIndex)
				stack.Push(Sentinel(ErrInvalidHistoryIndex))
				break
			}
			value, _ := ctx.History.Recent(int(n))
			stack.Push(Number(value))
		default:
			// Parentheses and END do not touch the stack.
		}

		if ev.Verbose {
			log.Printf("rpn: %v -> %v", tok, stack.Data)
		}
		if ev.Trace != nil {
			ev.Trace(tok, stack.Data)
		}
	}

	top, ok := stack.Peek()
	if stack.Len() != 1 {
		if last.Kind != token.END {
			last = token.Token{Kind: token.END, Pos: last.Pos}
		}
		report(last, ErrUnbalancedExpression)
	}
	if ok {
		result = Round(top.Value)
	}

	return
}
