package rpn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rpnc/token"
)

func tokenize(t *testing.T, text string) []token.Token {
	tokens, err := token.Tokenize(text)
	if err != nil {
		t.Fatalf("%v: %v", text, err)
	}
	return tokens
}

// kindsOf unwraps each diagnostic to its error kind.
func kindsOf(diags []error) (kinds []error) {
	for _, diag := range diags {
		var d *Diagnostic
		if errors.As(diag, &d) {
			kinds = append(kinds, d.Err)
		}
	}
	return
}

func TestEvaluate(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		text   string
		result float64
	}){
		{"add", "3 2 +", 5.0},
		{"add_real", "3.14 2.0 +", 5.14},
		{"sub", "10.5 0.5 -", 10.0},
		{"mul", "7.0 0.5 *", 3.5},
		{"div_real", "10.0 4.0 /", 2.5},
		{"div_int", "10 4 /", 2.5},
		{"div_round", "10 3 /", 3.33},
		{"mod", "10 3 %", 1.0},
		{"mod_real", "7.5 2 %", 1.5},
		{"pow", "3 4 ^", 81.0},
		{"nested", "10 2 3 * +", 16.0},
		{"products", "10 5 * 5 2 * /", 5.0},
		{"parens", "(10 5 +) (3 2 *) -", 9.0},
		{"negative", "3 5 -", -2.0},
		{"round_each", "1 3 / 3 *", 0.99},
		{"literal_round", "1.006 0 +", 1.01},
		{"half_even", "1 8 /", 0.12},
		{"half_even_up", "5 8 /", 0.62},
		{"large", "65535 65535 *", 4294836225.0},
	}

	for _, entry := range table {
		result, diags := Evaluate(tokenize(t, entry.text), NewContext())
		assert.Empty(diags, entry.name)
		assert.Equal(entry.result, result, entry.name)
	}
}

func TestEvaluateDiagnostics(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		text   string
		result float64
		kinds  []error
	}){
		{"underflow", "+", 0.0, []error{ErrStackUnderflow}},
		{"underflow_one", "5 +", 0.0, []error{ErrStackUnderflow, ErrUnbalancedExpression}},
		{"div_zero", "10 0 /", 0.0, []error{ErrDivisionByZero}},
		{"mod_zero", "10 0 %", 0.0, []error{ErrDivisionByZero}},
		{"mod_negative", "3 5 - 2 %", 0.0, []error{ErrNegativeModulo}},
		{"pow_domain", "0 1 - 0.5 ^", 0.0, []error{ErrDomain}},
		{"pow_inf", "0 0 1 - ^", 0.0, []error{ErrDomain}},
		{"empty", "", 0.0, []error{ErrUnbalancedExpression}},
		{"parens_only", "( )", 0.0, []error{ErrUnbalancedExpression}},
		{"too_many", "1 2 3", 3.0, []error{ErrUnbalancedExpression}},
		{"mem_uninit", "MEM", 0.0, []error{ErrUninitializedMemory}},
		{"res_empty", "RES", 0.0, []error{ErrStackUnderflow}},
		{"res_empty_history", "1 RES", 0.0, []error{ErrInvalidHistoryIndex}},
		{"res_zero", "0 RES", 0.0, []error{ErrInvalidHistoryIndex}},
		{"recover", "10 0 / 7 +", 7.0, []error{ErrDivisionByZero}},
	}

	for _, entry := range table {
		result, diags := Evaluate(tokenize(t, entry.text), NewContext())
		assert.Equal(entry.result, result, entry.name)
		assert.Equal(entry.kinds, kindsOf(diags), entry.name)
	}
}

func TestEvaluateDiagnosticPosition(t *testing.T) {
	assert := assert.New(t)

	_, diags := Evaluate(tokenize(t, "10 0 /"), NewContext())
	if !assert.Len(diags, 1) {
		return
	}

	assert.ErrorIs(diags[0], ErrDivisionByZero)
	var diag *Diagnostic
	assert.True(errors.As(diags[0], &diag))
	assert.Equal(5, diag.Token.Pos)
	assert.Equal(token.OP_DIV, diag.Token.Op)
	assert.Contains(diag.Error(), "column 6")
}

func TestEvaluateMemory(t *testing.T) {
	assert := assert.New(t)

	ctx := NewContext()

	result, diags := Evaluate(tokenize(t, "5 MEM"), ctx)
	assert.Empty(diags)
	assert.Equal(5.0, result)
	assert.Equal(Memory{Value: 5, Valid: true}, ctx.Memory)
	ctx.Commit(result)

	result, diags = Evaluate(tokenize(t, "MEM 3 +"), ctx)
	assert.Empty(diags)
	assert.Equal(8.0, result)

	// Store after arithmetic, reading back the stored value.
	result, diags = Evaluate(tokenize(t, "2 3 * MEM 2 *"), ctx)
	assert.Empty(diags)
	assert.Equal(12.0, result)
	assert.Equal(6.0, ctx.Memory.Value)

	// A sentinel on top is not stored; the old value is read instead.
	result, diags = Evaluate(tokenize(t, "10 0 / MEM"), ctx)
	assert.Equal([]error{ErrDivisionByZero, ErrUnbalancedExpression}, kindsOf(diags))
	assert.Equal(6.0, result)
	assert.Equal(6.0, ctx.Memory.Value)
}

func TestEvaluateHistory(t *testing.T) {
	assert := assert.New(t)

	ctx := NewContext()
	for _, line := range []string{"10 5 +", "3 2 *"} {
		result, diags := Evaluate(tokenize(t, line), ctx)
		assert.Empty(diags, line)
		ctx.Commit(result)
	}
	assert.Equal([]float64{15, 6}, ctx.History.Results)

	result, diags := Evaluate(tokenize(t, "1 RES"), ctx)
	assert.Empty(diags)
	assert.Equal(6.0, result)

	result, diags = Evaluate(tokenize(t, "2 RES"), ctx)
	assert.Empty(diags)
	assert.Equal(15.0, result)

	result, diags = Evaluate(tokenize(t, "1 RES 2 RES -"), ctx)
	assert.Empty(diags)
	assert.Equal(-9.0, result)

	result, diags = Evaluate(tokenize(t, "3 RES"), ctx)
	assert.Equal([]error{ErrInvalidHistoryIndex}, kindsOf(diags))
	assert.Equal(0.0, result)

	// Evaluation never appends on its own.
	assert.Equal(2, ctx.History.Len())
}

func TestEvaluateIdempotent(t *testing.T) {
	assert := assert.New(t)

	base := func() *Context {
		ctx := NewContext()
		ctx.Memory.Store(4)
		ctx.Commit(15)
		ctx.Commit(6)
		return ctx
	}

	for _, line := range []string{
		"1 RES MEM * 2 ^",
		"10 0 / 3 RES +",
		"MEM + 1 2",
		"(2 3 %) 7 /",
	} {
		tokens := tokenize(t, line)

		ctx1 := base()
		r1, d1 := Evaluate(tokens, ctx1)
		ctx2 := base()
		r2, d2 := Evaluate(tokens, ctx2)

		assert.Equal(r1, r2, line)
		assert.Equal(d1, d2, line)
		assert.Equal(ctx1, ctx2, line)
	}
}

func TestEvaluatorVerbose(t *testing.T) {
	assert := assert.New(t)

	ev := &Evaluator{Verbose: true}
	result, diags := ev.Evaluate(tokenize(t, "2 3 +"), NewContext())
	assert.Empty(diags)
	assert.Equal(5.0, result)
}

func TestEvaluatorTrace(t *testing.T) {
	assert := assert.New(t)

	var tops []float64
	var raws []float64
	var depths []int
	ev := &Evaluator{
		Trace: func(tok token.Token, stack []Cell) {
			depths = append(depths, len(stack))
			if len(stack) > 0 && tok.Operand() {
				tops = append(tops, stack[len(stack)-1].Value)
				raws = append(raws, stack[len(stack)-1].Raw)
			}
		},
	}

	result, diags := ev.Evaluate(tokenize(t, "( 2 3 * ) 4 +"), NewContext())
	assert.Empty(diags)
	assert.Equal(10.0, result)
	assert.Equal([]float64{2, 3, 6, 4, 10}, tops)
	assert.Equal([]int{0, 1, 2, 1, 1, 2, 1, 1}, depths)

	// The trace sees the quotient before rounding.
	tops, raws = nil, nil
	result, diags = ev.Evaluate(tokenize(t, "999 1000 /"), NewContext())
	assert.Empty(diags)
	assert.Equal(1.0, result)
	assert.Equal([]float64{999, 1000, 1}, tops)
	assert.Equal([]float64{999, 1000, 0.999}, raws)
}
