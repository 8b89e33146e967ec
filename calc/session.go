package calc

import (
	"bufio"
	"io"
	"log"
	"strings"

	"github.com/ezrec/rpnc/codegen"
	"github.com/ezrec/rpnc/emulator"
	"github.com/ezrec/rpnc/rpn"
	"github.com/ezrec/rpnc/token"
)

// Line is one evaluated input line.
type Line struct {
	Text       string
	Tokens     []token.Token // Nil when Err is set.
	Result     float64
	Diags      []error // Recovered evaluation errors.
	Err        error   // Tokenizer error; the line is not part of the history.
	InEnvelope bool    // Every exact intermediate value was an integer a target cell holds.
}

// Valid returns true if the line tokenized, and so has a history slot.
func (line *Line) Valid() bool {
	return line.Err == nil
}

// Agreement pairs the host and target result of one line.
type Agreement struct {
	LineNo     int // Index into Session.Lines, from 1.
	Text       string
	Host       float64
	Target     uint16
	InEnvelope bool
	Agree      bool
}

// Session is the state of a calculator run.
type Session struct {
	Verbose   bool           // If set, enables verbose logging.
	Config    codegen.Config // Target sizing; the zero value selects codegen.DefaultConfig.
	TickLimit int            // Emulator bound; 0 selects emulator.TICK_LIMIT.
	Context   *rpn.Context   // Host memory and history.
	Lines     []Line         // Every line seen, in order.

	// Set once a line left the envelope; later MEM and RES reads can no
	// longer be compared.
	tainted bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		Context: rpn.NewContext(),
	}
}

func (s *Session) config() codegen.Config {
	if s.Config == (codegen.Config{}) {
		return codegen.DefaultConfig
	}
	return s.Config
}

// Eval tokenizes and evaluates a line, and commits its result to the
// history.
func (s *Session) Eval(text string) (line Line) {
	if s.Context == nil {
		s.Context = rpn.NewContext()
	}

	line.Text = text

	tokens, err := token.Tokenize(text)
	if err != nil {
		line.Err = err
		s.Lines = append(s.Lines, line)
		if s.Verbose {
			log.Printf("calc: %q: %v", text, err)
		}
		return
	}
	line.Tokens = tokens

	depth := s.config().StackDepth
	inside := true
	stateful := false

	ev := &rpn.Evaluator{
		Verbose: s.Verbose,
		Trace: func(tok token.Token, stack []rpn.Cell) {
			switch tok.Kind {
			case token.NUMBER:
				inside = inside && rpn.InWordRange(tok.Value)
			case token.MEM, token.RES:
				stateful = true
			}
			if tok.Operand() {
				// Judged before rounding: 999/1000 rounds to 1, the target says 0.
				top := stack[len(stack)-1]
				inside = inside && top.Numeric() && rpn.InWordRange(top.Raw)
			}
			inside = inside && len(stack) <= depth
		},
	}

	line.Result, line.Diags = ev.Evaluate(tokens, s.Context)
	s.Context.Commit(line.Result)

	line.InEnvelope = inside && len(line.Diags) == 0 && !(stateful && s.tainted)
	if !line.InEnvelope {
		s.tainted = true
	}

	if s.Verbose {
		log.Printf("calc: %q = %v %v", text, line.Result, line.Diags)
	}

	s.Lines = append(s.Lines, line)

	return
}

// Run evaluates one expression per input line, ignoring blank lines, and
// returns the lines it evaluated.
func (s *Session) Run(input io.Reader) (lines []Line, err error) {
	scanner := bufio.NewScanner(input)

	lineno := 0
	for scanner.Scan() {
		lineno++
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 {
			continue
		}
		lines = append(lines, s.Eval(text))
	}

	err = scanner.Err()
	if err != nil {
		err = &ErrInput{LineNo: lineno + 1, Err: err}
	}

	return
}

// Program returns the token streams of the valid lines.
func (s *Session) Program() (program [][]token.Token) {
	for _, line := range s.Lines {
		if line.Valid() {
			program = append(program, line.Tokens)
		}
	}
	return
}

// Compile generates the target listing for the valid lines.
func (s *Session) Compile() (listing []string, err error) {
	gen := &codegen.Generator{Config: s.config(), Verbose: s.Verbose}
	return gen.GenerateProgram(s.Program())
}

// Execute compiles the session and runs it to completion on the emulator.
func (s *Session) Execute() (emu *emulator.Emulator, err error) {
	listing, err := s.Compile()
	if err != nil {
		return
	}

	emu = emulator.NewEmulator()
	emu.Verbose = s.Verbose
	if s.TickLimit > 0 {
		emu.TickLimit = s.TickLimit
	}

	err = emu.Load(listing)
	if err != nil {
		return
	}

	err = emu.Run()

	return
}

// Check runs the session on the target and pairs every valid line with its
// target result.
func (s *Session) Check() (agreements []Agreement, err error) {
	emu, err := s.Execute()
	if err != nil {
		return
	}

	results, err := emu.Results()
	if err != nil {
		return
	}

	slot := 0
	for n, line := range s.Lines {
		if !line.Valid() {
			continue
		}
		if slot >= len(results) {
			err = &ErrInput{LineNo: n + 1, Err: ErrResultMissing}
			return
		}

		target := results[slot]
		slot++

		agreement := Agreement{
			LineNo:     n + 1,
			Text:       line.Text,
			Host:       line.Result,
			Target:     target,
			InEnvelope: line.InEnvelope,
			Agree:      line.Result == float64(target),
		}
		if s.Verbose {
			log.Printf("calc: %+v", agreement)
		}
		agreements = append(agreements, agreement)
	}

	return
}
