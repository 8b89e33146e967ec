package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/ezrec/rpnc/calc"
	"github.com/ezrec/rpnc/codegen"
	"github.com/ezrec/rpnc/token"
	"github.com/ezrec/rpnc/translate"
)

// create opens an output file, or stdout for "-".
func create(path string) (w io.WriteCloser, err error) {
	if path == "-" {
		w = nopCloser{os.Stdout}
		return
	}
	return os.Create(path)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// printLine reports one evaluated line.
func printLine(w io.Writer, n int, line *calc.Line) {
	switch {
	case line.Err != nil:
		fmt.Fprintf(w, "line %02d: '%v' -> error: %v\n", n, line.Text, line.Err)
	case len(line.Diags) != 0:
		fmt.Fprintf(w, "line %02d: '%v' -> %v", n, line.Text, line.Result)
		for _, diag := range line.Diags {
			fmt.Fprintf(w, " [%v]", diag)
		}
		fmt.Fprintln(w)
	default:
		fmt.Fprintf(w, "line %02d: '%v' -> %v\n", n, line.Text, line.Result)
	}
}

// writeTokens writes the token text of each valid line, one line each.
func writeTokens(path string, s *calc.Session) (err error) {
	w, err := create(path)
	if err != nil {
		return
	}
	defer w.Close()

	for _, tokens := range s.Program() {
		_, err = fmt.Fprintln(w, token.Join(tokens))
		if err != nil {
			return
		}
	}

	return
}

// printListing writes the generated program to w.
func printListing(w io.Writer, s *calc.Session) (err error) {
	listing, err := s.Compile()
	if err != nil {
		return
	}

	_, err = io.WriteString(w, strings.Join(listing, "\n")+"\n")

	return
}

// writeListing writes the generated program to a file.
func writeListing(path string, s *calc.Session) (err error) {
	w, err := create(path)
	if err != nil {
		return
	}
	defer w.Close()

	return printListing(w, s)
}

// runTarget executes the session on the emulator and prints the results.
func runTarget(w io.Writer, s *calc.Session) (err error) {
	emu, err := s.Execute()
	if err != nil {
		return
	}

	results, err := emu.Results()
	if err != nil {
		return
	}
	for n, value := range results {
		fmt.Fprintf(w, "target %02d: %v\n", n+1, value)
	}

	flags, err := emu.Flags()
	if err != nil {
		return
	}
	fmt.Fprintf(w, "target flags: %v, %d ticks\n", flags, emu.Ticks())

	return
}

// check prints the host/target agreement of each line.
func check(w io.Writer, s *calc.Session) (failed bool, err error) {
	agreements, err := s.Check()
	if err != nil {
		return
	}

	for _, agreement := range agreements {
		state := "agree"
		switch {
		case !agreement.InEnvelope && agreement.Agree:
			state = "agree (outside)"
		case !agreement.InEnvelope:
			state = "differ (outside)"
		case !agreement.Agree:
			state = "DIFFER"
			failed = true
		}
		fmt.Fprintf(w, "line %02d: '%v' host %v target %v: %v\n",
			agreement.LineNo, agreement.Text, agreement.Host, agreement.Target, state)
	}

	return
}

func main() {
	var output string
	var tokens string
	var run bool
	var verify bool
	var depth int
	var ticks int
	var verbose bool
	var interactive bool
	var lang string

	flag.StringVar(&output, "o", "", "Assembly listing output ('-' for stdout)")
	flag.StringVar(&tokens, "t", "", "Token file output ('-' for stdout)")
	flag.BoolVar(&run, "run", false, "Run the program on the emulator and print the target results")
	flag.BoolVar(&verify, "check", false, "Print host/target agreement")
	flag.IntVar(&depth, "depth", codegen.DefaultConfig.StackDepth, "Target operand stack depth")
	flag.IntVar(&ticks, "ticks", 0, "Emulator tick limit (0 for the default)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&interactive, "i", false, "Interactive mode")
	flag.StringVar(&lang, "lang", "", "Message language (BCP 47 tag), overriding the locale")

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	if len(lang) != 0 {
		tag, err := language.Parse(lang)
		if err != nil {
			log.Fatalf("%v: -lang %v: %v", os.Args[0], lang, err)
		}
		translate.SetLanguage(tag)
	}

	session := calc.NewSession()
	session.Verbose = verbose
	session.TickLimit = ticks
	session.Config = codegen.Config{
		StackDepth:   depth,
		HistorySlots: codegen.DefaultConfig.HistorySlots,
	}

	err := session.Config.Validate()
	if err != nil {
		log.Fatalf("%v: -depth %v: %v", os.Args[0], depth, err)
	}

	if interactive {
		err = repl(session)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	input := io.Reader(os.Stdin)
	name := "-"
	if flag.NArg() == 1 && flag.Arg(0) != "-" {
		name = flag.Arg(0)
		inf, err := os.Open(name)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		defer inf.Close()
		input = inf
	}

	_, err = session.Run(input)
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}

	// Widen the history to the input, up to the one byte counter limit.
	if n := len(session.Program()); n > session.Config.HistorySlots && n <= 255 {
		session.Config.HistorySlots = n
	}

	for n := range session.Lines {
		printLine(os.Stdout, n+1, &session.Lines[n])
	}

	if len(tokens) != 0 {
		err = writeTokens(tokens, session)
		if err != nil {
			log.Fatalf("%v: %v", tokens, err)
		}
	}

	if len(output) != 0 {
		err = writeListing(output, session)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if run {
		err = runTarget(os.Stdout, session)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
	}

	if verify {
		failed, err := check(os.Stdout, session)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		if failed {
			os.Exit(1)
		}
	}
}
