package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/ezrec/rpnc/calc"
)

const replHelp = `enter an RPN expression per line, or a command:
  :asm   print the listing of the lines so far
  :mem   print the MEM cell
  :hist  print the result history
  :run   run the lines so far on the emulator
  :quit  exit`

// command runs a ':' command, returning true to quit.
func command(w io.Writer, s *calc.Session, text string) (quit bool) {
	switch strings.ToLower(text) {
	case ":quit", ":q":
		quit = true
	case ":asm":
		err := printListing(w, s)
		if err != nil {
			fmt.Fprintln(w, err)
		}
	case ":mem":
		value, ok := s.Context.Memory.Load()
		if !ok {
			fmt.Fprintln(w, "MEM: unset")
			break
		}
		fmt.Fprintf(w, "MEM: %v\n", value)
	case ":hist":
		results := s.Context.History.Results
		for n := range results {
			fmt.Fprintf(w, "%d RES: %v\n", n+1, results[len(results)-1-n])
		}
	case ":run":
		err := runTarget(w, s)
		if err != nil {
			fmt.Fprintln(w, err)
		}
	default:
		fmt.Fprintln(w, replHelp)
	}

	return
}

// repl reads expressions from the terminal until EOF or :quit.
func repl(s *calc.Session) (err error) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	fmt.Println("rpnc: type :help for commands")

	for {
		var text string
		text, err = ln.Prompt("rpn> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			err = nil
			return
		}
		if err != nil {
			return
		}

		text = strings.TrimSpace(text)
		if len(text) == 0 {
			continue
		}
		ln.AppendHistory(text)

		if strings.HasPrefix(text, ":") {
			if command(os.Stdout, s, text) {
				return
			}
			continue
		}

		line := s.Eval(text)
		printLine(os.Stdout, len(s.Lines), &line)
	}
}
