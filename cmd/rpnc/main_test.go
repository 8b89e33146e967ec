package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rpnc/calc"
)

func session(t *testing.T, lines ...string) (s *calc.Session) {
	t.Helper()

	s = calc.NewSession()
	_, err := s.Run(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestPrintLine(t *testing.T) {
	assert := assert.New(t)

	s := session(t, "3 2 +", "+", "3 ? 2")

	var buf bytes.Buffer
	for n := range s.Lines {
		printLine(&buf, n+1, &s.Lines[n])
	}

	text := buf.String()
	assert.Contains(text, "line 01: '3 2 +' -> 5\n")
	assert.Contains(text, "line 02: '+' -> 0 [")
	assert.Contains(text, "line 03: '3 ? 2' -> error:")
}

func TestWriteTokens(t *testing.T) {
	assert := assert.New(t)

	s := session(t, "(10 5 +)", "bad!", "1 RES")
	path := filepath.Join(t.TempDir(), "tokens.txt")

	assert.NoError(writeTokens(path, s))
	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal("10 5 +\n1 RES\n", string(data))
}

func TestWriteListing(t *testing.T) {
	assert := assert.New(t)

	s := session(t, "3 2 +")
	path := filepath.Join(t.TempDir(), "out.s")

	assert.NoError(writeListing(path, s))
	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Contains(string(data), "    call rpn_add\n")
}

func TestCheck(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	failed, err := check(&buf, session(t, "3 2 +", "10 0 /"))
	assert.NoError(err)
	assert.False(failed)
	assert.Contains(buf.String(), "line 01: '3 2 +' host 5 target 5: agree\n")
	assert.Contains(buf.String(), "line 02: '10 0 /' host 0 target 65535: differ (outside)\n")

	buf.Reset()
	assert.NoError(runTarget(&buf, session(t, "3 2 +", "10 0 /")))
	assert.Contains(buf.String(), "target 02: 65535\n")
	assert.Contains(buf.String(), "target flags: divzero")
}

func TestCommand(t *testing.T) {
	assert := assert.New(t)

	s := session(t, "5 MEM", "2 3 *")

	var buf bytes.Buffer
	assert.False(command(&buf, s, ":mem"))
	assert.Equal("MEM: 5\n", buf.String())

	buf.Reset()
	assert.False(command(&buf, s, ":hist"))
	assert.Equal("1 RES: 6\n2 RES: 5\n", buf.String())

	buf.Reset()
	assert.False(command(&buf, s, ":help"))
	assert.Contains(buf.String(), ":asm")

	buf.Reset()
	assert.False(command(&buf, s, ":asm"))
	assert.Contains(buf.String(), "    call mem_store\n")
	assert.Contains(buf.String(), "end_program:")

	buf.Reset()
	assert.False(command(&buf, s, ":run"))
	assert.Contains(buf.String(), "target 01: 5\n")

	assert.True(command(&buf, s, ":quit"))

	buf.Reset()
	assert.False(command(&buf, calc.NewSession(), ":mem"))
	assert.Equal("MEM: unset\n", buf.String())
}
