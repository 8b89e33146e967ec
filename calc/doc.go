// Package calc drives an RPN calculator session: each input line is
// tokenized and evaluated on the host, and the accepted lines can be
// compiled into one target program and checked against the host results.
package calc
