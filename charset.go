package langident

// CharsetTable loading: a small text file mapping an encoding name to
// the script it implies (e.g. "ISO-8859-7 Greek"), one pair per line.
// Parsed the same iteratee-over-lines way the teacher parses ARPA
// files — split into lines, then whitespace-split each line — since
// the actual mapping is the out-of-scope heuristic (§ Non-goals); only
// the file format and its loader belong here.

import (
	"fmt"

	"github.com/kho/easy"
	"github.com/kho/stream"
)

// CharsetTable maps an encoding name to its implied script name.
type CharsetTable struct {
	scripts map[string]string
}

// ScriptFor returns the script associated with encoding, or "" if the
// table has no entry for it.
func (t *CharsetTable) ScriptFor(encoding string) string {
	return t.scripts[encoding]
}

// Len reports the number of loaded encoding->script mappings.
func (t *CharsetTable) Len() int { return len(t.scripts) }

// LoadCharsetTable reads a charset table file at path.
func LoadCharsetTable(path string) (*CharsetTable, error) {
	in, err := easy.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	t := &CharsetTable{scripts: make(map[string]string)}
	it := charsetTop{t}
	if err := stream.Run(stream.EnumRead(in, lineSplit), it); err != nil {
		return nil, fmt.Errorf("langident: loading charset table %s: %w", path, err)
	}
	return t, nil
}

// charsetTop is the top-level iteratee: every non-blank line is
// "encoding script", lineSplit having already trimmed surrounding
// whitespace and blank lines.
type charsetTop struct {
	table *CharsetTable
}

func (it charsetTop) Final() error { return nil }
func (it charsetTop) Next(line []byte) (stream.Iteratee, bool, error) {
	encoding, rest := tokenSplit(line)
	if encoding == "" {
		return it, true, nil
	}
	script, rest := tokenSplit(rest)
	if script == "" {
		return nil, false, stream.ErrExpect("encoding and script name")
	}
	if len(rest) != 0 {
		return nil, false, stream.ErrExpect("end of line")
	}
	it.table.scripts[encoding] = script
	return it, true, nil
}

// Low-level lexer: split a byte stream into trimmed, non-blank lines,
// then a line into whitespace-separated tokens.

func isSpace(b byte) bool {
	switch b {
	case '\t', '\v', '\f', '\r', ' ':
		return true
	default:
		return false
	}
}

func lineSplit(data []byte, atEOF bool) (int, []byte, error) {
	l, r, n := -1, -1, 0
	for i, b := range data {
		if !isSpace(b) && b != '\n' {
			l = i
			break
		}
	}
	if l < 0 {
		return len(data), nil, nil
	}
	for i, b := range data[l+1:] {
		if b == '\n' {
			r, n = l+i, l+i+2
			break
		}
	}
	if r < 0 {
		if !atEOF {
			return l, nil, nil
		}
		r, n = len(data)-1, len(data)
	}
	for isSpace(data[r]) {
		r--
	}
	return n, data[l : r+1], nil
}

func tokenSplit(line []byte) (string, []byte) {
	r := -1
	for i, b := range line {
		if isSpace(b) {
			r = i
			break
		}
	}
	if r < 0 {
		r = len(line)
	}
	token := string(line[:r])
	for i, b := range line[r:] {
		if !isSpace(b) {
			return token, line[r+i:]
		}
	}
	return token, nil
}
