// Package script reads dump scripts back into statements.
package script

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Statement is one terminated statement of a script.
type Statement struct {
	Text string
	Line int
}

// Split cuts a script at every ';' that is outside a single-quoted literal
// or a double-quoted identifier. Text after the last terminator is returned
// as a final statement when it is not blank.
func Split(r io.Reader) ([]Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return SplitString(string(data)), nil
}

// SplitString is Split over an in-memory script.
func SplitString(text string) []Statement {
	var (
		statements []Statement
		current    strings.Builder
		inLiteral  bool
		inIdent    bool
		started    bool
		line       = 1
		startLine  = 1
	)

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			statements = append(statements, Statement{Text: stmt, Line: startLine})
		}
		current.Reset()
		started = false
	}

	for _, r := range text {
		if !started && !unicode.IsSpace(r) {
			started, startLine = true, line
		}
		switch {
		case r == '\'' && !inIdent:
			inLiteral = !inLiteral
		case r == '"' && !inLiteral:
			inIdent = !inIdent
		case r == ';' && !inLiteral && !inIdent:
			flush()
			continue
		}
		if r == '\n' {
			line++
		}
		current.WriteRune(r)
	}
	flush()

	return statements
}
