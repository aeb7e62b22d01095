package script

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrNotInsert = errors.New("not an insert statement")

// Insert is a parsed INSERT statement. Values keep their literal SQL text.
type Insert struct {
	Table   string
	Columns []string
	Values  []string
}

// ParseInsert parses `Insert Into <table> ("A","B") VALUES (<lit>,<lit>)`,
// with or without the trailing terminator.
func ParseInsert(stmt string) (Insert, error) {
	stmt = strings.TrimSuffix(strings.TrimSpace(stmt), ";")

	const prefix = "INSERT INTO "
	if len(stmt) < len(prefix) || !strings.EqualFold(stmt[:len(prefix)], prefix) {
		return Insert{}, ErrNotInsert
	}
	rest := stmt[len(prefix):]

	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return Insert{}, fmt.Errorf("%w: missing column list", ErrNotInsert)
	}
	ins := Insert{Table: strings.TrimSpace(rest[:open])}
	rest = rest[open:]

	columns, rest, err := parenthesized(rest)
	if err != nil {
		return Insert{}, fmt.Errorf("column list: %w", err)
	}
	for _, col := range splitTopLevel(columns) {
		ins.Columns = append(ins.Columns, strings.Trim(strings.TrimSpace(col), `"`))
	}

	rest = strings.TrimSpace(rest)
	const values = "VALUES"
	if len(rest) < len(values) || !strings.EqualFold(rest[:len(values)], values) {
		return Insert{}, fmt.Errorf("%w: missing VALUES", ErrNotInsert)
	}
	rest = strings.TrimSpace(rest[len(values):])

	valueList, rest, err := parenthesized(rest)
	if err != nil {
		return Insert{}, fmt.Errorf("value list: %w", err)
	}
	if strings.TrimSpace(rest) != "" {
		return Insert{}, fmt.Errorf("unexpected text after value list: %q", rest)
	}
	if strings.TrimSpace(valueList) != "" {
		for _, v := range splitTopLevel(valueList) {
			ins.Values = append(ins.Values, strings.TrimSpace(v))
		}
	}

	return ins, nil
}

// parenthesized returns the content of the leading (...) group and the text
// after it.
func parenthesized(s string) (inner, rest string, err error) {
	if !strings.HasPrefix(s, "(") {
		return "", "", errors.New("expected (")
	}
	depth, inLiteral, inIdent := 0, false, false
	for i, r := range s {
		switch {
		case r == '\'' && !inIdent:
			inLiteral = !inLiteral
		case r == '"' && !inLiteral:
			inIdent = !inIdent
		case inLiteral || inIdent:
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], nil
			}
		}
	}
	return "", "", errors.New("unbalanced parentheses")
}

// splitTopLevel splits at commas outside literals, identifiers and nested
// parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, inLiteral, inIdent, start := 0, false, false, 0
	for i, r := range s {
		switch {
		case r == '\'' && !inIdent:
			inLiteral = !inLiteral
		case r == '"' && !inLiteral:
			inIdent = !inIdent
		case inLiteral || inIdent:
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// Unquote decodes a single-quoted SQL literal, collapsing doubled quotes.
func Unquote(literal string) (string, bool) {
	if len(literal) < 2 || literal[0] != '\'' || literal[len(literal)-1] != '\'' {
		return "", false
	}
	return strings.ReplaceAll(literal[1:len(literal)-1], "''", "'"), true
}

// DecodeHexRaw decodes a HEXTORAW('...') literal.
func DecodeHexRaw(literal string) ([]byte, error) {
	const prefix, suffix = "HEXTORAW(", ")"
	if !strings.HasPrefix(literal, prefix) || !strings.HasSuffix(literal, suffix) {
		return nil, fmt.Errorf("not a HEXTORAW literal: %q", literal)
	}
	digits, ok := Unquote(literal[len(prefix) : len(literal)-len(suffix)])
	if !ok {
		return nil, fmt.Errorf("HEXTORAW argument is not quoted: %q", literal)
	}
	return hex.DecodeString(digits)
}
