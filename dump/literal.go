package dump

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

// UndeterminedPolicy decides what is written for a cell whose null-ness
// cannot be determined or whose binary content cannot be read.
type UndeterminedPolicy int

const (
	// UndeterminedNull writes NULL so every INSERT keeps one value per column.
	UndeterminedNull UndeterminedPolicy = iota
	// UndeterminedOmit writes nothing for the cell. The INSERT then carries
	// fewer values than columns and will be rejected on replay.
	UndeterminedOmit
)

func (p UndeterminedPolicy) String() string {
	switch p {
	case UndeterminedNull:
		return "null"
	case UndeterminedOmit:
		return "omit"
	default:
		return fmt.Sprintf("UndeterminedPolicy(%d)", int(p))
	}
}

// ParseUndeterminedPolicy parses "null" or "omit".
func ParseUndeterminedPolicy(s string) (UndeterminedPolicy, error) {
	switch strings.ToLower(s) {
	case "", "null":
		return UndeterminedNull, nil
	case "omit":
		return UndeterminedOmit, nil
	default:
		return 0, fmt.Errorf("unknown undetermined value policy: %s", s)
	}
}

// Encoder turns cells into SQL literals.
type Encoder struct {
	// EscapeQuotes doubles single quotes inside quoted literals. Without it
	// text containing ' produces invalid SQL.
	EscapeQuotes bool
	Undetermined UndeterminedPolicy

	table TableRef
}

// NewEncoder returns an encoder with quote escaping on and the NULL policy.
func NewEncoder() Encoder {
	return Encoder{EscapeQuotes: true, Undetermined: UndeterminedNull}
}

// ForTable returns a copy of the encoder that names table in its warnings.
func (e Encoder) ForTable(table TableRef) Encoder {
	e.table = table
	return e
}

// Literal encodes one cell for the given column. ok is false when no
// literal must be written.
func (e Encoder) Literal(col ColumnDescriptor, cell Cell) (literal string, ok bool) {
	null, err := cell.IsNull()
	if err != nil {
		return e.undetermined(col, err)
	}
	if null {
		return "NULL", true
	}

	switch col.Kind {
	case KindText:
		return "'" + e.quote(cell.Text()) + "'", true
	case KindNumber:
		return cell.Text(), true
	case KindDate:
		return "TO_DATE('" + e.quote(cell.Text()) + "','YYYY-MM-DD HH24:MI:SS')", true
	case KindBinary:
		data, err := cell.Bytes()
		if err != nil {
			return e.undetermined(col, err)
		}
		return "HEXTORAW('" + HexUpper(data) + "')", true
	default:
		return "'not supported:" + e.quote(col.DeclaredType) + "'", true
	}
}

// Literals encodes a full row. Cells without a literal are skipped.
func (e Encoder) Literals(columns []ColumnDescriptor, cells []Cell) []string {
	literals := make([]string, 0, len(cells))
	for i, cell := range cells {
		if literal, ok := e.Literal(columns[i], cell); ok {
			literals = append(literals, literal)
		}
	}
	return literals
}

func (e Encoder) undetermined(col ColumnDescriptor, err error) (string, bool) {
	slog.Warn("value could not be read",
		"table", e.table, "column", col.Name, "type", col.DeclaredType, "policy", e.Undetermined.String(), "error", err)
	if e.Undetermined == UndeterminedOmit {
		return "", false
	}
	return "NULL", true
}

func (e Encoder) quote(s string) string {
	if !e.EscapeQuotes {
		return s
	}
	return strings.ReplaceAll(s, "'", "''")
}

// HexUpper renders bytes as uppercase hex digits, two per byte.
func HexUpper(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}
