package dump

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alc6/oradump/providers"
)

// DefineOff stops SQL*Plus from treating & in the data as a substitution
// variable during replay.
const DefineOff = "SET DEFINE OFF;\n"

// WriteRows writes DefineOff followed by one INSERT per row of the table.
// It returns the number of rows written.
func WriteRows(ctx context.Context, w io.Writer, q providers.Querier, table TableRef, enc Encoder) (int, error) {
	cursor, err := OpenCursor(ctx, q, table)
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	if _, err := io.WriteString(w, DefineOff); err != nil {
		return 0, fmt.Errorf("write output: %w", err)
	}

	columns := cursor.Columns()
	prefix := InsertPrefix(table, columns)
	enc = enc.ForTable(table)

	count := 0
	for cursor.Next() {
		cells, err := cursor.Row()
		if err != nil {
			return count, err
		}
		if _, err := io.WriteString(w, prefix+"VALUES ("+strings.Join(enc.Literals(columns, cells), ",")+");\n"); err != nil {
			return count, fmt.Errorf("write output: %w", err)
		}
		count++
	}

	return count, cursor.Err()
}

// InsertPrefix renders `Insert Into <table> ("C1","C2") `, shared by every
// row of the table.
func InsertPrefix(table TableRef, columns []ColumnDescriptor) string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = `"` + col.Name + `"`
	}
	return "Insert Into " + string(table) + " (" + strings.Join(names, ",") + ") "
}

// FormatInsert renders one complete INSERT statement, terminator included.
func FormatInsert(table TableRef, columns []ColumnDescriptor, cells []Cell, enc Encoder) string {
	enc = enc.ForTable(table)
	return InsertPrefix(table, columns) + "VALUES (" + strings.Join(enc.Literals(columns, cells), ",") + ");"
}
