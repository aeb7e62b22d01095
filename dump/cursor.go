package dump

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alc6/oradump/providers"
)

// Cursor walks the rows of one table once. Its column descriptors are
// captured before the first row is read and stay valid until Close.
// A cursor cannot be rewound; open a new one to read the table again.
type Cursor struct {
	table   TableRef
	rows    *sql.Rows
	columns []ColumnDescriptor
	values  []any
	dest    []any
}

// OpenCursor runs SELECT * on the table and captures its columns.
func OpenCursor(ctx context.Context, q providers.Querier, table TableRef) (*Cursor, error) {
	rows, err := q.QueryContext(ctx, "SELECT * FROM "+string(table))
	if err != nil {
		return nil, &TableError{Table: table, Kind: ErrRowQueryFailure, Err: err}
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, &TableError{Table: table, Kind: ErrRowQueryFailure, Err: fmt.Errorf("read column types: %w", err)}
	}

	types := make([]ColumnType, len(columnTypes))
	for i, ct := range columnTypes {
		types[i] = ct
	}

	c := &Cursor{
		table:   table,
		rows:    rows,
		columns: DescribeColumns(types),
		values:  make([]any, len(columnTypes)),
		dest:    make([]any, len(columnTypes)),
	}
	for i := range c.values {
		c.dest[i] = &c.values[i]
	}
	return c, nil
}

// Columns returns the descriptors captured when the cursor was opened.
func (c *Cursor) Columns() []ColumnDescriptor {
	return c.columns
}

// Next advances to the next row.
func (c *Cursor) Next() bool {
	return c.rows.Next()
}

// Row decodes the current row. The returned cells are only valid until the
// next call to Next.
func (c *Cursor) Row() ([]Cell, error) {
	if err := c.rows.Scan(c.dest...); err != nil {
		return nil, &TableError{Table: c.table, Kind: ErrRowDecodeFailure, Err: err}
	}
	cells := make([]Cell, len(c.values))
	for i, v := range c.values {
		cells[i] = NewCell(v)
	}
	return cells, nil
}

// Err returns the error, if any, that ended the iteration.
func (c *Cursor) Err() error {
	if err := c.rows.Err(); err != nil {
		return &TableError{Table: c.table, Kind: ErrRowQueryFailure, Err: err}
	}
	return nil
}

// Close releases the underlying result set.
func (c *Cursor) Close() error {
	return c.rows.Close()
}
