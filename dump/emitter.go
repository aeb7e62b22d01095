package dump

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alc6/oradump/providers"
	"github.com/alc6/oradump/script"
)

// Options are fixed for a whole run.
type Options struct {
	// DropTable writes DROP TABLE <name>; before each DDL block.
	DropTable bool
	Encoder   Encoder
}

// DefaultOptions returns options with the default encoder and no DROP.
func DefaultOptions() Options {
	return Options{Encoder: NewEncoder()}
}

// TableStats is what DumpTable reports for one table.
type TableStats struct {
	Table TableRef
	Rows  int
}

// Summary totals a run.
type Summary struct {
	Tables int
	Rows   int
}

type flusher interface {
	Flush() error
}

// Emitter writes the script for a sequence of tables to one writer, using
// one connection for every query.
type Emitter struct {
	out      io.Writer
	q        providers.Querier
	provider providers.DDLProvider
	opts     Options
}

// NewEmitter creates an emitter. opts is copied.
func NewEmitter(out io.Writer, q providers.Querier, provider providers.DDLProvider, opts Options) *Emitter {
	return &Emitter{out: out, q: q, provider: provider, opts: opts}
}

// Options returns the options the emitter was built with.
func (e *Emitter) Options() Options {
	return e.opts
}

// Dump writes every table in order and stops at the first failure. A
// stopped dump ends with a script.IncompleteMarker line so the partial
// block of the failing table is never taken for a complete script.
func (e *Emitter) Dump(ctx context.Context, tables []TableRef) (Summary, error) {
	var summary Summary
	for _, table := range tables {
		stats, err := e.DumpTable(ctx, table)
		summary.Rows += stats.Rows
		if err != nil {
			e.markIncomplete(table)
			return summary, err
		}
		summary.Tables++
	}

	slog.Info("dump completed", "tables", summary.Tables, "rows", summary.Rows)
	return summary, nil
}

// DumpTable writes the optional DROP, the DDL block, a blank line and the
// row block of one table, then flushes the writer if it buffers.
func (e *Emitter) DumpTable(ctx context.Context, table TableRef) (TableStats, error) {
	stats := TableStats{Table: table}
	slog.Debug("dumping table", "table", table)

	ddl, err := ExtractDDL(ctx, e.q, e.provider, table)
	if err != nil {
		return stats, err
	}

	if e.opts.DropTable {
		if _, err := fmt.Fprintf(e.out, "DROP TABLE %s;\n", table); err != nil {
			return stats, fmt.Errorf("write output: %w", err)
		}
	}
	if _, err := fmt.Fprintln(e.out, ddl); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}

	stats.Rows, err = WriteRows(ctx, e.out, e.q, table, e.opts.Encoder)
	if err != nil {
		return stats, err
	}

	if f, ok := e.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return stats, fmt.Errorf("flush output: %w", err)
		}
	}

	slog.Info("table dumped", "table", table, "rows", stats.Rows)
	return stats, nil
}

func (e *Emitter) markIncomplete(table TableRef) {
	_, err := fmt.Fprintf(e.out, "%s %s\n", script.IncompleteMarker, table)
	if f, ok := e.out.(flusher); ok && err == nil {
		err = f.Flush()
	}
	if err != nil {
		slog.Warn("failed to mark dump as incomplete", "table", table, "error", err)
	}
}
