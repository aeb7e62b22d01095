package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alc6/oradump/dump"
)

// withHandle connects, takes one connection and runs fn on it. The
// connection and the pool are released whatever fn returns.
func withHandle(ctx context.Context, connProvider ConnectionProvider, fn func(Handle) error) error {
	slog.Info("connecting to database")
	if err := connProvider.Connect(ctx); err != nil {
		return fmt.Errorf("%w: %w", dump.ErrConnectionFailure, err)
	}
	defer func() {
		if err := connProvider.Close(); err != nil {
			slog.Error("failed to close connection pool", "error", err)
		}
	}()

	handle, err := connProvider.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", dump.ErrConnectionFailure, err)
	}
	defer func() {
		if err := handle.Close(); err != nil {
			slog.Error("failed to release connection", "error", err)
		}
	}()

	return fn(handle)
}

func processDump(ctx context.Context, explicitTables string, connProvider ConnectionProvider, dumper TableDumper) (dump.Summary, error) {
	var summary dump.Summary

	err := withHandle(ctx, connProvider, func(handle Handle) error {
		slog.Info("listing tables")
		tables, err := dumper.ListTables(ctx, handle, explicitTables)
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}

		if len(tables) == 0 {
			slog.Warn("no tables to dump")
			return nil
		}
		slog.Info("found tables", "count", len(tables))

		summary, err = dumper.Dump(ctx, handle, tables)
		if err != nil {
			return fmt.Errorf("failed to dump tables: %w", err)
		}
		return nil
	})

	return summary, err
}

func processListTables(ctx context.Context, explicitTables string, connProvider ConnectionProvider, dumper TableDumper) ([]dump.TableRef, error) {
	var tables []dump.TableRef

	err := withHandle(ctx, connProvider, func(handle Handle) error {
		var err error
		tables, err = dumper.ListTables(ctx, handle, explicitTables)
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}
		return nil
	})

	return tables, err
}

func processDescribe(ctx context.Context, explicitTables string, connProvider ConnectionProvider, dumper TableDumper, extractor SchemaExtractor) (string, error) {
	var output string

	err := withHandle(ctx, connProvider, func(handle Handle) error {
		tables, err := dumper.ListTables(ctx, handle, explicitTables)
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}

		slog.Info("extracting schema", "tables", len(tables))
		schema, err := extractor.ExtractSchema(ctx, handle, tables)
		if err != nil {
			return fmt.Errorf("failed to extract schema: %w", err)
		}

		output = extractor.FormatSchema(schema)
		return nil
	})

	return output, err
}
