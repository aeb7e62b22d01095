package main

import (
	"context"

	"github.com/alc6/oradump/dump"
	"github.com/alc6/oradump/providers"
)

// Handle is one dedicated database connection
type Handle interface {
	providers.Querier
	// Close returns the connection to the pool
	Close() error
}

// ConnectionProvider handles the connection pool lifecycle
type ConnectionProvider interface {
	// Connect opens the pool and checks the database answers
	Connect(ctx context.Context) error
	// Conn takes one connection out of the pool
	Conn(ctx context.Context) (Handle, error)
	// Close releases the pool
	Close() error
}

// TableDumper handles enumerating tables and writing their script
type TableDumper interface {
	// ListTables returns the explicit list, or every table of the schema
	ListTables(ctx context.Context, q providers.Querier, explicit string) ([]dump.TableRef, error)
	// Dump writes DDL and rows for the tables, in order
	Dump(ctx context.Context, q providers.Querier, tables []dump.TableRef) (dump.Summary, error)
}

// SchemaExtractor handles describing tables from the data dictionary
type SchemaExtractor interface {
	// ExtractSchema reads the structure of the tables
	ExtractSchema(ctx context.Context, q providers.Querier, tables []dump.TableRef) ([]providers.Table, error)
	// FormatSchema formats the structure as human-readable text
	FormatSchema(tables []providers.Table) string
}
