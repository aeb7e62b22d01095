package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alc6/oradump/dump"
	"github.com/alc6/oradump/providers"
)

// MockConnectionProvider is a mock implementation of ConnectionProvider for testing
type MockConnectionProvider struct {
	ConnectFunc func(ctx context.Context) error
	ConnFunc    func(ctx context.Context) (Handle, error)
	CloseFunc   func() error

	// Track calls for verification
	ConnectCalled bool
	ConnCalled    bool
	CloseCalled   bool
	Handle        *MockHandle
}

func (m *MockConnectionProvider) Connect(ctx context.Context) error {
	m.ConnectCalled = true
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx)
	}
	return nil
}

func (m *MockConnectionProvider) Conn(ctx context.Context) (Handle, error) {
	m.ConnCalled = true
	if m.ConnFunc != nil {
		return m.ConnFunc(ctx)
	}
	m.Handle = &MockHandle{}
	return m.Handle, nil
}

func (m *MockConnectionProvider) Close() error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockHandle is a connection that refuses every query
type MockHandle struct {
	CloseCalled bool
}

func (h *MockHandle) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, fmt.Errorf("unexpected query: %s", query)
}

func (h *MockHandle) Close() error {
	h.CloseCalled = true
	return nil
}

// MockTableDumper is a mock implementation of TableDumper for testing
type MockTableDumper struct {
	ListTablesFunc func(ctx context.Context, q providers.Querier, explicit string) ([]dump.TableRef, error)
	DumpFunc       func(ctx context.Context, q providers.Querier, tables []dump.TableRef) (dump.Summary, error)

	ListTablesCalled bool
	DumpCalled       bool
	DumpedTables     []dump.TableRef
}

func (m *MockTableDumper) ListTables(ctx context.Context, q providers.Querier, explicit string) ([]dump.TableRef, error) {
	m.ListTablesCalled = true
	if m.ListTablesFunc != nil {
		return m.ListTablesFunc(ctx, q, explicit)
	}
	return dump.ParseTableList(explicit), nil
}

func (m *MockTableDumper) Dump(ctx context.Context, q providers.Querier, tables []dump.TableRef) (dump.Summary, error) {
	m.DumpCalled = true
	m.DumpedTables = tables
	if m.DumpFunc != nil {
		return m.DumpFunc(ctx, q, tables)
	}
	return dump.Summary{Tables: len(tables)}, nil
}

// MockSchemaExtractor is a mock implementation of SchemaExtractor for testing
type MockSchemaExtractor struct {
	ExtractSchemaFunc func(ctx context.Context, q providers.Querier, tables []dump.TableRef) ([]providers.Table, error)
	FormatSchemaFunc  func(tables []providers.Table) string
}

func (m *MockSchemaExtractor) ExtractSchema(ctx context.Context, q providers.Querier, tables []dump.TableRef) ([]providers.Table, error) {
	if m.ExtractSchemaFunc != nil {
		return m.ExtractSchemaFunc(ctx, q, tables)
	}
	return []providers.Table{}, nil
}

func (m *MockSchemaExtractor) FormatSchema(tables []providers.Table) string {
	if m.FormatSchemaFunc != nil {
		return m.FormatSchemaFunc(tables)
	}
	return ""
}

// StaticDDLProvider returns the same fragments for every table
type StaticDDLProvider struct {
	Fragments map[string][]string
}

func (p *StaticDDLProvider) Name() string {
	return "static"
}

func (p *StaticDDLProvider) FetchDDL(ctx context.Context, q providers.Querier, owner, table string) ([]string, error) {
	fragments, ok := p.Fragments[table]
	if !ok {
		return nil, fmt.Errorf("ORA-31603: object %q of type TABLE not found in schema", table)
	}
	return fragments, nil
}

// SQLiteConnectionProvider serves connections from an in-memory database
// so the real dumper can run without an Oracle instance.
type SQLiteConnectionProvider struct {
	Setup []string
	db    *sql.DB
}

func (p *SQLiteConnectionProvider) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return err
	}
	// every connection of an in-memory database is a separate database
	db.SetMaxOpenConns(1)
	for _, stmt := range p.Setup {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return fmt.Errorf("setup %q: %w", stmt, err)
		}
	}
	p.db = db
	return nil
}

func (p *SQLiteConnectionProvider) Conn(ctx context.Context) (Handle, error) {
	if p.db == nil {
		return nil, fmt.Errorf("connection pool is not open")
	}
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (p *SQLiteConnectionProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// SimulateError simulates various database errors for testing
func SimulateError(errType string) error {
	switch errType {
	case "connection":
		return fmt.Errorf("ORA-12541: TNS:no listener")
	case "login":
		return fmt.Errorf("ORA-01017: invalid username/password; logon denied")
	case "missing_table":
		return fmt.Errorf("ORA-00942: table or view does not exist")
	default:
		return fmt.Errorf("simulated error: %s", errType)
	}
}
