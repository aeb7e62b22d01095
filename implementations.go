package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/alc6/oradump/connect"
	"github.com/alc6/oradump/dump"
	"github.com/alc6/oradump/providers"
)

type OracleConnectionProvider struct {
	connectString connect.ConnectString
	maxConns      int
	db            *sql.DB
}

func NewOracleConnectionProvider(cs connect.ConnectString, maxConns int) ConnectionProvider {
	return &OracleConnectionProvider{connectString: cs, maxConns: maxConns}
}

func (p *OracleConnectionProvider) Connect(ctx context.Context) error {
	db, err := connect.Open(ctx, p.connectString, p.maxConns)
	if err != nil {
		return err
	}
	p.db = db
	return nil
}

func (p *OracleConnectionProvider) Conn(ctx context.Context) (Handle, error) {
	if p.db == nil {
		return nil, fmt.Errorf("connection pool is not open")
	}
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection from pool: %w", err)
	}
	return conn, nil
}

func (p *OracleConnectionProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

type OracleTableDumper struct {
	out      io.Writer
	provider providers.DDLProvider
	opts     dump.Options
	lister   dump.TableLister
}

func NewOracleTableDumper(out io.Writer, provider providers.DDLProvider, opts dump.Options) TableDumper {
	return &OracleTableDumper{out: out, provider: provider, opts: opts}
}

func (d *OracleTableDumper) ListTables(ctx context.Context, q providers.Querier, explicit string) ([]dump.TableRef, error) {
	return d.lister.List(ctx, q, explicit)
}

func (d *OracleTableDumper) Dump(ctx context.Context, q providers.Querier, tables []dump.TableRef) (dump.Summary, error) {
	slog.Debug("dumping tables", "ddlSource", d.provider.Name(), "drop", d.opts.DropTable,
		"escapeQuotes", d.opts.Encoder.EscapeQuotes, "undetermined", d.opts.Encoder.Undetermined.String())
	return dump.NewEmitter(d.out, q, d.provider, d.opts).Dump(ctx, tables)
}

type OracleSchemaExtractor struct{}

func NewOracleSchemaExtractor() SchemaExtractor {
	return &OracleSchemaExtractor{}
}

func (e *OracleSchemaExtractor) ExtractSchema(ctx context.Context, q providers.Querier, tables []dump.TableRef) ([]providers.Table, error) {
	names := make([]string, len(tables))
	for i, table := range tables {
		names[i] = string(table)
	}
	return providers.ExtractTables(ctx, q, names)
}

func (e *OracleSchemaExtractor) FormatSchema(tables []providers.Table) string {
	return providers.FormatSchemaInfo(tables)
}
