package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alc6/oradump/config"
	"github.com/alc6/oradump/dump"
	"github.com/alc6/oradump/providers"
)

// StartMCPServer starts the MCP server for table dumps
func StartMCPServer() error {
	s := server.NewMCPServer(
		"oradump",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	dumpTablesTool := mcp.NewTool("dump_tables",
		mcp.WithDescription("Dump Oracle tables as a SQL script of DDL and INSERT statements"),
		mcp.WithString("ocistring",
			mcp.Description("Connect string, eg. admin/pass@//123.45.67.89/XEPDB1 (default: server configuration)"),
		),
		mcp.WithString("dbenv",
			mcp.Description("Environment variable holding the connect string"),
		),
		mcp.WithString("tables",
			mcp.Description("Table names separated by ','; all tables of the schema when empty"),
		),
		mcp.WithBoolean("drop",
			mcp.Description("Write DROP TABLE before each table"),
		),
		mcp.WithString("ddl_source",
			mcp.Description("Where DDL comes from: 'metadata' (default) or 'dictionary'"),
			mcp.Enum("metadata", "dictionary"),
		),
	)

	s.AddTool(dumpTablesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDumpTables(ctx, request)
	})

	listTablesTool := mcp.NewTool("list_tables",
		mcp.WithDescription("List the tables owned by the connected schema"),
		mcp.WithString("ocistring",
			mcp.Description("Connect string (default: server configuration)"),
		),
		mcp.WithString("dbenv",
			mcp.Description("Environment variable holding the connect string"),
		),
	)

	s.AddTool(listTablesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListTables(ctx, request)
	})

	validateDumpTool := mcp.NewTool("validate_dump",
		mcp.WithDescription("Validate a dump script, or every .sql file of a directory, without running it"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a dump script or a directory of scripts"),
		),
	)

	s.AddTool(validateDumpTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleValidateDump(ctx, request)
	})

	slog.Info("starting oradump mcp server")
	return server.ServeStdio(s)
}

// requestConfig applies the tool arguments over the server configuration.
func requestConfig(base *config.Config, request mcp.CallToolRequest) (*config.Config, error) {
	cfg := *base
	cfg.Connection.OCIString = request.GetString("ocistring", base.Connection.OCIString)
	cfg.Connection.DBEnv = request.GetString("dbenv", base.Connection.DBEnv)
	cfg.Drop = request.GetBool("drop", base.Drop)
	cfg.DDLSource = request.GetString("ddl_source", base.DDLSource)
	cfg.Output = ""

	if tables := request.GetString("tables", ""); tables != "" {
		cfg.Tables = nil
		for _, table := range dump.ParseTableList(tables) {
			cfg.Tables = append(cfg.Tables, string(table))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// handleDumpTables processes the dump_tables tool request
func handleDumpTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := requestConfig(settings, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	connProvider, err := newConnectionProvider(cfg, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, err := dumpTablesCore(ctx, cfg, connProvider)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(output), nil
}

// dumpTablesCore runs a dump into memory, separated for testing
func dumpTablesCore(ctx context.Context, cfg *config.Config, connProvider ConnectionProvider) (string, error) {
	var buf bytes.Buffer

	dumper, err := newTableDumper(&buf, cfg)
	if err != nil {
		return "", err
	}

	return dumpTablesCoreWithDeps(ctx, cfg.TableList(), &buf, connProvider, dumper)
}

// dumpTablesCoreWithDeps is the testable version with dependency injection
func dumpTablesCoreWithDeps(ctx context.Context, explicitTables string, buf *bytes.Buffer,
	connProvider ConnectionProvider, dumper TableDumper) (string, error) {
	summary, err := processDump(ctx, explicitTables, connProvider, dumper)
	if err != nil {
		return "", err
	}

	if summary.Tables == 0 {
		return "", fmt.Errorf("no tables found to dump")
	}

	return buf.String(), nil
}

// handleListTables processes the list_tables tool request
func handleListTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := requestConfig(settings, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	connProvider, err := newConnectionProvider(cfg, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	dumper := NewOracleTableDumper(nil, providers.NewMetadataProvider(), dump.DefaultOptions())
	output, err := listTablesCore(ctx, cfg.TableList(), connProvider, dumper)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(output), nil
}

// listTablesCore returns the table list as JSON
func listTablesCore(ctx context.Context, explicitTables string, connProvider ConnectionProvider, dumper TableDumper) (string, error) {
	tables, err := processListTables(ctx, explicitTables, connProvider, dumper)
	if err != nil {
		return "", err
	}

	names := make([]string, len(tables))
	for i, table := range tables {
		names[i] = string(table)
	}

	jsonOutput, err := json.MarshalIndent(map[string]any{
		"table_count": len(names),
		"tables":      names,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	return string(jsonOutput), nil
}

// handleValidateDump processes the validate_dump tool request
func handleValidateDump(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	output, _, err := validateDumpCore(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("dump validation completed:\n\n%s", output)), nil
}
