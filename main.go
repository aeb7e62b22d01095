package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alc6/oradump/config"
	"github.com/alc6/oradump/connect"
	"github.com/alc6/oradump/dump"
	"github.com/alc6/oradump/providers"
)

var (
	configPath   string
	ociString    string
	dbEnv        string
	tableList    string
	dropTables   bool
	outputPath   string
	ddlSource    string
	escapeQuotes bool
	undetermined string
	timeout      time.Duration
	logLevel     string
	logFormat    string
	mcpMode      bool

	settings = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "oradump",
	Short: "Dump Oracle tables as a replayable SQL script",
	Long: `oradump writes the DDL and the rows of Oracle tables to standard output as a
SQL script that can be replayed with SQL*Plus or SQLcl on another instance.

For every table it writes an optional DROP TABLE, the DDL returned by
DBMS_METADATA (with the missing statement terminators repaired), a
SET DEFINE OFF directive and one INSERT statement per row.

Modes:
  dump mode (default): writes the script
  mcp mode (--mcp): run as Model Context Protocol server`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: prepare,
	RunE:              runDump,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the tables a dump would include",
	Args:  cobra.NoArgs,
	RunE:  runListTables,
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe columns and indexes of the tables from the data dictionary",
	Args:  cobra.NoArgs,
	RunE:  runDescribe,
}

var validateCmd = &cobra.Command{
	Use:   "validate <script.sql|directory>",
	Short: "Check a dump script and report statements per table",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func main() {
	if err := run(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	if rootCmd.PersistentFlags().Lookup("ocistring") == nil {
		registerFlags()
	}
	if !rootCmd.HasSubCommands() {
		rootCmd.AddCommand(tablesCmd, describeCmd, validateCmd)
	}

	return rootCmd.Execute()
}

func registerFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	pf.StringVarP(&ociString, "ocistring", "o", "", "oci connect string eg. admin/pass@//123.45.67.89/XEPDB1")
	pf.StringVar(&dbEnv, "dbenv", "", "environment variable name which contains oci connect string")
	pf.StringVarP(&tableList, "tables", "t", "", "specify table names separated by ','")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "json", "log format: json or text")
	pf.DurationVar(&timeout, "timeout", 0, "abort the run after this duration (0 means no limit)")

	f := rootCmd.Flags()
	f.BoolVarP(&dropTables, "drop", "d", false, "drop table")
	f.StringVar(&outputPath, "output", "", "write the script to this file instead of standard output")
	f.StringVar(&ddlSource, "ddl-source", "metadata", "DDL source: metadata or dictionary")
	f.BoolVar(&escapeQuotes, "escape-quotes", true, "double single quotes inside text literals")
	f.StringVar(&undetermined, "undetermined", "null", "unreadable values: null writes NULL, omit leaves them out")
	f.BoolVar(&mcpMode, "mcp", false, "Run as Model Context Protocol server")
}

// prepare merges the configuration file and the flags set on the command
// line, then configures logging.
func prepare(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(os.Stderr, cfg.Log); err != nil {
		return err
	}
	settings = cfg
	return nil
}

func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("ocistring") {
		cfg.Connection.OCIString = ociString
	}
	if flags.Changed("dbenv") {
		cfg.Connection.DBEnv = dbEnv
	}
	if flags.Changed("tables") {
		cfg.Tables = nil
		for _, table := range dump.ParseTableList(tableList) {
			cfg.Tables = append(cfg.Tables, string(table))
		}
	}
	if flags.Changed("drop") {
		cfg.Drop = dropTables
	}
	if flags.Changed("output") {
		cfg.Output = outputPath
	}
	if flags.Changed("ddl-source") {
		cfg.DDLSource = ddlSource
	}
	if flags.Changed("escape-quotes") {
		cfg.Encoding.EscapeQuotes = &escapeQuotes
	}
	if flags.Changed("undetermined") {
		cfg.Encoding.Undetermined = undetermined
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(w io.Writer, logCfg config.LogConfig) error {
	level, err := logCfg.SlogLevel()
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(logCfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func newConnectionProvider(cfg *config.Config, prompt bool) (ConnectionProvider, error) {
	raw, err := connect.Resolve(cfg.Connection.OCIString, cfg.Connection.DBEnv, os.LookupEnv)
	if err != nil {
		return nil, err
	}

	cs, err := connect.ParseConnectString(raw)
	if err != nil {
		return nil, err
	}

	if cs.Password == "" && prompt {
		cs.Password, err = connect.PromptPassword(os.Stdin, os.Stderr, cs.User)
		if err != nil {
			return nil, err
		}
	}

	return NewOracleConnectionProvider(cs, cfg.Connection.MaxConns), nil
}

func dumpOptions(cfg *config.Config) (dump.Options, error) {
	policy, err := dump.ParseUndeterminedPolicy(cfg.Encoding.Undetermined)
	if err != nil {
		return dump.Options{}, err
	}

	escape := cfg.Encoding.EscapeQuotes == nil || *cfg.Encoding.EscapeQuotes
	return dump.Options{
		DropTable: cfg.Drop,
		Encoder: dump.Encoder{
			EscapeQuotes: escape,
			Undetermined: policy,
		},
	}, nil
}

func newTableDumper(out io.Writer, cfg *config.Config) (TableDumper, error) {
	registry := providers.DefaultRegistry()
	provider, ok := registry.Get(cfg.DDLSource)
	if !ok {
		return nil, fmt.Errorf("unknown ddl source: %s (available: %s)", cfg.DDLSource, strings.Join(registry.Names(), ", "))
	}

	opts, err := dumpOptions(cfg)
	if err != nil {
		return nil, err
	}

	return NewOracleTableDumper(out, provider, opts), nil
}

// openOutput returns a buffered writer on the output file, or on stdout when
// path is empty. The returned function flushes and closes it.
func openOutput(path string) (*bufio.Writer, func() error, error) {
	if path == "" {
		w := bufio.NewWriter(os.Stdout)
		return w, w.Flush, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	w := bufio.NewWriter(f)
	return w, func() error {
		if err := w.Flush(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}

func runDump(cmd *cobra.Command, _ []string) error {
	if mcpMode {
		slog.Info("starting mcp server")
		return StartMCPServer()
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	connProvider, err := newConnectionProvider(settings, true)
	if err != nil {
		return err
	}

	out, closeOutput, err := openOutput(settings.Output)
	if err != nil {
		return err
	}

	dumper, err := newTableDumper(out, settings)
	if err != nil {
		closeOutput()
		return err
	}

	summary, err := processDump(ctx, settings.TableList(), connProvider, dumper)
	if closeErr := closeOutput(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to write output: %w", closeErr)
	}
	if err != nil {
		return err
	}

	slog.Info("script written", "tables", summary.Tables, "rows", summary.Rows, "output", outputName(settings.Output))
	return nil
}

func runListTables(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	connProvider, err := newConnectionProvider(settings, true)
	if err != nil {
		return err
	}

	tables, err := processListTables(ctx, settings.TableList(), connProvider, NewOracleTableDumper(io.Discard, providers.NewMetadataProvider(), dump.DefaultOptions()))
	if err != nil {
		return err
	}

	for _, table := range tables {
		fmt.Fprintln(cmd.OutOrStdout(), table)
	}
	return nil
}

func runDescribe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	connProvider, err := newConnectionProvider(settings, true)
	if err != nil {
		return err
	}

	output, err := processDescribe(ctx, settings.TableList(), connProvider,
		NewOracleTableDumper(io.Discard, providers.NewDictionaryProvider(), dump.DefaultOptions()),
		NewOracleSchemaExtractor())
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	output, valid, err := validateDumpCore(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	if !valid {
		return fmt.Errorf("dump script has problems: %s", args[0])
	}
	return nil
}

func outputName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}
