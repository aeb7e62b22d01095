package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/alc6/oradump/config"
	"github.com/alc6/oradump/connect"
	"github.com/alc6/oradump/dump"
	"github.com/alc6/oradump/providers"
)

const (
	oracleImage    = "gvenzl/oracle-free:23-slim-faststart"
	oracleUser     = "dumper"
	oraclePassword = "dumper_pw"
)

type oracleContainer struct {
	Container testcontainers.Container
	Connect   connect.ConnectString
	DB        *sql.DB
}

func setupOracle(ctx context.Context, t *testing.T) *oracleContainer {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	req := testcontainers.ContainerRequest{
		Image:        oracleImage,
		ExposedPorts: []string{"1521/tcp"},
		Env: map[string]string{
			"ORACLE_PASSWORD":   "system_pw",
			"APP_USER":          oracleUser,
			"APP_USER_PASSWORD": oraclePassword,
		},
		WaitingFor: wait.ForLog("DATABASE IS READY TO USE!").WithStartupTimeout(10 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start oracle container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "1521/tcp")
	require.NoError(t, err)

	cs := connect.ConnectString{
		User:     oracleUser,
		Password: oraclePassword,
		Host:     host,
		Port:     port.Int(),
		Service:  "FREEPDB1",
	}

	db, err := connect.Open(ctx, cs, 2)
	require.NoError(t, err, "failed to connect to %s", cs)
	t.Cleanup(func() { db.Close() })

	return &oracleContainer{Container: container, Connect: cs, DB: db}
}

func TestOracleDumpIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping oracle integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	oracle := setupOracle(ctx, t)

	statements := []string{
		`CREATE TABLE EMP (
			ID NUMBER(10) PRIMARY KEY,
			NAME VARCHAR2(50),
			HIRED DATE,
			PHOTO BLOB,
			NOTE CLOB
		)`,
		`CREATE UNIQUE INDEX EMP_NAME_UX ON EMP (NAME)`,
		`CREATE TABLE DEPT (ID NUMBER(4), DNAME VARCHAR2(30))`,
	}
	for _, stmt := range statements {
		_, err := oracle.DB.ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}

	_, err := oracle.DB.ExecContext(ctx, `INSERT INTO EMP VALUES (:1, :2, :3, :4, :5)`,
		1, "O'Brien", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), []byte{0xDE, 0xAD, 0xBE, 0xEF}, "memo")
	require.NoError(t, err)
	_, err = oracle.DB.ExecContext(ctx, `INSERT INTO EMP (ID) VALUES (2)`)
	require.NoError(t, err)

	ocistring := fmt.Sprintf("%s/%s@//%s:%d/%s", oracleUser, oraclePassword,
		oracle.Connect.Host, oracle.Connect.Port, oracle.Connect.Service)

	t.Run("metadata_dump", func(t *testing.T) {
		cfg := config.Default()
		cfg.Connection.OCIString = ocistring
		cfg.Drop = true

		connProvider, err := newConnectionProvider(cfg, false)
		require.NoError(t, err)

		var buf bytes.Buffer
		dumper, err := newTableDumper(&buf, cfg)
		require.NoError(t, err)

		summary, err := processDump(ctx, "", connProvider, dumper)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Tables)
		assert.Equal(t, 2, summary.Rows)

		output := buf.String()
		assert.Contains(t, output, "DROP TABLE EMP;\n")
		assert.Contains(t, output, `CREATE TABLE "DUMPER"."EMP"`)
		assert.Contains(t, output, "SET DEFINE OFF;\n")
		assert.Contains(t, output, `Insert Into EMP ("ID","NAME","HIRED","PHOTO","NOTE") VALUES (1,'O''Brien',`+
			`TO_DATE('2024-01-15 10:30:00','YYYY-MM-DD HH24:MI:SS'),HEXTORAW('DEADBEEF'),'not supported:CLOB');`)
		assert.Contains(t, output, `VALUES (2,NULL,NULL,NULL,NULL);`)
		assert.NotContains(t, output, " \n  CREATE UNIQUE INDEX")

		path := filepath.Join(t.TempDir(), "dump.sql")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
		report, valid, err := validateDumpCore(path)
		require.NoError(t, err)
		assert.True(t, valid, report)
	})

	t.Run("dictionary_dump", func(t *testing.T) {
		cfg := config.Default()
		cfg.Connection.OCIString = ocistring
		cfg.DDLSource = "dictionary"
		cfg.Tables = []string{"EMP"}

		output, err := dumpTablesCore(ctx, cfg, NewOracleConnectionProvider(oracle.Connect, 1))
		require.NoError(t, err)
		assert.Contains(t, output, `CREATE TABLE "EMP" (`)
		assert.Contains(t, output, `CREATE UNIQUE INDEX "EMP_NAME_UX" ON "EMP" ("NAME")`)
		assert.True(t, strings.HasSuffix(output, "\n"))
	})

	t.Run("describe", func(t *testing.T) {
		output, err := processDescribe(ctx, "EMP", NewOracleConnectionProvider(oracle.Connect, 1),
			NewOracleTableDumper(&bytes.Buffer{}, providers.NewDictionaryProvider(), dumpOptionsOrDefault(t)),
			NewOracleSchemaExtractor())
		require.NoError(t, err)
		assert.Contains(t, output, "Table: EMP")
		assert.Contains(t, output, "ID NUMBER(10) NOT NULL (PRIMARY KEY)")
	})

	t.Run("missing_table", func(t *testing.T) {
		var buf bytes.Buffer
		dumper := NewOracleTableDumper(&buf, providers.NewMetadataProvider(), dumpOptionsOrDefault(t))

		_, err := processDump(ctx, "GHOST", NewOracleConnectionProvider(oracle.Connect, 1), dumper)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "table GHOST")
		assert.Equal(t, "-- incomplete dump, stopped at table GHOST\n", buf.String())
	})
}

func dumpOptionsOrDefault(t *testing.T) dump.Options {
	t.Helper()
	opts, err := dumpOptions(config.Default())
	require.NoError(t, err)
	return opts
}
