package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `DROP TABLE EMP;

  CREATE TABLE "HR"."EMP"
   (	"ID" NUMBER(10,0) NOT NULL ENABLE,
	"NAME" VARCHAR2(50)
   ) SEGMENT CREATION IMMEDIATE;
  CREATE UNIQUE INDEX "HR"."EMP_PK" ON "HR"."EMP" ("ID")
;

SET DEFINE OFF;
Insert Into EMP ("ID","NAME") VALUES (1,'O''Brien; Pat');
Insert Into EMP ("ID","NAME") VALUES (2,NULL);
`

func TestCLIValidate(t *testing.T) {
	t.Run("valid_script", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "emp.sql")
		require.NoError(t, os.WriteFile(path, []byte(sampleDump), 0644))

		resetCommand()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"validate", path})

		err := rootCmd.Execute()
		require.NoError(t, err)
		assert.Contains(t, out.String(), `"valid": true`)
		assert.Contains(t, out.String(), `"inserts": 2`)
		assert.Contains(t, out.String(), `"dropped": true`)
	})

	t.Run("value_count_mismatch", func(t *testing.T) {
		script := sampleDump + `Insert Into EMP ("ID","NAME") VALUES (3);` + "\n"
		path := filepath.Join(t.TempDir(), "emp.sql")
		require.NoError(t, os.WriteFile(path, []byte(script), 0644))

		resetCommand()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"validate", path})

		err := rootCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dump script has problems")
		assert.Contains(t, out.String(), `"mismatched_inserts": 1`)
		assert.Contains(t, out.String(), "has 2 columns and 1 values")
	})
}

func TestCLIErrorHandling(t *testing.T) {
	resetCommand()
	cmd := rootCmd
	cmd.SetArgs([]string{"validate"})
	err := cmd.Execute()
	assert.Error(t, err)

	resetCommand()
	cmd = rootCmd
	cmd.SetArgs([]string{"validate", "/path/that/does/not/exist.sql"})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dump script does not exist")

	resetCommand()
	cmd = rootCmd
	err = cmd.ParseFlags([]string{"--timeout", "soon"})
	assert.Error(t, err)
}

func TestCLIFlags(t *testing.T) {
	resetCommand()

	for name, shorthand := range map[string]string{
		"config":    "c",
		"ocistring": "o",
		"tables":    "t",
	} {
		flag := rootCmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, shorthand, flag.Shorthand)
	}

	drop := rootCmd.Flags().Lookup("drop")
	require.NotNil(t, drop)
	assert.Equal(t, "d", drop.Shorthand)
	assert.Equal(t, "false", drop.DefValue)

	assert.Equal(t, "true", rootCmd.Flags().Lookup("escape-quotes").DefValue)
	assert.Equal(t, "metadata", rootCmd.Flags().Lookup("ddl-source").DefValue)

	err := rootCmd.ParseFlags([]string{"-o", "scott/tiger@//db/ORCL", "-t", "EMP,DEPT", "-d"})
	require.NoError(t, err)
	assert.Equal(t, "scott/tiger@//db/ORCL", ociString)
	assert.Equal(t, "EMP,DEPT", tableList)
	assert.True(t, dropTables)
}

func TestCLIMCPMode(t *testing.T) {
	resetCommand()

	cmd := rootCmd
	err := cmd.ParseFlags([]string{"--mcp"})
	require.NoError(t, err)
	assert.True(t, mcpMode)
}
