package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverScripts(t *testing.T) {
	t.Run("single_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dump.txt")
		require.NoError(t, os.WriteFile(path, []byte(sampleDump), 0644))

		scripts, err := DiscoverScripts(path)
		require.NoError(t, err)
		assert.Equal(t, []string{path}, scripts)
	})

	t.Run("directory_sorted_and_filtered", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "hr"), 0755))
		files := []string{
			"b_dept.sql",
			"a_emp.SQL",
			"readme.md",
			filepath.Join("hr", "c_jobs.sql"),
		}
		for _, name := range files {
			require.NoError(t, os.WriteFile(filepath.Join(tempDir, name), []byte("SET DEFINE OFF;"), 0644))
		}

		scripts, err := DiscoverScripts(tempDir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(tempDir, "a_emp.SQL"),
			filepath.Join(tempDir, "b_dept.sql"),
			filepath.Join(tempDir, "hr", "c_jobs.sql"),
		}, scripts)
	})

	t.Run("nonexistent_path", func(t *testing.T) {
		_, err := DiscoverScripts("/nonexistent/directory")
		assert.Error(t, err)
	})
}
