package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alc6/oradump/script"
)

// DiscoverScripts returns path itself when it is a file, otherwise every
// .sql file below it in name order.
func DiscoverScripts(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	slog.Debug("scanning script directory", "directory", path)
	var scripts []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			slog.Debug("found script", "file", p)
			scripts = append(scripts, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk script directory: %w", err)
	}

	sort.Strings(scripts)
	slog.Info("discovered scripts", "count", len(scripts))
	return scripts, nil
}

type scriptReport struct {
	File string `json:"file"`
	script.Report
}

// validateDumpCore checks one script or every script of a directory and
// returns the JSON report and whether all of them passed.
func validateDumpCore(path string) (string, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", false, fmt.Errorf("dump script does not exist: %s", path)
	}

	files, err := DiscoverScripts(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to discover scripts: %w", err)
	}

	valid := true
	reports := make([]scriptReport, 0, len(files))
	for _, file := range files {
		report, err := analyzeScript(file)
		if err != nil {
			return "", false, err
		}
		valid = valid && report.Valid
		reports = append(reports, scriptReport{File: file, Report: report})
	}

	result := map[string]any{
		"valid":        valid,
		"script_count": len(reports),
		"scripts":      reports,
	}

	jsonOutput, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	return string(jsonOutput), valid, nil
}

func analyzeScript(file string) (script.Report, error) {
	f, err := os.Open(file)
	if err != nil {
		return script.Report{}, fmt.Errorf("failed to open script %s: %w", file, err)
	}
	defer f.Close()

	statements, err := script.Split(f)
	if err != nil {
		return script.Report{}, fmt.Errorf("failed to read script %s: %w", file, err)
	}

	report := script.Analyze(statements)
	slog.Debug("analyzed script", "file", file, "statements", report.Statements, "valid", report.Valid)
	return report, nil
}
