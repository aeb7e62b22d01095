package script

import (
	"fmt"
	"regexp"
	"strings"
)

// TableReport counts the statements that belong to one table.
type TableReport struct {
	Table      string `json:"table"`
	Dropped    bool   `json:"dropped"`
	HasDDL     bool   `json:"has_ddl"`
	Inserts    int    `json:"inserts"`
	Mismatched int    `json:"mismatched_inserts"`
}

// Report summarizes a dump script.
type Report struct {
	Valid      bool          `json:"valid"`
	Statements int           `json:"statement_count"`
	Tables     []TableReport `json:"tables"`
	Problems   []string      `json:"problems,omitempty"`
}

// IncompleteMarker starts the comment line written after the last table
// when a dump stops on a failure. The table name follows it.
const IncompleteMarker = "-- incomplete dump, stopped at table"

var (
	dropTable   = regexp.MustCompile(`(?i)^DROP\s+TABLE\s+(\S+)$`)
	createTable = regexp.MustCompile(`(?i)^CREATE\s+TABLE\s+("[^"]+"(?:\."[^"]+")?|\S+)`)
)

// Analyze groups statements by table and checks every INSERT has one value
// per column.
func Analyze(statements []Statement) Report {
	report := Report{Valid: true, Statements: len(statements)}
	index := map[string]int{}

	table := func(name string) *TableReport {
		key := objectKey(name)
		if i, ok := index[key]; ok {
			return &report.Tables[i]
		}
		index[key] = len(report.Tables)
		report.Tables = append(report.Tables, TableReport{Table: strings.ReplaceAll(name, `"`, "")})
		return &report.Tables[len(report.Tables)-1]
	}

	problem := func(stmt Statement, format string, args ...any) {
		report.Valid = false
		report.Problems = append(report.Problems, fmt.Sprintf("line %d: ", stmt.Line)+fmt.Sprintf(format, args...))
	}

	for _, stmt := range statements {
		text := stmt.Text
		switch {
		case strings.HasPrefix(text, IncompleteMarker):
			problem(stmt, "dump stopped at table %s", strings.TrimSpace(strings.TrimPrefix(text, IncompleteMarker)))
		case dropTable.MatchString(text):
			table(dropTable.FindStringSubmatch(text)[1]).Dropped = true
		case createTable.MatchString(text):
			table(createTable.FindStringSubmatch(text)[1]).HasDDL = true
		case len(text) >= 12 && strings.EqualFold(text[:12], "INSERT INTO "):
			ins, err := ParseInsert(text)
			if err != nil {
				problem(stmt, "%v", err)
				continue
			}
			t := table(ins.Table)
			t.Inserts++
			if len(ins.Columns) != len(ins.Values) {
				t.Mismatched++
				problem(stmt, "insert into %s has %d columns and %d values", ins.Table, len(ins.Columns), len(ins.Values))
			}
		}
	}

	for _, t := range report.Tables {
		if t.Inserts > 0 && !t.HasDDL {
			report.Valid = false
			report.Problems = append(report.Problems, "table "+t.Table+" has rows but no CREATE TABLE")
		}
	}

	return report
}

// objectKey reduces OWNER.TABLE, "OWNER"."TABLE" and TABLE to TABLE so DDL
// and INSERT statements naming the same table meet.
func objectKey(name string) string {
	name = strings.ReplaceAll(name, `"`, "")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToUpper(name)
}
