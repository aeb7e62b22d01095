package providers

import (
	"fmt"
	"strings"
)

// FormatSchemaInfo formats tables as human-readable text
func FormatSchemaInfo(tables []Table) string {
	var sb strings.Builder

	for _, table := range tables {
		sb.WriteString(fmt.Sprintf("Table: %s\n", qualifiedName(table, false)))
		sb.WriteString("Columns:\n")

		for _, col := range table.Columns {
			nullable := "NOT NULL"
			if col.IsNullable {
				nullable = "NULL"
			}

			pk := ""
			if col.IsPrimaryKey {
				pk = " (PRIMARY KEY)"
			}

			defaultVal := ""
			if col.DefaultValue.Valid && col.DefaultValue.String != "" {
				defaultVal = fmt.Sprintf(" DEFAULT %s", col.DefaultValue.String)
			}

			sb.WriteString(fmt.Sprintf("  - %s %s %s%s%s\n",
				col.Name, mapDataType(col), nullable, defaultVal, pk))
		}

		if len(table.Indexes) > 0 {
			sb.WriteString("Indexes:\n")
			for _, idx := range table.Indexes {
				unique := ""
				if idx.IsUnique {
					unique = " (UNIQUE)"
				}
				sb.WriteString(fmt.Sprintf("  - %s on (%s)%s\n",
					idx.Name, strings.Join(idx.Columns, ", "), unique))
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatCreateTable renders one table as Oracle DDL. Statements after the
// first are preceded by a terminator; the last one is left open so the
// caller can terminate it the same way as engine-generated DDL.
func FormatCreateTable(table Table) string {
	var sb strings.Builder
	name := qualifiedName(table, true)

	sb.WriteString(fmt.Sprintf("CREATE TABLE %s (\n", name))

	var columnDefs []string
	for _, col := range table.Columns {
		var colDef strings.Builder
		colDef.WriteString(fmt.Sprintf("  %s %s", quoteIdent(col.Name), mapDataType(col)))

		if col.DefaultValue.Valid && col.DefaultValue.String != "" {
			colDef.WriteString(fmt.Sprintf(" DEFAULT %s", col.DefaultValue.String))
		}

		if !col.IsNullable {
			colDef.WriteString(" NOT NULL")
		}

		columnDefs = append(columnDefs, colDef.String())
	}

	sb.WriteString(strings.Join(columnDefs, ",\n"))
	sb.WriteString("\n)")

	if len(table.PrimaryKey) > 0 {
		constraint := ""
		if table.PrimaryKeyName != "" {
			constraint = fmt.Sprintf(" CONSTRAINT %s", quoteIdent(table.PrimaryKeyName))
		}
		sb.WriteString(fmt.Sprintf(";\nALTER TABLE %s ADD%s PRIMARY KEY (%s)",
			name, constraint, quoteIdents(table.PrimaryKey)))
	}

	for _, idx := range table.Indexes {
		unique := ""
		if idx.IsUnique {
			unique = "UNIQUE "
		}
		sb.WriteString(fmt.Sprintf(";\nCREATE %sINDEX %s ON %s (%s)",
			unique, quoteIdent(idx.Name), name, quoteIdents(idx.Columns)))
	}

	return sb.String()
}

func qualifiedName(table Table, quoted bool) string {
	if !quoted {
		if table.Owner != "" {
			return table.Owner + "." + table.Name
		}
		return table.Name
	}
	if table.Owner != "" {
		return quoteIdent(table.Owner) + "." + quoteIdent(table.Name)
	}
	return quoteIdent(table.Name)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdent(name)
	}
	return strings.Join(quoted, ", ")
}

func mapDataType(col Column) string {
	switch col.DataType {
	case "VARCHAR2", "NVARCHAR2", "CHAR", "NCHAR":
		if col.CharacterLength.Valid && col.CharacterLength.Int64 > 0 {
			return fmt.Sprintf("%s(%d)", col.DataType, col.CharacterLength.Int64)
		}
		return col.DataType
	case "RAW":
		if col.DataLength.Valid && col.DataLength.Int64 > 0 {
			return fmt.Sprintf("RAW(%d)", col.DataLength.Int64)
		}
		return "RAW"
	case "NUMBER":
		switch {
		case col.NumericPrecision.Valid && col.NumericScale.Valid && col.NumericScale.Int64 != 0:
			return fmt.Sprintf("NUMBER(%d,%d)", col.NumericPrecision.Int64, col.NumericScale.Int64)
		case col.NumericPrecision.Valid:
			return fmt.Sprintf("NUMBER(%d)", col.NumericPrecision.Int64)
		case col.NumericScale.Valid && col.NumericScale.Int64 == 0:
			return "INTEGER"
		}
		return "NUMBER"
	case "FLOAT":
		if col.NumericPrecision.Valid {
			return fmt.Sprintf("FLOAT(%d)", col.NumericPrecision.Int64)
		}
		return "FLOAT"
	default:
		return col.DataType
	}
}
