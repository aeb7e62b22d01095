package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ExtractTable reads one table's structure from the data dictionary.
// An empty owner means the connected schema.
func ExtractTable(ctx context.Context, q Querier, owner, tableName string) (Table, error) {
	slog.Debug("processing table", "owner", owner, "table", tableName)

	table := Table{Owner: owner, Name: tableName}

	columns, err := getColumns(ctx, q, owner, tableName)
	if err != nil {
		return Table{}, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	if len(columns) == 0 {
		return Table{}, fmt.Errorf("table %s not found in data dictionary", tableName)
	}
	slog.Debug("found table columns", "table", tableName, "count", len(columns))

	pkName, pkColumns, err := getPrimaryKey(ctx, q, owner, tableName)
	if err != nil {
		return Table{}, fmt.Errorf("failed to get primary key for table %s: %w", tableName, err)
	}
	for i := range columns {
		for _, key := range pkColumns {
			if columns[i].Name == key {
				columns[i].IsPrimaryKey = true
			}
		}
	}

	indexes, err := getIndexes(ctx, q, owner, tableName)
	if err != nil {
		return Table{}, fmt.Errorf("failed to get indexes for table %s: %w", tableName, err)
	}
	slog.Debug("found table indexes", "table", tableName, "count", len(indexes))

	table.Columns = columns
	table.PrimaryKeyName = pkName
	table.PrimaryKey = pkColumns
	table.Indexes = indexes
	return table, nil
}

// ExtractTables reads the structure of every named table, in order.
func ExtractTables(ctx context.Context, q Querier, names []string) ([]Table, error) {
	var schema []Table
	for _, name := range names {
		owner, object := SplitQualified(name)
		table, err := ExtractTable(ctx, q, owner, object)
		if err != nil {
			return nil, err
		}
		schema = append(schema, table)
	}

	slog.Info("schema extraction completed", "tables", len(schema))
	return schema, nil
}

// SplitQualified splits OWNER.TABLE at the first dot. Unqualified names
// return an empty owner.
func SplitQualified(name string) (owner, object string) {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func getColumns(ctx context.Context, q Querier, owner, tableName string) ([]Column, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.nullable,
			c.data_default,
			c.data_length,
			c.char_length,
			c.data_precision,
			c.data_scale
		FROM all_tab_columns c
		WHERE c.owner = NVL(:1, USER) AND c.table_name = :2
		ORDER BY c.column_id
	`

	rows, err := q.QueryContext(ctx, query, owner, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var nullable string

		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.DefaultValue,
			&col.DataLength, &col.CharacterLength, &col.NumericPrecision, &col.NumericScale); err != nil {
			return nil, err
		}

		col.IsNullable = nullable == "Y"
		if col.DefaultValue.Valid {
			col.DefaultValue.String = strings.TrimSpace(col.DefaultValue.String)
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func getPrimaryKey(ctx context.Context, q Querier, owner, tableName string) (string, []string, error) {
	query := `
		SELECT con.constraint_name, col.column_name
		FROM all_constraints con
		JOIN all_cons_columns col ON
			col.owner = con.owner AND col.constraint_name = con.constraint_name
		WHERE con.owner = NVL(:1, USER)
		AND con.table_name = :2
		AND con.constraint_type = 'P'
		ORDER BY col.position
	`

	rows, err := q.QueryContext(ctx, query, owner, tableName)
	if err != nil {
		return "", nil, err
	}
	defer rows.Close()

	var name string
	var columns []string
	for rows.Next() {
		var column string
		if err := rows.Scan(&name, &column); err != nil {
			return "", nil, err
		}
		columns = append(columns, column)
	}

	return name, columns, rows.Err()
}

func getIndexes(ctx context.Context, q Querier, owner, tableName string) ([]Index, error) {
	query := `
		SELECT i.index_name, i.uniqueness, ic.column_name
		FROM all_indexes i
		JOIN all_ind_columns ic ON
			ic.index_owner = i.owner AND ic.index_name = i.index_name
		WHERE i.table_owner = NVL(:1, USER)
		AND i.table_name = :2
		AND NOT EXISTS (
			SELECT 1 FROM all_constraints c
			WHERE c.owner = i.table_owner
			AND c.index_name = i.index_name
			AND c.constraint_type = 'P'
		)
		ORDER BY i.index_name, ic.column_position
	`

	rows, err := q.QueryContext(ctx, query, owner, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var name, uniqueness, column string
		if err := rows.Scan(&name, &uniqueness, &column); err != nil {
			return nil, err
		}

		if n := len(indexes); n > 0 && indexes[n-1].Name == name {
			indexes[n-1].Columns = append(indexes[n-1].Columns, column)
			continue
		}
		indexes = append(indexes, Index{
			Name:     name,
			Columns:  []string{column},
			IsUnique: uniqueness == "UNIQUE",
		})
	}

	return indexes, rows.Err()
}
