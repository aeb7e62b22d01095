package providers

import "database/sql"

// Table represents a database table with its columns, primary key and indexes
type Table struct {
	Owner          string
	Name           string
	Columns        []Column
	PrimaryKeyName string
	PrimaryKey     []string
	Indexes        []Index
}

// Column represents a database column as described by ALL_TAB_COLUMNS
type Column struct {
	Name             string
	DataType         string
	IsNullable       bool
	DefaultValue     sql.NullString
	IsPrimaryKey     bool
	DataLength       sql.NullInt64
	CharacterLength  sql.NullInt64
	NumericPrecision sql.NullInt64
	NumericScale     sql.NullInt64
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}
