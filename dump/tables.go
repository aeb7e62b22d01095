package dump

import (
	"context"
	"fmt"
	"strings"

	"github.com/alc6/oradump/providers"
)

// UserTablesQuery lists the tables owned by the connected schema.
const UserTablesQuery = "SELECT table_name FROM user_tables"

// TableLister produces the ordered list of tables to dump.
type TableLister struct {
	// Query returns one table name per row. Defaults to UserTablesQuery.
	Query string
}

// ListTables returns the explicit list when one is given, otherwise every
// table of the connected schema in catalog order.
func ListTables(ctx context.Context, q providers.Querier, explicit string) ([]TableRef, error) {
	return TableLister{}.List(ctx, q, explicit)
}

// List is ListTables with the lister's catalog query.
func (l TableLister) List(ctx context.Context, q providers.Querier, explicit string) ([]TableRef, error) {
	if explicit != "" {
		return ParseTableList(explicit), nil
	}

	query := l.Query
	if query == "" {
		query = UserTablesQuery
	}

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables: %w", ErrMetadataQueryFailure, err)
	}
	defer rows.Close()

	var tables []TableRef
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: list tables: %w", ErrMetadataQueryFailure, err)
		}
		tables = append(tables, TableRef(name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list tables: %w", ErrMetadataQueryFailure, err)
	}

	return tables, nil
}

// ParseTableList splits a comma separated list. Names are kept verbatim;
// empty entries are dropped.
func ParseTableList(list string) []TableRef {
	var tables []TableRef
	for _, name := range strings.Split(list, ",") {
		if name == "" {
			continue
		}
		tables = append(tables, TableRef(name))
	}
	return tables
}
