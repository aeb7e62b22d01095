package providers

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	metadataQuery      = `SELECT DBMS_METADATA.GET_DDL('TABLE', :1) FROM DUAL`
	metadataOwnerQuery = `SELECT DBMS_METADATA.GET_DDL('TABLE', :1, :2) FROM DUAL`
)

// MetadataProvider asks the engine for the DDL through DBMS_METADATA
type MetadataProvider struct{}

// NewMetadataProvider creates a new metadata provider
func NewMetadataProvider() DDLProvider {
	return &MetadataProvider{}
}

// Name returns the provider name
func (p *MetadataProvider) Name() string {
	return "metadata"
}

// FetchDDL runs DBMS_METADATA.GET_DDL and returns every row it produced.
// Long definitions may come back split over several rows.
func (p *MetadataProvider) FetchDDL(ctx context.Context, q Querier, owner, table string) ([]string, error) {
	query, args := metadataQuery, []any{table}
	if owner != "" {
		query, args = metadataOwnerQuery, []any{table, owner}
	}

	slog.Debug("fetching ddl using metadata provider", "owner", owner, "table", table)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fragments []string
	for rows.Next() {
		var fragment string
		if err := rows.Scan(&fragment); err != nil {
			return nil, fmt.Errorf("failed to read ddl fragment: %w", err)
		}
		fragments = append(fragments, fragment)
	}

	return fragments, rows.Err()
}
