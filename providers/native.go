package providers

import (
	"context"
	"fmt"
	"log/slog"
)

// DictionaryProvider rebuilds table DDL from the data dictionary views.
// It works for accounts without access to DBMS_METADATA.
type DictionaryProvider struct{}

// NewDictionaryProvider creates a new dictionary provider
func NewDictionaryProvider() DDLProvider {
	return &DictionaryProvider{}
}

// Name returns the provider name
func (p *DictionaryProvider) Name() string {
	return "dictionary"
}

// FetchDDL extracts the table and renders it as a single fragment
func (p *DictionaryProvider) FetchDDL(ctx context.Context, q Querier, owner, table string) ([]string, error) {
	if q == nil {
		return nil, fmt.Errorf("dictionary provider requires database connection")
	}

	slog.Debug("fetching ddl using dictionary provider", "owner", owner, "table", table)

	extracted, err := ExtractTable(ctx, q, owner, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract table: %w", err)
	}

	return []string{FormatCreateTable(extracted)}, nil
}
