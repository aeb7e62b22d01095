package providers

import (
	"context"
	"database/sql"
	"sort"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_providers.go -package=mocks

// Querier is the subset of *sql.DB, *sql.Conn and *sql.Tx used to read
// metadata and rows.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DDLProvider defines the interface for the different sources of table DDL
type DDLProvider interface {
	// Name returns the provider name for identification
	Name() string

	// FetchDDL returns the DDL of one table as the ordered fragments the
	// source produced. Fragments are joined by the caller.
	FetchDDL(ctx context.Context, q Querier, owner, table string) ([]string, error)
}

// ProviderRegistry manages available DDL providers
type ProviderRegistry struct {
	providers map[string]DDLProvider
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]DDLProvider),
	}
}

// DefaultRegistry returns a registry holding the metadata and dictionary providers.
func DefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	r.Register(NewMetadataProvider())
	r.Register(NewDictionaryProvider())
	return r
}

// Register adds a provider to the registry
func (r *ProviderRegistry) Register(provider DDLProvider) {
	r.providers[provider.Name()] = provider
}

// Get retrieves a provider by name
func (r *ProviderRegistry) Get(name string) (DDLProvider, bool) {
	provider, exists := r.providers[name]
	return provider, exists
}

// Names returns the registered provider names in sorted order
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
