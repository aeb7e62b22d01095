package dump

import (
	"context"
	"errors"
	"strings"

	"github.com/alc6/oradump/providers"
)

var errNoDDL = errors.New("no ddl returned")

// ddlRepairs lists the places where DBMS_METADATA leaves out the statement
// terminator: the secondary statement follows a trailing space and newline.
var ddlRepairs = []struct {
	broken string
	fixed  string
}{
	{" \nALTER TABLE ", ";\nALTER TABLE "},
	{" \n  CREATE UNIQUE INDEX", ";\n  CREATE UNIQUE INDEX"},
}

// NormalizeDDL inserts the missing terminators. Applying it twice gives the
// same text as applying it once.
func NormalizeDDL(ddl string) string {
	for _, r := range ddlRepairs {
		ddl = strings.ReplaceAll(ddl, r.broken, r.fixed)
	}
	return ddl
}

// AssembleDDL joins fragments in order, each followed by a newline, closes
// the block with a terminator and normalizes it.
func AssembleDDL(fragments []string) string {
	var sb strings.Builder
	for _, fragment := range fragments {
		sb.WriteString(fragment)
		sb.WriteString("\n")
	}
	sb.WriteString(";\n")
	return NormalizeDDL(sb.String())
}

// ExtractDDL fetches and normalizes the DDL block of one table.
func ExtractDDL(ctx context.Context, q providers.Querier, provider providers.DDLProvider, table TableRef) (string, error) {
	fragments, err := provider.FetchDDL(ctx, q, table.Owner(), table.Object())
	if err != nil {
		return "", &TableError{Table: table, Kind: ErrMetadataQueryFailure, Err: err}
	}
	if len(fragments) == 0 {
		return "", &TableError{Table: table, Kind: ErrMetadataQueryFailure, Err: errNoDDL}
	}
	return AssembleDDL(fragments), nil
}
