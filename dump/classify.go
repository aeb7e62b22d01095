package dump

import (
	"fmt"
	"strings"
)

// typePrefixes maps declared type prefixes to column kinds. Matching is a
// case-sensitive prefix test so VARCHAR2(100) matches VARCHAR2. NVARCHAR2 is
// listed before NVARCHAR; both are text so the order only matters for reading.
var typePrefixes = []struct {
	prefix string
	kind   ColumnKind
}{
	{"VARCHAR2", KindText},
	{"NVARCHAR2", KindText},
	{"NVARCHAR", KindText},
	{"NUMBER", KindNumber},
	{"DATE", KindDate},
	{"BLOB", KindBinary},
}

// driverTypeNames translates the wire type names reported by go-ora into
// the names used in Oracle DDL. With the default inline LOB fetch go-ora
// redefines BLOB columns as LongRaw and CLOB columns as LongVarChar before
// the first row, so those names stand for the LOB types. A real LONG RAW
// column is then dumped as BLOB, which HEXTORAW loads the same way.
var driverTypeNames = map[string]string{
	"NCHAR":            "VARCHAR2",
	"OCIBlobLocator":   "BLOB",
	"OCIClobLocator":   "CLOB",
	"OCIFileLocator":   "BFILE",
	"LongRaw":          "BLOB",
	"LongVarChar":      "CLOB",
	"IBFloat":          "BINARY_FLOAT",
	"IBDouble":         "BINARY_DOUBLE",
	"TimeStampDTY":     "TIMESTAMP",
	"TimeStampTZ_DTY":  "TIMESTAMP WITH TIME ZONE",
	"TimeStampLTZ_DTY": "TIMESTAMP WITH LOCAL TIME ZONE",
}

// Classify returns the kind for a declared type.
func Classify(declaredType string) ColumnKind {
	for _, entry := range typePrefixes {
		if strings.HasPrefix(declaredType, entry.prefix) {
			return entry.kind
		}
	}
	return KindUnsupported
}

// ColumnType is the part of *sql.ColumnType needed to describe a column.
type ColumnType interface {
	Name() string
	DatabaseTypeName() string
	Length() (length int64, ok bool)
	DecimalSize() (precision, scale int64, ok bool)
}

// DescribeColumns builds the descriptor sequence for a result set.
func DescribeColumns(types []ColumnType) []ColumnDescriptor {
	columns := make([]ColumnDescriptor, len(types))
	for i, ct := range types {
		columns[i] = NewColumnDescriptor(ct.Name(), DeclaredType(ct))
	}
	return columns
}

// DeclaredType reconstructs the declared type of a column, including its
// length or precision when the driver reports one.
func DeclaredType(ct ColumnType) string {
	name := ct.DatabaseTypeName()
	if alias, ok := driverTypeNames[name]; ok {
		name = alias
	}
	if strings.ContainsRune(name, '(') {
		return name
	}

	switch name {
	case "NUMBER":
		if precision, scale, ok := ct.DecimalSize(); ok && precision > 0 {
			if scale > 0 {
				return fmt.Sprintf("NUMBER(%d,%d)", precision, scale)
			}
			return fmt.Sprintf("NUMBER(%d)", precision)
		}
	case "VARCHAR2", "NVARCHAR2", "NVARCHAR", "CHAR", "NCHAR", "RAW":
		// Oracle caps these at 32767; larger values are driver sentinels.
		if length, ok := ct.Length(); ok && length > 0 && length <= 32767 {
			return fmt.Sprintf("%s(%d)", name, length)
		}
	}
	return name
}
