package dump

import (
	"fmt"

	"github.com/alc6/oradump/providers"
)

// TableRef is a table name, optionally qualified by its owner. It is written
// verbatim into the generated statements.
type TableRef string

// Owner returns the schema part of OWNER.TABLE, or "" for a bare name.
func (t TableRef) Owner() string {
	owner, _ := providers.SplitQualified(string(t))
	return owner
}

// Object returns the table part of the reference.
func (t TableRef) Object() string {
	_, object := providers.SplitQualified(string(t))
	return object
}

// ColumnKind is the encoding class of a column, decided once per cursor.
type ColumnKind int

const (
	KindUnsupported ColumnKind = iota
	KindText
	KindNumber
	KindDate
	KindBinary
)

func (k ColumnKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBinary:
		return "binary"
	case KindUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("ColumnKind(%d)", int(k))
	}
}

// ColumnDescriptor describes one result column.
type ColumnDescriptor struct {
	Name         string
	DeclaredType string
	Kind         ColumnKind
}

// NewColumnDescriptor classifies the declared type.
func NewColumnDescriptor(name, declaredType string) ColumnDescriptor {
	return ColumnDescriptor{
		Name:         name,
		DeclaredType: declaredType,
		Kind:         Classify(declaredType),
	}
}
