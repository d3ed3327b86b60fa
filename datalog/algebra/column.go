package algebra

import "fmt"

// DatomsTable names one of the physical/virtual tables a pattern can be
// resolved against.
type DatomsTable int

const (
	Datoms DatomsTable = iota
	FulltextValues
	FulltextDatoms
	AllDatoms
)

func (t DatomsTable) String() string {
	switch t {
	case Datoms:
		return "datoms"
	case FulltextValues:
		return "fulltext_values"
	case FulltextDatoms:
		return "fulltext_datoms"
	case AllDatoms:
		return "all_datoms"
	default:
		return "unknown_table"
	}
}

// DatomsColumn names a column within a datoms-shaped table.
type DatomsColumn int

const (
	ColumnEntity DatomsColumn = iota
	ColumnAttribute
	ColumnValue
	ColumnTx
	ColumnValueTypeTag
)

func (c DatomsColumn) String() string {
	switch c {
	case ColumnEntity:
		return "e"
	case ColumnAttribute:
		return "a"
	case ColumnValue:
		return "v"
	case ColumnTx:
		return "tx"
	case ColumnValueTypeTag:
		return "value_type_tag"
	default:
		return "?"
	}
}

// QualifiedAlias pairs a table alias with a column within it, the unit of
// reference the whole algebrizer passes around.
type QualifiedAlias struct {
	TableAlias string
	Column     DatomsColumn
}

// NewQualifiedAlias is a small constructor matching the pattern the
// teacher uses for its other paired-field value types (e.g.
// storage.NewAttribute).
func NewQualifiedAlias(tableAlias string, column DatomsColumn) QualifiedAlias {
	return QualifiedAlias{TableAlias: tableAlias, Column: column}
}

func (q QualifiedAlias) String() string {
	return fmt.Sprintf("%s.%s", q.TableAlias, q.Column)
}

// Equal reports whether q and other refer to the same column of the same
// table alias.
func (q QualifiedAlias) Equal(other QualifiedAlias) bool {
	return q.TableAlias == other.TableAlias && q.Column == other.Column
}

// SourceAlias is one entry of a CC's `from` list: a table and the fresh
// alias generated for it.
type SourceAlias struct {
	Table DatomsTable
	Alias string
}

func (s SourceAlias) String() string {
	return fmt.Sprintf("%s AS %s", s.Table, s.Alias)
}
