package algebra

import "fmt"

// QueryValue is the right-hand side of an Equals constraint: either a
// reference to another column, a fully-typed literal, a bare entid, or a
// primitive integer literal that hasn't yet been tied to a ValueType.
type QueryValue interface {
	isQueryValue()
	String() string
}

// ColumnValue wraps a QualifiedAlias as a QueryValue, used when an Equals
// constraint relates two columns instead of a column and a literal.
type ColumnValue struct {
	Column QualifiedAlias
}

func (ColumnValue) isQueryValue()   {}
func (c ColumnValue) String() string { return c.Column.String() }

// TypedValueQV wraps a TypedValue as a QueryValue.
type TypedValueQV struct {
	Value TypedValue
}

func (TypedValueQV) isQueryValue()   {}
func (t TypedValueQV) String() string { return t.Value.String() }

// EntidQV wraps an Entid as a QueryValue, used when constraining the
// attribute column to a resolved schema entity.
type EntidQV struct {
	Entid Entid
}

func (EntidQV) isQueryValue()   {}
func (e EntidQV) String() string { return fmt.Sprintf("%d", e.Entid) }

// PrimitiveLongQV wraps a bare int64 that is not a typed schema value. The
// pattern algebrizer does not build it: constant e/tx positions are
// constrained with a Ref-typed TypedValueQV.
type PrimitiveLongQV struct {
	Value int64
}

func (PrimitiveLongQV) isQueryValue() {}
func (p PrimitiveLongQV) String() string {
	return fmt.Sprintf("%d", p.Value)
}
