package algebra

import (
	"fmt"
	"strings"
)

// Inequality enumerates the comparison operators a ColumnConstraint can
// carry, byte-sized and String()-equipped the way query.CompareOp is.
type Inequality byte

const (
	LessThan Inequality = iota
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	NotEqual
)

func (op Inequality) String() string {
	switch op {
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	case NotEqual:
		return "!="
	default:
		return "?"
	}
}

// ColumnConstraint is the sum type of leaf constraints that can appear in
// a CC's `wheres`, tagged-variant style per spec.md §9.
type ColumnConstraint interface {
	isColumnConstraint()
	String() string
}

// Equals constrains a column to equal a QueryValue (another column, a
// typed literal, an entid, or a primitive long).
type Equals struct {
	Column QualifiedAlias
	Value  QueryValue
}

func (Equals) isColumnConstraint() {}
func (e Equals) String() string {
	return fmt.Sprintf("%s = %s", e.Column, e.Value)
}

// InequalityConstraint constrains two QueryValues by a comparison operator.
type InequalityConstraint struct {
	Op    Inequality
	Left  QueryValue
	Right QueryValue
}

func (InequalityConstraint) isColumnConstraint() {}
func (c InequalityConstraint) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

// HasType pins a table alias's value-type-tag column to a single type.
type HasType struct {
	TableAlias string
	ValueType  ValueType
}

func (HasType) isColumnConstraint() {}
func (h HasType) String() string {
	return fmt.Sprintf("%s.value_type_tag = %s", h.TableAlias, h.ValueType)
}

// HasTypes constrains a column's value-type-tag to one of a set of types.
// CheckValue additionally requires the value itself to be consistent with
// whichever tag matched (used when the column is untyped, e.g. AllDatoms).
type HasTypes struct {
	TableAlias string
	ValueTypes ValueTypeSet
	CheckValue bool
}

func (HasTypes) isColumnConstraint() {}
func (h HasTypes) String() string {
	return fmt.Sprintf("%s.value_type_tag IN %s", h.TableAlias, h.ValueTypes)
}

// Matches is a fulltext match constraint.
type Matches struct {
	Column QualifiedAlias
	Value  QueryValue
}

func (Matches) isColumnConstraint() {}
func (m Matches) String() string {
	return fmt.Sprintf("%s MATCHES %s", m.Column, m.Value)
}

// NotExists anti-joins against a computed table, the constraint `not` and
// `not-join` emit.
type NotExists struct {
	Table ComputedTable
}

func (NotExists) isColumnConstraint() {}
func (n NotExists) String() string {
	return fmt.Sprintf("NOT EXISTS (%s)", n.Table)
}

// ColumnConstraintOrAlternation is either a single leaf constraint or a
// nested ColumnAlternation, the element type of a ColumnIntersection.
type ColumnConstraintOrAlternation interface {
	isConstraintOrAlternation()
	String() string
}

// ColumnIntersection is the conjunction of its members; it is the type of
// a CC's `wheres` field.
type ColumnIntersection struct {
	Constraints []ColumnConstraintOrAlternation
}

func (*ColumnIntersection) isConstraintOrAlternation() {}
func (ci *ColumnIntersection) String() string {
	if ci == nil || len(ci.Constraints) == 0 {
		return "true"
	}
	parts := make([]string, len(ci.Constraints))
	for i, c := range ci.Constraints {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// IsEmpty reports whether the intersection carries no constraints.
func (ci *ColumnIntersection) IsEmpty() bool {
	return ci == nil || len(ci.Constraints) == 0
}

// Add appends a leaf constraint to the intersection.
func (ci *ColumnIntersection) Add(c ColumnConstraint) {
	ci.Constraints = append(ci.Constraints, leafWrapper{c})
}

// AddAlternation appends a nested alternation to the intersection.
func (ci *ColumnIntersection) AddAlternation(alt *ColumnAlternation) {
	ci.Constraints = append(ci.Constraints, alt)
}

// leafWrapper adapts a bare ColumnConstraint to
// ColumnConstraintOrAlternation without requiring every constraint type to
// implement the marker method itself (they're also used standalone, e.g.
// inside ColumnAlternation branches that aren't full intersections).
type leafWrapper struct {
	ColumnConstraint
}

func (leafWrapper) isConstraintOrAlternation() {}
func (l leafWrapper) String() string           { return l.ColumnConstraint.String() }

// ColumnAlternation is the disjunction of its branches, each itself a
// ColumnIntersection. It is what `or`/`or-join` splice into the parent's
// `wheres` when more than one branch survives algebrization.
type ColumnAlternation struct {
	Branches []*ColumnIntersection
}

func (*ColumnAlternation) isConstraintOrAlternation() {}
func (a *ColumnAlternation) String() string {
	if a == nil || len(a.Branches) == 0 {
		return "false"
	}
	parts := make([]string, len(a.Branches))
	for i, b := range a.Branches {
		parts[i] = "(" + b.String() + ")"
	}
	return strings.Join(parts, " OR ")
}
