package algebra

import "strings"

// ComputedTable is the tagged union of things a CC can embed in its
// `computed_tables` list or reference from a NotExists constraint:
// either a nested subquery CC, or a NamedValues table synthesized for
// `ground`.
type ComputedTable interface {
	isComputedTable()
	String() string
}

// SubqueryTable embeds a child CC, constructed and fully algebrized
// against a filtered snapshot of the parent's bindings (see not.go, or.go).
type SubqueryTable struct {
	CC *ConjoiningClauses
}

func (*SubqueryTable) isComputedTable() {}
func (s *SubqueryTable) String() string {
	if s == nil || s.CC == nil {
		return "<empty subquery>"
	}
	return s.CC.String()
}

// NamedValuesTable is the ComputedTable `ground` synthesizes for a
// collection or relation literal: a fixed set of named columns with fixed
// rows of typed values.
type NamedValuesTable struct {
	Names  []Variable
	Values [][]TypedValue
}

func (*NamedValuesTable) isComputedTable() {}
func (n *NamedValuesTable) String() string {
	names := make([]string, len(n.Names))
	for i, v := range n.Names {
		names[i] = string(v)
	}
	return "NamedValues(" + strings.Join(names, ", ") + ")"
}
