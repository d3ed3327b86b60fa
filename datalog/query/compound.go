package query

import (
	"fmt"
	"strings"
)

// UnifyVars describes how a compound clause's unification set is determined.
type UnifyVars interface {
	isUnifyVars()
}

// ImplicitUnify means the unification set is every variable mentioned by
// the compound clause's sub-clauses.
type ImplicitUnify struct{}

func (ImplicitUnify) isUnifyVars() {}

// ExplicitUnify means the unification set was given explicitly, as in
// (not-join [?x ?y] ...) or (or-join [?x ?y] ...).
type ExplicitUnify struct {
	Vars []Symbol
}

func (ExplicitUnify) isUnifyVars() {}

// Not represents (not clause...), with an implicit unification set.
type Not struct {
	UnifyVars UnifyVars // always ImplicitUnify for plain `not`
	Clauses   []Clause
}

func (*Not) clause() {}

// String returns a string representation of the not clause.
func (n *Not) String() string {
	var sb strings.Builder
	sb.WriteString("(not")
	for _, c := range n.Clauses {
		sb.WriteString(" ")
		sb.WriteString(c.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// NotJoin represents (not-join [vars...] clause...), with an explicit
// unification set.
type NotJoin struct {
	Vars    []Symbol
	Clauses []Clause
}

func (*NotJoin) clause() {}

// String returns a string representation of the not-join clause.
func (n *NotJoin) String() string {
	var sb strings.Builder
	sb.WriteString("(not-join [")
	for i, v := range n.Vars {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteString("]")
	for _, c := range n.Clauses {
		sb.WriteString(" ")
		sb.WriteString(c.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// OrBranch is a single alternative of an `or`/`or-join` clause. A branch is
// either a single clause or an implicit `(and ...)` conjunction of clauses.
type OrBranch struct {
	Clauses []Clause
}

func (b OrBranch) String() string {
	if len(b.Clauses) == 1 {
		return b.Clauses[0].String()
	}
	var sb strings.Builder
	sb.WriteString("(and")
	for _, c := range b.Clauses {
		sb.WriteString(" ")
		sb.WriteString(c.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Or represents (or branch...), with an implicit unification set.
type Or struct {
	Branches []OrBranch
}

func (*Or) clause() {}

// String returns a string representation of the or clause.
func (o *Or) String() string {
	var sb strings.Builder
	sb.WriteString("(or")
	for _, b := range o.Branches {
		sb.WriteString(" ")
		sb.WriteString(b.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// OrJoin represents (or-join [vars...] branch...), with an explicit
// unification set.
type OrJoin struct {
	Vars     []Symbol
	Branches []OrBranch
}

func (*OrJoin) clause() {}

// String returns a string representation of the or-join clause.
func (o *OrJoin) String() string {
	var sb strings.Builder
	sb.WriteString("(or-join [")
	for i, v := range o.Vars {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteString("]")
	for _, b := range o.Branches {
		sb.WriteString(" ")
		sb.WriteString(b.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// GroundClause represents [(ground <const-or-coll>) <binding>] where the
// binding form is a collection or relation (scalar ground stays an
// Expression wrapping GroundFunction, see function.go).
type GroundClause struct {
	Value   interface{} // a []interface{} of literal values
	Binding BindingForm // CollectionBinding or RelationBinding
}

func (*GroundClause) clause() {}

// String returns a string representation of the ground clause.
func (g *GroundClause) String() string {
	return "[(ground " + SymbolsOf(g.Value) + ") " + g.Binding.String() + "]"
}

// SymbolsOf renders a ground literal for display purposes.
func SymbolsOf(v interface{}) string {
	items, ok := v.([]interface{})
	if !ok {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteString("[")
	for i, it := range items {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(toDisplayString(it))
	}
	sb.WriteString("]")
	return sb.String()
}

func toDisplayString(v interface{}) string {
	if s, ok := v.(string); ok {
		return `"` + s + `"`
	}
	return fmt.Sprintf("%v", v)
}

// mentionedVariables collects the variables mentioned by a set of clauses,
// in first-encountered order, descending into nested not/or clauses. A
// nested not-join or or-join contributes only its explicit variable list,
// and subquery patterns contribute nothing. It is used to compute the
// implicit unification set for `not`/`or`.
func mentionedVariables(clauses []Clause) []Symbol {
	seen := make(map[Symbol]bool)
	var out []Symbol
	add := func(s Symbol) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	var walk func(c Clause)
	walk = func(c Clause) {
		switch v := c.(type) {
		case *DataPattern:
			for _, sym := range v.Symbols() {
				add(sym)
			}
		case *Comparison:
			for _, sym := range v.RequiredSymbols() {
				add(sym)
			}
		case *ChainedComparison:
			for _, sym := range v.RequiredSymbols() {
				add(sym)
			}
		case *NotEqualPredicate:
			for _, sym := range v.RequiredSymbols() {
				add(sym)
			}
		case *GroundPredicate:
			for _, sym := range v.Variables {
				add(sym)
			}
		case *MissingPredicate:
			for _, sym := range v.Variables {
				add(sym)
			}
		case *FunctionPredicate:
			for _, sym := range v.RequiredSymbols() {
				add(sym)
			}
		case *Expression:
			for _, sym := range v.Function.RequiredSymbols() {
				add(sym)
			}
			if v.Binding != "" {
				add(v.Binding)
			}
		case *GroundClause:
			addBindingVars(v.Binding, add)
		case *Not:
			for _, inner := range v.Clauses {
				walk(inner)
			}
		case *NotJoin:
			for _, v := range v.Vars {
				add(v)
			}
		case *Or:
			for _, b := range v.Branches {
				for _, inner := range b.Clauses {
					walk(inner)
				}
			}
		case *OrJoin:
			for _, v := range v.Vars {
				add(v)
			}
		}
	}
	for _, c := range clauses {
		walk(c)
	}
	return out
}

func addBindingVars(b BindingForm, add func(Symbol)) {
	switch v := b.(type) {
	case CollectionBinding:
		add(v.Variable)
	case TupleBinding:
		for _, s := range v.Variables {
			add(s)
		}
	case RelationBinding:
		for _, s := range v.Variables {
			add(s)
		}
	}
}

// MentionedVariables is the exported form of mentionedVariables, used by
// the algebrizer to compute implicit unification sets for `not` and `or`.
func MentionedVariables(clauses []Clause) []Symbol {
	return mentionedVariables(clauses)
}
