package algebra

import (
	"fmt"

	"github.com/wbrown/janus-datalog/datalog/query"
)

// AlgebrizeClauses applies each clause in order to cc, dispatching pattern,
// predicate/function, ground, and compound (not/or) clauses to their
// respective handlers. It is the shared recursion point used by the
// driver and by not.go/or.go when algebrizing a child CC's sub-clauses.
func AlgebrizeClauses(cc *ConjoiningClauses, schema SchemaView, clauses []query.Clause) error {
	for _, clause := range clauses {
		if cc.IsKnownEmpty() {
			return nil
		}
		if err := algebrizeClause(cc, schema, clause); err != nil {
			return err
		}
	}
	return nil
}

func algebrizeClause(cc *ConjoiningClauses, schema SchemaView, clause query.Clause) error {
	switch c := clause.(type) {
	case *query.DataPattern:
		return AlgebrizePattern(cc, schema, c)
	case *query.Comparison, *query.ChainedComparison, *query.NotEqualPredicate,
		*query.GroundPredicate, *query.MissingPredicate, *query.Expression, *query.GroundClause:
		return AlgebrizePredicate(cc, clause)
	case *query.Not:
		return AlgebrizeNot(cc, schema, c.Clauses, nil)
	case *query.NotJoin:
		return AlgebrizeNot(cc, schema, c.Clauses, c.Vars)
	case *query.Or:
		return AlgebrizeOr(cc, schema, c.Branches, nil)
	case *query.OrJoin:
		return AlgebrizeOr(cc, schema, c.Branches, c.Vars)
	case *query.SubqueryPattern:
		// Nested (q ...) subqueries are a builder/projection concern
		// (spec.md §1's explicit out-of-scope list); the algebrizer passes
		// them through untouched here, since recursively algebrizing an
		// independently-parsed nested query is outside the CC model.
		return nil
	default:
		return nil
	}
}

// Known bundles the driver's three immutable inputs together, a small
// config-struct idiom the teacher uses throughout its own pipeline.
type Known struct {
	Schema SchemaView
	Query  *query.Query
	Inputs QueryInputs
}

// QueryInputs is the input bindings supplied via the :in list, consumed
// per spec.md §6: a map from Variable to TypedValue plus a set of
// pre-declared-but-unbound input variables.
type QueryInputs struct {
	Values     map[Variable]TypedValue
	Unbound    map[Variable]bool
}

// NewQueryInputs returns an empty QueryInputs ready to be populated.
func NewQueryInputs() QueryInputs {
	return QueryInputs{
		Values:  make(map[Variable]TypedValue),
		Unbound: make(map[Variable]bool),
	}
}

// FindSpecKind classifies the shape of a query's :find clause.
type FindSpecKind int

const (
	FindRel FindSpecKind = iota
	FindScalar
	FindColl
	FindTuple
)

func (k FindSpecKind) String() string {
	switch k {
	case FindRel:
		return "rel"
	case FindScalar:
		return "scalar"
	case FindColl:
		return "coll"
	case FindTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// AggregateSpec records one aggregate find-element and its typing demand.
type AggregateSpec struct {
	Function  string
	Arg       Variable
	Predicate Variable
}

// AlgebraicQuery is the final output of algebrization, per spec.md §3/§6.
type AlgebraicQuery struct {
	FindSpecKind     FindSpecKind
	DefaultSource    string
	ProjectedVars    []Variable
	WithVariables    []Variable
	Order            []OrderSpec
	Limit            int
	HasLimit         bool
	CC               *ConjoiningClauses
	HasAggregates    bool
	Aggregates       []AggregateSpec
}

// OrderSpec is one (Variable, ascending|descending) entry of the order
// list.
type OrderSpec struct {
	Variable   Variable
	Descending bool
}

func (q *AlgebraicQuery) String() string {
	if q.CC.IsKnownEmpty() {
		return fmt.Sprintf("AlgebraicQuery{known-empty: %s}", q.CC.EmptyBecauseReason())
	}
	return fmt.Sprintf("AlgebraicQuery{find=%s %v, %s}", q.FindSpecKind, q.ProjectedVars, q.CC)
}

// Algebrize is the top-level driver entry point, per spec.md §4.8:
// algebrize(schema, parsed, inputs) -> AlgebraicQuery.
func Algebrize(known Known) (*AlgebraicQuery, error) {
	cc := NewCC()

	for v, tv := range known.Inputs.Values {
		cc.InputVariables[v] = true
		cc.BindValue(v, tv)
	}
	for v := range known.Inputs.Unbound {
		cc.InputVariables[v] = true
	}

	if err := AlgebrizeClauses(cc, known.Schema, known.Query.Where); err != nil {
		return nil, err
	}

	if !cc.IsKnownEmpty() {
		cc.ExpandColumnBindings()
	}
	if !cc.IsKnownEmpty() {
		cc.PruneExtractedTypes()
	}
	if !cc.IsKnownEmpty() {
		cc.ProcessRequiredTypes()
	}

	aq, err := resolveFindSpec(cc, known.Query)
	if err != nil {
		return nil, err
	}
	return aq, nil
}
