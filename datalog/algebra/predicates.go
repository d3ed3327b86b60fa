package algebra

import (
	"github.com/wbrown/janus-datalog/datalog/query"
)

// AlgebrizePredicate dispatches a predicate/function/ground clause to its
// handler, per spec.md §4.4.
func AlgebrizePredicate(cc *ConjoiningClauses, clause query.Clause) error {
	if cc.IsKnownEmpty() {
		return nil
	}
	switch c := clause.(type) {
	case *query.Comparison:
		return algebrizeComparison(cc, c.Op, []query.Term{c.Left, c.Right})
	case *query.ChainedComparison:
		return algebrizeChainedComparison(cc, c)
	case *query.NotEqualPredicate:
		return algebrizeComparison(cc, query.OpNE, []query.Term{c.Left, c.Right})
	case *query.GroundPredicate:
		return algebrizeGroundPredicate(cc, c)
	case *query.MissingPredicate:
		return algebrizeMissingPredicate(cc, c)
	case *query.Expression:
		return algebrizeExpression(cc, c)
	case *query.GroundClause:
		return algebrizeGroundClause(cc, c)
	default:
		return nil
	}
}

func termToQueryValue(cc *ConjoiningClauses, term query.Term) (QueryValue, ValueTypeSet, error) {
	switch t := term.(type) {
	case query.VariableTerm:
		if cols := cc.ColumnBindings[t.Symbol]; len(cols) > 0 {
			return ColumnValue{Column: cols[0]}, cc.KnownTypes[t.Symbol], nil
		}
		if v, ok := cc.ValueBindings[t.Symbol]; ok {
			return TypedValueQV{Value: v}, OfOne(v.Type), nil
		}
		return nil, EmptySet, NewUnboundVariable(t.Symbol)
	case query.ConstantTerm:
		tv, err := NewTypedValue(t.Value)
		if err != nil {
			return nil, EmptySet, NewInvalidArgument("comparison", 0, "a typeable literal")
		}
		return TypedValueQV{Value: tv}, OfOne(tv.Type), nil
	default:
		return nil, EmptySet, NewInvalidArgument("comparison", 0, "a variable or constant term")
	}
}

func compareOpToInequality(op query.CompareOp) (Inequality, bool) {
	switch op {
	case query.OpLT:
		return LessThan, true
	case query.OpLTE:
		return LessThanOrEqual, true
	case query.OpGT:
		return GreaterThan, true
	case query.OpGTE:
		return GreaterThanOrEqual, true
	case query.OpNE:
		return NotEqual, true
	default:
		return 0, false
	}
}

// algebrizeComparison handles <, <=, >, >=, !=, = per spec.md §4.4: both
// operands must resolve to QueryValues whose types intersect in Comparable
// (or Any for =/!=). Each variable operand's known types are narrowed to
// that intersection.
func algebrizeComparison(cc *ConjoiningClauses, op query.CompareOp, terms []query.Term) error {
	left, leftTypes, err := termToQueryValue(cc, terms[0])
	if err != nil {
		return err
	}
	right, rightTypes, err := termToQueryValue(cc, terms[1])
	if err != nil {
		return err
	}

	allowed := Comparable
	if op == query.OpEQ || op == query.OpNE {
		allowed = AnyType
	}

	combined := allowed
	if leftTypes != EmptySet {
		combined = combined.Intersection(leftTypes)
	}
	if rightTypes != EmptySet {
		combined = combined.Intersection(rightTypes)
	}
	if (leftTypes != EmptySet || rightTypes != EmptySet) && combined.IsEmpty() {
		cc.MarkKnownEmpty(NewEmptyBecause(TypeMismatch, "comparison operands have disjoint types"))
		return nil
	}

	if leftTypes != EmptySet {
		narrowComparisonOperand(cc, terms[0], combined)
	}
	if rightTypes != EmptySet {
		narrowComparisonOperand(cc, terms[1], combined)
	}
	if cc.IsKnownEmpty() {
		return nil
	}

	if op == query.OpEQ {
		if _, leftIsColumn := left.(ColumnValue); !leftIsColumn {
			left, right = right, left
		}
		if col, ok := left.(ColumnValue); ok {
			cc.Wheres.Add(Equals{Column: col.Column, Value: right})
		} else {
			// Neither operand is a column (a literal-to-literal equality);
			// there is nothing to constrain, so just verify statically.
			lv := left.(TypedValueQV).Value
			rv := right.(TypedValueQV).Value
			if lv.Type != rv.Type || lv.Value != rv.Value {
				cc.MarkKnownEmpty(NewEmptyBecause(ConflictingBindings, "literal equality does not hold"))
			}
		}
		return nil
	}

	ineq, ok := compareOpToInequality(op)
	if !ok {
		return NewInvalidArgument(string(op), -1, "a supported comparison operator")
	}
	cc.Wheres.Add(InequalityConstraint{Op: ineq, Left: left, Right: right})
	return nil
}

func narrowComparisonOperand(cc *ConjoiningClauses, term query.Term, allowed ValueTypeSet) {
	vt, ok := term.(query.VariableTerm)
	if !ok {
		return
	}
	cc.NarrowTypesForVar(vt.Symbol, allowed)
}

func algebrizeChainedComparison(cc *ConjoiningClauses, c *query.ChainedComparison) error {
	for i := 0; i < len(c.Terms)-1; i++ {
		if err := algebrizeComparison(cc, c.Op, []query.Term{c.Terms[i], c.Terms[i+1]}); err != nil {
			return err
		}
		if cc.IsKnownEmpty() {
			return nil
		}
	}
	return nil
}

// algebrizeGroundPredicate treats [(ground ?x ?y)] as requiring each
// variable to already be bound in the enclosing CC: it is a static
// assertion, not a value producer (that form is query.GroundClause /
// query.Expression{Function: GroundFunction}).
func algebrizeGroundPredicate(cc *ConjoiningClauses, g *query.GroundPredicate) error {
	for _, v := range g.Variables {
		if !cc.IsBound(v) {
			return NewUnboundVariable(v)
		}
	}
	return nil
}

// algebrizeMissingPredicate asserts that the given variables are NOT
// present in the enclosing CC's bindings.
func algebrizeMissingPredicate(cc *ConjoiningClauses, m *query.MissingPredicate) error {
	for _, v := range m.Variables {
		if cc.IsBound(v) {
			cc.MarkKnownEmpty(NewEmptyBecauseVar(ConflictingBindings, v, "variable is bound but [(missing ...)] requires it unbound"))
			return nil
		}
	}
	return nil
}

// algebrizeExpression handles [(fn args...) binding] forms. The only
// function relevant at algebrization time (rather than execution) is
// ground: ground(const) binds Binding to a value directly, narrowing its
// known types to the singleton of the constant's type.
func algebrizeExpression(cc *ConjoiningClauses, e *query.Expression) error {
	gf, ok := e.Function.(*query.GroundFunction)
	if !ok {
		// Other functions (arithmetic, string, time extraction, identity,
		// comparison, and) are execution-time concerns and are passed over
		// here: their inputs are not checked and their binding variable is
		// not bound in the CC.
		return nil
	}
	if e.Binding == "" {
		return NewInvalidArgument("ground", 0, "a binding variable")
	}
	tv, err := NewTypedValue(gf.Value)
	if err != nil {
		return NewNamed(InvalidGroundConstant, e.Binding.String())
	}
	cc.BindValue(e.Binding, tv)
	return nil
}

// algebrizeGroundClause handles [(ground [1 2 3]) [?x ...]] and
// [(ground [[1 "a"] [2 "b"]]) [[?x ?y] ...]]: a NamedValues ComputedTable
// is synthesized and the binding form's variables are bound to its
// columns, per spec.md §4.4's "collection/relation" ground case.
func algebrizeGroundClause(cc *ConjoiningClauses, g *query.GroundClause) error {
	items, ok := g.Value.([]interface{})
	if !ok {
		return NewNamed(InvalidGroundConstant, "ground")
	}

	switch b := g.Binding.(type) {
	case query.CollectionBinding:
		rows := make([][]TypedValue, 0, len(items))
		for _, item := range items {
			tv, err := NewTypedValue(item)
			if err != nil {
				return NewNamed(InvalidGroundConstant, "ground")
			}
			rows = append(rows, []TypedValue{tv})
		}
		table := &NamedValuesTable{Names: []Variable{b.Variable}, Values: rows}
		cc.ComputedTables = append(cc.ComputedTables, table)
		alias := cc.NextAlias(Datoms)
		cc.BindColumnToVar(b.Variable, NewQualifiedAlias(alias, ColumnValue), AnyType)
		return nil
	case query.RelationBinding:
		rows := make([][]TypedValue, 0, len(items))
		for _, item := range items {
			tuple, ok := item.([]interface{})
			if !ok || len(tuple) != len(b.Variables) {
				return NewNamed(InvalidGroundConstant, "ground")
			}
			row := make([]TypedValue, len(tuple))
			for i, v := range tuple {
				tv, err := NewTypedValue(v)
				if err != nil {
					return NewNamed(InvalidGroundConstant, "ground")
				}
				row[i] = tv
			}
			rows = append(rows, row)
		}
		table := &NamedValuesTable{Names: append([]Variable{}, b.Variables...), Values: rows}
		cc.ComputedTables = append(cc.ComputedTables, table)
		for _, v := range b.Variables {
			alias := cc.NextAlias(Datoms)
			cc.BindColumnToVar(v, NewQualifiedAlias(alias, ColumnValue), AnyType)
		}
		return nil
	default:
		return NewNamed(InvalidGroundFnArg, "ground")
	}
}
