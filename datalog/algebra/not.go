package algebra

import "github.com/wbrown/janus-datalog/datalog/query"

// notUnificationSet computes U for a not/not-join clause, per spec.md §4.5
// step 1: implicit unification is every variable mentioned in the
// sub-clauses; explicit unification is the given variable list.
func notUnificationSet(clauses []query.Clause, explicit []Variable) []Variable {
	if explicit != nil {
		return explicit
	}
	return query.MentionedVariables(clauses)
}

// AlgebrizeNot applies a parsed `not`/`not-join` clause to the parent CC,
// per spec.md §4.5.
func AlgebrizeNot(parent *ConjoiningClauses, schema SchemaView, clauses []query.Clause, explicitVars []Variable) error {
	if parent.IsKnownEmpty() {
		return nil
	}

	u := notUnificationSet(clauses, explicitVars)

	for _, v := range u {
		if !parent.IsBound(v) {
			return NewUnboundVariable(v)
		}
	}

	child := parent.UseAsTemplate(u)

	if err := AlgebrizeClauses(child, schema, clauses); err != nil {
		return err
	}

	child.ExpandColumnBindings()
	if child.IsKnownEmpty() {
		return nil
	}
	child.PruneExtractedTypes()
	if child.IsKnownEmpty() {
		return nil
	}
	child.ProcessRequiredTypes()
	if child.IsKnownEmpty() {
		// Contradictory negation: the subquery is vacuous, so the whole
		// negation is dropped and the parent is left unaffected.
		return nil
	}

	if child.Wheres.IsEmpty() {
		// The negation imposes no constraint at all; dropping it is
		// equivalent to keeping a NotExists over a tautological subquery.
		return nil
	}

	parent.Wheres.Add(NotExists{Table: &SubqueryTable{CC: child}})
	return nil
}
