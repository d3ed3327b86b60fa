package algebra

import "github.com/wbrown/janus-datalog/datalog/query"

func orUnificationSet(branches []query.OrBranch, explicit []Variable) []Variable {
	if explicit != nil {
		return explicit
	}
	var all []query.Clause
	for _, b := range branches {
		all = append(all, b.Clauses...)
	}
	return query.MentionedVariables(all)
}

// AlgebrizeOr applies a parsed `or`/`or-join` clause to the parent CC, per
// spec.md §4.6.
func AlgebrizeOr(parent *ConjoiningClauses, schema SchemaView, branches []query.OrBranch, explicitVars []Variable) error {
	if parent.IsKnownEmpty() {
		return nil
	}

	u := orUnificationSet(branches, explicitVars)
	isExplicit := explicitVars != nil

	var surviving []*ConjoiningClauses
	for _, branch := range branches {
		child := parent.UseAsTemplate(u)
		if err := AlgebrizeClauses(child, schema, branch.Clauses); err != nil {
			return err
		}

		mentioned := query.MentionedVariables(branch.Clauses)
		if err := checkBranchBindsUnificationSet(child, u, mentioned, isExplicit); err != nil {
			return err
		}

		if child.IsKnownEmpty() {
			continue
		}
		surviving = append(surviving, child)
	}

	if len(surviving) == 0 {
		parent.MarkKnownEmpty(NewEmptyBecause(NonMatchingOr, "every branch of (or ...) is known-empty"))
		return nil
	}

	unionTypesIntoParent(parent, surviving, u)

	if len(surviving) == 1 {
		spliceChildIntoParent(parent, surviving[0])
		return nil
	}

	alt := &ColumnAlternation{}
	for _, child := range surviving {
		alt.Branches = append(alt.Branches, child.Wheres)
		parent.From = append(parent.From, child.From...)
		parent.ComputedTables = append(parent.ComputedTables, child.ComputedTables...)
	}
	parent.Wheres.AddAlternation(alt)

	for _, v := range u {
		alias := parent.NextAlias(Datoms)
		parent.BindColumnToVar(v, NewQualifiedAlias(alias, ColumnValue), parent.KnownTypes[v])
	}

	return nil
}

// checkBranchBindsUnificationSet enforces spec.md §4.6 step 1: an implicit
// or must bind exactly U in every branch; an explicit or-join must bind at
// least U. Anything else is NonMatchingVariablesInOrJoin.
func checkBranchBindsUnificationSet(child *ConjoiningClauses, u []Variable, mentioned []Variable, isExplicit bool) error {
	mentionedSet := make(map[Variable]bool, len(mentioned))
	for _, v := range mentioned {
		mentionedSet[v] = true
	}

	for _, v := range u {
		if !child.IsBound(v) {
			if child.IsKnownEmpty() {
				continue
			}
			return NewSimple(NonMatchingVariablesInOrJoin)
		}
	}

	if isExplicit {
		return nil
	}

	uSet := make(map[Variable]bool, len(u))
	for _, v := range u {
		uSet[v] = true
	}
	for v := range mentionedSet {
		if !uSet[v] {
			return NewSimple(NonMatchingVariablesInOrJoin)
		}
	}
	return nil
}

func unionTypesIntoParent(parent *ConjoiningClauses, surviving []*ConjoiningClauses, u []Variable) {
	for _, v := range u {
		var union ValueTypeSet
		for _, child := range surviving {
			union = union.Union(child.KnownTypes[v])
		}
		if union != EmptySet {
			parent.KnownTypes[v] = union
		}
	}
}

// spliceChildIntoParent folds a single surviving branch's constraints
// directly into the parent, per spec.md §4.6 step 5. child was built by
// UseAsTemplate, which seeds child.ColumnBindings[v] with a copy of
// parent.ColumnBindings[v][0] for every v the parent already bound; that
// seed column must not be re-appended here or it ends up duplicated in
// parent.ColumnBindings[v].
func spliceChildIntoParent(parent *ConjoiningClauses, child *ConjoiningClauses) {
	parent.From = append(parent.From, child.From...)
	parent.ComputedTables = append(parent.ComputedTables, child.ComputedTables...)
	parent.Wheres.Constraints = append(parent.Wheres.Constraints, child.Wheres.Constraints...)
	for v, cols := range child.ColumnBindings {
		existing := parent.ColumnBindings[v]
		if len(existing) > 0 && len(cols) > 0 && cols[0].Equal(existing[0]) {
			cols = cols[1:]
		}
		parent.ColumnBindings[v] = append(existing, cols...)
	}
	for v, val := range child.ValueBindings {
		parent.ValueBindings[v] = val
	}
}
