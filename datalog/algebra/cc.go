package algebra

import "fmt"

// ConjoiningClauses is the central mutable accumulator produced by
// algebrization, per spec.md §3. Its binding, constraint and type-narrowing
// mutators are early-return no-ops once EmptyBecause is set (spec.md §9's
// "sticky emptiness" rule) — this is implemented as a guard at the top of
// each of those mutators, never as exception flow or panics. AddFrom,
// NextAlias and RequireType carry no such guard; their callers check
// IsKnownEmpty first.
type ConjoiningClauses struct {
	emptyBecause *EmptyBecause

	From            []SourceAlias
	ComputedTables  []ComputedTable
	Wheres          *ColumnIntersection
	ColumnBindings  map[Variable][]QualifiedAlias
	InputVariables  map[Variable]bool
	ValueBindings   map[Variable]TypedValue
	KnownTypes      map[Variable]ValueTypeSet
	ExtractedTypes  map[Variable]QualifiedAlias
	RequiredTypes   map[Variable]ValueTypeSet

	aliasCounter map[DatomsTable]int
}

// NewCC returns an empty CC ready to be seeded and algebrized against.
func NewCC() *ConjoiningClauses {
	return &ConjoiningClauses{
		Wheres:         &ColumnIntersection{},
		ColumnBindings: make(map[Variable][]QualifiedAlias),
		InputVariables: make(map[Variable]bool),
		ValueBindings:  make(map[Variable]TypedValue),
		KnownTypes:     make(map[Variable]ValueTypeSet),
		ExtractedTypes: make(map[Variable]QualifiedAlias),
		RequiredTypes:  make(map[Variable]ValueTypeSet),
		aliasCounter:   make(map[DatomsTable]int),
	}
}

// IsKnownEmpty reports whether the CC has been marked known-empty.
func (cc *ConjoiningClauses) IsKnownEmpty() bool {
	return cc.emptyBecause != nil
}

// EmptyBecauseReason returns the reason the CC is known-empty, or nil.
func (cc *ConjoiningClauses) EmptyBecauseReason() *EmptyBecause {
	return cc.emptyBecause
}

// MarkKnownEmpty sets the CC's empty reason. Sticky: once set, later calls
// are no-ops, matching the first reason a CC became empty.
func (cc *ConjoiningClauses) MarkKnownEmpty(reason EmptyBecause) {
	if cc.emptyBecause != nil {
		return
	}
	cc.emptyBecause = &reason
}

// NextAlias generates the next fresh alias for table, e.g. "datoms00",
// "datoms01", "fulltext_values00". A CC created via UseAsTemplate shares
// its parent's counter (the underlying map is the same instance), so
// aliases stay globally unique across a query and its nested not/or
// subqueries, matching spec.md §8 invariant 7.
func (cc *ConjoiningClauses) NextAlias(table DatomsTable) string {
	n := cc.aliasCounter[table]
	cc.aliasCounter[table] = n + 1
	return fmt.Sprintf("%s%02d", table, n)
}

// AddFrom generates a fresh alias for table, appends it to From, and
// returns the alias.
func (cc *ConjoiningClauses) AddFrom(table DatomsTable) string {
	alias := cc.NextAlias(table)
	cc.From = append(cc.From, SourceAlias{Table: table, Alias: alias})
	return alias
}

// BindColumnToVar appends column to v's column binding list. If v already
// had a binding, it emits an Equals constraint tying the new column to the
// first (canonical) one, preserving first-encountered order for stable
// generated output (spec.md §4.3's tie-break rule). inferredType is
// intersected into v's known types: for entity/tx columns this is always
// RefOnly; for a value column it is the attribute's declared type if
// pinned, or AnyType otherwise.
func (cc *ConjoiningClauses) BindColumnToVar(v Variable, column QualifiedAlias, inferredType ValueTypeSet) {
	if cc.IsKnownEmpty() {
		return
	}
	existing := cc.ColumnBindings[v]
	if len(existing) > 0 {
		cc.Wheres.Add(Equals{Column: existing[0], Value: ColumnValue{Column: column}})
	}
	cc.ColumnBindings[v] = append(existing, column)
	cc.narrowKnownTypes(v, inferredType)
}

// ConstrainColumnToConstant emits Equals(column, value) and, when the
// column is a value column bound to a variable, narrows that variable's
// known types by intersecting with value's type, marking the CC empty
// with TypeMismatch if the intersection becomes empty.
func (cc *ConjoiningClauses) ConstrainColumnToConstant(column QualifiedAlias, value TypedValue) {
	if cc.IsKnownEmpty() {
		return
	}
	cc.Wheres.Add(Equals{Column: column, Value: TypedValueQV{Value: value}})
	if column.Column != ColumnValue {
		return
	}
	for v, cols := range cc.ColumnBindings {
		for _, c := range cols {
			if c.Equal(column) {
				cc.narrowKnownTypesWithReason(v, OfOne(value.Type), TypeMismatch)
				break
			}
		}
	}
}

// ConstrainAttribute emits Equals(columnA, Entid(e)) and propagates attr's
// declared value type to valueColumn as an intersection into every
// variable bound there.
func (cc *ConjoiningClauses) ConstrainAttribute(columnA QualifiedAlias, e Entid, attr *Attribute, valueColumn QualifiedAlias) {
	if cc.IsKnownEmpty() {
		return
	}
	cc.Wheres.Add(Equals{Column: columnA, Value: EntidQV{Entid: e}})
	if attr == nil {
		return
	}
	declared := OfOne(attr.ValueType)
	for v, cols := range cc.ColumnBindings {
		for _, c := range cols {
			if c.Equal(valueColumn) {
				cc.narrowKnownTypesWithReason(v, declared, TypeMismatch)
				break
			}
		}
	}
}

// NarrowTypesForVar intersects v's known types with set, marking the CC
// empty with NoValidTypes if the result is empty.
func (cc *ConjoiningClauses) NarrowTypesForVar(v Variable, set ValueTypeSet) {
	cc.narrowKnownTypesWithReason(v, set, NoValidTypes)
}

func (cc *ConjoiningClauses) narrowKnownTypes(v Variable, set ValueTypeSet) {
	cc.narrowKnownTypesWithReason(v, set, NoValidTypes)
}

func (cc *ConjoiningClauses) narrowKnownTypesWithReason(v Variable, set ValueTypeSet, reason EmptyBecauseKind) {
	if cc.IsKnownEmpty() {
		return
	}
	current, ok := cc.KnownTypes[v]
	if !ok {
		current = AnyType
	}
	narrowed := current.Intersection(set)
	cc.KnownTypes[v] = narrowed
	if narrowed.IsEmpty() {
		cc.MarkKnownEmpty(NewEmptyBecauseVar(reason, v, "no valid types remain"))
	}
}

// BindValue records v's value binding and collapses its known types to
// the singleton of the value's type (spec.md §8 invariant 2).
func (cc *ConjoiningClauses) BindValue(v Variable, value TypedValue) {
	if cc.IsKnownEmpty() {
		return
	}
	cc.ValueBindings[v] = value
	cc.narrowKnownTypesWithReason(v, OfOne(value.Type), ConflictingBindings)
}

// ExpandColumnBindings makes sure that, for every variable with two or more
// bound columns, each non-canonical column is tied to the canonical first
// entry by an Equals constraint, emitting any that are missing. Every pair
// of columns is then connected transitively through the canonical column,
// per spec.md §8 invariant 1; direct Equals between two non-canonical
// columns are not emitted. It is idempotent: a second call finds every
// column already tied to the canonical one and emits nothing new.
func (cc *ConjoiningClauses) ExpandColumnBindings() {
	if cc.IsKnownEmpty() {
		return
	}
	for _, cols := range cc.ColumnBindings {
		if len(cols) < 2 {
			continue
		}
		canonical := cols[0]
		for _, c := range cols[1:] {
			if cc.hasEquals(canonical, c) {
				continue
			}
			cc.Wheres.Add(Equals{Column: canonical, Value: ColumnValue{Column: c}})
		}
	}
}

func (cc *ConjoiningClauses) hasEquals(a, b QualifiedAlias) bool {
	for _, coa := range cc.Wheres.Constraints {
		lw, ok := coa.(leafWrapper)
		if !ok {
			continue
		}
		eq, ok := lw.ColumnConstraint.(Equals)
		if !ok {
			continue
		}
		cv, ok := eq.Value.(ColumnValue)
		if !ok {
			continue
		}
		if (eq.Column.Equal(a) && cv.Column.Equal(b)) || (eq.Column.Equal(b) && cv.Column.Equal(a)) {
			return true
		}
	}
	return false
}

// PruneExtractedTypes drops any extracted-type entry for a variable whose
// known types are already a unit set: the runtime type tag column is
// redundant once the type is statically determined. Idempotent: a second
// call finds nothing left to prune for already-unit variables.
func (cc *ConjoiningClauses) PruneExtractedTypes() {
	if cc.IsKnownEmpty() {
		return
	}
	for v, types := range cc.KnownTypes {
		if types.IsUnit() {
			delete(cc.ExtractedTypes, v)
		}
	}
}

// ProcessRequiredTypes intersects every variable's known types with any
// type demanded of it by predicates or the find-spec, marking the CC
// empty with NoValidTypes if a demand cannot be satisfied. Idempotent:
// running it again against the same, already-narrowed known_types is a
// no-op since the intersection no longer changes anything.
func (cc *ConjoiningClauses) ProcessRequiredTypes() {
	if cc.IsKnownEmpty() {
		return
	}
	for v, required := range cc.RequiredTypes {
		cc.narrowKnownTypesWithReason(v, required, NoValidTypes)
		if cc.IsKnownEmpty() {
			return
		}
	}
}

// RequireType records that v must have a type within set, to be enforced
// by a later ProcessRequiredTypes pass.
func (cc *ConjoiningClauses) RequireType(v Variable, set ValueTypeSet) {
	if existing, ok := cc.RequiredTypes[v]; ok {
		cc.RequiredTypes[v] = existing.Intersection(set)
	} else {
		cc.RequiredTypes[v] = set
	}
}

// IsBound reports whether v has either a column binding or a value
// binding in this CC — the test spec.md §4.5 step 2 uses to validate a
// not/not-join unification set against the parent.
func (cc *ConjoiningClauses) IsBound(v Variable) bool {
	if _, ok := cc.ValueBindings[v]; ok {
		return true
	}
	return len(cc.ColumnBindings[v]) > 0
}

// UseAsTemplate constructs a child CC seeded from cc for exactly the
// variables in vars, per spec.md §4.5 step 3 / §4.6 step 2: for each
// variable, the first column of the parent's binding becomes a solitary
// entry in the child (enabling join-back), or the parent's value binding
// is copied in directly. The child's known types are restricted to just
// those variables, and its input_variables is the intersection of vars
// with the parent's input_variables.
func (cc *ConjoiningClauses) UseAsTemplate(vars []Variable) *ConjoiningClauses {
	child := NewCC()
	child.aliasCounter = cc.aliasCounter
	for _, v := range vars {
		if val, ok := cc.ValueBindings[v]; ok {
			child.ValueBindings[v] = val
		} else if cols := cc.ColumnBindings[v]; len(cols) > 0 {
			child.ColumnBindings[v] = []QualifiedAlias{cols[0]}
		}
		if t, ok := cc.KnownTypes[v]; ok {
			child.KnownTypes[v] = t
		}
		if cc.InputVariables[v] {
			child.InputVariables[v] = true
		}
	}
	return child
}

// String renders the CC for debug dumps, the same indent-and-recurse style
// the teacher's own query/plan types use for their String() methods.
func (cc *ConjoiningClauses) String() string {
	if cc.IsKnownEmpty() {
		return fmt.Sprintf("<empty: %s>", cc.emptyBecause)
	}
	froms := make([]string, len(cc.From))
	for i, f := range cc.From {
		froms[i] = f.String()
	}
	return fmt.Sprintf("FROM %v WHERE %s", froms, cc.Wheres)
}
