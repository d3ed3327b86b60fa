package algebra

import (
	"github.com/wbrown/janus-datalog/datalog"
	"github.com/wbrown/janus-datalog/datalog/query"
)

// chooseTable picks the backing table for a pattern, per spec.md §4.3
// step 1: Datoms normally; fulltext tables when the attribute is known
// fulltext and the value position is a pattern (a variable, i.e. to be
// matched); AllDatoms when the attribute is unknown (a variable, a blank,
// or absent) and so the value's type is ambiguous. An attribute literal
// that does not resolve never reaches here: AlgebrizePattern marks the CC
// empty first.
func chooseTable(attr *Attribute, attrKnown bool, valueIsVariable bool) DatomsTable {
	if !attrKnown {
		return AllDatoms
	}
	if attr != nil && attr.Fulltext && valueIsVariable {
		return FulltextDatoms
	}
	return Datoms
}

// AlgebrizePattern applies a single [e a v tx] data pattern to cc, per
// spec.md §4.3. It is the entry point the driver and compound-clause
// algebrizers call for every query.DataPattern clause.
func AlgebrizePattern(cc *ConjoiningClauses, schema SchemaView, pattern *query.DataPattern) error {
	if cc.IsKnownEmpty() {
		return nil
	}

	aElem := pattern.GetA()
	var attr *Attribute
	var entid Entid
	attrKnown := false

	if aElem != nil {
		if c, ok := aElem.(query.Constant); ok {
			e, a, resolved, rerr := resolveAttributeConstant(schema, c.Value)
			if rerr != nil {
				return rerr
			}
			if !resolved {
				cc.MarkKnownEmpty(NewEmptyBecause(UnresolvedIdent, "attribute literal does not resolve to a known ident"))
				return nil
			}
			entid, attr, attrKnown = e, a, true
		}
	}

	vElem := pattern.GetV()
	_, valueIsVar := vElem.(query.Variable)

	table := chooseTable(attr, attrKnown, valueIsVar)
	alias := cc.AddFrom(table)

	eCol := NewQualifiedAlias(alias, ColumnEntity)
	aCol := NewQualifiedAlias(alias, ColumnAttribute)
	vCol := NewQualifiedAlias(alias, ColumnValue)

	if err := processRefPosition(cc, pattern.GetE(), eCol); err != nil {
		return err
	}

	if attrKnown {
		cc.ConstrainAttribute(aCol, entid, attr, vCol)
	} else if aElem != nil {
		if err := processVariablePosition(cc, aElem, aCol, RefOnly); err != nil {
			return err
		}
	}

	if vElem != nil {
		if err := processValuePosition(cc, vElem, vCol, attr); err != nil {
			return err
		}
	}

	if tElem := pattern.GetT(); tElem != nil {
		tCol := NewQualifiedAlias(alias, ColumnTx)
		if err := processRefPosition(cc, tElem, tCol); err != nil {
			return err
		}
	}

	return nil
}

func resolveAttributeConstant(schema SchemaView, v interface{}) (Entid, *Attribute, bool, error) {
	switch val := v.(type) {
	case datalog.Keyword:
		e, attr, ok := AttributeForIdent(schema, val)
		return e, attr, ok, nil
	case Entid:
		attr, ok := schema.AttributeForEntid(val)
		return val, attr, ok, nil
	case int64:
		e := Entid(val)
		attr, ok := schema.AttributeForEntid(e)
		return e, attr, ok, nil
	default:
		return 0, nil, false, nil
	}
}

// processRefPosition handles the e/tx positions, which are always Ref
// typed regardless of the attribute.
func processRefPosition(cc *ConjoiningClauses, elem query.PatternElement, col QualifiedAlias) error {
	if elem == nil {
		return nil
	}
	switch e := elem.(type) {
	case query.Blank:
		return nil
	case query.Variable:
		cc.BindColumnToVar(e.Name, col, RefOnly)
		return nil
	case query.Constant:
		tv, err := constantToRefTypedValue(e.Value)
		if err != nil {
			return err
		}
		cc.ConstrainColumnToConstant(col, tv)
		return nil
	default:
		return nil
	}
}

func constantToRefTypedValue(v interface{}) (TypedValue, error) {
	switch val := v.(type) {
	case datalog.Identity:
		return TypedValue{Type: TypeRef, Value: val}, nil
	case Entid:
		return TypedValue{Type: TypeRef, Value: val}, nil
	case int64:
		return TypedValue{Type: TypeRef, Value: val}, nil
	default:
		return NewTypedValue(v)
	}
}

// processVariablePosition handles a variable appearing where a constant
// could also appear (e.g. an unresolved attribute position), binding it
// with the given inferred type.
func processVariablePosition(cc *ConjoiningClauses, elem query.PatternElement, col QualifiedAlias, inferred ValueTypeSet) error {
	switch e := elem.(type) {
	case query.Blank:
		return nil
	case query.Variable:
		cc.BindColumnToVar(e.Name, col, inferred)
		return nil
	case query.Constant:
		tv, err := NewTypedValue(e.Value)
		if err != nil {
			return err
		}
		cc.ConstrainColumnToConstant(col, tv)
		return nil
	default:
		return nil
	}
}

// processValuePosition handles the v position, per spec.md §4.3 step 3:
// literal values are checked against the attribute's declared type (when
// known), failing with TypeMismatch on disagreement; variables are bound
// with the attribute's declared type as their inferred type, or AnyType
// when the attribute is unknown.
func processValuePosition(cc *ConjoiningClauses, elem query.PatternElement, col QualifiedAlias, attr *Attribute) error {
	inferred := AnyType
	if attr != nil {
		inferred = OfOne(attr.ValueType)
	}

	switch e := elem.(type) {
	case query.Blank:
		return nil
	case query.Variable:
		cc.BindColumnToVar(e.Name, col, inferred)
		return nil
	case query.Constant:
		tv, err := NewTypedValue(e.Value)
		if err != nil {
			return err
		}
		if attr != nil && tv.Type != attr.ValueType {
			cc.MarkKnownEmpty(NewEmptyBecause(TypeMismatch, "literal value type disagrees with attribute's declared type"))
			return nil
		}
		cc.ConstrainColumnToConstant(col, tv)
		return nil
	default:
		return nil
	}
}
