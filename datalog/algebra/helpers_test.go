package algebra

import "github.com/wbrown/janus-datalog/datalog"

// prepopulatedSchema mirrors the schema used throughout spec.md §8's
// end-to-end scenarios: :foo/name=65 String, :foo/knows=66 String
// multival, :foo/parent=67 String multival, :foo/age=68 Long,
// :foo/height=69 Long.
func prepopulatedSchema() *Schema {
	s := NewSchema()

	associateIdent(s, ":foo/name", 65, Attribute{ValueType: TypeString})
	associateIdent(s, ":foo/knows", 66, Attribute{ValueType: TypeString, Multival: true})
	associateIdent(s, ":foo/parent", 67, Attribute{ValueType: TypeString, Multival: true})
	associateIdent(s, ":foo/age", 68, Attribute{ValueType: TypeLong})
	associateIdent(s, ":foo/height", 69, Attribute{ValueType: TypeLong})

	return s
}

func associateIdent(s *Schema, ident string, e Entid, attr Attribute) {
	kw := datalog.NewKeyword(ident)
	s.AssociateIdent(kw, e)
	s.AddAttribute(e, attr)
}
