package algebra

import (
	"github.com/wbrown/janus-datalog/datalog"
)

// Entid is a signed 64-bit integer naming a schema entity (attribute or
// ident). It is deliberately not datalog.Identity: Identity is a 20-byte
// SHA1 hash identifying a *data* entity in the storage layer, while Entid
// is the small numeric id of a *schema* entity — the same distinction the
// teacher already draws between storage.Entity and datalog.Keyword for
// attributes.
type Entid int64

// Unique describes the uniqueness constraint declared on an attribute.
type Unique int

const (
	// NotUnique means the attribute has no uniqueness constraint.
	NotUnique Unique = iota
	// UniqueValue means the value must be unique across all entities.
	UniqueValue
	// UniqueIdentity means the value is unique and may be used to
	// upsert, like :db.unique/identity.
	UniqueIdentity
)

func (u Unique) String() string {
	switch u {
	case UniqueValue:
		return "value"
	case UniqueIdentity:
		return "identity"
	default:
		return "none"
	}
}

// Attribute is the read-only descriptor the algebrizer resolves from the
// schema for every attribute it encounters in a pattern. Field-for-field
// per spec.md §3, laid out as a plain struct-of-bools in the teacher's own
// preferred shape for fixed-field descriptors (datalog.Datom).
type Attribute struct {
	ValueType  ValueType
	Multival   bool
	Unique     Unique
	HasUnique  bool
	Fulltext   bool
	IsRef      bool
	Index      bool
	NoHistory  bool
}

// SchemaView is the read-only mapping from entid/ident to attribute
// descriptor that the algebrizer consumes. It never writes.
type SchemaView interface {
	AttributeForEntid(e Entid) (*Attribute, bool)
	EntidForIdent(ident datalog.Keyword) (Entid, bool)
	IdentForEntid(e Entid) (datalog.Keyword, bool)
}

// Schema is the default in-memory SchemaView implementation, seeded either
// directly (tests) or from storage-resident attribute datoms through a
// Resolver-shaped adapter (see NewSchemaFromStorage).
type Schema struct {
	attributesByEntid map[Entid]*Attribute
	identToEntid      map[string]Entid
	entidToIdent      map[Entid]datalog.Keyword
}

// NewSchema returns an empty, writable-only-at-construction-time schema.
func NewSchema() *Schema {
	return &Schema{
		attributesByEntid: make(map[Entid]*Attribute),
		identToEntid:      make(map[string]Entid),
		entidToIdent:      make(map[Entid]datalog.Keyword),
	}
}

// AssociateIdent records that ident names entid e, mirroring mentat's
// associate_ident test helper (original_source's not.rs prepopulated_schema).
func (s *Schema) AssociateIdent(ident datalog.Keyword, e Entid) {
	s.identToEntid[ident.String()] = e
	s.entidToIdent[e] = ident
}

// AddAttribute records the attribute descriptor for entid e.
func (s *Schema) AddAttribute(e Entid, attr Attribute) {
	a := attr
	s.attributesByEntid[e] = &a
}

// AttributeForEntid implements SchemaView.
func (s *Schema) AttributeForEntid(e Entid) (*Attribute, bool) {
	a, ok := s.attributesByEntid[e]
	return a, ok
}

// EntidForIdent implements SchemaView.
func (s *Schema) EntidForIdent(ident datalog.Keyword) (Entid, bool) {
	e, ok := s.identToEntid[ident.String()]
	return e, ok
}

// IdentForEntid implements SchemaView.
func (s *Schema) IdentForEntid(e Entid) (datalog.Keyword, bool) {
	ident, ok := s.entidToIdent[e]
	return ident, ok
}

// AttributeForIdent is a convenience composition of EntidForIdent and
// AttributeForEntid, used throughout the pattern algebrizer.
func AttributeForIdent(s SchemaView, ident datalog.Keyword) (Entid, *Attribute, bool) {
	e, ok := s.EntidForIdent(ident)
	if !ok {
		return 0, nil, false
	}
	attr, ok := s.AttributeForEntid(e)
	if !ok {
		return e, nil, false
	}
	return e, attr, true
}

// StorageResolver is the narrow slice of storage.Resolver-shaped behavior
// needed to seed a Schema from persisted attribute datoms, without the
// algebra package importing the storage package's full datom-encoding
// surface (which would pull in badger for a package that otherwise has no
// I/O, contrary to spec.md §5's pure-transformation requirement).
type StorageResolver interface {
	// SchemaDatoms returns every [e a v] datom describing attribute schema,
	// e.g. :db/valueType, :db/cardinality, :db/unique, :db/fulltext,
	// :db/isRef, :db/index, :db/noHistory, :db/ident.
	SchemaDatoms() []datalog.Datom
}

// Well-known schema attributes, matching the :db/* namespace convention
// the teacher's cmd/datalog bootstrap scripts already use for db-level
// metadata keywords.
var (
	AttrValueType   = datalog.NewKeyword(":db/valueType")
	AttrCardinality = datalog.NewKeyword(":db/cardinality")
	AttrUnique      = datalog.NewKeyword(":db/unique")
	AttrFulltext    = datalog.NewKeyword(":db/fulltext")
	AttrIsRef       = datalog.NewKeyword(":db/isRef")
	AttrIndex       = datalog.NewKeyword(":db/index")
	AttrNoHistory   = datalog.NewKeyword(":db/noHistory")
	AttrIdent       = datalog.NewKeyword(":db/ident")
)

// NewSchemaFromStorage builds a Schema by scanning the schema datoms a
// StorageResolver exposes, grouping by entity id into Attribute
// descriptors. Unknown or malformed schema datoms are skipped rather than
// causing a hard failure, since a partially-migrated database should still
// algebrize queries against the attributes it does understand.
func NewSchemaFromStorage(r StorageResolver) *Schema {
	s := NewSchema()
	pending := make(map[Entid]*Attribute)
	ensure := func(e Entid) *Attribute {
		if a, ok := pending[e]; ok {
			return a
		}
		a := &Attribute{}
		pending[e] = a
		return a
	}

	for _, d := range r.SchemaDatoms() {
		e := Entid(d.E.ID())
		switch d.A {
		case AttrValueType:
			kw, ok := d.V.(datalog.Keyword)
			if !ok {
				continue
			}
			ensure(e).ValueType = valueTypeFromKeyword(kw)
		case AttrCardinality:
			kw, ok := d.V.(datalog.Keyword)
			if ok && kw.String() == ":db.cardinality/many" {
				ensure(e).Multival = true
			}
		case AttrUnique:
			kw, ok := d.V.(datalog.Keyword)
			if !ok {
				continue
			}
			a := ensure(e)
			a.HasUnique = true
			if kw.String() == ":db.unique/identity" {
				a.Unique = UniqueIdentity
			} else {
				a.Unique = UniqueValue
			}
		case AttrFulltext:
			if b, ok := d.V.(bool); ok {
				ensure(e).Fulltext = b
			}
		case AttrIsRef:
			if b, ok := d.V.(bool); ok {
				ensure(e).IsRef = b
			}
		case AttrIndex:
			if b, ok := d.V.(bool); ok {
				ensure(e).Index = b
			}
		case AttrNoHistory:
			if b, ok := d.V.(bool); ok {
				ensure(e).NoHistory = b
			}
		case AttrIdent:
			if kw, ok := d.V.(datalog.Keyword); ok {
				s.AssociateIdent(kw, e)
			}
		}
	}

	for e, a := range pending {
		s.AddAttribute(e, *a)
	}
	return s
}

func valueTypeFromKeyword(kw datalog.Keyword) ValueType {
	switch kw.String() {
	case ":db.type/ref":
		return TypeRef
	case ":db.type/long":
		return TypeLong
	case ":db.type/double":
		return TypeDouble
	case ":db.type/string":
		return TypeString
	case ":db.type/boolean":
		return TypeBoolean
	case ":db.type/instant":
		return TypeInstant
	case ":db.type/keyword":
		return TypeKeyword
	case ":db.type/uuid":
		return TypeUuid
	default:
		return TypeString
	}
}
