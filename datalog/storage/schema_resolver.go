package storage

import (
	"github.com/wbrown/janus-datalog/datalog"
	"github.com/wbrown/janus-datalog/datalog/algebra"
)

// schemaAttributeNames mirrors the well-known :db/* schema attributes
// algebra.Schema understands (see algebra/schema.go's Attr* vars).
var schemaAttributeNames = map[string]bool{
	":db/valueType":   true,
	":db/cardinality": true,
	":db/unique":      true,
	":db/fulltext":    true,
	":db/isRef":       true,
	":db/index":       true,
	":db/noHistory":   true,
	":db/ident":       true,
}

// SchemaResolver adapts a Store to algebra.StorageResolver, letting the
// algebrizer build a Schema from whatever attribute-schema datoms a
// database actually persists, without datalog/algebra importing storage
// (and transitively badger) itself.
type SchemaResolver struct {
	Store Store
}

// NewSchemaResolver wraps store for schema resolution.
func NewSchemaResolver(store Store) *SchemaResolver {
	return &SchemaResolver{Store: store}
}

var _ algebra.StorageResolver = (*SchemaResolver)(nil)

// SchemaDatoms implements algebra.StorageResolver by scanning the full
// EAVT index and keeping only the well-known :db/* schema attributes. A
// schema is small by construction, so a full scan (rather than an AEVT
// lookup per attribute name) keeps this adapter index-encoding-agnostic.
func (r *SchemaResolver) SchemaDatoms() []datalog.Datom {
	start := []byte{byte(EAVT)}
	end := []byte{byte(EAVT) + 1}
	it, err := r.Store.Scan(EAVT, start, end)
	if err != nil {
		return nil
	}
	defer it.Close()

	var out []datalog.Datom
	for it.Next() {
		d, err := it.Datom()
		if err != nil || d == nil {
			continue
		}
		if schemaAttributeNames[d.A.String()] {
			out = append(out, *d)
		}
	}
	return out
}
