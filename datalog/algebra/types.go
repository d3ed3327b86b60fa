package algebra

import "strings"

// ValueType is one member of the closed universe of value types the
// algebrizer reasons about. It is a schema-level type tag, distinct from
// datalog.ValueType (the storage layer's byte-encoding enum) the same way
// the teacher keeps storage.Attribute distinct from datalog.Keyword.
type ValueType byte

const (
	TypeRef ValueType = iota
	TypeLong
	TypeDouble
	TypeString
	TypeBoolean
	TypeInstant
	TypeKeyword
	TypeUuid
)

// String returns the lowercase name of the value type.
func (t ValueType) String() string {
	switch t {
	case TypeRef:
		return "ref"
	case TypeLong:
		return "long"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeInstant:
		return "instant"
	case TypeKeyword:
		return "keyword"
	case TypeUuid:
		return "uuid"
	default:
		return "unknown"
	}
}

// ValueTypeSet is a finite set over the eight value types, represented as
// a bitmask for cheap union/intersection/singleton tests.
type ValueTypeSet uint8

// OfOne returns the singleton set containing t.
func OfOne(t ValueType) ValueTypeSet {
	return ValueTypeSet(1 << uint(t))
}

// OfMany returns the set containing exactly the given types.
func OfMany(ts ...ValueType) ValueTypeSet {
	var s ValueTypeSet
	for _, t := range ts {
		s |= OfOne(t)
	}
	return s
}

// Pre-built constants used throughout the clause and predicate algebrizers.
var (
	AnyType    = OfMany(TypeRef, TypeLong, TypeDouble, TypeString, TypeBoolean, TypeInstant, TypeKeyword, TypeUuid)
	Numeric    = OfMany(TypeLong, TypeDouble)
	Comparable = Numeric.Union(OfOne(TypeInstant))
	RefOnly    = OfOne(TypeRef)
	EmptySet   ValueTypeSet
)

// Union returns the union of s and other.
func (s ValueTypeSet) Union(other ValueTypeSet) ValueTypeSet {
	return s | other
}

// Intersection returns the intersection of s and other.
func (s ValueTypeSet) Intersection(other ValueTypeSet) ValueTypeSet {
	return s & other
}

// IsEmpty reports whether the set contains no types.
func (s ValueTypeSet) IsEmpty() bool {
	return s == 0
}

// IsUnit reports whether the set contains exactly one type.
func (s ValueTypeSet) IsUnit() bool {
	return s != 0 && s&(s-1) == 0
}

// Unit returns the sole type in the set if it is a unit set.
func (s ValueTypeSet) Unit() (ValueType, bool) {
	if !s.IsUnit() {
		return 0, false
	}
	for t := ValueType(0); t < 8; t++ {
		if s&OfOne(t) != 0 {
			return t, true
		}
	}
	return 0, false
}

// Contains reports whether t is a member of s.
func (s ValueTypeSet) Contains(t ValueType) bool {
	return s&OfOne(t) != 0
}

// Types returns the members of s in ascending order.
func (s ValueTypeSet) Types() []ValueType {
	var out []ValueType
	for t := ValueType(0); t < 8; t++ {
		if s.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// String renders the set as a brace-delimited list, e.g. "{long, double}".
func (s ValueTypeSet) String() string {
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}
