package algebra

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wbrown/janus-datalog/datalog"
)

// TypedValue pairs a concrete value with its known ValueType. Unlike
// datalog.Value (a bare interface{}), TypedValue always carries an
// explicit tag, since the algebrizer must reason about types before any
// value is ever compared against storage.
type TypedValue struct {
	Type  ValueType
	Value interface{}
}

// NewTypedValue infers a ValueType from the Go type of v, mirroring the
// literal-resolution step of pattern algebrization (spec.md §4.3 step 3).
// Callers that already know the intended type (e.g. resolving a keyword
// through the schema) should build TypedValue directly instead.
func NewTypedValue(v interface{}) (TypedValue, error) {
	switch val := v.(type) {
	case int64:
		return TypedValue{Type: TypeLong, Value: val}, nil
	case int:
		return TypedValue{Type: TypeLong, Value: int64(val)}, nil
	case float64:
		return TypedValue{Type: TypeDouble, Value: val}, nil
	case string:
		return TypedValue{Type: TypeString, Value: val}, nil
	case bool:
		return TypedValue{Type: TypeBoolean, Value: val}, nil
	case time.Time:
		return TypedValue{Type: TypeInstant, Value: val}, nil
	case datalog.Keyword:
		return TypedValue{Type: TypeKeyword, Value: val}, nil
	case uuid.UUID:
		return TypedValue{Type: TypeUuid, Value: val}, nil
	case Entid:
		return TypedValue{Type: TypeRef, Value: val}, nil
	case datalog.Identity:
		return TypedValue{Type: TypeRef, Value: val}, nil
	default:
		return TypedValue{}, fmt.Errorf("cannot infer a value type for %T", v)
	}
}

// String renders the value the way the teacher's query types do, quoting
// strings and leaving everything else to fmt.
func (tv TypedValue) String() string {
	if tv.Type == TypeString {
		if s, ok := tv.Value.(string); ok {
			return `"` + s + `"`
		}
	}
	return fmt.Sprintf("%v", tv.Value)
}
