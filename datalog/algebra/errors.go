package algebra

import "fmt"

// ErrorKind enumerates the structural failure modes of algebrization, per
// spec.md §7. These abort algebrization outright, unlike EmptyBecause
// (known-empty), which is a legitimate in-band outcome.
type ErrorKind int

const (
	UnboundVariable ErrorKind = iota
	InvalidArgument
	InvalidLimit
	InvalidGroundConstant
	InvalidGroundFnArg
	UnknownFunction
	UnknownLimit
	NonMatchingVariablesInOrJoin
	NonMatchingVariablesInNotJoin
	DuplicateVariableInBinding
	NonNumericArgument
	NonInstantArgument
)

func (k ErrorKind) String() string {
	switch k {
	case UnboundVariable:
		return "UnboundVariable"
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidLimit:
		return "InvalidLimit"
	case InvalidGroundConstant:
		return "InvalidGroundConstant"
	case InvalidGroundFnArg:
		return "InvalidGroundFnArg"
	case UnknownFunction:
		return "UnknownFunction"
	case UnknownLimit:
		return "UnknownLimit"
	case NonMatchingVariablesInOrJoin:
		return "NonMatchingVariablesInOrJoin"
	case NonMatchingVariablesInNotJoin:
		return "NonMatchingVariablesInNotJoin"
	case DuplicateVariableInBinding:
		return "DuplicateVariableInBinding"
	case NonNumericArgument:
		return "NonNumericArgument"
	case NonInstantArgument:
		return "NonInstantArgument"
	default:
		return "Unknown"
	}
}

// AlgebrizerError is the plain error type the algebrizer returns for
// structural failures, matching the teacher's preference for a small
// Kind-enum-plus-Error()-method error shape over a sentinel-error package.
type AlgebrizerError struct {
	Kind ErrorKind
	// Name is the offending variable/function name, when applicable.
	Name string
	// Position is the 0-based argument position, for InvalidArgument.
	Position int
	// Expected describes what was expected, for InvalidArgument.
	Expected string
}

func (e *AlgebrizerError) Error() string {
	switch e.Kind {
	case UnboundVariable:
		return fmt.Sprintf("unbound variable: %s", e.Name)
	case InvalidArgument:
		return fmt.Sprintf("invalid argument to %s at position %d: expected %s", e.Name, e.Position, e.Expected)
	case UnknownFunction:
		return fmt.Sprintf("unknown function: %s", e.Name)
	case DuplicateVariableInBinding:
		return fmt.Sprintf("duplicate variable in binding: %s", e.Name)
	default:
		return e.Kind.String()
	}
}

// NewUnboundVariable builds an UnboundVariable error for name.
func NewUnboundVariable(name Variable) *AlgebrizerError {
	return &AlgebrizerError{Kind: UnboundVariable, Name: string(name)}
}

// NewInvalidArgument builds an InvalidArgument error.
func NewInvalidArgument(fn string, position int, expected string) *AlgebrizerError {
	return &AlgebrizerError{Kind: InvalidArgument, Name: fn, Position: position, Expected: expected}
}

// NewUnknownFunction builds an UnknownFunction error.
func NewUnknownFunction(name string) *AlgebrizerError {
	return &AlgebrizerError{Kind: UnknownFunction, Name: name}
}

// NewSimple builds an error carrying only a kind, for the remaining
// nullary error kinds (InvalidLimit, UnknownLimit, the two
// NonMatchingVariablesIn* kinds, NonNumericArgument, NonInstantArgument).
func NewSimple(kind ErrorKind) *AlgebrizerError {
	return &AlgebrizerError{Kind: kind}
}

// NewNamed builds an error carrying a kind and a name (DuplicateVariableInBinding,
// InvalidGroundConstant, InvalidGroundFnArg).
func NewNamed(kind ErrorKind, name string) *AlgebrizerError {
	return &AlgebrizerError{Kind: kind, Name: name}
}
