package algebra

import "github.com/wbrown/janus-datalog/datalog/query"

// Variable aliases the teacher's query.Symbol rather than introducing a
// parallel type: query.Symbol already has the right equality/hashing (by
// name, since it's a plain string) and an IsVariable() predicate matching
// spec.md §3's definition exactly.
type Variable = query.Symbol
