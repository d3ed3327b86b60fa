package parser

import (
	"fmt"

	"github.com/wbrown/janus-datalog/datalog/edn"
	"github.com/wbrown/janus-datalog/datalog/query"
)

// parseCompoundClause parses a bare list appearing directly in :where:
// (not ...), (not-join [...] ...), (or ...) or (or-join [...] ...). Any
// other list is rejected. Ground with a collection or relation binding,
// [(ground [...]) [?x ...]], is a vector form and is not parsed into a
// query.GroundClause: parsePattern rejects it.
func parseCompoundClause(node *edn.Node) (query.Clause, error) {
	if node.Type != edn.NodeList {
		return nil, fmt.Errorf("compound clause must be a list")
	}
	if len(node.Nodes) == 0 {
		return nil, fmt.Errorf("compound clause cannot be empty")
	}
	if node.Nodes[0].Type != edn.NodeSymbol {
		return nil, fmt.Errorf("compound clause must start with a symbol, got %v", node.Nodes[0].Type)
	}

	switch node.Nodes[0].Value {
	case "not":
		return parseNot(node)
	case "not-join":
		return parseNotJoin(node)
	case "or":
		return parseOr(node)
	case "or-join":
		return parseOrJoin(node)
	default:
		return nil, fmt.Errorf("expected vector in :where clause, got list starting with %s", node.Nodes[0].Value)
	}
}

// parseWhereClauses parses a sequence of vector/list nodes the same way the
// top-level :where clause does, reused by not/not-join/or branch parsing.
func parseWhereClauses(nodes []edn.Node) ([]query.Clause, error) {
	clauses := make([]query.Clause, 0, len(nodes))
	for i := range nodes {
		var clause query.Clause
		var err error
		switch nodes[i].Type {
		case edn.NodeVector:
			clause, err = parsePattern(&nodes[i])
		case edn.NodeList:
			clause, err = parseCompoundClause(&nodes[i])
		default:
			return nil, fmt.Errorf("expected vector or list, got %v", nodes[i].Type)
		}
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

// parseVarVector parses a [?x ?y ...] vector of variables, used for the
// explicit unification sets of not-join/or-join.
func parseVarVector(node *edn.Node) ([]query.Symbol, error) {
	if node.Type != edn.NodeVector {
		return nil, fmt.Errorf("expected a vector of variables, got %v", node.Type)
	}
	vars := make([]query.Symbol, 0, len(node.Nodes))
	for i, elem := range node.Nodes {
		if elem.Type != edn.NodeSymbol {
			return nil, fmt.Errorf("unification element %d must be a symbol", i)
		}
		sym := query.Symbol(elem.Value)
		if !sym.IsVariable() {
			return nil, fmt.Errorf("unification element %d must be a variable, got %s", i, sym)
		}
		vars = append(vars, sym)
	}
	return vars, nil
}

func parseNot(node *edn.Node) (*query.Not, error) {
	if len(node.Nodes) < 2 {
		return nil, fmt.Errorf("not requires at least one clause")
	}
	clauses, err := parseWhereClauses(node.Nodes[1:])
	if err != nil {
		return nil, fmt.Errorf("error parsing not clauses: %w", err)
	}
	return &query.Not{UnifyVars: query.ImplicitUnify{}, Clauses: clauses}, nil
}

func parseNotJoin(node *edn.Node) (*query.NotJoin, error) {
	if len(node.Nodes) < 3 {
		return nil, fmt.Errorf("not-join requires a variable vector and at least one clause")
	}
	vars, err := parseVarVector(&node.Nodes[1])
	if err != nil {
		return nil, fmt.Errorf("error parsing not-join unification vars: %w", err)
	}
	clauses, err := parseWhereClauses(node.Nodes[2:])
	if err != nil {
		return nil, fmt.Errorf("error parsing not-join clauses: %w", err)
	}
	return &query.NotJoin{Vars: vars, Clauses: clauses}, nil
}

// parseOrBranch parses a single alternative of an or/or-join: either a
// single vector/list clause, or an (and clause...) conjunction.
func parseOrBranch(node *edn.Node) (query.OrBranch, error) {
	if node.Type == edn.NodeList && len(node.Nodes) > 0 &&
		node.Nodes[0].Type == edn.NodeSymbol && node.Nodes[0].Value == "and" {
		clauses, err := parseWhereClauses(node.Nodes[1:])
		if err != nil {
			return query.OrBranch{}, fmt.Errorf("error parsing and-branch: %w", err)
		}
		return query.OrBranch{Clauses: clauses}, nil
	}

	clauses, err := parseWhereClauses([]edn.Node{*node})
	if err != nil {
		return query.OrBranch{}, err
	}
	return query.OrBranch{Clauses: clauses}, nil
}

func parseOr(node *edn.Node) (*query.Or, error) {
	if len(node.Nodes) < 2 {
		return nil, fmt.Errorf("or requires at least one branch")
	}
	branches := make([]query.OrBranch, 0, len(node.Nodes)-1)
	for i := 1; i < len(node.Nodes); i++ {
		branch, err := parseOrBranch(&node.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("error parsing or branch %d: %w", i-1, err)
		}
		branches = append(branches, branch)
	}
	return &query.Or{Branches: branches}, nil
}

func parseOrJoin(node *edn.Node) (*query.OrJoin, error) {
	if len(node.Nodes) < 3 {
		return nil, fmt.Errorf("or-join requires a variable vector and at least one branch")
	}
	vars, err := parseVarVector(&node.Nodes[1])
	if err != nil {
		return nil, fmt.Errorf("error parsing or-join unification vars: %w", err)
	}
	branches := make([]query.OrBranch, 0, len(node.Nodes)-2)
	for i := 2; i < len(node.Nodes); i++ {
		branch, err := parseOrBranch(&node.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("error parsing or-join branch %d: %w", i-2, err)
		}
		branches = append(branches, branch)
	}
	return &query.OrJoin{Vars: vars, Branches: branches}, nil
}
