// Package render formats algebrizer output for CLI consumption. It is a
// direct descendant of the teacher's datalog/executor/table_formatter.go,
// trimmed to the one concern this repo still has a consumer for: showing
// why a ConjoiningClauses was marked known-empty. Formatting result sets
// (the teacher's FormatRelation) is an execution-time concern this repo
// doesn't implement, so it didn't come along.
package render

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/wbrown/janus-datalog/datalog/algebra"
)

// TableFormatter renders algebrizer diagnostics as markdown tables.
type TableFormatter struct{}

// NewTableFormatter returns a formatter with the teacher's default markdown
// table settings.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// FormatEmptyBecause renders an algebrizer's known-empty reason as a
// single-row markdown table, the same shape the teacher's FormatRelation
// produces for an actual result set.
func (tf *TableFormatter) FormatEmptyBecause(reason algebra.EmptyBecause) string {
	tableString := &strings.Builder{}

	headers := []string{"reason", "detail"}
	if reason.HasVar {
		headers = []string{"reason", "variable", "detail"}
	}

	alignment := make([]tw.Align, len(headers))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(headers)

	row := []string{reason.Kind.String(), reason.Detail}
	if reason.HasVar {
		row = []string{reason.Kind.String(), string(reason.Var), reason.Detail}
	}
	table.Append(row)
	table.Render()

	return tableString.String()
}
