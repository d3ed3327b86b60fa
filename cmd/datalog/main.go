// Command datalog is a REPL over the algebrizer: it opens a Badger-backed
// store, resolves a Schema from whatever attribute-schema datoms it
// contains, and algebrizes queries against it. It does not execute
// queries against data — that pipeline (planning, joins, result
// projection) is out of scope for this repo (see SPEC_FULL.md §1's
// Non-goals) — so every query prints the AlgebraicQuery it algebrizes to,
// or the reason it's known-empty, instead of a result set.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/wbrown/janus-datalog/datalog/algebra"
	"github.com/wbrown/janus-datalog/datalog/parser"
	"github.com/wbrown/janus-datalog/datalog/render"
	"github.com/wbrown/janus-datalog/datalog/storage"
)

func main() {
	var dbPath string
	var interactive bool
	var help bool
	var queryStr string

	flag.StringVar(&dbPath, "db", "", "database path")
	flag.BoolVar(&interactive, "i", false, "interactive mode")
	flag.BoolVar(&help, "h", false, "show help")
	flag.StringVar(&queryStr, "query", "", "algebrize a single query and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [database_path]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Algebrizes Datalog queries against a database's schema.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i mydata.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -query '[:find ?x :where [?x :person/name _]]' mydata.db\n", os.Args[0])
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	if dbPath == "" && flag.NArg() > 0 {
		dbPath = flag.Arg(0)
	}
	if dbPath == "" {
		dbPath = "datalog.db"
	}

	store, err := storage.NewBadgerStore(dbPath, storage.NewKeyEncoder(storage.BinaryStrategy))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	schema := algebra.NewSchemaFromStorage(storage.NewSchemaResolver(store))

	if queryStr != "" {
		algebrizeAndPrint(schema, queryStr)
		return
	}
	if interactive {
		runInteractive(schema)
		return
	}

	flag.Usage()
}

func runInteractive(schema algebra.SchemaView) {
	fmt.Println("=== Janus Datalog Algebrizer REPL ===")
	fmt.Println("Enter a [:find ...] query to see its algebrized form, or .exit to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == ".exit" {
			return
		}
		if line == "" {
			continue
		}

		q := line
		for !strings.HasSuffix(q, "]") {
			fmt.Print("  ")
			if !scanner.Scan() {
				return
			}
			q += "\n" + scanner.Text()
		}

		algebrizeAndPrint(schema, q)
	}
}

func algebrizeAndPrint(schema algebra.SchemaView, queryStr string) {
	q, err := parser.ParseQuery(queryStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Parse error: %v", err))
		return
	}

	aq, err := algebra.Algebrize(algebra.Known{Schema: schema, Query: q, Inputs: algebra.NewQueryInputs()})
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Algebrize error: %v", err))
		return
	}

	if aq.CC.IsKnownEmpty() {
		fmt.Println(color.YellowString("known-empty:"))
		fmt.Println(render.NewTableFormatter().FormatEmptyBecause(*aq.CC.EmptyBecauseReason()))
		return
	}

	fmt.Println(color.GreenString("AlgebraicQuery:"))
	fmt.Println(aq.String())
}
