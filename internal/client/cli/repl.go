package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const helpText = `Available commands:
  tables                   list the tables
  use <table>              switch table (resets search, sort, filter)
  (l)ist                   reload the current page
  (n)ext | (p)rev          page through the listing
  search [term]            search; no term clears it
  sort [field]             sort by field; no field restores server order
  filter <field> <value>   keep rows whose field equals value
  unfilter                 drop the filter
  add                      create a record in the current table
  edit <id> | delete <id>  change or remove a record
  reports                  list the reports
  report <type>            run a report
  exit | quit              leave the program

In forms Enter keeps the current value and "-" clears it.`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Tables(ctx context.Context) error
	Use(ctx context.Context, table string) error
	List(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Sort(ctx context.Context, field string) error
	Filter(ctx context.Context, field, value string) error
	Unfilter(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Reports(ctx context.Context) error
	Report(ctx context.Context, reportType string) error
}

// runREPL starts a simple read–eval–print loop for the admin CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on a. The prompt shows the current status (from
// statusFn). Errors returned by handlers are printed; workflow failures that
// were already reported as notices come back as nil. The loop exits on EOF
// or when the operator types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("%s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "tables":
			cmdErr = a.Tables(ctx)

		case "use":
			if len(args) != 1 {
				printlnFn("Usage: use <table>")
				continue
			}
			cmdErr = a.Use(ctx, args[0])

		case "l", "list":
			cmdErr = a.List(ctx)

		case "n", "next":
			cmdErr = a.Next(ctx)

		case "p", "prev":
			cmdErr = a.Prev(ctx)

		case "search":
			cmdErr = a.Search(ctx, strings.Join(args, " "))

		case "sort":
			if len(args) > 1 {
				printlnFn("Usage: sort [field]")
				continue
			}
			cmdErr = a.Sort(ctx, strings.Join(args, ""))

		case "filter":
			if len(args) < 2 {
				printlnFn("Usage: filter <field> <value>")
				continue
			}
			cmdErr = a.Filter(ctx, args[0], strings.Join(args[1:], " "))

		case "unfilter":
			cmdErr = a.Unfilter(ctx)

		case "add":
			cmdErr = a.Add(ctx)

		case "edit", "delete":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			if cmd == "edit" {
				cmdErr = a.Edit(ctx, args[0])
			} else {
				cmdErr = a.Delete(ctx, args[0])
			}

		case "reports":
			cmdErr = a.Reports(ctx)

		case "report":
			if len(args) != 1 {
				printlnFn("Usage: report <type>")
				continue
			}
			cmdErr = a.Report(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
