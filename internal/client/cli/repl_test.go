package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
	err   error
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeExec) Tables(context.Context) error { return f.record("tables") }
func (f *fakeExec) Use(_ context.Context, t string) error { return f.record("use " + t) }
func (f *fakeExec) List(context.Context) error { return f.record("list") }
func (f *fakeExec) Next(context.Context) error { return f.record("next") }
func (f *fakeExec) Prev(context.Context) error { return f.record("prev") }
func (f *fakeExec) Search(_ context.Context, term string) error {
	return f.record("search " + term)
}
func (f *fakeExec) Sort(_ context.Context, field string) error { return f.record("sort " + field) }
func (f *fakeExec) Filter(_ context.Context, field, value string) error {
	return f.record("filter " + field + "=" + value)
}
func (f *fakeExec) Unfilter(context.Context) error { return f.record("unfilter") }
func (f *fakeExec) Add(context.Context) error { return f.record("add") }
func (f *fakeExec) Edit(_ context.Context, id string) error { return f.record("edit " + id) }
func (f *fakeExec) Delete(_ context.Context, id string) error { return f.record("delete " + id) }
func (f *fakeExec) Reports(context.Context) error { return f.record("reports") }
func (f *fakeExec) Report(_ context.Context, t string) error { return f.record("report " + t) }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"tables",
		"use books",
		"l",
		"n",
		"p",
		"search war and peace",
		"sort title",
		"sort",
		"filter country Russia",
		"unfilter",
		"add",
		"edit 3",
		"delete 4",
		"reports",
		"report book-prices",
		"exit",
		"list",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	assert.Equal(t, []string{
		"tables", "use books", "list", "next", "prev", "search war and peace",
		"sort title", "sort ", "filter country=Russia", "unfilter", "add",
		"edit 3", "delete 4", "reports", "report book-prices",
	}, exec.calls)
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader("edit\nuse\nfilter title\nfoobar\nquit\n")
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(input))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Usage: edit <id>")
	assert.Contains(t, *out, "Usage: use <table>")
	assert.Contains(t, *out, "Usage: filter <field> <value>")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_PrintsHandlerErrors(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("list")))

	assert.Equal(t, []string{"list"}, exec.calls, "last line without newline is still executed")
	assert.Contains(t, *out, "Error: boom")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("list\n")))

	assert.Empty(t, exec.calls)
}
