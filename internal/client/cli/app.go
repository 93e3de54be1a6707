package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/config"
	"github.com/dmitrijs2005/libadmin/internal/client/deletion"
	"github.com/dmitrijs2005/libadmin/internal/client/editor"
	"github.com/dmitrijs2005/libadmin/internal/client/notify"
	"github.com/dmitrijs2005/libadmin/internal/client/options"
	"github.com/dmitrijs2005/libadmin/internal/client/query"
	"github.com/dmitrijs2005/libadmin/internal/client/reports"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds a single connectivity probe.
const pingTimeout = 3 * time.Second

type App struct {
	config  *config.Config
	gw      client.Gateway
	machine *query.Machine
	editor  *editor.Editor
	deleter *deletion.Workflow
	reports *reports.Engine
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	width   func() int

	mu   sync.Mutex
	mode Mode
}

// NewApp builds the client over the HTTP gateway named by c.ServerURL.
func NewApp(c *config.Config, log logging.Logger, in io.Reader, out io.Writer) *App {
	gw := client.NewHTTPGateway(c.ServerURL, c.RequestTimeout, log)
	return newApp(c, gw, log, in, out)
}

func newApp(c *config.Config, gw client.Gateway, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{
		config: c,
		gw:     gw,
		log:    log.With("component", "cli"),
		reader: bufio.NewReader(in),
		out:    out,
		width:  terminalWidth,
		mode:   ModeOffline,
	}

	notifier := notify.NotifierFunc(a.printNotice)
	resolver := options.NewResolver(gw, log)

	a.machine = query.NewMachine(gw, query.New(schema.Library, c.PageSize), log)
	a.machine.Observe(query.ObserverFunc(func(ctx context.Context, e schema.Entity) {
		a.log.Debug(ctx, "table switched", "entity", e)
	}))
	a.editor = editor.New(gw, resolver, a.machine, notifier, log)
	a.deleter = deletion.New(gw, a, a.machine, notifier, log)
	a.reports = reports.New(gw, resolver, notifier, time.Now, log)
	return a
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

// status renders the prompt suffix: "<table> page <n> (<mode>)".
func (a *App) status() string {
	st := a.machine.Current()
	return fmt.Sprintf("%s page %d (%s)", st.Entity.Collection(), st.Page, a.Mode())
}

// checkOnline probes the server once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.gw.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the server every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Run shows the first listing and blocks in the REPL until the operator
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Library admin CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	if err := a.List(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
	}
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) printNotice(_ context.Context, n notify.Notice) {
	fmt.Fprintf(a.out, "[%s] %s\n", n.Level, n.Message)
}
