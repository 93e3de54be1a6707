package reports

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/notify"
	"github.com/dmitrijs2005/libadmin/internal/client/options"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/logging"
)

// State is the engine lifecycle:
// Idle -> FiltersRendered -> Loading -> Rendered | FallbackLoading -> Rendered | Failed.
type State string

const (
	Idle            State = "idle"
	FiltersRendered State = "filters-rendered"
	Loading         State = "loading"
	FallbackLoading State = "fallback-loading"
	Rendered        State = "rendered"
	Failed          State = "failed"
)

// ActiveSubscriptionsLimit caps the active-subscriptions listing.
const ActiveSubscriptionsLimit = 100

// Result is a generated report.
type Result struct {
	Type    Type
	Title   string
	Columns []string
	Rows    []client.Record
	// Fallback is set when the rows were computed client-side.
	Fallback bool
	// Subscriptions holds the structured rows of subscription reports.
	Subscriptions []EnrichedRow
}

type fallbackFunc func(ctx context.Context, gw client.Gateway, f *Filters) ([]client.Record, error)

var fallbacks = map[Type]fallbackFunc{
	LibraryStats: libraryStatsFallback,
	AuthorStats:  authorStatsFallback,
	BookPrices:   bookPricesFallback,
}

type Engine struct {
	gw       client.Gateway
	resolver *options.Resolver
	enricher *Enricher
	notifier notify.Notifier
	log      logging.Logger
	now      func() time.Time

	mu    sync.Mutex
	state State
}

func New(gw client.Gateway, resolver *options.Resolver, notifier notify.Notifier, now func() time.Time, log logging.Logger) *Engine {
	if log == nil {
		log = logging.Nop()
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	if now == nil {
		now = time.Now
	}
	log = log.With("component", "reports")
	return &Engine{
		gw:       gw,
		resolver: resolver,
		enricher: NewEnricher(gw, now, log),
		notifier: notifier,
		log:      log,
		now:      now,
		state:    Idle,
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Select renders the filters of t with their defaults. Relation filters are
// resolved with a leading "All" choice.
func (e *Engine) Select(ctx context.Context, t Type) (*Filters, error) {
	d, err := Lookup(t)
	if err != nil {
		return nil, err
	}

	f := &Filters{
		Descriptor: d,
		values:     map[string]string{},
		options:    map[string]*options.Set{},
		now:        e.now,
	}
	var relations []schema.Field
	for _, spec := range d.Filters {
		if spec.Field.IsRelation() {
			relations = append(relations, spec.Field)
			continue
		}
		f.values[spec.Field.Wire] = spec.Default
	}
	for name, s := range e.resolver.ResolveAll(ctx, relations) {
		f.options[name] = withAllChoice(s)
	}

	e.setState(FiltersRendered)
	return f, nil
}

// Generate runs the report with the current filter values.
func (e *Engine) Generate(ctx context.Context, f *Filters) (Result, error) {
	if f == nil {
		return Result{}, ErrNotSelected
	}
	d := f.Descriptor
	e.setState(Loading)

	var (
		rows []client.Record
		subs []EnrichedRow
		err  error
	)
	switch d.primary {
	case composite:
		rows, subs, err = e.subscriptions(ctx, f)
	default:
		rows, err = e.gw.Report(ctx, string(d.Type), f.Query())
	}

	res := Result{Type: d.Type, Title: d.Title, Subscriptions: subs}
	if err != nil {
		rows, err = e.fallback(ctx, f, err)
		if err != nil {
			e.setState(Failed)
			notify.Send(ctx, e.notifier, notify.Error, fmt.Sprintf("Report %q failed: %v", d.Title, err))
			return Result{Type: d.Type, Title: d.Title}, err
		}
		res.Fallback = true
	}

	res.Rows = rows
	res.Columns = columnsFor(d, rows)
	e.setState(Rendered)

	switch {
	case len(rows) == 0:
		notify.Send(ctx, e.notifier, notify.Info, fmt.Sprintf("Report %q has no data", d.Title))
	case res.Fallback:
		notify.Send(ctx, e.notifier, notify.Info, fmt.Sprintf("Report %q generated from fallback data", d.Title))
	default:
		notify.Send(ctx, e.notifier, notify.Success, fmt.Sprintf("Report %q generated", d.Title))
	}
	return res, nil
}

func (e *Engine) fallback(ctx context.Context, f *Filters, primaryErr error) ([]client.Record, error) {
	d := f.Descriptor
	fb, ok := fallbacks[d.Type]
	if !d.hasFallback || !ok {
		e.log.Error(ctx, "report failed", "type", d.Type, "error", primaryErr)
		return nil, fmt.Errorf("%w: %w", ErrNoFallback, primaryErr)
	}

	e.log.Warn(ctx, "report endpoint failed, using fallback", "type", d.Type, "error", primaryErr)
	e.setState(FallbackLoading)
	rows, err := fb(ctx, e.gw, f)
	if err != nil {
		e.log.Error(ctx, "report fallback failed", "type", d.Type, "error", err)
		return nil, fmt.Errorf("fallback: %w", errors.Join(primaryErr, err))
	}
	return rows, nil
}

func (e *Engine) subscriptions(ctx context.Context, f *Filters) ([]client.Record, []EnrichedRow, error) {
	var (
		subs []client.Record
		err  error
	)
	switch f.Descriptor.Type {
	case ActiveSubscriptions:
		p := client.ListParams{
			Limit:  ActiveSubscriptionsLimit,
			SortBy: "issue_date",
			Extra:  url.Values{"active_only": {"true"}},
		}
		if lib := f.Value("library_id"); lib != "" {
			p.Extra.Set("library_id", lib)
		}
		subs, err = e.gw.List(ctx, schema.Subscription, p)
	case OverdueSubscriptions:
		subs, err = e.overdueCandidates(ctx, f)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownReport, f.Descriptor.Type)
	}
	if err != nil {
		return nil, nil, err
	}

	enriched := e.enricher.Enrich(ctx, subs)
	rows := make([]client.Record, 0, len(enriched))
	for _, r := range enriched {
		rows = append(rows, r.Record())
	}
	return rows, enriched, nil
}

// overdueCandidates keeps subscriptions overdue by at least days_overdue
// days; only those are enriched.
func (e *Engine) overdueCandidates(ctx context.Context, f *Filters) ([]client.Record, error) {
	all, err := client.ListAll(ctx, e.gw, schema.Subscription, client.ListParams{}, client.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	threshold := int(intFilter(f, "days_overdue"))
	today := e.now()

	var out []client.Record
	for _, s := range all {
		st := ComputeStatus(s, today)
		if st.Kind == StatusOverdue && st.DaysOverdue >= threshold {
			out = append(out, s)
		}
	}
	return out, nil
}

// columnsFor keeps the preferred columns that occur in rows, then appends
// any other attributes in name order. With no rows the preferred order is
// returned as is.
func columnsFor(d Descriptor, rows []client.Record) []string {
	if len(rows) == 0 {
		return append([]string(nil), d.Columns...)
	}
	present := map[string]bool{}
	for _, r := range rows {
		for k := range r {
			present[k] = true
		}
	}

	var cols []string
	known := map[string]bool{}
	for _, c := range d.Columns {
		known[c] = true
		if present[c] {
			cols = append(cols, c)
		}
	}
	var extra []string
	for k := range present {
		if !known[k] && !hidden[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

// hidden attributes are carried in rows but not shown as columns.
var hidden = map[string]bool{
	"library_id":  true,
	"author_id":   true,
	"return_date": true,
	"status_type": true,
}
