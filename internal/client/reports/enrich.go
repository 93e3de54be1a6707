package reports

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/logging"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Sentinel join values.
const (
	UnknownBook    = "Unknown book"
	UnknownReader  = "Unknown reader"
	UnknownLibrary = "Unknown library"
	LoadError      = "Load error"
)

// Join names one of the lookups made per subscription.
type Join string

const (
	JoinBook    Join = "book"
	JoinReader  Join = "reader"
	JoinLibrary Join = "library"
)

// EnrichedRow is a subscription joined with its book, reader and library.
type EnrichedRow struct {
	SubscriptionID     int64
	ReaderName         string
	BookTitle          string
	LibraryName        string
	IssueDate          string
	ReturnDate         string
	ExpectedReturnDate string
	Deposit            decimal.Decimal
	Status             Status
	// Failures lists the joins whose fetch failed.
	Failures []Join
}

// Record flattens the row for table rendering.
func (r EnrichedRow) Record() client.Record {
	expected := r.ExpectedReturnDate
	if expected == "" {
		expected = "not set"
	}
	return client.Record{
		"subscription_id":      r.SubscriptionID,
		"reader_name":          r.ReaderName,
		"book_title":           r.BookTitle,
		"library_name":         r.LibraryName,
		"issue_date":           r.IssueDate,
		"return_date":          r.ReturnDate,
		"expected_return_date": expected,
		"deposit":              json.Number(r.Deposit.StringFixed(2)),
		"status":               r.Status.Text,
		"status_type":          string(r.Status.Kind),
	}
}

// Enricher performs the per-subscription join. Subscriptions are processed
// one after another; the three lookups of one subscription run concurrently
// and fail independently.
type Enricher struct {
	gw  client.Gateway
	log logging.Logger
	now func() time.Time
}

func NewEnricher(gw client.Gateway, now func() time.Time, log logging.Logger) *Enricher {
	if log == nil {
		log = logging.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &Enricher{gw: gw, now: now, log: log}
}

// Enrich joins every subscription. It never drops a row.
func (en *Enricher) Enrich(ctx context.Context, subs []client.Record) []EnrichedRow {
	today := en.now()
	out := make([]EnrichedRow, 0, len(subs))
	for _, sub := range subs {
		out = append(out, en.enrichOne(ctx, sub, today))
	}
	return out
}

type joinResult struct {
	name   string
	failed bool
}

func (en *Enricher) enrichOne(ctx context.Context, sub client.Record, today time.Time) EnrichedRow {
	id, _ := sub.Int("subscription_id")
	row := EnrichedRow{
		SubscriptionID:     id,
		IssueDate:          dateText(sub, "issue_date"),
		ReturnDate:         dateText(sub, "return_date"),
		ExpectedReturnDate: dateText(sub, "return_date"),
		Status:             ComputeStatus(sub, today),
	}
	row.Deposit, _ = sub.Decimal("deposit")

	var book, reader, library joinResult
	var g errgroup.Group
	g.Go(func() error {
		book = en.lookup(ctx, sub, schema.Book, "book_id", UnknownBook)
		return nil
	})
	g.Go(func() error {
		reader = en.lookup(ctx, sub, schema.Reader, "reader_id", UnknownReader)
		return nil
	})
	g.Go(func() error {
		library = en.lookup(ctx, sub, schema.Library, "library_id", UnknownLibrary)
		return nil
	})
	_ = g.Wait()

	row.BookTitle, row.ReaderName, row.LibraryName = book.name, reader.name, library.name
	for _, j := range []struct {
		join Join
		res  joinResult
	}{{JoinBook, book}, {JoinReader, reader}, {JoinLibrary, library}} {
		if j.res.failed {
			row.Failures = append(row.Failures, j.join)
		}
	}
	if len(row.Failures) > 0 {
		row.Status.Kind = StatusError
		row.Status.Text = LoadError
	}
	return row
}

func (en *Enricher) lookup(ctx context.Context, sub client.Record, e schema.Entity, fk, unknown string) joinResult {
	id, ok := sub.Int(fk)
	if !ok {
		return joinResult{name: unknown}
	}
	rec, found, err := en.gw.FetchOne(ctx, e, id)
	if err != nil {
		en.log.Warn(ctx, "enrichment lookup failed", "entity", e, "id", id, "error", err)
		return joinResult{name: LoadError, failed: true}
	}
	if !found {
		return joinResult{name: unknown}
	}
	_, display := schema.Identity(e)
	name := strings.TrimSpace(rec.Text(display))
	if name == "" {
		name = unknown
	}
	return joinResult{name: name}
}

func dateText(r client.Record, key string) string {
	s := strings.TrimSpace(r.Text(key))
	if len(s) > len(client.DateLayout) {
		s = s[:len(client.DateLayout)]
	}
	return s
}
