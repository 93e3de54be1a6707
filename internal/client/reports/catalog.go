// Package reports is the report engine: filter rendering, primary report
// endpoints, client-side fallback aggregation and the subscription
// enrichment join.
package reports

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

// Type names a report; it is also the path segment under /reports/.
type Type string

const (
	LibraryStats         Type = "library-stats"
	AuthorStats          Type = "author-stats"
	BookPrices           Type = "book-prices"
	ActiveSubscriptions  Type = "active-subscriptions"
	OverdueSubscriptions Type = "overdue-subscriptions"
)

var (
	ErrUnknownReport = errors.New("unknown report type")
	ErrNoFallback    = errors.New("report has no fallback")
	ErrNotSelected   = errors.New("no report selected")
)

type strategy int

const (
	// endpoint reads /reports/{type}/.
	endpoint strategy = iota
	// composite lists subscriptions and enriches them client-side.
	composite
)

// Descriptor is the static definition of a report.
type Descriptor struct {
	Type    Type
	Title   string
	Filters []FilterSpec
	// Columns is the preferred column order; columns absent from every row
	// are dropped when rendering.
	Columns []string

	primary     strategy
	hasFallback bool
}

// HasFallback reports whether a failed primary can be recomputed locally.
func (d Descriptor) HasFallback() bool { return d.hasFallback }

// FilterSpec is one report filter control.
type FilterSpec struct {
	Field   schema.Field
	Default string
}

func ptr(v float64) *float64 { return &v }

func numberFilter(name, label, def string) FilterSpec {
	return FilterSpec{
		Field:   schema.Field{Wire: name, Label: label, Kind: schema.KindNumber, Min: ptr(0), Step: 1},
		Default: def,
	}
}

func relationFilter(name, label string, related schema.Entity) FilterSpec {
	return FilterSpec{Field: schema.Field{Wire: name, Label: label, Kind: schema.KindRelation, Related: related}}
}

var subscriptionColumns = []string{
	"subscription_id", "reader_name", "book_title", "library_name",
	"issue_date", "expected_return_date", "status", "deposit",
}

var catalog = []Descriptor{
	{
		Type:  LibraryStats,
		Title: "Library statistics",
		Filters: []FilterSpec{
			numberFilter("min_books", "Minimum books", "0"),
		},
		Columns:     []string{"library_name", "total_books", "total_copies", "total_value"},
		primary:     endpoint,
		hasFallback: true,
	},
	{
		Type:  AuthorStats,
		Title: "Author statistics",
		Filters: []FilterSpec{
			numberFilter("min_books", "Minimum books", "1"),
			{Field: schema.Field{Wire: "country", Label: "Country", Kind: schema.KindText}},
		},
		Columns:     []string{"author_name", "country", "total_books", "total_copies"},
		primary:     endpoint,
		hasFallback: true,
	},
	{
		Type:  BookPrices,
		Title: "Book prices",
		Filters: []FilterSpec{
			{Field: schema.Field{Wire: "min_price", Label: "Minimum price", Kind: schema.KindNumber, Min: ptr(0), Step: 0.01}, Default: "0"},
			{Field: schema.Field{Wire: "max_price", Label: "Maximum price", Kind: schema.KindNumber, Min: ptr(0), Step: 0.01}, Default: "1000"},
			relationFilter("topic_id", "Topic", schema.Topic),
		},
		Columns: []string{
			"book_title", "author_name", "topic_name", "library_name", "price", "quantity",
			"book_count", "avg_price", "min_price", "max_price", "total_value",
		},
		primary:     endpoint,
		hasFallback: true,
	},
	{
		Type:  ActiveSubscriptions,
		Title: "Active subscriptions",
		Filters: []FilterSpec{
			relationFilter("library_id", "Library", schema.Library),
		},
		Columns: subscriptionColumns,
		primary: composite,
	},
	{
		Type:  OverdueSubscriptions,
		Title: "Overdue subscriptions",
		Filters: []FilterSpec{
			numberFilter("days_overdue", "Days overdue", "7"),
		},
		Columns: subscriptionColumns,
		primary: composite,
	},
}

// Catalog lists every report in menu order.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the descriptor of t.
func Lookup(t Type) (Descriptor, error) {
	for _, d := range catalog {
		if d.Type == t {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownReport, t)
}
