package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

// Gateway is the record-store API as seen by the workflows.
type Gateway interface {
	List(ctx context.Context, entity schema.Entity, p ListParams) ([]Record, error)
	// ListView reads a derived collection such as books/detailed.
	ListView(ctx context.Context, entity schema.Entity, view string, p ListParams) ([]Record, error)
	// FetchOne returns ok=false when the record does not exist.
	FetchOne(ctx context.Context, entity schema.Entity, id int64) (rec Record, ok bool, err error)
	Create(ctx context.Context, entity schema.Entity, payload map[string]any) (Record, error)
	Update(ctx context.Context, entity schema.Entity, id int64, payload map[string]any) (Record, error)
	Remove(ctx context.Context, entity schema.Entity, id int64) error
	Report(ctx context.Context, reportType string, q url.Values) ([]Record, error)
	Ping(ctx context.Context) error
}

// Filter is a single field=value restriction on a listing.
type Filter struct {
	Field string
	Value string
}

// ListParams are the query parameters of a listing. Zero values are omitted,
// except that skip is always sent together with a limit.
type ListParams struct {
	Skip   int
	Limit  int
	Search string
	SortBy string
	Filter *Filter
	// Extra carries endpoint-specific parameters such as active_only.
	Extra url.Values
}

// Values encodes p as a query string.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Limit > 0 || p.Skip > 0 {
		v.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.SortBy != "" {
		v.Set("sort_by", p.SortBy)
	}
	if p.Filter != nil && p.Filter.Field != "" && p.Filter.Value != "" {
		v.Set(p.Filter.Field, p.Filter.Value)
	}
	for k, vs := range p.Extra {
		for _, x := range vs {
			v.Add(k, x)
		}
	}
	return v
}
