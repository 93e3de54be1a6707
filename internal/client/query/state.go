// Package query holds the listing state of the admin client: an immutable
// State snapshot per transition and a Machine that runs it against the
// gateway.
package query

import (
	"strings"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

// DefaultPageSize is the listing page size when none is configured.
const DefaultPageSize = 10

// State is one listing configuration. Transitions return a new value and
// never modify the receiver.
type State struct {
	Entity   schema.Entity
	Page     int
	PageSize int
	Search   string
	// Sort is a wire field name; empty means server order.
	Sort string
	// Filter with an empty Field means no filter.
	Filter client.Filter
}

// New returns the default state of entity.
func New(entity schema.Entity, pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{Entity: entity, Page: 1, PageSize: pageSize}
}

// WithEntity switches entity and resets page, search, sort and filter.
func (s State) WithEntity(e schema.Entity) State {
	return New(e, s.PageSize)
}

func (s State) WithSearch(term string) State {
	s.Search = strings.TrimSpace(term)
	s.Page = 1
	return s
}

func (s State) WithSort(field string) State {
	s.Sort = field
	s.Page = 1
	return s
}

func (s State) WithFilter(field, value string) State {
	s.Filter = client.Filter{Field: field, Value: value}
	s.Page = 1
	return s
}

func (s State) WithoutFilter() State {
	s.Filter = client.Filter{}
	s.Page = 1
	return s
}

func (s State) Next() State {
	s.Page++
	return s
}

// Prev is a no-op on the first page.
func (s State) Prev() State {
	if s.Page > 1 {
		s.Page--
	}
	return s
}

func (s State) HasFilter() bool {
	return s.Filter.Field != "" && s.Filter.Value != ""
}

// Params converts the state to gateway parameters.
func (s State) Params() client.ListParams {
	p := client.ListParams{
		Skip:   (s.Page - 1) * s.PageSize,
		Limit:  s.PageSize,
		Search: s.Search,
		SortBy: s.Sort,
	}
	if s.HasFilter() {
		f := s.Filter
		p.Filter = &f
	}
	return p
}
