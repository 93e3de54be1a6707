package query

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/logging"
)

var (
	// ErrStale is returned for a response superseded by a newer query.
	ErrStale        = errors.New("stale query response")
	ErrUnknownField = errors.New("field is not sortable or filterable")
)

// Page is a rendered listing.
type Page struct {
	Rows    []client.Record
	State   State
	HasPrev bool
	HasNext bool
}

func newPage(rows []client.Record, st State) Page {
	return Page{
		Rows:    rows,
		State:   st,
		HasPrev: st.Page > 1,
		HasNext: len(rows) == st.PageSize,
	}
}

// Observer is told about entity switches so entity-scoped inputs can be
// cleared.
type Observer interface {
	EntityChanged(ctx context.Context, e schema.Entity)
}

type ObserverFunc func(ctx context.Context, e schema.Entity)

func (f ObserverFunc) EntityChanged(ctx context.Context, e schema.Entity) { f(ctx, e) }

// Machine owns the current State and runs it. It is safe for concurrent
// use; each run takes a token and a response whose token has been
// superseded is discarded with ErrStale.
type Machine struct {
	gw  client.Gateway
	log logging.Logger

	mu        sync.Mutex
	state     State
	last      *Page
	token     uint64
	observers []Observer
}

func NewMachine(gw client.Gateway, initial State, log logging.Logger) *Machine {
	if log == nil {
		log = logging.Nop()
	}
	return &Machine{gw: gw, state: initial, log: log.With("component", "query")}
}

// Observe registers o for entity switches.
func (m *Machine) Observe(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Current returns the current snapshot.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastPage returns the most recent successfully loaded page.
func (m *Machine) LastPage() (Page, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return Page{}, false
	}
	return *m.last, true
}

func (m *Machine) SetEntity(ctx context.Context, e schema.Entity) (Page, error) {
	if !e.Valid() {
		return Page{}, fmt.Errorf("%w: %q", schema.ErrUnknownEntity, e)
	}
	m.mu.Lock()
	m.state = m.state.WithEntity(e)
	m.last = nil
	obs := slices.Clone(m.observers)
	m.mu.Unlock()

	for _, o := range obs {
		o.EntityChanged(ctx, e)
	}
	return m.Run(ctx)
}

func (m *Machine) SetSearch(ctx context.Context, term string) (Page, error) {
	return m.apply(ctx, func(s State) (State, error) { return s.WithSearch(term), nil })
}

// SetSort orders by field; an empty field restores server order.
func (m *Machine) SetSort(ctx context.Context, field string) (Page, error) {
	return m.apply(ctx, func(s State) (State, error) {
		if field != "" && !slices.Contains(schema.SortableFields(s.Entity), field) {
			return s, fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		return s.WithSort(field), nil
	})
}

func (m *Machine) SetFilter(ctx context.Context, field, value string) (Page, error) {
	return m.apply(ctx, func(s State) (State, error) {
		if !slices.Contains(schema.SortableFields(s.Entity), field) {
			return s, fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		return s.WithFilter(field, value), nil
	})
}

func (m *Machine) ClearFilter(ctx context.Context) (Page, error) {
	return m.apply(ctx, func(s State) (State, error) { return s.WithoutFilter(), nil })
}

// AtLastPage reports whether the page loaded for the current state was
// short. A page left over from an earlier state does not count.
func (m *Machine) AtLastPage() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.atLastPage()
}

func (m *Machine) atLastPage() bool {
	return m.last != nil && m.last.State == m.state && !m.last.HasNext
}

// NextPage advances only when the current page was full.
func (m *Machine) NextPage(ctx context.Context) (Page, error) {
	m.mu.Lock()
	if m.atLastPage() {
		p := *m.last
		m.mu.Unlock()
		return p, nil
	}
	m.mu.Unlock()
	return m.apply(ctx, func(s State) (State, error) { return s.Next(), nil })
}

func (m *Machine) PrevPage(ctx context.Context) (Page, error) {
	return m.apply(ctx, func(s State) (State, error) { return s.Prev(), nil })
}

// Refresh re-runs the current state, e.g. after a save or delete.
func (m *Machine) Refresh(ctx context.Context) (Page, error) {
	return m.Run(ctx)
}

func (m *Machine) apply(ctx context.Context, fn func(State) (State, error)) (Page, error) {
	m.mu.Lock()
	next, err := fn(m.state)
	if err != nil {
		m.mu.Unlock()
		return Page{}, err
	}
	m.state = next
	m.mu.Unlock()
	return m.Run(ctx)
}

// Run queries the gateway with the current state.
func (m *Machine) Run(ctx context.Context) (Page, error) {
	m.mu.Lock()
	m.token++
	tok := m.token
	st := m.state
	m.mu.Unlock()

	rows, err := m.gw.List(ctx, st.Entity, st.Params())

	m.mu.Lock()
	defer m.mu.Unlock()
	if tok != m.token {
		m.log.Debug(ctx, "stale listing discarded", "entity", st.Entity, "page", st.Page)
		return Page{}, ErrStale
	}
	if err != nil {
		m.log.Warn(ctx, "listing failed", "entity", st.Entity, "error", err)
		return Page{}, fmt.Errorf("list %s: %w", st.Entity.Collection(), err)
	}

	p := newPage(rows, st)
	m.last = &p
	return p, nil
}
