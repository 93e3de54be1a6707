package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/query"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

// Tables prints every table, marking the current one.
func (a *App) Tables(_ context.Context) error {
	current := a.machine.Current().Entity
	for _, e := range schema.All() {
		mark := " "
		if e == current {
			mark = "*"
		}
		fmt.Fprintf(a.out, " %s %-14s %s\n", mark, e.Collection(), e.Label())
	}
	return nil
}

func (a *App) Use(ctx context.Context, table string) error {
	e, err := schema.Parse(table)
	if err != nil {
		return err
	}
	return a.show(a.machine.SetEntity(ctx, e))
}

func (a *App) List(ctx context.Context) error {
	return a.show(a.machine.Run(ctx))
}

func (a *App) Next(ctx context.Context) error {
	if a.machine.AtLastPage() {
		fmt.Fprintln(a.out, "Already on the last page")
		return nil
	}
	return a.show(a.machine.NextPage(ctx))
}

func (a *App) Prev(ctx context.Context) error {
	if a.machine.Current().Page <= 1 {
		fmt.Fprintln(a.out, "Already on the first page")
		return nil
	}
	return a.show(a.machine.PrevPage(ctx))
}

func (a *App) Search(ctx context.Context, term string) error {
	return a.show(a.machine.SetSearch(ctx, term))
}

func (a *App) Sort(ctx context.Context, field string) error {
	p, err := a.machine.SetSort(ctx, field)
	if errors.Is(err, query.ErrUnknownField) {
		return a.unknownField(err)
	}
	return a.show(p, err)
}

func (a *App) Filter(ctx context.Context, field, value string) error {
	p, err := a.machine.SetFilter(ctx, field, value)
	if errors.Is(err, query.ErrUnknownField) {
		return a.unknownField(err)
	}
	return a.show(p, err)
}

func (a *App) Unfilter(ctx context.Context) error {
	return a.show(a.machine.ClearFilter(ctx))
}

func (a *App) unknownField(err error) error {
	return fmt.Errorf("%w (choose from %v)", err, schema.SortableFields(a.machine.Current().Entity))
}

// show renders a freshly loaded page. A superseded load is silently dropped.
func (a *App) show(p query.Page, err error) error {
	if errors.Is(err, query.ErrStale) {
		return nil
	}
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(context.Background(), ModeOffline)
		}
		return err
	}
	a.renderPage(p)
	return nil
}

// showLast renders the page the machine holds after a save or delete.
func (a *App) showLast() {
	if p, ok := a.machine.LastPage(); ok {
		a.renderPage(p)
	}
}

func (a *App) renderPage(p query.Page) {
	st := p.State
	fmt.Fprintf(a.out, "%s, page %d", st.Entity.Label(), st.Page)
	if st.Search != "" {
		fmt.Fprintf(a.out, ", search %q", st.Search)
	}
	if st.Sort != "" {
		fmt.Fprintf(a.out, ", sorted by %s", st.Sort)
	}
	if st.HasFilter() {
		fmt.Fprintf(a.out, ", %s = %q", st.Filter.Field, st.Filter.Value)
	}
	fmt.Fprintln(a.out)

	if len(p.Rows) == 0 {
		fmt.Fprintln(a.out, "(no records)")
		return
	}
	renderTable(a.out, listColumns(st.Entity), p.Rows, a.width())
	if p.HasNext {
		fmt.Fprintln(a.out, "(more: next)")
	}
}

// fetch loads one record of the current table by its typed id.
func (a *App) fetch(ctx context.Context, rawID string) (schema.Entity, client.Record, error) {
	e := a.machine.Current().Entity
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return e, nil, fmt.Errorf("invalid id %q", rawID)
	}
	rec, ok, err := a.gw.FetchOne(ctx, e, id)
	if err != nil {
		return e, nil, err
	}
	if !ok {
		return e, nil, fmt.Errorf("%s #%d not found", e, id)
	}
	return e, rec, nil
}
