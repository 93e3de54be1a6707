// Package editor implements the record create/edit workflow: building a form
// from the field schema, resolving its relation options, coercing and
// validating the input and submitting it through the gateway.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/notify"
	"github.com/dmitrijs2005/libadmin/internal/client/options"
	"github.com/dmitrijs2005/libadmin/internal/client/query"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/logging"
)

var (
	ErrNotReady = errors.New("form options are not resolved")
	ErrClosed   = errors.New("form is closed")
)

// NetworkNotice is shown when the server could not be reached.
const NetworkNotice = "Network error: the server could not be reached"

// Refresher reloads the current listing after a successful save.
type Refresher interface {
	Refresh(ctx context.Context) (query.Page, error)
}

type Editor struct {
	gw        client.Gateway
	resolver  *options.Resolver
	refresher Refresher
	notifier  notify.Notifier
	log       logging.Logger
	now       func() time.Time
}

func New(gw client.Gateway, resolver *options.Resolver, refresher Refresher, notifier notify.Notifier, log logging.Logger) *Editor {
	if log == nil {
		log = logging.Nop()
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Editor{
		gw:        gw,
		resolver:  resolver,
		refresher: refresher,
		notifier:  notifier,
		log:       log.With("component", "editor"),
		now:       time.Now,
	}
}

// OpenForCreate returns an empty form with its option sets resolved.
func (e *Editor) OpenForCreate(ctx context.Context, entity schema.Entity) (*Form, error) {
	f := newForm(entity, e.now)
	if err := e.resolve(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// OpenForEdit returns a form hydrated from record. Relation selections are
// restored after the option sets are resolved.
func (e *Editor) OpenForEdit(ctx context.Context, entity schema.Entity, record client.Record) (*Form, error) {
	if record == nil {
		return nil, fmt.Errorf("open %s form: no record", entity)
	}
	f := newForm(entity, e.now)
	if err := e.resolve(ctx, f); err != nil {
		return nil, err
	}
	f.hydrate(record)
	return f, nil
}

func (e *Editor) resolve(ctx context.Context, f *Form) error {
	sets := e.resolver.ResolveAll(ctx, schema.RelationFieldsFor(f.Entity))
	if err := ctx.Err(); err != nil {
		return err
	}
	for wire, s := range sets {
		field, _ := schema.FieldByWire(f.Entity, wire)
		if s.Err != nil {
			notify.Send(ctx, e.notifier, notify.Error, fmt.Sprintf("Could not load %s: %v", field.Label, s.Err))
		}
		f.options[field.EditorName()] = &s
	}
	f.ready = true
	return nil
}

// Submit validates the form locally and creates or updates the record.
// On success the form is closed, the listing refreshed and a notice sent.
// Server and network failures are notified and leave the form open.
func (e *Editor) Submit(ctx context.Context, f *Form) (client.Record, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if !f.ready {
		return nil, ErrNotReady
	}

	payload, err := Payload(f)
	if err != nil {
		notify.Send(ctx, e.notifier, notify.Error, capitalize(err.Error()))
		return nil, err
	}

	var (
		rec  client.Record
		verb string
	)
	if f.Editing() {
		id, _, idErr := schema.Identify(f.Entity, f.record)
		if idErr != nil {
			notify.Send(ctx, e.notifier, notify.Error, capitalize(idErr.Error()))
			return nil, idErr
		}
		rec, err = e.gw.Update(ctx, f.Entity, id, payload)
		verb = "updated"
	} else {
		rec, err = e.gw.Create(ctx, f.Entity, payload)
		verb = "created"
	}
	if err != nil {
		e.reportFailure(ctx, f, err)
		return nil, err
	}

	f.closed = true
	e.log.Info(ctx, "record saved", "entity", f.Entity, "action", verb)
	notify.Send(ctx, e.notifier, notify.Success, "Record "+verb)

	if e.refresher != nil {
		if _, rerr := e.refresher.Refresh(ctx); rerr != nil && !errors.Is(rerr, query.ErrStale) {
			e.log.Warn(ctx, "refresh after save failed", "error", rerr)
		}
	}
	return rec, nil
}

func (e *Editor) reportFailure(ctx context.Context, f *Form, err error) {
	var se *client.ServerError
	switch {
	case errors.As(err, &se):
		e.log.Warn(ctx, "save rejected", "entity", f.Entity, "status", se.Status, "detail", se.Detail)
		notify.Send(ctx, e.notifier, notify.Error, se.Detail)
	case errors.Is(err, client.ErrUnavailable):
		e.log.Error(ctx, "save failed", "entity", f.Entity, "error", err)
		notify.Send(ctx, e.notifier, notify.Error, NetworkNotice)
	default:
		e.log.Error(ctx, "save failed", "entity", f.Entity, "error", err)
		notify.Send(ctx, e.notifier, notify.Error, capitalize(err.Error()))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
