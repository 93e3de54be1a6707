// Package deletion implements the confirm-then-delete workflow, including
// the remediation offer for readers that still hold active subscriptions.
package deletion

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/notify"
	"github.com/dmitrijs2005/libadmin/internal/client/query"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/logging"
)

const activeSubscriptionsMarker = "active subscriptions"

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmerFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Refresher reloads the current listing after a delete.
type Refresher interface {
	Refresh(ctx context.Context) (query.Page, error)
}

// Remediation is offered when a reader cannot be deleted because of active
// subscriptions.
type Remediation struct {
	ReaderID int64
	gw       client.Gateway
}

// Inspect lists the reader's active subscriptions.
func (r *Remediation) Inspect(ctx context.Context) ([]client.Record, error) {
	return client.ListAll(ctx, r.gw, schema.Subscription, client.ListParams{
		Extra: url.Values{
			"reader_id":   {strconv.FormatInt(r.ReaderID, 10)},
			"active_only": {"true"},
		},
	}, client.DefaultPageSize)
}

// Outcome describes how a delete request ended.
type Outcome struct {
	Entity    schema.Entity
	ID        int64
	Name      string
	Cancelled bool
	Deleted   bool

	Remediation *Remediation
	// ActiveSubscriptions is filled when the operator accepted the
	// remediation offer.
	ActiveSubscriptions []client.Record
}

type Workflow struct {
	gw        client.Gateway
	confirmer Confirmer
	refresher Refresher
	notifier  notify.Notifier
	log       logging.Logger
}

func New(gw client.Gateway, confirmer Confirmer, refresher Refresher, notifier notify.Notifier, log logging.Logger) *Workflow {
	if log == nil {
		log = logging.Nop()
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Workflow{
		gw:        gw,
		confirmer: confirmer,
		refresher: refresher,
		notifier:  notifier,
		log:       log.With("component", "deletion"),
	}
}

// RequestDelete confirms and deletes record. A declined confirmation
// returns a cancelled outcome without touching the network.
func (w *Workflow) RequestDelete(ctx context.Context, entity schema.Entity, record client.Record) (Outcome, error) {
	id, name, err := schema.Identify(entity, record)
	if err != nil {
		notify.Send(ctx, w.notifier, notify.Error, "Cannot delete: "+err.Error())
		return Outcome{Entity: entity}, err
	}
	out := Outcome{Entity: entity, ID: id, Name: name}

	ok, err := w.confirmer.Confirm(ctx, fmt.Sprintf("Delete %q?", name))
	if err != nil {
		notify.Send(ctx, w.notifier, notify.Error, "Delete aborted: "+err.Error())
		return out, err
	}
	if !ok {
		out.Cancelled = true
		return out, nil
	}

	if err := w.gw.Remove(ctx, entity, id); err != nil {
		return w.failed(ctx, out, err)
	}

	out.Deleted = true
	w.log.Info(ctx, "record deleted", "entity", entity, "id", id)
	notify.Send(ctx, w.notifier, notify.Success, fmt.Sprintf("%q deleted", name))

	if w.refresher != nil {
		if _, rerr := w.refresher.Refresh(ctx); rerr != nil && !errors.Is(rerr, query.ErrStale) {
			w.log.Warn(ctx, "refresh after delete failed", "error", rerr)
		}
	}
	return out, nil
}

func (w *Workflow) failed(ctx context.Context, out Outcome, err error) (Outcome, error) {
	var se *client.ServerError
	if !errors.As(err, &se) {
		w.log.Error(ctx, "delete failed", "entity", out.Entity, "id", out.ID, "error", err)
		notify.Send(ctx, w.notifier, notify.Error, "Network error while deleting")
		return out, err
	}

	w.log.Warn(ctx, "delete rejected", "entity", out.Entity, "id", out.ID, "detail", se.Detail)
	notify.Send(ctx, w.notifier, notify.Error, "Delete failed: "+se.Detail)

	if out.Entity != schema.Reader || !strings.Contains(strings.ToLower(se.Detail), activeSubscriptionsMarker) {
		return out, err
	}

	out.Remediation = &Remediation{ReaderID: out.ID, gw: w.gw}
	inspect, cerr := w.confirmer.Confirm(ctx, "View this reader's active subscriptions?")
	if cerr != nil {
		notify.Send(ctx, w.notifier, notify.Error, "Could not ask about active subscriptions: "+cerr.Error())
		return out, err
	}
	if !inspect {
		return out, err
	}

	subs, ierr := out.Remediation.Inspect(ctx)
	if ierr != nil {
		notify.Send(ctx, w.notifier, notify.Error, "Could not load active subscriptions: "+ierr.Error())
		return out, err
	}
	out.ActiveSubscriptions = subs
	if len(subs) == 0 {
		notify.Send(ctx, w.notifier, notify.Info, "The reader has no active subscriptions")
	}
	return out, err
}
