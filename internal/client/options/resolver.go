package options

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Resolver turns related-entity listings into option sets.
type Resolver struct {
	gw  client.Gateway
	log logging.Logger
}

func NewResolver(gw client.Gateway, log logging.Logger) *Resolver {
	if log == nil {
		log = logging.Nop()
	}
	return &Resolver{gw: gw, log: log.With("component", "options")}
}

// Resolve lists every record of related. A failed listing yields a single
// disabled sentinel option; Resolve itself never fails.
func (r *Resolver) Resolve(ctx context.Context, related schema.Entity) Set {
	rows, err := client.ListAll(ctx, r.gw, related, client.ListParams{}, client.DefaultPageSize)
	if err != nil {
		r.log.Warn(ctx, "option load failed", "entity", related, "error", err)
		return failedSet(related, err)
	}
	if len(rows) == 0 {
		return emptySet(related)
	}

	idField, displayField := schema.Identity(related)
	set := Set{Entity: related, Options: make([]Option, 0, len(rows))}
	for _, row := range rows {
		id, ok := row.Int(idField)
		if !ok {
			r.log.Warn(ctx, "record without identifier skipped", "entity", related)
			continue
		}
		set.Options = append(set.Options, optionFor(related, id, row, displayField))
	}
	if len(set.Options) == 0 {
		return emptySet(related)
	}
	return set
}

func optionFor(related schema.Entity, id int64, row client.Record, displayField string) Option {
	label := strings.TrimSpace(row.Text(displayField))
	if related == schema.Subscription {
		label = schema.SubscriptionName(id)
	}
	if label == "" {
		label = schema.FallbackName(id)
	}

	o := Option{Value: strconv.FormatInt(id, 10), Label: label}
	if related == schema.Book {
		qty, _ := row.Int("quantity")
		if qty > 0 {
			o.Label = fmt.Sprintf("%s (%d pcs.)", label, qty)
		} else {
			o.Label = label + " (out of stock)"
			o.Disabled = true
		}
	}
	return o
}

// Refresh re-resolves the entity of prev and keeps prev.Selected when it is
// still among the options.
func (r *Resolver) Refresh(ctx context.Context, prev Set) Set {
	next := r.Resolve(ctx, prev.Entity)
	next.Preselect(prev.Selected)
	return next
}

// ResolveAll resolves the given relation fields concurrently, keyed by wire
// name.
func (r *Resolver) ResolveAll(ctx context.Context, fields []schema.Field) map[string]Set {
	out := make(map[string]Set, len(fields))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fields {
		if !f.IsRelation() {
			continue
		}
		g.Go(func() error {
			s := r.Resolve(gctx, f.Related)
			mu.Lock()
			out[f.Wire] = s
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
