package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var remediationColumns = []string{"subscription_id", "book_id", "library_id", "issue_date", "return_date", "deposit"}

// Delete removes the record with the given id after confirmation. When a
// reader is refused for active subscriptions the operator may list them.
func (a *App) Delete(ctx context.Context, rawID string) error {
	e, rec, err := a.fetch(ctx, rawID)
	if err != nil {
		return err
	}

	out, err := a.deleter.RequestDelete(ctx, e, rec)
	if errors.Is(err, io.EOF) {
		return err
	}
	if err != nil {
		a.log.Debug(ctx, "delete not completed", "entity", e, "error", err)
	}

	switch {
	case out.Cancelled:
		fmt.Fprintln(a.out, "Cancelled")
	case out.Deleted:
		a.showLast()
	case len(out.ActiveSubscriptions) > 0:
		fmt.Fprintf(a.out, "Active subscriptions of %s:\n", out.Name)
		renderTable(a.out, remediationColumns, out.ActiveSubscriptions, a.width())
	}
	return nil
}
