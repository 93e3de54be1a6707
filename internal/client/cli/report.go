package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/libadmin/internal/client/reports"
)

// Reports prints the report catalog.
func (a *App) Reports(_ context.Context) error {
	for _, d := range reports.Catalog() {
		note := ""
		if d.HasFallback() {
			note = " (local fallback)"
		}
		fmt.Fprintf(a.out, "  %-22s %s%s\n", d.Type, d.Title, note)
	}
	return nil
}

// Report asks for the filters of reportType, runs it and prints the table.
func (a *App) Report(ctx context.Context, reportType string) error {
	f, err := a.reports.Select(ctx, reports.Type(reportType))
	if err != nil {
		return fmt.Errorf("%w (see 'reports')", err)
	}

	list := make([]control, len(f.Descriptor.Filters))
	for i, spec := range f.Descriptor.Filters {
		list[i] = control{name: spec.Field.Wire, field: spec.Field}
	}
	if err := a.fill(f, list); err != nil {
		return err
	}

	res, err := a.reports.Generate(ctx, f)
	if err != nil {
		a.log.Debug(ctx, "report not generated", "type", reportType, "error", err)
		return nil
	}

	fmt.Fprintln(a.out, res.Title)
	if len(res.Rows) > 0 {
		renderTable(a.out, res.Columns, res.Rows, a.width())
	}
	return nil
}
