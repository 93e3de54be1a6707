package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/libadmin/internal/client/editor"
	"github.com/dmitrijs2005/libadmin/internal/client/options"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

// controls is what an editor form and a report filter form have in common.
type controls interface {
	Value(name string) string
	Options(name string) (*options.Set, bool)
	Set(name, value string) error
}

type control struct {
	name  string
	field schema.Field
}

// fill walks the controls in order. Enter keeps the current value, "-"
// clears it and invalid input is reported and asked again.
func (a *App) fill(c controls, list []control) error {
	for _, ctl := range list {
		for {
			err := a.fillOne(c, ctl)
			if err == nil {
				break
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			fmt.Fprintln(a.out, "Error:", err)
		}
	}
	return nil
}

func (a *App) fillOne(c controls, ctl control) error {
	set, isChoice := c.Options(ctl.name)
	current := c.Value(ctl.name)
	if isChoice {
		current = set.SelectedLabel()
		printOptions(a.out, set)
	}

	label := ctl.field.Label
	if ctl.field.Required {
		label += "*"
	}
	if current != "" {
		label = fmt.Sprintf("%s [%s]", label, current)
	}

	var (
		raw string
		err error
	)
	if ctl.field.Kind == schema.KindLongText {
		raw, err = GetMultiline(a.reader, label, a.out)
	} else {
		raw, err = GetSimpleText(a.reader, label, a.out)
	}
	if err != nil {
		return err
	}

	switch {
	case raw == "":
		return nil
	case raw == clearMarker:
		raw = ""
	case isChoice:
		if raw, err = choiceValue(set, raw); err != nil {
			return err
		}
	}
	return c.Set(ctl.name, raw)
}

func formControls(f *editor.Form) []control {
	fields := f.Fields()
	out := make([]control, len(fields))
	for i, field := range fields {
		out[i] = control{name: field.EditorName(), field: field}
	}
	return out
}

// Add opens an empty form for the current table.
func (a *App) Add(ctx context.Context) error {
	f, err := a.editor.OpenForCreate(ctx, a.machine.Current().Entity)
	if err != nil {
		return err
	}
	return a.submit(ctx, f)
}

// Edit opens the record with the given id in a form.
func (a *App) Edit(ctx context.Context, rawID string) error {
	e, rec, err := a.fetch(ctx, rawID)
	if err != nil {
		return err
	}
	f, err := a.editor.OpenForEdit(ctx, e, rec)
	if err != nil {
		return err
	}
	return a.submit(ctx, f)
}

// submit fills and submits f until it saves or the operator gives up.
// Failures have already been shown as notices.
func (a *App) submit(ctx context.Context, f *editor.Form) error {
	for {
		if err := a.fill(f, formControls(f)); err != nil {
			return err
		}
		if _, err := a.editor.Submit(ctx, f); err == nil {
			a.showLast()
			return nil
		}
		again, err := a.Confirm(ctx, "Edit the form again?")
		if err != nil || !again {
			return err
		}
	}
}
