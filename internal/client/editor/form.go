package editor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/options"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

var ErrUnknownField = errors.New("unknown form field")

// Form is one open create/edit dialog. It is not safe for concurrent use.
type Form struct {
	Entity schema.Entity

	fields  []schema.Field
	values  map[string]string
	options map[string]*options.Set
	// record is the original record when editing.
	record client.Record

	ready  bool
	closed bool
	now    func() time.Time
}

func newForm(entity schema.Entity, now func() time.Time) *Form {
	return &Form{
		Entity:  entity,
		fields:  schema.FieldsFor(entity),
		values:  map[string]string{},
		options: map[string]*options.Set{},
		now:     now,
	}
}

// Fields returns the form fields in display order.
func (f *Form) Fields() []schema.Field {
	out := make([]schema.Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// Editing reports whether the form was opened for an existing record.
func (f *Form) Editing() bool { return f.record != nil }

// Record is the record being edited, nil for a create form.
func (f *Form) Record() client.Record { return f.record }

func (f *Form) Ready() bool  { return f.ready }
func (f *Form) Closed() bool { return f.closed }

// Value returns the current raw value of the named control. Relation
// controls report their selected option value.
func (f *Form) Value(editorName string) string {
	if s, ok := f.options[editorName]; ok {
		return s.Selected
	}
	return f.values[editorName]
}

// Options returns the option set of a relation control.
func (f *Form) Options(editorName string) (*options.Set, bool) {
	s, ok := f.options[editorName]
	return s, ok
}

// Set assigns a control value. Relation values must name a selectable
// option; numbers are checked against the field bounds.
func (f *Form) Set(editorName, value string) error {
	if f.closed {
		return ErrClosed
	}
	field, ok := schema.FieldByEditor(f.Entity, editorName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, editorName)
	}

	if field.IsRelation() {
		s, ok := f.options[editorName]
		if !ok {
			return ErrNotReady
		}
		return s.Select(strings.TrimSpace(value))
	}

	if err := field.CheckRange(value, f.now()); err != nil {
		return err
	}
	f.values[editorName] = value
	return nil
}

// hydrate copies record values into the controls, mapping wire names to
// editor names. Dates keep only their YYYY-MM-DD part.
func (f *Form) hydrate(record client.Record) {
	f.record = record
	for _, field := range f.fields {
		v := strings.TrimSpace(record.Text(field.Wire))
		if field.Kind == schema.KindDate && len(v) > len(client.DateLayout) {
			v = v[:len(client.DateLayout)]
		}
		if field.IsRelation() {
			if s, ok := f.options[field.EditorName()]; ok {
				s.Preselect(v)
			}
			continue
		}
		f.values[field.EditorName()] = v
	}
}
