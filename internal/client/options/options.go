// Package options resolves relation fields into display-ready choice lists.
package options

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

var (
	ErrDisabled      = errors.New("option is disabled")
	ErrUnknownOption = errors.New("unknown option")
)

const noRecordsLabel = "no records available"

// Option is one choice of a relation field.
type Option struct {
	Value    string
	Label    string
	Disabled bool
}

// Set is the resolved option list of one relation field, rebuilt on every
// form open.
type Set struct {
	// Entity is the related entity the options point at.
	Entity   schema.Entity
	Options  []Option
	Selected string
	// Err is the load failure, if the list could not be fetched.
	Err      error
}

// Lookup finds the option with the given value.
func (s *Set) Lookup(value string) (Option, bool) {
	if value == "" {
		return Option{}, false
	}
	for _, o := range s.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Select records an operator choice. Disabled and unknown values are
// refused; an empty value clears the selection.
func (s *Set) Select(value string) error {
	if value == "" {
		s.Selected = ""
		return nil
	}
	o, ok := s.Lookup(value)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, value)
	}
	if o.Disabled {
		return fmt.Errorf("%w: %s", ErrDisabled, o.Label)
	}
	s.Selected = value
	return nil
}

// Preselect restores a value stored on an existing record. Unlike Select it
// keeps a disabled option, since the record already references it.
func (s *Set) Preselect(value string) {
	if _, ok := s.Lookup(value); ok {
		s.Selected = value
	}
}

// SelectedLabel is the label of the current selection, or "".
func (s *Set) SelectedLabel() string {
	if o, ok := s.Lookup(s.Selected); ok {
		return o.Label
	}
	return ""
}

// Selectable reports whether at least one option can be chosen.
func (s *Set) Selectable() bool {
	for _, o := range s.Options {
		if !o.Disabled {
			return true
		}
	}
	return false
}

func failedSet(e schema.Entity, err error) Set {
	return Set{
		Entity:  e,
		Options: []Option{{Label: "failed to load: " + err.Error(), Disabled: true}},
		Err:     err,
	}
}

func emptySet(e schema.Entity) Set {
	return Set{Entity: e, Options: []Option{{Label: noRecordsLabel, Disabled: true}}}
}
