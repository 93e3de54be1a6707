package reports

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/options"
)

// AllLabel is the "no restriction" choice of relation filters.
const AllLabel = "All"

// Filters is the rendered filter form of one report.
type Filters struct {
	Descriptor Descriptor

	values  map[string]string
	options map[string]*options.Set
	now     func() time.Time
}

// Value returns the current value of the named filter.
func (f *Filters) Value(name string) string {
	if s, ok := f.options[name]; ok {
		return s.Selected
	}
	return f.values[name]
}

// Options returns the choice list of a relation filter. The first option is
// the "All" choice with an empty value.
func (f *Filters) Options(name string) (*options.Set, bool) {
	s, ok := f.options[name]
	return s, ok
}

// Set assigns a filter value.
func (f *Filters) Set(name, value string) error {
	for _, spec := range f.Descriptor.Filters {
		if spec.Field.Wire != name {
			continue
		}
		if spec.Field.IsRelation() {
			return f.options[name].Select(strings.TrimSpace(value))
		}
		if err := spec.Field.CheckRange(value, f.now()); err != nil {
			return err
		}
		f.values[name] = strings.TrimSpace(value)
		return nil
	}
	return fmt.Errorf("unknown filter %q for %s", name, f.Descriptor.Type)
}

// Query encodes the non-empty filter values.
func (f *Filters) Query() url.Values {
	q := url.Values{}
	for _, spec := range f.Descriptor.Filters {
		if v := f.Value(spec.Field.Wire); v != "" {
			q.Set(spec.Field.Wire, v)
		}
	}
	return q
}

func withAllChoice(s options.Set) *options.Set {
	all := options.Option{Label: AllLabel}
	s.Options = append([]options.Option{all}, s.Options...)
	return &s
}
