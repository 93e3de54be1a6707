package editor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

// ValidationError lists required fields that are empty, by wire name.
type ValidationError struct {
	Entity schema.Entity
	Fields []string
}

func (e *ValidationError) Error() string {
	labels := make([]string, 0, len(e.Fields))
	for _, w := range e.Fields {
		if f, ok := schema.FieldByWire(e.Entity, w); ok {
			labels = append(labels, f.Label)
		} else {
			labels = append(labels, w)
		}
	}
	return fmt.Sprintf("fill in the required fields: %s", strings.Join(labels, ", "))
}

// Payload coerces the form controls into a request body keyed by wire name
// and checks required fields.
//
// Coercion: numbers become float64 (0 when blank or invalid), *_id fields
// become int64 (nil when blank or invalid), blank dates become nil and
// everything else is sent as text.
func Payload(f *Form) (map[string]any, error) {
	out := make(map[string]any, len(f.fields))
	var missing []string

	for _, field := range f.fields {
		v := coerce(field, f.Value(field.EditorName()))
		out[field.Wire] = v
		if field.Required && isBlank(v) {
			missing = append(missing, field.Wire)
		}
	}

	if len(missing) > 0 {
		return out, &ValidationError{Entity: f.Entity, Fields: missing}
	}
	return out, nil
}

func coerce(field schema.Field, raw string) any {
	s := strings.TrimSpace(raw)
	switch {
	case field.Kind == schema.KindNumber:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return float64(0)
		}
		return n
	case strings.HasSuffix(field.Wire, "_id"):
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil
		}
		return n
	case field.Kind == schema.KindDate:
		if s == "" {
			return nil
		}
		return s
	default:
		return raw
	}
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	default:
		return false
	}
}
