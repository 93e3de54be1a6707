package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind selects the input control and the coercion rule of a field.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindDate     Kind = "date"
	KindLongText Kind = "longtext"
	KindRelation Kind = "relation"
)

// Field describes one editable attribute of an entity.
type Field struct {
	// Wire is the attribute name in API payloads.
	Wire string
	// Editor is the form control name when it differs from Wire.
	Editor   string
	Label    string
	Kind     Kind
	Required bool

	// Number constraints. MaxCurrentYear caps the value at the current year.
	Min            *float64
	Max            *float64
	MaxCurrentYear bool
	Step           float64

	// Related is the entity a relation field points at.
	Related Entity
}

// EditorName is the name used by the form for this field.
func (f Field) EditorName() string {
	if f.Editor != "" {
		return f.Editor
	}
	return f.Wire
}

func (f Field) IsRelation() bool { return f.Kind == KindRelation }

// Bounds resolves the numeric range at now.
func (f Field) Bounds(now time.Time) (lo, hi *float64) {
	lo, hi = f.Min, f.Max
	if f.MaxCurrentYear {
		y := float64(now.Year())
		hi = &y
	}
	return lo, hi
}

// CheckRange validates a numeric value against the field bounds. Values that
// are not numbers are left to coercion.
func (f Field) CheckRange(raw string, now time.Time) error {
	if f.Kind != KindNumber {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number", f.Label)
	}
	lo, hi := f.Bounds(now)
	if lo != nil && v < *lo {
		return fmt.Errorf("%s must be at least %s", f.Label, formatBound(*lo))
	}
	if hi != nil && v > *hi {
		return fmt.Errorf("%s must be at most %s", f.Label, formatBound(*hi))
	}
	return nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ptr(v float64) *float64 { return &v }
