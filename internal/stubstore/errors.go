package stubstore

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/common"
)

// DetailError is a store failure with the message sent to API callers as
// {"detail": ...}. Kind is one of the common sentinel errors.
type DetailError struct {
	Kind   error
	Detail string
}

func (e *DetailError) Error() string { return e.Detail }
func (e *DetailError) Unwrap() error { return e.Kind }

func detailf(kind error, format string, args ...any) error {
	return &DetailError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// FieldError is one rejected body attribute.
type FieldError struct {
	Field string
	Msg   string
}

// ValidationErrors is sent as a list of {"loc", "msg", "type"} items, the
// shape request validators of the real API produce.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Msg
	}
	return strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return common.ErrorIncorrectInput }

func (v ValidationErrors) detail() []map[string]any {
	out := make([]map[string]any, len(v))
	for i, fe := range v {
		out[i] = map[string]any{
			"loc":  []string{"body", fe.Field},
			"msg":  fe.Msg,
			"type": "value_error",
		}
	}
	return out
}

// title names one record of e in messages, e.g. "Library".
func title(e schema.Entity) string {
	s := e.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
