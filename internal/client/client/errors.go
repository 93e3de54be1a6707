package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrUnavailable = errors.New("server unavailable")

// TransportError is a request that never produced a response.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrUnavailable }

// ServerError is a non-success response.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Detail)
}

// IsNotFound reports whether err is a 404 ServerError.
func IsNotFound(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

type validationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// newServerError extracts the "detail" member of an error body. Validation
// error lists are flattened to "loc: msg" lines.
func newServerError(status int, body []byte) *ServerError {
	se := &ServerError{Status: status}

	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Detail) > 0 {
		var s string
		if json.Unmarshal(env.Detail, &s) == nil {
			se.Detail = s
			return se
		}
		var items []validationItem
		if json.Unmarshal(env.Detail, &items) == nil && len(items) > 0 {
			lines := make([]string, 0, len(items))
			for _, it := range items {
				lines = append(lines, formatLoc(it.Loc)+": "+it.Msg)
			}
			se.Detail = strings.Join(lines, "\n")
			return se
		}
		se.Detail = string(env.Detail)
		return se
	}

	if t := strings.TrimSpace(string(body)); t != "" && len(t) < 200 {
		se.Detail = t
	} else {
		se.Detail = http.StatusText(status)
	}
	return se
}

func formatLoc(loc []any) string {
	parts := make([]string, 0, len(loc))
	for _, p := range loc {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, ".")
}
