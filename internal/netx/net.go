// Package netx holds the HTTP JSON round-trip used by the gateway.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// EncodeError means the request body could not be marshalled, so nothing
// was sent.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "encode body: " + e.Err.Error() }

func (e *EncodeError) Unwrap() error { return e.Err }

// DoJSON sends body (if non-nil) as JSON and reads the whole response.
// An *EncodeError is returned before any I/O; otherwise the error is non-nil
// only when no response was received. Any status code, including 4xx/5xx,
// is returned in Response.
func DoJSON(ctx context.Context, hc *http.Client, method, url string, body any, header http.Header) (*Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &EncodeError{Err: err}
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: b}, nil
}
