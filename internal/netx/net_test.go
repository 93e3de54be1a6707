package netx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON(t *testing.T) {
	t.Run("post with body and headers", func(t *testing.T) {
		var gotBody, gotCT, gotMethod, gotReqID string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotReqID = r.Header.Get("X-Request-ID")
			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer ts.Close()

		h := http.Header{}
		h.Set("X-Request-ID", "abc")
		resp, err := DoJSON(context.Background(), ts.Client(), http.MethodPost, ts.URL, map[string]any{"name": "x"}, h)
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotCT)
		assert.Equal(t, "abc", gotReqID)
		assert.JSONEq(t, `{"name":"x"}`, gotBody)
		assert.Equal(t, http.StatusCreated, resp.Status)
		assert.True(t, resp.OK())
		assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	})

	t.Run("error status is not a transport error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"bad"}`))
		}))
		defer ts.Close()

		resp, err := DoJSON(context.Background(), nil, http.MethodGet, ts.URL, nil, nil)
		require.NoError(t, err)
		assert.False(t, resp.OK())
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})

	t.Run("unreachable server", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := ts.URL
		ts.Close()

		_, err := DoJSON(context.Background(), nil, http.MethodGet, url, nil, nil)
		require.Error(t, err)
	})

	t.Run("unencodable body", func(t *testing.T) {
		_, err := DoJSON(context.Background(), nil, http.MethodPost, "http://127.0.0.1", make(chan int), nil)
		require.Error(t, err)
	})
}
