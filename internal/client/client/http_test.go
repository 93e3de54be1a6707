package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/logging"
	"github.com/dmitrijs2005/libadmin/internal/netx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	query  url.Values
	body   string
	reqID  string
}

func newTestServer(t *testing.T, status int, resp string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.method = r.Method
		c.path = r.URL.Path
		c.query = r.URL.Query()
		c.reqID = r.Header.Get("X-Request-ID")
		b, _ := io.ReadAll(r.Body)
		c.body = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(ts.Close)
	return ts, c
}

func TestHTTPGateway_List(t *testing.T) {
	ts, c := newTestServer(t, http.StatusOK, `[{"library_id":1,"name":"Central"},{"library_id":2,"name":"East"}]`)
	gw := NewHTTPGateway(ts.URL+"/", 0, logging.Nop())

	rows, err := gw.List(context.Background(), schema.Library, ListParams{
		Skip: 0, Limit: 10, Search: "cen", SortBy: "name",
		Filter: &Filter{Field: "address", Value: "Main"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, http.MethodGet, c.method)
	assert.Equal(t, "/api/libraries/", c.path)
	assert.Equal(t, "0", c.query.Get("skip"))
	assert.Equal(t, "10", c.query.Get("limit"))
	assert.Equal(t, "cen", c.query.Get("search"))
	assert.Equal(t, "name", c.query.Get("sort_by"))
	assert.Equal(t, "Main", c.query.Get("address"))
	assert.NotEmpty(t, c.reqID)

	assert.Equal(t, json.Number("1"), rows[0]["library_id"])
	assert.Equal(t, "Central", rows[0].Text("name"))
}

func TestListParams_OmitsEmpty(t *testing.T) {
	assert.Empty(t, ListParams{}.Values())

	v := ListParams{Search: "x"}.Values()
	assert.Equal(t, url.Values{"search": {"x"}}, v)

	v = ListParams{Skip: 20, Limit: 10, Filter: &Filter{Field: "country"}}.Values()
	assert.Equal(t, url.Values{"skip": {"20"}, "limit": {"10"}}, v)

	v = ListParams{Extra: url.Values{"active_only": {"true"}}}.Values()
	assert.Equal(t, "true", v.Get("active_only"))
}

func TestHTTPGateway_ListView(t *testing.T) {
	ts, c := newTestServer(t, http.StatusOK, `[]`)
	gw := NewHTTPGateway(ts.URL, 0, nil)

	rows, err := gw.ListView(context.Background(), schema.Book, "detailed", ListParams{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
	assert.Equal(t, "/api/books/detailed/", c.path)
}

func TestHTTPGateway_FetchOne(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		ts, c := newTestServer(t, http.StatusOK, `{"book_id":7,"title":"Dune","price":"12.50"}`)
		gw := NewHTTPGateway(ts.URL, 0, nil)

		rec, ok, err := gw.FetchOne(context.Background(), schema.Book, 7)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "/api/books/7", c.path)
		assert.Equal(t, "Dune", rec.Text("title"))
		d, _ := rec.Decimal("price")
		assert.Equal(t, "12.5", d.String())
	})

	t.Run("404 is absent", func(t *testing.T) {
		ts, _ := newTestServer(t, http.StatusNotFound, `{"detail":"Book not found"}`)
		gw := NewHTTPGateway(ts.URL, 0, nil)

		rec, ok, err := gw.FetchOne(context.Background(), schema.Book, 99)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, rec)
	})

	t.Run("500 is an error", func(t *testing.T) {
		ts, _ := newTestServer(t, http.StatusInternalServerError, `boom`)
		gw := NewHTTPGateway(ts.URL, 0, nil)

		_, ok, err := gw.FetchOne(context.Background(), schema.Book, 1)
		assert.False(t, ok)
		var se *ServerError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "boom", se.Detail)
	})
}

func TestHTTPGateway_CreateUpdateRemove(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		ts, c := newTestServer(t, http.StatusOK, `{"topic_id":3,"name":"Poetry"}`)
		gw := NewHTTPGateway(ts.URL, 0, nil)

		rec, err := gw.Create(context.Background(), schema.Topic, map[string]any{"name": "Poetry"})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, c.method)
		assert.Equal(t, "/api/topics/", c.path)
		assert.JSONEq(t, `{"name":"Poetry"}`, c.body)
		id, _ := rec.Int("topic_id")
		assert.Equal(t, int64(3), id)
	})

	t.Run("update with detail error", func(t *testing.T) {
		ts, c := newTestServer(t, http.StatusBadRequest, `{"detail":"Invalid publish year"}`)
		gw := NewHTTPGateway(ts.URL, 0, nil)

		_, err := gw.Update(context.Background(), schema.Book, 4, map[string]any{"publish_year": 1200})
		assert.Equal(t, http.MethodPut, c.method)
		assert.Equal(t, "/api/books/4", c.path)
		var se *ServerError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadRequest, se.Status)
		assert.Equal(t, "Invalid publish year", se.Detail)
	})

	t.Run("remove", func(t *testing.T) {
		ts, c := newTestServer(t, http.StatusOK, `{"message":"ok"}`)
		gw := NewHTTPGateway(ts.URL, 0, nil)

		require.NoError(t, gw.Remove(context.Background(), schema.Reader, 5))
		assert.Equal(t, http.MethodDelete, c.method)
		assert.Equal(t, "/api/readers/5", c.path)
	})
}

func TestHTTPGateway_Report(t *testing.T) {
	ts, c := newTestServer(t, http.StatusOK, `[{"library_name":"Central","total_books":2}]`)
	gw := NewHTTPGateway(ts.URL, 0, nil)

	rows, err := gw.Report(context.Background(), "library-stats", url.Values{"min_books": {"1"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "/reports/library-stats/", c.path)
	assert.Equal(t, "1", c.query.Get("min_books"))
}

func TestHTTPGateway_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := ts.URL
	ts.Close()

	gw := NewHTTPGateway(base, 0, nil)
	_, err := gw.List(context.Background(), schema.Author, ListParams{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.MethodGet, te.Op)
	assert.Contains(t, te.URL, "/api/authors/")

	assert.ErrorIs(t, gw.Ping(context.Background()), ErrUnavailable)
}

func TestHTTPGateway_UnencodableBodyIsNotTransportError(t *testing.T) {
	ts, c := newTestServer(t, http.StatusCreated, `{}`)
	gw := NewHTTPGateway(ts.URL, 0, nil)

	_, err := gw.Create(context.Background(), schema.Author, map[string]any{"birth_year": math.NaN()})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
	var te *TransportError
	assert.False(t, errors.As(err, &te))
	var ee *netx.EncodeError
	assert.ErrorAs(t, err, &ee)
	assert.Empty(t, c.method, "nothing may be sent")
}

func TestHTTPGateway_Ping(t *testing.T) {
	ts, c := newTestServer(t, http.StatusOK, `{"message":"Library Management System API"}`)
	gw := NewHTTPGateway(ts.URL, 0, nil)

	require.NoError(t, gw.Ping(context.Background()))
	assert.Equal(t, "/", c.path)
}

func TestHTTPGateway_MalformedBody(t *testing.T) {
	ts, _ := newTestServer(t, http.StatusOK, `{"not":"an array"}`)
	gw := NewHTTPGateway(ts.URL, 0, nil)

	_, err := gw.List(context.Background(), schema.Topic, ListParams{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
}
