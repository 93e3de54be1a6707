package stubstore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/libadmin/internal/common"
	"github.com/dmitrijs2005/libadmin/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, r http.Handler, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestRouter_PingAndRequestID(t *testing.T) {
	r := NewRouter(New(fixedClock), logging.Nop(), Options{})

	w := serve(t, r, http.MethodGet, "/", "", http.Header{common.HeaderRequestID: {"req-1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", w.Header().Get(common.HeaderRequestID))
	assert.JSONEq(t, `{"message":"Library Management System API"}`, w.Body.String())

	w = serve(t, r, http.MethodGet, "/", "", nil)
	assert.NotEmpty(t, w.Header().Get(common.HeaderRequestID), "an id is generated when absent")
}

func TestRouter_CRUD(t *testing.T) {
	r := NewRouter(New(fixedClock), logging.Nop(), Options{})

	w := serve(t, r, http.MethodPost, "/api/libraries/", `{"name":"Central","address":"Main 1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created map[string]any
	decode(t, w, &created)
	assert.EqualValues(t, 1, created["library_id"])

	w = serve(t, r, http.MethodPut, "/api/libraries/1", `{"name":"Central 2","address":"Main 1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(t, r, http.MethodGet, "/api/libraries/?skip=0&limit=10&name=central%202", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]any
	decode(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Central 2", rows[0]["name"])

	w = serve(t, r, http.MethodDelete, "/api/libraries/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(t, r, http.MethodGet, "/api/libraries/1", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Library not found"}`, w.Body.String())
}

func TestRouter_Errors(t *testing.T) {
	r := NewRouter(seeded(t), logging.Nop(), Options{})

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name: "missing required fields", method: http.MethodPost, target: "/api/readers/", body: `{}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"detail":[{"loc":["body","full_name"],"msg":"field required","type":"value_error"}]}`,
		},
		{
			name: "body is not an object", method: http.MethodPost, target: "/api/readers/", body: `[1]`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"Request body must be a JSON object"}`,
		},
		{
			name: "reader with active loans", method: http.MethodDelete, target: "/api/readers/1",
			wantStatus: http.StatusConflict,
			wantBody:   `{"detail":"Reader has active subscriptions"}`,
		},
		{
			name: "out of stock", method: http.MethodPost, target: "/api/subscriptions/",
			body:       `{"library_id":1,"book_id":3,"reader_id":3}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"Book not available"}`,
		},
		{
			name: "bad paging", method: http.MethodGet, target: "/api/books/?limit=x",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown report", method: http.MethodGet, target: "/reports/nope/",
			wantStatus: http.StatusNotFound,
			wantBody:   `{"detail":"Report not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, r, tt.method, tt.target, tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRouter_ReportsAndDetailedBooks(t *testing.T) {
	r := NewRouter(seeded(t), logging.Nop(), Options{})

	w := serve(t, r, http.MethodGet, "/reports/library-stats/?min_books=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]any
	decode(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Central Library", rows[0]["library_name"])

	w = serve(t, r, http.MethodGet, "/api/books/detailed/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &rows)
	assert.Len(t, rows, 4)
	assert.Equal(t, "Leo Tolstoy", rows[0]["author_name"])
}

func TestRouter_FailReports(t *testing.T) {
	r := NewRouter(seeded(t), logging.Nop(), Options{FailReports: true})

	w := serve(t, r, http.MethodGet, "/reports/library-stats/", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Report service unavailable"}`, w.Body.String())

	w = serve(t, r, http.MethodGet, "/api/libraries/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "records stay available")
}
