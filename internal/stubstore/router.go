package stubstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/common"
	"github.com/dmitrijs2005/libadmin/internal/logging"
)

// Options tune the stub behaviour.
type Options struct {
	// FailReports makes every /reports endpoint answer 500 so clients
	// exercise their fallbacks.
	FailReports bool
}

type handler struct {
	store *Store
	log   logging.Logger
	opts  Options
}

// NewRouter exposes s over the record-store HTTP contract.
func NewRouter(s *Store, log logging.Logger, opts Options) *gin.Engine {
	if log == nil {
		log = logging.Nop()
	}
	h := &handler{store: s, log: log.With("component", "stubstore"), opts: opts}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(h.log))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Library Management System API"})
	})

	api := r.Group("/api")
	api.GET("/books/detailed/", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.DetailedBooks())
	})
	for _, e := range schema.All() {
		g := api.Group("/" + e.Collection())
		g.GET("/", h.list(e))
		g.POST("/", h.create(e))
		g.GET("/:id", h.get(e))
		g.PUT("/:id", h.update(e))
		g.DELETE("/:id", h.remove(e))
	}

	r.GET("/reports/:type/", h.report)
	return r
}

// requestID echoes X-Request-ID, generating one when the caller sent none,
// and stores it in the request context for logging.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Header(common.HeaderRequestID, id)
		c.Next()
	}
}

func accessLog(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (h *handler) list(e schema.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := parseQuery(e, c.Request.URL.Query())
		if err != nil {
			h.fail(c, err)
			return
		}
		rows, err := h.store.List(e, q)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func (h *handler) get(e schema.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.id(c)
		if !ok {
			return
		}
		rec, err := h.store.Get(e, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (h *handler) create(e schema.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := h.body(c)
		if !ok {
			return
		}
		rec, err := h.store.Create(e, body)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (h *handler) update(e schema.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.id(c)
		if !ok {
			return
		}
		body, ok := h.body(c)
		if !ok {
			return
		}
		rec, err := h.store.Update(e, id, body)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (h *handler) remove(e schema.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.id(c)
		if !ok {
			return
		}
		if err := h.store.Delete(e, id); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": title(e) + " deleted"})
	}
}

func (h *handler) report(c *gin.Context) {
	if h.opts.FailReports {
		c.JSON(http.StatusInternalServerError, gin.H{common.DetailKey: "Report service unavailable"})
		return
	}
	rows, err := h.store.Report(c.Param("type"), c.Request.URL.Query())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handler) id(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.fail(c, ValidationErrors{{Field: "id", Msg: "value is not a valid integer"}})
		return 0, false
	}
	return id, true
}

// body decodes a JSON object keeping numbers as json.Number.
func (h *handler) body(c *gin.Context) (map[string]any, bool) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.fail(c, detailf(common.ErrorIncorrectInput, "Unreadable request body"))
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil || body == nil {
		h.fail(c, detailf(common.ErrorIncorrectInput, "Request body must be a JSON object"))
		return nil, false
	}
	return body, true
}

// fail maps store errors to API responses.
func (h *handler) fail(c *gin.Context, err error) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{common.DetailKey: verrs.detail()})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		status = http.StatusConflict
	case errors.Is(err, common.ErrorIncorrectInput):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "request failed", "error", err)
	}
	c.JSON(status, gin.H{common.DetailKey: err.Error()})
}

// parseQuery reads the listing parameters. Every other parameter naming a
// sortable field of e becomes an equality filter.
func parseQuery(e schema.Entity, v url.Values) (Query, error) {
	q := Query{
		Search:  v.Get("search"),
		SortBy:  v.Get("sort_by"),
		Filters: map[string]string{},
	}
	var errs ValidationErrors
	for name, dst := range map[string]*int{"skip": &q.Skip, "limit": &q.Limit} {
		raw := v.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, FieldError{Field: name, Msg: "value is not a valid non-negative integer"})
			continue
		}
		*dst = n
	}
	if len(errs) > 0 {
		return Query{}, errs
	}

	q.ActiveOnly, _ = strconv.ParseBool(v.Get("active_only"))
	for _, f := range schema.SortableFields(e) {
		if val := v.Get(f); val != "" {
			q.Filters[f] = val
		}
	}
	return q, nil
}
