package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/common"
	"github.com/dmitrijs2005/libadmin/internal/logging"
	"github.com/dmitrijs2005/libadmin/internal/netx"
	"github.com/google/uuid"
)

// HTTPGateway talks to the record store over HTTP/JSON.
type HTTPGateway struct {
	baseURL string
	hc      *http.Client
	log     logging.Logger
}

// NewHTTPGateway returns a gateway rooted at baseURL (scheme and host, no
// /api suffix). A zero timeout means requests are bounded only by ctx.
func NewHTTPGateway(baseURL string, timeout time.Duration, log logging.Logger) *HTTPGateway {
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     log.With("component", "gateway"),
	}
}

func (g *HTTPGateway) collectionURL(entity schema.Entity, q url.Values) string {
	return g.withQuery(fmt.Sprintf("%s/api/%s/", g.baseURL, entity.Collection()), q)
}

func (g *HTTPGateway) itemURL(entity schema.Entity, id int64) string {
	return fmt.Sprintf("%s/api/%s/%d", g.baseURL, entity.Collection(), id)
}

func (g *HTTPGateway) withQuery(u string, q url.Values) string {
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}

// do performs one round-trip and maps failures onto the error taxonomy.
func (g *HTTPGateway) do(ctx context.Context, method, u string, body any) (*netx.Response, error) {
	reqID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, reqID)

	h := http.Header{}
	h.Set(common.HeaderRequestID, reqID)

	start := time.Now()
	resp, err := netx.DoJSON(ctx, g.hc, method, u, body, h)
	var encErr *netx.EncodeError
	if errors.As(err, &encErr) {
		return nil, fmt.Errorf("%s %s: %w", method, u, err)
	}
	if err != nil {
		g.log.Debug(ctx, "request failed", "method", method, "url", u, "error", err)
		return nil, &TransportError{Op: method, URL: u, Err: err}
	}
	g.log.Debug(ctx, "request done", "method", method, "url", u, "status", resp.Status, "elapsed", time.Since(start))

	if !resp.OK() {
		return resp, newServerError(resp.Status, resp.Body)
	}
	return resp, nil
}

func (g *HTTPGateway) list(ctx context.Context, u string) ([]Record, error) {
	resp, err := g.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return decodeRecords(resp.Body)
}

func (g *HTTPGateway) List(ctx context.Context, entity schema.Entity, p ListParams) ([]Record, error) {
	return g.list(ctx, g.collectionURL(entity, p.Values()))
}

func (g *HTTPGateway) ListView(ctx context.Context, entity schema.Entity, view string, p ListParams) ([]Record, error) {
	u := fmt.Sprintf("%s/api/%s/%s/", g.baseURL, entity.Collection(), strings.Trim(view, "/"))
	return g.list(ctx, g.withQuery(u, p.Values()))
}

func (g *HTTPGateway) FetchOne(ctx context.Context, entity schema.Entity, id int64) (Record, bool, error) {
	resp, err := g.do(ctx, http.MethodGet, g.itemURL(entity, id), nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	rec, err := decodeRecord(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (g *HTTPGateway) Create(ctx context.Context, entity schema.Entity, payload map[string]any) (Record, error) {
	resp, err := g.do(ctx, http.MethodPost, g.collectionURL(entity, nil), payload)
	if err != nil {
		return nil, err
	}
	return decodeRecord(resp.Body)
}

func (g *HTTPGateway) Update(ctx context.Context, entity schema.Entity, id int64, payload map[string]any) (Record, error) {
	resp, err := g.do(ctx, http.MethodPut, g.itemURL(entity, id), payload)
	if err != nil {
		return nil, err
	}
	return decodeRecord(resp.Body)
}

func (g *HTTPGateway) Remove(ctx context.Context, entity schema.Entity, id int64) error {
	_, err := g.do(ctx, http.MethodDelete, g.itemURL(entity, id), nil)
	return err
}

func (g *HTTPGateway) Report(ctx context.Context, reportType string, q url.Values) ([]Record, error) {
	u := fmt.Sprintf("%s/reports/%s/", g.baseURL, url.PathEscape(reportType))
	return g.list(ctx, g.withQuery(u, q))
}

func (g *HTTPGateway) Ping(ctx context.Context) error {
	_, err := g.do(ctx, http.MethodGet, g.baseURL+"/", nil)
	return err
}
