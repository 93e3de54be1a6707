package client

import (
	"context"

	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

// DefaultPageSize matches the record store's default limit.
const DefaultPageSize = 100

// ListAll reads every record matching p by paging until a short page.
// p.Skip and p.Limit are overwritten.
func ListAll(ctx context.Context, gw Gateway, entity schema.Entity, p ListParams, pageSize int) ([]Record, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	var out []Record
	for skip := 0; ; skip += pageSize {
		p.Skip, p.Limit = skip, pageSize
		page, err := gw.List(ctx, entity, p)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < pageSize {
			return out, nil
		}
	}
}
