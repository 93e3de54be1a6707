package reports

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

// fakeGateway serves in-memory collections and records report calls.
type fakeGateway struct {
	client.Gateway

	mu         sync.Mutex
	rows       map[schema.Entity][]client.Record
	detailed   []client.Record
	listErr    map[schema.Entity]error
	fetchErr   map[string]error
	reportRows []client.Record
	reportErr  error

	reports []url.Values
	lists   []client.ListParams
	fetches []string
}

func (f *fakeGateway) List(_ context.Context, e schema.Entity, p client.ListParams) ([]client.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, p)
	if err := f.listErr[e]; err != nil {
		return nil, err
	}
	all := f.rows[e]
	if p.Skip >= len(all) {
		return nil, nil
	}
	end := len(all)
	if p.Limit > 0 && p.Skip+p.Limit < end {
		end = p.Skip + p.Limit
	}
	return all[p.Skip:end], nil
}

func (f *fakeGateway) ListView(_ context.Context, e schema.Entity, view string, _ client.ListParams) ([]client.Record, error) {
	if err := f.listErr[e]; err != nil {
		return nil, err
	}
	return f.detailed, nil
}

func (f *fakeGateway) FetchOne(_ context.Context, e schema.Entity, id int64) (client.Record, bool, error) {
	key := fmt.Sprintf("%s/%d", e, id)
	f.mu.Lock()
	f.fetches = append(f.fetches, key)
	f.mu.Unlock()

	if err := f.fetchErr[key]; err != nil {
		return nil, false, err
	}
	idField, _ := schema.Identity(e)
	for _, r := range f.rows[e] {
		if v, _ := r.Int(idField); v == id {
			return r, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeGateway) Report(_ context.Context, _ string, q url.Values) ([]client.Record, error) {
	f.mu.Lock()
	f.reports = append(f.reports, q)
	f.mu.Unlock()
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return f.reportRows, nil
}
