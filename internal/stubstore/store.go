// Package stubstore is an in-memory implementation of the record-store and
// reporting API. It backs local runs of the admin client and its end-to-end
// tests.
package stubstore

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/common"
)

// DefaultLimit is the page size used when a listing names none.
const DefaultLimit = 100

const maxLimit = 1000

// Query selects a listing window.
type Query struct {
	Skip       int
	Limit      int
	Search     string
	SortBy     string
	Filters    map[string]string
	ActiveOnly bool
}

// Store keeps every table in memory. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	tables map[schema.Entity]map[int64]client.Record
	nextID map[schema.Entity]int64
	now    func() time.Time
}

// New returns an empty store. now defaults to time.Now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		tables: map[schema.Entity]map[int64]client.Record{},
		nextID: map[schema.Entity]int64{},
		now:    now,
	}
	for _, e := range schema.All() {
		s.tables[e] = map[int64]client.Record{}
		s.nextID[e] = 1
	}
	return s
}

func (s *Store) today() string {
	return s.now().Format(client.DateLayout)
}

// List returns a copy of the matching rows of e.
func (s *Store) List(e schema.Entity, q Query) ([]client.Record, error) {
	if q.SortBy != "" && !sortable(e, q.SortBy) {
		return nil, detailf(common.ErrorIncorrectInput, "Cannot sort %s by %s", e.Collection(), q.SortBy)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))
	rows := make([]client.Record, 0)
	for _, rec := range s.tables[e] {
		if search != "" && !matchesSearch(e, rec, search) {
			continue
		}
		if !matchesFilters(rec, q.Filters) {
			continue
		}
		if q.ActiveOnly && e == schema.Subscription && !s.active(rec) {
			continue
		}
		rows = append(rows, clone(rec))
	}

	idField, _ := schema.Identity(e)
	key := q.SortBy
	if key == "" {
		key = idField
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if c := compare(rows[i][key], rows[j][key]); c != 0 {
			return c < 0
		}
		a, _ := rows[i].Int(idField)
		b, _ := rows[j].Int(idField)
		return a < b
	})

	return window(rows, q.Skip, q.Limit), nil
}

// Get returns one record of e.
func (s *Store) Get(e schema.Entity, id int64) (client.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tables[e][id]
	if !ok {
		return nil, detailf(common.ErrorNotFound, "%s not found", title(e))
	}
	return clone(rec), nil
}

// Create validates body and stores it as a new record of e.
func (s *Store) Create(e schema.Entity, body map[string]any) (client.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.normalize(e, body, nil)
	if err != nil {
		return nil, err
	}

	switch e {
	case schema.Library:
		rec["created_at"] = s.now().UTC().Format(time.RFC3339)
	case schema.Reader:
		rec["reg_date"] = s.today()
	case schema.Book:
		if rec["quantity"] == nil {
			rec["quantity"] = json.Number("1")
		}
		if rec["price"] == nil {
			rec["price"] = json.Number("0")
		}
	case schema.Subscription:
		if rec["issue_date"] == nil {
			rec["issue_date"] = s.today()
		}
		if rec["deposit"] == nil {
			rec["deposit"] = json.Number("0")
		}
		if err := s.checkOut(rec); err != nil {
			return nil, err
		}
	}

	return s.insert(e, rec), nil
}

// insert assigns the next identifier; callers hold the write lock.
func (s *Store) insert(e schema.Entity, rec client.Record) client.Record {
	idField, _ := schema.Identity(e)
	id := s.nextID[e]
	s.nextID[e]++
	rec[idField] = json.Number(strconv.FormatInt(id, 10))
	s.tables[e][id] = rec
	return clone(rec)
}

// Update replaces the editable attributes of a record of e.
func (s *Store) Update(e schema.Entity, id int64, body map[string]any) (client.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tables[e][id]
	if !ok {
		return nil, detailf(common.ErrorNotFound, "%s not found", title(e))
	}
	rec, err := s.normalize(e, body, prev)
	if err != nil {
		return nil, err
	}
	for k, v := range prev {
		if _, editable := schema.FieldByWire(e, k); !editable {
			rec[k] = v
		}
	}
	s.tables[e][id] = rec
	return clone(rec), nil
}

// Delete removes a record of e. Records still referenced elsewhere are kept
// and a conflict is reported; readers with active subscriptions are the
// common case.
func (s *Store) Delete(e schema.Entity, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tables[e][id]
	if !ok {
		return detailf(common.ErrorNotFound, "%s not found", title(e))
	}

	switch e {
	case schema.Reader:
		for _, sub := range s.tables[schema.Subscription] {
			if sub.Text("reader_id") == strconv.FormatInt(id, 10) && s.active(sub) {
				return detailf(common.ErrorConflict, "Reader has active subscriptions")
			}
		}
	case schema.Subscription:
		if s.active(rec) {
			s.restock(rec)
		}
	default:
		if by, used := s.referencedBy(e, id); used {
			return detailf(common.ErrorConflict, "%s is still referenced by %s", title(e), by.Collection())
		}
	}

	delete(s.tables[e], id)
	return nil
}

// active reports whether a subscription has not reached its return date.
func (s *Store) active(sub client.Record) bool {
	due := strings.TrimSpace(sub.Text("return_date"))
	return due == "" || due >= s.today()
}

// checkOut takes one copy of the subscribed book out of stock.
func (s *Store) checkOut(sub client.Record) error {
	bookID, _ := sub.Int("book_id")
	book := s.tables[schema.Book][bookID]
	qty, _ := book.Int("quantity")
	if book == nil || qty <= 0 {
		return detailf(common.ErrorIncorrectInput, "Book not available")
	}
	book["quantity"] = json.Number(strconv.FormatInt(qty-1, 10))
	return nil
}

func (s *Store) restock(sub client.Record) {
	bookID, _ := sub.Int("book_id")
	if book, ok := s.tables[schema.Book][bookID]; ok {
		qty, _ := book.Int("quantity")
		book["quantity"] = json.Number(strconv.FormatInt(qty+1, 10))
	}
}

func (s *Store) referencedBy(e schema.Entity, id int64) (schema.Entity, bool) {
	idField, _ := schema.Identity(e)
	want := strconv.FormatInt(id, 10)
	for _, other := range schema.All() {
		if _, has := schema.FieldByWire(other, idField); !has || other == e {
			continue
		}
		for _, rec := range s.tables[other] {
			if rec.Text(idField) == want {
				return other, true
			}
		}
	}
	return "", false
}

func sortable(e schema.Entity, field string) bool {
	for _, f := range schema.SortableFields(e) {
		if f == field {
			return true
		}
	}
	return false
}

func matchesSearch(e schema.Entity, rec client.Record, term string) bool {
	for _, f := range schema.FieldsFor(e) {
		if f.Kind != schema.KindText && f.Kind != schema.KindLongText {
			continue
		}
		if strings.Contains(strings.ToLower(rec.Text(f.Wire)), term) {
			return true
		}
	}
	return false
}

func matchesFilters(rec client.Record, filters map[string]string) bool {
	for k, v := range filters {
		if !strings.EqualFold(rec.Text(k), v) {
			return false
		}
	}
	return true
}

// compare orders numbers numerically and everything else as case-folded
// text. Blank values sort last.
func compare(a, b any) int {
	ta, tb := schema.TextOf(a), schema.TextOf(b)
	switch {
	case ta == "" && tb == "":
		return 0
	case ta == "":
		return 1
	case tb == "":
		return -1
	}
	fa, okA := schema.FloatOf(a)
	fb, okB := schema.FloatOf(b)
	if okA && okB {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(ta), strings.ToLower(tb))
}

func window(rows []client.Record, skip, limit int) []client.Record {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, maxLimit)
	if skip < 0 || skip >= len(rows) {
		return []client.Record{}
	}
	return rows[skip:min(skip+limit, len(rows))]
}

func clone(rec client.Record) client.Record {
	out := make(client.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
