package stubstore

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/common"
)

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func count(n int64) json.Number {
	return json.Number(strconv.FormatInt(n, 10))
}

// DetailedBooks lists every book joined with its author, topic and library
// names.
func (s *Store) DetailedBooks() []client.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detailedBooks()
}

func (s *Store) detailedBooks() []client.Record {
	rows := make([]client.Record, 0, len(s.tables[schema.Book]))
	for _, b := range s.sorted(schema.Book) {
		row := clone(b)
		row["author_name"] = s.name(schema.Author, b, "full_name")
		row["topic_name"] = s.name(schema.Topic, b, "name")
		row["library_name"] = s.name(schema.Library, b, "name")
		rows = append(rows, row)
	}
	return rows
}

// name follows the foreign key of e in rec and returns the display attribute.
func (s *Store) name(e schema.Entity, rec client.Record, attr string) any {
	idField, _ := schema.Identity(e)
	id, ok := rec.Int(idField)
	if !ok {
		return nil
	}
	if other, ok := s.tables[e][id]; ok {
		return other[attr]
	}
	return nil
}

// sorted returns the rows of e ordered by identifier.
func (s *Store) sorted(e schema.Entity) []client.Record {
	ids := make([]int64, 0, len(s.tables[e]))
	for id := range s.tables[e] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]client.Record, len(ids))
	for i, id := range ids {
		out[i] = s.tables[e][id]
	}
	return out
}

type totals struct {
	books  int64
	copies int64
	value  decimal.Decimal
}

func (s *Store) totalsBy(key string) map[int64]*totals {
	out := map[int64]*totals{}
	for _, b := range s.tables[schema.Book] {
		id, ok := b.Int(key)
		if !ok {
			continue
		}
		t := out[id]
		if t == nil {
			t = &totals{}
			out[id] = t
		}
		qty, _ := b.Int("quantity")
		price, _ := b.Decimal("price")
		t.books++
		t.copies += qty
		t.value = t.value.Add(price.Mul(decimal.NewFromInt(qty)))
	}
	return out
}

// Report computes the named statistics report. Unknown names are reported
// as not found.
func (s *Store) Report(name string, q url.Values) ([]client.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch name {
	case "library-stats":
		return s.libraryStats(intParam(q, "min_books", 0)), nil
	case "author-stats":
		return s.authorStats(intParam(q, "min_books", 1), q.Get("country")), nil
	case "book-prices":
		return s.bookPrices(q), nil
	}
	return nil, detailf(common.ErrorNotFound, "Report not found")
}

// libraryStats lists libraries that hold at least one and at least
// minBooks titles.
func (s *Store) libraryStats(minBooks int64) []client.Record {
	byLibrary := s.totalsBy("library_id")
	rows := make([]client.Record, 0)
	for _, lib := range s.sorted(schema.Library) {
		id, _ := lib.Int("library_id")
		t := byLibrary[id]
		if t == nil || t.books < max(minBooks, 1) {
			continue
		}
		rows = append(rows, client.Record{
			"library_id":   count(id),
			"library_name": lib["name"],
			"total_books":  count(t.books),
			"total_copies": count(t.copies),
			"total_value":  money(t.value),
		})
	}
	return rows
}

func (s *Store) authorStats(minBooks int64, country string) []client.Record {
	byAuthor := s.totalsBy("author_id")
	country = strings.ToLower(strings.TrimSpace(country))
	rows := make([]client.Record, 0)
	for _, a := range s.sorted(schema.Author) {
		id, _ := a.Int("author_id")
		t := byAuthor[id]
		if t == nil {
			t = &totals{}
		}
		if t.books < minBooks {
			continue
		}
		if country != "" && !strings.Contains(strings.ToLower(a.Text("country")), country) {
			continue
		}
		rows = append(rows, client.Record{
			"author_id":    count(id),
			"author_name":  a["full_name"],
			"country":      a["country"],
			"total_books":  count(t.books),
			"total_copies": count(t.copies),
		})
	}
	return rows
}

// bookPrices lists books in the price range, most expensive first.
func (s *Store) bookPrices(q url.Values) []client.Record {
	lo, loErr := decimal.NewFromString(q.Get("min_price"))
	hi, hiErr := decimal.NewFromString(q.Get("max_price"))
	topic := q.Get("topic_id")

	type priced struct {
		row   client.Record
		price decimal.Decimal
	}
	var kept []priced
	for _, b := range s.detailedBooks() {
		price, _ := b.Decimal("price")
		if (loErr == nil && price.LessThan(lo)) || (hiErr == nil && price.GreaterThan(hi)) {
			continue
		}
		if topic != "" && b.Text("topic_id") != topic {
			continue
		}
		kept = append(kept, priced{row: b, price: price})
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].price.GreaterThan(kept[j].price) })

	rows := make([]client.Record, 0, len(kept))
	for _, k := range kept {
		qty, _ := k.row.Int("quantity")
		rows = append(rows, client.Record{
			"book_title":   k.row["title"],
			"author_name":  k.row["author_name"],
			"topic_name":   k.row["topic_name"],
			"library_name": k.row["library_name"],
			"price":        money(k.price),
			"quantity":     count(qty),
			"total_value":  money(k.price.Mul(decimal.NewFromInt(qty))),
		})
	}
	return rows
}

func intParam(q url.Values, name string, def int64) int64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(q.Get(name)), 64)
	if err != nil {
		return def
	}
	return int64(v)
}
