package reports

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// listPair loads two whole collections concurrently.
func listPair(ctx context.Context, gw client.Gateway, a, b schema.Entity) ([]client.Record, []client.Record, error) {
	var ra, rb []client.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ra, err = client.ListAll(gctx, gw, a, client.ListParams{}, client.DefaultPageSize)
		return err
	})
	g.Go(func() (err error) {
		rb, err = client.ListAll(gctx, gw, b, client.ListParams{}, client.DefaultPageSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return ra, rb, nil
}

type bookTotals struct {
	books  int64
	copies int64
	value  decimal.Decimal
}

func (t *bookTotals) add(book client.Record) {
	qty, _ := book.Int("quantity")
	price, _ := book.Decimal("price")
	t.books++
	t.copies += qty
	t.value = t.value.Add(price.Mul(decimal.NewFromInt(qty)))
}

func groupBooks(books []client.Record, key string) map[int64]*bookTotals {
	out := map[int64]*bookTotals{}
	for _, b := range books {
		id, ok := b.Int(key)
		if !ok {
			continue
		}
		t, ok := out[id]
		if !ok {
			t = &bookTotals{}
			out[id] = t
		}
		t.add(b)
	}
	return out
}

func intFilter(f *Filters, name string) int64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(f.Value(name)), 64)
	if err != nil {
		return 0
	}
	return int64(n)
}

// libraryStatsFallback aggregates books per library: one row per library.
func libraryStatsFallback(ctx context.Context, gw client.Gateway, f *Filters) ([]client.Record, error) {
	libs, books, err := listPair(ctx, gw, schema.Library, schema.Book)
	if err != nil {
		return nil, err
	}
	totals := groupBooks(books, "library_id")
	minBooks := intFilter(f, "min_books")

	rows := make([]client.Record, 0, len(libs))
	for _, lib := range libs {
		id, ok := lib.Int("library_id")
		if !ok {
			continue
		}
		t := totals[id]
		if t == nil {
			t = &bookTotals{}
		}
		if minBooks > 0 && t.books < minBooks {
			continue
		}
		rows = append(rows, client.Record{
			"library_id":   id,
			"library_name": lib.Text("name"),
			"total_books":  t.books,
			"total_copies": t.copies,
			"total_value":  money(t.value),
		})
	}
	return rows, nil
}

// authorStatsFallback aggregates books per author, filtered by minimum book
// count and a case-insensitive country substring.
func authorStatsFallback(ctx context.Context, gw client.Gateway, f *Filters) ([]client.Record, error) {
	authors, books, err := listPair(ctx, gw, schema.Author, schema.Book)
	if err != nil {
		return nil, err
	}
	totals := groupBooks(books, "author_id")
	minBooks := intFilter(f, "min_books")
	country := strings.ToLower(strings.TrimSpace(f.Value("country")))

	rows := make([]client.Record, 0, len(authors))
	for _, a := range authors {
		id, ok := a.Int("author_id")
		if !ok {
			continue
		}
		t := totals[id]
		if t == nil {
			t = &bookTotals{}
		}
		if t.books < minBooks {
			continue
		}
		if country != "" && !strings.Contains(strings.ToLower(a.Text("country")), country) {
			continue
		}
		rows = append(rows, client.Record{
			"author_id":    id,
			"author_name":  a.Text("full_name"),
			"country":      a.Text("country"),
			"total_books":  t.books,
			"total_copies": t.copies,
		})
	}
	return rows, nil
}

// bookPricesFallback filters the detailed book listing by price range and
// topic and sorts it by price, most expensive first.
func bookPricesFallback(ctx context.Context, gw client.Gateway, f *Filters) ([]client.Record, error) {
	books, err := gw.ListView(ctx, schema.Book, "detailed", client.ListParams{})
	if err != nil {
		return nil, err
	}

	lo := decimalFilter(f, "min_price", decimal.Zero)
	hi := decimalFilter(f, "max_price", decimal.NewFromInt(10000))
	topic := f.Value("topic_id")

	type priced struct {
		rec   client.Record
		price decimal.Decimal
	}
	var kept []priced
	for _, b := range books {
		price, _ := b.Decimal("price")
		if price.LessThan(lo) || price.GreaterThan(hi) {
			continue
		}
		if topic != "" && b.Text("topic_id") != topic {
			continue
		}
		kept = append(kept, priced{rec: b, price: price})
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].price.GreaterThan(kept[j].price) })

	rows := make([]client.Record, 0, len(kept))
	for _, k := range kept {
		qty, _ := k.rec.Int("quantity")
		rows = append(rows, client.Record{
			"book_title":   orDefault(k.rec.Text("title"), "Untitled"),
			"author_name":  orDefault(k.rec.Text("author_name"), "Unknown"),
			"topic_name":   orDefault(k.rec.Text("topic_name"), "No topic"),
			"library_name": orDefault(k.rec.Text("library_name"), "Unknown"),
			"price":        money(k.price),
			"quantity":     qty,
		})
	}
	return rows, nil
}

func decimalFilter(f *Filters, name string, def decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(f.Value(name)))
	if err != nil {
		return def
	}
	return d
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
