package stubstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/dmitrijs2005/libadmin/internal/common"
)

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New(fixedClock)
	require.NoError(t, s.Seed())
	return s
}

func ids(t *testing.T, e schema.Entity, rows []client.Record) []int64 {
	t.Helper()
	idField, _ := schema.Identity(e)
	out := make([]int64, len(rows))
	for i, r := range rows {
		id, ok := r.Int(idField)
		require.True(t, ok)
		out[i] = id
	}
	return out
}

func TestList_WindowSearchSortFilter(t *testing.T) {
	s := seeded(t)

	rows, err := s.List(schema.Book, Query{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(t, schema.Book, rows))

	rows, err = s.List(schema.Book, Query{Skip: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(t, schema.Book, rows))

	rows, err = s.List(schema.Book, Query{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = s.List(schema.Book, Query{Search: "ANNA"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(t, schema.Book, rows))

	rows, err = s.List(schema.Book, Query{SortBy: "price"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1, 4}, ids(t, schema.Book, rows))

	rows, err = s.List(schema.Book, Query{Filters: map[string]string{"library_id": "1"}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 4}, ids(t, schema.Book, rows))

	_, err = s.List(schema.Book, Query{SortBy: "description"})
	assert.ErrorIs(t, err, common.ErrorIncorrectInput)
}

func TestList_ActiveOnly(t *testing.T) {
	s := seeded(t)

	rows, err := s.List(schema.Subscription, Query{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(t, schema.Subscription, rows), "the overdue subscription is not active")

	rows, err = s.List(schema.Subscription, Query{ActiveOnly: true, Filters: map[string]string{"reader_id": "2"}})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreate_ValidatesAgainstSchema(t *testing.T) {
	s := New(fixedClock)

	_, err := s.Create(schema.Library, map[string]any{"phone": "1"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"name", "address"}, []string{verrs[0].Field, verrs[1].Field})
	assert.ErrorIs(t, err, common.ErrorIncorrectInput)

	_, err = s.Create(schema.Author, map[string]any{"full_name": "X", "birth_year": json.Number("1200")})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Birth year must be at least 1500", verrs[0].Msg)

	_, err = s.Create(schema.Book, map[string]any{"title": "T", "library_id": 9, "topic_id": 1, "author_id": 1})
	assert.ErrorIs(t, err, common.ErrorIncorrectInput)
	assert.EqualError(t, err, "Library not found")
}

func TestCreate_Defaults(t *testing.T) {
	s := seeded(t)

	lib, err := s.Create(schema.Library, map[string]any{"name": " North ", "address": "3 Hill"})
	require.NoError(t, err)
	assert.Equal(t, "North", lib.Text("name"))
	assert.Equal(t, "3", lib.Text("library_id"))
	assert.NotEmpty(t, lib.Text("created_at"))

	book, err := s.Create(schema.Book, map[string]any{"title": "New", "library_id": 3, "topic_id": 1, "author_id": 1})
	require.NoError(t, err)
	assert.Equal(t, "1", book.Text("quantity"))
	assert.Equal(t, "0", book.Text("price"))
}

func TestSubscriptions_TrackStock(t *testing.T) {
	s := seeded(t)

	dune, err := s.Get(schema.Book, 3)
	require.NoError(t, err)
	assert.Equal(t, "0", dune.Text("quantity"), "the seeded overdue loan took the only copy")

	_, err = s.Create(schema.Subscription, map[string]any{"library_id": 1, "book_id": 3, "reader_id": 3})
	assert.EqualError(t, err, "Book not available")

	sub, err := s.Create(schema.Subscription, map[string]any{"library_id": 1, "book_id": 4, "reader_id": 3})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", sub.Text("issue_date"))
	cosmos, _ := s.Get(schema.Book, 4)
	assert.Equal(t, "2", cosmos.Text("quantity"))

	id, _ := sub.Int("subscription_id")
	require.NoError(t, s.Delete(schema.Subscription, id))
	cosmos, _ = s.Get(schema.Book, 4)
	assert.Equal(t, "3", cosmos.Text("quantity"))
}

func TestDelete_Conflicts(t *testing.T) {
	s := seeded(t)

	err := s.Delete(schema.Reader, 1)
	assert.ErrorIs(t, err, common.ErrorConflict)
	assert.EqualError(t, err, "Reader has active subscriptions")

	err = s.Delete(schema.Library, 1)
	assert.ErrorIs(t, err, common.ErrorConflict)

	require.NoError(t, s.Delete(schema.Reader, 3))
	_, err = s.Get(schema.Reader, 3)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, s.Delete(schema.Reader, 3), common.ErrorNotFound)
}

func TestUpdate_KeepsServerFields(t *testing.T) {
	s := seeded(t)
	before, _ := s.Get(schema.Library, 1)

	rec, err := s.Update(schema.Library, 1, map[string]any{"name": "Main", "address": "1 Main St.", "phone": nil})
	require.NoError(t, err)
	assert.Equal(t, "Main", rec.Text("name"))
	assert.Equal(t, "", rec.Text("phone"))
	assert.Equal(t, before.Text("created_at"), rec.Text("created_at"))
	assert.Equal(t, "1", rec.Text("library_id"))

	_, err = s.Update(schema.Library, 99, map[string]any{"name": "x", "address": "y"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestReports(t *testing.T) {
	s := seeded(t)

	rows, err := s.Report("library-stats", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// War and Peace 4-1 copies at 24.5, Dune 0 at 15.99, Cosmos 3 at 30.
	assert.Equal(t, "Central Library", rows[0].Text("library_name"))
	assert.Equal(t, "3", rows[0].Text("total_books"))
	assert.Equal(t, "6", rows[0].Text("total_copies"))
	assert.Equal(t, "163.50", rows[0].Text("total_value"))

	rows, err = s.Report("author-stats", map[string][]string{"country": {"usa"}})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = s.Report("book-prices", map[string][]string{"min_price": {"16"}, "max_price": {"25"}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "War and Peace", rows[0].Text("book_title"))
	assert.Equal(t, "Leo Tolstoy", rows[0].Text("author_name"))
	assert.Equal(t, "Anna Karenina", rows[1].Text("book_title"))

	_, err = s.Report("nope", nil)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDetailedBooks(t *testing.T) {
	s := seeded(t)

	rows := s.DetailedBooks()
	require.Len(t, rows, 4)
	assert.Equal(t, "Frank Herbert", rows[2].Text("author_name"))
	assert.Equal(t, "Fiction", rows[2].Text("topic_name"))
	assert.Equal(t, "Central Library", rows[2].Text("library_name"))
	assert.Equal(t, "1", rows[2].Text("topic_id"))
}
