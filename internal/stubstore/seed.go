package stubstore

import (
	"fmt"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
)

// Seed fills the store with a small demo catalog: two libraries, a handful
// of books (one out of stock), readers and subscriptions in every status.
func (s *Store) Seed() error {
	day := func(offset int) string {
		return s.now().AddDate(0, 0, offset).Format(client.DateLayout)
	}

	steps := []struct {
		e    schema.Entity
		body map[string]any
	}{
		{schema.Library, map[string]any{"name": "Central Library", "address": "1 Main St.", "phone": "555-0100"}},
		{schema.Library, map[string]any{"name": "Riverside Branch", "address": "12 River Rd."}},
		{schema.Topic, map[string]any{"name": "Fiction", "description": "Novels and short stories"}},
		{schema.Topic, map[string]any{"name": "Science"}},
		{schema.Author, map[string]any{"full_name": "Leo Tolstoy", "birth_year": 1828, "country": "Russia"}},
		{schema.Author, map[string]any{"full_name": "Frank Herbert", "birth_year": 1920, "country": "USA"}},
		{schema.Author, map[string]any{"full_name": "Carl Sagan", "birth_year": 1934, "country": "USA"}},
		{schema.Book, map[string]any{"title": "War and Peace", "publisher": "Penguin", "publish_year": 1869, "quantity": 4, "price": 24.5, "library_id": 1, "topic_id": 1, "author_id": 1}},
		{schema.Book, map[string]any{"title": "Anna Karenina", "publish_year": 1878, "quantity": 2, "price": 18, "library_id": 2, "topic_id": 1, "author_id": 1}},
		{schema.Book, map[string]any{"title": "Dune", "publish_year": 1965, "quantity": 1, "price": 15.99, "library_id": 1, "topic_id": 1, "author_id": 2}},
		{schema.Book, map[string]any{"title": "Cosmos", "publish_year": 1980, "quantity": 3, "price": 30, "library_id": 1, "topic_id": 2, "author_id": 3}},
		{schema.Reader, map[string]any{"full_name": "Alice Smith", "phone": "555-0111"}},
		{schema.Reader, map[string]any{"full_name": "Bob Jones", "address": "7 Elm St."}},
		{schema.Reader, map[string]any{"full_name": "Carol White"}},
		{schema.Subscription, map[string]any{"library_id": 1, "book_id": 1, "reader_id": 1, "issue_date": day(-5), "return_date": day(9), "deposit": 10}},
		{schema.Subscription, map[string]any{"library_id": 1, "book_id": 3, "reader_id": 2, "issue_date": day(-30), "return_date": day(-10), "deposit": 5.5}},
		{schema.Subscription, map[string]any{"library_id": 2, "book_id": 2, "reader_id": 1, "issue_date": day(-2)}},
	}
	for i, st := range steps {
		if _, err := s.Create(st.e, st.body); err != nil {
			return fmt.Errorf("seed step %d (%s): %w", i+1, st.e, err)
		}
	}
	return nil
}
