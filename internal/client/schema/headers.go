package schema

import "strings"

var headers = map[string]string{
	"library_id":      "ID",
	"topic_id":        "Topic ID",
	"author_id":       "Author ID",
	"book_id":         "Book ID",
	"reader_id":       "Reader ID",
	"subscription_id": "Subscription ID",
	"name":            "Name",
	"address":         "Address",
	"phone":           "Phone",
	"created_at":      "Created",
	"description":     "Description",
	"full_name":       "Full name",
	"birth_year":      "Birth year",
	"country":         "Country",
	"title":           "Title",
	"publisher":       "Publisher",
	"publish_place":   "Place",
	"publish_year":    "Year",
	"quantity":        "Quantity",
	"price":           "Price",
	"reg_date":        "Registered",
	"issue_date":      "Issued",
	"return_date":     "Returned",
	"deposit":         "Deposit",
	"library_name":    "Library",
	"book_count":      "Books",
	"avg_price":       "Average price",
	"min_price":       "Min price",
	"max_price":       "Max price",
	"total_value":     "Total value",
}

// Header returns the column caption for a wire attribute. Unknown names are
// title-cased with underscores replaced by spaces.
func Header(wire string) string {
	if h, ok := headers[wire]; ok {
		return h
	}
	words := strings.Fields(strings.ReplaceAll(wire, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
