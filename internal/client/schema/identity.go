package schema

import (
	"fmt"
	"strings"
)

type identity struct {
	id      string
	display string
}

var identities = map[Entity]identity{
	Library:      {id: "library_id", display: "name"},
	Topic:        {id: "topic_id", display: "name"},
	Author:       {id: "author_id", display: "full_name"},
	Book:         {id: "book_id", display: "title"},
	Reader:       {id: "reader_id", display: "full_name"},
	Subscription: {id: "subscription_id"},
}

// IdentityError reports a record that lacks a usable identifier.
type IdentityError struct {
	Entity Entity
	Field  string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("%s record has no %s", e.Entity, e.Field)
}

// Identity returns the identifier and display attribute names of e. The
// display field is empty for subscriptions, whose name is synthesized.
func Identity(e Entity) (idField, displayField string) {
	i := identities[e]
	return i.id, i.display
}

// Identify extracts the identifier and a human-readable name from record.
func Identify(e Entity, record map[string]any) (int64, string, error) {
	idField, displayField := Identity(e)
	if idField == "" {
		return 0, "", &IdentityError{Entity: e, Field: "identifier"}
	}

	id, ok := IntOf(record[idField])
	if !ok {
		return 0, "", &IdentityError{Entity: e, Field: idField}
	}

	if e == Subscription {
		return id, SubscriptionName(id), nil
	}

	name := strings.TrimSpace(TextOf(record[displayField]))
	if name == "" {
		name = FallbackName(id)
	}
	return id, name, nil
}

// SubscriptionName is the synthesized display name of a subscription.
func SubscriptionName(id int64) string {
	return fmt.Sprintf("subscription #%d", id)
}

// FallbackName labels a record whose display attribute is blank.
func FallbackName(id int64) string {
	return fmt.Sprintf("Record #%d", id)
}
