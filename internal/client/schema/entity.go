// Package schema is the field-schema registry of the record store: the closed
// set of entity kinds, their editable fields, and the identifier/display
// mapping used wherever a record has to be named or addressed.
//
// Every lookup is keyed by Entity and total over All(), so callers never
// need to handle a "missing schema" case for a parsed entity.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Entity is one of the record-store collections.
type Entity string

const (
	Library      Entity = "library"
	Topic        Entity = "topic"
	Author       Entity = "author"
	Book         Entity = "book"
	Reader       Entity = "reader"
	Subscription Entity = "subscription"
)

var ErrUnknownEntity = errors.New("unknown entity")

var entities = []Entity{Library, Topic, Author, Book, Reader, Subscription}

var collections = map[Entity]string{
	Library:      "libraries",
	Topic:        "topics",
	Author:       "authors",
	Book:         "books",
	Reader:       "readers",
	Subscription: "subscriptions",
}

var labels = map[Entity]string{
	Library:      "Libraries",
	Topic:        "Topics",
	Author:       "Authors",
	Book:         "Books",
	Reader:       "Readers",
	Subscription: "Subscriptions",
}

// All returns the entities in menu order.
func All() []Entity {
	out := make([]Entity, len(entities))
	copy(out, entities)
	return out
}

// Collection is the URL path segment, e.g. "libraries".
func (e Entity) Collection() string { return collections[e] }

// Label is the human name of the collection.
func (e Entity) Label() string { return labels[e] }

func (e Entity) String() string { return string(e) }

// Valid reports whether e is one of All().
func (e Entity) Valid() bool {
	_, ok := collections[e]
	return ok
}

// Parse accepts either the singular name ("book") or the collection name
// ("books"), case-insensitively.
func Parse(name string) (Entity, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, e := range entities {
		if n == string(e) || n == collections[e] {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntity, name)
}
