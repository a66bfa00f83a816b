package database

import (
	"context"

	"go-firestore-deals/internal/repository/filter"
)

// Snapshot is a single stored document.
type Snapshot interface {
	ID() string
	DataTo(v interface{}) error
}

// Update sets Path to Value. Value may be Increment, ArrayUnion or ArrayRemove for an
// atomic server side change.
type Update struct {
	Path  string
	Value interface{}
}

type increment struct {
	delta int64
}

// Increment is an update value that adds delta to a numeric field server side.
func Increment(delta int64) interface{} {
	return increment{delta: delta}
}

type arrayUnion struct {
	elems []interface{}
}

type arrayRemove struct {
	elems []interface{}
}

// ArrayUnion appends the elems missing from an array field, keeping its order.
func ArrayUnion(elems ...interface{}) interface{} {
	return arrayUnion{elems: elems}
}

// ArrayRemove drops every occurrence of elems from an array field.
func ArrayRemove(elems ...interface{}) interface{} {
	return arrayRemove{elems: elems}
}

type DataBatch struct {
	Collection string
	ID         string
	Data       interface{}
}

// Client is the document store the engine runs against. Backends map their own
// failures to the internal/errors taxonomy: NotFound, StoreError and DecodeError.
type Client interface {
	GetDoc(ctx context.Context, coll, id string) (Snapshot, error)
	SetDoc(ctx context.Context, coll, id string, data interface{}) error
	SetDocs(ctx context.Context, data []DataBatch) error
	UpdateDoc(ctx context.Context, coll, id string, updates []Update) error
	// DeleteDoc succeeds when the document does not exist.
	DeleteDoc(ctx context.Context, coll, id string) error
	Query(ctx context.Context, coll string, where ...filter.Where) ([]Snapshot, error)
	// MaxInSize is the largest value set an "in" filter may carry.
	MaxInSize() int
}
