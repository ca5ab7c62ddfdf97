package database

import (
	"context"

	"doctor-reviews/internal/repository/filter"
)

type ChangeKind int

const (
	DocAdded ChangeKind = iota
	DocModified
	DocRemoved
)

// Snapshot is a read copy of a single document.
type Snapshot struct {
	ID     string
	decode func(v interface{}) error
}

func NewSnapshot(id string, decode func(v interface{}) error) *Snapshot {
	return &Snapshot{ID: id, decode: decode}
}

// DataTo populates v, a pointer to a struct, with the document fields.
func (s *Snapshot) DataTo(v interface{}) error {
	return s.decode(v)
}

type ChangeEvent struct {
	Kind ChangeKind
	Doc  *Snapshot
	Err  error
}

// Update is a single named field of a partial update.
type Update struct {
	Path  string
	Value interface{}
}

type Query struct {
	Collection string
	Where      []filter.Where
	OrderBy    []filter.OrderBy
	Limit      int
}

// Client is the document store consumed by the repositories.
// GetDoc returns errors.NotFound when the document does not exist, and so
// does UpdateDoc since updates never create documents.
type Client interface {
	NewDocID(collection string) string
	GetDoc(ctx context.Context, collection, id string) (*Snapshot, error)
	SetDoc(ctx context.Context, collection, id string, data interface{}) error
	UpdateDoc(ctx context.Context, collection, id string, updates []Update) error
	QueryDocs(ctx context.Context, q Query) ([]*Snapshot, error)
	NotifyOnChanges(ctx context.Context, q Query, kinds ...ChangeKind) <-chan ChangeEvent
}
