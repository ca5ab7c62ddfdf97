package memstore

import (
	"context"
	"sync"

	"doctor-reviews/internal/database"
)

type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpUpdate Op = "update"
	OpQuery  Op = "query"
)

// Faulty is a Store whose operations can be made to fail on demand.
type Faulty struct {
	*Store
	mu       sync.Mutex
	failures map[Op]error
}

var _ database.Client = (*Faulty)(nil)

func NewFaulty(s *Store) *Faulty {
	return &Faulty{Store: s, failures: make(map[Op]error)}
}

// Fail makes every later call of op return err, until Heal is called.
func (f *Faulty) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = err
}

func (f *Faulty) Heal(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, op)
}

func (f *Faulty) failure(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures[op]
}

func (f *Faulty) GetDoc(ctx context.Context, collection, id string) (*database.Snapshot, error) {
	if err := f.failure(OpGet); err != nil {
		return nil, err
	}
	return f.Store.GetDoc(ctx, collection, id)
}

func (f *Faulty) SetDoc(ctx context.Context, collection, id string, data interface{}) error {
	if err := f.failure(OpSet); err != nil {
		return err
	}
	return f.Store.SetDoc(ctx, collection, id, data)
}

func (f *Faulty) UpdateDoc(ctx context.Context, collection, id string, updates []database.Update) error {
	if err := f.failure(OpUpdate); err != nil {
		return err
	}
	return f.Store.UpdateDoc(ctx, collection, id, updates)
}

func (f *Faulty) QueryDocs(ctx context.Context, q database.Query) ([]*database.Snapshot, error) {
	if err := f.failure(OpQuery); err != nil {
		return nil, err
	}
	return f.Store.QueryDocs(ctx, q)
}
