// Package memstore is an in-process implementation of database.Client.
// It keeps every document as the field map of its json form and reports only
// the changes made after a listener registered.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"doctor-reviews/internal/database"
	"doctor-reviews/internal/database/utils"
	ierr "doctor-reviews/internal/errors"
	"doctor-reviews/internal/repository/filter"
	"doctor-reviews/internal/repository/ops"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const listenerBuffer = 64

type document map[string]interface{}

type subscription struct {
	query database.Query
	kinds []database.ChangeKind
	ch    chan database.ChangeEvent
}

type Store struct {
	mu    sync.RWMutex
	colls map[string]map[string]document
	subs  map[*subscription]struct{}
}

var _ database.Client = (*Store)(nil)

func New() *Store {
	return &Store{
		colls: make(map[string]map[string]document),
		subs:  make(map[*subscription]struct{}),
	}
}

func (s *Store) NewDocID(collection string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

func (s *Store) GetDoc(ctx context.Context, collection, id string) (*database.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.colls[collection][id]
	if !ok {
		return nil, ierr.NotFound
	}
	return snapshot(id, doc)
}

func (s *Store) SetDoc(ctx context.Context, collection, id string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := utils.ToMap(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.colls[collection]
	if !ok {
		coll = make(map[string]document)
		s.colls[collection] = coll
	}

	kind := database.DocAdded
	if _, exists := coll[id]; exists {
		kind = database.DocModified
	}
	coll[id] = m

	s.notify(collection, id, coll[id], kind)
	return nil
}

func (s *Store) UpdateDoc(ctx context.Context, collection, id string, updates []database.Update) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	values := make([]interface{}, 0, len(updates))
	for _, u := range updates {
		v, err := utils.Normalize(u.Value)
		if err != nil {
			return err
		}
		values = append(values, v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.colls[collection][id]
	if !ok {
		return ierr.NotFound
	}

	for i, u := range updates {
		setPath(doc, u.Path, values[i])
	}

	s.notify(collection, id, doc, database.DocModified)
	return nil
}

func (s *Store) QueryDocs(ctx context.Context, q database.Query) ([]*database.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	where, err := normalizeWhere(q.Where)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		id  string
		doc document
	}

	entries := []entry{}
	for id, doc := range s.colls[q.Collection] {
		if matches(doc, where) {
			entries = append(entries, entry{id, doc})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		for _, o := range q.OrderBy {
			a, _ := getPath(entries[i].doc, o.Path)
			b, _ := getPath(entries[j].doc, o.Path)
			cmp, ok := utils.Compare(a, b)
			if !ok || cmp == 0 {
				continue
			}
			if o.Direction == filter.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return entries[i].id < entries[j].id
	})

	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[:q.Limit]
	}

	snaps := make([]*database.Snapshot, 0, len(entries))
	for _, e := range entries {
		snap, err := snapshot(e.id, e.doc)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// NotifyOnChanges delivers changes until ctx is done. A listener that falls
// more than listenerBuffer events behind loses the overflow.
func (s *Store) NotifyOnChanges(ctx context.Context, q database.Query, kinds ...database.ChangeKind) <-chan database.ChangeEvent {
	sub := &subscription{
		query: q,
		kinds: kinds,
		ch:    make(chan database.ChangeEvent, listenerBuffer),
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, sub)
		close(sub.ch)
	}()

	return sub.ch
}

// notify must be called with s.mu held for writing.
func (s *Store) notify(collection, id string, doc document, kind database.ChangeKind) {
	for sub := range s.subs {
		if sub.query.Collection != collection || !wantKind(sub.kinds, kind) {
			continue
		}

		where, err := normalizeWhere(sub.query.Where)
		if err != nil || !matches(doc, where) {
			continue
		}

		snap, err := snapshot(id, doc)
		if err != nil {
			continue
		}

		select {
		case sub.ch <- database.ChangeEvent{Kind: kind, Doc: snap}:
		default:
			log.Warn().Str("collection", collection).Str("id", id).Msg("memstore: listener is full, change dropped")
		}
	}
}

// snapshot takes a private copy of doc so later writes do not leak into it.
func snapshot(id string, doc document) (*database.Snapshot, error) {
	cp, err := utils.ToMap(doc)
	if err != nil {
		return nil, err
	}

	return database.NewSnapshot(id, func(v interface{}) error {
		return utils.MapToType(cp, v)
	}), nil
}

func normalizeWhere(where []filter.Where) ([]filter.Where, error) {
	out := make([]filter.Where, 0, len(where))
	for _, w := range where {
		v, err := utils.Normalize(w.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, filter.Where{Path: w.Path, Op: w.Op, Value: v})
	}
	return out, nil
}

func matches(doc document, where []filter.Where) bool {
	for _, w := range where {
		v, ok := getPath(doc, w.Path)
		if !ok {
			return false
		}

		cmp, comparable := utils.Compare(v, w.Value)
		var pass bool
		switch w.Op {
		case ops.Equal:
			pass = comparable && cmp == 0
		case ops.NotEqual:
			pass = !comparable || cmp != 0
		case ops.Greater:
			pass = comparable && cmp > 0
		case ops.GreaterEqual:
			pass = comparable && cmp >= 0
		case ops.Less:
			pass = comparable && cmp < 0
		case ops.LessEqual:
			pass = comparable && cmp <= 0
		}

		if !pass {
			return false
		}
	}
	return true
}

func getPath(doc map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var cur interface{} = doc
	for _, p := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = m[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func setPath(doc map[string]interface{}, path string, value interface{}) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

func wantKind(kinds []database.ChangeKind, kind database.ChangeKind) bool {
	if len(kinds) == 0 {
		return true
	}

	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
