package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	ierr "doctor-reviews/internal/errors"
	"doctor-reviews/internal/repository/filter"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type snapEvent struct {
	snap *firestore.QuerySnapshot
	err  error
}

type snapCh chan snapEvent

type FirestoreClient struct {
	*firestore.Client
	writeTimeout time.Duration
}

var _ Client = FirestoreClient{}

func New(client *firestore.Client, writeTimeout time.Duration) FirestoreClient {
	if writeTimeout <= 0 {
		writeTimeout = time.Second * 120
	}

	return FirestoreClient{
		Client:       client,
		writeTimeout: writeTimeout,
	}
}

func (c FirestoreClient) NewDocID(collection string) string {
	return c.Collection(collection).NewDoc().ID
}

func (c FirestoreClient) GetDoc(ctx context.Context, collection, id string) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	docSnap, err := c.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ierr.NotFound
		}
		return nil, err
	}

	if !docSnap.Exists() {
		return nil, ierr.NotFound
	}

	return toSnapshot(docSnap), nil
}

func (c FirestoreClient) SetDoc(ctx context.Context, collection, id string, data interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	_, err := c.Collection(collection).Doc(id).Set(ctx, data)
	return err
}

func (c FirestoreClient) UpdateDoc(ctx context.Context, collection, id string, updates []Update) error {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	fsUpdates := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{Path: u.Path, Value: u.Value})
	}

	_, err := c.Collection(collection).Doc(id).Update(ctx, fsUpdates)
	if status.Code(err) == codes.NotFound {
		return ierr.NotFound
	}
	return err
}

func (c FirestoreClient) QueryDocs(ctx context.Context, q Query) ([]*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	docs, err := c.buildQuery(q).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	snaps := make([]*Snapshot, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		snaps = append(snaps, toSnapshot(doc))
	}
	return snaps, nil
}

// NotifyOnChanges listens to the query snapshots and puts the changes of the given kinds on the
// returned channel. The circuit breaker here defines an error rate tolerance cap. If the listener
// raises errors more than the cap, it delivers the last error, stops and closes the channel.
func (c FirestoreClient) NotifyOnChanges(ctx context.Context, q Query, kinds ...ChangeKind) <-chan ChangeEvent {

	ch := make(chan ChangeEvent)
	errToleranceCap := 20
	errCnt := 0

	go func() {
		defer close(ch)

		eventCh := registerEventListener(ctx, c.buildQuery(q).Snapshots(ctx))
		for event := range eventCh {
			if event.err != nil {
				// The error is not wrapped properly, so errors.Is() does not work
				if strings.Contains(event.err.Error(), "context canceled") || strings.Contains(event.err.Error(), "context deadline exceeded") {
					return
				}

				log.Error().Err(event.err).Msg("error reading events")
				errCnt++
				if errCnt < errToleranceCap {
					continue
				}
				ch <- ChangeEvent{Err: fmt.Errorf("notify on changes: %w, collection: %s", event.err, q.Collection)}
				return
			}

			for _, change := range event.snap.Changes {
				kind := toChangeKind(change.Kind)
				if !wantKind(kinds, kind) {
					continue
				}

				if change.Doc == nil || !change.Doc.Exists() {
					continue
				}

				select {
				case ch <- ChangeEvent{Kind: kind, Doc: toSnapshot(change.Doc)}:
					continue
				case <-ctx.Done():
					return
				case <-time.After(time.Minute):
					log.Error().Str("collection", q.Collection).Msg("timedout to deliver a change to the client")
				}
			}
		}
	}()

	return ch
}

// registerEventListener keeps the listener open until context is cancelled
func registerEventListener(ctx context.Context, it *firestore.QuerySnapshotIterator) <-chan snapEvent {

	threshold := 5
	retry := 0
	c := make(snapCh)
	go func() {
		defer close(c)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err == iterator.Done {
				return
			}

			select {
			case <-ctx.Done():
				return
			case c <- snapEvent{snap, err}:
				continue
			case <-time.After(time.Second * 10):
				log.Error().Msg("timedout to deliver a snapshot to the client")
				retry++
				if retry > threshold {
					return
				}
			}
		}
	}()

	return c
}

func (c FirestoreClient) buildQuery(q Query) firestore.Query {
	query := c.Collection(q.Collection).Query
	for _, w := range q.Where {
		query = query.Where(w.Path, w.Op, w.Value)
	}

	for _, o := range q.OrderBy {
		dir := firestore.Asc
		if o.Direction == filter.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(o.Path, dir)
	}

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	return query
}

func toSnapshot(doc *firestore.DocumentSnapshot) *Snapshot {
	return NewSnapshot(doc.Ref.ID, doc.DataTo)
}

func toChangeKind(kind firestore.DocumentChangeKind) ChangeKind {
	switch kind {
	case firestore.DocumentModified:
		return DocModified
	case firestore.DocumentRemoved:
		return DocRemoved
	default:
		return DocAdded
	}
}

func wantKind(kinds []ChangeKind, kind ChangeKind) bool {
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
