package database

import (
	"context"
	"fmt"
	"reflect"
	"time"

	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/repository/filter"
	"go-firestore-deals/internal/repository/ops"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreClient struct {
	*firestore.Client
	writeTimeout time.Duration
	maxInSize    int
}

var _ Client = FirestoreClient{}

func New(client *firestore.Client, writeTimeout time.Duration, maxInSize int) FirestoreClient {
	if writeTimeout <= 0 {
		writeTimeout = time.Second * 10
	}
	if maxInSize <= 0 {
		maxInSize = 10
	}
	return FirestoreClient{
		Client:       client,
		writeTimeout: writeTimeout,
		maxInSize:    maxInSize,
	}
}

type firestoreSnapshot struct {
	*firestore.DocumentSnapshot
}

func (s firestoreSnapshot) ID() string {
	return s.Ref.ID
}

func (s firestoreSnapshot) DataTo(v interface{}) error {
	if err := s.DocumentSnapshot.DataTo(v); err != nil {
		return ierr.Decode(fmt.Errorf("doc %s: %w", s.Ref.Path, err))
	}
	return nil
}

func (c FirestoreClient) MaxInSize() int {
	return c.maxInSize
}

func (c FirestoreClient) GetDoc(ctx context.Context, coll, id string) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	docSnapshot, err := c.Collection(coll).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapError(fmt.Errorf("get %s/%s: %w", coll, id, err))
	}

	if !docSnapshot.Exists() {
		return nil, ierr.NotFound
	}

	return firestoreSnapshot{docSnapshot}, nil
}

func (c FirestoreClient) SetDoc(ctx context.Context, coll, id string, data interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	if _, err := c.Collection(coll).Doc(id).Set(ctx, data); err != nil {
		return mapError(fmt.Errorf("set %s/%s: %w", coll, id, err))
	}
	return nil
}

func (c FirestoreClient) SetDocs(ctx context.Context, data []DataBatch) error {
	if len(data) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	batch := c.Client.Batch()
	for _, item := range data {
		batch.Set(c.Collection(item.Collection).Doc(item.ID), item.Data)
	}

	if _, err := batch.Commit(ctx); err != nil {
		return mapError(fmt.Errorf("set docs: %w", err))
	}
	return nil
}

func (c FirestoreClient) UpdateDoc(ctx context.Context, coll, id string, updates []Update) error {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	fsUpdates := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		value := u.Value
		switch v := value.(type) {
		case increment:
			value = firestore.Increment(v.delta)
		case arrayUnion:
			value = firestore.ArrayUnion(v.elems...)
		case arrayRemove:
			value = firestore.ArrayRemove(v.elems...)
		}
		fsUpdates = append(fsUpdates, firestore.Update{Path: u.Path, Value: value})
	}

	if _, err := c.Collection(coll).Doc(id).Update(ctx, fsUpdates); err != nil {
		return mapError(fmt.Errorf("update %s/%s: %w", coll, id, err))
	}
	return nil
}

func (c FirestoreClient) DeleteDoc(ctx context.Context, coll, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	if _, err := c.Collection(coll).Doc(id).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return mapError(fmt.Errorf("delete %s/%s: %w", coll, id, err))
	}
	return nil
}

func (c FirestoreClient) Query(ctx context.Context, coll string, where ...filter.Where) ([]Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	collRef := c.Collection(coll)
	query := collRef.Query
	for _, w := range where {
		if w.Op == ops.In {
			if err := checkInSize(w.Value, c.maxInSize); err != nil {
				return nil, err
			}
		}

		if w.Path == filter.DocumentID {
			query = query.Where(firestore.DocumentID, w.Op, docRefs(collRef, w.Value))
			continue
		}
		query = query.Where(w.Path, w.Op, w.Value)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	snaps := []Snapshot{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapError(fmt.Errorf("query %s: %w", coll, err))
		}
		snaps = append(snaps, firestoreSnapshot{doc})
	}

	return snaps, nil
}

// docRefs converts document ids into references; Firestore compares __name__ against refs.
func docRefs(coll *firestore.CollectionRef, value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return coll.Doc(v)
	case []string:
		refs := make([]*firestore.DocumentRef, 0, len(v))
		for _, id := range v {
			refs = append(refs, coll.Doc(id))
		}
		return refs
	default:
		log.Warn().Msgf("unexpected document id filter value of type %T", value)
		return value
	}
}

func checkInSize(value interface{}, max int) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return ierr.Validation("'in' filter needs a slice, got %T", value)
	}
	if rv.Len() == 0 {
		return ierr.Validation("'in' filter needs at least one value")
	}
	if rv.Len() > max {
		return ierr.Validation("'in' filter carries %d values, max is %d", rv.Len(), max)
	}
	return nil
}

func mapError(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ierr.NotFound, err.Error())
	default:
		return ierr.Store(err)
	}
}
