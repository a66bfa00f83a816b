package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go-firestore-deals/internal/database/utils"
	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/repository/filter"
	"go-firestore-deals/internal/repository/ops"
)

// MemoryClient keeps documents in process. It backs local runs (STORE_DRIVER=memory)
// and tests. Documents are stored in their json form, so models decode the same way
// they would from Firestore as long as json and firestore tags agree.
type MemoryClient struct {
	mu        sync.RWMutex
	colls     map[string]map[string]map[string]interface{}
	maxInSize int
}

var _ Client = (*MemoryClient)(nil)

func NewMemory(maxInSize int) *MemoryClient {
	if maxInSize <= 0 {
		maxInSize = 10
	}
	return &MemoryClient{
		colls:     make(map[string]map[string]map[string]interface{}),
		maxInSize: maxInSize,
	}
}

type memorySnapshot struct {
	id   string
	data map[string]interface{}
}

func (s memorySnapshot) ID() string {
	return s.id
}

func (s memorySnapshot) DataTo(v interface{}) error {
	if err := utils.DocToType(s.data, v); err != nil {
		return ierr.Decode(fmt.Errorf("doc %s: %w", s.id, err))
	}
	return nil
}

func (c *MemoryClient) MaxInSize() int {
	return c.maxInSize
}

func (c *MemoryClient) GetDoc(ctx context.Context, coll, id string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, ierr.Store(err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.colls[coll][id]
	if !ok {
		return nil, ierr.NotFound
	}
	return c.snapshot(id, doc)
}

func (c *MemoryClient) SetDoc(ctx context.Context, coll, id string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return ierr.Store(err)
	}

	doc, err := utils.ToDocument(data)
	if err != nil {
		return ierr.Store(fmt.Errorf("set %s/%s: %w", coll, id, err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.collection(coll)[id] = doc
	return nil
}

func (c *MemoryClient) SetDocs(ctx context.Context, data []DataBatch) error {
	if err := ctx.Err(); err != nil {
		return ierr.Store(err)
	}

	docs := make([]map[string]interface{}, len(data))
	for i, item := range data {
		doc, err := utils.ToDocument(item.Data)
		if err != nil {
			return ierr.Store(fmt.Errorf("set docs %s/%s: %w", item.Collection, item.ID, err))
		}
		docs[i] = doc
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range data {
		c.collection(item.Collection)[item.ID] = docs[i]
	}
	return nil
}

func (c *MemoryClient) UpdateDoc(ctx context.Context, coll, id string, updates []Update) error {
	if err := ctx.Err(); err != nil {
		return ierr.Store(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.colls[coll][id]
	if !ok {
		return fmt.Errorf("%w: update %s/%s", ierr.NotFound, coll, id)
	}

	// values are computed before touching doc so a failed update changes nothing
	values := make([]interface{}, len(updates))
	for i, u := range updates {
		var err error
		switch v := u.Value.(type) {
		case increment:
			current, _ := doc[u.Path].(float64)
			values[i] = current + float64(v.delta)
		case arrayUnion:
			values[i], err = unionOf(doc[u.Path], v.elems)
		case arrayRemove:
			values[i], err = removeFrom(doc[u.Path], v.elems)
		default:
			values[i], err = utils.Normalize(u.Value)
		}
		if err != nil {
			return ierr.Store(fmt.Errorf("update %s/%s field %s: %w", coll, id, u.Path, err))
		}
	}

	for i, u := range updates {
		doc[u.Path] = values[i]
	}
	return nil
}

func normalizeElems(elems []interface{}) ([]interface{}, error) {
	out := make([]interface{}, 0, len(elems))
	for _, e := range elems {
		v, err := utils.Normalize(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func contains(arr []interface{}, v interface{}) bool {
	for _, e := range arr {
		if reflect.DeepEqual(e, v) {
			return true
		}
	}
	return false
}

// unionOf treats a missing or non array field as empty, as Firestore does.
func unionOf(field interface{}, elems []interface{}) ([]interface{}, error) {
	current, _ := field.([]interface{})
	add, err := normalizeElems(elems)
	if err != nil {
		return nil, err
	}

	out := append(make([]interface{}, 0, len(current)+len(add)), current...)
	for _, e := range add {
		if !contains(out, e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func removeFrom(field interface{}, elems []interface{}) ([]interface{}, error) {
	current, _ := field.([]interface{})
	drop, err := normalizeElems(elems)
	if err != nil {
		return nil, err
	}

	out := make([]interface{}, 0, len(current))
	for _, e := range current {
		if !contains(drop, e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c *MemoryClient) DeleteDoc(ctx context.Context, coll, id string) error {
	if err := ctx.Err(); err != nil {
		return ierr.Store(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.colls[coll], id)
	return nil
}

func (c *MemoryClient) Query(ctx context.Context, coll string, where ...filter.Where) ([]Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, ierr.Store(err)
	}

	normalized := make([]filter.Where, 0, len(where))
	for _, w := range where {
		if w.Op == ops.In {
			if err := checkInSize(w.Value, c.maxInSize); err != nil {
				return nil, err
			}
		}
		value, err := utils.Normalize(w.Value)
		if err != nil {
			return nil, ierr.Validation("filter %s: %v", w.Path, err)
		}
		normalized = append(normalized, filter.Where{Path: w.Path, Op: w.Op, Value: value})
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.colls[coll]))
	for id := range c.colls[coll] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	snaps := []Snapshot{}
	for _, id := range ids {
		doc := c.colls[coll][id]
		matched, err := matches(id, doc, normalized)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}

		snap, err := c.snapshot(id, doc)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// snapshot copies doc so later writes never leak into a returned snapshot.
func (c *MemoryClient) snapshot(id string, doc map[string]interface{}) (Snapshot, error) {
	data, err := utils.ToDocument(doc)
	if err != nil {
		return nil, ierr.Decode(err)
	}
	return memorySnapshot{id: id, data: data}, nil
}

// collection must be called with mu held for writing.
func (c *MemoryClient) collection(coll string) map[string]map[string]interface{} {
	docs, ok := c.colls[coll]
	if !ok {
		docs = make(map[string]map[string]interface{})
		c.colls[coll] = docs
	}
	return docs
}

func matches(id string, doc map[string]interface{}, where []filter.Where) (bool, error) {
	for _, w := range where {
		var field interface{} = id
		if w.Path != filter.DocumentID {
			value, ok := doc[w.Path]
			if !ok {
				return false, nil
			}
			field = value
		}

		switch w.Op {
		case ops.Equal:
			if !reflect.DeepEqual(field, w.Value) {
				return false, nil
			}
		case ops.In:
			set, _ := w.Value.([]interface{})
			if !contains(set, field) {
				return false, nil
			}
		default:
			return false, ierr.Validation("unsupported operator %q", w.Op)
		}
	}
	return true, nil
}
