package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	ierr "go-firestore-deals/internal/errors"
	"go-firestore-deals/internal/repository/filter"
	"go-firestore-deals/internal/repository/ops"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string     `json:"name"`
	Count int        `json:"count"`
	Tags  []string   `json:"tags"`
	At    *time.Time `json:"at,omitempty"`
}

func TestMemoryClient_GetSetDelete(t *testing.T) {
	c := NewMemory(10)
	ctx := context.Background()

	_, err := c.GetDoc(ctx, "things", "a")
	assert.ErrorIs(t, err, ierr.NotFound)

	require.NoError(t, c.SetDoc(ctx, "things", "a", doc{Name: "apple", Count: 2, Tags: []string{"red"}}))

	snap, err := c.GetDoc(ctx, "things", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", snap.ID())

	var got doc
	require.NoError(t, snap.DataTo(&got))
	assert.Equal(t, doc{Name: "apple", Count: 2, Tags: []string{"red"}}, got)

	require.NoError(t, c.DeleteDoc(ctx, "things", "a"))
	require.NoError(t, c.DeleteDoc(ctx, "things", "a"))
	_, err = c.GetDoc(ctx, "things", "a")
	assert.ErrorIs(t, err, ierr.NotFound)
}

func TestMemoryClient_UpdateDoc(t *testing.T) {
	c := NewMemory(10)
	ctx := context.Background()
	require.NoError(t, c.SetDoc(ctx, "things", "a", doc{Name: "apple", Count: 2}))

	require.NoError(t, c.UpdateDoc(ctx, "things", "a", []Update{
		{Path: "count", Value: Increment(3)},
		{Path: "tags", Value: []string{"x", "y"}},
		{Path: "extra", Value: Increment(-1)},
	}))

	snap, err := c.GetDoc(ctx, "things", "a")
	require.NoError(t, err)
	var got doc
	require.NoError(t, snap.DataTo(&got))
	assert.Equal(t, 5, got.Count)
	assert.Equal(t, []string{"x", "y"}, got.Tags)

	err = c.UpdateDoc(ctx, "things", "missing", []Update{{Path: "count", Value: 1}})
	assert.ErrorIs(t, err, ierr.NotFound)
}

func TestMemoryClient_ArrayUnionRemove(t *testing.T) {
	c := NewMemory(10)
	ctx := context.Background()
	require.NoError(t, c.SetDoc(ctx, "things", "a", doc{Name: "apple", Tags: []string{"red"}}))

	require.NoError(t, c.UpdateDoc(ctx, "things", "a", []Update{{Path: "tags", Value: ArrayUnion("green", "red", "blue")}}))
	got := getDoc(t, c, "a")
	assert.Equal(t, []string{"red", "green", "blue"}, got.Tags)

	require.NoError(t, c.UpdateDoc(ctx, "things", "a", []Update{{Path: "tags", Value: ArrayRemove("red", "nope")}}))
	got = getDoc(t, c, "a")
	assert.Equal(t, []string{"green", "blue"}, got.Tags)

	require.NoError(t, c.SetDoc(ctx, "things", "b", doc{Name: "pear"}))
	require.NoError(t, c.UpdateDoc(ctx, "things", "b", []Update{{Path: "tags", Value: ArrayUnion("x")}}))
	assert.Equal(t, []string{"x"}, getDoc(t, c, "b").Tags)

	err := c.UpdateDoc(ctx, "things", "missing", []Update{{Path: "tags", Value: ArrayUnion("x")}})
	assert.ErrorIs(t, err, ierr.NotFound)
}

func TestMemoryClient_ConcurrentArrayUnion(t *testing.T) {
	c := NewMemory(10)
	ctx := context.Background()
	require.NoError(t, c.SetDoc(ctx, "things", "a", doc{Name: "apple"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, c.UpdateDoc(ctx, "things", "a", []Update{{Path: "tags", Value: ArrayUnion(fmt.Sprintf("t%02d", i))}}))
		}(i)
	}
	wg.Wait()

	assert.Len(t, getDoc(t, c, "a").Tags, 50)
}

func TestMemoryClient_SnapshotsAreCopies(t *testing.T) {
	c := NewMemory(10)
	ctx := context.Background()
	require.NoError(t, c.SetDoc(ctx, "things", "a", doc{Name: "apple"}))

	snap, err := c.GetDoc(ctx, "things", "a")
	require.NoError(t, err)
	require.NoError(t, c.SetDoc(ctx, "things", "a", doc{Name: "pear"}))

	var got doc
	require.NoError(t, snap.DataTo(&got))
	assert.Equal(t, "apple", got.Name)
}

func TestMemoryClient_Query(t *testing.T) {
	c := NewMemory(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, c.SetDoc(ctx, "things", fmt.Sprintf("id%d", i), doc{Name: fmt.Sprintf("n%d", i%2), Count: i}))
	}
	require.NoError(t, c.SetDocs(ctx, []DataBatch{{Collection: "other", ID: "x", Data: doc{Name: "n0"}}}))

	snaps, err := c.Query(ctx, "things", filter.Where{Path: "name", Op: ops.Equal, Value: "n0"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id0", "id2", "id4"}, ids(snaps))

	snaps, err = c.Query(ctx, "things",
		filter.Where{Path: "name", Op: ops.Equal, Value: "n0"},
		filter.Where{Path: "count", Op: ops.In, Value: []int{2, 3, 4}})
	require.NoError(t, err)
	assert.Equal(t, []string{"id2", "id4"}, ids(snaps))

	snaps, err = c.Query(ctx, "things", filter.Where{Path: filter.DocumentID, Op: ops.In, Value: []string{"id4", "id1", "nope"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"id1", "id4"}, ids(snaps))

	snaps, err = c.Query(ctx, "things", filter.Where{Path: "missing", Op: ops.Equal, Value: "x"})
	require.NoError(t, err)
	assert.Empty(t, snaps)

	snaps, err = c.Query(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestMemoryClient_InLimit(t *testing.T) {
	c := NewMemory(2)
	ctx := context.Background()

	_, err := c.Query(ctx, "things", filter.Where{Path: filter.DocumentID, Op: ops.In, Value: []string{"a", "b", "c"}})
	assert.ErrorIs(t, err, ierr.ValidationError)

	_, err = c.Query(ctx, "things", filter.Where{Path: filter.DocumentID, Op: ops.In, Value: []string{}})
	assert.ErrorIs(t, err, ierr.ValidationError)

	assert.Equal(t, 2, c.MaxInSize())
}

func TestMemoryClient_CanceledContext(t *testing.T) {
	c := NewMemory(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, c.SetDoc(ctx, "things", "a", doc{}))
	_, err := c.Query(ctx, "things")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInstrumented(t *testing.T) {
	c := Instrument(NewMemory(10))
	ctx := context.Background()

	require.NoError(t, c.SetDoc(ctx, "things", "a", doc{Name: "apple"}))
	_, err := c.GetDoc(ctx, "things", "b")
	assert.ErrorIs(t, err, ierr.NotFound)
	assert.Equal(t, 10, c.MaxInSize())
}

func getDoc(t *testing.T, c *MemoryClient, id string) doc {
	t.Helper()
	snap, err := c.GetDoc(context.Background(), "things", id)
	require.NoError(t, err)
	var got doc
	require.NoError(t, snap.DataTo(&got))
	return got
}

func ids(snaps []Snapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.ID())
	}
	return out
}
