package database

import (
	"context"
	"time"

	"go-firestore-deals/internal/metrics"
	"go-firestore-deals/internal/repository/filter"
)

// Instrumented records prometheus metrics around every call of the wrapped Client.
type Instrumented struct {
	Client
}

func Instrument(c Client) Instrumented {
	return Instrumented{Client: c}
}

func (i Instrumented) GetDoc(ctx context.Context, coll, id string) (snap Snapshot, err error) {
	defer func(start time.Time) { metrics.ObserveStoreOp("get", coll, start, err) }(time.Now())
	return i.Client.GetDoc(ctx, coll, id)
}

func (i Instrumented) SetDoc(ctx context.Context, coll, id string, data interface{}) (err error) {
	defer func(start time.Time) { metrics.ObserveStoreOp("set", coll, start, err) }(time.Now())
	return i.Client.SetDoc(ctx, coll, id, data)
}

func (i Instrumented) SetDocs(ctx context.Context, data []DataBatch) (err error) {
	defer func(start time.Time) { metrics.ObserveStoreOp("set_batch", "batch", start, err) }(time.Now())
	return i.Client.SetDocs(ctx, data)
}

func (i Instrumented) UpdateDoc(ctx context.Context, coll, id string, updates []Update) (err error) {
	defer func(start time.Time) { metrics.ObserveStoreOp("update", coll, start, err) }(time.Now())
	return i.Client.UpdateDoc(ctx, coll, id, updates)
}

func (i Instrumented) DeleteDoc(ctx context.Context, coll, id string) (err error) {
	defer func(start time.Time) { metrics.ObserveStoreOp("delete", coll, start, err) }(time.Now())
	return i.Client.DeleteDoc(ctx, coll, id)
}

func (i Instrumented) Query(ctx context.Context, coll string, where ...filter.Where) (snaps []Snapshot, err error) {
	defer func(start time.Time) { metrics.ObserveStoreOp("query", coll, start, err) }(time.Now())
	return i.Client.Query(ctx, coll, where...)
}
