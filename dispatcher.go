/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package checkstore

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/suparena/checkstore/errors"
	"github.com/suparena/checkstore/storagemodels"
)

const tracerName = "github.com/suparena/checkstore"

// Callback receives the outcome of a dispatched operation. It is called
// exactly once, with a nil result whenever err is non-nil.
type Callback[R any] func(result R, err error)

// Dispatcher exposes the CRUD operations over model tags. Arguments arrive
// untyped; each call validates them, resolves the tag and delegates to the
// model handle on its own goroutine. Validation and resolution failures never
// reach a DataStore.
//
// The Dispatcher holds no state between calls: no caching, no retries and no
// ordering between concurrent calls.
type Dispatcher struct {
	storage *Storage
	tracer  trace.Tracer

	mu       sync.Mutex
	idle     *sync.Cond
	inflight int
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTracerProvider sets the provider spans are created from. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) DispatcherOption {
	return func(d *Dispatcher) {
		d.tracer = tp.Tracer(tracerName)
	}
}

// NewDispatcher creates a Dispatcher resolving tags against storage.
func NewDispatcher(storage *Storage, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		storage: storage,
		tracer:  otel.Tracer(tracerName),
	}
	d.idle = sync.NewCond(&d.mu)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FetchMany delivers the records of tag matching criteria. A nil criteria
// matches every record.
func (d *Dispatcher) FetchMany(ctx context.Context, tag string, criteria any, cb Callback[[]storagemodels.Record]) {
	c, err := criteriaArg(criteria)
	dispatch(ctx, d, "FetchMany", tag, err, cb, func(ctx context.Context, h *Collection) ([]storagemodels.Record, error) {
		return h.Find(ctx, c)
	})
}

// FetchOne delivers the record with the given id, or nil when there is none.
func (d *Dispatcher) FetchOne(ctx context.Context, tag string, id any, cb Callback[storagemodels.Record]) {
	key, err := stringArg("id", id)
	dispatch(ctx, d, "FetchOne", tag, err, cb, func(ctx context.Context, h *Collection) (storagemodels.Record, error) {
		return h.FindOne(ctx, key)
	})
}

// FetchOneWithAssociation delivers the record with the named association
// populated.
func (d *Dispatcher) FetchOneWithAssociation(ctx context.Context, tag string, id, association any, cb Callback[storagemodels.Record]) {
	key, err := stringArg("id", id)
	var name string
	if err == nil {
		name, err = stringArg("association", association)
	}
	dispatch(ctx, d, "FetchOneWithAssociation", tag, err, cb, func(ctx context.Context, h *Collection) (storagemodels.Record, error) {
		return h.FindOneAndPopulate(ctx, key, name)
	})
}

// Create stores a new record built from fields and delivers it.
func (d *Dispatcher) Create(ctx context.Context, tag string, fields any, cb Callback[storagemodels.Record]) {
	f, err := fieldsArg(fields)
	dispatch(ctx, d, "Create", tag, err, cb, func(ctx context.Context, h *Collection) (storagemodels.Record, error) {
		return h.Create(ctx, f)
	})
}

// Update applies fields to the record with the given id and delivers the
// result, or nil when there is no such record.
func (d *Dispatcher) Update(ctx context.Context, tag string, id, fields any, cb Callback[storagemodels.Record]) {
	key, err := stringArg("id", id)
	var f storagemodels.Fields
	if err == nil {
		f, err = fieldsArg(fields)
	}
	dispatch(ctx, d, "Update", tag, err, cb, func(ctx context.Context, h *Collection) (storagemodels.Record, error) {
		return h.Update(ctx, key, f)
	})
}

// Destroy removes the record with the given id and delivers it, or nil when
// there was no such record.
func (d *Dispatcher) Destroy(ctx context.Context, tag string, id any, cb Callback[storagemodels.Record]) {
	key, err := stringArg("id", id)
	dispatch(ctx, d, "Destroy", tag, err, cb, func(ctx context.Context, h *Collection) (storagemodels.Record, error) {
		return h.Destroy(ctx, key)
	})
}

// Wait blocks until every dispatched callback has returned, including calls
// dispatched by callbacks while Wait is blocked. It must not be called from
// inside a callback.
func (d *Dispatcher) Wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.inflight > 0 {
		d.idle.Wait()
	}
}

func (d *Dispatcher) begin() {
	d.mu.Lock()
	d.inflight++
	d.mu.Unlock()
}

func (d *Dispatcher) done() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight--
	if d.inflight == 0 {
		d.idle.Broadcast()
	}
}

func dispatch[R any](ctx context.Context, d *Dispatcher, op, tag string, argErr error, cb Callback[R], run func(context.Context, *Collection) (R, error)) {
	d.begin()
	go func() {
		defer d.done()

		ctx, span := d.tracer.Start(ctx, "checkstore."+op,
			trace.WithAttributes(attribute.String("checkstore.model", tag)))
		defer span.End()

		var result R
		err := argErr
		if err == nil {
			var h *Collection
			if h, err = d.storage.Resolve(tag); err == nil {
				result, err = run(ctx, h)
			}
		}
		if err != nil {
			var zero R
			result = zero
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if cb != nil {
			cb(result, err)
		}
	}()
}

func stringArg(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errors.NewInvalidArgumentError(name, "non-empty string", v)
	}
	return s, nil
}

func criteriaArg(v any) (storagemodels.Criteria, error) {
	if v == nil {
		return storagemodels.Criteria{}, nil
	}
	m, ok := storagemodels.AsMap(v)
	if !ok {
		return nil, errors.NewInvalidArgumentError("criteria", "map", v)
	}
	return storagemodels.Criteria(m), nil
}

func fieldsArg(v any) (storagemodels.Fields, error) {
	m, ok := storagemodels.AsMap(v)
	if !ok || m == nil {
		return nil, errors.NewInvalidArgumentError("fields", "map", v)
	}
	return storagemodels.Fields(m), nil
}
