/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the DataStore interface
package mock

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/suparena/checkstore/errors"
	"github.com/suparena/checkstore/registry"
	"github.com/suparena/checkstore/storagemodels"
)

type entry struct {
	record storagemodels.Record
	seq    uint64
}

// DataStore is an in-memory datastore.DataStore. Records are copied on the
// way in and out, and Find returns them in insertion order unless sorted.
type DataStore struct {
	mu          sync.RWMutex
	data        map[registry.Tag]map[string]entry
	seq         uint64
	calls       atomic.Int64
	findError   error
	insertError error
	updateError error
	deleteError error
}

// New creates a new mock DataStore
func New() *DataStore {
	return &DataStore{
		data: make(map[registry.Tag]map[string]entry),
	}
}

// WithFindError makes Find and FindOne return an error
func (m *DataStore) WithFindError(err error) *DataStore {
	m.findError = err
	return m
}

// WithInsertError makes Insert operations return an error
func (m *DataStore) WithInsertError(err error) *DataStore {
	m.insertError = err
	return m
}

// WithUpdateError makes Update operations return an error
func (m *DataStore) WithUpdateError(err error) *DataStore {
	m.updateError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore) WithDeleteError(err error) *DataStore {
	m.deleteError = err
	return m
}

// Find returns the records of the model matching the query
func (m *DataStore) Find(ctx context.Context, model *registry.Model, query *storagemodels.Query) ([]storagemodels.Record, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.findError != nil {
		return nil, m.findError
	}

	m.mu.RLock()
	entries := make([]entry, 0, len(m.data[model.Tag]))
	for _, e := range m.data[model.Tag] {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	records := make([]storagemodels.Record, len(entries))
	for i, e := range entries {
		records[i] = e.record.Clone()
	}
	if query == nil {
		return records, nil
	}
	return query.Apply(records), nil
}

// FindOne retrieves a record by id
func (m *DataStore) FindOne(ctx context.Context, model *registry.Model, id string) (storagemodels.Record, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.findError != nil {
		return nil, m.findError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, exists := m.data[model.Tag][id]; exists {
		return e.record.Clone(), nil
	}
	return nil, errors.NewNotFoundError(model.Identity, id)
}

// Insert stores a new record
func (m *DataStore) Insert(ctx context.Context, model *registry.Model, record storagemodels.Record) error {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.insertError != nil {
		return m.insertError
	}

	id := record.ID()
	if id == "" {
		return errors.NewValidationError("id", "record has no id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	records, ok := m.data[model.Tag]
	if !ok {
		records = make(map[string]entry)
		m.data[model.Tag] = records
	}
	if _, exists := records[id]; exists {
		return errors.NewAlreadyExistsError(model.Identity, id)
	}
	m.seq++
	records[id] = entry{record: record.Clone(), seq: m.seq}
	return nil
}

// Update merges fields into an existing record
func (m *DataStore) Update(ctx context.Context, model *registry.Model, id string, fields storagemodels.Fields) (storagemodels.Record, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.updateError != nil {
		return nil, m.updateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.data[model.Tag][id]
	if !exists {
		return nil, errors.NewNotFoundError(model.Identity, id)
	}
	updated := e.record.Clone()
	for k, v := range storagemodels.Record(fields).Clone() {
		updated[k] = v
	}
	e.record = updated
	m.data[model.Tag][id] = e
	return updated.Clone(), nil
}

// Delete removes a record by id and returns it
func (m *DataStore) Delete(ctx context.Context, model *registry.Model, id string) (storagemodels.Record, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.deleteError != nil {
		return nil, m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.data[model.Tag][id]
	if !exists {
		return nil, errors.NewNotFoundError(model.Identity, id)
	}
	delete(m.data[model.Tag], id)
	return e.record, nil
}

// Helper methods for testing

// SetData replaces the records of a model (for testing)
func (m *DataStore) SetData(tag registry.Tag, records ...storagemodels.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := make(map[string]entry, len(records))
	for _, r := range records {
		m.seq++
		data[r.ID()] = entry{record: r.Clone(), seq: m.seq}
	}
	m.data[tag] = data
}

// GetData returns a copy of the records of a model keyed by id (for testing)
func (m *DataStore) GetData(tag registry.Tag) map[string]storagemodels.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]storagemodels.Record, len(m.data[tag]))
	for k, e := range m.data[tag] {
		result[k] = e.record.Clone()
	}
	return result
}

// Count returns the number of stored records of a model
func (m *DataStore) Count(tag registry.Tag) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data[tag])
}

// Calls returns how many backend operations have been invoked
func (m *DataStore) Calls() int64 {
	return m.calls.Load()
}

// Clear removes all data
func (m *DataStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[registry.Tag]map[string]entry)
}
