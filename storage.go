/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package checkstore

import (
	"fmt"
	"sync"

	"github.com/suparena/checkstore/datastore"
	"github.com/suparena/checkstore/registry"
)

// Storage binds every model to the DataStore holding its records and
// resolves model tags to model handles.
type Storage struct {
	mu     sync.RWMutex
	stores map[registry.Tag]datastore.DataStore
}

// NewStorage creates an empty Storage.
func NewStorage() *Storage {
	return &Storage{
		stores: make(map[registry.Tag]datastore.DataStore),
	}
}

// NewStorageWith binds every registered model to ds.
func NewStorageWith(ds datastore.DataStore) *Storage {
	s := NewStorage()
	s.Use(ds)
	return s
}

// Use binds every registered model to ds, replacing earlier bindings.
func (s *Storage) Use(ds datastore.DataStore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range registry.Tags() {
		s.stores[tag] = ds
	}
}

// RegisterDataStore binds a model to a DataStore. A model can be bound only once.
func (s *Storage) RegisterDataStore(tag registry.Tag, ds datastore.DataStore) error {
	if _, err := registry.Resolve(string(tag)); err != nil {
		return err
	}
	if ds == nil {
		return fmt.Errorf("datastore for %q is nil", tag)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stores[tag]; exists {
		return fmt.Errorf("datastore for %q already registered", tag)
	}
	s.stores[tag] = ds
	return nil
}

// GetDataStore retrieves the DataStore bound to a model.
func (s *Storage) GetDataStore(tag registry.Tag) (datastore.DataStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, exists := s.stores[tag]
	if !exists {
		return nil, fmt.Errorf("no datastore registered for %q", tag)
	}
	return ds, nil
}

// Resolve maps a model tag to its model handle. Unknown tags fail with an
// UnknownModelError without touching any DataStore.
func (s *Storage) Resolve(tag string) (*Collection, error) {
	model, err := registry.Resolve(tag)
	if err != nil {
		return nil, err
	}
	ds, err := s.GetDataStore(model.Tag)
	if err != nil {
		return nil, err
	}
	return &Collection{model: model, storage: s, store: ds}, nil
}
