/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package checkstore

import (
	"context"

	"github.com/suparena/checkstore/registry"
	"github.com/suparena/checkstore/storagemodels"
)

// TypedCollection provides type-safe operations over a Collection, decoding
// records into T.
type TypedCollection[T any] struct {
	c *Collection
}

// Typed wraps c so its records decode into T.
func Typed[T any](c *Collection) *TypedCollection[T] {
	return &TypedCollection[T]{c: c}
}

// GetTyped resolves tag on s and wraps the handle for T.
func GetTyped[T any](s *Storage, tag registry.Tag) (*TypedCollection[T], error) {
	c, err := s.Resolve(string(tag))
	if err != nil {
		return nil, err
	}
	return Typed[T](c), nil
}

// Users is the typed handle for user records.
func Users(s *Storage) (*TypedCollection[storagemodels.User], error) {
	return GetTyped[storagemodels.User](s, registry.TagUser)
}

// Checks is the typed handle for check records.
func Checks(s *Storage) (*TypedCollection[storagemodels.Check], error) {
	return GetTyped[storagemodels.Check](s, registry.TagCheck)
}

// Collection returns the untyped handle.
func (tc *TypedCollection[T]) Collection() *Collection {
	return tc.c
}

func (tc *TypedCollection[T]) Find(ctx context.Context, criteria storagemodels.Criteria) ([]T, error) {
	records, err := tc.c.Find(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return storagemodels.DecodeAll[T](records)
}

func (tc *TypedCollection[T]) FindOne(ctx context.Context, id string) (*T, error) {
	return decodeOne[T](tc.c.FindOne(ctx, id))
}

func (tc *TypedCollection[T]) FindOneAndPopulate(ctx context.Context, id, association string) (*T, error) {
	return decodeOne[T](tc.c.FindOneAndPopulate(ctx, id, association))
}

// Create stores entity. Zero-valued fields are left to the model defaults.
func (tc *TypedCollection[T]) Create(ctx context.Context, entity T) (*T, error) {
	fields, err := storagemodels.Encode(entity)
	if err != nil {
		return nil, err
	}
	return decodeOne[T](tc.c.Create(ctx, fields))
}

func (tc *TypedCollection[T]) Update(ctx context.Context, id string, fields storagemodels.Fields) (*T, error) {
	return decodeOne[T](tc.c.Update(ctx, id, fields))
}

func (tc *TypedCollection[T]) Destroy(ctx context.Context, id string) (*T, error) {
	return decodeOne[T](tc.c.Destroy(ctx, id))
}

func decodeOne[T any](rec storagemodels.Record, err error) (*T, error) {
	if err != nil || rec == nil {
		return nil, err
	}
	return storagemodels.Decode[T](rec)
}
