/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package checkstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suparena/checkstore/datastore"
	"github.com/suparena/checkstore/errors"
	"github.com/suparena/checkstore/registry"
	"github.com/suparena/checkstore/storagemodels"
)

const (
	attrID        = "id"
	attrCreatedAt = "createdAt"
	attrUpdatedAt = "updatedAt"
)

// Collection is a model handle: one model bound to the DataStore holding its
// records. A missing record is an absent result (nil, nil), never an error.
type Collection struct {
	model   *registry.Model
	storage *Storage
	store   datastore.DataStore
}

// Model returns the model this handle serves.
func (c *Collection) Model() *registry.Model {
	return c.model
}

// Find returns the records matching criteria, an empty slice when none do.
func (c *Collection) Find(ctx context.Context, criteria storagemodels.Criteria) ([]storagemodels.Record, error) {
	query, err := storagemodels.ParseCriteria(criteria)
	if err != nil {
		return nil, err
	}
	for _, p := range query.Where {
		if c.model.IsCollection(p.Field) {
			return nil, errors.NewValidationError(p.Field, "cannot filter on a collection association")
		}
	}
	return c.store.Find(ctx, c.model, query)
}

// FindOne returns the record with the given id, or nil when there is none.
func (c *Collection) FindOne(ctx context.Context, id string) (storagemodels.Record, error) {
	if id == "" {
		return nil, errors.NewValidationError(attrID, "is required")
	}
	rec, err := c.store.FindOne(ctx, c.model, id)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return rec, err
}

// FindOneAndPopulate returns the record with the named association loaded
// onto it. A collection association becomes a list of related records; a
// to-one association replaces the stored id with the related record, or nil
// when that record no longer exists.
func (c *Collection) FindOneAndPopulate(ctx context.Context, id, association string) (storagemodels.Record, error) {
	assoc, ok := c.model.Association(association)
	if !ok {
		return nil, errors.NewValidationError("association", fmt.Sprintf("%s has no association %q", c.model.Tag, association))
	}

	rec, err := c.FindOne(ctx, id)
	if err != nil || rec == nil {
		return rec, err
	}

	related, err := c.storage.Resolve(string(assoc.Model))
	if err != nil {
		return nil, err
	}

	switch assoc.Kind {
	case registry.AssociationCollection:
		children, err := related.Find(ctx, storagemodels.Criteria{assoc.Via: rec.ID()})
		if err != nil {
			return nil, err
		}
		rec[association] = children
	default:
		ref, _ := rec[association].(string)
		if ref == "" {
			rec[association] = nil
			break
		}
		parent, err := related.FindOne(ctx, ref)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			rec[association] = nil
		} else {
			rec[association] = parent
		}
	}
	return rec, nil
}

// Create stores a new record built from the model defaults overlaid with
// fields. The id is generated unless fields carries one.
func (c *Collection) Create(ctx context.Context, fields storagemodels.Fields) (storagemodels.Record, error) {
	rec := storagemodels.Record(c.model.Defaults).Clone()
	if rec == nil {
		rec = storagemodels.Record{}
	}
	for k, v := range fields {
		if err := c.checkAttribute(k, v); err != nil {
			return nil, err
		}
		rec[k] = v
	}

	if raw, supplied := rec[attrID]; supplied {
		if id, ok := raw.(string); !ok || id == "" {
			return nil, errors.NewInvalidArgumentError(attrID, "non-empty string", raw)
		}
	} else {
		rec[attrID] = uuid.NewString()
	}

	for _, attr := range c.model.Required {
		if v, ok := rec[attr]; !ok || v == nil || v == "" {
			return nil, errors.NewValidationError(attr, "is required")
		}
	}

	now := storagemodels.Timestamp(time.Now())
	rec[attrCreatedAt] = now
	rec[attrUpdatedAt] = now

	if err := c.store.Insert(ctx, c.model, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update merges fields into the record with the given id and returns the
// result, or nil when there is no such record.
func (c *Collection) Update(ctx context.Context, id string, fields storagemodels.Fields) (storagemodels.Record, error) {
	if id == "" {
		return nil, errors.NewValidationError(attrID, "is required")
	}
	changes := make(storagemodels.Fields, len(fields)+1)
	for k, v := range fields {
		if k == attrID || k == attrCreatedAt {
			return nil, errors.NewValidationError(k, "is immutable")
		}
		if err := c.checkAttribute(k, v); err != nil {
			return nil, err
		}
		changes[k] = v
	}
	changes[attrUpdatedAt] = storagemodels.Timestamp(time.Now())

	rec, err := c.store.Update(ctx, c.model, id, changes)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return rec, err
}

// Destroy removes the record with the given id and returns it, or nil when
// there was no such record.
func (c *Collection) Destroy(ctx context.Context, id string) (storagemodels.Record, error) {
	if id == "" {
		return nil, errors.NewValidationError(attrID, "is required")
	}
	rec, err := c.store.Delete(ctx, c.model, id)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return rec, err
}

func (c *Collection) checkAttribute(name string, value any) error {
	if !storagemodels.ValidField(name) {
		return errors.NewValidationError(name, "invalid attribute name")
	}
	assoc, ok := c.model.Association(name)
	if !ok {
		return nil
	}
	if assoc.Kind == registry.AssociationCollection {
		return errors.NewValidationError(name, "is a collection association and cannot be set")
	}
	if _, isID := value.(string); !isID && value != nil {
		return errors.NewInvalidArgumentError(name, "id string", value)
	}
	return nil
}
