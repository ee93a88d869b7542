/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/checkstore/registry"
	"github.com/suparena/checkstore/storagemodels"
)

// DataStore persists records of every registered model.
// Missing records are reported with errors.NotFoundError.
type DataStore interface {
	Find(ctx context.Context, model *registry.Model, query *storagemodels.Query) ([]storagemodels.Record, error)

	FindOne(ctx context.Context, model *registry.Model, id string) (storagemodels.Record, error)

	Insert(ctx context.Context, model *registry.Model, record storagemodels.Record) error

	Update(ctx context.Context, model *registry.Model, id string, fields storagemodels.Fields) (storagemodels.Record, error)

	Delete(ctx context.Context, model *registry.Model, id string) (storagemodels.Record, error)
}

// Closer is implemented by datastores holding connections.
type Closer interface {
	Close() error
}
