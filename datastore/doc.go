/*
Package datastore defines the backend contract behind every model handle.

	type DataStore interface {
	    Find(ctx context.Context, model *registry.Model, query *storagemodels.Query) ([]storagemodels.Record, error)
	    FindOne(ctx context.Context, model *registry.Model, id string) (storagemodels.Record, error)
	    Insert(ctx context.Context, model *registry.Model, record storagemodels.Record) error
	    Update(ctx context.Context, model *registry.Model, id string, fields storagemodels.Fields) (storagemodels.Record, error)
	    Delete(ctx context.Context, model *registry.Model, id string) (storagemodels.Record, error)
	}

A backend stores whole records, applies criteria with the semantics of
storagemodels.Query.Apply, and reports a missing id with errors.NotFoundError
and a duplicate id with errors.AlreadyExistsError. Defaults, ids, timestamps
and associations are handled above it, by the model handle.

Implementations:
  - mock: in-memory store with error injection, for tests and the CLI's memory backend
  - sqlite: JSON documents in one SQLite table, criteria pushed down to SQL
  - ddb: DynamoDB single-table design keyed through the index map registry
*/
package datastore
