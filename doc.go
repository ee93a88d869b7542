/*
Package checkstore resolves model tags to model handles and dispatches CRUD
operations to the persistence backend bound to each model.

Two models exist: "user" and "check". A user owns many checks through the
check's owner attribute; populating "checks" on a user loads them, and
populating "owner" on a check replaces the stored id with the user record.

Records are plain attribute maps (storagemodels.Record). TypedCollection
decodes them into storagemodels.User and storagemodels.Check.

Basic Usage:

	// Bind every model to one backend
	storage := checkstore.NewStorageWith(mock.New())

	// Synchronous access through a model handle
	checks, _ := storage.Resolve("check")
	rec, err := checks.Create(ctx, storagemodels.Fields{"url": "https://example.com"})

	// Callback access with untyped arguments
	d := checkstore.NewDispatcher(storage)
	d.FetchOne(ctx, "check", rec.ID(), func(r storagemodels.Record, err error) {
		// r is nil when the record does not exist
	})
	d.Wait()

Absence is never an error: FetchOne, Update and Destroy deliver a nil record
when the id is unknown. Malformed arguments fail with a ValidationError and
unknown tags with an UnknownModelError, before any backend is called.
*/
package checkstore
