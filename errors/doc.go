/*
Package errors provides semantic error types for checkstore.

Every failure a dispatcher callback can receive falls into one of three groups:

	ErrUnknownModel    the model tag does not resolve to a registered model
	ErrInvalidInput    an argument has the wrong shape (ValidationError)
	anything else      reported by the backend and passed through unchanged

Backends report missing and duplicate records with NotFoundError and
AlreadyExistsError. Model handles turn a NotFoundError into an absent result,
so callers of the dispatcher only see those through a backend they call directly.

Usage:

	dispatcher.FetchOne(ctx, "user", id, func(rec storagemodels.Record, err error) {
	    switch {
	    case errors.IsUnknownModel(err), errors.IsValidationError(err):
	        // caller bug
	    case err != nil:
	        // backend failure
	    case rec == nil:
	        // no such user
	    }
	})
*/
package errors
