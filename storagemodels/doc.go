/*
Package storagemodels defines the data structures shared by the dispatcher and
every backend.

Key Types:

Record:
An opaque entity record with a string "id":

	rec := storagemodels.Record{"id": "c-1", "url": "https://example.com"}

Criteria:
Selects records. Scalars match by equality, lists mean "in", maps hold operators:

	criteria := storagemodels.Criteria{
	    "owner":    "u-1",
	    "interval": map[string]any{">=": 30},
	    "url":      map[string]any{"startsWith": "https://"},
	    "sort":     "createdAt DESC",
	    "limit":    10,
	}

ParseCriteria turns a Criteria into a Query; Query.Apply is the reference
filter/sort/skip/limit every backend honours.

Typed models:
User and Check are the typed forms of the two models:

	check, err := storagemodels.Decode[storagemodels.Check](rec)
	fields, err := storagemodels.Encode(storagemodels.Check{URL: "https://example.com"})
*/
package storagemodels
