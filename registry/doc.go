/*
Package registry resolves model tags and holds per-model storage metadata.

Model resolution:
A tag is resolved with a closed switch, so an unknown tag can never fall
through to a wrong model:

	model, err := registry.Resolve("check")
	if errors.IsUnknownModel(err) {
	    // not "user" or "check"
	}

Adding a model means one new Tag constant, one Model definition and one case
in Resolve.

Index Map Registry:
Associates each model with its DynamoDB key templates:

	registry.RegisterIndexMap(registry.TagCheck, map[string]string{
	    "PK":  "CHECK#{id}",
	    "SK":  "CHECK#{id}",
	    "PK1": "ENTITY#check",
	    "SK1": "{id}",
	})

Macros in braces are replaced with the record's attribute of the same name.
*/
package registry
