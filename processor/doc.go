/*
Package processor reads index maps from OpenAPI documents and turns them into
registrations for the DynamoDB backend.

Schemas carry their key templates in the x-dynamodb-indexmap vendor
extension. The schema name selects the model unless x-checkstore-model
names it explicitly:

	components:
	  schemas:
	    Check:
	      type: object
	      x-dynamodb-indexmap:
	        PK: "CHECK#{id}"
	        SK: "CHECK#{id}"
	        PK1: "ENTITY#check"
	        SK1: "{url}"
	      properties:
	        url:
	          type: string

Register applies the parsed maps at runtime. Generate writes the equivalent
init function so a build can bake them in:

	func init() {
		registry.RegisterIndexMap(registry.TagCheck, map[string]string{
			"PK":  "CHECK#{id}",
			"PK1": "ENTITY#check",
			"SK":  "CHECK#{id}",
			"SK1": "{url}",
		})
	}
*/
package processor
