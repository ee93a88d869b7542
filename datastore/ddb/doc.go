/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

The DynamodbDataStore supports:
  - Single-table design: every model shares one table
  - Macro-based key expansion from the index map registry (e.g., "CHECK#{id}")
  - Automatic EntityType injection for polymorphic storage
  - Per-model listing through GSI1 instead of table scans
  - Conditional writes: duplicate inserts and updates of missing records fail cleanly

Key Layout:

	indexMap := map[string]string{
	    "PK":  "CHECK#{id}",     // Becomes "CHECK#c-123"
	    "SK":  "CHECK#{id}",
	    "PK1": "ENTITY#check",   // GSI1 partition: one per model
	    "SK1": "{id}",
	}

The table needs PK/SK string keys and a GSI named GSI1 on PK1/SK1.
Key attributes and EntityType are stripped from records on the way out.

For usage examples, see the integration tests.
*/
package ddb
