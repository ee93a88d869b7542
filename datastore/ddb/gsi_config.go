/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package ddb

import "fmt"

// GSIConfig names the global secondary index Find lists records through.
// Each model's index map must give the partition key a static value
// (ENTITY#<tag> by default), so one Query returns all records of a model.
type GSIConfig struct {
	// IndexName is the GSI name in DynamoDB (e.g., "GSI1")
	IndexName string
	// PartitionKeyName is the partition key attribute of the GSI (e.g., "PK1")
	PartitionKeyName string
	// SortKeyName is the sort key attribute of the GSI (e.g., "SK1")
	SortKeyName string
}

// DefaultGSIConfig is the listing index of the default index maps.
var DefaultGSIConfig = GSIConfig{
	IndexName:        "GSI1",
	PartitionKeyName: "PK1",
	SortKeyName:      "SK1",
}

func (g GSIConfig) validate() error {
	if g.IndexName == "" || g.PartitionKeyName == "" {
		return fmt.Errorf("GSI config needs an index name and a partition key")
	}
	return nil
}

// Option configures a DynamodbDataStore.
type Option func(*DynamodbDataStore)

// WithGSI lists records through the given index instead of DefaultGSIConfig.
func WithGSI(gsi GSIConfig) Option {
	return func(d *DynamodbDataStore) {
		d.gsi = gsi
	}
}
