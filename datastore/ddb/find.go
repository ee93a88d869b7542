/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/checkstore/registry"
	"github.com/suparena/checkstore/storagemodels"
)

// Find queries the model's partition of GSI1 page by page, then applies the
// query's filter, order and paging to the collected records.
func (d *DynamodbDataStore) Find(ctx context.Context, model *registry.Model, query *storagemodels.Query) ([]storagemodels.Record, error) {
	indexMap, err := indexMapFor(model)
	if err != nil {
		return nil, err
	}
	partition := expandMacros(indexMap, storagemodels.Record{})[d.gsi.PartitionKeyName]
	if partition == "" {
		return nil, fmt.Errorf("index map of %s has no static %s", model.Tag, d.gsi.PartitionKeyName)
	}

	input := &sdk.QueryInput{
		TableName:              &d.tableName,
		IndexName:              &d.gsi.IndexName,
		KeyConditionExpression: aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": d.gsi.PartitionKeyName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: partition},
		},
	}

	records := []storagemodels.Record{}
	paginator := sdk.NewQueryPaginator(d.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query error: %w", err)
		}
		for _, item := range out.Items {
			rec, err := d.recordFromItem(model, item)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}

	if query == nil {
		return records, nil
	}
	return query.Apply(records), nil
}
