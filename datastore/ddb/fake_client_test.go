/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient is an in-memory stand-in for the DynamoDB operations the datastore issues.
type fakeClient struct {
	mu        sync.Mutex
	items     map[string]map[string]types.AttributeValue
	pageSize  int
	queries   int
	lastIndex string
}

func newFakeClient(pageSize int) *fakeClient {
	return &fakeClient{
		items:    make(map[string]map[string]types.AttributeValue),
		pageSize: pageSize,
	}
}

func stringAttr(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func itemKey(key map[string]types.AttributeValue) string {
	return stringAttr(key["PK"]) + "|" + stringAttr(key["SK"])
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

// checkOwned evaluates the "attribute_exists(#pk) AND #et = :et" condition.
func checkOwned(cond string, names map[string]string, values map[string]types.AttributeValue,
	item map[string]types.AttributeValue, exists bool, rv types.ReturnValuesOnConditionCheckFailure) error {
	if cond != "attribute_exists(#pk) AND #et = :et" {
		return nil
	}
	if exists && stringAttr(item[names["#et"]]) == stringAttr(values[":et"]) {
		return nil
	}
	cfe := &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	if exists && rv == types.ReturnValuesOnConditionCheckFailureAllOld {
		cfe.Item = copyItem(item)
	}
	return cfe
}

func (f *fakeClient) GetItem(ctx context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &sdk.GetItemOutput{Item: copyItem(f.items[itemKey(in.Key)])}, nil
}

func (f *fakeClient) PutItem(ctx context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := itemKey(in.Item)
	if _, exists := f.items[key]; exists && aws.ToString(in.ConditionExpression) == "attribute_not_exists(#pk)" {
		return nil, conditionFailed()
	}
	f.items[key] = copyItem(in.Item)
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeClient) UpdateItem(ctx context.Context, in *sdk.UpdateItemInput, _ ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := itemKey(in.Key)
	item, exists := f.items[key]
	if err := checkOwned(aws.ToString(in.ConditionExpression), in.ExpressionAttributeNames,
		in.ExpressionAttributeValues, item, exists, in.ReturnValuesOnConditionCheckFailure); err != nil {
		return nil, err
	}
	if !exists {
		item = copyItem(in.Key)
	}
	item = copyItem(item)

	expr := strings.TrimPrefix(aws.ToString(in.UpdateExpression), "SET ")
	for _, clause := range strings.Split(expr, ", ") {
		parts := strings.SplitN(clause, " = ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("fake: unsupported clause %q", clause)
		}
		item[in.ExpressionAttributeNames[parts[0]]] = in.ExpressionAttributeValues[parts[1]]
	}
	f.items[key] = item
	return &sdk.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (f *fakeClient) DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := itemKey(in.Key)
	old, exists := f.items[key]
	if err := checkOwned(aws.ToString(in.ConditionExpression), in.ExpressionAttributeNames,
		in.ExpressionAttributeValues, old, exists, in.ReturnValuesOnConditionCheckFailure); err != nil {
		return nil, err
	}
	delete(f.items, key)
	if in.ReturnValues != types.ReturnValueAllOld {
		return &sdk.DeleteItemOutput{}, nil
	}
	return &sdk.DeleteItemOutput{Attributes: old}, nil
}

// Query supports the "#pk = :pk" key condition on a GSI, sorted by SK1.
func (f *fakeClient) Query(ctx context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	f.lastIndex = aws.ToString(in.IndexName)

	attr := in.ExpressionAttributeNames["#pk"]
	want := stringAttr(in.ExpressionAttributeValues[":pk"])

	var matched []map[string]types.AttributeValue
	for _, item := range f.items {
		if stringAttr(item[attr]) == want {
			matched = append(matched, copyItem(item))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return stringAttr(matched[i]["SK1"]) < stringAttr(matched[j]["SK1"])
	})

	offset := 0
	if in.ExclusiveStartKey != nil {
		offset, _ = strconv.Atoi(stringAttr(in.ExclusiveStartKey["offset"]))
	}
	end := len(matched)
	if f.pageSize > 0 && offset+f.pageSize < end {
		end = offset + f.pageSize
	}

	out := &sdk.QueryOutput{Items: matched[offset:end]}
	if end < len(matched) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"offset": &types.AttributeValueMemberS{Value: strconv.Itoa(end)},
		}
	}
	return out, nil
}
