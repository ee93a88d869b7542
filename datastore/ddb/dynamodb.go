/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/checkstore/errors"
	"github.com/suparena/checkstore/registry"
	"github.com/suparena/checkstore/storagemodels"
)

// API is the subset of the DynamoDB client used by the datastore.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

// ClientOptions configures the DynamoDB client.
type ClientOptions struct {
	AccessKey string
	SecretKey string
	Region    string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

// DynamodbDataStore implements datastore.DataStore on a single DynamoDB table.
type DynamodbDataStore struct {
	client    API
	tableName string
	gsi       GSIConfig
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used
// when both keys are set, the default credential chain otherwise.
func NewDynamoDBClient(ctx context.Context, opts ClientOptions) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

// NewDynamodbDataStore constructs a DynamodbDataStore on the given table.
func NewDynamodbDataStore(ctx context.Context, opts ClientOptions, tableName string, storeOpts ...Option) (*DynamodbDataStore, error) {
	if tableName == "" {
		return nil, fmt.Errorf("table name is required")
	}
	client, err := NewDynamoDBClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	d := NewWithClient(client, tableName, storeOpts...)
	if err := d.gsi.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client API, tableName string, opts ...Option) *DynamodbDataStore {
	d := &DynamodbDataStore{
		client:    client,
		tableName: tableName,
		gsi:       DefaultGSIConfig,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FindOne retrieves a single record by id.
func (d *DynamodbDataStore) FindOne(ctx context.Context, model *registry.Model, id string) (storagemodels.Record, error) {
	key, err := primaryKey(model, id)
	if err != nil {
		return nil, fmt.Errorf("failed to build key: %w", err)
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, errors.NewNotFoundError(model.Identity, id)
	}
	return d.recordFromItem(model, out.Item)
}

// Insert stores a new record, failing if its key is taken.
func (d *DynamodbDataStore) Insert(ctx context.Context, model *registry.Model, record storagemodels.Record) error {
	id := record.ID()
	if id == "" {
		return errors.NewValidationError("id", "record has no id")
	}
	item, err := d.itemFromRecord(model, record)
	if err != nil {
		return err
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:                &d.tableName,
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": "PK"},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return errors.NewAlreadyExistsError(model.Identity, id)
		}
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// Update sets the given attributes on an existing record and returns the result.
func (d *DynamodbDataStore) Update(ctx context.Context, model *registry.Model, id string, fields storagemodels.Fields) (storagemodels.Record, error) {
	if len(fields) == 0 {
		return d.FindOne(ctx, model, id)
	}
	indexMap, err := indexMapFor(model)
	if err != nil {
		return nil, err
	}
	for name := range fields {
		if isKeyAttribute(indexMap, name) {
			return nil, errors.NewValidationError(name, "is a key attribute")
		}
	}

	key, err := primaryKey(model, id)
	if err != nil {
		return nil, fmt.Errorf("failed to build key: %w", err)
	}
	updateExpr, exprAttrNames, exprAttrValues, err := buildUpdateExpression(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}
	exprAttrNames["#pk"] = "PK"
	exprAttrNames["#et"] = EntityTypeAttribute
	exprAttrValues[":et"] = &types.AttributeValueMemberS{Value: model.Identity}

	out, err := d.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:                           &d.tableName,
		Key:                                 key,
		UpdateExpression:                    &updateExpr,
		ExpressionAttributeNames:            exprAttrNames,
		ExpressionAttributeValues:           exprAttrValues,
		ConditionExpression:                 aws.String(ownedCondition),
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		if cerr := conditionError("Update", model, id, err); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("UpdateItem failed: %w", err)
	}
	return d.recordFromItem(model, out.Attributes)
}

// ownedCondition holds when the item exists and was written for the model.
const ownedCondition = "attribute_exists(#pk) AND #et = :et"

// conditionError maps a failed ownedCondition check. A missing item is not
// found; an item stored under another model fails the condition.
func conditionError(op string, model *registry.Model, id string, err error) error {
	var cfe *types.ConditionalCheckFailedException
	if !stderrors.As(err, &cfe) {
		return nil
	}
	if len(cfe.Item) == 0 {
		return errors.NewNotFoundError(model.Identity, id)
	}
	owner := "unknown"
	if et, ok := cfe.Item[EntityTypeAttribute].(*types.AttributeValueMemberS); ok {
		owner = et.Value
	}
	return errors.NewConditionFailedError(op, fmt.Sprintf("key %s holds a %s, not a %s", id, owner, model.Identity))
}

// Delete removes a record by id and returns it.
func (d *DynamodbDataStore) Delete(ctx context.Context, model *registry.Model, id string) (storagemodels.Record, error) {
	key, err := primaryKey(model, id)
	if err != nil {
		return nil, fmt.Errorf("failed to build key for Delete: %w", err)
	}

	out, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:           &d.tableName,
		Key:                 key,
		ConditionExpression: aws.String(ownedCondition),
		ExpressionAttributeNames: map[string]string{
			"#pk": "PK",
			"#et": EntityTypeAttribute,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":et": &types.AttributeValueMemberS{Value: model.Identity},
		},
		ReturnValues:                        types.ReturnValueAllOld,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		if cerr := conditionError("Delete", model, id, err); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, errors.NewNotFoundError(model.Identity, id)
	}
	return d.recordFromItem(model, out.Attributes)
}

// itemFromRecord marshals a record and adds its key attributes and EntityType.
func (d *DynamodbDataStore) itemFromRecord(model *registry.Model, record storagemodels.Record) (map[string]types.AttributeValue, error) {
	indexMap, err := indexMapFor(model)
	if err != nil {
		return nil, err
	}
	for name := range record {
		if isKeyAttribute(indexMap, name) {
			return nil, errors.NewValidationError(name, "is a key attribute")
		}
	}

	item, err := attributevalue.MarshalMap(map[string]any(record))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	for k, v := range expandMacros(indexMap, record) {
		item[k] = &types.AttributeValueMemberS{Value: v}
	}
	item[EntityTypeAttribute] = &types.AttributeValueMemberS{Value: model.Identity}
	return item, nil
}

// recordFromItem unmarshals an item and strips the attributes the datastore manages.
func (d *DynamodbDataStore) recordFromItem(model *registry.Model, item map[string]types.AttributeValue) (storagemodels.Record, error) {
	indexMap, err := indexMapFor(model)
	if err != nil {
		return nil, err
	}
	var rec map[string]any
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	for name := range rec {
		if isKeyAttribute(indexMap, name) {
			delete(rec, name)
		}
	}
	return storagemodels.Record(rec), nil
}

// buildUpdateExpression transforms a map of field->value into:
//   - an "update expression" (e.g., "SET #f0 = :v0, #f1 = :v1")
//   - a corresponding map of expression attribute names
//   - a corresponding map of expression attribute values
//
// Fields are numbered in name order so the expression is deterministic.
func buildUpdateExpression(updates storagemodels.Fields) (string,
	map[string]string,
	map[string]types.AttributeValue,
	error) {

	if len(updates) == 0 {
		return "", nil, nil, errors.NewValidationError("", "no updates provided")
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	setClauses := make([]string, 0, len(updates))
	exprAttrNames := make(map[string]string, len(updates))
	exprAttrValues := make(map[string]types.AttributeValue, len(updates))

	for i, field := range fields {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)

		av, err := attributevalue.Marshal(updates[field])
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal update value for field '%s': %w", field, err)
		}

		setClauses = append(setClauses, fmt.Sprintf("%s = %s", placeholderName, placeholderValue))
		exprAttrNames[placeholderName] = field
		exprAttrValues[placeholderValue] = av
	}

	return "SET " + strings.Join(setClauses, ", "), exprAttrNames, exprAttrValues, nil
}
