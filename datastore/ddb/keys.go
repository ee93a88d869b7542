/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/checkstore/errors"
	"github.com/suparena/checkstore/registry"
	"github.com/suparena/checkstore/storagemodels"
)

// EntityTypeAttribute is written on every item so a table can hold several models.
const EntityTypeAttribute = "EntityType"

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// expandMacros replaces every "{attr}" in the index map templates with the
// record's attribute. Missing or non-scalar attributes expand to "".
func expandMacros(indexMap map[string]string, rec storagemodels.Record) map[string]string {
	res := make(map[string]string, len(indexMap))
	for keyName, template := range indexMap {
		res[keyName] = macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			switch v := rec[strings.Trim(macro, "{}")].(type) {
			case string:
				return v
			case bool, int, int32, int64, float32, float64:
				return fmt.Sprintf("%v", v)
			default:
				return ""
			}
		})
	}
	return res
}

func indexMapFor(model *registry.Model) (map[string]string, error) {
	indexMap, ok := registry.GetIndexMap(model.Tag)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrNoIndexMap, model.Tag)
	}
	return indexMap, nil
}

// primaryKey builds the PK/SK key of the record with the given id.
func primaryKey(model *registry.Model, id string) (map[string]types.AttributeValue, error) {
	indexMap, err := indexMapFor(model)
	if err != nil {
		return nil, err
	}
	expanded := expandMacros(indexMap, storagemodels.Record{"id": id})
	return buildKeyFromExpanded(expanded)
}

// buildKeyFromExpanded builds a DynamoDB key from the expanded index map.
// It requires non-empty values for "PK" and "SK".
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded["PK"]
	sk, okSK := expanded["SK"]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid PK or SK")
	}

	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// isKeyAttribute reports whether name is managed by the datastore rather than the record.
func isKeyAttribute(indexMap map[string]string, name string) bool {
	if name == EntityTypeAttribute {
		return true
	}
	_, ok := indexMap[name]
	return ok
}
