/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sync"
)

// indexMapRegistry holds the DynamoDB key templates (PK, SK, PK1, SK1) of each model.

var (
	indexMapRegistry = map[Tag]map[string]string{
		TagUser: {
			"PK":  "USER#{id}",
			"SK":  "USER#{id}",
			"PK1": "ENTITY#user",
			"SK1": "{id}",
		},
		TagCheck: {
			"PK":  "CHECK#{id}",
			"SK":  "CHECK#{id}",
			"PK1": "ENTITY#check",
			"SK1": "{id}",
		},
	}
	mu sync.RWMutex
)

// RegisterIndexMap replaces the index map of the given model.
func RegisterIndexMap(tag Tag, idxMap map[string]string) {
	cp := make(map[string]string, len(idxMap))
	for k, v := range idxMap {
		cp[k] = v
	}

	mu.Lock()
	defer mu.Unlock()
	indexMapRegistry[tag] = cp
}

// GetIndexMap retrieves a copy of the index map for the given model, if any.
func GetIndexMap(tag Tag) (map[string]string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := indexMapRegistry[tag]
	if !ok {
		return nil, false
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp, true
}
