/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

package checkstore

import (
	"context"
	"fmt"

	"github.com/suparena/checkstore/config"
	"github.com/suparena/checkstore/datastore"
	"github.com/suparena/checkstore/datastore/ddb"
	"github.com/suparena/checkstore/datastore/mock"
	"github.com/suparena/checkstore/datastore/sqlite"
)

// OpenDataStore builds the backend cfg selects.
func OpenDataStore(ctx context.Context, cfg config.Config) (datastore.DataStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case config.BackendMemory:
		return mock.New(), nil
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case config.BackendDynamoDB:
		store, err := ddb.NewDynamodbDataStore(ctx, ddb.ClientOptions{
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
			Region:    cfg.AWSRegion,
			Endpoint:  cfg.DDBEndpoint,
		}, cfg.DDBTable)
		if err != nil {
			return nil, fmt.Errorf("open dynamodb store: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Open builds the configured backend and binds every model to it.
func Open(ctx context.Context, cfg config.Config) (*Storage, error) {
	ds, err := OpenDataStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewStorageWith(ds), nil
}

// Close releases the backends bound to s that hold connections.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[datastore.DataStore]bool)
	var firstErr error
	for _, ds := range s.stores {
		if seen[ds] {
			continue
		}
		seen[ds] = true
		if c, ok := ds.(datastore.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
