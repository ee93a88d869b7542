/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package sqlite provides a SQLite-backed DataStore. Records of every model
// live as JSON documents in one table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/suparena/checkstore/datastore/sqlite/migrations"
	"github.com/suparena/checkstore/errors"
	"github.com/suparena/checkstore/registry"
	"github.com/suparena/checkstore/storagemodels"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite record store at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Find returns the records of the model matching the query. Filtering,
// ordering and paging all run in SQL.
func (s *Store) Find(ctx context.Context, model *registry.Model, query *storagemodels.Query) ([]storagemodels.Record, error) {
	if query == nil {
		query = &storagemodels.Query{}
	}
	stmt, args, err := buildSelect(model.Identity, query)
	if err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite find %s: %w", model.Identity, err)
	}
	defer rows.Close()

	records := []storagemodels.Record{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("sqlite scan %s: %w", model.Identity, err)
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite iterate %s: %w", model.Identity, err)
	}
	return records, nil
}

// FindOne retrieves a record by id.
func (s *Store) FindOne(ctx context.Context, model *registry.Model, id string) (storagemodels.Record, error) {
	var data string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT data FROM records WHERE model = ? AND id = ?`,
		model.Identity, id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(model.Identity, id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite find one %s: %w", model.Identity, err)
	}
	return decodeRecord(data)
}

// Insert stores a new record.
func (s *Store) Insert(ctx context.Context, model *registry.Model, record storagemodels.Record) error {
	id := record.ID()
	if id == "" {
		return errors.NewValidationError("id", "record has no id")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", model.Identity, err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO records (model, id, data) VALUES (?, ?, ?)`,
		model.Identity, id, string(data),
	)
	if isConstraintViolation(err) {
		return errors.NewAlreadyExistsError(model.Identity, id)
	}
	if err != nil {
		return fmt.Errorf("sqlite insert %s: %w", model.Identity, err)
	}
	return nil
}

// Update merges fields into an existing record inside one transaction.
func (s *Store) Update(ctx context.Context, model *registry.Model, id string, fields storagemodels.Fields) (storagemodels.Record, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite begin update %s: %w", model.Identity, err)
	}
	defer func() { _ = tx.Rollback() }()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM records WHERE model = ? AND id = ?`,
		model.Identity, id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(model.Identity, id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite load %s: %w", model.Identity, err)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		rec[k] = v
	}
	merged, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s record: %w", model.Identity, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE records SET data = ? WHERE model = ? AND id = ?`,
		string(merged), model.Identity, id,
	); err != nil {
		return nil, fmt.Errorf("sqlite update %s: %w", model.Identity, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite commit update %s: %w", model.Identity, err)
	}
	// Round-trip so the result has the same shape a later FindOne returns.
	return decodeRecord(string(merged))
}

// Delete removes a record by id and returns it.
func (s *Store) Delete(ctx context.Context, model *registry.Model, id string) (storagemodels.Record, error) {
	var data string
	err := s.sqlDB.QueryRowContext(ctx,
		`DELETE FROM records WHERE model = ? AND id = ? RETURNING data`,
		model.Identity, id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(model.Identity, id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite delete %s: %w", model.Identity, err)
	}
	return decodeRecord(data)
}

func decodeRecord(data string) (storagemodels.Record, error) {
	var rec storagemodels.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return rec, nil
}

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if stderrors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
