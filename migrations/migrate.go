// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations holds the embedded goose migrations for the two local
// SQLite databases: the cache database owned by the main app process and the
// shared app-group database visible to both the main app and the
// share-extension process.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed cache/*.sql
var cacheMigrations embed.FS

//go:embed shared/*.sql
var sharedMigrations embed.FS

// MigrateCache applies pending migrations of the local cache database.
func MigrateCache(db *sql.DB) error {
	return migrate(db, cacheMigrations, "cache")
}

// MigrateShared applies pending migrations of the shared app-group database.
func MigrateShared(db *sql.DB) error {
	return migrate(db, sharedMigrations, "shared")
}

func migrate(db *sql.DB, fsys embed.FS, dir string) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	goose.SetBaseFS(fsys)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
