// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-mind-keeper/internal/crypto"
	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/utils"
	"github.com/MKhiriev/go-mind-keeper/models"
)

const (
	authKey          = "shared_auth"
	deviceSecretFile = "device.secret"
	sealingSaltFile  = "device.salt"
)

type sharedAuthStore struct {
	db       *DB
	groupDir string
	keychain crypto.KeyChainService
	logger   *logger.Logger
}

// NewSharedAuthStore constructs the [SharedAuthStore] over the shared
// app-group database. The credential blob is sealed with a key derived from
// a per-install device secret kept in groupDir with 0600 permissions, so the
// blob is useless outside this install even if the database file leaks into
// a backup.
func NewSharedAuthStore(db *DB, groupDir string, keychain crypto.KeyChainService, log *logger.Logger) SharedAuthStore {
	return &sharedAuthStore{db: db, groupDir: groupDir, keychain: keychain, logger: log}
}

func (s *sharedAuthStore) Save(ctx context.Context, cred models.SharedCredential) error {
	key, err := s.sealingKey()
	if err != nil {
		return fmt.Errorf("derive sealing key: %w", err)
	}

	blob, err := s.keychain.Seal(cred, key)
	if err != nil {
		return fmt.Errorf("seal shared credential: %w", err)
	}

	query, args, err := sq.Insert("shared_kv").
		Columns("key", "payload").
		Values(authKey, blob).
		Suffix("ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return fmt.Errorf("build auth upsert: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).
			Str("func", "sharedAuthStore.Save").
			Msg("failed to persist shared credential")
		return fmt.Errorf("persist shared credential: %w", err)
	}

	return nil
}

// Get returns the stored credential, or (nil, nil) when none exists, the
// blob cannot be opened, or the access token has expired. An unreadable or
// expired credential is equivalent to no credential: the caller falls back
// to the queue instead of surfacing an auth error to the sharing user.
func (s *sharedAuthStore) Get(ctx context.Context) (*models.SharedCredential, error) {
	cred, err := s.GetRaw(ctx)
	if err != nil || cred == nil {
		return nil, err
	}
	if utils.TokenExpired(cred.AccessToken) {
		return nil, nil
	}
	return cred, nil
}

func (s *sharedAuthStore) GetRaw(ctx context.Context) (*models.SharedCredential, error) {
	query, args, err := sq.Select("payload").
		From("shared_kv").
		Where(sq.Eq{"key": authKey}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build auth select: %w", err)
	}

	var blob string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && blob == "") {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read shared credential: %w", err)
	}

	key, err := s.sealingKey()
	if err != nil {
		return nil, fmt.Errorf("derive sealing key: %w", err)
	}

	var cred models.SharedCredential
	if err = s.keychain.Open(blob, key, &cred); err != nil {
		s.logger.Warn().
			Str("func", "sharedAuthStore.GetRaw").
			Err(err).
			Msg("stored credential cannot be opened, treating as absent")
		return nil, nil
	}

	return &cred, nil
}

func (s *sharedAuthStore) Clear(ctx context.Context) error {
	query, args, err := sq.Delete("shared_kv").
		Where(sq.Eq{"key": authKey}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build auth delete: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear shared credential: %w", err)
	}
	return nil
}

// sealingKey loads (creating on first use) the device secret and salt from
// the app-group directory and derives the AES sealing key from them.
func (s *sharedAuthStore) sealingKey() ([]byte, error) {
	secret, err := s.loadOrCreate(deviceSecretFile, s.keychain.GenerateDeviceSecret)
	if err != nil {
		return nil, err
	}

	salt, err := s.loadOrCreate(sealingSaltFile, s.keychain.GenerateSealingSalt)
	if err != nil {
		return nil, err
	}

	return s.keychain.DeriveSealingKey(secret, salt), nil
}

func (s *sharedAuthStore) loadOrCreate(name string, generate func() ([]byte, error)) ([]byte, error) {
	path := filepath.Join(s.groupDir, name)

	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		return data, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	data, err = generate()
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", name, err)
	}

	if err = os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	return data, nil
}
