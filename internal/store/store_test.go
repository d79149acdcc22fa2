package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/migrations"
)

// тесты стора ходят в настоящий sqlite во временном файле, без моков

func newCacheDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnectSQLite(context.Background(), filepath.Join(t.TempDir(), "cache.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.MigrateCache(db.DB))
	return db
}

func newSharedDB(t *testing.T) (*DB, string) {
	t.Helper()

	dir := t.TempDir()
	db, err := NewConnectSQLite(context.Background(), filepath.Join(dir, SharedDBFile), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.MigrateShared(db.DB))
	return db, dir
}

// mintToken issues a signed JWT whose exp claim lies ttl from now.
func mintToken(t *testing.T, ttl time.Duration) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}
