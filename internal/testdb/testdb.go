// Package testdb opens migrated in-memory databases for tests.
package testdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"shop-service/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresDSNEnv names the variable holding the DSN for Postgres-backed tests
const PostgresDSNEnv = "TEST_POSTGRES_DSN"

var counter atomic.Int64

// Open returns a migrated sqlite database private to the test. It is
// limited to one connection, so code under test must run its queries
// inside a transaction through the transaction handle.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, counter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Seeded returns a database holding the lookup data
func Seeded(t testing.TB) *gorm.DB {
	t.Helper()
	db := Open(t)
	require.NoError(t, database.Seed(context.Background(), db, zap.NewNop()))
	return db
}

// Postgres returns a migrated and seeded Postgres database from
// TEST_POSTGRES_DSN and skips the test when it is not set. The database is
// shared, so tests must use unique keys and clean up their own rows.
func Postgres(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresDSNEnv)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(context.Background(), db, zap.NewNop()))
	return db
}
