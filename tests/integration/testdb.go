// Package integration runs the ledgers against a real PostgreSQL started with
// testcontainers. Row locks, partial unique indexes and ON CONFLICT clauses are
// only meaningful there.
package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/infrastructure/migration"
	"github.com/bizcore/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const postgresImage = "postgres:16-alpine"

// TestDB is a migrated PostgreSQL owned by one test.
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	t     *testing.T
}

// NewTestDB starts a fresh container and applies the embedded migrations.
// The pool and the container are released on test cleanup. Set
// TEST_DB_DEBUG to log every statement.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test needs docker")
	}

	ctx := context.Background()
	ready := wait.ForLog("database system is ready to accept connections").
		WithOccurrence(2).
		WithStartupTimeout(time.Minute)
	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("bizcore_test"),
		tcpostgres.WithUsername("bizcore"),
		tcpostgres.WithPassword("bizcore"),
		testcontainers.WithWaitStrategy(ready),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start postgres")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	level := "error"
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = "debug"
	}
	db, err := persistence.Open(gormpostgres.Open(dsn), persistence.Options{
		Logger:   zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)),
		LogLevel: level,
	})
	require.NoError(t, err, "open database")
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)

	migrator, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up(), "apply migrations")

	return &TestDB{DB: db.DB, SqlDB: sqlDB, t: t}
}

// Ledgers is every ledger built over one database, wired as in cmd/server.
type Ledgers struct {
	Scope        ledger.TransactionScope
	Repos        ledger.RepositorySet
	Transactions *ledger.TransactionLedger
	Commissions  *ledger.CommissionLedger
	Stock        *ledger.StockLedger
	Sales        *ledger.SaleFinalization
	Appointments *ledger.AppointmentCompletion
	Registers    *ledger.CashRegisterReconciler
}

// NewLedgers builds every ledger on top of tdb. publisher may be nil.
func (tdb *TestDB) NewLedgers(publisher shared.EventPublisher) *Ledgers {
	log := zaptest.NewLogger(tdb.t, zaptest.Level(zap.WarnLevel))
	scope := persistence.NewGormTransactionScope(tdb.DB)
	transactions := ledger.NewTransactionLedger(scope, log, nil)
	commissions := ledger.NewCommissionLedger(scope, log, nil)
	stock := ledger.NewStockLedger(scope, transactions, publisher, log, nil)
	return &Ledgers{
		Scope:        scope,
		Repos:        persistence.NewRepositorySet(tdb.DB),
		Transactions: transactions,
		Commissions:  commissions,
		Stock:        stock,
		Sales:        ledger.NewSaleFinalization(scope, stock, commissions, transactions, log),
		Appointments: ledger.NewAppointmentCompletion(scope, commissions, transactions, log),
		Registers:    ledger.NewCashRegisterReconciler(scope, log),
	}
}
