// Package sqlitetest opens throwaway in-memory databases for usecase tests.
package sqlitetest

import (
	"io"
	"testing"
	"time"

	"pawn-settlement/internal/domain/loan"
	infradb "pawn-settlement/internal/infrastructure/db"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory database closed at test cleanup.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := infradb.OpenSQLite(":memory:", infradb.Options{Writer: QuietLogger(), Level: logger.Silent})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := infradb.AutoMigrate(db); err != nil {
		t.Fatalf("%v", err)
	}
	return db
}

// QuietLogger discards everything.
func QuietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SeedLoan inserts a disbursed loan without any cycle rows.
func SeedLoan(t testing.TB, db *gorm.DB, loanID string, principal int64, product loan.Product, disbursedAt time.Time) *loan.Loan {
	t.Helper()
	l := &loan.Loan{
		LoanID:         loanID,
		CustomerID:     "cccccccccccccccccccccccccccccccc",
		Principal:      principal,
		Product:        product,
		NetDisbursed:   principal,
		DisbursedAt:    disbursedAt,
		CurrentCycle:   1,
		State:          loan.StateDisbursed,
		StateUpdatedAt: disbursedAt,
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}
