package mysql

import (
	"testing"
	"time"

	collateralDomain "pawn-settlement/internal/domain/collateral"
	cycleDomain "pawn-settlement/internal/domain/cycle"
	loanDomain "pawn-settlement/internal/domain/loan"
	txDomain "pawn-settlement/internal/domain/transaction"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with every settlement table migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a second pooled connection would see a different :memory: database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&loanDomain.Loan{},
		&collateralDomain.Collateral{},
		&cycleDomain.PaymentCycle{},
		&cycleDomain.PaymentPeriod{},
		&txDomain.PaymentTransaction{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeLoan(loanID, customerID string) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:         loanID,
		CustomerID:     customerID,
		Principal:      10_000_000,
		Product:        loanDomain.Installment3Period,
		AppraisalFee:   500_000,
		NetDisbursed:   9_500_000,
		DisbursedAt:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CurrentCycle:   1,
		State:          loanDomain.StateDisbursed,
		StateUpdatedAt: time.Now().UTC(),
	}
}
