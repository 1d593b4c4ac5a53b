package db

import (
	"fmt"
	"time"

	"pawn-settlement/internal/domain/collateral"
	"pawn-settlement/internal/domain/cycle"
	"pawn-settlement/internal/domain/loan"
	"pawn-settlement/internal/domain/transaction"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options control the SQL logger. Writer is typically the process *logrus.Logger.
type Options struct {
	Writer logger.Writer
	Level  logger.LogLevel
}

func (o Options) gormConfig() *gorm.Config {
	if o.Writer == nil {
		return &gorm.Config{Logger: logger.Default.LogMode(o.Level)}
	}
	return &gorm.Config{
		Logger: logger.New(o.Writer, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  o.Level,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func OpenGorm(dsn string, opts Options) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), opts)
}

// OpenGormWithDialector opens any dialector with the production pool settings
// and fails fast if the database does not answer a ping.
func OpenGormWithDialector(dial gorm.Dialector, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(dial, opts.gormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSQLite is used for local runs and tests. A single connection keeps
// ":memory:" databases shared and serializes writers.
func OpenSQLite(path string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), opts.gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&loan.Loan{},
		&collateral.Collateral{},
		&cycle.PaymentCycle{},
		&cycle.PaymentPeriod{},
		&transaction.PaymentTransaction{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
