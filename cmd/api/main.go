package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "pawn-settlement/internal/adapter/http"
	"pawn-settlement/internal/adapter/middleware"
	"pawn-settlement/internal/adapter/repository/mysql"
	"pawn-settlement/internal/config"
	"pawn-settlement/internal/infrastructure/cache"
	infradb "pawn-settlement/internal/infrastructure/db"
	"pawn-settlement/internal/infrastructure/logging"
	cycleuc "pawn-settlement/internal/usecase/cycle"
	"pawn-settlement/internal/usecase/ledger"
	"pawn-settlement/internal/usecase/loan"
	"pawn-settlement/internal/usecase/settlement"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.DBAutoMigrate {
		if err := infradb.AutoMigrate(db); err != nil {
			return err
		}
		log.Info("database schema migrated")
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	defer rdb.Close()

	tx := mysql.NewGormUoW(db)
	loans := mysql.NewLoanRepository(db)
	cycles := cycleuc.NewUsecase(tx, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.RequestID(), middleware.RequestLogger(log), echomw.Recover())

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log)
	httpadp.Register(e, httpadp.Handlers{
		Health:     httpadp.NewHandler(sqlDB),
		Loans:      httpadp.NewLoanHandler(loan.NewUsecase(loans, tx, log), log),
		Ledger:     httpadp.NewLedgerHandler(ledger.NewUsecase(loans, mysql.NewCycleRepository(db), mysql.NewTransactionRepository(db), cycles), log),
		Settlement: httpadp.NewSettlementHandler(settlement.NewUsecase(tx, log), log),
	}, idemp)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		log.WithFields(logrus.Fields{"addr": addr, "db_driver": cfg.DBDriver}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openDB(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	opts := infradb.Options{Writer: log, Level: logging.GormLevel(log.GetLevel())}
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return infradb.OpenSQLite(cfg.SQLitePath, opts)
	default:
		return infradb.OpenGorm(cfg.MySQLDSN(), opts)
	}
}
