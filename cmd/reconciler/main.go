// Command reconciler runs the overdue-rental sweep on a cron schedule:
// every in-progress rental header is scanned, and any line overdue past
// its grace period is flagged RENTAL_LATE (RENTAL_LATE_PARTIAL_RETURN
// when already partially returned). Scheduling follows the same
// robfig/cron idiom used elsewhere in the stack for periodic jobs.
package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/internal/eventlog"
	"github.com/SimpleBookRental/backend/internal/inspection"
	"github.com/SimpleBookRental/backend/internal/ledger"
	"github.com/SimpleBookRental/backend/internal/masterdata"
	"github.com/SimpleBookRental/backend/internal/rental"
	"github.com/SimpleBookRental/backend/internal/txn"
	"github.com/SimpleBookRental/backend/internal/txstore"
	"github.com/SimpleBookRental/backend/pkg/config"
	"github.com/SimpleBookRental/backend/pkg/database"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.Named("reconciler")

	dbConn, err := database.NewDBConn(&cfg.Database, log.Named("database"))
	if err != nil {
		log.Fatal("failed to connect to database", err)
	}
	defer dbConn.Close()

	txm := txn.NewManager(dbConn.DB, cfg.Engine.MaxRetries, time.Duration(cfg.Engine.OperationTimeoutSeconds)*time.Second)
	ledgerRepo := ledger.NewRepository(log.Named("ledger"))
	txstoreRepo := txstore.NewRepository(log.Named("txstore"))
	eventRepo := eventlog.NewRepository(log.Named("eventlog"))
	inspectRepo := inspection.NewRepository(log.Named("inspection"))
	itemRepo := masterdata.NewItemRepository(log.Named("masterdata"))
	customerRepo := masterdata.NewCustomerRepository(log.Named("masterdata"))
	locationRepo := masterdata.NewLocationRepository(log.Named("masterdata"))
	customerGate := domain.NewCustomerGate(customerRepo)

	svc := rental.NewService(
		txm, ledgerRepo, txstoreRepo, eventRepo, inspectRepo, itemRepo,
		customerGate, locationRepo, cfg.Engine, log.Named("rental"),
	)

	sweep := func() {
		ctx := context.Background()
		headerIDs, err := txstoreRepo.ListHeaderIDsByTypeAndStatus(ctx, dbConn.DB, domain.TxRental, domain.StatusInProgress)
		if err != nil {
			log.Error("failed to list in-progress rentals", zap.Error(err))
			return
		}
		flagged, err := svc.ReconcileOverdue(ctx, headerIDs, time.Now())
		if err != nil {
			log.Error("reconciliation sweep failed", zap.Error(err))
			return
		}
		log.Info("reconciliation sweep complete", zap.Int("scanned", len(headerIDs)), zap.Int("flagged_late", flagged))
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Engine.ReconciliationCron, sweep); err != nil {
		log.Fatal("failed to register reconciliation job", err)
	}

	log.Info("reconciler starting", zap.String("schedule", cfg.Engine.ReconciliationCron))
	c.Run()
}
