// Package rental implements the rental engine: create, pickup,
// process-return, extension, lifecycle aggregation and availability
// query, each as a single database transaction composing C1
// (internal/ledger), C2 (internal/txstore) and C5 (internal/eventlog).
// Supports multi-line, multi-unit rentals with tiered pricing, security
// deposits and serialized inventory.
package rental

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/internal/txn"
	"github.com/SimpleBookRental/backend/pkg/config"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

// Service implements the six rental engine operations.
type Service struct {
	txm      *txn.Manager
	ledger   domain.LedgerRepository
	txstore  domain.TransactionRepository
	events   domain.EventRepository
	inspect  domain.InspectionRepository
	items    domain.ItemRepository
	gate     *domain.CustomerGate
	locs     domain.LocationRepository
	cfg      config.EngineConfig
	log      *logger.Logger
}

// NewService wires the rental engine's dependencies. Every component is
// injected once at construction; the engine never reads package-global
// state.
func NewService(
	txm *txn.Manager,
	ledger domain.LedgerRepository,
	txstore domain.TransactionRepository,
	events domain.EventRepository,
	inspect domain.InspectionRepository,
	items domain.ItemRepository,
	gate *domain.CustomerGate,
	locs domain.LocationRepository,
	cfg config.EngineConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		txm: txm, ledger: ledger, txstore: txstore, events: events,
		inspect: inspect, items: items, gate: gate, locs: locs,
		cfg: cfg, log: log,
	}
}

// LineRequest is one requested rental line.
type LineRequest struct {
	ItemID           uuid.UUID
	Quantity         int
	UnitRate         *float64
	RentalPeriod     int
	RentalPeriodUnit domain.RentalPeriodUnit
	RentalStartDate  time.Time
	RentalEndDate    time.Time
	SerialNumbers    []string
	Discount         float64
}

// CreateRequest is the input to Create.
type CreateRequest struct {
	CustomerID      uuid.UUID
	LocationID      uuid.UUID
	TransactionDate time.Time
	Notes           string
	Lines           []LineRequest
}

// Create validates parties and availability, computes pricing,
// persists the header and lines, adjusts stock, reserves serialized
// units and appends a creation event, all within one transaction.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.TransactionHeader, []*domain.TransactionLine, error) {
	if len(req.Lines) == 0 {
		return nil, nil, domain.NewInvalidInputError("at least one rental line is required")
	}

	var header *domain.TransactionHeader
	var lines []*domain.TransactionLine

	err := s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		ok, reason, err := s.gate.Check(ctx, tx, req.CustomerID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewAppError(domain.ErrInvalidParty, reason, 400)
		}
		location, err := s.locs.GetByID(ctx, tx, req.LocationID)
		if err != nil {
			return err
		}
		if !location.IsActive {
			return domain.NewAppError(domain.ErrLocationNotActive, "location is not active", 400)
		}

		number, err := s.txstore.NextTransactionNumber(ctx, tx, domain.TxRental)
		if err != nil {
			return err
		}

		header = &domain.TransactionHeader{
			ID:                uuid.New(),
			TransactionNumber: number,
			Type:              domain.TxRental,
			Status:            domain.StatusPending,
			PaymentStatus:     domain.PaymentPending,
			CustomerID:        req.CustomerID,
			LocationID:        req.LocationID,
			TransactionDate:   req.TransactionDate,
			Notes:             req.Notes,
		}
		if header.TransactionDate.IsZero() {
			header.TransactionDate = time.Now().UTC()
		}

		lines = make([]*domain.TransactionLine, 0, len(req.Lines))
		var depositTotal float64
		for i, lr := range req.Lines {
			item, err := s.items.GetByID(ctx, tx, lr.ItemID)
			if err != nil {
				return err
			}
			if !item.IsRentable {
				return domain.NewAppError(domain.ErrItemNotRentable, fmt.Sprintf("item %s is not rentable", item.SKU), 400)
			}
			if item.RequiresSerialNumber && len(lr.SerialNumbers) > 0 {
				if len(lr.SerialNumbers) != lr.Quantity {
					return domain.NewAppError(domain.ErrSerialMismatch, "serial number count must equal quantity", 400)
				}
				seen := make(map[string]bool, len(lr.SerialNumbers))
				for _, sn := range lr.SerialNumbers {
					if seen[sn] {
						return domain.NewAppError(domain.ErrSerialMismatch, "duplicate serial number in request", 400)
					}
					seen[sn] = true
				}
			}

			stock, err := s.ledger.GetStockLevel(ctx, tx, lr.ItemID, req.LocationID)
			if err != nil {
				return err
			}
			if stock.QuantityAvailable < lr.Quantity {
				return domain.NewConflictError(domain.ErrInsufficientStock, fmt.Sprintf("only %d units available for %s", stock.QuantityAvailable, item.SKU))
			}
			committed, err := s.txstore.CountOverlappingRentalQuantity(ctx, tx, lr.ItemID, req.LocationID, lr.RentalStartDate, lr.RentalEndDate, nil)
			if err != nil {
				return err
			}
			if committed+lr.Quantity > stock.QuantityOnHand {
				return domain.NewConflictError(domain.ErrOverbooked, fmt.Sprintf("%s overbooked for the requested window", item.SKU))
			}

			durationDays := int(lr.RentalEndDate.Sub(lr.RentalStartDate).Hours() / 24)
			if durationDays <= 0 {
				durationDays = 1
			}
			periodUnit := lr.RentalPeriodUnit
			if periodUnit == "" {
				periodUnit = item.DefaultPeriodUnit
			}
			periods := domain.PeriodCount(durationDays, periodUnit)
			rate := item.ResolveRate(periods, lr.UnitRate)
			grossLineTotal := float64(lr.Quantity) * rate * float64(periods)
			lineTotal := grossLineTotal - lr.Discount
			taxAmount := lineTotal * s.cfg.DefaultTaxRate / 100

			line := &domain.TransactionLine{
				ID:                  uuid.New(),
				HeaderID:            header.ID,
				LineNumber:          i + 1,
				LineType:            "RENTAL",
				ItemID:              lr.ItemID,
				SKU:                 item.SKU,
				Quantity:            lr.Quantity,
				UnitPrice:           rate,
				DiscountAmount:      lr.Discount,
				TaxAmount:           taxAmount,
				LineTotal:           lineTotal,
				RentalStartDate:     lr.RentalStartDate,
				RentalEndDate:       lr.RentalEndDate,
				RentalPeriod:        periods,
				RentalPeriodUnit:    periodUnit,
				CurrentRentalStatus: domain.RentalPending,
				DailyRate:           rate / float64(periodUnitDays(periodUnit)),
			}
			lines = append(lines, line)

			depositTotal += item.ResolveDeposit(s.cfg.SecurityDepositPercent / 100)

			header.SubtotalAmount += grossLineTotal
			header.TaxAmount += taxAmount
			header.DiscountAmount += lr.Discount
		}
		header.TotalAmount = header.SubtotalAmount - header.DiscountAmount + header.TaxAmount
		header.DepositAmount = depositTotal

		if err := s.txstore.CreateHeader(ctx, tx, header, lines); err != nil {
			return err
		}

		for _, line := range lines {
			item, err := s.items.GetByID(ctx, tx, line.ItemID)
			if err != nil {
				return err
			}
			// Reserve specific units before touching the aggregate counters:
			// a loser of the last-unit race gets INSUFFICIENT_UNITS instead
			// of AdjustStock's coarser INSUFFICIENT_STOCK.
			if item.RequiresSerialNumber {
				unitIDs, err := s.ledger.ReserveUnits(ctx, tx, line.ItemID, req.LocationID, line.Quantity, line.ID)
				if err != nil {
					return err
				}
				line.UnitIDs = unitIDs
				if err := s.txstore.UpdateLine(ctx, tx, line); err != nil {
					return err
				}
			}

			_, err = s.ledger.AdjustStock(ctx, tx, line.ItemID, req.LocationID,
				domain.StockDelta{Available: -line.Quantity, OnRent: line.Quantity},
				domain.MovementRentalOut, &header.ID, &line.ID)
			if err != nil {
				return err
			}
		}

		return s.events.Append(ctx, tx, &domain.TransactionEvent{
			ID:          uuid.New(),
			HeaderID:    header.ID,
			EventType:   domain.EventRentalCreated,
			Description: "rental created",
			Payload:     map[string]interface{}{"line_count": len(lines), "total_amount": header.TotalAmount},
			Timestamp:   time.Now().UTC(),
		})
	})
	if err != nil {
		s.log.Error("failed to create rental", zap.Error(err))
		return nil, nil, err
	}
	return header, lines, nil
}

func periodUnitDays(u domain.RentalPeriodUnit) int {
	switch u {
	case domain.PeriodWeek:
		return 7
	case domain.PeriodMonth:
		return 30
	default:
		return 1
	}
}

// Pickup transitions a PENDING rental to IN_PROGRESS, records the
// actual pickup date and appends a pickup event. Idempotent: calling
// it again on an already-picked-up header is a no-op.
func (s *Service) Pickup(ctx context.Context, headerID uuid.UUID) (*domain.TransactionHeader, error) {
	var header *domain.TransactionHeader
	err := s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		h, lines, err := s.txstore.GetHeaderWithLines(ctx, tx, headerID)
		if err != nil {
			return err
		}
		header = h
		if h.Status == domain.StatusInProgress {
			return nil
		}
		if h.Status != domain.StatusPending {
			return domain.NewAppError(domain.ErrInvalidTransition, "rental must be PENDING to pick up", 409)
		}
		h.Status = domain.StatusInProgress
		if err := s.txstore.UpdateHeaderStatus(ctx, tx, headerID, domain.StatusInProgress); err != nil {
			return err
		}
		for _, line := range lines {
			line.CurrentRentalStatus = domain.RentalInProgress
			if err := s.txstore.UpdateLine(ctx, tx, line); err != nil {
				return err
			}
		}
		now := time.Now().UTC()
		lifecycle, err := s.txstore.GetRentalLifecycle(ctx, tx, headerID)
		if err != nil {
			return err
		}
		lifecycle.ActualPickupDate = &now
		if err := s.txstore.UpsertRentalLifecycle(ctx, tx, lifecycle); err != nil {
			return err
		}
		return s.events.Append(ctx, tx, &domain.TransactionEvent{
			ID: uuid.New(), HeaderID: headerID, EventType: domain.EventRentalPickup,
			Description: "rental picked up", Timestamp: now,
		})
	})
	if err != nil {
		s.log.Error("failed to pick up rental", zap.String("header_id", headerID.String()), zap.Error(err))
		return nil, err
	}
	return header, nil
}
