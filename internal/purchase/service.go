// Package purchase implements the purchase & returns engine: purchase
// create-with-inventory, purchase-return validation and creation,
// inspection completion, approval/auto-approval and vendor-credit
// issuance, each as a single database transaction composing C1
// (internal/ledger), C2 (internal/txstore) and C5 (internal/eventlog).
package purchase

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

// Service implements the purchase and purchase-return operations.
type Service struct {
	txm       *txn.Manager
	ledger    domain.LedgerRepository
	txstore   domain.TransactionRepository
	events    domain.EventRepository
	inspect   domain.InspectionRepository
	items     domain.ItemRepository
	suppliers domain.SupplierRepository
	locs      domain.LocationRepository
	cfg       config.EngineConfig
	log       *logger.Logger
}

// NewService wires the purchase engine's dependencies.
func NewService(
	txm *txn.Manager,
	ledger domain.LedgerRepository,
	txstore domain.TransactionRepository,
	events domain.EventRepository,
	inspect domain.InspectionRepository,
	items domain.ItemRepository,
	suppliers domain.SupplierRepository,
	locs domain.LocationRepository,
	cfg config.EngineConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		txm: txm, ledger: ledger, txstore: txstore, events: events,
		inspect: inspect, items: items, suppliers: suppliers, locs: locs,
		cfg: cfg, log: log,
	}
}

// PurchaseLineRequest is one requested purchase line.
type PurchaseLineRequest struct {
	ItemID        uuid.UUID
	Quantity      int
	UnitCost      float64
	SerialNumbers []string
	Discount      float64
}

// CreateRequest is the input to Create.
type CreateRequest struct {
	SupplierID      uuid.UUID
	LocationID      uuid.UUID
	TransactionDate time.Time
	ReferenceNumber string
	Notes           string
	AutoComplete    bool
	Lines           []PurchaseLineRequest
}

// Create persists a purchase header and lines and, when
// AutoComplete is set, materializes inventory units for every line in
// the same transaction; a materialization failure rolls back the
// entire purchase.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.TransactionHeader, []*domain.TransactionLine, error) {
	if len(req.Lines) == 0 {
		return nil, nil, domain.NewInvalidInputError("at least one purchase line is required")
	}

	var header *domain.TransactionHeader
	var lines []*domain.TransactionLine

	err := s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := s.suppliers.GetByID(ctx, tx, req.SupplierID); err != nil {
			return err
		}
		location, err := s.locs.GetByID(ctx, tx, req.LocationID)
		if err != nil {
			return err
		}
		if !location.IsActive {
			return domain.NewAppError(domain.ErrLocationNotActive, "location is not active", 400)
		}

		number, err := s.txstore.NextTransactionNumber(ctx, tx, domain.TxPurchase)
		if err != nil {
			return err
		}

		status := domain.StatusPending
		if req.AutoComplete {
			status = domain.StatusCompleted
		}
		header = &domain.TransactionHeader{
			ID:                uuid.New(),
			TransactionNumber: number,
			Type:              domain.TxPurchase,
			Status:            status,
			PaymentStatus:     domain.PaymentPending,
			SupplierID:        req.SupplierID,
			LocationID:        req.LocationID,
			TransactionDate:   req.TransactionDate,
			Notes:             req.Notes,
		}
		if header.TransactionDate.IsZero() {
			header.TransactionDate = time.Now().UTC()
		}

		lines = make([]*domain.TransactionLine, 0, len(req.Lines))
		serialsByLine := make(map[uuid.UUID][]string, len(req.Lines))
		for i, lr := range req.Lines {
			if lr.Quantity <= 0 {
				return domain.NewInvalidInputError(fmt.Sprintf("line %d: quantity must be positive", i+1))
			}
			item, err := s.items.GetByID(ctx, tx, lr.ItemID)
			if err != nil {
				return err
			}
			if len(lr.SerialNumbers) > 0 && len(lr.SerialNumbers) != lr.Quantity {
				return domain.NewAppError(domain.ErrSerialMismatch, "serial number count must equal quantity", 400)
			}

			grossLineTotal := float64(lr.Quantity) * lr.UnitCost
			lineTotal := grossLineTotal - lr.Discount
			taxAmount := lineTotal * s.cfg.DefaultTaxRate / 100

			line := &domain.TransactionLine{
				ID:             uuid.New(),
				HeaderID:       header.ID,
				LineNumber:     i + 1,
				LineType:       "PRODUCT",
				ItemID:         lr.ItemID,
				SKU:            item.SKU,
				Quantity:       lr.Quantity,
				UnitPrice:      lr.UnitCost,
				DiscountAmount: lr.Discount,
				TaxAmount:      taxAmount,
				LineTotal:      lineTotal,
			}
			lines = append(lines, line)
			serialsByLine[line.ID] = lr.SerialNumbers

			header.SubtotalAmount += grossLineTotal
			header.TaxAmount += taxAmount
			header.DiscountAmount += lr.Discount
		}
		header.TotalAmount = header.SubtotalAmount - header.DiscountAmount + header.TaxAmount

		if err := s.txstore.CreateHeader(ctx, tx, header, lines); err != nil {
			return err
		}

		if req.AutoComplete {
			batchDate := header.TransactionDate.Format("20060102")
			ref := req.ReferenceNumber
			if ref == "" {
				ref = header.ID.String()[:8]
			}
			for _, line := range lines {
				serials := serialsByLine[line.ID]
				var batchCode string
				if len(serials) == 0 {
					batchCode = fmt.Sprintf("PO-%s-%s", ref, batchDate)
				}
				unitIDs, err := s.ledger.MaterializeUnits(ctx, tx, line.ItemID, req.LocationID, line.Quantity,
					line.UnitPrice, serials, batchCode, req.SupplierID.String(), header.ID, line.ID)
				if err != nil {
					return err
				}
				line.UnitIDs = unitIDs
				if err := s.txstore.UpdateLine(ctx, tx, line); err != nil {
					return err
				}
			}
		}

		return s.events.Append(ctx, tx, &domain.TransactionEvent{
			ID:          uuid.New(),
			HeaderID:    header.ID,
			EventType:   domain.EventPurchaseCreated,
			Description: "purchase created",
			Payload:     map[string]interface{}{"line_count": len(lines), "total_amount": header.TotalAmount, "auto_complete": req.AutoComplete},
			Timestamp:   time.Now().UTC(),
		})
	})
	if err != nil {
		s.log.Error("failed to create purchase", zap.Error(err))
		return nil, nil, err
	}
	return header, lines, nil
}
