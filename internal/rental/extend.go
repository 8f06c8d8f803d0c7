package rental

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
)

// ExtendRequest is the input to Extend.
type ExtendRequest struct {
	HeaderID   uuid.UUID
	NewEndDate time.Time
}

// Extend pushes the rental_end_date of every line still out on rent to
// NewEndDate, rejecting if the extension limit has been reached or any
// such line's extended window conflicts with another commitment. Commits the extension
// charge onto the header total.
func (s *Service) Extend(ctx context.Context, req ExtendRequest) (*domain.TransactionHeader, error) {
	var header *domain.TransactionHeader
	err := s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		h, lines, err := s.txstore.GetHeaderWithLines(ctx, tx, req.HeaderID)
		if err != nil {
			return err
		}
		if !returnableHeaderStatus(h.Status) {
			return domain.NewAppError(domain.ErrRentalNotActive, "rental must be IN_PROGRESS to extend", 409)
		}
		if h.ExtensionCount >= s.cfg.MaxExtensions {
			return domain.NewAppError(domain.ErrExtensionLimitExceeded,
				fmt.Sprintf("rental has reached the maximum of %d extensions", s.cfg.MaxExtensions), 409)
		}

		var extensionCharge float64
		for _, line := range lines {
			if line.OutstandingQuantity() <= 0 {
				continue
			}
			if !req.NewEndDate.After(line.RentalEndDate) {
				return domain.NewInvalidInputError("new end date must be after the current rental end date")
			}
			committed, err := s.txstore.CountOverlappingRentalQuantity(ctx, tx, line.ItemID, h.LocationID, line.RentalEndDate, req.NewEndDate, &line.ID)
			if err != nil {
				return err
			}
			stock, err := s.ledger.GetStockLevel(ctx, tx, line.ItemID, h.LocationID)
			if err != nil {
				return err
			}
			if committed+line.OutstandingQuantity() > stock.QuantityOnHand {
				return domain.NewConflictError(domain.ErrOverbooked, fmt.Sprintf("line %d cannot be extended: window conflicts with another commitment", line.LineNumber))
			}

			extensionDays := int(req.NewEndDate.Sub(line.RentalEndDate).Hours() / 24)
			if extensionDays <= 0 {
				extensionDays = 1
			}
			extensionCharge += line.DailyRate * float64(extensionDays) * float64(line.OutstandingQuantity())

			line.RentalEndDate = req.NewEndDate
			line.CurrentRentalStatus = domain.RentalExtended
			line.ExtensionCount++
			if err := s.txstore.UpdateLine(ctx, tx, line); err != nil {
				return err
			}
		}

		h.ExtensionCount++
		h.TotalExtensionCharges += extensionCharge
		h.TotalAmount += extensionCharge
		if err := s.txstore.UpdateHeader(ctx, tx, h); err != nil {
			return err
		}
		header = h

		lifecycle, err := s.txstore.GetRentalLifecycle(ctx, tx, req.HeaderID)
		if err != nil {
			return err
		}
		lifecycle.ExtensionCount++
		lifecycle.TotalExtensionCharges += extensionCharge
		lifecycle.AggregateStatus = domain.RentalExtended
		if err := s.txstore.UpsertRentalLifecycle(ctx, tx, lifecycle); err != nil {
			return err
		}

		return s.events.Append(ctx, tx, &domain.TransactionEvent{
			ID: uuid.New(), HeaderID: h.ID, EventType: domain.EventRentalExtended,
			Description: "rental extended",
			Payload:     map[string]interface{}{"new_end_date": req.NewEndDate, "extension_charge": extensionCharge},
			Timestamp:   time.Now().UTC(),
		})
	})
	if err != nil {
		s.log.Error("failed to extend rental", zap.String("header_id", req.HeaderID.String()), zap.Error(err))
		return nil, err
	}
	return header, nil
}
