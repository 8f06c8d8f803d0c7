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

// ReturnLineRequest is one returned line in a ProcessReturn call.
type ReturnLineRequest struct {
	LineID             uuid.UUID
	QuantityReturned   int
	ConditionRating    domain.ConditionRating
	DamageDescription  string
	RepairCostEstimate float64
	PhotoRefs          []string
}

// ProcessReturnRequest is the input to ProcessReturn.
type ProcessReturnRequest struct {
	HeaderID         uuid.UUID
	ActualReturnDate time.Time
	Lines            []ReturnLineRequest
}

// returnableHeaderStatus reports whether a rental in this header status
// may accept a return; a rental that has not been picked up or is
// already closed out cannot.
func returnableHeaderStatus(status domain.TransactionStatus) bool {
	return status == domain.StatusInProgress
}

// ProcessReturn records returned quantity/condition per line, computes
// late fees, damage charges and deposit refund, releases or restocks
// inventory, and appends a return event, all within one transaction.
func (s *Service) ProcessReturn(ctx context.Context, req ProcessReturnRequest) (*domain.TransactionHeader, error) {
	if len(req.Lines) == 0 {
		return nil, domain.NewInvalidInputError("at least one returned line is required")
	}
	actualReturn := req.ActualReturnDate
	if actualReturn.IsZero() {
		actualReturn = time.Now().UTC()
	}

	var header *domain.TransactionHeader
	err := s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		h, lines, err := s.txstore.GetHeaderWithLines(ctx, tx, req.HeaderID)
		if err != nil {
			return err
		}
		if !returnableHeaderStatus(h.Status) {
			return domain.NewAppError(domain.ErrRentalNotActive, "rental must be IN_PROGRESS to accept a return", 409)
		}
		lineByID := make(map[uuid.UUID]*domain.TransactionLine, len(lines))
		for _, l := range lines {
			lineByID[l.ID] = l
		}

		lifecycle, err := s.txstore.GetRentalLifecycle(ctx, tx, req.HeaderID)
		if err != nil {
			return err
		}

		var lateFees, damageCharges float64
		for _, rl := range req.Lines {
			line, ok := lineByID[rl.LineID]
			if !ok {
				return domain.NewNotFoundError("rental line", rl.LineID)
			}
			if rl.QuantityReturned+line.ReturnedQuantity > line.Quantity {
				return domain.NewAppError(domain.ErrExcessiveReturnQuantity,
					fmt.Sprintf("line %d: returned quantity exceeds outstanding quantity", line.LineNumber), 400)
			}

			line.ReturnedQuantity += rl.QuantityReturned
			line.ReturnCondition = rl.ConditionRating

			disposition, returnToStock := domain.ResolveDisposition(rl.ConditionRating)
			if err := s.inspect.Create(ctx, tx, &domain.TransactionInspection{
				ID:                 uuid.New(),
				LineID:             line.ID,
				Status:             domain.InspectionCompleted,
				ConditionRating:    rl.ConditionRating,
				DamageDescription:  rl.DamageDescription,
				RepairCostEstimate: rl.RepairCostEstimate,
				Disposition:        disposition,
				ReturnToStock:      returnToStock,
				PhotoRefs:          rl.PhotoRefs,
				InspectedAt:        actualReturn,
			}); err != nil {
				return err
			}

			isFullReturn := line.OutstandingQuantity() <= 0
			isLate := domain.IsOverdue(line.RentalEndDate, s.cfg.GracePeriodDays, line.Quantity, actualReturn)
			line.CurrentRentalStatus = domain.NextLineStatus(line.CurrentRentalStatus, isLate, isFullReturn)

			lineLateFee := domain.LateFee(line.DailyRate, s.cfg.LateFeeMultiplier, line.RentalEndDate, s.cfg.GracePeriodDays, actualReturn, rl.QuantityReturned)
			lateFees += lineLateFee
			damageCharges += rl.RepairCostEstimate

			goodQty, damagedQty := 0, 0
			if returnToStock {
				goodQty = rl.QuantityReturned
			} else {
				damagedQty = rl.QuantityReturned
			}
			_, err := s.ledger.AdjustStock(ctx, tx, line.ItemID, h.LocationID,
				domain.StockDelta{OnRent: -rl.QuantityReturned, Available: goodQty, Damaged: damagedQty},
				domain.MovementRentalReturn, &h.ID, &line.ID)
			if err != nil {
				return err
			}

			if len(line.UnitIDs) > 0 {
				n := rl.QuantityReturned
				if n > len(line.UnitIDs) {
					n = len(line.UnitIDs)
				}
				if err := s.ledger.ReleaseUnits(ctx, tx, line.UnitIDs[:n], rl.ConditionRating); err != nil {
					return err
				}
				line.UnitIDs = line.UnitIDs[n:]
			}

			if err := s.txstore.UpdateLine(ctx, tx, line); err != nil {
				return err
			}
		}

		allCompleted := true
		statuses := make([]domain.RentalLineStatus, 0, len(lines))
		for _, l := range lines {
			statuses = append(statuses, l.CurrentRentalStatus)
			if l.CurrentRentalStatus != domain.RentalCompleted {
				allCompleted = false
			}
		}
		lifecycle.AggregateStatus = domain.AggregateRentalStatus(statuses)
		lifecycle.LateFees += lateFees
		lifecycle.DamageCharges += damageCharges
		lifecycle.DepositRefundAmount = domain.DepositRefund(h.DepositAmount, lifecycle.DamageCharges, lifecycle.LateFees)
		lifecycle.ActualReturnDate = &actualReturn
		if err := s.txstore.UpsertRentalLifecycle(ctx, tx, lifecycle); err != nil {
			return err
		}

		if allCompleted {
			h.Status = domain.StatusCompleted
			if err := s.txstore.UpdateHeaderStatus(ctx, tx, h.ID, domain.StatusCompleted); err != nil {
				return err
			}
		}
		header = h

		return s.events.Append(ctx, tx, &domain.TransactionEvent{
			ID: uuid.New(), HeaderID: h.ID, EventType: domain.EventRentalReturned,
			Description: "rental return processed",
			Payload: map[string]interface{}{
				"late_fees": lateFees, "damage_charges": damageCharges,
				"deposit_refund_amount": lifecycle.DepositRefundAmount,
			},
			Timestamp: actualReturn,
		})
	})
	if err != nil {
		s.log.Error("failed to process rental return", zap.String("header_id", req.HeaderID.String()), zap.Error(err))
		return nil, err
	}
	return header, nil
}
