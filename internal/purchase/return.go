package purchase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
)

// ReturnLineRequest is one returned line in a CreateReturn call.
type ReturnLineRequest struct {
	ItemID          uuid.UUID
	Quantity        int
	ConditionRating domain.ConditionRating
	Notes           string
}

// CreateReturnRequest is the input to CreateReturn.
type CreateReturnRequest struct {
	OriginalPurchaseID uuid.UUID
	Reason             domain.ReturnReason
	RMANumber          string
	RequiresInspection bool
	Lines              []ReturnLineRequest
}

// CreateReturn validates the return against the original purchase and
// its existing returns chain, computes proportional amounts and any
// restocking fee, and persists a negative-totals RETURN header. Every
// failing line is collected into one validation error rather than
// short-circuiting on the first.
func (s *Service) CreateReturn(ctx context.Context, req CreateReturnRequest) (*domain.TransactionHeader, []*domain.TransactionLine, error) {
	if len(req.Lines) == 0 {
		return nil, nil, domain.NewInvalidInputError("at least one returned line is required")
	}

	var header *domain.TransactionHeader
	var lines []*domain.TransactionLine

	err := s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		original, originalLines, err := s.txstore.GetHeaderWithLines(ctx, tx, req.OriginalPurchaseID)
		if err != nil {
			return err
		}
		if original.Type != domain.TxPurchase {
			return domain.NewInvalidInputError("reference transaction is not a purchase")
		}
		if original.Status == domain.StatusCancelled {
			return domain.NewAppError(domain.ErrPurchaseNotReturnable, "cannot return a cancelled purchase", 409)
		}
		now := time.Now().UTC()
		if !domain.IsWithinReturnWindow(original.TransactionDate, now, s.cfg.ReturnPeriodDays, req.Reason) {
			return domain.NewAppError(domain.ErrReturnWindowExpired,
				fmt.Sprintf("return window of %d days has expired", s.cfg.ReturnPeriodDays), 409)
		}

		originalByItem := make(map[uuid.UUID]*domain.TransactionLine, len(originalLines))
		for _, l := range originalLines {
			originalByItem[l.ItemID] = l
		}

		alreadyReturned, err := s.alreadyReturnedByItem(ctx, tx, req.OriginalPurchaseID)
		if err != nil {
			return err
		}

		var fields []domain.FieldError
		for i, rl := range req.Lines {
			orig, ok := originalByItem[rl.ItemID]
			if !ok {
				fields = append(fields, domain.FieldError{
					Field: fmt.Sprintf("lines[%d].item_id", i), Message: "item is not on the original purchase",
				})
				continue
			}
			if rl.Quantity+alreadyReturned[rl.ItemID] > orig.Quantity {
				fields = append(fields, domain.FieldError{
					Field: fmt.Sprintf("lines[%d].quantity", i),
					Message: fmt.Sprintf("can only return %d units", orig.Quantity-alreadyReturned[rl.ItemID]),
				})
			}
		}
		if len(fields) > 0 {
			return domain.NewValidationError("purchase return validation failed", fields)
		}

		number, err := s.txstore.NextTransactionNumber(ctx, tx, domain.TxReturn)
		if err != nil {
			return err
		}
		header = &domain.TransactionHeader{
			ID:                     uuid.New(),
			TransactionNumber:      number,
			Type:                   domain.TxReturn,
			Status:                 domain.StatusPending,
			PaymentStatus:          domain.PaymentPending,
			SupplierID:             original.SupplierID,
			LocationID:             original.LocationID,
			ReferenceTransactionID: &original.ID,
			TransactionDate:        now,
			Notes:                  req.RMANumber,
		}

		lines = make([]*domain.TransactionLine, 0, len(req.Lines))
		var grossSubtotal, discount, tax, restockingFee float64
		for i, rl := range req.Lines {
			orig := originalByItem[rl.ItemID]
			ratio := float64(rl.Quantity) / float64(orig.Quantity)
			// orig.LineTotal is net-of-discount, pre-tax; gross is recovered
			// by adding back the original discount before scaling.
			lineGross := (orig.LineTotal + orig.DiscountAmount) * ratio
			lineDiscount := orig.DiscountAmount * ratio
			lineTax := orig.TaxAmount * ratio
			lineNet := lineGross - lineDiscount
			lineRestockingFee := domain.RestockingFee(lineNet, s.cfg.RestockingFeePercent, req.Reason)
			lineAmount := lineNet - lineRestockingFee

			grossSubtotal += lineGross
			discount += lineDiscount
			tax += lineTax
			restockingFee += lineRestockingFee

			line := &domain.TransactionLine{
				ID:               uuid.New(),
				HeaderID:         header.ID,
				LineNumber:       i + 1,
				LineType:         "PRODUCT",
				ItemID:           rl.ItemID,
				SKU:              orig.SKU,
				Quantity:         -rl.Quantity,
				UnitPrice:        orig.UnitPrice,
				DiscountAmount:   -lineDiscount,
				TaxAmount:        -lineTax,
				LineTotal:        -lineAmount,
				InspectionStatus: inspectionStatusFor(req.RequiresInspection),
			}
			lines = append(lines, line)
		}
		header.SubtotalAmount = -grossSubtotal
		header.DiscountAmount = -discount
		header.TaxAmount = -tax
		header.TotalAmount = -(grossSubtotal - discount + tax - restockingFee)

		if err := s.txstore.CreateHeader(ctx, tx, header, lines); err != nil {
			return err
		}

		if req.RequiresInspection {
			for i, line := range lines {
				if err := s.inspect.Create(ctx, tx, &domain.TransactionInspection{
					ID:                uuid.New(),
					LineID:            line.ID,
					Status:            domain.InspectionPending,
					DamageDescription: req.Lines[i].Notes,
				}); err != nil {
					return err
				}
			}
		} else {
			// No physical check is coming, so the condition rating supplied
			// up front is authoritative: restock (or route to damaged) now
			// instead of leaving the counters stuck waiting on an
			// inspection that will never complete.
			for i, line := range lines {
				returnToStock := req.Lines[i].ConditionRating.MeetsMinimum(domain.ConditionRating(s.cfg.MinConditionForCredit))
				qty := -line.Quantity // return lines carry negative quantity
				goodQty, damagedQty := 0, 0
				if returnToStock {
					goodQty = qty
				} else {
					damagedQty = qty
				}
				if _, err := s.ledger.AdjustStock(ctx, tx, line.ItemID, original.LocationID,
					domain.StockDelta{Available: goodQty, Damaged: damagedQty},
					domain.MovementPurchaseReturn, &header.ID, &line.ID); err != nil {
					return err
				}
			}
		}

		if domain.ShouldAutoApproveReturn(header.TotalAmount, s.cfg.AutoApproveThreshold, req.Reason) {
			if err := s.txstore.UpdateHeaderStatus(ctx, tx, header.ID, domain.StatusProcessing); err != nil {
				return err
			}
			header.Status = domain.StatusProcessing
		}

		return s.events.Append(ctx, tx, &domain.TransactionEvent{
			ID: uuid.New(), HeaderID: header.ID, EventType: domain.EventPurchaseReturnCreated,
			Description: "purchase return created",
			Payload: map[string]interface{}{
				"original_purchase_id": req.OriginalPurchaseID, "reason": req.Reason, "total_amount": header.TotalAmount,
			},
			Timestamp: now,
		})
	})
	if err != nil {
		s.log.Error("failed to create purchase return", zap.String("original_purchase_id", req.OriginalPurchaseID.String()), zap.Error(err))
		return nil, nil, err
	}
	return header, lines, nil
}

// inspectionStatusFor reports the line's inspection_status value at
// creation time: lines awaiting a deferred physical check start
// PENDING, lines restocked immediately from the reported condition
// carry no inspection state at all.
func inspectionStatusFor(requiresInspection bool) string {
	if requiresInspection {
		return string(domain.InspectionPending)
	}
	return ""
}

// alreadyReturnedByItem sums returned quantity per item across every
// non-cancelled RETURN transaction referencing originalID.
func (s *Service) alreadyReturnedByItem(ctx context.Context, tx *sql.Tx, originalID uuid.UUID) (map[uuid.UUID]int, error) {
	_, lines, err := s.txstore.ListReturnsByReference(ctx, tx, originalID)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		q := l.Quantity
		if q < 0 {
			q = -q
		}
		out[l.ItemID] += q
	}
	return out, nil
}
