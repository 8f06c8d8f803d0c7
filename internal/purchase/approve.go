package purchase

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
)

// InspectionResultRequest is the physical-check finding for one
// previously PENDING line inspection.
type InspectionResultRequest struct {
	LineID             uuid.UUID
	ConditionRating    domain.ConditionRating
	DamageDescription  string
	RepairCostEstimate float64
	PhotoRefs          []string
}

// CompleteInspection records a deferred purchase-return inspection's
// findings, restocks the line's quantity when the condition meets the
// configured vendor-credit minimum, and otherwise routes it to the
// damaged counter.
func (s *Service) CompleteInspection(ctx context.Context, req InspectionResultRequest) error {
	return s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		pending, err := s.inspect.ListByLine(ctx, tx, req.LineID)
		if err != nil {
			return err
		}
		var inspection *domain.TransactionInspection
		for _, i := range pending {
			if i.Status == domain.InspectionPending {
				inspection = i
				break
			}
		}
		if inspection == nil {
			return domain.NewNotFoundError("pending inspection", req.LineID)
		}

		line, err := s.txstore.GetLine(ctx, tx, req.LineID)
		if err != nil {
			return err
		}

		disposition, _ := domain.ResolveDisposition(req.ConditionRating)
		returnToStock := req.ConditionRating.MeetsMinimum(domain.ConditionRating(s.cfg.MinConditionForCredit))

		inspection.Status = domain.InspectionCompleted
		inspection.ConditionRating = req.ConditionRating
		inspection.DamageDescription = req.DamageDescription
		inspection.RepairCostEstimate = req.RepairCostEstimate
		inspection.Disposition = disposition
		inspection.ReturnToStock = returnToStock
		inspection.PhotoRefs = req.PhotoRefs
		inspection.InspectedAt = time.Now().UTC()
		if err := s.inspect.Update(ctx, tx, inspection); err != nil {
			return err
		}

		qty := -line.Quantity // return lines carry negative quantity
		goodQty, damagedQty := 0, 0
		if returnToStock {
			goodQty = qty
		} else {
			damagedQty = qty
		}
		header, err := s.txstore.GetHeader(ctx, tx, line.HeaderID)
		if err != nil {
			return err
		}
		if _, err := s.ledger.AdjustStock(ctx, tx, line.ItemID, header.LocationID,
			domain.StockDelta{Available: goodQty, Damaged: damagedQty},
			domain.MovementPurchaseReturn, &header.ID, &line.ID); err != nil {
			return err
		}

		return nil
	})
}

// allInspectionsComplete reports whether every line on the header has
// no PENDING inspection outstanding.
func (s *Service) allInspectionsComplete(ctx context.Context, tx *sql.Tx, lineIDs []uuid.UUID) (bool, error) {
	inspections, err := s.inspect.ListByLines(ctx, tx, lineIDs)
	if err != nil {
		return false, err
	}
	for _, i := range inspections {
		if i.Status == domain.InspectionPending {
			return false, nil
		}
	}
	return true, nil
}

// ApproveReturn manually approves a PENDING purchase return that did
// not qualify for auto-approval, transitioning it to PROCESSING so a
// vendor credit can be issued.
func (s *Service) ApproveReturn(ctx context.Context, headerID uuid.UUID) (*domain.TransactionHeader, error) {
	var header *domain.TransactionHeader
	err := s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		h, lines, err := s.txstore.GetHeaderWithLines(ctx, tx, headerID)
		if err != nil {
			return err
		}
		if h.Type != domain.TxReturn {
			return domain.NewInvalidInputError("header is not a return")
		}
		if !domain.CanTransition(h.Status, domain.StatusProcessing) {
			return domain.NewAppError(domain.ErrInvalidTransition, "return must be PENDING to approve", 409)
		}
		lineIDs := make([]uuid.UUID, len(lines))
		for i, l := range lines {
			lineIDs[i] = l.ID
		}
		complete, err := s.allInspectionsComplete(ctx, tx, lineIDs)
		if err != nil {
			return err
		}
		if !complete {
			return domain.NewAppError(domain.ErrInspectionIncomplete, "one or more line inspections are still pending", 409)
		}
		if err := s.txstore.UpdateHeaderStatus(ctx, tx, headerID, domain.StatusProcessing); err != nil {
			return err
		}
		h.Status = domain.StatusProcessing
		header = h
		return s.events.Append(ctx, tx, &domain.TransactionEvent{
			ID: uuid.New(), HeaderID: headerID, EventType: domain.EventStatusChanged,
			Description: "purchase return approved", Timestamp: time.Now().UTC(),
		})
	})
	if err != nil {
		s.log.Error("failed to approve purchase return", zap.String("header_id", headerID.String()), zap.Error(err))
		return nil, err
	}
	return header, nil
}

// ProcessVendorCreditRequest is the input to ProcessVendorCredit.
type ProcessVendorCreditRequest struct {
	HeaderID         uuid.UUID
	CreditNoteNumber string
}

// ProcessVendorCredit issues the vendor credit for an approved return:
// it requires every line inspection to be complete, records a full
// refund payment (REFUNDED, paid_amount mirrors the negative return
// total), stamps the credit note number, closes the header out as
// COMPLETED and appends a vendor-credit event.
func (s *Service) ProcessVendorCredit(ctx context.Context, req ProcessVendorCreditRequest) (*domain.TransactionHeader, error) {
	var header *domain.TransactionHeader
	err := s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		h, lines, err := s.txstore.GetHeaderWithLines(ctx, tx, req.HeaderID)
		if err != nil {
			return err
		}
		if h.Type != domain.TxReturn {
			return domain.NewInvalidInputError("header is not a return")
		}
		if h.Status != domain.StatusProcessing {
			return domain.NewAppError(domain.ErrInvalidTransition, "return must be approved (PROCESSING) before crediting", 409)
		}
		lineIDs := make([]uuid.UUID, len(lines))
		for i, l := range lines {
			lineIDs[i] = l.ID
		}
		complete, err := s.allInspectionsComplete(ctx, tx, lineIDs)
		if err != nil {
			return err
		}
		if !complete {
			return domain.NewAppError(domain.ErrInspectionIncomplete, "one or more line inspections are still pending", 409)
		}

		if _, err := s.txstore.RecordPayment(ctx, tx, &domain.Payment{
			HeaderID:  h.ID,
			Amount:    h.TotalAmount, // already negative for a return header
			Method:    "VENDOR_CREDIT",
			Reference: req.CreditNoteNumber,
		}); err != nil {
			return err
		}

		h.CreditNoteNumber = req.CreditNoteNumber
		h.Status = domain.StatusCompleted
		h.PaidAmount = h.TotalAmount
		h.PaymentStatus = domain.PaymentRefunded
		if err := s.txstore.UpdateHeader(ctx, tx, h); err != nil {
			return err
		}
		header = h

		return s.events.Append(ctx, tx, &domain.TransactionEvent{
			ID: uuid.New(), HeaderID: h.ID, EventType: domain.EventVendorCreditProcessed,
			Description: "vendor credit issued",
			Payload: map[string]interface{}{
				"credit_note_number": req.CreditNoteNumber, "credit_amount": -h.TotalAmount,
			},
			Timestamp: time.Now().UTC(),
		})
	})
	if err != nil {
		s.log.Error("failed to process vendor credit", zap.String("header_id", req.HeaderID.String()), zap.Error(err))
		return nil, err
	}
	return header, nil
}
