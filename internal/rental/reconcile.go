package rental

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
)

// ReconcileOverdue scans the given in-progress rental headers and, for
// any line whose outstanding quantity is overdue past the grace
// period, transitions the line to RENTAL_LATE (RENTAL_LATE_PARTIAL_RETURN
// if it was already partially returned) and recomputes the header's
// aggregate status. Intended to run at least daily from a
// scheduled sweep; idempotent against lines already marked late.
func (s *Service) ReconcileOverdue(ctx context.Context, headerIDs []uuid.UUID, asOf time.Time) (int, error) {
	flagged := 0
	for _, headerID := range headerIDs {
		err := s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
			h, lines, err := s.txstore.GetHeaderWithLines(ctx, tx, headerID)
			if err != nil {
				return err
			}
			if h.Status != domain.StatusInProgress {
				return nil
			}

			changed := false
			statuses := make([]domain.RentalLineStatus, 0, len(lines))
			for _, line := range lines {
				if line.OutstandingQuantity() > 0 &&
					domain.IsOverdue(line.RentalEndDate, s.cfg.GracePeriodDays, line.OutstandingQuantity(), asOf) &&
					line.CurrentRentalStatus != domain.RentalLate &&
					line.CurrentRentalStatus != domain.RentalLatePartialReturn {
					next := domain.RentalLate
					if line.CurrentRentalStatus == domain.RentalPartialReturn {
						next = domain.RentalLatePartialReturn
					}
					line.CurrentRentalStatus = next
					if err := s.txstore.UpdateLine(ctx, tx, line); err != nil {
						return err
					}
					changed = true
					flagged++
				}
				statuses = append(statuses, line.CurrentRentalStatus)
			}
			if !changed {
				return nil
			}

			lifecycle, err := s.txstore.GetRentalLifecycle(ctx, tx, headerID)
			if err != nil {
				return err
			}
			lifecycle.AggregateStatus = domain.AggregateRentalStatus(statuses)
			if err := s.txstore.UpsertRentalLifecycle(ctx, tx, lifecycle); err != nil {
				return err
			}

			return s.events.Append(ctx, tx, &domain.TransactionEvent{
				ID: uuid.New(), HeaderID: headerID, EventType: domain.EventRentalOverdue,
				Description: "rental flagged overdue by reconciliation sweep",
				Timestamp:   asOf,
			})
		})
		if err != nil {
			s.log.Error("failed to reconcile rental overdue status", zap.String("header_id", headerID.String()), zap.Error(err))
			return flagged, err
		}
	}
	return flagged, nil
}
