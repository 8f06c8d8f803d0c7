package rental

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AvailabilityWindow is one candidate clear interval of the same
// length as the original request.
type AvailabilityWindow struct {
	Start time.Time
	End   time.Time
}

// AvailabilityResult is the answer to a CheckAvailability query.
type AvailabilityResult struct {
	ReservedQuantity  int
	AvailableQuantity int
	Suggestions       []AvailabilityWindow
}

// CheckAvailability is a pure read: no side effects, no transaction.
// When the requested window is unavailable, it probes the next 30 days
// for up to 3 clear windows of the same duration.
func (s *Service) CheckAvailability(ctx context.Context, itemID, locationID uuid.UUID, start, end time.Time) (*AvailabilityResult, error) {
	db := s.txm.DB()

	stock, err := s.ledger.GetStockLevel(ctx, db, itemID, locationID)
	if err != nil {
		return nil, err
	}
	reserved, err := s.txstore.CountOverlappingRentalQuantity(ctx, db, itemID, locationID, start, end, nil)
	if err != nil {
		return nil, err
	}
	available := stock.QuantityOnHand - reserved
	result := &AvailabilityResult{ReservedQuantity: reserved, AvailableQuantity: available}
	if available > 0 {
		return result, nil
	}

	duration := end.Sub(start)
	for offset := 1; offset <= 30 && len(result.Suggestions) < 3; offset++ {
		candidateStart := start.AddDate(0, 0, offset)
		candidateEnd := candidateStart.Add(duration)
		committed, err := s.txstore.CountOverlappingRentalQuantity(ctx, db, itemID, locationID, candidateStart, candidateEnd, nil)
		if err != nil {
			return nil, err
		}
		if stock.QuantityOnHand-committed > 0 {
			result.Suggestions = append(result.Suggestions, AvailabilityWindow{Start: candidateStart, End: candidateEnd})
		}
	}
	return result, nil
}
