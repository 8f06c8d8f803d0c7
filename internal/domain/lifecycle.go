package domain

import "time"

// AggregateRentalStatus folds per-line statuses into one header-level
// status using a fixed precedence (highest wins):
//  1. RENTAL_LATE_PARTIAL_RETURN if any line is late AND any line is
//     partial-returned.
//  2. RENTAL_LATE if any line is late.
//  3. RENTAL_PARTIAL_RETURN if any line is partial-returned.
//  4. RENTAL_COMPLETED if all lines are completed.
//  5. RENTAL_EXTENDED if any line is extended.
//  6. Otherwise RENTAL_INPROGRESS.
func AggregateRentalStatus(lineStatuses []RentalLineStatus) RentalLineStatus {
	if len(lineStatuses) == 0 {
		return RentalPending
	}
	var anyLate, anyPartial, anyExtended, allCompleted bool
	allCompleted = true
	for _, s := range lineStatuses {
		switch s {
		case RentalLate, RentalLatePartialReturn:
			anyLate = true
		case RentalPartialReturn:
			anyPartial = true
		case RentalExtended:
			anyExtended = true
		}
		if s != RentalCompleted {
			allCompleted = false
		}
		if s == RentalLatePartialReturn {
			anyPartial = true
		}
	}
	switch {
	case anyLate && anyPartial:
		return RentalLatePartialReturn
	case anyLate:
		return RentalLate
	case anyPartial:
		return RentalPartialReturn
	case allCompleted:
		return RentalCompleted
	case anyExtended:
		return RentalExtended
	default:
		return RentalInProgress
	}
}

// NextLineStatus computes a line's post-return status given whether
// the line is currently late (elapsed past end+grace) and whether this
// return is partial or full.
func NextLineStatus(current RentalLineStatus, isLate, isFullReturn bool) RentalLineStatus {
	if isFullReturn {
		return RentalCompleted
	}
	if isLate {
		return RentalLatePartialReturn
	}
	return RentalPartialReturn
}

// IsOverdue reports whether a line with the given end date and
// outstanding quantity should be flagged RENTAL_LATE as of asOf, honoring
// the grace period.
func IsOverdue(rentalEnd time.Time, gracePeriodDays int, outstandingQuantity int, asOf time.Time) bool {
	if outstandingQuantity <= 0 {
		return false
	}
	deadline := rentalEnd.AddDate(0, 0, gracePeriodDays)
	return asOf.After(deadline)
}

// LateFee computes the late fee for a line using
// daily_rate * late_multiplier * days_late * quantity, where days_late
// is measured from rental_end_date + grace_period_days, grounded on
// original_source rental_service.py _calculate_late_fee. Returns zero
// when today is at or before the grace deadline (the boundary is
// zero-fee).
func LateFee(dailyRate, lateMultiplier float64, rentalEnd time.Time, gracePeriodDays int, today time.Time, quantity int) float64 {
	deadline := rentalEnd.AddDate(0, 0, gracePeriodDays)
	if !today.After(deadline) {
		return 0
	}
	daysLate := int(today.Sub(deadline).Hours() / 24)
	if today.Sub(deadline)%(24*time.Hour) != 0 {
		daysLate++
	}
	if daysLate <= 0 {
		return 0
	}
	return dailyRate * lateMultiplier * float64(daysLate) * float64(quantity)
}

// DepositRefund computes max(0, deposit - damageAmount - lateFees).
func DepositRefund(deposit, damageAmount, lateFees float64) float64 {
	refund := deposit - damageAmount - lateFees
	if refund < 0 {
		return 0
	}
	return refund
}
