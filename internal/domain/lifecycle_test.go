package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAggregateRentalStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []RentalLineStatus
		expected RentalLineStatus
	}{
		{"empty", nil, RentalPending},
		{"all completed", []RentalLineStatus{RentalCompleted, RentalCompleted}, RentalCompleted},
		{"one late wins over in progress", []RentalLineStatus{RentalInProgress, RentalLate}, RentalLate},
		{"late and partial combine", []RentalLineStatus{RentalLate, RentalPartialReturn}, RentalLatePartialReturn},
		{"late-partial-return line alone implies partial", []RentalLineStatus{RentalLatePartialReturn}, RentalLatePartialReturn},
		{"partial alone", []RentalLineStatus{RentalPartialReturn, RentalInProgress}, RentalPartialReturn},
		{"extended with no late/partial", []RentalLineStatus{RentalExtended, RentalInProgress}, RentalExtended},
		{"in progress default", []RentalLineStatus{RentalInProgress}, RentalInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AggregateRentalStatus(tt.statuses))
		})
	}
}

func TestIsOverdue(t *testing.T) {
	end := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsOverdue(end, 1, 0, end.AddDate(0, 0, 5)), "no outstanding quantity is never overdue")
	assert.False(t, IsOverdue(end, 1, 2, end.AddDate(0, 0, 1)), "within grace period")
	assert.True(t, IsOverdue(end, 1, 2, end.AddDate(0, 0, 2)), "past grace period")
}

func TestLateFee(t *testing.T) {
	end := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0.0, LateFee(10, 1.5, end, 1, end.AddDate(0, 0, 1), 2), "at grace deadline is zero-fee")
	assert.Equal(t, 30.0, LateFee(10, 1.5, end, 1, end.AddDate(0, 0, 2), 2), "one day late: 10*1.5*1*2")
	assert.Equal(t, 60.0, LateFee(10, 1.5, end, 1, end.AddDate(0, 0, 3), 2), "two days late: 10*1.5*2*2")
}

func TestDepositRefund(t *testing.T) {
	assert.Equal(t, 50.0, DepositRefund(100, 30, 20))
	assert.Equal(t, 0.0, DepositRefund(100, 80, 80), "clamps at zero rather than going negative")
}
