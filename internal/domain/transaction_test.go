package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusProcessing))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusProcessing, StatusCompleted))
	assert.False(t, CanTransition(StatusCompleted, StatusProcessing), "completed is terminal")
	assert.False(t, CanTransition(StatusPending, StatusOnHold), "pending cannot jump straight to on-hold")
}

func TestTransactionLineOutstandingQuantity(t *testing.T) {
	line := &TransactionLine{Quantity: 5, ReturnedQuantity: 2}
	assert.Equal(t, 3, line.OutstandingQuantity())
}

func TestDerivePaymentStatus(t *testing.T) {
	assert.Equal(t, PaymentPending, DerivePaymentStatus(100, 0, false))
	assert.Equal(t, PaymentPartial, DerivePaymentStatus(100, 40, false))
	assert.Equal(t, PaymentPaid, DerivePaymentStatus(100, 100, false))
	assert.Equal(t, PaymentRefunded, DerivePaymentStatus(-100, -100, true))
}
