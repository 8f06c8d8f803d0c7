package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockLevelCheckInvariant(t *testing.T) {
	valid := &StockLevel{QuantityOnHand: 10, QuantityAvailable: 6, QuantityOnRent: 3, QuantityDamaged: 1}
	assert.NoError(t, valid.CheckInvariant())

	negative := &StockLevel{QuantityOnHand: 10, QuantityAvailable: -1, QuantityOnRent: 10, QuantityDamaged: 1}
	assert.Error(t, negative.CheckInvariant())

	unbalanced := &StockLevel{QuantityOnHand: 10, QuantityAvailable: 6, QuantityOnRent: 2, QuantityDamaged: 1}
	assert.Error(t, unbalanced.CheckInvariant())
}
