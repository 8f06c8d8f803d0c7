package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionRatingIsRestockable(t *testing.T) {
	assert.True(t, ConditionA.IsRestockable())
	assert.True(t, ConditionB.IsRestockable())
	assert.False(t, ConditionC.IsRestockable())
	assert.False(t, ConditionD.IsRestockable())
	assert.False(t, ConditionF.IsRestockable())
}

func TestConditionRatingMeetsMinimum(t *testing.T) {
	assert.True(t, ConditionA.MeetsMinimum(ConditionC))
	assert.True(t, ConditionC.MeetsMinimum(ConditionC))
	assert.False(t, ConditionD.MeetsMinimum(ConditionC))
}

func TestResolveDisposition(t *testing.T) {
	tests := []struct {
		rating        ConditionRating
		disposition   Disposition
		returnToStock bool
	}{
		{ConditionA, DispositionReturnToStock, true},
		{ConditionB, DispositionReturnToStock, true},
		{ConditionC, DispositionSendToRepair, false},
		{ConditionD, DispositionWriteOff, false},
		{ConditionF, DispositionWriteOff, false},
	}
	for _, tt := range tests {
		disposition, returnToStock := ResolveDisposition(tt.rating)
		assert.Equal(t, tt.disposition, disposition)
		assert.Equal(t, tt.returnToStock, returnToStock)
	}
}
