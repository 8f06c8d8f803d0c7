package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemResolveRate(t *testing.T) {
	item := &Item{
		BaseRatePerPeriod: 10,
		TieredRates: []TieredRate{
			{MinPeriods: 1, MaxPeriods: 6, Rate: 10},
			{MinPeriods: 7, MaxPeriods: 29, Rate: 8},
			{MinPeriods: 30, MaxPeriods: 0, Rate: 5},
		},
	}

	explicit := 99.0
	assert.Equal(t, 99.0, item.ResolveRate(3, &explicit), "explicit rate always wins")
	assert.Equal(t, 10.0, item.ResolveRate(3, nil))
	assert.Equal(t, 8.0, item.ResolveRate(7, nil))
	assert.Equal(t, 5.0, item.ResolveRate(365, nil), "unbounded top tier")
	assert.Equal(t, 10.0, item.ResolveRate(0, nil), "falls back to base rate outside every tier")
}

func TestItemResolveDeposit(t *testing.T) {
	explicit := 250.0
	withDeposit := &Item{SecurityDeposit: &explicit, UnitValue: 1000}
	assert.Equal(t, 250.0, withDeposit.ResolveDeposit(0.2))

	withoutDeposit := &Item{UnitValue: 1000}
	assert.Equal(t, 200.0, withoutDeposit.ResolveDeposit(0.2))
}

func TestPeriodCount(t *testing.T) {
	assert.Equal(t, 1, PeriodCount(1, PeriodDay))
	assert.Equal(t, 1, PeriodCount(0, PeriodDay), "non-positive duration floors to one day")
	assert.Equal(t, 1, PeriodCount(7, PeriodWeek))
	assert.Equal(t, 2, PeriodCount(8, PeriodWeek), "partial week rounds up")
	assert.Equal(t, 2, PeriodCount(31, PeriodMonth))
}
