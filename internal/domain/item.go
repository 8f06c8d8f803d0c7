package domain

import (
	"context"

	"github.com/google/uuid"
)

// TieredRate is an explicit rate for a duration bracket, preferred over
// the item's base rate when the requested duration matches.
type TieredRate struct {
	MinPeriods int     `json:"min_periods"`
	MaxPeriods int     `json:"max_periods"` // 0 means unbounded
	Rate       float64 `json:"rate"`
}

// Item is rentable and/or sellable inventory.
type Item struct {
	ID                   uuid.UUID        `json:"id"`
	SKU                  string           `json:"sku"`
	Name                 string           `json:"name"`
	CategoryID           uuid.UUID        `json:"category_id,omitempty"`
	BrandID              uuid.UUID        `json:"brand_id,omitempty"`
	UnitOfMeasurementID  uuid.UUID        `json:"unit_of_measurement_id,omitempty"`
	IsRentable           bool             `json:"is_rentable"`
	IsSellable           bool             `json:"is_sellable"`
	RequiresSerialNumber bool             `json:"requires_serial_number"`
	BaseRatePerPeriod    float64          `json:"base_rate_per_period"`
	DefaultPeriodUnit    RentalPeriodUnit `json:"default_period_unit"`
	TieredRates          []TieredRate     `json:"tiered_rates,omitempty"`
	SecurityDeposit      *float64         `json:"security_deposit,omitempty"`
	UnitValue            float64          `json:"unit_value"`
}

// ResolveRate picks the tiered rate matching periods if one exists,
// otherwise the item's base rate
func (i *Item) ResolveRate(periods int, explicit *float64) float64 {
	if explicit != nil && *explicit > 0 {
		return *explicit
	}
	for _, tier := range i.TieredRates {
		if periods >= tier.MinPeriods && (tier.MaxPeriods == 0 || periods <= tier.MaxPeriods) {
			return tier.Rate
		}
	}
	return i.BaseRatePerPeriod
}

// ResolveDeposit returns the item's explicit deposit, or a configured
// fraction of unit value when unset
func (i *Item) ResolveDeposit(fallbackPercent float64) float64 {
	if i.SecurityDeposit != nil {
		return *i.SecurityDeposit
	}
	return i.UnitValue * fallbackPercent
}

// PeriodCount computes ceil(durationDays / unit-length-in-days).
func PeriodCount(durationDays int, unit RentalPeriodUnit) int {
	unitDays := 1
	switch unit {
	case PeriodWeek:
		unitDays = 7
	case PeriodMonth:
		unitDays = 30
	}
	if durationDays <= 0 {
		durationDays = 1
	}
	count := durationDays / unitDays
	if durationDays%unitDays != 0 {
		count++
	}
	return count
}

// ItemRepository is the persistence seam for Item.
type ItemRepository interface {
	GetByID(ctx context.Context, q Querier, id uuid.UUID) (*Item, error)
}
