package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ConditionRating is the A-F scale recorded at return inspection. A/B
// route to disposition RETURN_TO_STOCK; C/D/F route to SEND_TO_REPAIR
// or WRITE_OFF and are counted as damaged.
type ConditionRating string

const (
	ConditionA ConditionRating = "A"
	ConditionB ConditionRating = "B"
	ConditionC ConditionRating = "C"
	ConditionD ConditionRating = "D"
	ConditionF ConditionRating = "F"
)

var conditionRank = map[ConditionRating]int{
	ConditionA: 5, ConditionB: 4, ConditionC: 3, ConditionD: 2, ConditionF: 1,
}

// IsRestockable reports whether a unit in this condition is disposed as
// RETURN_TO_STOCK rather than segregated as damaged.
func (c ConditionRating) IsRestockable() bool {
	return c == ConditionA || c == ConditionB
}

// MeetsMinimum reports whether c is at least as good as min on the A-F
// scale (A best), used for vendor-credit/restock eligibility gating.
func (c ConditionRating) MeetsMinimum(min ConditionRating) bool {
	return conditionRank[c] >= conditionRank[min]
}

// Disposition records the post-inspection decision for returned goods.
type Disposition string

const (
	DispositionReturnToStock  Disposition = "RETURN_TO_STOCK"
	DispositionSendToRepair   Disposition = "SEND_TO_REPAIR"
	DispositionWriteOff       Disposition = "WRITE_OFF"
	DispositionReturnToVendor Disposition = "RETURN_TO_VENDOR"
)

// InspectionStatus tracks whether a TransactionInspection still awaits
// physical inspection. Rental returns create rows already COMPLETED
// (condition is recorded at hand-in); purchase returns that require
// inspection create rows PENDING and complete them once the returned
// goods are examined, and purchase returns without inspection create
// no row.
type InspectionStatus string

const (
	InspectionPending   InspectionStatus = "PENDING"
	InspectionCompleted InspectionStatus = "COMPLETED"
)

// TransactionInspection is the per-line inspection record created during
// a rental return or a purchase/sale return.
type TransactionInspection struct {
	ID                 uuid.UUID        `json:"id"`
	LineID             uuid.UUID        `json:"line_id"`
	Status             InspectionStatus `json:"status"`
	ConditionRating    ConditionRating  `json:"condition_rating,omitempty"`
	DamageDescription  string           `json:"damage_description,omitempty"`
	RepairCostEstimate float64          `json:"repair_cost_estimate,omitempty"`
	Disposition        Disposition      `json:"disposition,omitempty"`
	ReturnToStock      bool             `json:"return_to_stock"`
	PhotoRefs          []string         `json:"photo_refs,omitempty"`
	InspectedAt        time.Time        `json:"inspected_at"`
}

// ResolveDisposition derives the disposition and return-to-stock flag
// for a given condition rating.
func ResolveDisposition(c ConditionRating) (Disposition, bool) {
	if c.IsRestockable() {
		return DispositionReturnToStock, true
	}
	if c == ConditionC {
		return DispositionSendToRepair, false
	}
	return DispositionWriteOff, false
}

// InspectionRepository is the persistence seam for inspections.
type InspectionRepository interface {
	Create(ctx context.Context, q Querier, i *TransactionInspection) error
	Update(ctx context.Context, q Querier, i *TransactionInspection) error
	ListByLine(ctx context.Context, q Querier, lineID uuid.UUID) ([]*TransactionInspection, error)
	// ListByLines batches ListByLine across every line of a header, for
	// the "all inspections complete" gate ahead of vendor-credit issuance.
	ListByLines(ctx context.Context, q Querier, lineIDs []uuid.UUID) ([]*TransactionInspection, error)
}
