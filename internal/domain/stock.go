package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StockLevel is the authoritative per-(item, location) counter record.
// Invariant: OnHand = Available + OnRent + Damaged, every counter >= 0.
type StockLevel struct {
	ID                uuid.UUID `json:"id"`
	ItemID            uuid.UUID `json:"item_id"`
	LocationID        uuid.UUID `json:"location_id"`
	QuantityOnHand    int       `json:"quantity_on_hand"`
	QuantityAvailable int       `json:"quantity_available"`
	QuantityOnRent    int       `json:"quantity_on_rent"`
	QuantityDamaged   int       `json:"quantity_damaged"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CheckInvariant validates the conservation equation. A violation is a
// fatal integrity error, never an expected outcome.
func (s *StockLevel) CheckInvariant() error {
	if s.QuantityAvailable < 0 || s.QuantityOnRent < 0 || s.QuantityDamaged < 0 || s.QuantityOnHand < 0 {
		return NewIntegrityError("stock counter went negative")
	}
	if s.QuantityOnHand != s.QuantityAvailable+s.QuantityOnRent+s.QuantityDamaged {
		return NewIntegrityError("stock conservation equation violated: on_hand != available + on_rent + damaged")
	}
	return nil
}

// UnitState is the lifecycle state of a serialized InventoryUnit.
type UnitState string

const (
	UnitAvailable UnitState = "AVAILABLE"
	UnitRented    UnitState = "RENTED"
	UnitDamaged   UnitState = "DAMAGED"
	UnitInRepair  UnitState = "IN_REPAIR"
	UnitRetired   UnitState = "RETIRED"
)

// InventoryUnit is a uniquely identifiable physical instance of an item.
// Purchase receipt materializes units for every received line; rentals
// reserve units only for items that require serial numbers.
type InventoryUnit struct {
	ID             uuid.UUID  `json:"id"`
	ItemID         uuid.UUID  `json:"item_id"`
	LocationID     uuid.UUID  `json:"location_id"`
	SerialNumber   string     `json:"serial_number,omitempty"`
	BatchCode      string     `json:"batch_code,omitempty"`
	UnitCost       float64    `json:"unit_cost,omitempty"`
	SupplierRef    string     `json:"supplier_ref,omitempty"`
	State          UnitState  `json:"state"`
	RentalLineID   *uuid.UUID `json:"rental_line_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// MovementType classifies a StockMovement entry.
type MovementType string

const (
	MovementRentalOut       MovementType = "RENTAL_OUT"
	MovementRentalReturn    MovementType = "RENTAL_RETURN"
	MovementPurchaseReceipt MovementType = "PURCHASE_RECEIPT"
	MovementPurchaseReturn  MovementType = "PURCHASE_RETURN"
	MovementSaleOut         MovementType = "SALE_OUT"
	MovementAdjustment      MovementType = "ADJUSTMENT"
)

// StockMovement is an append-only record of a delta against a stock
// level. Never updated or deleted.
type StockMovement struct {
	ID                   uuid.UUID    `json:"id"`
	StockLevelID         uuid.UUID    `json:"stock_level_id"`
	MovementType         MovementType `json:"movement_type"`
	QuantityChange       int          `json:"quantity_change"`
	QuantityBefore       int          `json:"quantity_before"`
	QuantityAfter        int          `json:"quantity_after"`
	TransactionHeaderID  *uuid.UUID   `json:"transaction_header_id,omitempty"`
	TransactionLineID    *uuid.UUID   `json:"transaction_line_id,omitempty"`
	Timestamp            time.Time    `json:"timestamp"`
}

// StockDelta is the vector delta applied atomically by AdjustStock.
type StockDelta struct {
	Available int
	OnRent    int
	Damaged   int
}

// LedgerRepository is C1's persistence seam: authoritative stock
// counters and serialized-unit state, with row-level locking and
// SKIP LOCKED claim semantics.
type LedgerRepository interface {
	// AdjustStock applies delta atomically to the StockLevel row for
	// (itemID, locationID), validates every resulting counter and the
	// conservation equation, and records a StockMovement of movementType.
	// The row is fetched FOR UPDATE under q.
	AdjustStock(ctx context.Context, q Querier, itemID, locationID uuid.UUID, delta StockDelta, movementType MovementType, headerID, lineID *uuid.UUID) (*StockMovement, error)

	// GetStockLevel returns a snapshot read of the counters (no lock).
	GetStockLevel(ctx context.Context, q Querier, itemID, locationID uuid.UUID) (*StockLevel, error)

	// ReserveUnits claims n AVAILABLE units at the location using
	// SELECT ... FOR UPDATE SKIP LOCKED semantics and transitions them
	// to RENTED, linking them to lineID.
	ReserveUnits(ctx context.Context, q Querier, itemID, locationID uuid.UUID, n int, lineID uuid.UUID) ([]uuid.UUID, error)

	// ReleaseUnits transitions units from RENTED to AVAILABLE (condition
	// A/B) or DAMAGED (C/D/F) in one atomic step.
	ReleaseUnits(ctx context.Context, q Querier, unitIDs []uuid.UUID, condition ConditionRating) error

	// MaterializeUnits creates n new AVAILABLE units, increments
	// available/on_hand by n, and records a PURCHASE_RECEIPT movement.
	MaterializeUnits(ctx context.Context, q Querier, itemID, locationID uuid.UUID, n int, unitCost float64, serialNumbers []string, batchCode, supplierRef string, headerID, lineID uuid.UUID) ([]uuid.UUID, error)

	// ListMovements returns stock movements for a stock level, ordered by
	// commit order (append order).
	ListMovements(ctx context.Context, q Querier, stockLevelID uuid.UUID, limit, offset int) ([]*StockMovement, error)
}
