// Package ledger implements C1 Inventory Ledger: authoritative
// per-(item,location) stock counters, serialized inventory-unit state,
// and the stock-movement append log. Plain database/sql, $N
// placeholders, zap logging, sql.ErrNoRows mapped to a domain
// sentinel.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

// Repository implements domain.LedgerRepository against PostgreSQL.
type Repository struct {
	log *logger.Logger
}

// NewRepository creates a new ledger Repository.
func NewRepository(log *logger.Logger) *Repository {
	return &Repository{log: log}
}

var _ domain.LedgerRepository = (*Repository)(nil)

// AdjustStock locks the StockLevel row FOR UPDATE, applies delta,
// validates every resulting counter and the conservation equation, and
// writes a StockMovement
func (r *Repository) AdjustStock(ctx context.Context, q domain.Querier, itemID, locationID uuid.UUID, delta domain.StockDelta, movementType domain.MovementType, headerID, lineID *uuid.UUID) (*domain.StockMovement, error) {
	var level domain.StockLevel
	err := q.QueryRowContext(ctx, `
		SELECT id, item_id, location_id, quantity_on_hand, quantity_available, quantity_on_rent, quantity_damaged, updated_at
		FROM stock_levels
		WHERE item_id = $1 AND location_id = $2
		FOR UPDATE
	`, itemID, locationID).Scan(
		&level.ID, &level.ItemID, &level.LocationID,
		&level.QuantityOnHand, &level.QuantityAvailable, &level.QuantityOnRent, &level.QuantityDamaged,
		&level.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("stock level", fmt.Sprintf("%s/%s", itemID, locationID))
		}
		r.log.Error("failed to lock stock level", zap.Error(err))
		return nil, err
	}

	before := level.QuantityAvailable
	newAvailable := level.QuantityAvailable + delta.Available
	newOnRent := level.QuantityOnRent + delta.OnRent
	newDamaged := level.QuantityDamaged + delta.Damaged
	newOnHand := newAvailable + newOnRent + newDamaged

	if newAvailable < 0 || newOnRent < 0 || newDamaged < 0 {
		return nil, domain.NewConflictError(domain.ErrInsufficientStock, "insufficient stock for requested adjustment")
	}

	updated := &domain.StockLevel{
		ID: level.ID, ItemID: itemID, LocationID: locationID,
		QuantityOnHand: newOnHand, QuantityAvailable: newAvailable,
		QuantityOnRent: newOnRent, QuantityDamaged: newDamaged,
	}
	if err := updated.CheckInvariant(); err != nil {
		r.log.Error("stock invariant violated", zap.String("item_id", itemID.String()), zap.String("location_id", locationID.String()))
		return nil, err
	}

	_, err = q.ExecContext(ctx, `
		UPDATE stock_levels
		SET quantity_on_hand = $1, quantity_available = $2, quantity_on_rent = $3, quantity_damaged = $4, updated_at = NOW()
		WHERE id = $5
	`, newOnHand, newAvailable, newOnRent, newDamaged, level.ID)
	if err != nil {
		r.log.Error("failed to update stock level", zap.Error(err))
		return nil, err
	}

	movement := &domain.StockMovement{
		ID:                  uuid.New(),
		StockLevelID:        level.ID,
		MovementType:        movementType,
		QuantityChange:      newAvailable - before,
		QuantityBefore:      before,
		QuantityAfter:       newAvailable,
		TransactionHeaderID: headerID,
		TransactionLineID:   lineID,
		Timestamp:           time.Now().UTC(),
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO stock_movements (id, stock_level_id, movement_type, quantity_change, quantity_before, quantity_after, transaction_header_id, transaction_line_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, movement.ID, movement.StockLevelID, movement.MovementType, movement.QuantityChange, movement.QuantityBefore, movement.QuantityAfter, movement.TransactionHeaderID, movement.TransactionLineID, movement.Timestamp)
	if err != nil {
		r.log.Error("failed to record stock movement", zap.Error(err))
		return nil, err
	}

	return movement, nil
}

// GetStockLevel returns a snapshot read (no lock).
func (r *Repository) GetStockLevel(ctx context.Context, q domain.Querier, itemID, locationID uuid.UUID) (*domain.StockLevel, error) {
	var level domain.StockLevel
	err := q.QueryRowContext(ctx, `
		SELECT id, item_id, location_id, quantity_on_hand, quantity_available, quantity_on_rent, quantity_damaged, updated_at
		FROM stock_levels
		WHERE item_id = $1 AND location_id = $2
	`, itemID, locationID).Scan(
		&level.ID, &level.ItemID, &level.LocationID,
		&level.QuantityOnHand, &level.QuantityAvailable, &level.QuantityOnRent, &level.QuantityDamaged,
		&level.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("stock level", fmt.Sprintf("%s/%s", itemID, locationID))
		}
		r.log.Error("failed to get stock level", zap.Error(err))
		return nil, err
	}
	return &level, nil
}

// ReserveUnits claims n AVAILABLE units using SELECT ... FOR UPDATE
// SKIP LOCKED so concurrent reservers never deadlock nor collide on
// the same unit
func (r *Repository) ReserveUnits(ctx context.Context, q domain.Querier, itemID, locationID uuid.UUID, n int, lineID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id FROM inventory_units
		WHERE item_id = $1 AND location_id = $2 AND state = $3
		ORDER BY created_at
		FOR UPDATE SKIP LOCKED
		LIMIT $4
	`, itemID, locationID, domain.UnitAvailable, n)
	if err != nil {
		r.log.Error("failed to select claimable units", zap.Error(err))
		return nil, err
	}
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(ids) < n {
		return nil, domain.NewConflictError(domain.ErrInsufficientUnits, fmt.Sprintf("requested %d units, only %d claimable", n, len(ids)))
	}

	for _, id := range ids {
		_, err := q.ExecContext(ctx, `
			UPDATE inventory_units SET state = $1, rental_line_id = $2, updated_at = NOW() WHERE id = $3
		`, domain.UnitRented, lineID, id)
		if err != nil {
			r.log.Error("failed to transition unit to rented", zap.Error(err))
			return nil, err
		}
	}

	return ids, nil
}

// ReleaseUnits transitions units from RENTED to AVAILABLE or DAMAGED in
// one atomic step depending on condition
func (r *Repository) ReleaseUnits(ctx context.Context, q domain.Querier, unitIDs []uuid.UUID, condition domain.ConditionRating) error {
	newState := domain.UnitAvailable
	if !condition.IsRestockable() {
		newState = domain.UnitDamaged
	}
	for _, id := range unitIDs {
		_, err := q.ExecContext(ctx, `
			UPDATE inventory_units SET state = $1, rental_line_id = NULL, updated_at = NOW() WHERE id = $2
		`, newState, id)
		if err != nil {
			r.log.Error("failed to release unit", zap.Error(err))
			return err
		}
	}
	return nil
}

// MaterializeUnits creates n new AVAILABLE units, increments
// available/on_hand, and records a PURCHASE_RECEIPT movement (spec
// §4.1, §4.4.1).
func (r *Repository) MaterializeUnits(ctx context.Context, q domain.Querier, itemID, locationID uuid.UUID, n int, unitCost float64, serialNumbers []string, batchCode, supplierRef string, headerID, lineID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		id := uuid.New()
		serial := ""
		if i < len(serialNumbers) {
			serial = serialNumbers[i]
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO inventory_units (id, item_id, location_id, serial_number, batch_code, unit_cost, supplier_ref, state, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		`, id, itemID, locationID, serial, batchCode, unitCost, supplierRef, domain.UnitAvailable)
		if err != nil {
			r.log.Error("failed to materialize unit", zap.Error(err))
			return nil, err
		}
		ids = append(ids, id)
	}

	headerIDCopy, lineIDCopy := headerID, lineID
	_, err := r.AdjustStock(ctx, q, itemID, locationID, domain.StockDelta{Available: n}, domain.MovementPurchaseReceipt, &headerIDCopy, &lineIDCopy)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ListMovements returns stock movements for a stock level in append
// (commit) order.
func (r *Repository) ListMovements(ctx context.Context, q domain.Querier, stockLevelID uuid.UUID, limit, offset int) ([]*domain.StockMovement, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, stock_level_id, movement_type, quantity_change, quantity_before, quantity_after, transaction_header_id, transaction_line_id, timestamp
		FROM stock_movements
		WHERE stock_level_id = $1
		ORDER BY timestamp ASC
		LIMIT $2 OFFSET $3
	`, stockLevelID, limit, offset)
	if err != nil {
		r.log.Error("failed to list stock movements", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var movements []*domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(&m.ID, &m.StockLevelID, &m.MovementType, &m.QuantityChange, &m.QuantityBefore, &m.QuantityAfter, &m.TransactionHeaderID, &m.TransactionLineID, &m.Timestamp); err != nil {
			r.log.Error("failed to scan stock movement", zap.Error(err))
			return nil, err
		}
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movements, nil
}
