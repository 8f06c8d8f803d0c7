// Package inspection persists TransactionInspection rows: the
// per-line condition/disposition record created at rental hand-in or
// deferred to a later physical check on a purchase return. Plain
// database/sql, $N placeholders, zap logging, sql.ErrNoRows mapped to
// a domain sentinel.
package inspection

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

// Repository implements domain.InspectionRepository against
// PostgreSQL.
type Repository struct {
	log *logger.Logger
}

// NewRepository creates a new inspection Repository.
func NewRepository(log *logger.Logger) *Repository {
	return &Repository{log: log}
}

var _ domain.InspectionRepository = (*Repository)(nil)

// Create inserts a new inspection row, PENDING or already COMPLETED
// depending on i.Status.
func (r *Repository) Create(ctx context.Context, q domain.Querier, i *domain.TransactionInspection) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO transaction_inspections (
			id, line_id, status, condition_rating, damage_description, repair_cost_estimate,
			disposition, return_to_stock, photo_refs, inspected_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, i.ID, i.LineID, i.Status, nullString(string(i.ConditionRating)), i.DamageDescription, i.RepairCostEstimate,
		nullString(string(i.Disposition)), i.ReturnToStock, pq.Array(i.PhotoRefs), i.InspectedAt)
	if err != nil {
		r.log.Error("failed to insert transaction inspection", zap.Error(err))
		return err
	}
	return nil
}

// Update persists a completed (or re-examined) inspection's findings.
func (r *Repository) Update(ctx context.Context, q domain.Querier, i *domain.TransactionInspection) error {
	_, err := q.ExecContext(ctx, `
		UPDATE transaction_inspections SET
			status = $1, condition_rating = $2, damage_description = $3, repair_cost_estimate = $4,
			disposition = $5, return_to_stock = $6, photo_refs = $7, inspected_at = $8
		WHERE id = $9
	`, i.Status, nullString(string(i.ConditionRating)), i.DamageDescription, i.RepairCostEstimate,
		nullString(string(i.Disposition)), i.ReturnToStock, pq.Array(i.PhotoRefs), i.InspectedAt, i.ID)
	if err != nil {
		r.log.Error("failed to update transaction inspection", zap.Error(err))
		return err
	}
	return nil
}

// ListByLine returns every inspection recorded against a line, oldest
// first (a line may be re-inspected).
func (r *Repository) ListByLine(ctx context.Context, q domain.Querier, lineID uuid.UUID) ([]*domain.TransactionInspection, error) {
	return r.list(ctx, q, `
		SELECT id, line_id, status, condition_rating, damage_description, repair_cost_estimate,
			disposition, return_to_stock, photo_refs, inspected_at
		FROM transaction_inspections WHERE line_id = $1 ORDER BY inspected_at ASC
	`, lineID)
}

// ListByLines batches ListByLine across every line of a header.
func (r *Repository) ListByLines(ctx context.Context, q domain.Querier, lineIDs []uuid.UUID) ([]*domain.TransactionInspection, error) {
	if len(lineIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, q, `
		SELECT id, line_id, status, condition_rating, damage_description, repair_cost_estimate,
			disposition, return_to_stock, photo_refs, inspected_at
		FROM transaction_inspections WHERE line_id = ANY($1) ORDER BY inspected_at ASC
	`, pq.Array(uuidsToStrings(lineIDs)))
}

func (r *Repository) list(ctx context.Context, q domain.Querier, query string, arg interface{}) ([]*domain.TransactionInspection, error) {
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to list transaction inspections", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []*domain.TransactionInspection
	for rows.Next() {
		var i domain.TransactionInspection
		var condition, disposition sql.NullString
		var photoRefs []string
		if err := rows.Scan(&i.ID, &i.LineID, &i.Status, &condition, &i.DamageDescription, &i.RepairCostEstimate,
			&disposition, &i.ReturnToStock, pq.Array(&photoRefs), &i.InspectedAt); err != nil {
			r.log.Error("failed to scan transaction inspection", zap.Error(err))
			return nil, err
		}
		i.ConditionRating = domain.ConditionRating(condition.String)
		i.Disposition = domain.Disposition(disposition.String)
		i.PhotoRefs = photoRefs
		out = append(out, &i)
	}
	return out, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func uuidsToStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
