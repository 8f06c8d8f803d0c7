// Package txstore implements C2 Transaction Store: header/line
// persistence, deterministic numbering, payment-status derivation, and
// reference-transaction chaining. Plain database/sql, $N placeholders,
// zap logging, sql.ErrNoRows mapped to a domain sentinel.
package txstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

var numberPrefix = map[domain.TransactionType]string{
	domain.TxPurchase: "PUR",
	domain.TxSale:     "SAL",
	domain.TxRental:   "RENT",
	domain.TxReturn:   "RET",
}

// Repository implements domain.TransactionRepository against
// PostgreSQL.
type Repository struct {
	log *logger.Logger
}

// NewRepository creates a new txstore Repository.
func NewRepository(log *logger.Logger) *Repository {
	return &Repository{log: log}
}

var _ domain.TransactionRepository = (*Repository)(nil)

// NextTransactionNumber issues the next monotonic number for
// (type, date) using an atomic upsert-and-increment so concurrent
// issuance never collides or gaps
func (r *Repository) NextTransactionNumber(ctx context.Context, q domain.Querier, txType domain.TransactionType) (string, error) {
	prefix, ok := numberPrefix[txType]
	if !ok {
		return "", domain.NewInvalidInputError(fmt.Sprintf("unknown transaction type %q", txType))
	}
	today := time.Now().UTC().Format("20060102")

	var seq int
	err := q.QueryRowContext(ctx, `
		INSERT INTO transaction_number_counters (prefix, bucket_date, counter)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, bucket_date) DO UPDATE SET counter = transaction_number_counters.counter + 1
		RETURNING counter
	`, prefix, today).Scan(&seq)
	if err != nil {
		r.log.Error("failed to issue transaction number", zap.Error(err))
		return "", err
	}

	return fmt.Sprintf("%s-%s-%04d", prefix, today, seq), nil
}

// CreateHeader persists a header and its lines, assigning sequential
// line_number starting at 1 in caller-supplied order
func (r *Repository) CreateHeader(ctx context.Context, q domain.Querier, h *domain.TransactionHeader, lines []*domain.TransactionLine) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	now := time.Now().UTC()
	h.CreatedAt, h.UpdatedAt = now, now

	_, err := q.ExecContext(ctx, `
		INSERT INTO transaction_headers (
			id, transaction_number, type, status, payment_status, customer_id, supplier_id, location_id,
			reference_transaction_id, subtotal_amount, discount_amount, tax_amount, shipping_amount,
			total_amount, paid_amount, deposit_amount, extension_count, total_extension_charges,
			transaction_date, notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`, h.ID, h.TransactionNumber, h.Type, h.Status, h.PaymentStatus, nullUUID(h.CustomerID), nullUUID(h.SupplierID), h.LocationID,
		h.ReferenceTransactionID, h.SubtotalAmount, h.DiscountAmount, h.TaxAmount, h.ShippingAmount,
		h.TotalAmount, h.PaidAmount, h.DepositAmount, h.ExtensionCount, h.TotalExtensionCharges,
		h.TransactionDate, h.Notes, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		r.log.Error("failed to insert transaction header", zap.Error(err))
		return err
	}

	for i, line := range lines {
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.HeaderID = h.ID
		line.LineNumber = i + 1
		if err := r.insertLine(ctx, q, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) insertLine(ctx context.Context, q domain.Querier, l *domain.TransactionLine) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO transaction_lines (
			id, header_id, line_number, line_type, item_id, sku, description, quantity, unit_price,
			discount_amount, tax_amount, line_total, rental_start_date, rental_end_date, rental_period,
			rental_period_unit, current_rental_status, daily_rate, returned_quantity, return_condition,
			inspection_status, extension_count, unit_ids, return_reason
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
	`, l.ID, l.HeaderID, l.LineNumber, l.LineType, l.ItemID, l.SKU, l.Description, l.Quantity, l.UnitPrice,
		l.DiscountAmount, l.TaxAmount, l.LineTotal, nullTime(l.RentalStartDate), nullTime(l.RentalEndDate), l.RentalPeriod,
		nullString(string(l.RentalPeriodUnit)), nullString(string(l.CurrentRentalStatus)), l.DailyRate, l.ReturnedQuantity, nullString(string(l.ReturnCondition)),
		l.InspectionStatus, l.ExtensionCount, pq.Array(uuidsToStrings(l.UnitIDs)), nullString(string(l.ReturnReason)))
	if err != nil {
		r.log.Error("failed to insert transaction line", zap.Error(err))
		return err
	}
	return nil
}

// GetHeader retrieves a header by id.
func (r *Repository) GetHeader(ctx context.Context, q domain.Querier, id uuid.UUID) (*domain.TransactionHeader, error) {
	var h domain.TransactionHeader
	var customerID, supplierID uuid.NullUUID
	var refID uuid.NullUUID
	err := q.QueryRowContext(ctx, `
		SELECT id, transaction_number, type, status, payment_status, customer_id, supplier_id, location_id,
			reference_transaction_id, subtotal_amount, discount_amount, tax_amount, shipping_amount,
			total_amount, paid_amount, deposit_amount, extension_count, total_extension_charges,
			transaction_date, notes, created_at, updated_at
		FROM transaction_headers WHERE id = $1
	`, id).Scan(
		&h.ID, &h.TransactionNumber, &h.Type, &h.Status, &h.PaymentStatus, &customerID, &supplierID, &h.LocationID,
		&refID, &h.SubtotalAmount, &h.DiscountAmount, &h.TaxAmount, &h.ShippingAmount,
		&h.TotalAmount, &h.PaidAmount, &h.DepositAmount, &h.ExtensionCount, &h.TotalExtensionCharges,
		&h.TransactionDate, &h.Notes, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("transaction", id)
		}
		r.log.Error("failed to get transaction header", zap.Error(err))
		return nil, err
	}
	if customerID.Valid {
		h.CustomerID = customerID.UUID
	}
	if supplierID.Valid {
		h.SupplierID = supplierID.UUID
	}
	if refID.Valid {
		h.ReferenceTransactionID = &refID.UUID
	}
	return &h, nil
}

// GetHeaderWithLines retrieves a header and its lines together.
func (r *Repository) GetHeaderWithLines(ctx context.Context, q domain.Querier, id uuid.UUID) (*domain.TransactionHeader, []*domain.TransactionLine, error) {
	h, err := r.GetHeader(ctx, q, id)
	if err != nil {
		return nil, nil, err
	}
	lines, err := r.ListLines(ctx, q, id)
	if err != nil {
		return nil, nil, err
	}
	return h, lines, nil
}

// UpdateHeader persists the full mutable financial/status state of a
// header.
func (r *Repository) UpdateHeader(ctx context.Context, q domain.Querier, h *domain.TransactionHeader) error {
	h.UpdatedAt = time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		UPDATE transaction_headers SET
			status = $1, payment_status = $2, subtotal_amount = $3, discount_amount = $4, tax_amount = $5,
			shipping_amount = $6, total_amount = $7, paid_amount = $8, deposit_amount = $9,
			extension_count = $10, total_extension_charges = $11, notes = $12, updated_at = $13
		WHERE id = $14
	`, h.Status, h.PaymentStatus, h.SubtotalAmount, h.DiscountAmount, h.TaxAmount,
		h.ShippingAmount, h.TotalAmount, h.PaidAmount, h.DepositAmount,
		h.ExtensionCount, h.TotalExtensionCharges, h.Notes, h.UpdatedAt, h.ID)
	if err != nil {
		r.log.Error("failed to update transaction header", zap.Error(err))
		return err
	}
	return nil
}

// UpdateHeaderStatus validates and applies a status transition, failing
// with ErrInvalidTransition rather than silently ignoring
func (r *Repository) UpdateHeaderStatus(ctx context.Context, q domain.Querier, id uuid.UUID, status domain.TransactionStatus) error {
	h, err := r.GetHeader(ctx, q, id)
	if err != nil {
		return err
	}
	allowed := domain.CanTransition(h.Status, status)
	if h.Type == domain.TxRental {
		// Rental headers move PENDING -> IN_PROGRESS at pickup and
		// IN_PROGRESS -> COMPLETED once every line is returned.
		allowed = (h.Status == domain.StatusPending && status == domain.StatusInProgress) ||
			(h.Status == domain.StatusInProgress && status == domain.StatusCompleted)
	}
	if !allowed {
		return domain.NewConflictError(domain.ErrInvalidTransition, fmt.Sprintf("cannot transition from %s to %s", h.Status, status))
	}
	_, err = q.ExecContext(ctx, `UPDATE transaction_headers SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		r.log.Error("failed to update header status", zap.Error(err))
		return err
	}
	return nil
}

// UpdateLine persists a line's mutable fields (return progress,
// rental status, extended end date).
func (r *Repository) UpdateLine(ctx context.Context, q domain.Querier, l *domain.TransactionLine) error {
	_, err := q.ExecContext(ctx, `
		UPDATE transaction_lines SET
			rental_end_date = $1, current_rental_status = $2, returned_quantity = $3,
			return_condition = $4, inspection_status = $5, extension_count = $6, line_total = $7,
			unit_ids = $8
		WHERE id = $9
	`, nullTime(l.RentalEndDate), nullString(string(l.CurrentRentalStatus)), l.ReturnedQuantity,
		nullString(string(l.ReturnCondition)), l.InspectionStatus, l.ExtensionCount, l.LineTotal,
		pq.Array(uuidsToStrings(l.UnitIDs)), l.ID)
	if err != nil {
		r.log.Error("failed to update transaction line", zap.Error(err))
		return err
	}
	return nil
}

// ListLines returns a header's lines ordered by line_number.
func (r *Repository) ListLines(ctx context.Context, q domain.Querier, headerID uuid.UUID) ([]*domain.TransactionLine, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, header_id, line_number, line_type, item_id, sku, description, quantity, unit_price,
			discount_amount, tax_amount, line_total, rental_start_date, rental_end_date, rental_period,
			rental_period_unit, current_rental_status, daily_rate, returned_quantity, return_condition,
			inspection_status, extension_count, unit_ids, return_reason
		FROM transaction_lines WHERE header_id = $1 ORDER BY line_number ASC
	`, headerID)
	if err != nil {
		r.log.Error("failed to list transaction lines", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var lines []*domain.TransactionLine
	for rows.Next() {
		var l domain.TransactionLine
		var start, end sql.NullTime
		var periodUnit, rentalStatus, returnCondition, returnReason sql.NullString
		var unitIDs []string
		if err := rows.Scan(
			&l.ID, &l.HeaderID, &l.LineNumber, &l.LineType, &l.ItemID, &l.SKU, &l.Description, &l.Quantity, &l.UnitPrice,
			&l.DiscountAmount, &l.TaxAmount, &l.LineTotal, &start, &end, &l.RentalPeriod,
			&periodUnit, &rentalStatus, &l.DailyRate, &l.ReturnedQuantity, &returnCondition,
			&l.InspectionStatus, &l.ExtensionCount, pq.Array(&unitIDs), &returnReason,
		); err != nil {
			r.log.Error("failed to scan transaction line", zap.Error(err))
			return nil, err
		}
		if start.Valid {
			l.RentalStartDate = start.Time
		}
		if end.Valid {
			l.RentalEndDate = end.Time
		}
		l.RentalPeriodUnit = domain.RentalPeriodUnit(periodUnit.String)
		l.CurrentRentalStatus = domain.RentalLineStatus(rentalStatus.String)
		l.ReturnCondition = domain.ConditionRating(returnCondition.String)
		l.ReturnReason = domain.ReturnReason(returnReason.String)
		if len(unitIDs) > 0 {
			ids, err := stringsToUUIDs(unitIDs)
			if err != nil {
				return nil, err
			}
			l.UnitIDs = ids
		}
		lines = append(lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// GetLine fetches a single transaction line by its own id.
func (r *Repository) GetLine(ctx context.Context, q domain.Querier, lineID uuid.UUID) (*domain.TransactionLine, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, header_id, line_number, line_type, item_id, sku, description, quantity, unit_price,
			discount_amount, tax_amount, line_total, rental_start_date, rental_end_date, rental_period,
			rental_period_unit, current_rental_status, daily_rate, returned_quantity, return_condition,
			inspection_status, extension_count, unit_ids, return_reason
		FROM transaction_lines WHERE id = $1
	`, lineID)

	var l domain.TransactionLine
	var start, end sql.NullTime
	var periodUnit, rentalStatus, returnCondition, returnReason sql.NullString
	var unitIDs []string
	if err := row.Scan(
		&l.ID, &l.HeaderID, &l.LineNumber, &l.LineType, &l.ItemID, &l.SKU, &l.Description, &l.Quantity, &l.UnitPrice,
		&l.DiscountAmount, &l.TaxAmount, &l.LineTotal, &start, &end, &l.RentalPeriod,
		&periodUnit, &rentalStatus, &l.DailyRate, &l.ReturnedQuantity, &returnCondition,
		&l.InspectionStatus, &l.ExtensionCount, pq.Array(&unitIDs), &returnReason,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("transaction line", lineID)
		}
		r.log.Error("failed to get transaction line", zap.Error(err))
		return nil, err
	}
	if start.Valid {
		l.RentalStartDate = start.Time
	}
	if end.Valid {
		l.RentalEndDate = end.Time
	}
	l.RentalPeriodUnit = domain.RentalPeriodUnit(periodUnit.String)
	l.CurrentRentalStatus = domain.RentalLineStatus(rentalStatus.String)
	l.ReturnCondition = domain.ConditionRating(returnCondition.String)
	l.ReturnReason = domain.ReturnReason(returnReason.String)
	if len(unitIDs) > 0 {
		ids, err := stringsToUUIDs(unitIDs)
		if err != nil {
			return nil, err
		}
		l.UnitIDs = ids
	}
	return &l, nil
}

// RecordPayment increments paid_amount and recomputes payment_status,
// rejecting overpayment for non-returns and positive payment for
// returns
func (r *Repository) RecordPayment(ctx context.Context, q domain.Querier, p *domain.Payment) (*domain.TransactionHeader, error) {
	h, err := r.GetHeader(ctx, q, p.HeaderID)
	if err != nil {
		return nil, err
	}

	isReturn := h.Type == domain.TxReturn
	newPaid := h.PaidAmount + p.Amount
	if !isReturn && newPaid > h.TotalAmount {
		return nil, domain.NewConflictError(domain.ErrPaymentExceedsTotal, "payment would exceed total amount")
	}
	if isReturn && newPaid > 0 {
		return nil, domain.NewConflictError(domain.ErrPaymentExceedsTotal, "return payments must not become positive")
	}

	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	_, err = q.ExecContext(ctx, `
		INSERT INTO payments (id, header_id, amount, method, reference, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, p.ID, p.HeaderID, p.Amount, p.Method, p.Reference, p.CreatedAt)
	if err != nil {
		r.log.Error("failed to record payment", zap.Error(err))
		return nil, err
	}

	h.PaidAmount = newPaid
	h.PaymentStatus = domain.DerivePaymentStatus(h.TotalAmount, newPaid, isReturn)
	if err := r.UpdateHeader(ctx, q, h); err != nil {
		return nil, err
	}

	return h, nil
}

// ListPayments returns all payments recorded against a header.
func (r *Repository) ListPayments(ctx context.Context, q domain.Querier, headerID uuid.UUID) ([]*domain.Payment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, header_id, amount, method, reference, created_at FROM payments WHERE header_id = $1 ORDER BY created_at ASC
	`, headerID)
	if err != nil {
		r.log.Error("failed to list payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.HeaderID, &p.Amount, &p.Method, &p.Reference, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// GetRentalLifecycle fetches the per-header rental auxiliary record.
func (r *Repository) GetRentalLifecycle(ctx context.Context, q domain.Querier, headerID uuid.UUID) (*domain.RentalLifecycle, error) {
	var l domain.RentalLifecycle
	var aggregateStatus sql.NullString
	var expectedPickup, actualPickup, expectedReturn, actualReturn sql.NullTime
	err := q.QueryRowContext(ctx, `
		SELECT header_id, aggregate_status, expected_pickup_date, actual_pickup_date, expected_return_date, actual_return_date,
			late_fees, damage_charges, deposit_refund_amount, extension_count, total_extension_charges
		FROM rental_lifecycles WHERE header_id = $1
	`, headerID).Scan(&l.HeaderID, &aggregateStatus, &expectedPickup, &actualPickup, &expectedReturn, &actualReturn,
		&l.LateFees, &l.DamageCharges, &l.DepositRefundAmount, &l.ExtensionCount, &l.TotalExtensionCharges)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.RentalLifecycle{HeaderID: headerID}, nil
		}
		r.log.Error("failed to get rental lifecycle", zap.Error(err))
		return nil, err
	}
	if expectedPickup.Valid {
		l.ExpectedPickupDate = &expectedPickup.Time
	}
	if actualPickup.Valid {
		l.ActualPickupDate = &actualPickup.Time
	}
	if expectedReturn.Valid {
		l.ExpectedReturnDate = &expectedReturn.Time
	}
	if actualReturn.Valid {
		l.ActualReturnDate = &actualReturn.Time
	}
	if aggregateStatus.Valid {
		l.AggregateStatus = domain.RentalLineStatus(aggregateStatus.String)
	}
	return &l, nil
}

// UpsertRentalLifecycle creates or updates the per-header rental
// auxiliary record.
func (r *Repository) UpsertRentalLifecycle(ctx context.Context, q domain.Querier, l *domain.RentalLifecycle) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO rental_lifecycles (
			header_id, aggregate_status, expected_pickup_date, actual_pickup_date, expected_return_date, actual_return_date,
			late_fees, damage_charges, deposit_refund_amount, extension_count, total_extension_charges
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (header_id) DO UPDATE SET
			aggregate_status = EXCLUDED.aggregate_status,
			expected_pickup_date = EXCLUDED.expected_pickup_date,
			actual_pickup_date = EXCLUDED.actual_pickup_date,
			expected_return_date = EXCLUDED.expected_return_date,
			actual_return_date = EXCLUDED.actual_return_date,
			late_fees = EXCLUDED.late_fees,
			damage_charges = EXCLUDED.damage_charges,
			deposit_refund_amount = EXCLUDED.deposit_refund_amount,
			extension_count = EXCLUDED.extension_count,
			total_extension_charges = EXCLUDED.total_extension_charges
	`, l.HeaderID, nullString(string(l.AggregateStatus)), l.ExpectedPickupDate, l.ActualPickupDate, l.ExpectedReturnDate, l.ActualReturnDate,
		l.LateFees, l.DamageCharges, l.DepositRefundAmount, l.ExtensionCount, l.TotalExtensionCharges)
	if err != nil {
		r.log.Error("failed to upsert rental lifecycle", zap.Error(err))
		return err
	}
	return nil
}

// ListReturnsByReference returns all non-cancelled RETURN headers (and
// their lines) referencing originalID, used to aggregate cumulative
// returned quantity per item across multiple partial returns.
func (r *Repository) ListReturnsByReference(ctx context.Context, q domain.Querier, originalID uuid.UUID) ([]*domain.TransactionHeader, []*domain.TransactionLine, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id FROM transaction_headers
		WHERE reference_transaction_id = $1 AND type = $2 AND status != $3
	`, originalID, domain.TxReturn, domain.StatusCancelled)
	if err != nil {
		r.log.Error("failed to list returns by reference", zap.Error(err))
		return nil, nil, err
	}
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var headers []*domain.TransactionHeader
	var allLines []*domain.TransactionLine
	for _, id := range ids {
		h, lines, err := r.GetHeaderWithLines(ctx, q, id)
		if err != nil {
			return nil, nil, err
		}
		headers = append(headers, h)
		allLines = append(allLines, lines...)
	}
	return headers, allLines, nil
}

// CountOverlappingRentalQuantity sums committed quantity across active
// rental lines for (itemID, locationID) whose window intersects
// [start, end]
func (r *Repository) CountOverlappingRentalQuantity(ctx context.Context, q domain.Querier, itemID, locationID uuid.UUID, start, end time.Time, excludeLineID *uuid.UUID) (int, error) {
	var total sql.NullInt64
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(tl.quantity - tl.returned_quantity), 0)
		FROM transaction_lines tl
		JOIN transaction_headers th ON th.id = tl.header_id
		WHERE tl.item_id = $1 AND th.location_id = $2 AND th.type = $3
			AND th.status NOT IN ($4, $5)
			AND tl.current_rental_status NOT IN ($6, $7)
			AND tl.rental_start_date <= $8 AND tl.rental_end_date >= $9
			AND ($10::uuid IS NULL OR tl.id != $10)
	`, itemID, locationID, domain.TxRental,
		domain.StatusCancelled, domain.StatusCompleted,
		domain.RentalCompleted, "",
		end, start,
		excludeLineID,
	).Scan(&total)
	if err != nil {
		r.log.Error("failed to count overlapping rentals", zap.Error(err))
		return 0, err
	}
	return int(total.Int64), nil
}

// ListHeaderIDsByTypeAndStatus returns header IDs matching txType and
// status, for the reconciliation sweep to scan for overdue rentals.
func (r *Repository) ListHeaderIDsByTypeAndStatus(ctx context.Context, q domain.Querier, txType domain.TransactionType, status domain.TransactionStatus) ([]uuid.UUID, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id FROM transaction_headers WHERE type = $1 AND status = $2
	`, txType, status)
	if err != nil {
		r.log.Error("failed to list headers by type and status", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullUUID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
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

func stringsToUUIDs(ss []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(ss))
	for i, s := range ss {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
