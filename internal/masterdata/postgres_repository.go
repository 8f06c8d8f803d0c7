// Package masterdata persists the read-mostly party and catalog
// entities (items, customers, suppliers, locations) that every engine
// operation looks up but none of them mutate. Plain database/sql, $N
// placeholders, zap logging, sql.ErrNoRows mapped to a domain sentinel
// — the same shape as internal/ledger and internal/txstore.
package masterdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

// ItemRepository implements domain.ItemRepository against PostgreSQL.
type ItemRepository struct {
	log *logger.Logger
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(log *logger.Logger) *ItemRepository {
	return &ItemRepository{log: log}
}

var _ domain.ItemRepository = (*ItemRepository)(nil)

// GetByID fetches a single item, decoding its tiered-rate schedule
// from the jsonb column.
func (r *ItemRepository) GetByID(ctx context.Context, q domain.Querier, id uuid.UUID) (*domain.Item, error) {
	var item domain.Item
	var categoryID, brandID, uomID uuid.NullUUID
	var tieredRates []byte
	var securityDeposit sql.NullFloat64

	err := q.QueryRowContext(ctx, `
		SELECT id, sku, name, category_id, brand_id, unit_of_measurement_id, is_rentable, is_sellable,
			requires_serial_number, base_rate_per_period, default_period_unit, tiered_rates, security_deposit, unit_value
		FROM items WHERE id = $1
	`, id).Scan(
		&item.ID, &item.SKU, &item.Name, &categoryID, &brandID, &uomID, &item.IsRentable, &item.IsSellable,
		&item.RequiresSerialNumber, &item.BaseRatePerPeriod, &item.DefaultPeriodUnit, &tieredRates, &securityDeposit, &item.UnitValue,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("item", id)
		}
		r.log.Error("failed to get item", zap.Error(err))
		return nil, err
	}

	if categoryID.Valid {
		item.CategoryID = categoryID.UUID
	}
	if brandID.Valid {
		item.BrandID = brandID.UUID
	}
	if uomID.Valid {
		item.UnitOfMeasurementID = uomID.UUID
	}
	if securityDeposit.Valid {
		item.SecurityDeposit = &securityDeposit.Float64
	}
	if len(tieredRates) > 0 {
		if err := json.Unmarshal(tieredRates, &item.TieredRates); err != nil {
			r.log.Error("failed to decode tiered rates", zap.Error(err))
			return nil, err
		}
	}
	return &item, nil
}

// CustomerRepository implements domain.CustomerRepository against
// PostgreSQL.
type CustomerRepository struct {
	log *logger.Logger
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(log *logger.Logger) *CustomerRepository {
	return &CustomerRepository{log: log}
}

var _ domain.CustomerRepository = (*CustomerRepository)(nil)

// GetByID fetches a single customer.
func (r *CustomerRepository) GetByID(ctx context.Context, q domain.Querier, id uuid.UUID) (*domain.Customer, error) {
	var c domain.Customer
	err := q.QueryRowContext(ctx, `
		SELECT id, name, email, status, created_at, updated_at FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("customer", id)
		}
		r.log.Error("failed to get customer", zap.Error(err))
		return nil, err
	}
	return &c, nil
}

// SupplierRepository implements domain.SupplierRepository against
// PostgreSQL.
type SupplierRepository struct {
	log *logger.Logger
}

// NewSupplierRepository creates a new SupplierRepository.
func NewSupplierRepository(log *logger.Logger) *SupplierRepository {
	return &SupplierRepository{log: log}
}

var _ domain.SupplierRepository = (*SupplierRepository)(nil)

// GetByID fetches a single supplier.
func (r *SupplierRepository) GetByID(ctx context.Context, q domain.Querier, id uuid.UUID) (*domain.Supplier, error) {
	var s domain.Supplier
	err := q.QueryRowContext(ctx, `SELECT id, name FROM suppliers WHERE id = $1`, id).Scan(&s.ID, &s.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("supplier", id)
		}
		r.log.Error("failed to get supplier", zap.Error(err))
		return nil, err
	}
	return &s, nil
}

// LocationRepository implements domain.LocationRepository against
// PostgreSQL.
type LocationRepository struct {
	log *logger.Logger
}

// NewLocationRepository creates a new LocationRepository.
func NewLocationRepository(log *logger.Logger) *LocationRepository {
	return &LocationRepository{log: log}
}

var _ domain.LocationRepository = (*LocationRepository)(nil)

// GetByID fetches a single location.
func (r *LocationRepository) GetByID(ctx context.Context, q domain.Querier, id uuid.UUID) (*domain.Location, error) {
	var l domain.Location
	err := q.QueryRowContext(ctx, `SELECT id, name, is_active FROM locations WHERE id = $1`, id).Scan(&l.ID, &l.Name, &l.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("location", id)
		}
		r.log.Error("failed to get location", zap.Error(err))
		return nil, err
	}
	return &l, nil
}
