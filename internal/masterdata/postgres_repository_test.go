package masterdata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/pkg/config"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&config.LoggingConfig{Level: "error", Format: "console"})
	assert.NoError(t, err)
	return log
}

func TestItemRepositoryGetByID_Found(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewItemRepository(testLogger(t))
	id := uuid.New()

	rows := sqlmock.NewRows([]string{
		"id", "sku", "name", "category_id", "brand_id", "unit_of_measurement_id", "is_rentable", "is_sellable",
		"requires_serial_number", "base_rate_per_period", "default_period_unit", "tiered_rates", "security_deposit", "unit_value",
	}).AddRow(id, "SKU-1", "Drill", nil, nil, nil, true, false, true, 25.0, "DAY", []byte(`[{"min_periods":1,"max_periods":6,"rate":25}]`), 300.0, 1000.0)

	mock.ExpectQuery(`SELECT id, sku, name, category_id, brand_id, unit_of_measurement_id, is_rentable, is_sellable`).
		WithArgs(id).
		WillReturnRows(rows)

	item, err := repo.GetByID(context.Background(), db, id)
	assert.NoError(t, err)
	assert.Equal(t, "SKU-1", item.SKU)
	assert.True(t, item.IsRentable)
	assert.Len(t, item.TieredRates, 1)
	assert.Equal(t, 25.0, item.TieredRates[0].Rate)
	assert.NotNil(t, item.SecurityDeposit)
	assert.Equal(t, 300.0, *item.SecurityDeposit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepositoryGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewItemRepository(testLogger(t))
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, sku, name, category_id, brand_id, unit_of_measurement_id, is_rentable, is_sellable`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	item, err := repo.GetByID(context.Background(), db, id)
	assert.Nil(t, item)
	var appErr *domain.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
