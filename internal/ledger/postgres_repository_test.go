package ledger

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

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

func TestAdjustStock_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(testLogger(t))
	itemID, locationID, levelID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT id, item_id, location_id, quantity_on_hand, quantity_available, quantity_on_rent, quantity_damaged, updated_at\s+FROM stock_levels`).
		WithArgs(itemID, locationID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "item_id", "location_id", "quantity_on_hand", "quantity_available", "quantity_on_rent", "quantity_damaged", "updated_at",
		}).AddRow(levelID, itemID, locationID, 10, 10, 0, 0, time.Now()))

	mock.ExpectExec(`UPDATE stock_levels`).
		WithArgs(10, 7, 3, 0, levelID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(`INSERT INTO stock_movements`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	movement, err := repo.AdjustStock(context.Background(), db, itemID, locationID,
		domain.StockDelta{Available: -3, OnRent: 3}, domain.MovementRentalOut, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 10, movement.QuantityBefore)
	assert.Equal(t, 7, movement.QuantityAfter)
	assert.Equal(t, -3, movement.QuantityChange)
	assert.Equal(t, movement.QuantityBefore+movement.QuantityChange, movement.QuantityAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStock_InsufficientAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(testLogger(t))
	itemID, locationID, levelID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT id, item_id, location_id, quantity_on_hand, quantity_available, quantity_on_rent, quantity_damaged, updated_at\s+FROM stock_levels`).
		WithArgs(itemID, locationID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "item_id", "location_id", "quantity_on_hand", "quantity_available", "quantity_on_rent", "quantity_damaged", "updated_at",
		}).AddRow(levelID, itemID, locationID, 2, 2, 0, 0, time.Now()))

	movement, err := repo.AdjustStock(context.Background(), db, itemID, locationID,
		domain.StockDelta{Available: -3, OnRent: 3}, domain.MovementRentalOut, nil, nil)
	assert.Nil(t, movement)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStock_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(testLogger(t))
	itemID, locationID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT id, item_id, location_id, quantity_on_hand, quantity_available, quantity_on_rent, quantity_damaged, updated_at\s+FROM stock_levels`).
		WithArgs(itemID, locationID).
		WillReturnError(sql.ErrNoRows)

	movement, err := repo.AdjustStock(context.Background(), db, itemID, locationID,
		domain.StockDelta{Available: -1}, domain.MovementRentalOut, nil, nil)
	assert.Nil(t, movement)
	var appErr *domain.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
