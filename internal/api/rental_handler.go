package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/internal/rental"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

// RentalHandler exposes the rental engine over HTTP.
type RentalHandler struct {
	svc *rental.Service
	log *logger.Logger
}

// NewRentalHandler creates a new RentalHandler.
func NewRentalHandler(svc *rental.Service, log *logger.Logger) *RentalHandler {
	return &RentalHandler{svc: svc, log: log}
}

// CreateRentalLineRequest is one line of a CreateRentalRequest.
type CreateRentalLineRequest struct {
	ItemID           uuid.UUID `json:"item_id" binding:"required"`
	Quantity         int       `json:"quantity" binding:"required,min=1"`
	UnitRate         *float64  `json:"unit_rate"`
	RentalPeriod     int       `json:"rental_period"`
	RentalPeriodUnit string    `json:"rental_period_unit"`
	RentalStartDate  time.Time `json:"rental_start_date" binding:"required"`
	RentalEndDate    time.Time `json:"rental_end_date" binding:"required"`
	SerialNumbers    []string  `json:"serial_numbers"`
	Discount         float64   `json:"discount"`
}

// CreateRentalRequest is the request body for creating a rental.
type CreateRentalRequest struct {
	CustomerID      uuid.UUID                 `json:"customer_id" binding:"required"`
	LocationID      uuid.UUID                 `json:"location_id" binding:"required"`
	TransactionDate time.Time                 `json:"transaction_date"`
	Notes           string                    `json:"notes"`
	Lines           []CreateRentalLineRequest `json:"lines" binding:"required,min=1"`
}

// Create godoc
// @Summary      Create a rental
// @Description  Validates party/availability, prices every line and persists a PENDING rental transaction.
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Param        rental body CreateRentalRequest true "Rental request"
// @Success      201 {object} Response
// @Failure      400 {object} Response
// @Failure      409 {object} Response
// @Security     Bearer
// @Router       /rentals [post]
func (h *RentalHandler) Create(c *gin.Context) {
	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, domain.NewInvalidInputError(err.Error()))
		return
	}

	lines := make([]rental.LineRequest, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = rental.LineRequest{
			ItemID:           l.ItemID,
			Quantity:         l.Quantity,
			UnitRate:         l.UnitRate,
			RentalPeriod:     l.RentalPeriod,
			RentalPeriodUnit: domain.RentalPeriodUnit(l.RentalPeriodUnit),
			RentalStartDate:  l.RentalStartDate,
			RentalEndDate:    l.RentalEndDate,
			SerialNumbers:    l.SerialNumbers,
			Discount:         l.Discount,
		}
	}

	header, createdLines, err := h.svc.Create(c.Request.Context(), rental.CreateRequest{
		CustomerID:      req.CustomerID,
		LocationID:      req.LocationID,
		TransactionDate: req.TransactionDate,
		Notes:           req.Notes,
		Lines:           lines,
	})
	if err != nil {
		h.log.Error("failed to create rental", zap.Error(err))
		SendError(c, err)
		return
	}

	SendCreated(c, gin.H{"header": header, "lines": createdLines}, "rental created")
}

// Pickup godoc
// @Summary      Pick up a rental
// @Description  Transitions a PENDING rental to IN_PROGRESS.
// @Tags         rentals
// @Produce      json
// @Param        id path string true "Rental header ID"
// @Success      200 {object} Response
// @Failure      409 {object} Response
// @Security     Bearer
// @Router       /rentals/{id}/pickup [put]
func (h *RentalHandler) Pickup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		SendError(c, domain.NewInvalidInputError("invalid rental id"))
		return
	}
	header, err := h.svc.Pickup(c.Request.Context(), id)
	if err != nil {
		SendError(c, err)
		return
	}
	SendSuccess(c, header, "rental picked up")
}

// ReturnLine is one returned line in a Return request.
type ReturnLine struct {
	LineID             uuid.UUID `json:"line_id" binding:"required"`
	QuantityReturned   int       `json:"quantity_returned" binding:"required,min=1"`
	ConditionRating    string    `json:"condition_rating" binding:"required"`
	DamageDescription  string    `json:"damage_description"`
	RepairCostEstimate float64   `json:"repair_cost_estimate"`
	PhotoRefs          []string  `json:"photo_refs"`
}

// ReturnRentalRequest is the request body for processing a rental return.
type ReturnRentalRequest struct {
	ActualReturnDate time.Time    `json:"actual_return_date"`
	Lines            []ReturnLine `json:"lines" binding:"required,min=1"`
}

// Return godoc
// @Summary      Process a rental return
// @Description  Records returned quantity/condition per line, computes late fees and deposit refund, releases or restocks inventory.
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Param        id     path string              true "Rental header ID"
// @Param        return body ReturnRentalRequest  true "Return request"
// @Success      200 {object} Response
// @Failure      400 {object} Response
// @Failure      409 {object} Response
// @Security     Bearer
// @Router       /rentals/{id}/return [put]
func (h *RentalHandler) Return(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		SendError(c, domain.NewInvalidInputError("invalid rental id"))
		return
	}
	var req ReturnRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, domain.NewInvalidInputError(err.Error()))
		return
	}

	lines := make([]rental.ReturnLineRequest, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = rental.ReturnLineRequest{
			LineID:             l.LineID,
			QuantityReturned:   l.QuantityReturned,
			ConditionRating:    domain.ConditionRating(l.ConditionRating),
			DamageDescription:  l.DamageDescription,
			RepairCostEstimate: l.RepairCostEstimate,
			PhotoRefs:          l.PhotoRefs,
		}
	}

	header, err := h.svc.ProcessReturn(c.Request.Context(), rental.ProcessReturnRequest{
		HeaderID:         id,
		ActualReturnDate: req.ActualReturnDate,
		Lines:            lines,
	})
	if err != nil {
		SendError(c, err)
		return
	}
	SendSuccess(c, header, "rental return processed")
}

// ExtendRentalRequest is the request body for extending a rental.
type ExtendRentalRequest struct {
	NewEndDate time.Time `json:"new_end_date" binding:"required"`
}

// Extend godoc
// @Summary      Extend a rental
// @Description  Pushes the rental_end_date of every line still out on rent, subject to the extension limit and availability.
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Param        id     path string              true "Rental header ID"
// @Param        extend body ExtendRentalRequest  true "Extension request"
// @Success      200 {object} Response
// @Failure      409 {object} Response
// @Security     Bearer
// @Router       /rentals/{id}/extend [put]
func (h *RentalHandler) Extend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		SendError(c, domain.NewInvalidInputError("invalid rental id"))
		return
	}
	var req ExtendRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, domain.NewInvalidInputError(err.Error()))
		return
	}
	header, err := h.svc.Extend(c.Request.Context(), rental.ExtendRequest{HeaderID: id, NewEndDate: req.NewEndDate})
	if err != nil {
		SendError(c, err)
		return
	}
	SendSuccess(c, header, "rental extended")
}

// Availability godoc
// @Summary      Check rental availability
// @Description  Pure read: reserved/available quantity for an item/location/window, with alternative-window suggestions when unavailable.
// @Tags         rentals
// @Produce      json
// @Param        item_id     query string true  "Item ID"
// @Param        location_id query string true  "Location ID"
// @Param        start       query string true  "Window start (RFC3339)"
// @Param        end         query string true  "Window end (RFC3339)"
// @Success      200 {object} Response
// @Failure      400 {object} Response
// @Router       /rentals/availability [get]
func (h *RentalHandler) Availability(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		SendError(c, domain.NewInvalidInputError("invalid item_id"))
		return
	}
	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		SendError(c, domain.NewInvalidInputError("invalid location_id"))
		return
	}
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		SendError(c, domain.NewInvalidInputError("invalid start"))
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		SendError(c, domain.NewInvalidInputError("invalid end"))
		return
	}

	result, err := h.svc.CheckAvailability(c.Request.Context(), itemID, locationID, start, end)
	if err != nil {
		SendError(c, err)
		return
	}
	SendSuccess(c, result, "availability computed")
}
