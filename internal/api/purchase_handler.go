package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SimpleBookRental/backend/internal/domain"
	"github.com/SimpleBookRental/backend/internal/purchase"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

// PurchaseHandler exposes the purchase & returns engine over HTTP.
type PurchaseHandler struct {
	svc *purchase.Service
	log *logger.Logger
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(svc *purchase.Service, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{svc: svc, log: log}
}

// CreatePurchaseLineRequest is one line of a CreatePurchaseRequest.
type CreatePurchaseLineRequest struct {
	ItemID        uuid.UUID `json:"item_id" binding:"required"`
	Quantity      int       `json:"quantity" binding:"required,min=1"`
	UnitCost      float64   `json:"unit_cost" binding:"required"`
	SerialNumbers []string  `json:"serial_numbers"`
	Discount      float64   `json:"discount"`
}

// CreatePurchaseRequest is the request body for creating a purchase.
type CreatePurchaseRequest struct {
	SupplierID      uuid.UUID                   `json:"supplier_id" binding:"required"`
	LocationID      uuid.UUID                   `json:"location_id" binding:"required"`
	TransactionDate time.Time                   `json:"transaction_date"`
	ReferenceNumber string                      `json:"reference_number"`
	Notes           string                      `json:"notes"`
	AutoComplete    bool                        `json:"auto_complete"`
	Lines           []CreatePurchaseLineRequest `json:"lines" binding:"required,min=1"`
}

// Create godoc
// @Summary      Create a purchase
// @Description  Persists a purchase header and lines; when auto_complete is set, materializes inventory units in the same transaction.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        purchase body CreatePurchaseRequest true "Purchase request"
// @Success      201 {object} Response
// @Failure      400 {object} Response
// @Security     Bearer
// @Router       /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, domain.NewInvalidInputError(err.Error()))
		return
	}

	lines := make([]purchase.PurchaseLineRequest, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = purchase.PurchaseLineRequest{
			ItemID: l.ItemID, Quantity: l.Quantity, UnitCost: l.UnitCost,
			SerialNumbers: l.SerialNumbers, Discount: l.Discount,
		}
	}

	header, createdLines, err := h.svc.Create(c.Request.Context(), purchase.CreateRequest{
		SupplierID: req.SupplierID, LocationID: req.LocationID, TransactionDate: req.TransactionDate,
		ReferenceNumber: req.ReferenceNumber, Notes: req.Notes, AutoComplete: req.AutoComplete, Lines: lines,
	})
	if err != nil {
		h.log.Error("failed to create purchase", zap.Error(err))
		SendError(c, err)
		return
	}
	SendCreated(c, gin.H{"header": header, "lines": createdLines}, "purchase created")
}

// CreateReturnLineRequest is one line of a CreateReturnRequest.
type CreateReturnLineRequest struct {
	ItemID          uuid.UUID `json:"item_id" binding:"required"`
	Quantity        int       `json:"quantity" binding:"required,min=1"`
	ConditionRating string    `json:"condition_rating"`
	Notes           string    `json:"notes"`
}

// CreateReturnRequest is the request body for creating a purchase return.
type CreateReturnRequest struct {
	OriginalPurchaseID uuid.UUID                 `json:"original_purchase_id" binding:"required"`
	Reason             string                    `json:"reason" binding:"required"`
	RMANumber          string                    `json:"rma_number"`
	RequiresInspection bool                      `json:"requires_inspection"`
	Lines              []CreateReturnLineRequest `json:"lines" binding:"required,min=1"`
}

// CreateReturn godoc
// @Summary      Create a purchase return
// @Description  Validates the return against the original purchase, computes proportional amounts and restocking fee, and persists a negative-totals RETURN header.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        return body CreateReturnRequest true "Return request"
// @Success      201 {object} Response
// @Failure      400 {object} Response
// @Failure      409 {object} Response
// @Security     Bearer
// @Router       /purchases/returns [post]
func (h *PurchaseHandler) CreateReturn(c *gin.Context) {
	var req CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, domain.NewInvalidInputError(err.Error()))
		return
	}

	lines := make([]purchase.ReturnLineRequest, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = purchase.ReturnLineRequest{
			ItemID: l.ItemID, Quantity: l.Quantity,
			ConditionRating: domain.ConditionRating(l.ConditionRating), Notes: l.Notes,
		}
	}

	header, createdLines, err := h.svc.CreateReturn(c.Request.Context(), purchase.CreateReturnRequest{
		OriginalPurchaseID: req.OriginalPurchaseID,
		Reason:             domain.ReturnReason(req.Reason),
		RMANumber:          req.RMANumber,
		RequiresInspection: req.RequiresInspection,
		Lines:              lines,
	})
	if err != nil {
		h.log.Error("failed to create purchase return", zap.Error(err))
		SendError(c, err)
		return
	}
	SendCreated(c, gin.H{"header": header, "lines": createdLines}, "purchase return created")
}

// CompleteInspectionRequest is the request body for completing a
// deferred line inspection.
type CompleteInspectionRequest struct {
	ConditionRating    string   `json:"condition_rating" binding:"required"`
	DamageDescription  string   `json:"damage_description"`
	RepairCostEstimate float64  `json:"repair_cost_estimate"`
	PhotoRefs          []string `json:"photo_refs"`
}

// CompleteInspection godoc
// @Summary      Complete a purchase-return line inspection
// @Description  Records the physical-check findings for a PENDING line inspection and restocks or segregates the returned quantity accordingly.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        lineId     path string                    true "Return line ID"
// @Param        inspection body CompleteInspectionRequest true "Inspection result"
// @Success      200 {object} Response
// @Failure      400 {object} Response
// @Failure      404 {object} Response
// @Security     Bearer
// @Router       /purchases/returns/lines/{lineId}/inspection [put]
func (h *PurchaseHandler) CompleteInspection(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		SendError(c, domain.NewInvalidInputError("invalid line id"))
		return
	}
	var req CompleteInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, domain.NewInvalidInputError(err.Error()))
		return
	}

	if err := h.svc.CompleteInspection(c.Request.Context(), purchase.InspectionResultRequest{
		LineID: lineID, ConditionRating: domain.ConditionRating(req.ConditionRating),
		DamageDescription: req.DamageDescription, RepairCostEstimate: req.RepairCostEstimate, PhotoRefs: req.PhotoRefs,
	}); err != nil {
		SendError(c, err)
		return
	}
	SendSuccess(c, nil, "inspection completed")
}

// Approve godoc
// @Summary      Approve a purchase return
// @Description  Manager-only. Manually approves a PENDING return that did not auto-approve, transitioning it to PROCESSING.
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Return header ID"
// @Success      200 {object} Response
// @Failure      409 {object} Response
// @Security     Bearer
// @Router       /purchases/returns/{id}/approve [put]
func (h *PurchaseHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		SendError(c, domain.NewInvalidInputError("invalid return id"))
		return
	}
	header, err := h.svc.ApproveReturn(c.Request.Context(), id)
	if err != nil {
		SendError(c, err)
		return
	}
	SendSuccess(c, header, "purchase return approved")
}

// VendorCreditRequest is the request body for issuing a vendor credit.
type VendorCreditRequest struct {
	CreditNoteNumber string `json:"credit_note_number" binding:"required"`
}

// VendorCredit godoc
// @Summary      Issue a vendor credit
// @Description  Manager-only. Requires every line inspection complete; records the refund payment, stamps the credit note number and closes the return out as COMPLETED.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id     path string              true "Return header ID"
// @Param        credit body VendorCreditRequest  true "Vendor credit request"
// @Success      200 {object} Response
// @Failure      409 {object} Response
// @Security     Bearer
// @Router       /purchases/returns/{id}/vendor-credit [post]
func (h *PurchaseHandler) VendorCredit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		SendError(c, domain.NewInvalidInputError("invalid return id"))
		return
	}
	var req VendorCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, domain.NewInvalidInputError(err.Error()))
		return
	}
	header, err := h.svc.ProcessVendorCredit(c.Request.Context(), purchase.ProcessVendorCreditRequest{
		HeaderID: id, CreditNoteNumber: req.CreditNoteNumber,
	})
	if err != nil {
		SendError(c, err)
		return
	}
	SendSuccess(c, header, "vendor credit issued")
}
