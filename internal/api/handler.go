package api

import (
	"github.com/gin-gonic/gin"

	"github.com/SimpleBookRental/backend/internal/purchase"
	"github.com/SimpleBookRental/backend/internal/rental"
	"github.com/SimpleBookRental/backend/pkg/logger"
)

// Handler is a factory for every HTTP handler in the transport.
type Handler struct {
	Rental   *RentalHandler
	Purchase *PurchaseHandler
	log      *logger.Logger
}

// NewHandler wires the HTTP handlers around the already-constructed
// engine services.
func NewHandler(rentalSvc *rental.Service, purchaseSvc *purchase.Service, log *logger.Logger) *Handler {
	handlerLog := log.Named("handler")
	return &Handler{
		Rental:   NewRentalHandler(rentalSvc, handlerLog.Named("rental")),
		Purchase: NewPurchaseHandler(purchaseSvc, handlerLog.Named("purchase")),
		log:      handlerLog,
	}
}

// RegisterRoutes mounts every route under /api/v1.
func (h *Handler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	v1 := router.Group("/api/v1")
	v1.Use(mw.AuthMiddleware())

	rentals := v1.Group("/rentals")
	{
		rentals.POST("", h.Rental.Create)
		rentals.PUT("/:id/pickup", h.Rental.Pickup)
		rentals.PUT("/:id/return", h.Rental.Return)
		rentals.PUT("/:id/extend", h.Rental.Extend)
		rentals.GET("/availability", h.Rental.Availability)
	}

	purchases := v1.Group("/purchases")
	{
		purchases.POST("", h.Purchase.Create)
		purchases.POST("/returns", h.Purchase.CreateReturn)
		purchases.PUT("/returns/lines/:lineId/inspection", h.Purchase.CompleteInspection)

		// Approval and vendor-credit issuance are manager-gated.
		managerOnly := purchases.Group("/returns")
		managerOnly.Use(mw.RequireManager())
		{
			managerOnly.PUT("/:id/approve", h.Purchase.Approve)
			managerOnly.POST("/:id/vendor-credit", h.Purchase.VendorCredit)
		}
	}
}
