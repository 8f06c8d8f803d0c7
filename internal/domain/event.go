package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType discriminates journal payloads. Tagged by type rather than
// by Go type hierarchy, consistent with the transaction discriminant
// convention.
type EventType string

const (
	EventRentalCreated          EventType = "RENTAL_CREATED"
	EventRentalPickup           EventType = "RENTAL_PICKUP"
	EventRentalExtended         EventType = "RENTAL_EXTENDED"
	EventRentalReturned         EventType = "RENTAL_RETURNED"
	EventRentalOverdue          EventType = "RENTAL_OVERDUE"
	EventPurchaseCreated        EventType = "PURCHASE_CREATED"
	EventPurchaseReturnCreated  EventType = "PURCHASE_RETURN_CREATED"
	EventVendorCreditProcessed  EventType = "VENDOR_CREDIT_PROCESSED"
	EventSaleCompleted          EventType = "SALE_COMPLETED"
	EventPaymentRecorded        EventType = "PAYMENT_RECORDED"
	EventStatusChanged          EventType = "STATUS_CHANGED"
)

// TransactionEvent is an append-only journal entry sharing the
// triggering mutation's transaction scope: an event is never observable
// for a rolled-back operation.
type TransactionEvent struct {
	ID          uuid.UUID              `json:"id"`
	HeaderID    uuid.UUID              `json:"transaction_header_id"`
	LineID      *uuid.UUID             `json:"line_id,omitempty"`
	EventType   EventType              `json:"event_type"`
	Description string                 `json:"description,omitempty"`
	Actor       string                 `json:"actor,omitempty"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Sequence    int64                  `json:"sequence"`
}

// EventRepository is C5's persistence seam. Append must run inside the
// same DB transaction as the mutation it records — the event log
// components (internal/eventlog) accept the enclosing *sql.Tx directly
// rather than opening their own.
type EventRepository interface {
	Append(ctx context.Context, q Querier, e *TransactionEvent) error
	ListByHeader(ctx context.Context, q Querier, headerID uuid.UUID, eventType *EventType, limit, offset int) ([]*TransactionEvent, error)
}
