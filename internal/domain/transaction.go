package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionType discriminates header/line behavior instead of a type
// hierarchy.
// RETURN covers both purchase and sale returns; ReferenceTransactionID
// plus the referenced header's own Type disambiguate which.
type TransactionType string

const (
	TxPurchase TransactionType = "PURCHASE"
	TxSale     TransactionType = "SALE"
	TxRental   TransactionType = "RENTAL"
	TxReturn   TransactionType = "RETURN"
)

// TransactionStatus is the header-level status machine for non-rental
// transaction types.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "PENDING"
	StatusProcessing TransactionStatus = "PROCESSING"
	StatusOnHold     TransactionStatus = "ON_HOLD"
	StatusInProgress TransactionStatus = "IN_PROGRESS"
	StatusCompleted  TransactionStatus = "COMPLETED"
	StatusCancelled  TransactionStatus = "CANCELLED"
)

// PaymentStatus is derived from payments recorded against a header.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPartial  PaymentStatus = "PARTIAL"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// RentalLineStatus is the per-line state machine for RENTAL lines.
type RentalLineStatus string

const (
	RentalPending            RentalLineStatus = "RENTAL_PENDING"
	RentalInProgress         RentalLineStatus = "RENTAL_INPROGRESS"
	RentalLate               RentalLineStatus = "RENTAL_LATE"
	RentalExtended           RentalLineStatus = "RENTAL_EXTENDED"
	RentalPartialReturn      RentalLineStatus = "RENTAL_PARTIAL_RETURN"
	RentalLatePartialReturn  RentalLineStatus = "RENTAL_LATE_PARTIAL_RETURN"
	RentalCompleted          RentalLineStatus = "RENTAL_COMPLETED"
)

// nonRentalTransitions enumerates legal header status transitions for
// non-rental transaction types.
var nonRentalTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusOnHold, StatusCancelled},
	StatusOnHold:     {StatusProcessing, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether a header may move from `from` to `to`.
// Invalid attempts must fail with INVALID_TRANSITION, never be silently
// ignored.
func CanTransition(from, to TransactionStatus) bool {
	for _, allowed := range nonRentalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// RentalPeriodUnit is the billing period granularity for a rental line.
type RentalPeriodUnit string

const (
	PeriodDay   RentalPeriodUnit = "DAY"
	PeriodWeek  RentalPeriodUnit = "WEEK"
	PeriodMonth RentalPeriodUnit = "MONTH"
)

// TransactionHeader is the shared envelope for every transaction type;
// type-specific fields live on TransactionLine and RentalLifecycle
// rather than on subclasses.
type TransactionHeader struct {
	ID                    uuid.UUID         `json:"id"`
	TransactionNumber     string            `json:"transaction_number"`
	Type                  TransactionType   `json:"type"`
	Status                TransactionStatus `json:"status"`
	PaymentStatus         PaymentStatus     `json:"payment_status"`
	CustomerID            uuid.UUID         `json:"customer_id,omitempty"`
	SupplierID            uuid.UUID         `json:"supplier_id,omitempty"`
	LocationID            uuid.UUID         `json:"location_id"`
	ReferenceTransactionID *uuid.UUID       `json:"reference_transaction_id,omitempty"`
	SubtotalAmount        float64           `json:"subtotal_amount"`
	DiscountAmount        float64           `json:"discount_amount"`
	TaxAmount             float64           `json:"tax_amount"`
	ShippingAmount        float64           `json:"shipping_amount"`
	TotalAmount           float64           `json:"total_amount"`
	PaidAmount            float64           `json:"paid_amount"`
	DepositAmount         float64           `json:"deposit_amount"`
	ExtensionCount        int               `json:"extension_count"`
	TotalExtensionCharges float64           `json:"total_extension_charges"`
	TransactionDate       time.Time         `json:"transaction_date"`
	Notes                 string            `json:"notes,omitempty"`
	CreditNoteNumber      string            `json:"credit_note_number,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// TransactionLine is one item line on a header. Rental-specific fields
// are zero-valued for non-rental types. Quantity is signed: negative
// for return lines.
type TransactionLine struct {
	ID             uuid.UUID `json:"id"`
	HeaderID       uuid.UUID `json:"header_id"`
	LineNumber     int       `json:"line_number"`
	LineType       string    `json:"line_type,omitempty"`
	ItemID         uuid.UUID `json:"item_id"`
	SKU            string    `json:"sku,omitempty"`
	Description    string    `json:"description,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPrice      float64   `json:"unit_price"`
	DiscountAmount float64   `json:"discount_amount,omitempty"`
	TaxAmount      float64   `json:"tax_amount,omitempty"`
	LineTotal      float64   `json:"line_total"`

	// Rental-only fields.
	RentalStartDate     time.Time        `json:"rental_start_date,omitempty"`
	RentalEndDate       time.Time        `json:"rental_end_date,omitempty"`
	RentalPeriod        int              `json:"rental_period,omitempty"`
	RentalPeriodUnit    RentalPeriodUnit `json:"rental_period_unit,omitempty"`
	CurrentRentalStatus RentalLineStatus `json:"current_rental_status,omitempty"`
	DailyRate           float64          `json:"daily_rate,omitempty"`
	ReturnedQuantity    int              `json:"returned_quantity,omitempty"`
	ReturnCondition     ConditionRating  `json:"return_condition,omitempty"`
	InspectionStatus    string           `json:"inspection_status,omitempty"`
	ExtensionCount      int              `json:"extension_count,omitempty"`
	UnitIDs             []uuid.UUID      `json:"unit_ids,omitempty"`

	// Return-only field: why this line was returned. Empty for
	// non-return lines.
	ReturnReason ReturnReason `json:"return_reason,omitempty"`
}

// OutstandingQuantity is the quantity still out on rent for this line.
func (l *TransactionLine) OutstandingQuantity() int {
	return l.Quantity - l.ReturnedQuantity
}

// Payment is one payment or refund recorded against a header.
type Payment struct {
	ID        uuid.UUID `json:"id"`
	HeaderID  uuid.UUID `json:"header_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method,omitempty"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DerivePaymentStatus computes PaymentStatus from total vs paid amount:
// PENDING if paid=0, PARTIAL if 0<paid<total, PAID if paid>=total,
// REFUNDED for returns with a non-zero refund issued.
func DerivePaymentStatus(total, paid float64, isRefund bool) PaymentStatus {
	if isRefund && paid != 0 {
		return PaymentRefunded
	}
	switch {
	case paid <= 0:
		return PaymentPending
	case paid < total:
		return PaymentPartial
	default:
		return PaymentPaid
	}
}

// RentalLifecycle is the per-header auxiliary record tracking expected
// vs. actual pickup/return timestamps and aggregated financial outcomes.
type RentalLifecycle struct {
	HeaderID              uuid.UUID        `json:"header_id"`
	AggregateStatus       RentalLineStatus `json:"aggregate_status,omitempty"`
	ExpectedPickupDate    *time.Time       `json:"expected_pickup_date,omitempty"`
	ActualPickupDate      *time.Time       `json:"actual_pickup_date,omitempty"`
	ExpectedReturnDate    *time.Time       `json:"expected_return_date,omitempty"`
	ActualReturnDate      *time.Time       `json:"actual_return_date,omitempty"`
	LateFees              float64          `json:"late_fees"`
	DamageCharges         float64          `json:"damage_charges"`
	DepositRefundAmount   float64          `json:"deposit_refund_amount"`
	ExtensionCount        int              `json:"extension_count"`
	TotalExtensionCharges float64          `json:"total_extension_charges"`
}

// TransactionRepository is C2's persistence seam for headers, lines and
// payments. Every method accepts the caller's Querier so it composes
// inside whichever engine-operation transaction is already open.
type TransactionRepository interface {
	NextTransactionNumber(ctx context.Context, q Querier, txType TransactionType) (string, error)
	CreateHeader(ctx context.Context, q Querier, h *TransactionHeader, lines []*TransactionLine) error
	GetHeader(ctx context.Context, q Querier, id uuid.UUID) (*TransactionHeader, error)
	GetHeaderWithLines(ctx context.Context, q Querier, id uuid.UUID) (*TransactionHeader, []*TransactionLine, error)
	UpdateHeader(ctx context.Context, q Querier, h *TransactionHeader) error
	UpdateHeaderStatus(ctx context.Context, q Querier, id uuid.UUID, status TransactionStatus) error
	UpdateLine(ctx context.Context, q Querier, line *TransactionLine) error
	ListLines(ctx context.Context, q Querier, headerID uuid.UUID) ([]*TransactionLine, error)
	// GetLine fetches a single line by its own id, independent of its
	// header, for operations (inspection completion) that only know the
	// line.
	GetLine(ctx context.Context, q Querier, lineID uuid.UUID) (*TransactionLine, error)
	RecordPayment(ctx context.Context, q Querier, p *Payment) (*TransactionHeader, error)
	ListPayments(ctx context.Context, q Querier, headerID uuid.UUID) ([]*Payment, error)
	GetRentalLifecycle(ctx context.Context, q Querier, headerID uuid.UUID) (*RentalLifecycle, error)
	UpsertRentalLifecycle(ctx context.Context, q Querier, l *RentalLifecycle) error
	// ListReturnsByReference returns all non-cancelled RETURN headers
	// whose ReferenceTransactionID is originalID, for cumulative
	// returned-quantity aggregation across multiple partial returns.
	ListReturnsByReference(ctx context.Context, q Querier, originalID uuid.UUID) ([]*TransactionHeader, []*TransactionLine, error)
	// CountOverlappingRentalQuantity sums committed quantity across active
	// rental lines for itemID at locationID whose window intersects
	// [start, end], excluding excludeLineID if non-nil.
	CountOverlappingRentalQuantity(ctx context.Context, q Querier, itemID, locationID uuid.UUID, start, end time.Time, excludeLineID *uuid.UUID) (int, error)
	// ListHeaderIDsByTypeAndStatus returns header IDs matching txType and
	// status, for the reconciliation sweep to scan for overdue rentals.
	ListHeaderIDsByTypeAndStatus(ctx context.Context, q Querier, txType TransactionType, status TransactionStatus) ([]uuid.UUID, error)
}
