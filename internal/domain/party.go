package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CustomerStatus is the lifecycle status of a customer account.
type CustomerStatus string

const (
	CustomerActive      CustomerStatus = "ACTIVE"
	CustomerInactive     CustomerStatus = "INACTIVE"
	CustomerBlacklisted CustomerStatus = "BLACKLISTED"
)

// Customer is a party a rental may be issued to.
type Customer struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Status    CustomerStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Supplier is the vendor party on purchase and purchase-return headers.
// The core has no behavioral invariants over suppliers beyond existence.
type Supplier struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SupplierRepository is the persistence seam for Supplier.
type SupplierRepository interface {
	GetByID(ctx context.Context, q Querier, id uuid.UUID) (*Supplier, error)
}

// Location partitions stock: every (item, location) pair owns its own
// stock record.
type Location struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}

// CustomerRepository is the persistence seam for Customer.
type CustomerRepository interface {
	GetByID(ctx context.Context, q Querier, id uuid.UUID) (*Customer, error)
}

// LocationRepository is the persistence seam for Location.
type LocationRepository interface {
	GetByID(ctx context.Context, q Querier, id uuid.UUID) (*Location, error)
}

// CustomerGate is the single richer shape for the credit/eligibility
// check, collapsing what used to be duplicated credit-check logic into
// one place.
type CustomerGate struct {
	repo CustomerRepository
}

func NewCustomerGate(repo CustomerRepository) *CustomerGate {
	return &CustomerGate{repo: repo}
}

// Check returns whether the customer may be issued a rental and, when
// not, the reason.
func (g *CustomerGate) Check(ctx context.Context, q Querier, customerID uuid.UUID) (bool, string, error) {
	customer, err := g.repo.GetByID(ctx, q, customerID)
	if err != nil {
		return false, "", err
	}
	switch customer.Status {
	case CustomerActive:
		return true, "", nil
	case CustomerBlacklisted:
		return false, "customer is blacklisted", nil
	default:
		return false, "customer is not active", nil
	}
}
