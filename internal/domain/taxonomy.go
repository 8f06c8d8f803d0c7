package domain

import "github.com/google/uuid"

// Category, Brand and UnitOfMeasurement are descriptive taxa referenced
// by Item; the core has no behavioral invariants over them beyond
// existence
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Brand struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type UnitOfMeasurement struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
}
