package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit represents a physical laboratory location. Units are shared reference
// data: created during setup, rarely mutated, never deleted while employees
// reference them.
type Unit struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Address          string    `json:"address" db:"address"`
	TechnicalManager string    `json:"technical_manager" db:"technical_manager"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Sector is a subdivision of a Unit. It belongs to exactly one unit; the
// relation is referential, the unit does not own the sector's lifecycle.
type Sector struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UnitID    uuid.UUID `json:"unit_id" db:"unit_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateUnitRequest is the payload for creating or updating a unit
type CreateUnitRequest struct {
	Name             string `json:"name" binding:"required"`
	Address          string `json:"address"`
	TechnicalManager string `json:"technical_manager"`
}

// CreateSectorRequest is the payload for creating a sector under a unit
type CreateSectorRequest struct {
	Name string `json:"name" binding:"required"`
}
