package models

import (
	"time"

	"github.com/google/uuid"
)

// JobRole is a professional function/title (e.g. "Phlebotomist").
// IsCriticalFunction flags roles under heightened RDC 978 monitoring.
// A role cannot be deleted while any employee references it.
type JobRole struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	IsCriticalFunction bool      `json:"is_critical_function" db:"is_critical_function"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// SaveJobRoleRequest is the payload for creating or updating a job role
type SaveJobRoleRequest struct {
	Name               string `json:"name" binding:"required"`
	IsCriticalFunction bool   `json:"is_critical_function"`
}
