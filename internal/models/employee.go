package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemRole is the application access role, separate from the professional
// JobRole used by the training matrix.
type SystemRole string

const (
	SystemRoleAdmin        SystemRole = "ADMIN"
	SystemRoleUnitManager  SystemRole = "UNIT_MANAGER"
	SystemRoleInstructor   SystemRole = "INSTRUCTOR"
	SystemRoleCollaborator SystemRole = "COLLABORATOR"
)

// Valid reports whether the system role is one of the known values
func (r SystemRole) Valid() bool {
	switch r {
	case SystemRoleAdmin, SystemRoleUnitManager, SystemRoleInstructor, SystemRoleCollaborator:
		return true
	}
	return false
}

// Employee represents a laboratory collaborator. Employees are soft-disabled
// via IsActive and never hard-deleted once enrollment history exists.
// PasswordHash never leaves the server.
type Employee struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	FullName           string     `json:"full_name" db:"full_name"`
	CPF                string     `json:"cpf" db:"cpf"`
	Email              string     `json:"email" db:"email"`
	UnitID             uuid.UUID  `json:"unit_id" db:"unit_id"`
	SectorID           uuid.UUID  `json:"sector_id" db:"sector_id"`
	RoleID             *uuid.UUID `json:"role_id,omitempty" db:"role_id"`
	SystemRole         SystemRole `json:"system_role" db:"system_role"`
	AdmissionDate      time.Time  `json:"admission_date" db:"admission_date"`
	IsActive           bool       `json:"is_active" db:"is_active"`
	MustChangePassword bool       `json:"must_change_password" db:"must_change_password"`
	PasswordHash       string     `json:"-" db:"password_hash"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateEmployeeRequest is the onboarding payload
type CreateEmployeeRequest struct {
	FullName      string     `json:"full_name" binding:"required"`
	CPF           string     `json:"cpf" binding:"required"`
	Email         string     `json:"email" binding:"required,email"`
	UnitID        uuid.UUID  `json:"unit_id" binding:"required"`
	SectorID      uuid.UUID  `json:"sector_id" binding:"required"`
	RoleID        *uuid.UUID `json:"role_id,omitempty"`
	SystemRole    SystemRole `json:"system_role" binding:"required"`
	AdmissionDate string     `json:"admission_date" binding:"required"` // YYYY-MM-DD
	Password      string     `json:"password" binding:"required,min=8"`
}

// UpdateEmployeeRequest is the admin-edit payload; nil fields are untouched
type UpdateEmployeeRequest struct {
	FullName   *string     `json:"full_name,omitempty"`
	Email      *string     `json:"email,omitempty"`
	UnitID     *uuid.UUID  `json:"unit_id,omitempty"`
	SectorID   *uuid.UUID  `json:"sector_id,omitempty"`
	RoleID     *uuid.UUID  `json:"role_id,omitempty"`
	SystemRole *SystemRole `json:"system_role,omitempty"`
	IsActive   *bool       `json:"is_active,omitempty"`
}
