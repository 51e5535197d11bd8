package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate records an issued completion certificate. VerificationCode is
// derived deterministically from the completion facts, so re-printing the
// same certificate always yields the same code.
type Certificate struct {
	ID               uuid.UUID `json:"id" db:"id"`
	EnrollmentID     uuid.UUID `json:"enrollment_id" db:"enrollment_id"`
	EmployeeID       uuid.UUID `json:"employee_id" db:"employee_id"`
	VerificationCode string    `json:"verification_code" db:"verification_code"`
	IssuedAt         time.Time `json:"issued_at" db:"issued_at"`
}
