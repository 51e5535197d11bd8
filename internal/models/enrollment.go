package models

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentStatus is the lifecycle state of an employee's participation in
// a scheduled training.
type EnrollmentStatus string

const (
	EnrollmentPending    EnrollmentStatus = "PENDING"
	EnrollmentInProgress EnrollmentStatus = "IN_PROGRESS"
	EnrollmentCompleted  EnrollmentStatus = "COMPLETED"
	EnrollmentExpired    EnrollmentStatus = "EXPIRED"
)

// Enrollment links an employee to a training schedule.
// Invariants: CompletedAt is set if and only if Status is COMPLETED; at most
// one non-expired enrollment exists per (employee, schedule) pair.
type Enrollment struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	ScheduleID  uuid.UUID        `json:"schedule_id" db:"schedule_id"`
	EmployeeID  uuid.UUID        `json:"employee_id" db:"employee_id"`
	Status      EnrollmentStatus `json:"status" db:"status"`
	ProgressPct int              `json:"progress_pct" db:"progress_pct"`
	FinalScore  *int             `json:"final_score,omitempty" db:"final_score"`
	CompletedAt *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// EnrollmentView is an enrollment joined with its schedule and module for
// the trainee-facing listing.
type EnrollmentView struct {
	Enrollment
	ModuleTitle     string       `json:"module_title" db:"module_title"`
	ModuleType      TrainingType `json:"training_type" db:"training_type"`
	DurationMinutes int          `json:"duration_minutes" db:"duration_minutes"`
	ScheduleEndDate time.Time    `json:"schedule_end_date" db:"schedule_end_date"`
}

// EnrollRequest is the payload for enrolling an employee into a schedule
type EnrollRequest struct {
	ScheduleID uuid.UUID `json:"schedule_id" binding:"required"`
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
}

// RecordCompletionRequest is the payload for recording a completion outcome
type RecordCompletionRequest struct {
	FinalScore  int        `json:"final_score"`
	CompletedAt *time.Time `json:"completed_at,omitempty"` // defaults to now
}

// UpdateProgressRequest is the payload for a trainee progress update
type UpdateProgressRequest struct {
	ProgressPct int `json:"progress_pct"`
}
