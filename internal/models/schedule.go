package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ScheduleStatus is the lifecycle state of a planned training offering
type ScheduleStatus string

const (
	SchedulePlanned   ScheduleStatus = "PLANNED"
	ScheduleActive    ScheduleStatus = "ACTIVE"
	ScheduleFinished  ScheduleStatus = "FINISHED"
	ScheduleCancelled ScheduleStatus = "CANCELLED"
)

// TrainingSchedule is a planned offering of a module at a unit with an
// instructor. One module may have many schedules over time.
type TrainingSchedule struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	ModuleID     uuid.UUID      `json:"module_id" db:"module_id"`
	UnitID       *uuid.UUID     `json:"unit_id,omitempty" db:"unit_id"`
	InstructorID uuid.UUID      `json:"instructor_id" db:"instructor_id"`
	StartDate    time.Time      `json:"start_date" db:"start_date"`
	EndDate      time.Time      `json:"end_date" db:"end_date"`
	Status       ScheduleStatus `json:"status" db:"status"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`

	// Joined for listing screens
	ModuleTitle  *string       `json:"module_title,omitempty" db:"module_title"`
	TrainingType *TrainingType `json:"training_type,omitempty" db:"training_type"`
}

// CreateScheduleRequest is the payload for planning a training offering
type CreateScheduleRequest struct {
	ModuleID     uuid.UUID  `json:"module_id" binding:"required"`
	UnitID       *uuid.UUID `json:"unit_id,omitempty"`
	InstructorID uuid.UUID  `json:"instructor_id" binding:"required"`
	StartDate    string     `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate      string     `json:"end_date" binding:"required"`   // YYYY-MM-DD
}

// Validate parses and validates the schedule dates
func (r *CreateScheduleRequest) Validate() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start_date must be in YYYY-MM-DD format")
	}
	end, err = time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end_date must be in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end_date must not be before start_date")
	}
	return start, end, nil
}
