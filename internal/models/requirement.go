package models

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is the recertification cadence shown on the training matrix
type Frequency string

const (
	FrequencyOnce        Frequency = "ONCE"
	FrequencyBiannual    Frequency = "BIANNUAL"
	FrequencyAnnual      Frequency = "ANNUAL"
	FrequencyEvery3Years Frequency = "EVERY_3_YEARS"
)

// MonthsFromFrequency converts a frequency to a recertification period in
// months. ONCE maps to nil (one-time, never expires). Unknown values default
// to ANNUAL so matrix edits stay usable when the enum grows; callers log the
// fallback.
func MonthsFromFrequency(f Frequency) *int {
	switch f {
	case FrequencyOnce:
		return nil
	case FrequencyBiannual:
		m := 6
		return &m
	case FrequencyAnnual:
		m := 12
		return &m
	case FrequencyEvery3Years:
		m := 36
		return &m
	default:
		m := 12
		return &m
	}
}

// FrequencyFromMonths converts a stored month count back to the matrix
// frequency. Round-trips are guaranteed only for the canonical set
// {nil, 6, 12, 36}; anything else reads as ANNUAL.
func FrequencyFromMonths(m *int) Frequency {
	if m == nil {
		return FrequencyOnce
	}
	switch *m {
	case 6:
		return FrequencyBiannual
	case 12:
		return FrequencyAnnual
	case 36:
		return FrequencyEvery3Years
	default:
		return FrequencyAnnual
	}
}

// KnownFrequency reports whether f is one of the canonical enum values
func KnownFrequency(f Frequency) bool {
	switch f {
	case FrequencyOnce, FrequencyBiannual, FrequencyAnnual, FrequencyEvery3Years:
		return true
	}
	return false
}

// TrainingRequirement is one cell of the (role x module) obligation matrix.
// At most one row exists per (role_id, module_id); writes upsert on conflict.
// A nil RecertificationPeriodMonths means the training is one-time.
type TrainingRequirement struct {
	ID                          uuid.UUID `json:"id" db:"id"`
	RoleID                      uuid.UUID `json:"role_id" db:"role_id"`
	ModuleID                    uuid.UUID `json:"module_id" db:"module_id"`
	IsMandatory                 bool      `json:"is_mandatory" db:"is_mandatory"`
	RecertificationPeriodMonths *int      `json:"recertification_period_months" db:"recertification_period_months"`
	CreatedAt                   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at" db:"updated_at"`
}

// MandatoryRequirement is a mandatory matrix row joined (LEFT) with its
// module. Module fields are nil when the module reference dangles; the
// evaluator skips such rows instead of failing the whole report.
type MandatoryRequirement struct {
	RequirementID               uuid.UUID `db:"requirement_id"`
	ModuleID                    uuid.UUID `db:"module_id"`
	RecertificationPeriodMonths *int      `db:"recertification_period_months"`
	ModuleTitle                 *string   `db:"module_title"`
	MinScoreApproval            *int      `db:"min_score_approval"`
}

// CompletionRecord is one completed enrollment joined with its schedule's
// module, ordered deterministically for qualifying-completion selection.
type CompletionRecord struct {
	ModuleID     uuid.UUID `db:"module_id"`
	EnrollmentID uuid.UUID `db:"enrollment_id"`
	CompletedAt  time.Time `db:"completed_at"`
	FinalScore   int       `db:"final_score"`
	CreatedAt    time.Time `db:"created_at"`
}

// RequirementRow is one entry of a bulk matrix save for a role
type RequirementRow struct {
	ModuleID    uuid.UUID `json:"module_id" binding:"required"`
	IsMandatory bool      `json:"is_mandatory"`
	Frequency   Frequency `json:"frequency"`
}

// SetRequirementRequest is the payload for a single matrix cell edit
type SetRequirementRequest struct {
	ModuleID    uuid.UUID `json:"module_id" binding:"required"`
	IsMandatory bool      `json:"is_mandatory"`
	Frequency   Frequency `json:"frequency"`
}

// BulkUpsertRequest is the full module list the matrix screen submits for
// one role. Rows absent from the payload are left untouched.
type BulkUpsertRequest struct {
	Rows []RequirementRow `json:"rows" binding:"required"`
}
