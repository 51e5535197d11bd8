package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceStatus classifies an employee's standing against one required
// training module.
type ComplianceStatus string

const (
	// ComplianceOK means the requirement is satisfied and not close to due
	ComplianceOK ComplianceStatus = "OK"
	// ComplianceWarning means the requirement is due within the warning window
	ComplianceWarning ComplianceStatus = "WARNING"
	// ComplianceExpired means the due date has passed
	ComplianceExpired ComplianceStatus = "EXPIRED"
	// ComplianceMissing means the employee has never completed the training
	ComplianceMissing ComplianceStatus = "MISSING"
)

// ComplianceViewItem is the derived (never stored) compliance row for one
// (employee, required module) pair.
//
// NextDueDate is nil only for one-time requirements already satisfied; such
// items are reportable as OK but excluded from alert lists. DaysRemaining is
// whole days until the due date, negative when overdue, and meaningless when
// NextDueDate is nil.
// ComplianceSummary aggregates a compliance report for the dashboard
type ComplianceSummary struct {
	Total    int     `json:"total"`
	OK       int     `json:"ok"`
	Warning  int     `json:"warning"`
	Expired  int     `json:"expired"`
	Missing  int     `json:"missing"`
	RatePct  float64 `json:"rate_pct"` // share of requirements in OK standing
}

type ComplianceViewItem struct {
	EmployeeID         uuid.UUID        `json:"employee_id"`
	EmployeeName       string           `json:"employee_name"`
	RoleID             uuid.UUID        `json:"role_id"`
	RoleName           string           `json:"role_name"`
	ModuleID           uuid.UUID        `json:"module_id"`
	ModuleTitle        string           `json:"module_title"`
	IsCriticalFunction bool             `json:"is_critical_function"`
	LastCompletionDate *time.Time       `json:"last_completion_date,omitempty"`
	NextDueDate        *time.Time       `json:"next_due_date,omitempty"`
	DaysRemaining      int              `json:"days_remaining"`
	Status             ComplianceStatus `json:"status"`
}
