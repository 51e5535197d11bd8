package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
)

// LoginAuditRecord is one authentication event
type LoginAuditRecord struct {
	ID         uuid.UUID  `db:"id"`
	EmployeeID *uuid.UUID `db:"employee_id"` // nil for failed attempts on unknown accounts
	Action     string     `db:"action"`      // login_success, login_failed, password_changed
	Email      string     `db:"email"`
	IPAddress  string     `db:"ip_address"`
	UserAgent  string     `db:"user_agent"`
	DeviceType string     `db:"device_type"`
	OS         string     `db:"os"`
	Browser    string     `db:"browser"`
	Success    bool       `db:"success"`
	CreatedAt  time.Time  `db:"created_at"`
}

// LoginAuditRepository persists authentication audit events
type LoginAuditRepository struct {
	db DB
}

// NewLoginAuditRepository creates a new login audit repository
func NewLoginAuditRepository(db DB) *LoginAuditRepository {
	return &LoginAuditRepository{db: db}
}

// Insert stores one audit record
func (r *LoginAuditRepository) Insert(rec *LoginAuditRecord) error {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()

	query := `
		INSERT INTO login_audit (
			id, employee_id, action, email, ip_address, user_agent,
			device_type, os, browser, success, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(query, rec.ID, rec.EmployeeID, rec.Action, rec.Email,
		rec.IPAddress, rec.UserAgent, rec.DeviceType, rec.OS, rec.Browser,
		rec.Success, rec.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to store audit record")
	}
	return nil
}

// ListRecentByEmployee returns the latest audit rows for one employee
func (r *LoginAuditRepository) ListRecentByEmployee(employeeID uuid.UUID, limit int) ([]LoginAuditRecord, error) {
	var records []LoginAuditRecord
	query := `
		SELECT * FROM login_audit
		WHERE employee_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if err := r.db.Select(&records, query, employeeID, limit); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch audit records")
	}
	return records, nil
}
