package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/models"
)

// CertificateRepository handles issued-certificate database operations
type CertificateRepository struct {
	db DB
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(db DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Create persists an issued certificate
func (r *CertificateRepository) Create(enrollmentID, employeeID uuid.UUID, verificationCode string) (*models.Certificate, error) {
	cert := &models.Certificate{
		ID:               uuid.New(),
		EnrollmentID:     enrollmentID,
		EmployeeID:       employeeID,
		VerificationCode: verificationCode,
		IssuedAt:         time.Now(),
	}

	query := `
		INSERT INTO certificates (id, enrollment_id, employee_id, verification_code, issued_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, cert.ID, cert.EnrollmentID, cert.EmployeeID,
		cert.VerificationCode, cert.IssuedAt)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to store certificate")
	}

	return cert, nil
}

// GetByEnrollment returns the certificate for an enrollment, or nil if none
// was issued yet.
func (r *CertificateRepository) GetByEnrollment(enrollmentID uuid.UUID) (*models.Certificate, error) {
	var cert models.Certificate
	query := `SELECT * FROM certificates WHERE enrollment_id = $1`
	err := r.db.Get(&cert, query, enrollmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to look up certificate")
	}
	return &cert, nil
}

// GetByCode looks a certificate up by its verification code
func (r *CertificateRepository) GetByCode(code string) (*models.Certificate, error) {
	var cert models.Certificate
	query := `SELECT * FROM certificates WHERE verification_code = $1`
	if err := r.db.Get(&cert, query, code); err != nil {
		return nil, apperrors.Wrap(err, "certificate not found")
	}
	return &cert, nil
}
