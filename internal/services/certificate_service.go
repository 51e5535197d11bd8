package services

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// CertificateService issues and verifies training certificates
type CertificateService struct {
	certRepo       *database.CertificateRepository
	enrollmentRepo *database.EnrollmentRepository
	scheduleRepo   *database.ScheduleRepository
	moduleRepo     *database.ModuleRepository
	employeeRepo   *database.EmployeeRepository
	logger         *logrus.Logger
}

// NewCertificateService creates a new certificate service
func NewCertificateService(certRepo *database.CertificateRepository, enrollmentRepo *database.EnrollmentRepository, scheduleRepo *database.ScheduleRepository, moduleRepo *database.ModuleRepository, employeeRepo *database.EmployeeRepository, logger *logrus.Logger) *CertificateService {
	return &CertificateService{
		certRepo:       certRepo,
		enrollmentRepo: enrollmentRepo,
		scheduleRepo:   scheduleRepo,
		moduleRepo:     moduleRepo,
		employeeRepo:   employeeRepo,
		logger:         logger,
	}
}

// VerifiedCertificate is a certificate enriched with the data a verifier
// needs to check it against a printed document.
type VerifiedCertificate struct {
	Certificate  models.Certificate `json:"certificate"`
	EmployeeName string             `json:"employee_name"`
	ModuleTitle  string             `json:"module_title"`
	CompletedAt  time.Time          `json:"completed_at"`
	FinalScore   int                `json:"final_score"`
}

// DeriveCode computes the verification code printed on a certificate. The
// code is a pure function of the certificate's identity fields, so reissuing
// for the same completion always yields the same code. It is not
// cryptographically secure and carries no tamper resistance; it only supports
// spot-checking a printed certificate against the stored record.
func DeriveCode(employeeName, moduleTitle string, completedAt time.Time, finalScore int) string {
	raw := fmt.Sprintf("%s|%s|%s|%d", employeeName, moduleTitle, completedAt.Format("2006-01-02"), finalScore)
	encoded := base64.StdEncoding.EncodeToString([]byte(raw))
	if len(encoded) > 16 {
		encoded = encoded[:16]
	}
	return strings.ToUpper(encoded)
}

// Issue creates the certificate for a completed, passing enrollment. Issuing
// twice returns the already-stored certificate with the same code.
func (s *CertificateService) Issue(enrollmentID uuid.UUID) (*models.Certificate, error) {
	enrollment, err := s.enrollmentRepo.GetByID(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != models.EnrollmentCompleted || enrollment.CompletedAt == nil || enrollment.FinalScore == nil {
		return nil, apperrors.Validationf("enrollment_id", "enrollment is not completed")
	}

	schedule, err := s.scheduleRepo.GetByID(enrollment.ScheduleID)
	if err != nil {
		return nil, err
	}
	module, err := s.moduleRepo.GetByID(schedule.ModuleID)
	if err != nil {
		return nil, err
	}
	if *enrollment.FinalScore < module.MinScoreApproval {
		return nil, apperrors.Validationf("enrollment_id", "final score %d is below the approval threshold %d", *enrollment.FinalScore, module.MinScoreApproval)
	}

	employee, err := s.employeeRepo.GetByID(enrollment.EmployeeID)
	if err != nil {
		return nil, err
	}

	existing, err := s.certRepo.GetByEnrollment(enrollmentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	code := DeriveCode(employee.FullName, module.Title, *enrollment.CompletedAt, *enrollment.FinalScore)
	cert, err := s.certRepo.Create(enrollmentID, employee.ID, code)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"certificate_id": cert.ID,
		"enrollment_id":  enrollmentID,
		"code":           code,
	}).Info("Certificate issued")

	return cert, nil
}

// Verify resolves a verification code to the certificate and the completion
// facts needed to check a printed document.
func (s *CertificateService) Verify(code string) (*VerifiedCertificate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperrors.Validationf("code", "verification code is required")
	}

	cert, err := s.certRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.GetByID(cert.EnrollmentID)
	if err != nil {
		return nil, err
	}
	schedule, err := s.scheduleRepo.GetByID(enrollment.ScheduleID)
	if err != nil {
		return nil, err
	}
	module, err := s.moduleRepo.GetByID(schedule.ModuleID)
	if err != nil {
		return nil, err
	}
	employee, err := s.employeeRepo.GetByID(cert.EmployeeID)
	if err != nil {
		return nil, err
	}

	verified := &VerifiedCertificate{
		Certificate:  *cert,
		EmployeeName: employee.FullName,
		ModuleTitle:  module.Title,
		FinalScore:   *enrollment.FinalScore,
	}
	if enrollment.CompletedAt != nil {
		verified.CompletedAt = *enrollment.CompletedAt
	}
	return verified, nil
}
