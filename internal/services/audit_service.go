package services

import (
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// Audit action names
const (
	AuditLoginSuccess    = "login_success"
	AuditLoginFailed     = "login_failed"
	AuditPasswordChanged = "password_changed"
)

// AuditService records authentication events. Audit failures are logged but
// never propagated; a broken audit trail must not lock users out.
type AuditService struct {
	auditRepo *database.LoginAuditRepository
	enabled   bool
	logger    *logrus.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo *database.LoginAuditRepository, enabled bool, logger *logrus.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		enabled:   enabled,
		logger:    logger,
	}
}

// Record stores one authentication event with parsed device information.
// employeeID is nil for failed attempts against unknown accounts.
func (s *AuditService) Record(employeeID *uuid.UUID, action, email, ip, userAgent string, success bool) {
	if !s.enabled {
		return
	}

	device := utils.ParseUserAgent(userAgent)
	rec := &database.LoginAuditRecord{
		EmployeeID: employeeID,
		Action:     action,
		Email:      email,
		IPAddress:  ip,
		UserAgent:  userAgent,
		DeviceType: device.DeviceType,
		OS:         device.OS,
		Browser:    device.Browser,
		Success:    success,
	}

	if err := s.auditRepo.Insert(rec); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"action": action,
			"email":  email,
		}).Warn("Failed to store audit record")
	}
}

// RecentActivity returns the latest audit rows for one employee
func (s *AuditService) RecentActivity(employeeID uuid.UUID, limit int) ([]database.LoginAuditRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.auditRepo.ListRecentByEmployee(employeeID, limit)
}
