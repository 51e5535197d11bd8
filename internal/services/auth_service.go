package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/labedu/compliance-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is the result of a successful authentication
type TokenPair struct {
	AccessToken        string `json:"access_token"`
	RefreshToken       string `json:"refresh_token"`
	MustChangePassword bool   `json:"must_change_password"`
}

// AuthService handles login, token refresh and password changes
type AuthService struct {
	employeeRepo *database.EmployeeRepository
	jwtService   *jwt.Service
	auditService *AuditService
	bcryptCost   int
	logger       *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(employeeRepo *database.EmployeeRepository, jwtService *jwt.Service, auditService *AuditService, bcryptCost int, logger *logrus.Logger) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		jwtService:   jwtService,
		auditService: auditService,
		bcryptCost:   bcryptCost,
		logger:       logger,
	}
}

// Login authenticates an employee by email and password. Unknown accounts and
// wrong passwords produce the same error so the endpoint does not leak which
// emails exist.
func (s *AuthService) Login(email, password, ip, userAgent string) (*TokenPair, *models.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	employee, err := s.employeeRepo.GetByEmail(email)
	if err != nil {
		s.auditService.Record(nil, AuditLoginFailed, email, ip, userAgent, false)
		return nil, nil, apperrors.New(apperrors.PermissionDenied, "invalid credentials")
	}

	if !employee.IsActive {
		s.auditService.Record(&employee.ID, AuditLoginFailed, email, ip, userAgent, false)
		return nil, nil, apperrors.New(apperrors.PermissionDenied, "account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		s.auditService.Record(&employee.ID, AuditLoginFailed, email, ip, userAgent, false)
		return nil, nil, apperrors.New(apperrors.PermissionDenied, "invalid credentials")
	}

	pair, err := s.issueTokens(employee)
	if err != nil {
		return nil, nil, err
	}

	s.auditService.Record(&employee.ID, AuditLoginSuccess, email, ip, userAgent, true)
	s.logger.WithField("employee_id", employee.ID).Info("Employee logged in")

	return pair, employee, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.New(apperrors.PermissionDenied, "invalid refresh token")
	}

	employee, err := s.employeeRepo.GetByID(claims.EmployeeID)
	if err != nil {
		return nil, apperrors.New(apperrors.PermissionDenied, "invalid refresh token")
	}
	if !employee.IsActive {
		return nil, apperrors.New(apperrors.PermissionDenied, "account is disabled")
	}

	return s.issueTokens(employee)
}

// ChangePassword verifies the current password and stores a new hash. The
// forced-change flag clears as part of the same update.
func (s *AuthService) ChangePassword(employeeID uuid.UUID, currentPassword, newPassword, ip, userAgent string) error {
	if len(newPassword) < 8 {
		return apperrors.Validationf("new_password", "new password must be at least 8 characters")
	}

	employee, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.New(apperrors.PermissionDenied, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return apperrors.Wrap(err, "failed to hash password")
	}

	if err := s.employeeRepo.UpdatePassword(employeeID, string(hash)); err != nil {
		return err
	}

	s.auditService.Record(&employee.ID, AuditPasswordChanged, employee.Email, ip, userAgent, true)
	return nil
}

// HashPassword hashes a plaintext password for onboarding flows
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}

func (s *AuthService) issueTokens(employee *models.Employee) (*TokenPair, error) {
	access, err := s.jwtService.GenerateAccessToken(employee.ID, employee.Email, string(employee.SystemRole), employee.MustChangePassword)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate access token")
	}
	refresh, err := s.jwtService.GenerateRefreshToken(employee.ID, employee.Email)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate refresh token")
	}
	return &TokenPair{
		AccessToken:        access,
		RefreshToken:       refresh,
		MustChangePassword: employee.MustChangePassword,
	}, nil
}
