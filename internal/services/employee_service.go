package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// EmployeeService handles employee onboarding and administration
type EmployeeService struct {
	employeeRepo *database.EmployeeRepository
	roleRepo     *database.RoleRepository
	authService  *AuthService
	logger       *logrus.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo *database.EmployeeRepository, roleRepo *database.RoleRepository, authService *AuthService, logger *logrus.Logger) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		roleRepo:     roleRepo,
		authService:  authService,
		logger:       logger,
	}
}

// Create onboards a new employee. The initial password is stored hashed and
// flagged for change on first login.
func (s *EmployeeService) Create(req *models.CreateEmployeeRequest) (*models.Employee, error) {
	if !req.SystemRole.Valid() {
		return nil, apperrors.Validationf("system_role", "system_role must be one of ADMIN, UNIT_MANAGER, INSTRUCTOR, COLLABORATOR")
	}

	admission, err := time.Parse("2006-01-02", req.AdmissionDate)
	if err != nil {
		return nil, apperrors.Validationf("admission_date", "admission_date must be in YYYY-MM-DD format")
	}

	if req.RoleID != nil {
		if _, err := s.roleRepo.GetByID(*req.RoleID); err != nil {
			return nil, err
		}
	}

	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		FullName:           req.FullName,
		CPF:                req.CPF,
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		UnitID:             req.UnitID,
		SectorID:           req.SectorID,
		RoleID:             req.RoleID,
		SystemRole:         req.SystemRole,
		AdmissionDate:      admission,
		IsActive:           true,
		MustChangePassword: true,
		PasswordHash:       hash,
	}

	if err := s.employeeRepo.Create(employee); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"system_role": employee.SystemRole,
	}).Info("Employee onboarded")

	return employee, nil
}

// Get returns one employee
func (s *EmployeeService) Get(id uuid.UUID) (*models.Employee, error) {
	return s.employeeRepo.GetByID(id)
}

// List returns employees, optionally only active ones
func (s *EmployeeService) List(activeOnly bool) ([]models.Employee, error) {
	return s.employeeRepo.GetAll(activeOnly)
}

// Update applies an admin edit; nil request fields are left untouched
func (s *EmployeeService) Update(id uuid.UUID, req *models.UpdateEmployeeRequest) (*models.Employee, error) {
	if req.SystemRole != nil && !req.SystemRole.Valid() {
		return nil, apperrors.Validationf("system_role", "system_role must be one of ADMIN, UNIT_MANAGER, INSTRUCTOR, COLLABORATOR")
	}
	if req.RoleID != nil {
		if _, err := s.roleRepo.GetByID(*req.RoleID); err != nil {
			return nil, err
		}
	}

	if err := s.employeeRepo.Update(id, req); err != nil {
		return nil, err
	}
	return s.employeeRepo.GetByID(id)
}

// Deactivate soft-disables an employee, preserving training history
func (s *EmployeeService) Deactivate(id uuid.UUID) error {
	if err := s.employeeRepo.Deactivate(id); err != nil {
		return err
	}
	s.logger.WithField("employee_id", id).Info("Employee deactivated")
	return nil
}
