package services

import (
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// MatrixService owns the training matrix: job roles and the (role x module)
// requirement rows that drive compliance evaluation.
type MatrixService struct {
	db         database.DB
	roleRepo   *database.RoleRepository
	reqRepo    *database.RequirementRepository
	moduleRepo *database.ModuleRepository
	logger     *logrus.Logger
}

// NewMatrixService creates a new matrix service
func NewMatrixService(db database.DB, roleRepo *database.RoleRepository, reqRepo *database.RequirementRepository, moduleRepo *database.ModuleRepository, logger *logrus.Logger) *MatrixService {
	return &MatrixService{
		db:         db,
		roleRepo:   roleRepo,
		reqRepo:    reqRepo,
		moduleRepo: moduleRepo,
		logger:     logger,
	}
}

// CreateRole registers a new job role
func (s *MatrixService) CreateRole(req *models.SaveJobRoleRequest) (*models.JobRole, error) {
	role, err := s.roleRepo.Create(req.Name, req.IsCriticalFunction)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"role_id":  role.ID,
		"critical": role.IsCriticalFunction,
	}).Info("Job role created")

	return role, nil
}

// UpdateRole renames a role or changes its critical-function flag
func (s *MatrixService) UpdateRole(id uuid.UUID, req *models.SaveJobRoleRequest) (*models.JobRole, error) {
	if err := s.roleRepo.Update(id, req.Name, req.IsCriticalFunction); err != nil {
		return nil, err
	}
	return s.roleRepo.GetByID(id)
}

// ListRoles returns all job roles
func (s *MatrixService) ListRoles() ([]models.JobRole, error) {
	return s.roleRepo.GetAll()
}

// GetRequirements returns the matrix rows for a role
func (s *MatrixService) GetRequirements(roleID uuid.UUID) ([]models.TrainingRequirement, error) {
	if _, err := s.roleRepo.GetByID(roleID); err != nil {
		return nil, err
	}
	return s.reqRepo.GetByRole(roleID)
}

// SetRequirement writes one matrix cell. Marking an unpublished module
// mandatory is rejected for new cells; existing mandatory cells keep working
// with a warning so an unpublish never silently corrupts the matrix.
func (s *MatrixService) SetRequirement(roleID uuid.UUID, req *models.SetRequirementRequest) error {
	if _, err := s.roleRepo.GetByID(roleID); err != nil {
		return err
	}
	module, err := s.moduleRepo.GetByID(req.ModuleID)
	if err != nil {
		return err
	}

	if err := s.checkMandatoryPublished(roleID, module, req.IsMandatory); err != nil {
		return err
	}

	months := s.resolveFrequency(roleID, req.ModuleID, req.Frequency)
	return s.reqRepo.Upsert(roleID, req.ModuleID, req.IsMandatory, months)
}

// BulkUpsert saves a full matrix screen for one role in a single transaction.
// Rows absent from the payload are left untouched; either every submitted row
// is written or none is.
func (s *MatrixService) BulkUpsert(roleID uuid.UUID, req *models.BulkUpsertRequest) error {
	if _, err := s.roleRepo.GetByID(roleID); err != nil {
		return err
	}

	modules, err := s.moduleRepo.GetAll()
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*models.TrainingModule, len(modules))
	for i := range modules {
		byID[modules[i].ID] = &modules[i]
	}

	for _, row := range req.Rows {
		module, ok := byID[row.ModuleID]
		if !ok {
			return apperrors.NotFoundf("training module %s not found", row.ModuleID)
		}
		if err := s.checkMandatoryPublished(roleID, module, row.IsMandatory); err != nil {
			return err
		}
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return apperrors.Wrap(err, "failed to begin matrix transaction")
	}
	defer tx.Rollback()

	for _, row := range req.Rows {
		months := s.resolveFrequency(roleID, row.ModuleID, row.Frequency)
		if err := s.reqRepo.UpsertTx(tx, roleID, row.ModuleID, row.IsMandatory, months); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(err, "failed to commit matrix transaction")
	}

	s.logger.WithFields(logrus.Fields{
		"role_id": roleID,
		"rows":    len(req.Rows),
	}).Info("Training matrix saved")

	return nil
}

// RemoveRole deletes a role and its requirement rows, children first, in one
// transaction. Deletion is refused while any employee still holds the role.
func (s *MatrixService) RemoveRole(roleID uuid.UUID) error {
	if _, err := s.roleRepo.GetByID(roleID); err != nil {
		return err
	}

	count, err := s.roleRepo.CountEmployeesWithRole(roleID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflictf(count, "role is assigned to %d employee(s) and cannot be deleted", count)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return apperrors.Wrap(err, "failed to begin role deletion")
	}
	defer tx.Rollback()

	if err := s.roleRepo.DeleteCascade(tx, roleID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(err, "failed to commit role deletion")
	}

	s.logger.WithField("role_id", roleID).Info("Job role deleted")
	return nil
}

// checkMandatoryPublished enforces the published-module rule for mandatory
// cells. A cell that is already mandatory stays editable after an unpublish,
// logged as a warning.
func (s *MatrixService) checkMandatoryPublished(roleID uuid.UUID, module *models.TrainingModule, isMandatory bool) error {
	if !isMandatory || module.Status == models.ModulePublished {
		return nil
	}

	existing, err := s.reqRepo.GetByRoleModule(roleID, module.ID)
	if err == nil && existing.IsMandatory {
		s.logger.WithFields(logrus.Fields{
			"role_id":   roleID,
			"module_id": module.ID,
		}).Warn("Mandatory requirement references an unpublished module")
		return nil
	}
	if err != nil && !apperrors.IsKind(err, apperrors.NotFound) {
		return err
	}

	return apperrors.Validationf("module_id", "module %q must be published before it can be made mandatory", module.Title)
}

// resolveFrequency converts the submitted frequency to a recertification
// period, logging the fallback for values outside the known enum.
func (s *MatrixService) resolveFrequency(roleID, moduleID uuid.UUID, f models.Frequency) *int {
	if !models.KnownFrequency(f) {
		s.logger.WithFields(logrus.Fields{
			"role_id":   roleID,
			"module_id": moduleID,
			"frequency": f,
		}).Warn("Unknown frequency, defaulting to ANNUAL")
	}
	return models.MonthsFromFrequency(f)
}
