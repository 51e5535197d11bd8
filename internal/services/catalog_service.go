package services

import (
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// CatalogService manages the training module catalog and its lessons
type CatalogService struct {
	moduleRepo *database.ModuleRepository
	logger     *logrus.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(moduleRepo *database.ModuleRepository, logger *logrus.Logger) *CatalogService {
	return &CatalogService{moduleRepo: moduleRepo, logger: logger}
}

// CreateModule adds a module to the catalog in DRAFT status
func (s *CatalogService) CreateModule(req *models.SaveModuleRequest) (*models.TrainingModule, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validationf("", "%s", err.Error())
	}

	module, err := s.moduleRepo.Create(req)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"module_id": module.ID,
		"type":      module.TrainingType,
	}).Info("Training module created")

	return module, nil
}

// UpdateModule replaces a module's editable attributes
func (s *CatalogService) UpdateModule(id uuid.UUID, req *models.SaveModuleRequest) (*models.TrainingModule, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validationf("", "%s", err.Error())
	}
	if err := s.moduleRepo.Update(id, req); err != nil {
		return nil, err
	}
	return s.moduleRepo.GetByID(id)
}

// Publish makes a module available for scheduling and matrix use. A module
// needs at least one lesson before it can be published.
func (s *CatalogService) Publish(id uuid.UUID) error {
	lessons, err := s.moduleRepo.GetLessonsByModule(id)
	if err != nil {
		return err
	}
	if len(lessons) == 0 {
		return apperrors.Validationf("id", "module has no lessons and cannot be published")
	}
	if err := s.moduleRepo.SetStatus(id, models.ModulePublished); err != nil {
		return err
	}
	s.logger.WithField("module_id", id).Info("Training module published")
	return nil
}

// Unpublish moves a module back to DRAFT. Existing mandatory matrix rows keep
// working; only new mandatory cells are blocked.
func (s *CatalogService) Unpublish(id uuid.UUID) error {
	return s.moduleRepo.SetStatus(id, models.ModuleDraft)
}

// ListModules returns the full catalog
func (s *CatalogService) ListModules() ([]models.TrainingModule, error) {
	return s.moduleRepo.GetAll()
}

// GetModule returns one module with its lessons loaded in navigation order
func (s *CatalogService) GetModule(id uuid.UUID) (*models.TrainingModule, error) {
	module, err := s.moduleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	lessons, err := s.moduleRepo.GetLessonsByModule(id)
	if err != nil {
		return nil, err
	}
	module.Lessons = lessons
	return module, nil
}

// AddLesson appends a lesson to a module. A zero order index means "append at
// the end"; explicit indexes must be unique within the module.
func (s *CatalogService) AddLesson(moduleID uuid.UUID, req *models.SaveLessonRequest) (*models.TrainingLesson, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validationf("", "%s", err.Error())
	}
	if _, err := s.moduleRepo.GetByID(moduleID); err != nil {
		return nil, err
	}

	if req.OrderIndex == 0 {
		next, err := s.moduleRepo.NextOrderIndex(moduleID)
		if err != nil {
			return nil, err
		}
		req.OrderIndex = next
	}

	return s.moduleRepo.AddLesson(moduleID, req)
}

// RemoveLesson deletes a lesson from its module
func (s *CatalogService) RemoveLesson(lessonID uuid.UUID) error {
	return s.moduleRepo.DeleteLesson(lessonID)
}
