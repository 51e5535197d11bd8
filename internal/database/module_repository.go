package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/models"
)

// ModuleRepository handles training module and lesson database operations
type ModuleRepository struct {
	db DB
}

// NewModuleRepository creates a new module repository
func NewModuleRepository(db DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// Create inserts a new training module in DRAFT status
func (r *ModuleRepository) Create(req *models.SaveModuleRequest) (*models.TrainingModule, error) {
	module := &models.TrainingModule{
		ID:               uuid.New(),
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Objectives:       req.Objectives,
		TrainingType:     req.TrainingType,
		DurationMinutes:  req.DurationMinutes,
		WorkloadHours:    req.WorkloadHours,
		MinScoreApproval: req.MinScoreApproval,
		RequiresQuiz:     req.RequiresQuiz,
		Status:           models.ModuleDraft,
		RDCReference:     req.RDCReference,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	query := `
		INSERT INTO training_modules (
			id, title, description, short_description, objectives,
			training_type, duration_minutes, workload_hours,
			min_score_approval, requires_quiz, status, rdc_reference,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(
		query,
		module.ID,
		module.Title,
		module.Description,
		module.ShortDescription,
		module.Objectives,
		module.TrainingType,
		module.DurationMinutes,
		module.WorkloadHours,
		module.MinScoreApproval,
		module.RequiresQuiz,
		module.Status,
		module.RDCReference,
		module.CreatedAt,
		module.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create training module")
	}

	return module, nil
}

// Update replaces a module's editable attributes
func (r *ModuleRepository) Update(id uuid.UUID, req *models.SaveModuleRequest) error {
	query := `
		UPDATE training_modules
		SET title = $2, description = $3, short_description = $4,
		    objectives = $5, training_type = $6, duration_minutes = $7,
		    workload_hours = $8, min_score_approval = $9, requires_quiz = $10,
		    rdc_reference = $11, updated_at = $12
		WHERE id = $1
	`
	result, err := r.db.Exec(query, id, req.Title, req.Description,
		req.ShortDescription, req.Objectives, req.TrainingType,
		req.DurationMinutes, req.WorkloadHours, req.MinScoreApproval,
		req.RequiresQuiz, req.RDCReference, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to update training module")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("training module %s not found", id)
	}
	return nil
}

// SetStatus moves a module between DRAFT and PUBLISHED
func (r *ModuleRepository) SetStatus(id uuid.UUID, status models.ModuleStatus) error {
	query := `UPDATE training_modules SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(query, id, status, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to change module status")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("training module %s not found", id)
	}
	return nil
}

// GetAll returns all modules ordered by title
func (r *ModuleRepository) GetAll() ([]models.TrainingModule, error) {
	var modules []models.TrainingModule
	query := `SELECT * FROM training_modules ORDER BY title`
	if err := r.db.Select(&modules, query); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch training modules")
	}
	return modules, nil
}

// GetByID returns one module without lessons
func (r *ModuleRepository) GetByID(id uuid.UUID) (*models.TrainingModule, error) {
	var module models.TrainingModule
	query := `SELECT * FROM training_modules WHERE id = $1`
	if err := r.db.Get(&module, query, id); err != nil {
		return nil, apperrors.Wrap(err, "training module not found")
	}
	return &module, nil
}

// AddLesson appends a lesson to a module. The (module_id, order_index)
// uniqueness is enforced by the database; a duplicate index surfaces as a
// conflict for the caller to resolve.
func (r *ModuleRepository) AddLesson(moduleID uuid.UUID, req *models.SaveLessonRequest) (*models.TrainingLesson, error) {
	lesson := &models.TrainingLesson{
		ID:          uuid.New(),
		ModuleID:    moduleID,
		Title:       req.Title,
		ContentType: req.ContentType,
		ContentURL:  req.ContentURL,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
		CreatedAt:   time.Now(),
	}

	query := `
		INSERT INTO training_lessons (
			id, module_id, title, content_type, content_url, description,
			order_index, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(query, lesson.ID, lesson.ModuleID, lesson.Title,
		lesson.ContentType, lesson.ContentURL, lesson.Description,
		lesson.OrderIndex, lesson.CreatedAt)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to add lesson")
	}

	return lesson, nil
}

// GetLessonsByModule returns a module's lessons in navigation order
func (r *ModuleRepository) GetLessonsByModule(moduleID uuid.UUID) ([]models.TrainingLesson, error) {
	var lessons []models.TrainingLesson
	query := `SELECT * FROM training_lessons WHERE module_id = $1 ORDER BY order_index ASC`
	if err := r.db.Select(&lessons, query, moduleID); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch lessons")
	}
	return lessons, nil
}

// NextOrderIndex returns the next free order index for a module
func (r *ModuleRepository) NextOrderIndex(moduleID uuid.UUID) (int, error) {
	var next int
	query := `SELECT COALESCE(MAX(order_index), -1) + 1 FROM training_lessons WHERE module_id = $1`
	if err := r.db.Get(&next, query, moduleID); err != nil {
		return 0, apperrors.Wrap(err, "failed to compute lesson order")
	}
	return next, nil
}

// DeleteLesson removes a lesson
func (r *ModuleRepository) DeleteLesson(lessonID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM training_lessons WHERE id = $1`, lessonID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete lesson")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("lesson %s not found", lessonID)
	}
	return nil
}
