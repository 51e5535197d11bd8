package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/models"
)

// RequirementRepository handles the (role x module) obligation matrix rows
type RequirementRepository struct {
	db DB
}

// NewRequirementRepository creates a new requirement repository
func NewRequirementRepository(db DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

const upsertRequirementQuery = `
	INSERT INTO training_role_requirements (
		id, role_id, module_id, is_mandatory,
		recertification_period_months, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $6)
	ON CONFLICT (role_id, module_id) DO UPDATE
	SET is_mandatory = EXCLUDED.is_mandatory,
	    recertification_period_months = EXCLUDED.recertification_period_months,
	    updated_at = EXCLUDED.updated_at
`

// Upsert writes one matrix cell, keeping (role_id, module_id) unique
func (r *RequirementRepository) Upsert(roleID, moduleID uuid.UUID, isMandatory bool, months *int) error {
	_, err := r.db.Exec(upsertRequirementQuery, uuid.New(), roleID, moduleID, isMandatory, months, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to save requirement")
	}
	return nil
}

// UpsertTx writes one matrix cell inside an existing transaction
func (r *RequirementRepository) UpsertTx(tx *sqlx.Tx, roleID, moduleID uuid.UUID, isMandatory bool, months *int) error {
	_, err := tx.Exec(upsertRequirementQuery, uuid.New(), roleID, moduleID, isMandatory, months, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to save requirement")
	}
	return nil
}

// GetByRole returns all matrix rows for a role
func (r *RequirementRepository) GetByRole(roleID uuid.UUID) ([]models.TrainingRequirement, error) {
	var reqs []models.TrainingRequirement
	query := `SELECT * FROM training_role_requirements WHERE role_id = $1`
	if err := r.db.Select(&reqs, query, roleID); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch requirements")
	}
	return reqs, nil
}

// GetByRoleModule returns a single matrix cell if it exists
func (r *RequirementRepository) GetByRoleModule(roleID, moduleID uuid.UUID) (*models.TrainingRequirement, error) {
	var req models.TrainingRequirement
	query := `SELECT * FROM training_role_requirements WHERE role_id = $1 AND module_id = $2`
	if err := r.db.Get(&req, query, roleID, moduleID); err != nil {
		return nil, apperrors.Wrap(err, "requirement not found")
	}
	return &req, nil
}

// GetMandatoryWithModules returns the mandatory rows for a role LEFT-joined
// with their modules, so the evaluator can detect dangling module references
// (nil module fields) and skip them.
func (r *RequirementRepository) GetMandatoryWithModules(roleID uuid.UUID) ([]models.MandatoryRequirement, error) {
	var rows []models.MandatoryRequirement
	query := `
		SELECT req.id AS requirement_id,
		       req.module_id,
		       req.recertification_period_months,
		       m.title AS module_title,
		       m.min_score_approval
		FROM training_role_requirements req
		LEFT JOIN training_modules m ON m.id = req.module_id
		WHERE req.role_id = $1 AND req.is_mandatory = true
	`
	if err := r.db.Select(&rows, query, roleID); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch mandatory requirements")
	}
	return rows, nil
}
