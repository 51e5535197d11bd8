package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/models"
)

// RoleRepository handles job role database operations
type RoleRepository struct {
	db DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create inserts a new job role
func (r *RoleRepository) Create(name string, isCritical bool) (*models.JobRole, error) {
	role := &models.JobRole{
		ID:                 uuid.New(),
		Name:               name,
		IsCriticalFunction: isCritical,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	query := `
		INSERT INTO roles (id, name, is_critical_function, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, role.ID, role.Name, role.IsCriticalFunction, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create role")
	}

	return role, nil
}

// Update changes a role's name and critical-function flag
func (r *RoleRepository) Update(id uuid.UUID, name string, isCritical bool) error {
	query := `
		UPDATE roles
		SET name = $2, is_critical_function = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.Exec(query, id, name, isCritical, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to update role")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("role %s not found", id)
	}
	return nil
}

// GetAll returns all job roles ordered by name
func (r *RoleRepository) GetAll() ([]models.JobRole, error) {
	var roles []models.JobRole
	query := `SELECT * FROM roles ORDER BY name`
	if err := r.db.Select(&roles, query); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch roles")
	}
	return roles, nil
}

// GetByID returns one job role
func (r *RoleRepository) GetByID(id uuid.UUID) (*models.JobRole, error) {
	var role models.JobRole
	query := `SELECT * FROM roles WHERE id = $1`
	if err := r.db.Get(&role, query, id); err != nil {
		return nil, apperrors.Wrap(err, "role not found")
	}
	return &role, nil
}

// CountEmployeesWithRole counts employees referencing a role. Role deletion
// is forbidden while this is non-zero.
func (r *RoleRepository) CountEmployeesWithRole(roleID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM employees WHERE role_id = $1`
	if err := r.db.Get(&count, query, roleID); err != nil {
		return 0, apperrors.Wrap(err, "failed to count employees for role")
	}
	return count, nil
}

// DeleteCascade removes the role's requirement rows and then the role
// itself, children first, inside the given transaction. A failed parent
// delete rolls the whole operation back so no orphaned rows remain.
func (r *RoleRepository) DeleteCascade(tx *sqlx.Tx, roleID uuid.UUID) error {
	if _, err := tx.Exec(`DELETE FROM training_role_requirements WHERE role_id = $1`, roleID); err != nil {
		return apperrors.Wrap(err, "failed to delete requirement rows for role")
	}

	result, err := tx.Exec(`DELETE FROM roles WHERE id = $1`, roleID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete role")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("role %s not found", roleID)
	}
	return nil
}
