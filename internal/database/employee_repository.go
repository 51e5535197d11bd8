package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/models"
)

// EmployeeRepository handles employee database operations
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts a new employee at onboarding
func (r *EmployeeRepository) Create(emp *models.Employee) error {
	emp.ID = uuid.New()
	emp.CreatedAt = time.Now()
	emp.UpdatedAt = time.Now()

	query := `
		INSERT INTO employees (
			id, full_name, cpf, email, unit_id, sector_id, role_id,
			system_role, admission_date, is_active, must_change_password,
			password_hash, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(
		query,
		emp.ID,
		emp.FullName,
		emp.CPF,
		emp.Email,
		emp.UnitID,
		emp.SectorID,
		emp.RoleID,
		emp.SystemRole,
		emp.AdmissionDate,
		emp.IsActive,
		emp.MustChangePassword,
		emp.PasswordHash,
		emp.CreatedAt,
		emp.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create employee")
	}

	return nil
}

// GetByID returns one employee
func (r *EmployeeRepository) GetByID(id uuid.UUID) (*models.Employee, error) {
	var emp models.Employee
	query := `SELECT * FROM employees WHERE id = $1`
	if err := r.db.Get(&emp, query, id); err != nil {
		return nil, apperrors.Wrap(err, "employee not found")
	}
	return &emp, nil
}

// GetByEmail returns one employee by login email
func (r *EmployeeRepository) GetByEmail(email string) (*models.Employee, error) {
	var emp models.Employee
	query := `SELECT * FROM employees WHERE email = $1`
	if err := r.db.Get(&emp, query, email); err != nil {
		return nil, apperrors.Wrap(err, "employee not found")
	}
	return &emp, nil
}

// GetAll returns employees, optionally only active ones, ordered by name
func (r *EmployeeRepository) GetAll(activeOnly bool) ([]models.Employee, error) {
	var employees []models.Employee
	query := `SELECT * FROM employees ORDER BY full_name`
	if activeOnly {
		query = `SELECT * FROM employees WHERE is_active = true ORDER BY full_name`
	}
	if err := r.db.Select(&employees, query); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch employees")
	}
	return employees, nil
}

// Update applies an admin edit; nil request fields are left untouched
func (r *EmployeeRepository) Update(id uuid.UUID, req *models.UpdateEmployeeRequest) error {
	emp, err := r.GetByID(id)
	if err != nil {
		return err
	}

	if req.FullName != nil {
		emp.FullName = *req.FullName
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.UnitID != nil {
		emp.UnitID = *req.UnitID
	}
	if req.SectorID != nil {
		emp.SectorID = *req.SectorID
	}
	if req.RoleID != nil {
		emp.RoleID = req.RoleID
	}
	if req.SystemRole != nil {
		emp.SystemRole = *req.SystemRole
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}

	query := `
		UPDATE employees
		SET full_name = $2, email = $3, unit_id = $4, sector_id = $5,
		    role_id = $6, system_role = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`
	_, err = r.db.Exec(query, id, emp.FullName, emp.Email, emp.UnitID,
		emp.SectorID, emp.RoleID, emp.SystemRole, emp.IsActive, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to update employee")
	}
	return nil
}

// Deactivate soft-disables an employee. History is preserved; employees are
// never hard-deleted.
func (r *EmployeeRepository) Deactivate(id uuid.UUID) error {
	query := `UPDATE employees SET is_active = false, updated_at = $2 WHERE id = $1`
	result, err := r.db.Exec(query, id, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate employee")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("employee %s not found", id)
	}
	return nil
}

// UpdatePassword stores a new password hash and clears the forced-change flag
func (r *EmployeeRepository) UpdatePassword(id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE employees
		SET password_hash = $2, must_change_password = false, updated_at = $3
		WHERE id = $1
	`
	result, err := r.db.Exec(query, id, passwordHash, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to update password")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("employee %s not found", id)
	}
	return nil
}
