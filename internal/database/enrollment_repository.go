package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/models"
)

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts a new PENDING enrollment
func (r *EnrollmentRepository) Create(scheduleID, employeeID uuid.UUID) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{
		ID:          uuid.New(),
		ScheduleID:  scheduleID,
		EmployeeID:  employeeID,
		Status:      models.EnrollmentPending,
		ProgressPct: 0,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	query := `
		INSERT INTO enrollments (
			id, schedule_id, employee_id, status, progress_pct,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(query, enrollment.ID, enrollment.ScheduleID,
		enrollment.EmployeeID, enrollment.Status, enrollment.ProgressPct,
		enrollment.CreatedAt, enrollment.UpdatedAt)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create enrollment")
	}

	return enrollment, nil
}

// GetByID returns one enrollment
func (r *EnrollmentRepository) GetByID(id uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	query := `SELECT * FROM enrollments WHERE id = $1`
	if err := r.db.Get(&enrollment, query, id); err != nil {
		return nil, apperrors.Wrap(err, "enrollment not found")
	}
	return &enrollment, nil
}

// FindActive returns the existing non-expired enrollment for an (employee,
// schedule) pair, or nil when none exists. Enroll uses this for idempotency.
func (r *EnrollmentRepository) FindActive(scheduleID, employeeID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	query := `
		SELECT * FROM enrollments
		WHERE schedule_id = $1 AND employee_id = $2 AND status != 'EXPIRED'
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.Get(&enrollment, query, scheduleID, employeeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to look up enrollment")
	}
	return &enrollment, nil
}

// GetByEmployee returns the trainee-facing enrollment list joined with
// schedule and module data.
func (r *EnrollmentRepository) GetByEmployee(employeeID uuid.UUID) ([]models.EnrollmentView, error) {
	var views []models.EnrollmentView
	query := `
		SELECT e.*, m.title AS module_title, m.training_type,
		       m.duration_minutes, s.end_date AS schedule_end_date
		FROM enrollments e
		JOIN training_schedule s ON s.id = e.schedule_id
		JOIN training_modules m ON m.id = s.module_id
		WHERE e.employee_id = $1
		ORDER BY e.created_at DESC
	`
	if err := r.db.Select(&views, query, employeeID); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch enrollments")
	}
	return views, nil
}

// UpdateProgress stores a new progress percentage and status
func (r *EnrollmentRepository) UpdateProgress(id uuid.UUID, progressPct int, status models.EnrollmentStatus) error {
	query := `
		UPDATE enrollments
		SET progress_pct = $2, status = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.Exec(query, id, progressPct, status, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to update progress")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("enrollment %s not found", id)
	}
	return nil
}

// RecordCompletion marks an enrollment COMPLETED with its outcome. Keeps the
// invariant that completed_at is set exactly when status is COMPLETED.
func (r *EnrollmentRepository) RecordCompletion(id uuid.UUID, finalScore int, completedAt time.Time) error {
	query := `
		UPDATE enrollments
		SET status = 'COMPLETED', progress_pct = 100, final_score = $2,
		    completed_at = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.Exec(query, id, finalScore, completedAt, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to record completion")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("enrollment %s not found", id)
	}
	return nil
}

// GetCompletionsByEmployee returns every completed enrollment of an employee
// joined with its module, ordered so the first row per module is the
// evaluator's pick: completion date, then score, then recency, then id.
// The ordering is deterministic so compliance reports are reproducible.
func (r *EnrollmentRepository) GetCompletionsByEmployee(employeeID uuid.UUID) ([]models.CompletionRecord, error) {
	var records []models.CompletionRecord
	query := `
		SELECT s.module_id, e.id AS enrollment_id, e.completed_at,
		       e.final_score, e.created_at
		FROM enrollments e
		JOIN training_schedule s ON s.id = e.schedule_id
		WHERE e.employee_id = $1
		  AND e.status = 'COMPLETED'
		  AND e.completed_at IS NOT NULL
		  AND e.final_score IS NOT NULL
		ORDER BY s.module_id,
		         e.completed_at DESC,
		         e.final_score DESC,
		         e.created_at DESC,
		         e.id DESC
	`
	if err := r.db.Select(&records, query, employeeID); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch completions")
	}
	return records, nil
}
