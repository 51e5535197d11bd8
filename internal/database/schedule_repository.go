package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/models"
)

// ScheduleRepository handles training schedule database operations
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a new schedule in PLANNED status
func (r *ScheduleRepository) Create(moduleID uuid.UUID, unitID *uuid.UUID, instructorID uuid.UUID, start, end time.Time) (*models.TrainingSchedule, error) {
	schedule := &models.TrainingSchedule{
		ID:           uuid.New(),
		ModuleID:     moduleID,
		UnitID:       unitID,
		InstructorID: instructorID,
		StartDate:    start,
		EndDate:      end,
		Status:       models.SchedulePlanned,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	query := `
		INSERT INTO training_schedule (
			id, module_id, unit_id, instructor_id, start_date, end_date,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(query, schedule.ID, schedule.ModuleID, schedule.UnitID,
		schedule.InstructorID, schedule.StartDate, schedule.EndDate,
		schedule.Status, schedule.CreatedAt, schedule.UpdatedAt)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create schedule")
	}

	return schedule, nil
}

// GetByID returns one schedule
func (r *ScheduleRepository) GetByID(id uuid.UUID) (*models.TrainingSchedule, error) {
	var schedule models.TrainingSchedule
	query := `
		SELECT s.*, m.title AS module_title, m.training_type
		FROM training_schedule s
		LEFT JOIN training_modules m ON m.id = s.module_id
		WHERE s.id = $1
	`
	if err := r.db.Get(&schedule, query, id); err != nil {
		return nil, apperrors.Wrap(err, "schedule not found")
	}
	return &schedule, nil
}

// GetUpcoming returns upcoming schedules joined with module info, soonest
// first, for the dashboard.
func (r *ScheduleRepository) GetUpcoming(limit int) ([]models.TrainingSchedule, error) {
	var schedules []models.TrainingSchedule
	query := `
		SELECT s.*, m.title AS module_title, m.training_type
		FROM training_schedule s
		LEFT JOIN training_modules m ON m.id = s.module_id
		WHERE s.status IN ('PLANNED', 'ACTIVE')
		ORDER BY s.start_date ASC
		LIMIT $1
	`
	if err := r.db.Select(&schedules, query, limit); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch upcoming schedules")
	}
	return schedules, nil
}

// UpdateStatus moves a schedule through its lifecycle
func (r *ScheduleRepository) UpdateStatus(id uuid.UUID, status models.ScheduleStatus) error {
	query := `UPDATE training_schedule SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(query, id, status, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to update schedule status")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("schedule %s not found", id)
	}
	return nil
}
