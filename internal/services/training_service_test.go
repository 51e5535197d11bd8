package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrainingService(db *sqlx.DB) *TrainingService {
	return NewTrainingService(
		database.NewScheduleRepository(db),
		database.NewEnrollmentRepository(db),
		database.NewModuleRepository(db),
		database.NewEmployeeRepository(db),
		testLogger(),
	)
}

func scheduleColumns() []string {
	return []string{
		"id", "module_id", "unit_id", "instructor_id", "start_date", "end_date",
		"status", "created_at", "updated_at", "module_title", "training_type",
	}
}

func scheduleRow(id uuid.UUID, status models.ScheduleStatus) *sqlmock.Rows {
	return sqlmock.NewRows(scheduleColumns()).AddRow(
		id, uuid.New(), nil, uuid.New(), time.Now(), time.Now().AddDate(0, 0, 7),
		status, time.Now(), time.Now(), "Biosafety", "BIOSSEGURANCA",
	)
}

func enrollmentColumns() []string {
	return []string{
		"id", "schedule_id", "employee_id", "status", "progress_pct",
		"final_score", "completed_at", "created_at", "updated_at",
	}
}

func TestCreateSchedule_RejectsEndBeforeStart(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	svc := newTrainingService(db)
	_, err := svc.CreateSchedule(&models.CreateScheduleRequest{
		ModuleID:     uuid.New(),
		InstructorID: uuid.New(),
		StartDate:    "2026-09-10",
		EndDate:      "2026-09-01",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchedule_RejectsDraftModule(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	moduleID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM training_modules WHERE id = $1`)).
		WithArgs(moduleID).
		WillReturnRows(moduleRow(moduleID, "Draft", models.ModuleDraft))

	svc := newTrainingService(db)
	_, err := svc.CreateSchedule(&models.CreateScheduleRequest{
		ModuleID:     moduleID,
		InstructorID: uuid.New(),
		StartDate:    "2026-09-01",
		EndDate:      "2026-09-10",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnroll_IsIdempotent(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	scheduleID := uuid.New()
	employeeID := uuid.New()
	existingID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM training_schedule s`)).
		WithArgs(scheduleID).
		WillReturnRows(scheduleRow(scheduleID, models.SchedulePlanned))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM employees WHERE id = $1`)).
		WithArgs(employeeID).
		WillReturnRows(employeeRow(employeeID, nil))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM enrollments`)).
		WithArgs(scheduleID, employeeID).
		WillReturnRows(sqlmock.NewRows(enrollmentColumns()).
			AddRow(existingID, scheduleID, employeeID, "IN_PROGRESS", 40, nil, nil, time.Now(), time.Now()))

	svc := newTrainingService(db)
	enrollment, err := svc.Enroll(&models.EnrollRequest{ScheduleID: scheduleID, EmployeeID: employeeID})

	require.NoError(t, err)
	assert.Equal(t, existingID, enrollment.ID)
	assert.Equal(t, models.EnrollmentInProgress, enrollment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnroll_RejectsCancelledSchedule(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	scheduleID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM training_schedule s`)).
		WithArgs(scheduleID).
		WillReturnRows(scheduleRow(scheduleID, models.ScheduleCancelled))

	svc := newTrainingService(db)
	_, err := svc.Enroll(&models.EnrollRequest{ScheduleID: scheduleID, EmployeeID: uuid.New()})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProgress_RejectsOutOfRange(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	svc := newTrainingService(db)

	_, err := svc.UpdateProgress(uuid.New(), -1)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))

	_, err = svc.UpdateProgress(uuid.New(), 101)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
}

func TestUpdateProgress_NeverMovesBackward(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	enrollmentID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM enrollments WHERE id = $1`)).
		WithArgs(enrollmentID).
		WillReturnRows(sqlmock.NewRows(enrollmentColumns()).
			AddRow(enrollmentID, uuid.New(), uuid.New(), "IN_PROGRESS", 60, nil, nil, time.Now(), time.Now()))

	svc := newTrainingService(db)
	_, err := svc.UpdateProgress(enrollmentID, 40)

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProgress_FlipsPendingToInProgress(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	enrollmentID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM enrollments WHERE id = $1`)).
		WithArgs(enrollmentID).
		WillReturnRows(sqlmock.NewRows(enrollmentColumns()).
			AddRow(enrollmentID, uuid.New(), uuid.New(), "PENDING", 0, nil, nil, time.Now(), time.Now()))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE enrollments`)).
		WithArgs(enrollmentID, 25, models.EnrollmentInProgress, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := newTrainingService(db)
	enrollment, err := svc.UpdateProgress(enrollmentID, 25)

	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentInProgress, enrollment.Status)
	assert.Equal(t, 25, enrollment.ProgressPct)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProgress_RejectedOnCompletedEnrollment(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	enrollmentID := uuid.New()
	completedAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM enrollments WHERE id = $1`)).
		WithArgs(enrollmentID).
		WillReturnRows(sqlmock.NewRows(enrollmentColumns()).
			AddRow(enrollmentID, uuid.New(), uuid.New(), "COMPLETED", 100, 90, completedAt, time.Now(), time.Now()))

	svc := newTrainingService(db)
	_, err := svc.UpdateProgress(enrollmentID, 100)

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Conflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordCompletion_RejectsScoreOutOfRange(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	svc := newTrainingService(db)
	_, err := svc.RecordCompletion(uuid.New(), &models.RecordCompletionRequest{FinalScore: 140})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
}

func TestRecordCompletion_SetsOutcome(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	enrollmentID := uuid.New()
	completedAt := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM enrollments WHERE id = $1`)).
		WithArgs(enrollmentID).
		WillReturnRows(sqlmock.NewRows(enrollmentColumns()).
			AddRow(enrollmentID, uuid.New(), uuid.New(), "IN_PROGRESS", 80, nil, nil, time.Now(), time.Now()))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE enrollments`)).
		WithArgs(enrollmentID, 92, completedAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := newTrainingService(db)
	enrollment, err := svc.RecordCompletion(enrollmentID, &models.RecordCompletionRequest{
		FinalScore:  92,
		CompletedAt: &completedAt,
	})

	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, enrollment.Status)
	assert.Equal(t, 100, enrollment.ProgressPct)
	require.NotNil(t, enrollment.FinalScore)
	assert.Equal(t, 92, *enrollment.FinalScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordCompletion_CompletingTwiceIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	enrollmentID := uuid.New()
	completedAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM enrollments WHERE id = $1`)).
		WithArgs(enrollmentID).
		WillReturnRows(sqlmock.NewRows(enrollmentColumns()).
			AddRow(enrollmentID, uuid.New(), uuid.New(), "COMPLETED", 100, 85, completedAt, time.Now(), time.Now()))

	svc := newTrainingService(db)
	_, err := svc.RecordCompletion(enrollmentID, &models.RecordCompletionRequest{FinalScore: 90})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Conflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateScheduleStatus_RejectsIllegalTransition(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	scheduleID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM training_schedule s`)).
		WithArgs(scheduleID).
		WillReturnRows(scheduleRow(scheduleID, models.ScheduleFinished))

	svc := newTrainingService(db)
	err := svc.UpdateScheduleStatus(scheduleID, models.ScheduleActive)

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Conflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}
