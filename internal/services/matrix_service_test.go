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

func newMatrixService(db *sqlx.DB) *MatrixService {
	return NewMatrixService(
		db,
		database.NewRoleRepository(db),
		database.NewRequirementRepository(db),
		database.NewModuleRepository(db),
		testLogger(),
	)
}

func moduleColumns() []string {
	return []string{
		"id", "title", "description", "short_description", "objectives",
		"training_type", "duration_minutes", "workload_hours",
		"min_score_approval", "requires_quiz", "status", "rdc_reference",
		"created_at", "updated_at",
	}
}

func moduleRow(id uuid.UUID, title string, status models.ModuleStatus) *sqlmock.Rows {
	return sqlmock.NewRows(moduleColumns()).AddRow(
		id, title, "desc", nil, nil,
		"BIOSSEGURANCA", 60, nil,
		70, true, status, nil,
		time.Now(), time.Now(),
	)
}

func expectRoleLookup(mock sqlmock.Sqlmock, roleID uuid.UUID) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM roles WHERE id = $1`)).
		WithArgs(roleID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_critical_function", "created_at", "updated_at"}).
			AddRow(roleID, "Technician", false, time.Now(), time.Now()))
}

func TestSetRequirement_UnknownFrequencyDefaultsToAnnual(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	roleID := uuid.New()
	moduleID := uuid.New()

	expectRoleLookup(mock, roleID)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM training_modules WHERE id = $1`)).
		WithArgs(moduleID).
		WillReturnRows(moduleRow(moduleID, "Biosafety", models.ModulePublished))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO training_role_requirements`)).
		WithArgs(sqlmock.AnyArg(), roleID, moduleID, true, 12, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := newMatrixService(db)
	err := svc.SetRequirement(roleID, &models.SetRequirementRequest{
		ModuleID:    moduleID,
		IsMandatory: true,
		Frequency:   models.Frequency("QUARTERLY"),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRequirement_OnceStoresNilPeriod(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	roleID := uuid.New()
	moduleID := uuid.New()

	expectRoleLookup(mock, roleID)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM training_modules WHERE id = $1`)).
		WithArgs(moduleID).
		WillReturnRows(moduleRow(moduleID, "Onboarding", models.ModulePublished))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO training_role_requirements`)).
		WithArgs(sqlmock.AnyArg(), roleID, moduleID, true, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := newMatrixService(db)
	err := svc.SetRequirement(roleID, &models.SetRequirementRequest{
		ModuleID:    moduleID,
		IsMandatory: true,
		Frequency:   models.FrequencyOnce,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRequirement_RejectsNewMandatoryOnDraftModule(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	roleID := uuid.New()
	moduleID := uuid.New()

	expectRoleLookup(mock, roleID)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM training_modules WHERE id = $1`)).
		WithArgs(moduleID).
		WillReturnRows(moduleRow(moduleID, "Draft Module", models.ModuleDraft))

	// No existing cell for this (role, module) pair
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM training_role_requirements WHERE role_id = $1 AND module_id = $2`)).
		WithArgs(roleID, moduleID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	svc := newMatrixService(db)
	err := svc.SetRequirement(roleID, &models.SetRequirementRequest{
		ModuleID:    moduleID,
		IsMandatory: true,
		Frequency:   models.FrequencyAnnual,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRequirement_ToleratesExistingMandatoryOnUnpublishedModule(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	roleID := uuid.New()
	moduleID := uuid.New()

	expectRoleLookup(mock, roleID)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM training_modules WHERE id = $1`)).
		WithArgs(moduleID).
		WillReturnRows(moduleRow(moduleID, "Unpublished", models.ModuleDraft))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM training_role_requirements WHERE role_id = $1 AND module_id = $2`)).
		WithArgs(roleID, moduleID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role_id", "module_id", "is_mandatory", "recertification_period_months", "created_at", "updated_at"}).
			AddRow(uuid.New(), roleID, moduleID, true, 12, time.Now(), time.Now()))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO training_role_requirements`)).
		WithArgs(sqlmock.AnyArg(), roleID, moduleID, true, 12, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := newMatrixService(db)
	err := svc.SetRequirement(roleID, &models.SetRequirementRequest{
		ModuleID:    moduleID,
		IsMandatory: true,
		Frequency:   models.FrequencyAnnual,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveRole_BlockedWhileEmployeesHoldIt(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	roleID := uuid.New()
	expectRoleLookup(mock, roleID)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM employees WHERE role_id = $1`)).
		WithArgs(roleID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	svc := newMatrixService(db)
	err := svc.RemoveRole(roleID)

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Conflict))

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 3, appErr.Count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveRole_DeletesChildrenFirstInOneTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	roleID := uuid.New()
	expectRoleLookup(mock, roleID)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM employees WHERE role_id = $1`)).
		WithArgs(roleID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM training_role_requirements WHERE role_id = $1`)).
		WithArgs(roleID).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM roles WHERE id = $1`)).
		WithArgs(roleID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := newMatrixService(db)
	require.NoError(t, svc.RemoveRole(roleID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveRole_MissingRoleRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	roleID := uuid.New()
	expectRoleLookup(mock, roleID)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM employees WHERE role_id = $1`)).
		WithArgs(roleID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM training_role_requirements WHERE role_id = $1`)).
		WithArgs(roleID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM roles WHERE id = $1`)).
		WithArgs(roleID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	svc := newMatrixService(db)
	err := svc.RemoveRole(roleID)

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.NotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_AllRowsInOneTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	roleID := uuid.New()
	moduleA := uuid.New()
	moduleB := uuid.New()

	expectRoleLookup(mock, roleID)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM training_modules ORDER BY title`)).
		WillReturnRows(sqlmock.NewRows(moduleColumns()).
			AddRow(moduleA, "Biosafety", "d", nil, nil, "BIOSSEGURANCA", 60, nil, 70, true, models.ModulePublished, nil, time.Now(), time.Now()).
			AddRow(moduleB, "Quality", "d", nil, nil, "QUALIDADE", 45, nil, 70, true, models.ModulePublished, nil, time.Now(), time.Now()))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO training_role_requirements`)).
		WithArgs(sqlmock.AnyArg(), roleID, moduleA, true, 6, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO training_role_requirements`)).
		WithArgs(sqlmock.AnyArg(), roleID, moduleB, false, 12, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := newMatrixService(db)
	err := svc.BulkUpsert(roleID, &models.BulkUpsertRequest{
		Rows: []models.RequirementRow{
			{ModuleID: moduleA, IsMandatory: true, Frequency: models.FrequencyBiannual},
			{ModuleID: moduleB, IsMandatory: false, Frequency: models.FrequencyAnnual},
		},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_UnknownModuleFailsBeforeWriting(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	roleID := uuid.New()
	expectRoleLookup(mock, roleID)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM training_modules ORDER BY title`)).
		WillReturnRows(sqlmock.NewRows(moduleColumns()))

	svc := newMatrixService(db)
	err := svc.BulkUpsert(roleID, &models.BulkUpsertRequest{
		Rows: []models.RequirementRow{
			{ModuleID: uuid.New(), IsMandatory: true, Frequency: models.FrequencyAnnual},
		},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.NotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
