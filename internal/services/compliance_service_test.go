package services

import (
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func newComplianceService(db database.DB, warningWindow int, now time.Time) *ComplianceService {
	svc := NewComplianceService(
		database.NewEmployeeRepository(db),
		database.NewRoleRepository(db),
		database.NewRequirementRepository(db),
		database.NewEnrollmentRepository(db),
		warningWindow,
		testLogger(),
	)
	svc.now = func() time.Time { return now }
	return svc
}

func employeeColumns() []string {
	return []string{
		"id", "full_name", "cpf", "email", "unit_id", "sector_id", "role_id",
		"system_role", "admission_date", "is_active", "must_change_password",
		"password_hash", "created_at", "updated_at",
	}
}

func employeeRow(id uuid.UUID, roleID *uuid.UUID) *sqlmock.Rows {
	admission := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(employeeColumns()).AddRow(
		id, "Ana Souza", "12345678901", "ana@lab.example", uuid.New(), uuid.New(), roleID,
		"COLLABORATOR", admission, true, false,
		"hash", time.Now(), time.Now(),
	)
}

func expectEmployee(mock sqlmock.Sqlmock, id uuid.UUID, roleID *uuid.UUID) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM employees WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(employeeRow(id, roleID))
}

func expectRole(mock sqlmock.Sqlmock, roleID uuid.UUID, critical bool) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM roles WHERE id = $1`)).
		WithArgs(roleID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_critical_function", "created_at", "updated_at"}).
			AddRow(roleID, "Phlebotomist", critical, time.Now(), time.Now()))
}

func requirementColumns() []string {
	return []string{"requirement_id", "module_id", "recertification_period_months", "module_title", "min_score_approval"}
}

func completionColumns() []string {
	return []string{"module_id", "enrollment_id", "completed_at", "final_score", "created_at"}
}

func TestEvaluateEmployee_NoRoleHasNoObligations(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	employeeID := uuid.New()
	expectEmployee(mock, employeeID, nil)

	svc := newComplianceService(db, 30, time.Now())
	items, err := svc.EvaluateEmployee(employeeID)

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluateEmployee_Statuses(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	employeeID := uuid.New()
	roleID := uuid.New()

	okModule := uuid.New()       // completed recently, due far away
	warningModule := uuid.New()  // due within the warning window
	expiredModule := uuid.New()  // due date passed
	missingModule := uuid.New()  // never completed
	onceModule := uuid.New()     // one-time, satisfied

	expectEmployee(mock, employeeID, &roleID)
	expectRole(mock, roleID, true)

	months12 := 12
	mock.ExpectQuery(regexp.QuoteMeta(`FROM training_role_requirements req`)).
		WithArgs(roleID).
		WillReturnRows(sqlmock.NewRows(requirementColumns()).
			AddRow(uuid.New(), okModule, months12, "Biosafety Basics", 70).
			AddRow(uuid.New(), warningModule, months12, "Sample Handling", 70).
			AddRow(uuid.New(), expiredModule, months12, "Quality Control", 70).
			AddRow(uuid.New(), missingModule, months12, "Waste Disposal", 70).
			AddRow(uuid.New(), onceModule, nil, "Onboarding", 70))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM enrollments e`)).
		WithArgs(employeeID).
		WillReturnRows(sqlmock.NewRows(completionColumns()).
			AddRow(okModule, uuid.New(), now.AddDate(0, -2, 0), 85, now).
			AddRow(warningModule, uuid.New(), now.AddDate(-1, 0, 20), 90, now).
			AddRow(expiredModule, uuid.New(), now.AddDate(-2, 0, 0), 80, now).
			AddRow(onceModule, uuid.New(), now.AddDate(-3, 0, 0), 100, now))

	svc := newComplianceService(db, 30, now)
	items, err := svc.EvaluateEmployee(employeeID)
	require.NoError(t, err)
	require.Len(t, items, 5)

	byModule := make(map[string]models.ComplianceViewItem)
	for _, item := range items {
		byModule[item.ModuleTitle] = item
	}

	assert.Equal(t, models.ComplianceOK, byModule["Biosafety Basics"].Status)
	assert.Equal(t, models.ComplianceWarning, byModule["Sample Handling"].Status)
	assert.Equal(t, models.ComplianceExpired, byModule["Quality Control"].Status)
	assert.Equal(t, models.ComplianceMissing, byModule["Waste Disposal"].Status)
	assert.Equal(t, models.ComplianceOK, byModule["Onboarding"].Status)

	// One-time requirement satisfied forever: no due date
	assert.Nil(t, byModule["Onboarding"].NextDueDate)
	assert.NotNil(t, byModule["Sample Handling"].NextDueDate)
	assert.Negative(t, byModule["Quality Control"].DaysRemaining)

	// Never-completed rows carry a due date derived from admission; this
	// one's admission-based deadline is long past
	assert.NotNil(t, byModule["Waste Disposal"].NextDueDate)
	assert.Nil(t, byModule["Waste Disposal"].LastCompletionDate)
	assert.Negative(t, byModule["Waste Disposal"].DaysRemaining)

	// Ascending by days remaining, satisfied one-time rows last
	assert.Equal(t, "Waste Disposal", items[0].ModuleTitle)
	assert.Equal(t, "Quality Control", items[1].ModuleTitle)
	assert.Equal(t, "Sample Handling", items[2].ModuleTitle)
	assert.Equal(t, "Biosafety Basics", items[3].ModuleTitle)
	assert.Equal(t, "Onboarding", items[4].ModuleTitle)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluateEmployee_WarningAtExactWindowBoundary(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	employeeID := uuid.New()
	roleID := uuid.New()
	boundaryModule := uuid.New() // due in exactly 30 days
	outsideModule := uuid.New()  // due in 31 days

	expectEmployee(mock, employeeID, &roleID)
	expectRole(mock, roleID, false)

	months12 := 12
	mock.ExpectQuery(regexp.QuoteMeta(`FROM training_role_requirements req`)).
		WithArgs(roleID).
		WillReturnRows(sqlmock.NewRows(requirementColumns()).
			AddRow(uuid.New(), boundaryModule, months12, "Biosafety Basics", 70).
			AddRow(uuid.New(), outsideModule, months12, "Quality Control", 70))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM enrollments e`)).
		WithArgs(employeeID).
		WillReturnRows(sqlmock.NewRows(completionColumns()).
			AddRow(boundaryModule, uuid.New(), now.AddDate(-1, 0, 30), 85, now).
			AddRow(outsideModule, uuid.New(), now.AddDate(-1, 0, 31), 85, now))

	svc := newComplianceService(db, 30, now)
	items, err := svc.EvaluateEmployee(employeeID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byModule := make(map[string]models.ComplianceViewItem)
	for _, item := range items {
		byModule[item.ModuleTitle] = item
	}

	// Day 30 is inside the window, day 31 is the first OK day
	assert.Equal(t, 30, byModule["Biosafety Basics"].DaysRemaining)
	assert.Equal(t, models.ComplianceWarning, byModule["Biosafety Basics"].Status)
	assert.Equal(t, 31, byModule["Quality Control"].DaysRemaining)
	assert.Equal(t, models.ComplianceOK, byModule["Quality Control"].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluateEmployee_OverdueSortsBeforeFutureMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	// Recent hire: the admission-derived deadline of the never-completed
	// module is months away, while another training is long overdue.
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	employeeID := uuid.New()
	roleID := uuid.New()
	missingModule := uuid.New()
	expiredModule := uuid.New()

	expectEmployee(mock, employeeID, &roleID)
	expectRole(mock, roleID, false)

	months12 := 12
	mock.ExpectQuery(regexp.QuoteMeta(`FROM training_role_requirements req`)).
		WithArgs(roleID).
		WillReturnRows(sqlmock.NewRows(requirementColumns()).
			AddRow(uuid.New(), missingModule, months12, "Waste Disposal", 70).
			AddRow(uuid.New(), expiredModule, months12, "Quality Control", 70))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM enrollments e`)).
		WithArgs(employeeID).
		WillReturnRows(sqlmock.NewRows(completionColumns()).
			AddRow(expiredModule, uuid.New(), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 90, now))

	svc := newComplianceService(db, 30, now)
	items, err := svc.EvaluateEmployee(employeeID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// The overdue row outranks the MISSING row whose deadline is still ahead
	assert.Equal(t, "Quality Control", items[0].ModuleTitle)
	assert.Equal(t, models.ComplianceExpired, items[0].Status)
	assert.Negative(t, items[0].DaysRemaining)
	assert.Equal(t, "Waste Disposal", items[1].ModuleTitle)
	assert.Equal(t, models.ComplianceMissing, items[1].Status)
	assert.Positive(t, items[1].DaysRemaining)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluateEmployee_FailingScoreDoesNotQualify(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	employeeID := uuid.New()
	roleID := uuid.New()
	moduleID := uuid.New()

	expectEmployee(mock, employeeID, &roleID)
	expectRole(mock, roleID, false)

	months12 := 12
	mock.ExpectQuery(regexp.QuoteMeta(`FROM training_role_requirements req`)).
		WithArgs(roleID).
		WillReturnRows(sqlmock.NewRows(requirementColumns()).
			AddRow(uuid.New(), moduleID, months12, "Biosafety Basics", 70))

	// Most recent attempt failed; an older attempt passed. The older passing
	// completion is the qualifying one, so the due date derives from it.
	passedAt := now.AddDate(-1, 0, 20)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM enrollments e`)).
		WithArgs(employeeID).
		WillReturnRows(sqlmock.NewRows(completionColumns()).
			AddRow(moduleID, uuid.New(), now.AddDate(0, -1, 0), 55, now).
			AddRow(moduleID, uuid.New(), passedAt, 75, now))

	svc := newComplianceService(db, 30, now)
	items, err := svc.EvaluateEmployee(employeeID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NotNil(t, items[0].LastCompletionDate)
	assert.True(t, items[0].LastCompletionDate.Equal(passedAt))
	assert.Equal(t, models.ComplianceWarning, items[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluateEmployee_SkipsDanglingModule(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	now := time.Now()
	employeeID := uuid.New()
	roleID := uuid.New()
	goodModule := uuid.New()

	expectEmployee(mock, employeeID, &roleID)
	expectRole(mock, roleID, false)

	months12 := 12
	mock.ExpectQuery(regexp.QuoteMeta(`FROM training_role_requirements req`)).
		WithArgs(roleID).
		WillReturnRows(sqlmock.NewRows(requirementColumns()).
			AddRow(uuid.New(), uuid.New(), months12, nil, nil). // dangling
			AddRow(uuid.New(), goodModule, months12, "Quality Control", 70))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM enrollments e`)).
		WithArgs(employeeID).
		WillReturnRows(sqlmock.NewRows(completionColumns()))

	svc := newComplianceService(db, 30, now)
	items, err := svc.EvaluateEmployee(employeeID)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "Quality Control", items[0].ModuleTitle)
	assert.Equal(t, models.ComplianceMissing, items[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummarize(t *testing.T) {
	svc := newComplianceServiceForSummary()

	items := []models.ComplianceViewItem{
		{Status: models.ComplianceOK},
		{Status: models.ComplianceOK},
		{Status: models.ComplianceWarning},
		{Status: models.ComplianceExpired},
	}

	summary := svc.Summarize(items)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.OK)
	assert.Equal(t, 1, summary.Warning)
	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 0, summary.Missing)
	assert.Equal(t, 50.0, summary.RatePct)
}

func TestSummarize_Empty(t *testing.T) {
	svc := newComplianceServiceForSummary()
	summary := svc.Summarize(nil)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.RatePct)
}

func newComplianceServiceForSummary() *ComplianceService {
	return NewComplianceService(nil, nil, nil, nil, 30, testLogger())
}
