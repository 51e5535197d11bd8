package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// TrainingService owns the execution side of the program: planning schedules,
// enrolling employees and tracking their progress to completion.
type TrainingService struct {
	scheduleRepo   *database.ScheduleRepository
	enrollmentRepo *database.EnrollmentRepository
	moduleRepo     *database.ModuleRepository
	employeeRepo   *database.EmployeeRepository
	logger         *logrus.Logger
}

// NewTrainingService creates a new training service
func NewTrainingService(scheduleRepo *database.ScheduleRepository, enrollmentRepo *database.EnrollmentRepository, moduleRepo *database.ModuleRepository, employeeRepo *database.EmployeeRepository, logger *logrus.Logger) *TrainingService {
	return &TrainingService{
		scheduleRepo:   scheduleRepo,
		enrollmentRepo: enrollmentRepo,
		moduleRepo:     moduleRepo,
		employeeRepo:   employeeRepo,
		logger:         logger,
	}
}

// CreateSchedule plans a training offering. Only published modules can be
// scheduled, and the end date must not precede the start date.
func (s *TrainingService) CreateSchedule(req *models.CreateScheduleRequest) (*models.TrainingSchedule, error) {
	start, end, err := req.Validate()
	if err != nil {
		return nil, apperrors.Validationf("date", "%s", err.Error())
	}

	module, err := s.moduleRepo.GetByID(req.ModuleID)
	if err != nil {
		return nil, err
	}
	if module.Status != models.ModulePublished {
		return nil, apperrors.Validationf("module_id", "module %q is not published and cannot be scheduled", module.Title)
	}

	if _, err := s.employeeRepo.GetByID(req.InstructorID); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.Create(req.ModuleID, req.UnitID, req.InstructorID, start, end)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"schedule_id": schedule.ID,
		"module_id":   schedule.ModuleID,
		"start":       schedule.StartDate.Format("2006-01-02"),
	}).Info("Training schedule created")

	return schedule, nil
}

// GetSchedule returns one schedule
func (s *TrainingService) GetSchedule(id uuid.UUID) (*models.TrainingSchedule, error) {
	return s.scheduleRepo.GetByID(id)
}

// UpcomingSchedules returns planned and active schedules, soonest first
func (s *TrainingService) UpcomingSchedules(limit int) ([]models.TrainingSchedule, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.scheduleRepo.GetUpcoming(limit)
}

// scheduleTransitions lists the allowed lifecycle moves. Cancellation is
// allowed from any non-terminal state.
var scheduleTransitions = map[models.ScheduleStatus][]models.ScheduleStatus{
	models.SchedulePlanned: {models.ScheduleActive, models.ScheduleCancelled},
	models.ScheduleActive:  {models.ScheduleFinished, models.ScheduleCancelled},
}

// UpdateScheduleStatus moves a schedule through its lifecycle
func (s *TrainingService) UpdateScheduleStatus(id uuid.UUID, status models.ScheduleStatus) error {
	schedule, err := s.scheduleRepo.GetByID(id)
	if err != nil {
		return err
	}

	allowed := false
	for _, next := range scheduleTransitions[schedule.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return apperrors.New(apperrors.Conflict, "schedule cannot move from "+string(schedule.Status)+" to "+string(status))
	}

	return s.scheduleRepo.UpdateStatus(id, status)
}

// Enroll registers an employee into a schedule. Enrolling twice is a no-op
// that returns the existing enrollment.
func (s *TrainingService) Enroll(req *models.EnrollRequest) (*models.Enrollment, error) {
	schedule, err := s.scheduleRepo.GetByID(req.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.Status == models.ScheduleCancelled {
		return nil, apperrors.Validationf("schedule_id", "schedule is cancelled")
	}
	if schedule.Status == models.ScheduleFinished {
		return nil, apperrors.Validationf("schedule_id", "schedule is already finished")
	}

	employee, err := s.employeeRepo.GetByID(req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !employee.IsActive {
		return nil, apperrors.Validationf("employee_id", "employee is inactive")
	}

	existing, err := s.enrollmentRepo.FindActive(req.ScheduleID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	enrollment, err := s.enrollmentRepo.Create(req.ScheduleID, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"enrollment_id": enrollment.ID,
		"schedule_id":   req.ScheduleID,
		"employee_id":   req.EmployeeID,
	}).Info("Employee enrolled")

	return enrollment, nil
}

// ListEmployeeEnrollments returns the trainee-facing enrollment list
func (s *TrainingService) ListEmployeeEnrollments(employeeID uuid.UUID) ([]models.EnrollmentView, error) {
	if _, err := s.employeeRepo.GetByID(employeeID); err != nil {
		return nil, err
	}
	return s.enrollmentRepo.GetByEmployee(employeeID)
}

// UpdateProgress records a trainee's progress. Progress only moves forward
// and only while the enrollment is PENDING or IN_PROGRESS; the first advance
// past zero flips the status to IN_PROGRESS.
func (s *TrainingService) UpdateProgress(enrollmentID uuid.UUID, progressPct int) (*models.Enrollment, error) {
	if progressPct < 0 || progressPct > 100 {
		return nil, apperrors.Validationf("progress_pct", "progress_pct must be between 0 and 100")
	}

	enrollment, err := s.enrollmentRepo.GetByID(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != models.EnrollmentPending && enrollment.Status != models.EnrollmentInProgress {
		return nil, apperrors.New(apperrors.Conflict, "progress cannot change on a "+string(enrollment.Status)+" enrollment")
	}
	if progressPct < enrollment.ProgressPct {
		return nil, apperrors.Validationf("progress_pct", "progress cannot decrease from %d to %d", enrollment.ProgressPct, progressPct)
	}

	status := enrollment.Status
	if progressPct > 0 {
		status = models.EnrollmentInProgress
	}

	if err := s.enrollmentRepo.UpdateProgress(enrollmentID, progressPct, status); err != nil {
		return nil, err
	}

	enrollment.ProgressPct = progressPct
	enrollment.Status = status
	return enrollment, nil
}

// RecordCompletion stores the final outcome of an enrollment. Scores outside
// 0..100 are rejected, never clamped. Completing twice is a conflict.
func (s *TrainingService) RecordCompletion(enrollmentID uuid.UUID, req *models.RecordCompletionRequest) (*models.Enrollment, error) {
	if req.FinalScore < 0 || req.FinalScore > 100 {
		return nil, apperrors.Validationf("final_score", "final_score must be between 0 and 100")
	}

	enrollment, err := s.enrollmentRepo.GetByID(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status == models.EnrollmentCompleted {
		return nil, apperrors.New(apperrors.Conflict, "enrollment is already completed")
	}
	if enrollment.Status == models.EnrollmentExpired {
		return nil, apperrors.New(apperrors.Conflict, "enrollment has expired")
	}

	completedAt := time.Now()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	if err := s.enrollmentRepo.RecordCompletion(enrollmentID, req.FinalScore, completedAt); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"enrollment_id": enrollmentID,
		"final_score":   req.FinalScore,
	}).Info("Training completion recorded")

	enrollment.Status = models.EnrollmentCompleted
	enrollment.ProgressPct = 100
	enrollment.FinalScore = &req.FinalScore
	enrollment.CompletedAt = &completedAt
	return enrollment, nil
}
