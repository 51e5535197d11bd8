package services

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ComplianceService derives, never stores, the compliance standing of
// employees against their role's mandatory training matrix.
type ComplianceService struct {
	employeeRepo   *database.EmployeeRepository
	roleRepo       *database.RoleRepository
	reqRepo        *database.RequirementRepository
	enrollmentRepo *database.EnrollmentRepository
	warningWindow  int
	logger         *logrus.Logger

	now func() time.Time
}

// NewComplianceService creates a new compliance service. warningWindowDays is
// how many days before a due date a requirement turns WARNING.
func NewComplianceService(employeeRepo *database.EmployeeRepository, roleRepo *database.RoleRepository, reqRepo *database.RequirementRepository, enrollmentRepo *database.EnrollmentRepository, warningWindowDays int, logger *logrus.Logger) *ComplianceService {
	return &ComplianceService{
		employeeRepo:   employeeRepo,
		roleRepo:       roleRepo,
		reqRepo:        reqRepo,
		enrollmentRepo: enrollmentRepo,
		warningWindow:  warningWindowDays,
		logger:         logger,
		now:            time.Now,
	}
}

// EvaluateEmployee computes the compliance row for each mandatory module of
// the employee's role. An employee without a role has no obligations and gets
// an empty report. Requirement rows whose module reference dangles are
// skipped and logged instead of failing the whole report.
func (s *ComplianceService) EvaluateEmployee(employeeID uuid.UUID) ([]models.ComplianceViewItem, error) {
	employee, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		return nil, err
	}
	if employee.RoleID == nil {
		return []models.ComplianceViewItem{}, nil
	}

	role, err := s.roleRepo.GetByID(*employee.RoleID)
	if err != nil {
		return nil, err
	}

	requirements, err := s.reqRepo.GetMandatoryWithModules(role.ID)
	if err != nil {
		return nil, err
	}
	if len(requirements) == 0 {
		return []models.ComplianceViewItem{}, nil
	}

	completions, err := s.enrollmentRepo.GetCompletionsByEmployee(employeeID)
	if err != nil {
		return nil, err
	}

	// Completions arrive ordered per module: completion date desc, score
	// desc, recency desc, id desc. The first row per module that meets the
	// module's approval score is the qualifying completion.
	byModule := make(map[uuid.UUID][]models.CompletionRecord)
	for _, c := range completions {
		byModule[c.ModuleID] = append(byModule[c.ModuleID], c)
	}

	now := s.now()
	items := make([]models.ComplianceViewItem, 0, len(requirements))

	for _, req := range requirements {
		if req.ModuleTitle == nil || req.MinScoreApproval == nil {
			s.logger.WithFields(logrus.Fields{
				"requirement_id": req.RequirementID,
				"module_id":      req.ModuleID,
			}).Warn("Skipping requirement with dangling module reference")
			continue
		}

		item := models.ComplianceViewItem{
			EmployeeID:         employee.ID,
			EmployeeName:       employee.FullName,
			RoleID:             role.ID,
			RoleName:           role.Name,
			ModuleID:           req.ModuleID,
			ModuleTitle:        *req.ModuleTitle,
			IsCriticalFunction: role.IsCriticalFunction,
		}

		qualifying := firstQualifying(byModule[req.ModuleID], *req.MinScoreApproval)
		if qualifying == nil {
			// Never completed: the clock runs from admission. Status stays
			// MISSING no matter how far out the due date is.
			item.Status = models.ComplianceMissing
			due := employee.AdmissionDate
			if req.RecertificationPeriodMonths != nil {
				due = due.AddDate(0, *req.RecertificationPeriodMonths, 0)
			}
			item.NextDueDate = &due
			item.DaysRemaining = wholeDaysUntil(now, due)
			items = append(items, item)
			continue
		}

		completedAt := qualifying.CompletedAt
		item.LastCompletionDate = &completedAt

		if req.RecertificationPeriodMonths == nil {
			// One-time training, satisfied forever once passed
			item.Status = models.ComplianceOK
			items = append(items, item)
			continue
		}

		due := completedAt.AddDate(0, *req.RecertificationPeriodMonths, 0)
		item.NextDueDate = &due
		item.DaysRemaining = wholeDaysUntil(now, due)

		switch {
		case item.DaysRemaining < 0:
			item.Status = models.ComplianceExpired
		case item.DaysRemaining <= s.warningWindow:
			// Inclusive: due in exactly warningWindow days is already WARNING
			item.Status = models.ComplianceWarning
		default:
			item.Status = models.ComplianceOK
		}

		items = append(items, item)
	}

	sortComplianceItems(items)
	return items, nil
}

// EvaluateAll evaluates every active employee and returns the combined report
func (s *ComplianceService) EvaluateAll() ([]models.ComplianceViewItem, error) {
	employees, err := s.employeeRepo.GetAll(true)
	if err != nil {
		return nil, err
	}

	var all []models.ComplianceViewItem
	for _, emp := range employees {
		items, err := s.EvaluateEmployee(emp.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}

	sortComplianceItems(all)
	return all, nil
}

// Alerts filters a report down to the rows that need attention: everything
// MISSING or EXPIRED plus items due within the warning window.
func (s *ComplianceService) Alerts(items []models.ComplianceViewItem) []models.ComplianceViewItem {
	alerts := make([]models.ComplianceViewItem, 0)
	for _, item := range items {
		if item.Status != models.ComplianceOK {
			alerts = append(alerts, item)
		}
	}
	return alerts
}

// Summarize aggregates a report into dashboard counters
func (s *ComplianceService) Summarize(items []models.ComplianceViewItem) models.ComplianceSummary {
	summary := models.ComplianceSummary{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case models.ComplianceOK:
			summary.OK++
		case models.ComplianceWarning:
			summary.Warning++
		case models.ComplianceExpired:
			summary.Expired++
		case models.ComplianceMissing:
			summary.Missing++
		}
	}
	if summary.Total > 0 {
		summary.RatePct = math.Round(float64(summary.OK)/float64(summary.Total)*10000) / 100
	}
	return summary
}

// firstQualifying returns the first record meeting the approval score, or nil.
// records are pre-ordered so the first hit is the canonical pick.
func firstQualifying(records []models.CompletionRecord, minScore int) *models.CompletionRecord {
	for i := range records {
		if records[i].FinalScore >= minScore {
			return &records[i]
		}
	}
	return nil
}

// wholeDaysUntil returns whole days from now to due, negative when overdue.
// Partial days round down so a deadline later today still reads as 0 days.
func wholeDaysUntil(now, due time.Time) int {
	return int(math.Floor(due.Sub(now).Hours() / 24))
}

// sortComplianceItems orders a report by days remaining ascending, so the
// most overdue row comes first whatever its status. MISSING rows carry an
// admission-derived due date and sort on it like everything else. Satisfied
// one-time rows have no due date and sort last. Module title breaks ties so
// reports are reproducible.
func sortComplianceItems(items []models.ComplianceViewItem) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].NextDueDate != nil, items[j].NextDueDate != nil
		if di != dj {
			return di
		}
		if di && items[i].DaysRemaining != items[j].DaysRemaining {
			return items[i].DaysRemaining < items[j].DaysRemaining
		}
		return items[i].ModuleTitle < items[j].ModuleTitle
	})
}
