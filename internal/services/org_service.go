package services

import (
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/database"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// OrgService manages the laboratory's organizational reference data
type OrgService struct {
	unitRepo *database.UnitRepository
	logger   *logrus.Logger
}

// NewOrgService creates a new organization service
func NewOrgService(unitRepo *database.UnitRepository, logger *logrus.Logger) *OrgService {
	return &OrgService{unitRepo: unitRepo, logger: logger}
}

// CreateUnit registers a new laboratory unit
func (s *OrgService) CreateUnit(req *models.CreateUnitRequest) (*models.Unit, error) {
	unit, err := s.unitRepo.CreateUnit(req.Name, req.Address, req.TechnicalManager)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("unit_id", unit.ID).Info("Unit created")
	return unit, nil
}

// ListUnits returns all units
func (s *OrgService) ListUnits() ([]models.Unit, error) {
	return s.unitRepo.GetAllUnits()
}

// GetUnit returns one unit
func (s *OrgService) GetUnit(id uuid.UUID) (*models.Unit, error) {
	return s.unitRepo.GetUnitByID(id)
}

// UpdateUnit changes a unit's mutable attributes
func (s *OrgService) UpdateUnit(id uuid.UUID, req *models.CreateUnitRequest) (*models.Unit, error) {
	if err := s.unitRepo.UpdateUnit(id, req.Name, req.Address, req.TechnicalManager); err != nil {
		return nil, err
	}
	return s.unitRepo.GetUnitByID(id)
}

// CreateSector adds a sector under a unit
func (s *OrgService) CreateSector(unitID uuid.UUID, req *models.CreateSectorRequest) (*models.Sector, error) {
	if _, err := s.unitRepo.GetUnitByID(unitID); err != nil {
		return nil, err
	}
	return s.unitRepo.CreateSector(unitID, req.Name)
}

// ListSectors returns the sectors of a unit
func (s *OrgService) ListSectors(unitID uuid.UUID) ([]models.Sector, error) {
	if _, err := s.unitRepo.GetUnitByID(unitID); err != nil {
		return nil, err
	}
	return s.unitRepo.GetSectorsByUnit(unitID)
}
