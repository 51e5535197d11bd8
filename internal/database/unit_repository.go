package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/labedu/compliance-backend/internal/models"
)

// UnitRepository handles unit and sector database operations
type UnitRepository struct {
	db DB
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// CreateUnit inserts a new laboratory unit
func (r *UnitRepository) CreateUnit(name, address, technicalManager string) (*models.Unit, error) {
	unit := &models.Unit{
		ID:               uuid.New(),
		Name:             name,
		Address:          address,
		TechnicalManager: technicalManager,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	query := `
		INSERT INTO units (id, name, address, technical_manager, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(query, unit.ID, unit.Name, unit.Address, unit.TechnicalManager, unit.CreatedAt, unit.UpdatedAt)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create unit")
	}

	return unit, nil
}

// GetAllUnits returns all units ordered by name
func (r *UnitRepository) GetAllUnits() ([]models.Unit, error) {
	var units []models.Unit
	query := `SELECT * FROM units ORDER BY name`
	if err := r.db.Select(&units, query); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch units")
	}
	return units, nil
}

// GetUnitByID returns one unit
func (r *UnitRepository) GetUnitByID(id uuid.UUID) (*models.Unit, error) {
	var unit models.Unit
	query := `SELECT * FROM units WHERE id = $1`
	if err := r.db.Get(&unit, query, id); err != nil {
		return nil, apperrors.Wrap(err, "unit not found")
	}
	return &unit, nil
}

// UpdateUnit updates a unit's mutable attributes
func (r *UnitRepository) UpdateUnit(id uuid.UUID, name, address, technicalManager string) error {
	query := `
		UPDATE units
		SET name = $2, address = $3, technical_manager = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.db.Exec(query, id, name, address, technicalManager, time.Now())
	if err != nil {
		return apperrors.Wrap(err, "failed to update unit")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("unit %s not found", id)
	}
	return nil
}

// CountEmployeesByUnit counts employees referencing a unit. Units may not be
// deleted while this is non-zero.
func (r *UnitRepository) CountEmployeesByUnit(unitID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM employees WHERE unit_id = $1`
	if err := r.db.Get(&count, query, unitID); err != nil {
		return 0, apperrors.Wrap(err, "failed to count employees for unit")
	}
	return count, nil
}

// CreateSector inserts a sector under a unit
func (r *UnitRepository) CreateSector(unitID uuid.UUID, name string) (*models.Sector, error) {
	sector := &models.Sector{
		ID:        uuid.New(),
		UnitID:    unitID,
		Name:      name,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO sectors (id, unit_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(query, sector.ID, sector.UnitID, sector.Name, sector.CreatedAt)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create sector")
	}

	return sector, nil
}

// GetSectorsByUnit returns all sectors of a unit ordered by name
func (r *UnitRepository) GetSectorsByUnit(unitID uuid.UUID) ([]models.Sector, error) {
	var sectors []models.Sector
	query := `SELECT * FROM sectors WHERE unit_id = $1 ORDER BY name`
	if err := r.db.Select(&sectors, query, unitID); err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch sectors")
	}
	return sectors, nil
}
