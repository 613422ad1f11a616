package storage

import (
	"strconv"

	"gorm.io/gorm"

	"qatrack/database"
	"qatrack/database/model"
)

// GormStore is the relational backing. Every mutation maps to a single
// statement; atomicity comes from the engine itself.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func parseId(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

func (s *GormStore) List() ([]model.Report, error) {
	reports := make([]model.Report, 0)
	err := s.db.Order("id DESC").Find(&reports).Error
	return reports, err
}

func (s *GormStore) Get(id string) (*model.Report, error) {
	n, err := parseId(id)
	if err != nil {
		return nil, err
	}
	var r model.Report
	if err := s.db.First(&r, n).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) Create(f Fields) (*model.Report, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	r := f.newReport()
	if err := s.db.Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) Patch(id string, p Patch) (*model.Report, error) {
	prev, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	merged, err := p.apply(*prev)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{
		"reporte":   merged.Reporte,
		"fecha":     merged.Fecha,
		"solicitud": merged.Solicitud,
		"proyecto":  merged.Proyecto,
		"resultado": merged.Resultado,
		"estado":    merged.Estado,
	}
	if err := s.db.Model(&model.Report{}).Where("id = ?", merged.Id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *GormStore) Delete(id string) error {
	n, err := parseId(id)
	if err != nil {
		return err
	}
	res := s.db.Delete(&model.Report{}, n)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
