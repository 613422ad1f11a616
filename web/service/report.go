package service

import (
	"qatrack/database/model"
	"qatrack/storage"
)

// ReportService is the CRUD contract over the configured storage backing.
type ReportService struct {
	Store storage.Store
}

func NewReportService(store storage.Store) *ReportService {
	return &ReportService{Store: store}
}

// ListReports returns the full collection, newest first.
func (s *ReportService) ListReports() ([]model.Report, error) {
	return s.Store.List()
}

// CreateReport validates the payload and persists a new record. The returned
// record carries the generated identifier and applied defaults.
func (s *ReportService) CreateReport(f storage.Fields) (*model.Report, error) {
	return s.Store.Create(f)
}

// UpdateReport applies a partial patch; omitted fields keep prior values.
func (s *ReportService) UpdateReport(id string, p storage.Patch) (*model.Report, error) {
	return s.Store.Patch(id, p)
}

// DeleteReport removes exactly one record, or fails with not-found.
func (s *ReportService) DeleteReport(id string) error {
	return s.Store.Delete(id)
}
