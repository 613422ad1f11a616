package service

import (
	"bytes"
	"strconv"

	"github.com/xuri/excelize/v2"

	"qatrack/storage"
)

const exportSheet = "Reportes"

// exportColumns is the fixed column order of the spreadsheet.
var exportColumns = []string{"ID", "Reporte", "Fecha", "Solicitud", "Proyecto", "Resultado", "Estado"}

// ExportService serializes the current collection into an xlsx workbook.
type ExportService struct {
	Store storage.Store
}

func NewExportService(store storage.Store) *ExportService {
	return &ExportService{Store: store}
}

// ExportExcel builds the workbook: a header row followed by one row per
// stored record, in listing order.
func (s *ExportService) ExportExcel() ([]byte, error) {
	reports, err := s.Store.List()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, title := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, r := range reports {
		values := []any{
			strconv.FormatInt(r.Id, 10),
			r.Reporte,
			r.Fecha,
			r.Solicitud,
			r.Proyecto,
			r.Resultado,
			r.Estado,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
