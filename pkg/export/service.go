// Package export renders the filtered lead view as a spreadsheet download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jordanlanch/leadflow/pkg/leads"
	"github.com/jordanlanch/leadflow/pkg/models"
)

const sheetName = "Leads"

var headers = []string{
	"ID", "Name", "Email", "Phone", "Status", "Priority", "Source", "Notes",
	"Created At", "Updated At",
}

// Service generates lead exports from the current in-memory view, so a
// download always matches what the board shows under the same filters.
type Service struct {
	leads *leads.Service
}

// NewService creates an export service over the lead view.
func NewService(leadService *leads.Service) *Service {
	return &Service{leads: leadService}
}

// Filename suggests a download name for the given format extension.
func (s *Service) Filename(format string) string {
	return fmt.Sprintf("leads-%s.%s", time.Now().Format("20060102-150405"), format)
}

// WriteExcel renders the filtered view as an xlsx workbook.
func (s *Service) WriteExcel(w io.Writer, filters models.FilterState) error {
	view := s.leads.ViewWith(filters)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, lead := range view {
		row := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), lead.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), lead.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), lead.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), lead.Phone)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), string(lead.Status))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), string(lead.Priority))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), lead.Source)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), lead.Notes)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), lead.CreatedAt.Format(time.RFC3339))
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), lead.UpdatedAt.Format(time.RFC3339))
	}

	return f.Write(w)
}

// WriteCSV renders the filtered view as CSV.
func (s *Service) WriteCSV(w io.Writer, filters models.FilterState) error {
	view := s.leads.ViewWith(filters)

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, lead := range view {
		record := []string{
			lead.ID, lead.Name, lead.Email, lead.Phone,
			string(lead.Status), string(lead.Priority), lead.Source, lead.Notes,
			lead.CreatedAt.Format(time.RFC3339), lead.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row for lead %s: %w", lead.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
