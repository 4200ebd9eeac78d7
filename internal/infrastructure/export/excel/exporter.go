package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ekovalenko/skincheck/internal/core/domain"
)

const sheetName = "Submissions"

var headers = []string{"ID", "Filename", "Status", "Risk", "Explanation", "Report Path", "Error", "Created At"}

// Exporter writes assessment history into an xlsx workbook, one row per
// submission, newest first as given by the repository.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Write(_ context.Context, path string, submissions []domain.Submission) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("name submissions sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("write header cell: %w", err)
		}
	}

	for i, sub := range submissions {
		values := []interface{}{
			sub.ID,
			sub.Filename,
			string(sub.Status),
			string(sub.Risk),
			sub.Explanation,
			sub.ReportPath,
			sub.Error,
			sub.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("resolve row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("write row cell: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
