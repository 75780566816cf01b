// Package report renders attendance exports as xlsx workbooks.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Relatório Ponto"

var headers = []string{
	"Nome do Funcionário",
	"CPF",
	"Data",
	"Hora",
	"Tipo",
	"Latitude",
	"Longitude",
	"Link Mapa",
}

var columnWidths = []float64{30, 15, 12, 10, 10, 12, 12, 50}

// Row is one export line, already localized and joined to the roster.
type Row struct {
	DisplayName string  `json:"displayName"`
	Handle      string  `json:"handle"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	KindLabel   string  `json:"kind"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	MapLink     string  `json:"mapLink"`
}

// Filename returns the artifact name for a closed date interval, both
// ends as ISO calendar dates.
func Filename(start, end string) string {
	return fmt.Sprintf("Relatorio_%s_a_%s.xlsx", start, end)
}

// Render builds the workbook. Row count is unbounded; the caller's date
// pickers are the only range limiter.
func Render(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := writeRow(f, 1, headerCells()); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cells := []any{
			row.DisplayName,
			row.Handle,
			row.Date,
			row.Time,
			row.KindLabel,
			row.Latitude,
			row.Longitude,
			row.MapLink,
		}
		if err := writeRow(f, i+2, cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func headerCells() []any {
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}

func writeRow(f *excelize.File, rowNum int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to resolve cell name: %w", err)
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
