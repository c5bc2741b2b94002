// Package report builds the downloadable laporan workbook.
package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"rakitin/internal/models"
)

const (
	StockSheet = "Stok Barang"
	ToolSheet  = "Alat Tukang"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	stockHeader = []string{"No", "Nama Barang", "SKU", "Kategori", "Stok", "Satuan", "Dibuat Oleh", "Tanggal"}
	toolHeader  = []string{"No", "Kode", "Nama Alat", "Merk", "Kategori", "Ketersediaan", "Kondisi", "Dibuat Oleh", "Tanggal"}
)

// Filename returns the attachment name for a report generated on date (YYYY-MM-DD).
func Filename(date string) string {
	return fmt.Sprintf("laporan-rakitin-%s.xlsx", date)
}

// StockWorkbook lays out one sheet per collection with a header row, one row
// per record and a total stock row under the stock sheet.
func StockWorkbook(items []models.StockItem, tools []models.Tool) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	stockRows := make([][]any, 0, len(items)+1)
	total := 0
	for i, item := range items {
		total += item.Stok.Int()
		stockRows = append(stockRows, []any{
			i + 1, item.NamaBarang, item.SKU, item.Kategori, item.Stok.Int(), item.Satuan,
			item.CreatedByName, formatDate(item.CreatedAt),
		})
	}
	stockRows = append(stockRows, []any{"", "Total", "", "", total})

	toolRows := make([][]any, 0, len(tools))
	for i, tool := range tools {
		toolRows = append(toolRows, []any{
			i + 1, tool.Kode, tool.NamaAlat, tool.Merk, tool.Kategori, tool.Ketersediaan.Int(), tool.Kondisi,
			tool.CreatedBy, formatDate(tool.CreatedAt),
		})
	}

	if err := writeSheet(f, StockSheet, stockHeader, stockRows, bold); err != nil {
		return nil, err
	}
	if err := writeSheet(f, ToolSheet, toolHeader, toolRows, bold); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(StockSheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	for col, h := range header {
		if err := setCell(f, sheet, col+1, 1, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}

	for r, row := range rows {
		for col, v := range row {
			if err := setCell(f, sheet, col+1, r+2, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
