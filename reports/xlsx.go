package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	dailySheet  = "Daily"
	hourlySheet = "Hourly"
)

// WriteXLSX writes a workbook with a daily and an hourly sheet.
func WriteXLSX(w io.Writer, r *AccessReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dailySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(hourlySheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	meta := [][2]interface{}{
		{"Restaurant", r.RestaurantName},
		{"Period", r.Period()},
		{"Table", r.TableLabel()},
		{"Generated at (UTC)", r.GeneratedAt.Format("2006-01-02 15:04")},
	}
	for i, kv := range meta {
		row := i + 1
		if err := setRow(f, dailySheet, row, kv[0], kv[1]); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(dailySheet, "A1", fmt.Sprintf("A%d", len(meta)), bold); err != nil {
		return err
	}

	headerRow := len(meta) + 2
	if err := setRow(f, dailySheet, headerRow, "Date", "Total accesses"); err != nil {
		return err
	}
	row := headerRow + 1
	for _, d := range r.Daily {
		if err := setRow(f, dailySheet, row, d.Date, d.TotalAccesses); err != nil {
			return err
		}
		row++
	}
	if err := setRow(f, dailySheet, row, "Total", r.Total); err != nil {
		return err
	}
	if err := f.SetCellStyle(dailySheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("B%d", headerRow), bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(dailySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), bold); err != nil {
		return err
	}
	if err := f.SetColWidth(dailySheet, "A", "B", 22); err != nil {
		return err
	}

	if err := setRow(f, hourlySheet, 1, "Hour (UTC)", "Accesses"); err != nil {
		return err
	}
	for i, h := range r.Hourly {
		if err := setRow(f, hourlySheet, i+2, fmt.Sprintf("%02d:00", h.Hour), h.Count); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(hourlySheet, "A1", "B1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(hourlySheet, "A", "B", 14); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, a, b interface{}) error {
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), a); err != nil {
		return err
	}
	return f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b)
}
