package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// Sheet names of the exported workbook
const (
	SheetPivot  = "근무표"
	SheetDaily  = "일별"
	SheetList   = "배정목록"
	SheetTotals = "합계"
)

var listHeader = []string{"row", "date", "campus", "location", "staff", "kind"}

// WriteCSV writes the raw assignment list
func WriteCSV(w io.Writer, r *models.Roster) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(listHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, a := range r.Assignments {
		record := []string{strconv.Itoa(a.Row), a.Date, a.Campus, a.Location, a.StaffName, string(a.Kind)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", a.Row, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes a workbook with the pivot, per-date tables, the raw list
// and per-staff totals
func WriteXLSX(w io.Writer, r *models.Roster, cfg *config.Config) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "333333", Style: 1},
			{Type: "right", Color: "333333", Style: 1},
			{Type: "top", Color: "333333", Style: 1},
			{Type: "bottom", Color: "333333", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetPivot); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	pivot := Pivot(r, cfg)
	if err := writeTable(f, SheetPivot, 1, pivot, headerStyle); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetDaily); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetDaily, err)
	}
	row := 1
	for _, day := range Daily(r, cfg) {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(SheetDaily, cell, day.Date); err != nil {
			return fmt.Errorf("failed to write date heading: %w", err)
		}
		if err := writeTable(f, SheetDaily, row+1, day.Table, headerStyle); err != nil {
			return err
		}
		row += len(day.Table.Rows) + 3
	}

	if _, err := f.NewSheet(SheetList); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetList, err)
	}
	list := Table{Header: listHeader}
	for _, a := range r.Assignments {
		list.Rows = append(list.Rows, []string{strconv.Itoa(a.Row), a.Date, a.Campus, a.Location, a.StaffName, string(a.Kind)})
	}
	if err := writeTable(f, SheetList, 1, list, headerStyle); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetTotals); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetTotals, err)
	}
	totals := Table{Header: []string{"staff", "assigned", "work_count"}}
	for _, t := range Totals(r) {
		totals.Rows = append(totals.Rows, []string{t.Name, strconv.Itoa(t.Assigned), strconv.Itoa(t.WorkCount)})
	}
	if err := writeTable(f, SheetTotals, 1, totals, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, startRow int, t Table, headerStyle int) error {
	header := toRow(t.Header)
	first, _ := excelize.CoordinatesToCellName(1, startRow)
	if err := f.SetSheetRow(sheet, first, &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(t.Header), startRow)
	if err := f.SetCellStyle(sheet, first, last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, r := range t.Rows {
		values := toRow(r)
		cell, _ := excelize.CoordinatesToCellName(1, startRow+i+1)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
