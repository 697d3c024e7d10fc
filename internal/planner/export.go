package planner

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet WriteWorkbook fills.
const SheetName = "Plan"

var workbookHeader = []any{"Level", "Code", "Name", "Year", "Term", "Hours", "Dependents", "Score"}

// WriteWorkbook writes the plan as an xlsx workbook with one row per course.
// Cycle members are labelled "cycle" in the level column.
func WriteWorkbook(w io.Writer, plan *Plan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &workbookHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	row := 2
	for _, level := range plan.Levels {
		var label any = level.Level
		if level.Level == CycleLevel {
			label = "cycle"
		}
		for _, c := range level.Courses {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			values := []any{label, c.Code, c.Name, c.Year, c.Term, c.Hours, c.DependentsCount, c.Score}
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
