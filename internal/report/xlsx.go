package report

import (
	"fmt"

	"cdrgraft/internal/oasis"
	"cdrgraft/internal/pipeline"

	"github.com/xuri/excelize/v2"
)

// OverviewSheet is the name of the summary sheet in the xlsx report.
const OverviewSheet = "Overview"

// OverviewColumns is the summary header row. Humanness cells are left empty
// for a side whose score could not be computed.
var OverviewColumns = []string{
	"Antibody",
	"Parental_OASis_Identity",
	"Parental_OASis_Percentile",
	"Parental_Heavy_OASis_Identity",
	"Parental_Light_OASis_Identity",
	"OASis_Identity",
	"OASis_Percentile",
	"Heavy_OASis_Identity",
	"Light_OASis_Identity",
	"Num_Mutations",
}

// OverviewRows builds one summary row per entry, in entry order. Cell values
// are any-typed so empty cells stay empty in the sheet (nil, not zero).
func OverviewRows(entries []pipeline.Entry) [][]any {
	rows := make([][]any, 0, len(entries))
	for _, entry := range entries {
		row := make([]any, 0, len(OverviewColumns))
		row = append(row, entry.Name)
		row = append(row, scoreCells(entry.ParentalHumanness)...)
		row = append(row, scoreCells(entry.HumanizedHumanness)...)
		row = append(row, entry.Humanization.TotalMutations())
		rows = append(rows, row)
	}
	return rows
}

// scoreCells expands an optional humanness score into its four overview
// cells: overall identity, overall percentile, heavy identity, light
// identity.
func scoreCells(score *oasis.AntibodyScore) []any {
	cells := make([]any, 4)
	if score == nil {
		return cells
	}
	cells[0] = score.Identity()
	cells[1] = score.Percentile()
	if score.VH != nil {
		cells[2] = score.VH.Identity
	}
	if score.VL != nil {
		cells[3] = score.VL.Identity
	}
	return cells
}

// WriteOverviewXLSX writes the overview sheet to path.
func WriteOverviewXLSX(path string, entries []pipeline.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(OverviewSheet); err != nil {
		return fmt.Errorf("creating overview sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	for col, name := range OverviewColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(OverviewSheet, cell, name); err != nil {
			return err
		}
	}
	for i, row := range OverviewRows(entries) {
		for col, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(OverviewSheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
