package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"farmdash/entities"
)

const sheet = "Metrics"

// Stamp formats the record's timestamp for the sheet.
type Stamp func(entities.FarmRecord) string

// WriteRecord writes rec as a two-column workbook (metric, value) to w.
func WriteRecord(w io.Writer, rec entities.FarmRecord, stamp Stamp) error {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Yield (t/ha)", rec.Yield},
		{"Risk (%)", rec.Risk},
		{"Water saved (L)", rec.Water},
		{"Updated", stamp(rec)},
	}
	for i, s := range rec.Suggestions {
		rows = append(rows, []any{fmt.Sprintf("Hunch %d", i+1), s})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := x.SetColWidth(sheet, "A", "A", 18); err != nil {
		return err
	}
	_, err := x.WriteTo(w)
	return err
}
