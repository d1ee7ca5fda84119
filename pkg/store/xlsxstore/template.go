package xlsxstore

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/budova/aptgraph/pkg/writeback"
)

// Row is one room written by Create. A nil RoomType leaves the cell blank.
type Row struct {
	UnitNumber string
	RoomType   *int
	Area       float64
	Level      string
}

// Header returns the column titles of a new schedule: the read attributes
// followed by every written attribute.
func Header(a writeback.Attributes) []string {
	a = a.WithDefaults()
	return append([]string{a.UnitNumber, a.RoomType, a.Area, a.Level}, a.Written()...)
}

// Create writes a new workbook holding the given rooms.
func Create(path, sheet string, a writeback.Attributes, rows []Row) error {
	if sheet == "" {
		sheet = "Rooms"
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := Header(a)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return err
	}

	for i, r := range rows {
		var typ any
		if r.RoomType != nil {
			typ = *r.RoomType
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{r.UnitNumber, typ, r.Area, r.Level}); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
