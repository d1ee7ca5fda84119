package summary

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names of an exported workbook.
const (
	SheetSummary = "Summary"
	SheetLots    = "Lots"
)

var totalsHeader = []any{"Lots", "Rooms", "Area, m2", "Living area, m2", "General area, m2", "General sales area, m2"}

func totalsCells(key string, t Totals) []any {
	return []any{key, t.Lots, t.Rooms, t.Area, t.LivingArea, t.GeneralArea, t.GeneralSalesArea}
}

// ExportXLSX writes the report as a two-sheet workbook: the breakdowns on
// "Summary" and one row per lot on "Lots".
func ExportXLSX(r *Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetLots); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: SheetSummary, bold: bold}
	w.section("Department", r.Departments)
	w.section("Living rooms", r.RoomCounts)
	w.section("Level", r.Levels)
	w.header(append([]any{"Total"}, totalsHeader...))
	w.row(totalsCells("", r.Total))

	w = &sheetWriter{f: f, sheet: SheetLots, bold: bold}
	w.header([]any{"Number", "Type", "Level", "Department", "Occupancy", "Rooms", "Living rooms",
		"Area, m2", "Living area, m2", "Living sales area, m2", "General area, m2", "General sales area, m2"})
	for _, l := range r.Lots {
		w.row([]any{l.Number, l.TypeCode, l.Level, l.Department, l.Occupancy, l.RoomCount, l.LivingRoomCount,
			l.Area, l.LivingArea, l.LivingSalesArea, l.GeneralArea, l.GeneralSalesArea})
	}
	if w.err != nil {
		return w.err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	bold  int
	next  int
	err   error
}

func (w *sheetWriter) row(cells []any) {
	if w.err != nil {
		return
	}
	w.next++
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &cells)
}

func (w *sheetWriter) header(cells []any) {
	w.row(cells)
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, w.next)
	last, _ := excelize.CoordinatesToCellName(len(cells), w.next)
	w.err = w.f.SetCellStyle(w.sheet, first, last, w.bold)
}

func (w *sheetWriter) section(title string, groups []Group) {
	w.header(append([]any{title}, totalsHeader...))
	for _, g := range groups {
		w.row(totalsCells(g.Key, g.Totals))
	}
	w.next++
}
