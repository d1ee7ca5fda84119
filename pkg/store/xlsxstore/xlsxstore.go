// Package xlsxstore reads and writes a room schedule kept in an Excel
// workbook. The first row of the sheet names the attributes and every
// following non-blank row is one room.
package xlsxstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/budova/aptgraph/pkg/room"
	"github.com/budova/aptgraph/pkg/writeback"
)

var (
	ErrNoSheet       = errors.New("sheet not found in workbook")
	ErrUnknownRecord = errors.New("unknown room record")
	ErrNoAttribute   = errors.New("attribute has no column")
	ErrDone          = errors.New("unit of work already finished")
)

// Record is one data row of the sheet.
type Record struct {
	Row int
}

func (r Record) RecordID() string { return "row " + strconv.Itoa(r.Row) }

// Store is a writeback.Accessor over one sheet of a workbook.
type Store struct {
	mu      sync.Mutex
	path    string
	sheet   string
	file    *excelize.File
	columns map[string]int // attribute name -> 1-based column
	rows    map[int][]string
	order   []int
	logger  *zap.Logger
}

// Open loads a workbook. An empty sheet name selects the first sheet.
func Open(path, sheet string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, sheet: sheet, logger: logger}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the workbook.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// Path returns the workbook location.
func (s *Store) Path() string { return s.path }

// load (re)reads the workbook from disk.
func (s *Store) load() error {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			f.Close()
			return ErrNoSheet
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %w", ErrNoSheet, sheet, err)
	}

	columns := make(map[string]int)
	data := make(map[int][]string)
	var order []int
	for i, row := range rows {
		if i == 0 {
			for c, name := range row {
				name = strings.TrimSpace(name)
				if _, dup := columns[name]; name != "" && !dup {
					columns[name] = c + 1
				}
			}
			continue
		}
		if blank(row) {
			continue
		}
		data[i+1] = row
		order = append(order, i+1)
	}

	if s.file != nil {
		s.file.Close()
	}
	s.file = f
	s.sheet = sheet
	s.columns = columns
	s.rows = data
	s.order = order
	s.logger.Debug("workbook loaded",
		zap.String("path", s.path),
		zap.String("sheet", sheet),
		zap.Int("rooms", len(order)))
	return nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (s *Store) ListRooms(_ context.Context) ([]room.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]room.Record, 0, len(s.order))
	for _, r := range s.order {
		recs = append(recs, Record{Row: r})
	}
	return recs, nil
}

func (s *Store) HasAttribute(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.columns[name]
	return ok, nil
}

// GetTag returns the raw cell text. Blank cells are unset.
func (s *Store) GetTag(_ context.Context, rec room.Record, name string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := rec.(Record)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownRecord, rec.RecordID())
	}
	row, ok := s.rows[r.Row]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownRecord, rec.RecordID())
	}
	col, ok := s.columns[name]
	if !ok || col > len(row) {
		return nil, false, nil
	}
	v := strings.TrimSpace(row[col-1])
	if v == "" {
		return nil, false, nil
	}
	return v, true, nil
}

func (s *Store) Begin(_ context.Context) (writeback.UnitOfWork, error) {
	return &unitOfWork{store: s, pending: make(map[string]any)}, nil
}

type unitOfWork struct {
	store   *Store
	pending map[string]any // cell name -> value
	done    bool
}

func (u *unitOfWork) SetAttribute(_ context.Context, rec room.Record, name string, value any) error {
	if u.done {
		return ErrDone
	}
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := rec.(Record)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRecord, rec.RecordID())
	}
	if _, ok := s.rows[r.Row]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRecord, rec.RecordID())
	}
	col, ok := s.columns[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoAttribute, name)
	}
	cell, err := excelize.CoordinatesToCellName(col, r.Row)
	if err != nil {
		return err
	}
	u.pending[cell] = value
	return nil
}

// Commit writes the buffered cells and saves the workbook. A failed save
// reloads the file so the in-memory workbook matches what is on disk.
func (u *unitOfWork) Commit() error {
	if u.done {
		return ErrDone
	}
	u.done = true
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	err := func() error {
		for cell, v := range u.pending {
			if err := s.file.SetCellValue(s.sheet, cell, v); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
		return s.file.Save()
	}()
	if err != nil {
		if rerr := s.load(); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	s.logger.Debug("workbook saved", zap.String("path", s.path), zap.Int("cells", len(u.pending)))
	return s.load()
}

func (u *unitOfWork) Rollback() error {
	u.done = true
	u.pending = nil
	return nil
}
