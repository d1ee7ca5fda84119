// Package sqlstore keeps room records in a SQL database. SQLite (pure Go,
// modernc.org/sqlite) and PostgreSQL (github.com/lib/pq) are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/budova/aptgraph/pkg/room"
	"github.com/budova/aptgraph/pkg/writeback"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrUnknownRecord     = errors.New("unknown room record")
	ErrNoAttribute       = errors.New("attribute not in schema")
	ErrWrongType         = errors.New("value has wrong type for attribute")
)

// Kind is the storage type of an attribute.
type Kind string

const (
	KindText    Kind = "text"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
)

type column struct {
	name string
	kind Kind
}

// Record identifies one row of the rooms table.
type Record struct {
	ID string
}

func (r Record) RecordID() string { return r.ID }

// Store is a writeback.Accessor over a SQL database. The four read
// attributes live in columns of the rooms table; every written attribute
// is a row of room_attributes.
type Store struct {
	db      *sql.DB
	driver  string
	attrs   writeback.Attributes
	columns map[string]column
	logger  *zap.Logger
}

// Open connects to the database, checks the connection, and migrates the
// schema.
func Open(ctx context.Context, driver, dsn string, attrs writeback.Attributes, logger *zap.Logger) (*Store, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := New(db, driver, attrs, logger)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database handle without migrating it.
func New(db *sql.DB, driver string, attrs writeback.Attributes, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	attrs = attrs.WithDefaults()
	return &Store{
		db:     db,
		driver: driver,
		attrs:  attrs,
		columns: map[string]column{
			attrs.UnitNumber: {"unit_number", KindText},
			attrs.RoomType:   {"room_type", KindInteger},
			attrs.Area:       {"area", KindNumber},
			attrs.Level:      {"level", KindText},
		},
		logger: logger,
	}
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// sqliteDSN turns on foreign keys for every pooled connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrate creates the tables and defines every written attribute.
func (s *Store) Migrate(ctx context.Context) error {
	floatType, tsType := "REAL", "TIMESTAMP"
	if s.driver == DriverPostgres {
		floatType, tsType = "DOUBLE PRECISION", "TIMESTAMPTZ"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			unit_number TEXT,
			room_type INTEGER,
			area ` + floatType + `,
			level TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS attributes (
			name TEXT PRIMARY KEY,
			kind TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS room_attributes (
			room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
			name TEXT NOT NULL REFERENCES attributes(name) ON DELETE CASCADE,
			value_text TEXT,
			value_num ` + floatType + `,
			value_int INTEGER,
			PRIMARY KEY (room_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at ` + tsType + ` NOT NULL,
			finished_at ` + tsType + ` NOT NULL,
			status TEXT NOT NULL,
			lots INTEGER NOT NULL,
			rooms INTEGER NOT NULL,
			writes INTEGER NOT NULL,
			message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_position ON rooms(position)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	for _, def := range s.writtenKinds() {
		if err := s.DefineAttribute(ctx, def.name, def.kind); err != nil {
			return err
		}
	}
	s.logger.Debug("schema migrated", zap.String("driver", s.driver))
	return nil
}

func (s *Store) writtenKinds() []column {
	a := s.attrs
	kinds := map[string]Kind{
		a.LivingRoomCount: KindInteger,
		a.RoomIndex:       KindText,
		a.Department:      KindText,
		a.Occupancy:       KindText,
		a.ApartmentType:   KindText,
	}
	defs := make([]column, 0, len(a.Written()))
	for _, name := range a.Written() {
		kind, ok := kinds[name]
		if !ok {
			kind = KindNumber
		}
		defs = append(defs, column{name: name, kind: kind})
	}
	return defs
}

// DefineAttribute adds an attribute to the room schema. Existing
// definitions are left as they are.
func (s *Store) DefineAttribute(ctx context.Context, name string, kind Kind) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO attributes(name, kind) VALUES(?, ?) ON CONFLICT(name) DO NOTHING`),
		name, string(kind))
	if err != nil {
		return fmt.Errorf("define attribute %q: %w", name, err)
	}
	return nil
}

// RoomRow is one row of the rooms table. A nil RoomType is stored as NULL.
type RoomRow struct {
	ID         string
	UnitNumber string
	RoomType   *int
	Area       float64
	Level      string
}

// InsertRoom appends a room after every existing one.
func (s *Store) InsertRoom(ctx context.Context, r RoomRow) error {
	var typ any
	if r.RoomType != nil {
		typ = *r.RoomType
	}
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO rooms(id, position, unit_number, room_type, area, level)
		VALUES(?, (SELECT COALESCE(MAX(position), 0) + 1 FROM rooms), ?, ?, ?, ?)`),
		r.ID, r.UnitNumber, typ, r.Area, r.Level)
	if err != nil {
		return fmt.Errorf("insert room %s: %w", r.ID, err)
	}
	return nil
}

func (s *Store) ListRooms(ctx context.Context) ([]room.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM rooms ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []room.Record
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		recs = append(recs, Record{ID: id})
	}
	return recs, rows.Err()
}

func (s *Store) HasAttribute(ctx context.Context, name string) (bool, error) {
	if _, ok := s.columns[name]; ok {
		return true, nil
	}
	_, ok, err := s.attributeKind(ctx, s.db, name)
	return ok, err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) attributeKind(ctx context.Context, q queryer, name string) (Kind, bool, error) {
	var kind string
	err := q.QueryRowContext(ctx, s.rebind(`SELECT kind FROM attributes WHERE name = ?`), name).Scan(&kind)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return Kind(kind), true, nil
}

func (s *Store) GetTag(ctx context.Context, rec room.Record, name string) (any, bool, error) {
	if col, ok := s.columns[name]; ok {
		return s.getColumn(ctx, rec.RecordID(), col)
	}

	var (
		text sql.NullString
		num  sql.NullFloat64
		n    sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT value_text, value_num, value_int FROM room_attributes WHERE room_id = ? AND name = ?`),
		rec.RecordID(), name).Scan(&text, &num, &n)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	case n.Valid:
		return int(n.Int64), true, nil
	case num.Valid:
		return num.Float64, true, nil
	case text.Valid:
		return text.String, true, nil
	}
	return nil, false, nil
}

func (s *Store) getColumn(ctx context.Context, id string, col column) (any, bool, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+col.name+` FROM rooms WHERE id = ?`), id)

	var (
		v   any
		ok  bool
		err error
	)
	switch col.kind {
	case KindInteger:
		var n sql.NullInt64
		err = row.Scan(&n)
		v, ok = int(n.Int64), n.Valid
	case KindNumber:
		var f sql.NullFloat64
		err = row.Scan(&f)
		v, ok = f.Float64, f.Valid
	default:
		var str sql.NullString
		err = row.Scan(&str)
		v, ok = str.String, str.Valid
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownRecord, id)
	}
	if err != nil || !ok {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) Begin(ctx context.Context) (writeback.UnitOfWork, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &unitOfWork{store: s, tx: tx, kinds: make(map[string]Kind)}, nil
}

type unitOfWork struct {
	store *Store
	tx    *sql.Tx
	kinds map[string]Kind
}

func (u *unitOfWork) kind(ctx context.Context, name string) (Kind, error) {
	if k, ok := u.kinds[name]; ok {
		return k, nil
	}
	k, ok, err := u.store.attributeKind(ctx, u.tx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoAttribute, name)
	}
	u.kinds[name] = k
	return k, nil
}

func (u *unitOfWork) SetAttribute(ctx context.Context, rec room.Record, name string, value any) error {
	s := u.store
	if col, ok := s.columns[name]; ok {
		if !kindAccepts(col.kind, value) {
			return fmt.Errorf("%w: %s got %T", ErrWrongType, name, value)
		}
		res, err := u.tx.ExecContext(ctx, s.rebind(`UPDATE rooms SET `+col.name+` = ? WHERE id = ?`), value, rec.RecordID())
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: %s", ErrUnknownRecord, rec.RecordID())
		}
		return nil
	}

	kind, err := u.kind(ctx, name)
	if err != nil {
		return err
	}
	if !kindAccepts(kind, value) {
		return fmt.Errorf("%w: %s got %T", ErrWrongType, name, value)
	}

	var text, num, n any
	switch kind {
	case KindText:
		text = value
	case KindNumber:
		num = value
	case KindInteger:
		n = value
	}
	_, err = u.tx.ExecContext(ctx, s.rebind(
		`INSERT INTO room_attributes(room_id, name, value_text, value_num, value_int) VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(room_id, name) DO UPDATE SET value_text = excluded.value_text, value_num = excluded.value_num, value_int = excluded.value_int`),
		rec.RecordID(), name, text, num, n)
	return err
}

func (u *unitOfWork) Commit() error {
	return u.tx.Commit()
}

func (u *unitOfWork) Rollback() error {
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func kindAccepts(kind Kind, value any) bool {
	switch kind {
	case KindText:
		_, ok := value.(string)
		return ok
	case KindNumber:
		_, ok := value.(float64)
		return ok
	case KindInteger:
		_, ok := value.(int)
		return ok
	}
	return false
}
