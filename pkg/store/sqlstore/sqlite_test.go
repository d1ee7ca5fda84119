package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/budova/aptgraph/pkg/room"
	"github.com/budova/aptgraph/pkg/schedule"
	"github.com/budova/aptgraph/pkg/writeback"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rooms.db")
	s, err := Open(context.Background(), DriverSQLite, path, writeback.DefaultAttributes(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func typ(t room.Type) *int {
	n := int(t)
	return &n
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	rows := []RoomRow{
		{ID: "r1", UnitNumber: "A3", RoomType: typ(room.LivingRoom), Area: 18, Level: "1"},
		{ID: "r2", UnitNumber: "A3", RoomType: typ(room.LivingRoom), Area: 14, Level: "1"},
		{ID: "r3", UnitNumber: "A1", RoomType: typ(room.LivingRoom), Area: 20.004, Level: "1"},
		{ID: "r4", UnitNumber: "A1", RoomType: typ(room.Loggia), Area: 12.5, Level: "1"},
		{ID: "r5", UnitNumber: "A2", RoomType: typ(room.LivingRoom), Area: 16, Level: "1"},
		{ID: "r6", UnitNumber: "A2", RoomType: typ(room.LivingRoom), Area: 11, Level: "1"},
		{ID: "r7", UnitNumber: "P1", Area: 13.2, Level: "-1"},
	}
	for _, r := range rows {
		require.NoError(t, s.InsertRoom(ctx, r))
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	s, _ := openTemp(t)
	seed(t, s)
	ctx := context.Background()
	a := writeback.DefaultAttributes()
	d := writeback.NewDriver(s, a, zap.NewNop())

	rooms, err := d.ReadRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 7)
	assert.Equal(t, "A1", rooms[2].UnitNumber)
	assert.Equal(t, room.Loggia, rooms[3].Type)
	assert.Equal(t, room.Unknown, rooms[6].Type)
	assert.Equal(t, "-1", rooms[6].Level)

	sched, report := schedule.Resolve(rooms, schedule.DefaultOptions())
	require.True(t, report.Valid, report.Summary)

	res, err := d.Apply(ctx, sched, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Lots)
	assert.Equal(t, 7*13, res.Writes)

	get := func(id, name string) any {
		v, ok, err := s.GetTag(ctx, Record{ID: id}, name)
		require.NoError(t, err)
		require.Truef(t, ok, "%s.%s", id, name)
		return v
	}
	assert.Equal(t, "2A", get("r5", a.ApartmentType))
	assert.Equal(t, "2B", get("r1", a.ApartmentType))
	assert.Equal(t, "1A", get("r4", a.ApartmentType))
	assert.Equal(t, 2, get("r1", a.LivingRoomCount))
	assert.InDelta(t, 6.25, get("r4", a.AreaWithFactor), 1e-9)
	assert.InDelta(t, 26.25, get("r3", a.GeneralArea), 1e-9)
	assert.Equal(t, "A1_3", get("r4", a.RoomIndex))
	assert.Equal(t, "P1_0", get("r7", a.RoomIndex))
	assert.Equal(t, "Parking", get("r7", a.Department))
	assert.Equal(t, "P1", get("r7", a.ApartmentType))
}

func TestSQLiteCancelLeavesNothing(t *testing.T) {
	s, _ := openTemp(t)
	seed(t, s)
	ctx := context.Background()
	a := writeback.DefaultAttributes()
	d := writeback.NewDriver(s, a, nil)

	rooms, err := d.ReadRooms(ctx)
	require.NoError(t, err)
	sched, _ := schedule.Resolve(rooms, schedule.DefaultOptions())

	res, err := d.Apply(ctx, sched, func(current, _ int) bool { return current == 2 })
	require.NoError(t, err)
	assert.True(t, res.Canceled)

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM room_attributes`).Scan(&n))
	assert.Zero(t, n)
}

func TestSQLiteMissingSchema(t *testing.T) {
	s, _ := openTemp(t)
	seed(t, s)
	a := writeback.DefaultAttributes()
	_, err := s.DB().Exec(`DELETE FROM attributes WHERE name = ?`, a.Occupancy)
	require.NoError(t, err)

	_, err = writeback.NewDriver(s, a, nil).ReadRooms(context.Background())
	assert.True(t, errors.Is(err, writeback.ErrMissingSchema))
}

func TestSQLiteEmpty(t *testing.T) {
	s, _ := openTemp(t)
	_, err := writeback.NewDriver(s, writeback.Attributes{}, nil).ReadRooms(context.Background())
	assert.True(t, errors.Is(err, writeback.ErrNoRooms))
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	s, path := openTemp(t)
	seed(t, s)
	require.NoError(t, s.Close())

	again, err := Open(context.Background(), DriverSQLite, path, writeback.DefaultAttributes(), nil)
	require.NoError(t, err)
	defer again.Close()

	recs, err := again.ListRooms(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 7)
}

func TestSQLiteRuns(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordRun(ctx, Run{ID: "a", StartedAt: start, FinishedAt: start.Add(time.Second), Status: RunCommitted, Lots: 4, Rooms: 7, Writes: 91}))
	require.NoError(t, s.RecordRun(ctx, Run{ID: "b", StartedAt: start.Add(time.Hour), FinishedAt: start.Add(time.Hour), Status: RunCanceled, Message: "canceled after lot 2"}))

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, RunCanceled, runs[0].Status)
	assert.Equal(t, "canceled after lot 2", runs[0].Message)
	assert.Equal(t, 91, runs[1].Writes)
	assert.True(t, runs[1].StartedAt.Equal(start))
}
