package summary

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/budova/aptgraph/pkg/room"
	"github.com/budova/aptgraph/pkg/schedule"
)

func sampleSchedule(t *testing.T) *schedule.Schedule {
	t.Helper()
	rooms := []room.Room{
		{UnitNumber: "A3", Type: room.LivingRoom, RawArea: 18, Level: "1"},
		{UnitNumber: "A3", Type: room.LivingRoom, RawArea: 14, Level: "1"},
		{UnitNumber: "A1", Type: room.LivingRoom, RawArea: 20.004, Level: "1"},
		{UnitNumber: "A1", Type: room.Balcony, RawArea: 5, Level: "1"},
		{UnitNumber: "A12", Type: room.LivingRoom, RawArea: 15, Level: "2"},
		{UnitNumber: "C1", Type: room.PublicRoom, RawArea: 75.55, Level: "0"},
		{UnitNumber: "P1", Type: room.NotLivingRoom, RawArea: 13.2, Level: "-1"},
	}
	sched, report := schedule.Resolve(rooms, schedule.DefaultOptions())
	require.True(t, report.Valid, report.Summary)
	return sched
}

func TestBuildDepartments(t *testing.T) {
	r := Build(sampleSchedule(t))

	want := []string{"Apartments", "Commercial premises", "Parking"}
	require.Len(t, r.Departments, len(want))
	for i, k := range want {
		assert.Equal(t, k, r.Departments[i].Key)
	}
	apts := r.Departments[0]
	assert.Equal(t, 3, apts.Lots)
	assert.Equal(t, 5, apts.Rooms)
	// 32 + 21.5 + 15
	assert.InDelta(t, 68.5, apts.GeneralArea, 1e-9)
}

func TestBuildRoomCountsResidentialOnly(t *testing.T) {
	r := Build(sampleSchedule(t))
	require.Len(t, r.RoomCounts, 2)
	assert.Equal(t, "1", r.RoomCounts[0].Key)
	assert.Equal(t, 2, r.RoomCounts[0].Lots)
	assert.Equal(t, "2", r.RoomCounts[1].Key)
	assert.Equal(t, 1, r.RoomCounts[1].Lots)
}

func TestBuildLevelsInEncounterOrder(t *testing.T) {
	r := Build(sampleSchedule(t))
	var keys []string
	for _, g := range r.Levels {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"1", "2", "0", "-1"}, keys)
}

func TestBuildTotalsAndTypeCodes(t *testing.T) {
	r := Build(sampleSchedule(t))
	assert.Equal(t, 5, r.Total.Lots)
	assert.Equal(t, 7, r.Total.Rooms)
	assert.InDelta(t, 157.25, r.Total.GeneralArea, 1e-9)

	codes := map[string]string{}
	for _, l := range r.Lots {
		codes[l.Number] = l.TypeCode
	}
	assert.Equal(t, "1A", codes["A1"])
	assert.Equal(t, "2A", codes["A3"])
	assert.Equal(t, "1A", codes["A12"])
	assert.Equal(t, "C1", codes["C1"])
}

func TestExportXLSX(t *testing.T) {
	r := Build(sampleSchedule(t))
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, ExportXLSX(r, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetLots}, f.GetSheetList())
	v, _ := f.GetCellValue(SheetSummary, "A2")
	assert.Equal(t, "Apartments", v)

	rows, err := f.GetRows(SheetLots)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "A3", rows[1][0])
	assert.Equal(t, "2A", rows[1][1])
}
