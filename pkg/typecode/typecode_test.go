package typecode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budova/aptgraph/pkg/lot"
	"github.com/budova/aptgraph/pkg/room"
)

func apartment(number, level string, livingRooms int) *lot.Lot {
	l := &lot.Lot{Number: number}
	for i := 0; i < livingRooms; i++ {
		l.Rooms = append(l.Rooms, room.Room{UnitNumber: number, Type: room.LivingRoom, RawArea: 12, Level: level})
	}
	l.Rooms = append(l.Rooms, room.Room{UnitNumber: number, Type: room.NotLivingRoom, RawArea: 6, Level: level})
	return l
}

func TestAlphabet(t *testing.T) {
	assert.Len(t, Alphabet, 22)
	assert.Equal(t, "ABCDEFGHJKLMNPQRSTUWXY", Alphabet)
}

func TestSuffixNumber(t *testing.T) {
	cases := map[string]int{
		"A-12":  12,
		"A1":    1,
		"A007":  7,
		"A 3 b": 3,
		"A1-2":  12,
	}
	for in, want := range cases {
		got, err := SuffixNumber(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"A", "A1.2", "A-"} {
		_, err := SuffixNumber(bad)
		assert.Truef(t, errors.Is(err, ErrBadNumber), "%q: got %v", bad, err)
	}
}

func TestAssignRanksBySuffix(t *testing.T) {
	lots := []*lot.Lot{
		apartment("A3", "1", 2),
		apartment("A1", "1", 2),
		apartment("A2", "1", 2),
	}
	codes, err := Assign(lots, OverflowFail)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "2A", "A2": "2B", "A3": "2C"}, codes)
}

func TestAssignNumericNotLexicalOrder(t *testing.T) {
	lots := []*lot.Lot{
		apartment("A10", "1", 1),
		apartment("A9", "1", 1),
	}
	codes, err := Assign(lots, OverflowFail)
	require.NoError(t, err)
	assert.Equal(t, "1A", codes["A9"])
	assert.Equal(t, "1B", codes["A10"])
}

func TestAssignSeparatesFloorsAndRoomCounts(t *testing.T) {
	lots := []*lot.Lot{
		apartment("A1", "1", 1),
		apartment("A2", "1", 2),
		apartment("A3", "1", 1),
		apartment("A4", "2", 1),
		apartment("A5", "2", 2),
		apartment("A6", "2", 2),
	}
	codes, err := Assign(lots, OverflowFail)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"A1": "1A", "A3": "1B",
		"A2": "2A",
		"A4": "1A",
		"A5": "2A", "A6": "2B",
	}, codes)
}

func TestAssignNonResidentialGetsOwnNumber(t *testing.T) {
	lots := []*lot.Lot{
		{Number: "C1", Rooms: []room.Room{{UnitNumber: "C1", Type: room.PublicRoom, Level: "0"}}},
		{Number: "P12", Rooms: []room.Room{{UnitNumber: "P12", Type: room.NotLivingRoom, Level: "-1"}}},
		{Number: "Z", Rooms: []room.Room{{UnitNumber: "Z", Level: "0"}}},
		apartment("A1", "1", 3),
	}
	codes, err := Assign(lots, OverflowFail)
	require.NoError(t, err)
	assert.Equal(t, "C1", codes["C1"])
	assert.Equal(t, "P12", codes["P12"])
	assert.Equal(t, "Z", codes["Z"])
	assert.Equal(t, "3A", codes["A1"])
}

func TestAssignEqualSuffixKeepsInputOrder(t *testing.T) {
	lots := []*lot.Lot{
		apartment("A-5", "1", 1),
		apartment("A5", "1", 1),
	}
	codes, err := Assign(lots, OverflowFail)
	require.NoError(t, err)
	assert.Equal(t, "1A", codes["A-5"])
	assert.Equal(t, "1B", codes["A5"])
}

func bigCohort(n int) []*lot.Lot {
	lots := make([]*lot.Lot, 0, n)
	for i := 1; i <= n; i++ {
		lots = append(lots, apartment(fmt.Sprintf("A%d", i), "4", 2))
	}
	return lots
}

func TestAssignCohortOfExactlyAlphabetSize(t *testing.T) {
	codes, err := Assign(bigCohort(22), OverflowFail)
	require.NoError(t, err)
	assert.Equal(t, "2Y", codes["A22"])
}

func TestAssignOverflowFails(t *testing.T) {
	_, err := Assign(bigCohort(23), OverflowFail)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCohortOverflow))
	assert.Contains(t, err.Error(), `level "4"`)
}

func TestAssignOverflowNumbered(t *testing.T) {
	codes, err := Assign(bigCohort(45), OverflowNumbered)
	require.NoError(t, err)
	assert.Equal(t, "2A", codes["A1"])
	assert.Equal(t, "2Y", codes["A22"])
	assert.Equal(t, "2A1", codes["A23"])
	assert.Equal(t, "2B1", codes["A24"])
	assert.Equal(t, "2A2", codes["A45"])
}

func TestAssignBadNumber(t *testing.T) {
	_, err := Assign([]*lot.Lot{apartment("A", "1", 1)}, OverflowFail)
	assert.True(t, errors.Is(err, ErrBadNumber))
}

func TestCohortsOrder(t *testing.T) {
	cohorts, err := Cohorts([]*lot.Lot{
		apartment("A1", "2", 1),
		apartment("A2", "1", 1),
		apartment("A3", "2", 3),
		{Number: "C1", Rooms: []room.Room{{UnitNumber: "C1", Level: "1"}}},
	})
	require.NoError(t, err)
	require.Len(t, cohorts, 3)
	assert.Equal(t, "2", cohorts[0].Level)
	assert.Equal(t, 1, cohorts[0].LivingRooms)
	assert.Equal(t, "2", cohorts[1].Level)
	assert.Equal(t, 3, cohorts[1].LivingRooms)
	assert.Equal(t, "1", cohorts[2].Level)
}
