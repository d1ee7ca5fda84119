package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundAwayFromZero(t *testing.T) {
	cases := []struct {
		x      float64
		places int
		want   float64
	}{
		{0.005, 2, 0.01},
		{-0.005, 2, -0.01},
		{0.015, 2, 0.02},
		{2.675, 2, 2.68},
		{0.25, 1, 0.3},
		{0.35, 1, 0.4},
		{-0.25, 1, -0.3},
		{20.004, 2, 20.00},
		{12.3449, 2, 12.34},
		{7, 1, 7},
	}
	for _, c := range cases {
		assert.InDeltaf(t, c.want, Round(c.x, c.places), 1e-9, "Round(%v, %d)", c.x, c.places)
	}
}

func TestAreaFactorTable(t *testing.T) {
	cases := map[Type]float64{
		LivingRoom:    1.0,
		NotLivingRoom: 1.0,
		Loggia:        0.5,
		GlazedLoggia:  1.0,
		Balcony:       0.3,
		GlazedBalcony: 1.0,
		PublicRoom:    1.0,
		Unknown:       0.0,
		Type(42):      0.0,
	}
	for typ, want := range cases {
		assert.Equalf(t, want, typ.Factor(), "%s factor", typ)
	}
}

func TestIsBalconyOrLoggia(t *testing.T) {
	for _, typ := range []Type{Loggia, GlazedLoggia, Balcony, GlazedBalcony} {
		assert.Truef(t, typ.IsBalconyOrLoggia(), "%s", typ)
	}
	for _, typ := range []Type{Unknown, LivingRoom, NotLivingRoom, PublicRoom} {
		assert.Falsef(t, typ.IsBalconyOrLoggia(), "%s", typ)
	}
}

func TestRoomDerivedAreas(t *testing.T) {
	r := Room{UnitNumber: "A1", Type: Loggia, RawArea: 6.25}

	assert.Equal(t, 6.25, r.Area())
	assert.Equal(t, 6.3, r.AreaSales())
	// 6.25 * 0.5 = 3.125 -> 3.13
	assert.Equal(t, 3.13, r.AreaWithFactor())
	// 6.3 * 0.5 = 3.15 -> 3.2
	assert.Equal(t, 3.2, r.AreaSalesWithFactor())
}

func TestUnknownRoomContributesNothing(t *testing.T) {
	r := Room{UnitNumber: "A1", Type: Unknown, RawArea: 14.5}
	assert.False(t, r.Type.Known())
	assert.Zero(t, r.AreaWithFactor())
	assert.Zero(t, r.AreaSalesWithFactor())
	assert.Equal(t, 14.5, r.Area())
}

func TestRoomIndex(t *testing.T) {
	cases := []struct {
		room Room
		want string
	}{
		{Room{UnitNumber: "A12", Type: LivingRoom}, "A12_1"},
		{Room{UnitNumber: "C3", Type: PublicRoom}, "C3_7"},
		{Room{UnitNumber: "T1", Type: Unknown}, "T1_0"},
		{Room{UnitNumber: "S4", Type: Type(9)}, "S4_9"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.room.Index())
	}
}
