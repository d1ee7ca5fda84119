package room

import "strconv"

// Record is the accessor-owned handle of a host room record. The engine
// only passes it back to the accessor.
type Record interface {
	RecordID() string
}

// Room is one physical space as read from its record.
type Room struct {
	Record     Record  `json:"-"`
	UnitNumber string  `json:"unit_number"`
	Type       Type    `json:"room_type"`
	RawArea    float64 `json:"raw_area_m2"`
	Level      string  `json:"level"`
}

// ID returns the record identifier, or "" when the room has no record.
func (r Room) ID() string {
	if r.Record == nil {
		return ""
	}
	return r.Record.RecordID()
}

// IsBalconyOrLoggia reports whether the room is a balcony or loggia of
// any kind.
func (r Room) IsBalconyOrLoggia() bool {
	return r.Type.IsBalconyOrLoggia()
}

// AreaFactor returns the multiplier applied to the room's area.
func (r Room) AreaFactor() float64 {
	return r.Type.Factor()
}

// Area is the raw area rounded to two decimals.
func (r Room) Area() float64 {
	return Round(r.RawArea, 2)
}

// AreaSales is the raw area rounded to one decimal.
func (r Room) AreaSales() float64 {
	return Round(r.RawArea, 1)
}

// AreaWithFactor is Area scaled by the area factor, rounded to two decimals.
func (r Room) AreaWithFactor() float64 {
	return Round(r.Area()*r.AreaFactor(), 2)
}

// AreaSalesWithFactor is AreaSales scaled by the area factor, rounded to
// one decimal.
func (r Room) AreaSalesWithFactor() float64 {
	return Round(r.AreaSales()*r.AreaFactor(), 1)
}

// Index returns the "{unit}_{type}" room index string.
func (r Room) Index() string {
	return r.UnitNumber + "_" + strconv.Itoa(int(r.Type))
}
