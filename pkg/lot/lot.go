package lot

import (
	"github.com/budova/aptgraph/pkg/classify"
	"github.com/budova/aptgraph/pkg/room"
)

// Lot is a sellable or occupiable unit: every room sharing one unit number.
// All metrics are recomputed from Rooms on each call.
type Lot struct {
	Number string      `json:"number"`
	Rooms  []room.Room `json:"rooms"`
}

// Aggregate partitions rooms into lots keyed by unit number. Lots come out
// in order of first appearance and keep their rooms in encounter order.
func Aggregate(rooms []room.Room) []*Lot {
	index := make(map[string]*Lot)
	lots := make([]*Lot, 0)
	for _, r := range rooms {
		l, ok := index[r.UnitNumber]
		if !ok {
			l = &Lot{Number: r.UnitNumber}
			index[r.UnitNumber] = l
			lots = append(lots, l)
		}
		l.Rooms = append(l.Rooms, r)
	}
	return lots
}

// LivingRoomCount counts rooms typed as living rooms.
func (l *Lot) LivingRoomCount() int {
	n := 0
	for _, r := range l.Rooms {
		if r.Type == room.LivingRoom {
			n++
		}
	}
	return n
}

// Area sums factored areas excluding balconies and loggias.
func (l *Lot) Area() float64 {
	return l.sum(func(r room.Room) bool { return !r.IsBalconyOrLoggia() }, room.Room.AreaWithFactor)
}

// LivingArea sums factored areas of living rooms.
func (l *Lot) LivingArea() float64 {
	return l.sum(isLiving, room.Room.AreaWithFactor)
}

// LivingSalesArea sums factored sales areas of living rooms.
func (l *Lot) LivingSalesArea() float64 {
	return l.sum(isLiving, room.Room.AreaSalesWithFactor)
}

// GeneralArea sums factored areas of every room, balconies included.
func (l *Lot) GeneralArea() float64 {
	return l.sum(nil, room.Room.AreaWithFactor)
}

// GeneralSalesArea sums factored sales areas of every room.
func (l *Lot) GeneralSalesArea() float64 {
	return l.sum(nil, room.Room.AreaSalesWithFactor)
}

// LevelName is the floor of the first room. Rooms of one lot are expected
// to share a floor; see Levels.
func (l *Lot) LevelName() string {
	if len(l.Rooms) == 0 {
		return ""
	}
	return l.Rooms[0].Level
}

// Levels lists the distinct floors of the lot's rooms in encounter order.
func (l *Lot) Levels() []string {
	seen := make(map[string]bool)
	var levels []string
	for _, r := range l.Rooms {
		if !seen[r.Level] {
			seen[r.Level] = true
			levels = append(levels, r.Level)
		}
	}
	return levels
}

// Labels classifies the lot by its number.
func (l *Lot) Labels() classify.Labels {
	return classify.Classify(l.Number, l.LivingRoomCount())
}

// Department is the department label of the lot.
func (l *Lot) Department() string {
	return l.Labels().Department
}

// Occupancy is the occupancy label of the lot.
func (l *Lot) Occupancy() string {
	return l.Labels().Occupancy
}

// IsResidential reports whether the lot is an apartment.
func (l *Lot) IsResidential() bool {
	return classify.IsResidential(l.Number)
}

// Sums are of already rounded per-room values; no rounding at lot level.
func (l *Lot) sum(include func(room.Room) bool, value func(room.Room) float64) float64 {
	total := 0.0
	for _, r := range l.Rooms {
		if include != nil && !include(r) {
			continue
		}
		total += value(r)
	}
	return total
}

func isLiving(r room.Room) bool {
	return r.Type == room.LivingRoom
}
