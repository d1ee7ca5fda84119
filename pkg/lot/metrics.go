package lot

// Metrics is a snapshot of a lot's derived values.
type Metrics struct {
	Number           string  `json:"number"`
	Level            string  `json:"level"`
	RoomCount        int     `json:"room_count"`
	LivingRoomCount  int     `json:"living_room_count"`
	Area             float64 `json:"area_m2"`
	LivingArea       float64 `json:"living_area_m2"`
	LivingSalesArea  float64 `json:"living_sales_area_m2"`
	GeneralArea      float64 `json:"general_area_m2"`
	GeneralSalesArea float64 `json:"general_sales_area_m2"`
	Department       string  `json:"department"`
	Occupancy        string  `json:"occupancy"`
}

// Snapshot computes every derived value once.
func (l *Lot) Snapshot() Metrics {
	labels := l.Labels()
	return Metrics{
		Number:           l.Number,
		Level:            l.LevelName(),
		RoomCount:        len(l.Rooms),
		LivingRoomCount:  l.LivingRoomCount(),
		Area:             l.Area(),
		LivingArea:       l.LivingArea(),
		LivingSalesArea:  l.LivingSalesArea(),
		GeneralArea:      l.GeneralArea(),
		GeneralSalesArea: l.GeneralSalesArea(),
		Department:       labels.Department,
		Occupancy:        labels.Occupancy,
	}
}
