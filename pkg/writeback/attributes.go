package writeback

// Attributes names the host attributes the driver reads and writes.
type Attributes struct {
	UnitNumber       string `yaml:"unit_number" json:"unit_number"`
	RoomType         string `yaml:"room_type" json:"room_type"`
	Area             string `yaml:"area" json:"area"`
	Level            string `yaml:"level" json:"level"`
	RoomIndex        string `yaml:"room_index" json:"room_index"`
	ApartmentType    string `yaml:"apartment_type" json:"apartment_type"`
	LivingRoomCount  string `yaml:"living_room_count" json:"living_room_count"`
	AreaFactor       string `yaml:"area_factor" json:"area_factor"`
	AreaWithFactor   string `yaml:"area_with_factor" json:"area_with_factor"`
	RoomSalesArea    string `yaml:"room_sales_area" json:"room_sales_area"`
	ApartmentArea    string `yaml:"apartment_area" json:"apartment_area"`
	LivingArea       string `yaml:"living_area" json:"living_area"`
	LivingAreaSales  string `yaml:"living_area_sales" json:"living_area_sales"`
	GeneralArea      string `yaml:"general_area" json:"general_area"`
	GeneralAreaSales string `yaml:"general_area_sales" json:"general_area_sales"`
	Department       string `yaml:"department" json:"department"`
	Occupancy        string `yaml:"occupancy" json:"occupancy"`
}

// DefaultAttributes returns the standard attribute names.
func DefaultAttributes() Attributes {
	return Attributes{
		UnitNumber:       "BUDOVA_ApartmentNumber",
		RoomType:         "BUDOVA_RoomType",
		Area:             "Area",
		Level:            "Level",
		RoomIndex:        "BUDOVA_RoomIndex",
		ApartmentType:    "BUDOVA_ApartmentType",
		LivingRoomCount:  "BUDOVA_LivingRoomCount",
		AreaFactor:       "BUDOVA_AreaFactor",
		AreaWithFactor:   "BUDOVA_AreaWithFactor",
		RoomSalesArea:    "BUDOVA_SP_RoomArea",
		ApartmentArea:    "BUDOVA_ApartmentArea",
		LivingArea:       "BUDOVA_ApartmentLivingArea",
		LivingAreaSales:  "BUDOVA_SP_ApartmentLivingArea",
		GeneralArea:      "BUDOVA_ApartmentGeneralArea",
		GeneralAreaSales: "BUDOVA_SP_ApartmentGeneralArea",
		Department:       "Department",
		Occupancy:        "Occupancy",
	}
}

// WithDefaults fills every empty name from DefaultAttributes.
func (a Attributes) WithDefaults() Attributes {
	d := DefaultAttributes()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&a.UnitNumber, d.UnitNumber)
	fill(&a.RoomType, d.RoomType)
	fill(&a.Area, d.Area)
	fill(&a.Level, d.Level)
	fill(&a.RoomIndex, d.RoomIndex)
	fill(&a.ApartmentType, d.ApartmentType)
	fill(&a.LivingRoomCount, d.LivingRoomCount)
	fill(&a.AreaFactor, d.AreaFactor)
	fill(&a.AreaWithFactor, d.AreaWithFactor)
	fill(&a.RoomSalesArea, d.RoomSalesArea)
	fill(&a.ApartmentArea, d.ApartmentArea)
	fill(&a.LivingArea, d.LivingArea)
	fill(&a.LivingAreaSales, d.LivingAreaSales)
	fill(&a.GeneralArea, d.GeneralArea)
	fill(&a.GeneralAreaSales, d.GeneralAreaSales)
	fill(&a.Department, d.Department)
	fill(&a.Occupancy, d.Occupancy)
	return a
}

// Written lists the attributes the driver writes, in write order.
func (a Attributes) Written() []string {
	return []string{
		a.LivingRoomCount,
		a.AreaFactor,
		a.AreaWithFactor,
		a.RoomSalesArea,
		a.ApartmentArea,
		a.LivingArea,
		a.LivingAreaSales,
		a.GeneralArea,
		a.GeneralAreaSales,
		a.RoomIndex,
		a.Department,
		a.Occupancy,
		a.ApartmentType,
	}
}
