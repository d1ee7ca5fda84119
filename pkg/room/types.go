package room

import "fmt"

// Type is the room classification stored on the host record as an integer.
type Type int

const (
	Unknown       Type = 0
	LivingRoom    Type = 1
	NotLivingRoom Type = 2
	Loggia        Type = 3
	GlazedLoggia  Type = 4
	Balcony       Type = 5
	GlazedBalcony Type = 6
	PublicRoom    Type = 7
)

var typeNames = map[Type]string{
	Unknown:       "unknown",
	LivingRoom:    "living_room",
	NotLivingRoom: "not_living_room",
	Loggia:        "loggia",
	GlazedLoggia:  "glazed_loggia",
	Balcony:       "balcony",
	GlazedBalcony: "glazed_balcony",
	PublicRoom:    "public_room",
}

// areaFactors is exhaustive for the known types. Anything else gets 0.
var areaFactors = map[Type]float64{
	LivingRoom:    1.0,
	NotLivingRoom: 1.0,
	Loggia:        0.5,
	GlazedLoggia:  1.0,
	Balcony:       0.3,
	GlazedBalcony: 1.0,
	PublicRoom:    1.0,
}

// Known reports whether t is one of the classified types. Unset or
// unrecognised values keep their integer but carry a zero factor.
func (t Type) Known() bool {
	_, ok := areaFactors[t]
	return ok
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Factor returns the area multiplier for the type.
func (t Type) Factor() float64 {
	return areaFactors[t]
}

// IsBalconyOrLoggia reports whether the type is an open or glazed
// balcony or loggia.
func (t Type) IsBalconyOrLoggia() bool {
	switch t {
	case Loggia, GlazedLoggia, Balcony, GlazedBalcony:
		return true
	}
	return false
}
