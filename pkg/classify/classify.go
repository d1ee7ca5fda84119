package classify

import (
	"fmt"
	"strings"
)

// Unrecognized is the label given to lots whose number prefix matches no rule.
const Unrecognized = "Classification failed"

// ResidentialPrefix marks apartment lots.
const ResidentialPrefix = "A"

// Labels holds the two classification strings written onto every room.
type Labels struct {
	Department string `json:"department"`
	Occupancy  string `json:"occupancy"`
}

// Rule maps one or more number prefixes to a department. When Occupancy
// is nil the department label is reused.
type Rule struct {
	Prefixes   []string
	Department string
	Occupancy  func(livingRooms int) string
}

// Table is checked in order; the first matching rule wins.
var Table = []Rule{
	{
		Prefixes:   []string{ResidentialPrefix},
		Department: "Apartments",
		Occupancy: func(livingRooms int) string {
			return fmt.Sprintf("%d-room apartment", livingRooms)
		},
	},
	// Latin C and Cyrillic С (U+0421) look identical in drawings.
	{Prefixes: []string{"C", "\u0421"}, Department: "Commercial premises"},
	{Prefixes: []string{"S"}, Department: "Non-residential premises"},
	{Prefixes: []string{"T"}, Department: "Technical premises"},
	{Prefixes: []string{"P"}, Department: "Parking"},
	{Prefixes: []string{"G"}, Department: "Common areas"},
}

func (r Rule) matches(number string) bool {
	for _, p := range r.Prefixes {
		if strings.HasPrefix(number, p) {
			return true
		}
	}
	return false
}

// Classify returns the department and occupancy labels for a lot number.
func Classify(number string, livingRooms int) Labels {
	for _, rule := range Table {
		if !rule.matches(number) {
			continue
		}
		labels := Labels{Department: rule.Department, Occupancy: rule.Department}
		if rule.Occupancy != nil {
			labels.Occupancy = rule.Occupancy(livingRooms)
		}
		return labels
	}
	return Labels{Department: Unrecognized, Occupancy: Unrecognized}
}

// Recognized reports whether any rule matches the number.
func Recognized(number string) bool {
	for _, rule := range Table {
		if rule.matches(number) {
			return true
		}
	}
	return false
}

// IsResidential reports whether the lot is an apartment.
func IsResidential(number string) bool {
	return strings.HasPrefix(number, ResidentialPrefix)
}
