package validation

import (
	"fmt"
	"strings"

	"github.com/budova/aptgraph/pkg/classify"
	"github.com/budova/aptgraph/pkg/lot"
	"github.com/budova/aptgraph/pkg/room"
)

// ValidateRooms performs data checks on rooms before they are grouped.
func ValidateRooms(rooms []room.Room) *Report {
	r := NewReport()

	if len(rooms) == 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "no rooms found",
			Expected: "at least 1 room",
		})
		return r
	}

	for _, rm := range rooms {
		validateUnitNumber(rm, r)
		validateRoomType(rm, r)
		validateArea(rm, r)
	}
	return r
}

// ValidateLots checks aggregated lots for assumptions the metrics rely on.
func ValidateLots(lots []*lot.Lot) *Report {
	r := NewReport()
	for _, l := range lots {
		validateSingleLevel(l, r)
		validatePrefix(l, r)
	}
	return r
}

func validateUnitNumber(rm room.Room, r *Report) {
	if strings.TrimSpace(rm.UnitNumber) == "" {
		r.AddError(Result{
			Level:       LevelData,
			Message:     fmt.Sprintf("room %s has no unit number", rm.ID()),
			Room:        rm.ID(),
			ActualValue: rm.UnitNumber,
			Expected:    "non-empty unit number",
			Suggestions: []string{"Assign the room to an apartment or premises number"},
		})
	}
}

func validateRoomType(rm room.Room, r *Report) {
	if rm.Type.Known() {
		return
	}
	r.AddWarning(Result{
		Level:       LevelData,
		Message:     fmt.Sprintf("room %s in %s has no recognised room type; area factor 0 applied", rm.ID(), rm.UnitNumber),
		Lot:         rm.UnitNumber,
		Room:        rm.ID(),
		ActualValue: int(rm.Type),
		Expected:    "1-7",
	})
}

func validateArea(rm room.Room, r *Report) {
	if rm.RawArea > 0 {
		return
	}
	r.AddWarning(Result{
		Level:       LevelData,
		Message:     fmt.Sprintf("room %s in %s has non-positive area %.2f", rm.ID(), rm.UnitNumber, rm.RawArea),
		Lot:         rm.UnitNumber,
		Room:        rm.ID(),
		ActualValue: rm.RawArea,
		Expected:    "> 0",
		Suggestions: []string{"Check that the room is placed and bounded"},
	})
}

func validateSingleLevel(l *lot.Lot, r *Report) {
	levels := l.Levels()
	if len(levels) <= 1 {
		return
	}
	r.AddWarning(Result{
		Level:       LevelData,
		Message:     fmt.Sprintf("lot %s spans %d levels; %q is used for type coding", l.Number, len(levels), l.LevelName()),
		Lot:         l.Number,
		ActualValue: levels,
		Expected:    "a single level",
	})
}

func validatePrefix(l *lot.Lot, r *Report) {
	if classify.Recognized(l.Number) {
		return
	}
	r.AddWarning(Result{
		Level:       LevelData,
		Message:     fmt.Sprintf("lot %s has an unrecognised prefix", l.Number),
		Lot:         l.Number,
		ActualValue: l.Number,
		Expected:    "A, C, S, T, P or G prefix",
	})
}
