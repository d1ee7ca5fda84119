package schedule

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/budova/aptgraph/pkg/lot"
	"github.com/budova/aptgraph/pkg/room"
	"github.com/budova/aptgraph/pkg/typecode"
	"github.com/budova/aptgraph/pkg/validation"
)

// Options tunes a resolution run.
type Options struct {
	Overflow typecode.OverflowPolicy
}

// DefaultOptions fails on type-code overflow.
func DefaultOptions() Options {
	return Options{Overflow: typecode.OverflowFail}
}

// Schedule is the fully computed apartment schedule of one room snapshot.
type Schedule struct {
	ID        string            `json:"id"`
	Lots      []*lot.Lot        `json:"-"`
	Metrics   []lot.Metrics     `json:"lots"`
	TypeCodes map[string]string `json:"type_codes"`
	RoomCount int               `json:"room_count"`
	// Valid is false when resolution reported any error.
	Valid     bool              `json:"valid"`
}

// TypeCode returns the type code assigned to a lot number.
func (s *Schedule) TypeCode(number string) string {
	return s.TypeCodes[number]
}

// Resolve groups rooms into lots, computes their metrics and labels, and
// assigns type codes. It performs no I/O and can be re-run on the same
// snapshot with identical results apart from the run ID.
func Resolve(rooms []room.Room, opts Options) (*Schedule, *validation.Report) {
	report := validation.ValidateRooms(rooms)

	// 1. Lots
	lots := lot.Aggregate(rooms)
	report.Merge(validation.ValidateLots(lots))

	// 2. Metrics and labels
	metrics := make([]lot.Metrics, 0, len(lots))
	for _, l := range lots {
		metrics = append(metrics, l.Snapshot())
	}

	sched := &Schedule{
		ID:        uuid.NewString(),
		Lots:      lots,
		Metrics:   metrics,
		RoomCount: len(rooms),
	}

	// 3. Type codes
	policy := opts.Overflow
	if policy == "" {
		policy = typecode.OverflowFail
	}
	codes, err := typecode.Assign(lots, policy)
	if err != nil {
		report.AddError(validation.Result{
			Level:       validation.LevelTyping,
			Message:     err.Error(),
			Expected:    fmt.Sprintf("at most %d apartments per floor and room count", len(typecode.Alphabet)),
			Suggestions: []string{"Re-run with the numbered overflow policy", "Check unit numbers for a numeric suffix"},
		})
	} else {
		sched.TypeCodes = codes
	}

	summarizeDepartments(metrics, report)
	sched.Valid = report.Valid
	return sched, report
}

func summarizeDepartments(metrics []lot.Metrics, report *validation.Report) {
	counts := make(map[string]int)
	for _, m := range metrics {
		counts[m.Department]++
	}
	departments := make([]string, 0, len(counts))
	for d := range counts {
		departments = append(departments, d)
	}
	sort.Strings(departments)
	for _, d := range departments {
		report.AddInfo(validation.Result{
			Level:       validation.LevelData,
			Message:     fmt.Sprintf("%s: %d lots", d, counts[d]),
			ActualValue: counts[d],
		})
	}
}
