// Package summary totals a resolved schedule by department, apartment size
// and floor.
package summary

import (
	"sort"
	"strconv"

	"github.com/budova/aptgraph/pkg/classify"
	"github.com/budova/aptgraph/pkg/lot"
	"github.com/budova/aptgraph/pkg/room"
	"github.com/budova/aptgraph/pkg/schedule"
)

// Totals accumulates lot metrics.
type Totals struct {
	Lots             int     `json:"lots"`
	Rooms            int     `json:"rooms"`
	Area             float64 `json:"area_m2"`
	LivingArea       float64 `json:"living_area_m2"`
	GeneralArea      float64 `json:"general_area_m2"`
	GeneralSalesArea float64 `json:"general_sales_area_m2"`
}

func (t *Totals) add(m lot.Metrics) {
	t.Lots++
	t.Rooms += m.RoomCount
	t.Area = room.Round(t.Area+m.Area, 2)
	t.LivingArea = room.Round(t.LivingArea+m.LivingArea, 2)
	t.GeneralArea = room.Round(t.GeneralArea+m.GeneralArea, 2)
	t.GeneralSalesArea = room.Round(t.GeneralSalesArea+m.GeneralSalesArea, 2)
}

// Group is one row of a breakdown.
type Group struct {
	Key string `json:"key"`
	Totals
}

// LotRow is one lot with its assigned type code.
type LotRow struct {
	lot.Metrics
	TypeCode string `json:"type_code"`
}

// Report is the complete summary output.
type Report struct {
	ScheduleID  string   `json:"schedule_id"`
	Departments []Group  `json:"departments"`
	RoomCounts  []Group  `json:"room_counts"`
	Levels      []Group  `json:"levels"`
	Lots        []LotRow `json:"lots"`
	Total       Totals   `json:"total"`
}

// Build totals every lot of the schedule. Departments are sorted by name,
// room counts numerically (residential lots only) and levels in the order
// they are first met.
func Build(sched *schedule.Schedule) *Report {
	report := &Report{ScheduleID: sched.ID}

	departments := newGrouping()
	roomCounts := newGrouping()
	levels := newGrouping()
	for _, m := range sched.Metrics {
		report.Total.add(m)
		departments.add(m.Department, m)
		levels.add(m.Level, m)
		if classify.IsResidential(m.Number) {
			roomCounts.add(strconv.Itoa(m.LivingRoomCount), m)
		}
		report.Lots = append(report.Lots, LotRow{Metrics: m, TypeCode: sched.TypeCode(m.Number)})
	}

	report.Departments = departments.sorted(func(a, b string) bool { return a < b })
	report.RoomCounts = roomCounts.sorted(func(a, b string) bool {
		x, _ := strconv.Atoi(a)
		y, _ := strconv.Atoi(b)
		return x < y
	})
	report.Levels = levels.groups()
	return report
}

type grouping struct {
	order  []string
	totals map[string]*Totals
}

func newGrouping() *grouping {
	return &grouping{totals: make(map[string]*Totals)}
}

func (g *grouping) add(key string, m lot.Metrics) {
	t, ok := g.totals[key]
	if !ok {
		t = &Totals{}
		g.totals[key] = t
		g.order = append(g.order, key)
	}
	t.add(m)
}

func (g *grouping) groups() []Group {
	out := make([]Group, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, Group{Key: k, Totals: *g.totals[k]})
	}
	return out
}

func (g *grouping) sorted(less func(a, b string) bool) []Group {
	out := g.groups()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i].Key, out[j].Key) })
	return out
}
