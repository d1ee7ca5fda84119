package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/budova/aptgraph/pkg/store/sqlstore"
	"github.com/budova/aptgraph/pkg/summary"
	"github.com/budova/aptgraph/pkg/validation"
	"github.com/budova/aptgraph/pkg/writeback"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResultLine(e)
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResultLine(w)
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResultLine(r validation.Result) {
	fmt.Printf("  [%s] %s\n", r.Level, r.Message)
	var where []string
	if r.Lot != "" {
		where = append(where, "lot "+r.Lot)
	}
	if r.Room != "" {
		where = append(where, r.Room)
	}
	if len(where) > 0 {
		fmt.Printf("    -> %s", strings.Join(where, ", "))
		if r.ActualValue != nil {
			fmt.Printf(" = %v", r.ActualValue)
		}
		fmt.Println()
	}
}

func printLots(r *summary.Report) {
	fmt.Printf("%-10s %-6s %-6s %5s %6s %10s %10s %10s  %s\n",
		"Lot", "Type", "Level", "Rooms", "Living", "Area", "Living", "General", "Occupancy")
	fmt.Println(strings.Repeat("-", 86))
	for _, l := range r.Lots {
		fmt.Printf("%-10s %-6s %-6s %5d %6d %10s %10s %10s  %s\n",
			l.Number, l.TypeCode, l.Level, l.RoomCount, l.LivingRoomCount,
			formatArea(l.Area), formatArea(l.LivingArea), formatArea(l.GeneralArea), l.Occupancy)
	}
}

func printSummary(r *summary.Report) {
	fmt.Printf("Schedule %s\n", r.ScheduleID)
	fmt.Println(strings.Repeat("=", 78))
	printGroups("Department", r.Departments)
	printGroups("Living rooms", r.RoomCounts)
	printGroups("Level", r.Levels)

	fmt.Printf("Total: %s lots, %s rooms, %s m2 general (%s m2 sales)\n",
		humanize.Comma(int64(r.Total.Lots)),
		humanize.Comma(int64(r.Total.Rooms)),
		formatArea(r.Total.GeneralArea),
		formatArea(r.Total.GeneralSalesArea))
}

func printGroups(title string, groups []summary.Group) {
	if len(groups) == 0 {
		return
	}
	fmt.Printf("%-24s %6s %6s %12s %12s %12s\n", title, "Lots", "Rooms", "Area", "Living", "General")
	fmt.Println(strings.Repeat("-", 78))
	for _, g := range groups {
		fmt.Printf("%-24s %6d %6d %12s %12s %12s\n",
			g.Key, g.Lots, g.Rooms, formatArea(g.Area), formatArea(g.LivingArea), formatArea(g.GeneralArea))
	}
	fmt.Println()
}

func printResult(r *writeback.Result) {
	if r.Canceled {
		fmt.Println("Writeback canceled; no changes were kept.")
		return
	}
	fmt.Printf("Wrote %s values to %s rooms in %s lots.\n",
		humanize.Comma(int64(r.Writes)), humanize.Comma(int64(r.Rooms)), humanize.Comma(int64(r.Lots)))
}

func printRuns(runs []sqlstore.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}
	fmt.Printf("%-36s  %-10s %5s %6s %7s  %s\n", "Run", "Status", "Lots", "Rooms", "Writes", "When")
	for _, r := range runs {
		fmt.Printf("%-36s  %-10s %5d %6d %7d  %s (%s)\n",
			r.ID, r.Status, r.Lots, r.Rooms, r.Writes,
			humanize.Time(r.StartedAt), r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
		if r.Message != "" {
			fmt.Printf("    %s\n", r.Message)
		}
	}
}

// formatArea prints m2 with thousands separators and two decimals.
func formatArea(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}
