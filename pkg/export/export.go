// Package export renders a roster as pivot tables and spreadsheet files.
package export

import (
	"sort"
	"strings"

	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// NameSeparator joins several staff sharing one cell
const NameSeparator = ", "

// Table is a rectangular view with a header row
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// DayTable lists who works where on a single date
type DayTable struct {
	Date  string `json:"date"`
	Table Table  `json:"table"`
}

// Total compares what a staff member holds now with the generation count
type Total struct {
	Name      string `json:"name"`
	Assigned  int    `json:"assigned"`
	WorkCount int    `json:"work_count"`
}

type slot struct {
	campus   string
	location string
}

// slotOrder lists configured slots in declared order, followed by any other
// (campus, location) pairs found in the roster, sorted
func slotOrder(r *models.Roster, cfg *config.Config) []slot {
	var order []slot
	known := make(map[slot]bool)
	for _, sr := range cfg.Slots() {
		s := slot{sr.Campus, sr.Location}
		order = append(order, s)
		known[s] = true
	}

	var extra []slot
	for _, a := range r.Assignments {
		s := slot{a.Campus, a.Location}
		if !known[s] {
			known[s] = true
			extra = append(extra, s)
		}
	}
	sort.Slice(extra, func(i, j int) bool {
		if extra[i].campus != extra[j].campus {
			return extra[i].campus < extra[j].campus
		}
		return extra[i].location < extra[j].location
	})

	return append(order, extra...)
}

// dates returns the distinct assignment dates, ascending
func dates(r *models.Roster) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range r.Assignments {
		if !seen[a.Date] {
			seen[a.Date] = true
			out = append(out, a.Date)
		}
	}
	sort.Strings(out)
	return out
}

// cells groups staff names by date and slot, keeping roster order
func cells(r *models.Roster) map[string]map[slot][]string {
	out := make(map[string]map[slot][]string)
	for _, a := range r.Assignments {
		if out[a.Date] == nil {
			out[a.Date] = make(map[slot][]string)
		}
		s := slot{a.Campus, a.Location}
		out[a.Date][s] = append(out[a.Date][s], a.StaffName)
	}
	return out
}

// Pivot lays the roster out with one row per (campus, location) and one
// column per date
func Pivot(r *models.Roster, cfg *config.Config) Table {
	days := dates(r)
	grid := cells(r)

	t := Table{Header: append([]string{"campus", "location"}, days...)}
	for _, s := range slotOrder(r, cfg) {
		row := []string{s.campus, s.location}
		for _, d := range days {
			row = append(row, strings.Join(grid[d][s], NameSeparator))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Daily returns one table per date listing only the slots staffed that day
func Daily(r *models.Roster, cfg *config.Config) []DayTable {
	grid := cells(r)
	order := slotOrder(r, cfg)

	var out []DayTable
	for _, d := range dates(r) {
		day := DayTable{Date: d, Table: Table{Header: []string{"campus", "location", "staff"}}}
		for _, s := range order {
			names := grid[d][s]
			if len(names) == 0 {
				continue
			}
			day.Table.Rows = append(day.Table.Rows, []string{s.campus, s.location, strings.Join(names, NameSeparator)})
		}
		out = append(out, day)
	}
	return out
}

// Totals counts assignments per staff in the roster as it stands, which can
// differ from the work count after swaps
func Totals(r *models.Roster) []Total {
	assigned := make(map[string]int)
	for _, a := range r.Assignments {
		assigned[a.StaffName]++
	}

	names := make(map[string]bool)
	for n := range r.WorkCount {
		names[n] = true
	}
	for n := range assigned {
		names[n] = true
	}

	out := make([]Total, 0, len(names))
	for n := range names {
		out = append(out, Total{Name: n, Assigned: assigned[n], WorkCount: r.WorkCount[n]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
