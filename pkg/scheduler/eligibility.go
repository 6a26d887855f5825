package scheduler

import (
	"fmt"
	"strings"

	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// Conflicts reports whether a keyword appears in both the department and the
// location name. Staff are never put on duty at their own department's post.
func Conflicts(department, location string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(department, kw) && strings.Contains(location, kw) {
			return true
		}
	}
	return false
}

// Exclusions counts why staff were left out of a candidate pool
type Exclusions struct {
	OtherCampus     int
	AssignedToday   int
	DepartmentClash int
}

// Reasons renders the non-zero exclusion counts for a shortfall report
func (x Exclusions) Reasons() []string {
	var reasons []string
	if x.AssignedToday > 0 {
		reasons = append(reasons, fmt.Sprintf("%d staff were already assigned that day", x.AssignedToday))
	}
	if x.DepartmentClash > 0 {
		reasons = append(reasons, fmt.Sprintf("%d staff were excluded by department conflict", x.DepartmentClash))
	}
	if x.OtherCampus > 0 {
		reasons = append(reasons, fmt.Sprintf("%d staff belong to another campus", x.OtherCampus))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "no staff found for this campus")
	}
	return reasons
}

// Eligibility decides which staff may fill a slot
type Eligibility struct {
	cfg   *config.Config
	staff []models.Staff
}

// NewEligibility creates an eligibility filter over the staff table
func NewEligibility(cfg *config.Config, staff []models.Staff) *Eligibility {
	return &Eligibility{cfg: cfg, staff: staff}
}

// Allows checks campus and department rules for a single staff member,
// ignoring who is already assigned
func (e *Eligibility) Allows(staff models.Staff, campus, location string) bool {
	if staff.Campus != campus && staff.Campus != e.cfg.WildcardCampus {
		return false
	}
	return !Conflicts(staff.Department, location, e.cfg.ConflictKeywords)
}

// AllowsName is Allows for the first staff row carrying name
func (e *Eligibility) AllowsName(name, campus, location string) bool {
	for _, st := range e.staff {
		if st.Name == name {
			return e.Allows(st, campus, location)
		}
	}
	return false
}

// Candidates returns the names that may fill (campus, location) today, in
// staff table order. A name appears at most once even if rows repeat it.
func (e *Eligibility) Candidates(campus, location string, assignedToday map[string]bool) ([]string, Exclusions) {
	var (
		pool []string
		excl Exclusions
		seen = make(map[string]bool)
	)

	for _, st := range e.staff {
		if seen[st.Name] {
			continue
		}
		seen[st.Name] = true

		switch {
		case st.Campus != campus && st.Campus != e.cfg.WildcardCampus:
			excl.OtherCampus++
		case assignedToday[st.Name]:
			excl.AssignedToday++
		case Conflicts(st.Department, location, e.cfg.ConflictKeywords):
			excl.DepartmentClash++
		default:
			pool = append(pool, st.Name)
		}
	}

	return pool, excl
}
