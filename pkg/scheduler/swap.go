package scheduler

import (
	"fmt"

	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// Swap exchanges the staff on two assignment rows in place. Date, campus,
// location and kind stay with the row. Work counts are not touched.
//
// Unless policy.Permissive is set, swapping a row with itself and swaps that
// leave someone on duty twice on one date are rejected. With
// policy.CheckEligibility, elig must be non-nil and both staff must be
// eligible for their new location.
func Swap(assignments []models.Assignment, rowA, rowB int, policy config.SwapPolicy, elig *Eligibility) error {
	if rowA < 0 || rowA >= len(assignments) || rowB < 0 || rowB >= len(assignments) {
		return &ConstraintViolation{
			RowA:   rowA,
			RowB:   rowB,
			Detail: fmt.Sprintf("roster has %d rows", len(assignments)),
			Err:    ErrRowOutOfRange,
		}
	}

	a, b := &assignments[rowA], &assignments[rowB]

	if !policy.Permissive {
		if rowA == rowB {
			return &ConstraintViolation{RowA: rowA, RowB: rowB, Err: ErrSelfSwap}
		}
		if name, date, ok := doubleBooked(assignments, rowA, rowB); ok {
			return &ConstraintViolation{
				RowA:   rowA,
				RowB:   rowB,
				Detail: fmt.Sprintf("%s already works on %s", name, date),
				Err:    ErrDoubleBooking,
			}
		}
	}

	if policy.CheckEligibility && elig != nil {
		if !elig.AllowsName(b.StaffName, a.Campus, a.Location) {
			return &ConstraintViolation{
				RowA:   rowA,
				RowB:   rowB,
				Detail: fmt.Sprintf("%s at %s/%s", b.StaffName, a.Campus, a.Location),
				Err:    ErrIneligibleSwap,
			}
		}
		if !elig.AllowsName(a.StaffName, b.Campus, b.Location) {
			return &ConstraintViolation{
				RowA:   rowA,
				RowB:   rowB,
				Detail: fmt.Sprintf("%s at %s/%s", a.StaffName, b.Campus, b.Location),
				Err:    ErrIneligibleSwap,
			}
		}
	}

	a.StaffName, b.StaffName = b.StaffName, a.StaffName
	return nil
}

// doubleBooked reports whether moving a's staff to b's date or b's staff to
// a's date collides with another row of the same staff on that date
func doubleBooked(assignments []models.Assignment, rowA, rowB int) (string, string, bool) {
	a, b := assignments[rowA], assignments[rowB]
	if a.StaffName == b.StaffName {
		return "", "", false
	}

	for i, other := range assignments {
		if i == rowA || i == rowB {
			continue
		}
		if other.StaffName == b.StaffName && other.Date == a.Date {
			return b.StaffName, a.Date, true
		}
		if other.StaffName == a.StaffName && other.Date == b.Date {
			return a.StaffName, b.Date, true
		}
	}
	return "", "", false
}
