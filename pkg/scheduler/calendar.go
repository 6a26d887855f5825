package scheduler

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// WorkingDates returns the dates in [start, end] that fall on one of the
// weekdays matched by recurrence and are not holidays, in ascending order.
// recurrence is an RFC 5545 rule such as "FREQ=DAILY;BYDAY=MO,TU,WE,TH,FR".
func WorkingDates(start, end time.Time, recurrence string, holidays map[string]bool) ([]time.Time, error) {
	start, end = truncateDay(start), truncateDay(end)
	if start.After(end) {
		return nil, &ConfigurationError{Field: "date range", Err: ErrInvalidRange}
	}

	rule, err := rrule.StrToRRule(recurrence)
	if err != nil {
		return nil, &ConfigurationError{Field: "working days", Err: fmt.Errorf("failed to parse rrule: %w", err)}
	}
	rule.DTStart(start)

	var dates []time.Time
	for _, occurrence := range rule.Between(start, end, true) {
		if holidays[occurrence.Format(models.DateLayout)] {
			continue
		}
		dates = append(dates, occurrence)
	}

	return dates, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
