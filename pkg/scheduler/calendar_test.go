package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

const weekdays = "FREQ=DAILY;BYDAY=MO,TU,WE,TH,FR"

func formatDates(t *testing.T, start, end string, holidays map[string]bool) []string {
	t.Helper()
	dates, err := WorkingDates(date(t, start), date(t, end), weekdays, holidays)
	require.NoError(t, err)

	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(models.DateLayout)
	}
	return out
}

func TestWorkingDates_SkipsWeekendsAndHolidays(t *testing.T) {
	got := formatDates(t, "2025-09-29", "2025-10-06", map[string]bool{"2025-10-03": true})

	assert.Equal(t, []string{"2025-09-29", "2025-09-30", "2025-10-01", "2025-10-02", "2025-10-06"}, got)
}

func TestWorkingDates_SingleDay(t *testing.T) {
	assert.Equal(t, []string{"2025-10-01"}, formatDates(t, "2025-10-01", "2025-10-01", nil))
}

func TestWorkingDates_WeekendOnlyIsEmpty(t *testing.T) {
	assert.Empty(t, formatDates(t, "2025-10-04", "2025-10-05", nil))
}

func TestWorkingDates_CustomWeekdays(t *testing.T) {
	dates, err := WorkingDates(date(t, "2025-10-01"), date(t, "2025-10-12"), "FREQ=DAILY;BYDAY=SA", nil)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "2025-10-04", dates[0].Format(models.DateLayout))
	assert.Equal(t, "2025-10-11", dates[1].Format(models.DateLayout))
}

// A reversed range is rejected up front rather than producing an empty roster.
func TestWorkingDates_InvalidRange(t *testing.T) {
	_, err := WorkingDates(date(t, "2025-10-02"), date(t, "2025-10-01"), weekdays, nil)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestWorkingDates_BadRecurrence(t *testing.T) {
	_, err := WorkingDates(date(t, "2025-10-01"), date(t, "2025-10-02"), "FREQ=NEVER", nil)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "working days", cfgErr.Field)
}
