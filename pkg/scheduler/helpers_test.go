package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/models"
)

func testConfig(campuses ...config.Campus) *config.Config {
	return &config.Config{
		Campuses:            campuses,
		WildcardCampus:      "*",
		UnspecifiedLocation: "unspecified",
		ConflictKeywords:    []string{"생활관", "상황실", "도서관"},
		WorkingDays:         []string{"MO", "TU", "WE", "TH", "FR"},
		Holidays:            []string{"2025-10-03"},
	}
}

func campus(name string, locs ...config.Location) config.Campus {
	return config.Campus{Name: name, Locations: locs}
}

func loc(name string, required int) config.Location {
	return config.Location{Name: name, Required: required}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := config.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newTestScheduler(cfg *config.Config, staff []models.Staff, seed int64) *Scheduler {
	return NewScheduler(cfg, staff, WithRand(rand.New(rand.NewSource(seed))))
}
