package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
campuses:
  - name: A
    locations:
      - { name: L1, required: 2 }
      - { name: L2, required: 1 }
  - name: B
    locations:
      - { name: L2, required: 3 }
wildcardCampus: "*"
unspecifiedLocation: none
workingDays: [MO, WE]
holidays: ["2025-10-03"]
`

func TestDefault(t *testing.T) {
	cfg := Default()

	slots := cfg.Slots()
	require.Len(t, slots, 9)
	assert.Equal(t, "인천", slots[0].Campus)
	assert.Equal(t, "생활관1", slots[0].Location)
	assert.Equal(t, 2, slots[0].Required)
	assert.Equal(t, "경기", slots[8].Campus)
	assert.Equal(t, "도서관2", slots[8].Location)

	req, ok := cfg.Required("인천", "상황실1")
	assert.True(t, ok)
	assert.Equal(t, 3, req)

	assert.Equal(t, "FREQ=DAILY;BYDAY=MO,TU,WE,TH,FR", cfg.Recurrence())
	assert.True(t, cfg.HolidaySet()["2025-10-03"])
	assert.False(t, cfg.Swap.Permissive)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "FREQ=DAILY;BYDAY=MO,WE", cfg.Recurrence())
	_, ok := cfg.Required("A", "L3")
	assert.False(t, ok)
}

func TestCampusFor(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "B", cfg.CampusFor("B", "L2"))
	assert.Equal(t, "A", cfg.CampusFor("*", "L2"))
	assert.Equal(t, "A", cfg.CampusFor("B", "L1"))
	assert.Equal(t, "B", cfg.CampusFor("B", "none"))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero required", `
campuses: [{ name: A, locations: [{ name: L1, required: 0 }] }]
wildcardCampus: "*"
unspecifiedLocation: none
workingDays: [MO]
`},
		{"bad weekday", `
campuses: [{ name: A, locations: [{ name: L1, required: 1 }] }]
wildcardCampus: "*"
unspecifiedLocation: none
workingDays: [MONDAY]
`},
		{"bad holiday", `
campuses: [{ name: A, locations: [{ name: L1, required: 1 }] }]
wildcardCampus: "*"
unspecifiedLocation: none
workingDays: [MO]
holidays: ["10/03/2025"]
`},
		{"duplicate campus", `
campuses:
  - { name: A, locations: [{ name: L1, required: 1 }] }
  - { name: A, locations: [{ name: L2, required: 1 }] }
wildcardCampus: "*"
unspecifiedLocation: none
workingDays: [MO]
`},
		{"duplicate location", `
campuses: [{ name: A, locations: [{ name: L1, required: 1 }, { name: L1, required: 2 }] }]
wildcardCampus: "*"
unspecifiedLocation: none
workingDays: [MO]
`},
		{"campus named like wildcard", `
campuses: [{ name: "*", locations: [{ name: L1, required: 1 }] }]
wildcardCampus: "*"
unspecifiedLocation: none
workingDays: [MO]
`},
		{"not yaml", "campuses: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, cfg.Campuses, 2)

	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0644))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.UnspecifiedLocation)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-10-01 ")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())

	_, err = ParseDate("2025/10/01")
	assert.Error(t, err)
}
