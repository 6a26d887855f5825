package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Campuses: []config.Campus{
			{Name: "인천", Locations: []config.Location{{Name: "생활관1", Required: 2}, {Name: "상황실1", Required: 1}}},
			{Name: "경기", Locations: []config.Location{{Name: "도서관2", Required: 1}}},
		},
		WildcardCampus:      "전체",
		UnspecifiedLocation: "미지정",
	}
}

func testRoster() *models.Roster {
	return &models.Roster{
		Assignments: []models.Assignment{
			{Row: 0, Date: "2025-10-01", Campus: "인천", Location: "미지정", StaffName: "D", Kind: models.KindFixed},
			{Row: 1, Date: "2025-10-01", Campus: "인천", Location: "생활관1", StaffName: "A", Kind: models.KindGeneral},
			{Row: 2, Date: "2025-10-01", Campus: "인천", Location: "생활관1", StaffName: "B", Kind: models.KindGeneral},
			{Row: 3, Date: "2025-10-01", Campus: "경기", Location: "도서관2", StaffName: "C", Kind: models.KindGeneral},
			{Row: 4, Date: "2025-10-02", Campus: "인천", Location: "상황실1", StaffName: "A", Kind: models.KindGeneral},
		},
		WorkCount: map[string]int{"A": 2, "B": 1, "C": 1, "D": 1, "E": 0},
	}
}

func TestPivot(t *testing.T) {
	got := Pivot(testRoster(), testConfig())

	assert.Equal(t, []string{"campus", "location", "2025-10-01", "2025-10-02"}, got.Header)
	assert.Equal(t, [][]string{
		{"인천", "생활관1", "A, B", ""},
		{"인천", "상황실1", "", "A"},
		{"경기", "도서관2", "C", ""},
		{"인천", "미지정", "D", ""},
	}, got.Rows)
}

func TestDaily(t *testing.T) {
	got := Daily(testRoster(), testConfig())

	require.Len(t, got, 2)
	assert.Equal(t, "2025-10-01", got[0].Date)
	assert.Equal(t, [][]string{
		{"인천", "생활관1", "A, B"},
		{"경기", "도서관2", "C"},
		{"인천", "미지정", "D"},
	}, got[0].Table.Rows)
	assert.Equal(t, [][]string{{"인천", "상황실1", "A"}}, got[1].Table.Rows)
}

func TestTotals_ReflectSwaps(t *testing.T) {
	r := testRoster()
	r.Assignments[4].StaffName = "E"

	got := Totals(r)

	assert.Equal(t, []Total{
		{Name: "A", Assigned: 1, WorkCount: 2},
		{Name: "B", Assigned: 1, WorkCount: 1},
		{Name: "C", Assigned: 1, WorkCount: 1},
		{Name: "D", Assigned: 1, WorkCount: 1},
		{Name: "E", Assigned: 1, WorkCount: 0},
	}, got)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testRoster()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "row,date,campus,location,staff,kind", lines[0])
	assert.Equal(t, "0,2025-10-01,인천,미지정,D,fixed", lines[1])
	assert.Equal(t, "4,2025-10-02,인천,상황실1,A,general", lines[5])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testRoster(), testConfig()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetPivot, SheetDaily, SheetList, SheetTotals}, f.GetSheetList())

	pivot, err := f.GetRows(SheetPivot)
	require.NoError(t, err)
	require.Len(t, pivot, 5)
	assert.Equal(t, []string{"campus", "location", "2025-10-01", "2025-10-02"}, pivot[0])
	assert.Equal(t, []string{"인천", "생활관1", "A, B"}, pivot[1][:3])

	list, err := f.GetRows(SheetList)
	require.NoError(t, err)
	assert.Len(t, list, 6)

	totals, err := f.GetRows(SheetTotals)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "2", "2"}, totals[1])
}
