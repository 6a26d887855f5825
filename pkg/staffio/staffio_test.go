package staffio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

func TestParseCSV_KoreanHeaders(t *testing.T) {
	input := "\ufeff이름,캠퍼스,부서,고정날짜,고정근무지\n" +
		" 홍길동 ,인천,총무팀,\"2025-10-01,2025-10-02\",상황실1\n" +
		"김철수,전체,생활관,,\n" +
		",경기,도서관,,\n"

	res, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []models.Staff{
		{Name: "홍길동", Campus: "인천", Department: "총무팀", FixedDates: "2025-10-01,2025-10-02", FixedLocations: "상황실1"},
		{Name: "김철수", Campus: "전체", Department: "생활관"},
	}, res.Staff)
	assert.Empty(t, res.Warnings)
}

func TestParseCSV_EnglishHeadersWithoutFixedColumns(t *testing.T) {
	input := "Name,Campus,Department\nA,1,X\nB,,Y\n"

	res, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, res.Staff, 1)
	assert.Equal(t, "A", res.Staff[0].Name)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 3, res.Warnings[0].Row)
}

func TestParseCSV_MissingColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("name,department\nA,X\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"이름", "캠퍼스", "부서", "고정날짜", "고정근무지"},
		{"홍길동", "인천", "총무팀", "45933, 2025-10-06", "상황실1"},
		{"김철수", "경기", "생활관"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	res, err := Parse("staff.XLSX", &buf)
	require.NoError(t, err)

	require.Len(t, res.Staff, 2)
	assert.Equal(t, "2025-10-03,2025-10-06", res.Staff[0].FixedDates)
	assert.Equal(t, "상황실1", res.Staff[0].FixedLocations)
	assert.Equal(t, models.Staff{Name: "김철수", Campus: "경기", Department: "생활관"}, res.Staff[1])
}

func TestParse_UnsupportedExtension(t *testing.T) {
	_, err := Parse("staff.txt", strings.NewReader(""))
	assert.Error(t, err)
}

func TestValidateStaff(t *testing.T) {
	assert.NoError(t, ValidateStaff([]models.Staff{{Name: "A", Campus: "인천"}}))

	err := ValidateStaff([]models.Staff{{Name: "A", Campus: "인천"}, {Name: "B"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staff 1")

	err = ValidateStaff([]models.Staff{{Name: "   ", Campus: "인천"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staff 0")

	assert.Error(t, ValidateStaff([]models.Staff{{Name: "A", Campus: " "}}))
	assert.ErrorIs(t, ValidateStaff(nil), ErrNoStaff)
}
