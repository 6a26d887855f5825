// Package staffio reads staff tables from CSV and XLSX uploads.
package staffio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// Canonical column names
const (
	ColName           = "name"
	ColCampus         = "campus"
	ColDepartment     = "department"
	ColFixedDates     = "fixed_dates"
	ColFixedLocations = "fixed_locations"
)

var aliases = map[string][]string{
	ColName:           {"name", "이름"},
	ColCampus:         {"campus", "캠퍼스"},
	ColDepartment:     {"department", "dept", "부서"},
	ColFixedDates:     {"fixed_dates", "fixed dates", "고정날짜", "고정일"},
	ColFixedLocations: {"fixed_locations", "fixed locations", "고정근무지", "고정장소"},
}

var headers = make(map[string]string)

func init() {
	for canonical, names := range aliases {
		for _, n := range names {
			headers[n] = canonical
		}
	}
}

var (
	ErrMissingColumn = errors.New("required column missing")
	ErrNoStaff       = errors.New("at least one staff member is required")
)

// RowWarning describes a data row that was skipped
type RowWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result is the parsed staff table
type Result struct {
	Staff    []models.Staff `json:"staff"`
	Warnings []RowWarning   `json:"warnings,omitempty"`
}

var validate = validator.New()

// ParseCSV reads a staff table whose first record is the header
func ParseCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return fromRecords(records, false)
}

// ParseXLSX reads the first sheet of a workbook whose first row is the header.
// Date cells in the fixed-dates column are converted from Excel serials.
func ParseXLSX(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return fromRecords(rows, true)
}

// Parse picks the reader from the file name extension
func Parse(filename string, r io.Reader) (*Result, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return ParseXLSX(r)
	case strings.HasSuffix(lower, ".csv"):
		return ParseCSV(r)
	default:
		return nil, fmt.Errorf("unsupported staff file %q: want .xlsx or .csv", filename)
	}
}

func fromRecords(records [][]string, excelSerials bool) (*Result, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}

	cols := make(map[string]int)
	for i, h := range records[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canonical, ok := headers[key]; ok {
			if _, dup := cols[canonical]; !dup {
				cols[canonical] = i
			}
		}
	}
	for _, required := range []string{ColName, ColCampus, ColDepartment} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	res := &Result{Staff: []models.Staff{}}
	for i, record := range records[1:] {
		rowNum := i + 2
		get := func(col string) string {
			idx, ok := cols[col]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		st := models.Staff{
			Name:           get(ColName),
			Campus:         get(ColCampus),
			Department:     get(ColDepartment),
			FixedDates:     get(ColFixedDates),
			FixedLocations: get(ColFixedLocations),
		}
		if st.Name == "" {
			continue
		}
		if excelSerials {
			st.FixedDates = normalizeSerialDates(st.FixedDates)
		}

		if err := validate.Struct(st); err != nil {
			res.Warnings = append(res.Warnings, RowWarning{Row: rowNum, Message: err.Error()})
			continue
		}
		res.Staff = append(res.Staff, st)
	}

	return res, nil
}

// normalizeSerialDates rewrites tokens that are Excel date serials as ISO dates
// and leaves everything else for the resolver to judge
func normalizeSerialDates(field string) string {
	if field == "" {
		return field
	}
	tokens := strings.Split(field, ",")
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		serial, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			tokens[i] = tok
			continue
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			tokens[i] = tok
			continue
		}
		tokens[i] = t.Format(models.DateLayout)
	}
	return strings.Join(tokens, ",")
}

// ValidateStaff checks staff submitted directly rather than through a file.
// Fields are trimmed first, so a blank name or campus is missing.
func ValidateStaff(staff []models.Staff) error {
	if len(staff) == 0 {
		return ErrNoStaff
	}
	for i, st := range staff {
		st.Name = strings.TrimSpace(st.Name)
		st.Campus = strings.TrimSpace(st.Campus)
		if err := validate.Struct(st); err != nil {
			return fmt.Errorf("staff %d: %w", i, err)
		}
	}
	return nil
}
