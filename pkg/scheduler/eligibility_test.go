package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

func TestConflicts(t *testing.T) {
	keywords := []string{"생활관", "상황실", "도서관"}

	tests := []struct {
		department string
		location   string
		want       bool
	}{
		{"생활관", "생활관1", true},
		{"학생생활관팀", "생활관2", true},
		{"상황실", "생활관1", false},
		{"도서관", "도서관2", true},
		{"총무팀", "상황실1", false},
		{"", "도서관1", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Conflicts(tt.department, tt.location, keywords), "%s @ %s", tt.department, tt.location)
	}
}

func TestConflicts_NoKeywords(t *testing.T) {
	assert.False(t, Conflicts("생활관", "생활관1", nil))
	assert.False(t, Conflicts("생활관", "생활관1", []string{""}))
}

func TestCandidates(t *testing.T) {
	cfg := testConfig(campus("1", loc("생활관1", 2)))
	staff := []models.Staff{
		{Name: "A", Campus: "1", Department: "총무"},
		{Name: "B", Campus: "2", Department: "총무"},
		{Name: "C", Campus: "*", Department: "총무"},
		{Name: "D", Campus: "1", Department: "생활관"},
		{Name: "E", Campus: "1", Department: "총무"},
		{Name: "A", Campus: "1", Department: "총무"},
	}

	pool, excl := NewEligibility(cfg, staff).Candidates("1", "생활관1", map[string]bool{"E": true})

	assert.Equal(t, []string{"A", "C"}, pool)
	assert.Equal(t, Exclusions{OtherCampus: 1, AssignedToday: 1, DepartmentClash: 1}, excl)
}

func TestAllowsName(t *testing.T) {
	cfg := testConfig(campus("1", loc("생활관1", 1), loc("L2", 1)))
	elig := NewEligibility(cfg, []models.Staff{
		{Name: "A", Campus: "1", Department: "생활관"},
		{Name: "W", Campus: "*", Department: "x"},
	})

	assert.False(t, elig.AllowsName("A", "1", "생활관1"))
	assert.True(t, elig.AllowsName("A", "1", "L2"))
	assert.False(t, elig.AllowsName("A", "2", "L2"))
	assert.True(t, elig.AllowsName("W", "2", "L2"))
	assert.False(t, elig.AllowsName("nobody", "1", "L2"))
}

func TestExclusionReasons(t *testing.T) {
	assert.Equal(t, []string{"no staff found for this campus"}, Exclusions{}.Reasons())
	assert.Len(t, Exclusions{OtherCampus: 2, AssignedToday: 1, DepartmentClash: 3}.Reasons(), 3)
}
