package models

import "time"

// DateLayout is the ISO date format used for every date string in the roster
const DateLayout = "2006-01-02"

// Kind distinguishes pre-fixed assignments from ones made by the allocator
type Kind string

const (
	KindFixed   Kind = "fixed"
	KindGeneral Kind = "general"
)

// Staff represents a person who can be put on duty
type Staff struct {
	Name           string `json:"name" validate:"required"`
	Campus         string `json:"campus" validate:"required"`
	Department     string `json:"department"`
	FixedDates     string `json:"fixed_dates,omitempty"`
	FixedLocations string `json:"fixed_locations,omitempty"`
}

// SlotRequirement is the number of staff a location needs on every working day
type SlotRequirement struct {
	Campus   string `json:"campus"`
	Location string `json:"location"`
	Required int    `json:"required"`
}

// Assignment is one staff member on duty at one location for one date
type Assignment struct {
	Row       int    `json:"row"`
	Date      string `json:"date"`
	Campus    string `json:"campus"`
	Location  string `json:"location"`
	StaffName string `json:"staff"`
	Kind      Kind   `json:"kind"`
}

// Shortfall records a slot that could not be filled to its requirement
type Shortfall struct {
	Date     string   `json:"date"`
	Campus   string   `json:"campus"`
	Location string   `json:"location"`
	Required int      `json:"required"`
	Filled   int      `json:"filled"`
	Missing  int      `json:"missing"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Overfill records a slot whose fixed assignments alone exceed its requirement
type Overfill struct {
	Date     string `json:"date"`
	Campus   string `json:"campus"`
	Location string `json:"location"`
	Required int    `json:"required"`
	Fixed    int    `json:"fixed"`
}

// SkippedFixed is a fixed-date token that was not turned into an assignment
type SkippedFixed struct {
	StaffName string `json:"staff"`
	Token     string `json:"token"`
	Reason    string `json:"reason"`
}

// Roster is the full output of a generation run plus any later swaps
type Roster struct {
	RunID         string         `json:"run_id"`
	Version       uint64         `json:"version"`
	State         string         `json:"state"`
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	GeneratedAt   time.Time      `json:"generated_at"`
	WorkingDates  []string       `json:"working_dates"`
	Assignments   []Assignment   `json:"assignments"`
	WorkCount     map[string]int `json:"work_count"`
	Shortfalls    []Shortfall    `json:"shortfalls"`
	Overfills     []Overfill     `json:"overfills,omitempty"`
	SkippedFixed  []SkippedFixed `json:"skipped_fixed,omitempty"`
	FairnessScore float64        `json:"fairness_score"`
}

// GenerateInput is the data structure for the JSON generation endpoint
type GenerateInput struct {
	Staff     []Staff `json:"staff" binding:"required,min=1"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date" binding:"required"`
	Seed      *int64  `json:"seed,omitempty"`
}

// SwapInput names the two assignment rows whose staff are exchanged
type SwapInput struct {
	RowA int `json:"row_a"`
	RowB int `json:"row_b"`
}
