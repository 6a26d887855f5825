package scheduler

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// Scheduler handles the logic of assigning staff to daily slots
type Scheduler struct {
	Config       *config.Config
	Staff        []models.Staff
	WorkCount    map[string]int
	Assignments  []models.Assignment
	WorkingDates []time.Time
	Shortfalls   []models.Shortfall
	Overfills    []models.Overfill
	SkippedFixed []models.SkippedFixed

	eligibility *Eligibility
	rng         *rand.Rand
	logger      *zap.Logger
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithRand sets the source used for the tie-break shuffle
func WithRand(r *rand.Rand) Option {
	return func(s *Scheduler) { s.rng = r }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScheduler creates a new scheduler instance. Staff names are trimmed,
// rows left without a name are dropped and every name starts with a work
// count of zero.
func NewScheduler(cfg *config.Config, staff []models.Staff, opts ...Option) *Scheduler {
	cleaned := make([]models.Staff, 0, len(staff))
	counts := make(map[string]int, len(staff))
	for _, st := range staff {
		st.Name = strings.TrimSpace(st.Name)
		if st.Name == "" {
			continue
		}
		st.Campus = strings.TrimSpace(st.Campus)
		st.Department = strings.TrimSpace(st.Department)
		cleaned = append(cleaned, st)
		counts[st.Name] = 0
	}

	s := &Scheduler{
		Config:    cfg,
		Staff:     cleaned,
		WorkCount: counts,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.eligibility = NewEligibility(cfg, cleaned)

	return s
}

// Eligibility returns the filter the scheduler allocates with
func (s *Scheduler) Eligibility() *Eligibility {
	return s.eligibility
}

// Generate builds the roster for [start, end]. Fixed assignments are placed
// first on their dates, working or not; then every working date is filled
// slot by slot in declared campus and location order.
func (s *Scheduler) Generate(start, end time.Time) error {
	start, end = truncateDay(start), truncateDay(end)

	working, err := WorkingDates(start, end, s.Config.Recurrence(), s.Config.HolidaySet())
	if err != nil {
		return err
	}
	s.WorkingDates = working

	s.logger.Info("Generating roster",
		zap.String("start", start.Format(models.DateLayout)),
		zap.String("end", end.Format(models.DateLayout)),
		zap.Int("staff", len(s.Staff)),
		zap.Int("working_dates", len(working)))

	fixed := s.ResolveFixed(start, end)

	isWorking := make(map[string]bool, len(working))
	days := make([]string, 0, len(working)+len(fixed))
	for _, d := range working {
		day := d.Format(models.DateLayout)
		isWorking[day] = true
		days = append(days, day)
	}
	for day := range fixed {
		if !isWorking[day] {
			days = append(days, day)
		}
	}
	sort.Strings(days)

	for _, day := range days {
		assignedToday := make(map[string]bool)
		filled := make(map[string]int)

		for _, fe := range fixed[day] {
			s.record(day, fe.Campus, fe.Location, fe.StaffName, models.KindFixed)
			assignedToday[fe.StaffName] = true
			filled[slotKey(fe.Campus, fe.Location)]++
		}

		if isWorking[day] {
			s.allocateDay(day, assignedToday, filled)
		}
	}

	s.logger.Info("Roster generated",
		zap.Int("assignments", len(s.Assignments)),
		zap.Int("shortfalls", len(s.Shortfalls)),
		zap.Int("skipped_fixed", len(s.SkippedFixed)),
		zap.Float64("fairness", s.CalculateFairnessScore()))

	return nil
}

// allocateDay fills each slot of one working date from its eligible pool
func (s *Scheduler) allocateDay(day string, assignedToday map[string]bool, filled map[string]int) {
	for _, slot := range s.Config.Slots() {
		already := filled[slotKey(slot.Campus, slot.Location)]
		if already > slot.Required {
			s.Overfills = append(s.Overfills, models.Overfill{
				Date:     day,
				Campus:   slot.Campus,
				Location: slot.Location,
				Required: slot.Required,
				Fixed:    already,
			})
		}

		needed := slot.Required - already
		if needed <= 0 {
			continue
		}

		pool, excl := s.eligibility.Candidates(slot.Campus, slot.Location, assignedToday)
		chosen := s.pick(pool, needed)

		for _, name := range chosen {
			s.record(day, slot.Campus, slot.Location, name, models.KindGeneral)
			s.WorkCount[name]++
			assignedToday[name] = true
		}

		if len(chosen) < needed {
			shortfall := models.Shortfall{
				Date:     day,
				Campus:   slot.Campus,
				Location: slot.Location,
				Required: slot.Required,
				Filled:   already + len(chosen),
				Missing:  needed - len(chosen),
				Reasons:  excl.Reasons(),
			}
			s.Shortfalls = append(s.Shortfalls, shortfall)
			s.logger.Warn("Slot left under-filled",
				zap.String("date", day),
				zap.String("campus", slot.Campus),
				zap.String("location", slot.Location),
				zap.Int("missing", shortfall.Missing))
		}
	}
}

// pick shuffles the pool, then stable-sorts it by ascending work count, so
// equal counts are ordered randomly but a lower count always wins.
func (s *Scheduler) pick(pool []string, needed int) []string {
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	sort.SliceStable(pool, func(i, j int) bool {
		return s.WorkCount[pool[i]] < s.WorkCount[pool[j]]
	})

	if needed > len(pool) {
		needed = len(pool)
	}
	return pool[:needed]
}

func (s *Scheduler) record(day, campus, location, name string, kind models.Kind) {
	s.Assignments = append(s.Assignments, models.Assignment{
		Row:       len(s.Assignments),
		Date:      day,
		Campus:    campus,
		Location:  location,
		StaffName: name,
		Kind:      kind,
	})
}

func slotKey(campus, location string) string {
	return campus + "\x00" + location
}

// CalculateFairnessScore returns a percentage (0-100) representing how evenly
// assignments are distributed. 100% is perfectly fair (Standard Deviation = 0).
func (s *Scheduler) CalculateFairnessScore() float64 {
	return FairnessScore(s.WorkCount)
}

// FairnessScore is 100 * (1 - stddev/mean) over the counts, floored at zero
func FairnessScore(counts map[string]int) float64 {
	if len(counts) == 0 {
		return 100.0
	}

	var sum float64
	for _, c := range counts {
		sum += float64(c)
	}

	if sum == 0 {
		return 100.0 // Nobody assigned is perfectly fair
	}

	mean := sum / float64(len(counts))

	var varianceSum float64
	for _, c := range counts {
		diff := float64(c) - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(counts)))

	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
