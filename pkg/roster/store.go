// Package roster holds the roster of the current session and serializes
// every generation and swap against it.
package roster

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
)

// ErrNoRoster is returned when an operation needs a roster before one was generated
var ErrNoRoster = errors.New("no roster has been generated yet")

// Lifecycle states of the session roster
const (
	StateEmpty    = "empty"
	StateCreated  = "created"
	StateReplaced = "replaced"
	StateMutated  = "mutated"
)

// Observer is notified after each successful mutation
type Observer interface {
	Generated(r *models.Roster, elapsed time.Duration)
	Swapped(err error)
}

// Store owns the session roster. A single mutex is held for the whole of a
// generation or a swap; readers get deep copies.
type Store struct {
	mu       sync.Mutex
	cfg      *config.Config
	logger   *zap.Logger
	observer Observer

	current *models.Roster
	staff   []models.Staff
	elig    *scheduler.Eligibility
	version uint64
	state   string
}

// NewStore creates an empty store
func NewStore(cfg *config.Config, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{cfg: cfg, logger: logger, state: StateEmpty}
}

// SetObserver registers a hook called after generations and swaps
func (s *Store) SetObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = o
}

// Config returns the configuration rosters are generated with
func (s *Store) Config() *config.Config {
	return s.cfg
}

// State returns the lifecycle state
func (s *Store) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GenerateOptions tunes a single generation
type GenerateOptions struct {
	// Seed fixes the tie-break shuffle; nil uses the clock
	Seed *int64
}

// Generate builds a fresh roster and replaces the current one wholesale. On
// error the current roster is left untouched.
func (s *Store) Generate(staff []models.Staff, start, end time.Time, opts GenerateOptions) (*models.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	began := time.Now()
	runID := uuid.New().String()
	logger := s.logger.With(zap.String("run_id", runID))

	schedOpts := []scheduler.Option{scheduler.WithLogger(logger)}
	if opts.Seed != nil {
		schedOpts = append(schedOpts, scheduler.WithRand(rand.New(rand.NewSource(*opts.Seed))))
	}

	sched := scheduler.NewScheduler(s.cfg, staff, schedOpts...)
	if err := sched.Generate(start, end); err != nil {
		return nil, fmt.Errorf("failed to generate roster: %w", err)
	}

	working := make([]string, len(sched.WorkingDates))
	for i, d := range sched.WorkingDates {
		working[i] = d.Format(models.DateLayout)
	}

	if s.state == StateEmpty {
		s.state = StateCreated
	} else {
		s.state = StateReplaced
	}
	s.version++

	s.current = &models.Roster{
		RunID:         runID,
		Version:       s.version,
		State:         s.state,
		StartDate:     start.Format(models.DateLayout),
		EndDate:       end.Format(models.DateLayout),
		GeneratedAt:   began.UTC(),
		WorkingDates:  working,
		Assignments:   sched.Assignments,
		WorkCount:     sched.WorkCount,
		Shortfalls:    sched.Shortfalls,
		Overfills:     sched.Overfills,
		SkippedFixed:  sched.SkippedFixed,
		FairnessScore: sched.CalculateFairnessScore(),
	}
	if s.current.Assignments == nil {
		s.current.Assignments = []models.Assignment{}
	}
	if s.current.Shortfalls == nil {
		s.current.Shortfalls = []models.Shortfall{}
	}
	s.staff = sched.Staff
	s.elig = sched.Eligibility()

	logger.Info("Roster stored",
		zap.Uint64("version", s.version),
		zap.String("state", s.state))

	out := clone(s.current)
	if s.observer != nil {
		s.observer.Generated(out, time.Since(began))
	}
	return out, nil
}

// Swap exchanges the staff on two rows of the current roster
func (s *Store) Swap(rowA, rowB int) (*models.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNoRoster
	}

	err := scheduler.Swap(s.current.Assignments, rowA, rowB, s.cfg.Swap, s.elig)
	if s.observer != nil {
		s.observer.Swapped(err)
	}
	if err != nil {
		s.logger.Info("Swap rejected", zap.Int("row_a", rowA), zap.Int("row_b", rowB), zap.Error(err))
		return nil, err
	}

	s.version++
	s.state = StateMutated
	s.current.Version = s.version
	s.current.State = s.state

	s.logger.Info("Swapped assignments",
		zap.Int("row_a", rowA),
		zap.Int("row_b", rowB),
		zap.Uint64("version", s.version))

	return clone(s.current), nil
}

// Current returns a copy of the current roster
func (s *Store) Current() (*models.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNoRoster
	}
	return clone(s.current), nil
}

// Staff returns the staff table of the last generation
func (s *Store) Staff() []models.Staff {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Staff(nil), s.staff...)
}

func clone(r *models.Roster) *models.Roster {
	out := *r
	out.WorkingDates = append([]string(nil), r.WorkingDates...)
	out.Assignments = append([]models.Assignment{}, r.Assignments...)
	out.Overfills = append([]models.Overfill(nil), r.Overfills...)
	out.SkippedFixed = append([]models.SkippedFixed(nil), r.SkippedFixed...)

	out.Shortfalls = make([]models.Shortfall, len(r.Shortfalls))
	for i, sf := range r.Shortfalls {
		sf.Reasons = append([]string(nil), sf.Reasons...)
		out.Shortfalls[i] = sf
	}

	out.WorkCount = make(map[string]int, len(r.WorkCount))
	for k, v := range r.WorkCount {
		out.WorkCount[k] = v
	}
	return &out
}
