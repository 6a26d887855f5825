package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// DefaultDataPath keeps the usage log in memory; rosters are never stored
const DefaultDataPath = "file::memory:?cache=shared"

// UsageDay represents the usage_days table
type UsageDay struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Date          string `gorm:"uniqueIndex;not null" json:"date"`
	Generations   int    `gorm:"default:0" json:"generations"`
	Assignments   int    `gorm:"default:0" json:"assignments"`
	Shortfalls    int    `gorm:"default:0" json:"shortfalls"`
	Swaps         int    `gorm:"default:0" json:"swaps"`
	RejectedSwaps int    `gorm:"default:0" json:"rejected_swaps"`
}

// RunLog represents the run_logs table: a summary of one generation
type RunLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	RunID           string    `gorm:"unique;not null" json:"run_id"`
	StartDate       string    `gorm:"not null" json:"start_date"`
	EndDate         string    `gorm:"not null" json:"end_date"`
	StaffCount      int       `json:"staff_count"`
	AssignmentCount int       `json:"assignment_count"`
	ShortfallCount  int       `json:"shortfall_count"`
	FairnessScore   float64   `json:"fairness_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema.
// DATABASE_URL selects Postgres; otherwise DATA_PATH (or memory) is used with SQLite.
func InitDB() (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = DefaultDataPath
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(&UsageDay{}, &RunLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Recorder writes the usage log
type Recorder struct {
	DB *gorm.DB
}

// RecordGeneration stores a run summary and bumps today's counters
func (r *Recorder) RecordGeneration(ctx context.Context, roster *models.Roster, staffCount int) error {
	run := RunLog{
		RunID:           roster.RunID,
		StartDate:       roster.StartDate,
		EndDate:         roster.EndDate,
		StaffCount:      staffCount,
		AssignmentCount: len(roster.Assignments),
		ShortfallCount:  len(roster.Shortfalls),
		FairnessScore:   roster.FairnessScore,
	}
	if err := r.DB.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return r.bump(ctx, UsageDay{
		Generations: 1,
		Assignments: len(roster.Assignments),
		Shortfalls:  len(roster.Shortfalls),
	})
}

// RecordSwap bumps today's swap counters
func (r *Recorder) RecordSwap(ctx context.Context, accepted bool) error {
	day := UsageDay{Swaps: 1}
	if !accepted {
		day = UsageDay{RejectedSwaps: 1}
	}
	return r.bump(ctx, day)
}

// bump adds delta's counters to today's row using a single-query upsert
// (supported by both Postgres and SQLite)
func (r *Recorder) bump(ctx context.Context, delta UsageDay) error {
	delta.Date = time.Now().Format(models.DateLayout)

	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"generations":    gorm.Expr("usage_days.generations + ?", delta.Generations),
			"assignments":    gorm.Expr("usage_days.assignments + ?", delta.Assignments),
			"shortfalls":     gorm.Expr("usage_days.shortfalls + ?", delta.Shortfalls),
			"swaps":          gorm.Expr("usage_days.swaps + ?", delta.Swaps),
			"rejected_swaps": gorm.Expr("usage_days.rejected_swaps + ?", delta.RejectedSwaps),
		}),
	}).Create(&delta).Error
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// Usage returns the most recent days of usage, newest first
func (r *Recorder) Usage(ctx context.Context, days int) ([]UsageDay, error) {
	var usage []UsageDay
	if err := r.DB.WithContext(ctx).Order("date desc").Limit(days).Find(&usage).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch usage: %w", err)
	}
	return usage, nil
}

// Runs returns the most recent generation summaries, newest first
func (r *Recorder) Runs(ctx context.Context, limit int) ([]RunLog, error) {
	var runs []RunLog
	if err := r.DB.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}
	return runs, nil
}
