package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/arnavshah/duty-roster-go/pkg/models"
)

//go:embed default.yaml
var defaultYAML []byte

// Location is a duty post and the number of staff it needs per working day
type Location struct {
	Name     string `yaml:"name" json:"name" validate:"required"`
	Required int    `yaml:"required" json:"required" validate:"min=1"`
}

// Campus groups locations. Location order is significant.
type Campus struct {
	Name      string     `yaml:"name" json:"name" validate:"required"`
	Locations []Location `yaml:"locations" json:"locations" validate:"required,min=1,dive"`
}

// SwapPolicy controls how strictly manual swaps are checked
type SwapPolicy struct {
	// Permissive restores the unvalidated exchange: self swaps and same-day
	// double bookings are accepted.
	Permissive bool `yaml:"permissive" json:"permissive"`

	// CheckEligibility additionally rejects swaps that move staff onto a
	// location they could not have been allocated to.
	CheckEligibility bool `yaml:"checkEligibility" json:"check_eligibility"`
}

// Config is the static configuration of a scheduling run
type Config struct {
	Campuses            []Campus   `yaml:"campuses" json:"campuses" validate:"required,min=1,dive"`
	WildcardCampus      string     `yaml:"wildcardCampus" json:"wildcard_campus" validate:"required"`
	UnspecifiedLocation string     `yaml:"unspecifiedLocation" json:"unspecified_location" validate:"required"`
	ConflictKeywords    []string   `yaml:"conflictKeywords" json:"conflict_keywords" validate:"dive,required"`
	WorkingDays         []string   `yaml:"workingDays" json:"working_days" validate:"required,min=1,dive,oneof=MO TU WE TH FR SA SU"`
	Holidays            []string   `yaml:"holidays" json:"holidays" validate:"dive,datetime=2006-01-02"`
	Swap                SwapPolicy `yaml:"swap" json:"swap"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the built-in configuration
func Default() *Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// Load loads the configuration at path, or the built-in one when path is empty
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct validation and the checks tags cannot express
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	campuses := make(map[string]bool, len(cfg.Campuses))
	for _, c := range cfg.Campuses {
		if campuses[c.Name] {
			return fmt.Errorf("duplicate campus %q", c.Name)
		}
		if c.Name == cfg.WildcardCampus {
			return fmt.Errorf("campus %q collides with the wildcard token", c.Name)
		}
		campuses[c.Name] = true

		locations := make(map[string]bool, len(c.Locations))
		for _, l := range c.Locations {
			if locations[l.Name] {
				return fmt.Errorf("duplicate location %q in campus %q", l.Name, c.Name)
			}
			locations[l.Name] = true
		}
	}

	if _, err := rrule.StrToRRule(cfg.Recurrence()); err != nil {
		return fmt.Errorf("invalid workingDays: %w", err)
	}

	return nil
}

// Recurrence returns the RFC 5545 rule matching every working weekday
func (c *Config) Recurrence() string {
	return "FREQ=DAILY;BYDAY=" + strings.Join(c.WorkingDays, ",")
}

// HolidaySet returns the holidays keyed by ISO date
func (c *Config) HolidaySet() map[string]bool {
	set := make(map[string]bool, len(c.Holidays))
	for _, h := range c.Holidays {
		set[h] = true
	}
	return set
}

// Slots returns every slot requirement in declared campus and location order
func (c *Config) Slots() []models.SlotRequirement {
	var slots []models.SlotRequirement
	for _, campus := range c.Campuses {
		for _, loc := range campus.Locations {
			slots = append(slots, models.SlotRequirement{
				Campus:   campus.Name,
				Location: loc.Name,
				Required: loc.Required,
			})
		}
	}
	return slots
}

// Required returns the daily requirement for a slot
func (c *Config) Required(campus, location string) (int, bool) {
	for _, cp := range c.Campuses {
		if cp.Name != campus {
			continue
		}
		for _, loc := range cp.Locations {
			if loc.Name == location {
				return loc.Required, true
			}
		}
	}
	return 0, false
}

// CampusFor picks the campus a fixed assignment at location belongs to. The
// staff's own campus wins when it declares the location, then the first
// campus in declared order, then the staff's campus tag as given.
func (c *Config) CampusFor(staffCampus, location string) string {
	if _, ok := c.Required(staffCampus, location); ok {
		return staffCampus
	}
	for _, cp := range c.Campuses {
		if _, ok := c.Required(cp.Name, location); ok {
			return cp.Name
		}
	}
	return staffCampus
}

// ParseDate parses an ISO date as midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, strings.TrimSpace(s), time.UTC)
}
