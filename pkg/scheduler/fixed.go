package scheduler

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/models"
)

// FixedEntry is one resolved fixed-date directive
type FixedEntry struct {
	StaffName string
	Location  string
	Campus    string
}

// ResolveFixed turns every staff row's fixed_dates/fixed_locations fields
// into per-date entries for dates within [start, end]. The i-th date token
// pairs with the i-th location token, falling back to the first location
// token and then to the unspecified location. Each accepted entry bumps
// WorkCount for that staff. Malformed, out-of-range and repeated tokens are
// skipped and recorded in SkippedFixed.
func (s *Scheduler) ResolveFixed(start, end time.Time) map[string][]FixedEntry {
	fixed := make(map[string][]FixedEntry)
	seen := make(map[string]bool)

	for _, st := range s.Staff {
		if strings.TrimSpace(st.FixedDates) == "" {
			continue
		}

		dateTokens := splitTokens(st.FixedDates)
		locTokens := splitTokens(st.FixedLocations)

		for i, token := range dateTokens {
			if token == "" {
				continue
			}

			date, err := config.ParseDate(token)
			if err != nil {
				s.skipFixed(st.Name, token, "malformed date")
				continue
			}
			if date.Before(start) || date.After(end) {
				s.skipFixed(st.Name, token, "outside requested range")
				continue
			}

			day := date.Format(models.DateLayout)
			key := st.Name + "\x00" + day
			if seen[key] {
				s.skipFixed(st.Name, token, "duplicate date")
				continue
			}
			seen[key] = true

			location := pickLocation(locTokens, i, s.Config.UnspecifiedLocation)
			fixed[day] = append(fixed[day], FixedEntry{
				StaffName: st.Name,
				Location:  location,
				Campus:    s.Config.CampusFor(st.Campus, location),
			})
			s.WorkCount[st.Name]++
		}
	}

	return fixed
}

func (s *Scheduler) skipFixed(name, token, reason string) {
	s.logger.Debug("Skipping fixed date",
		zap.String("staff", name),
		zap.String("token", token),
		zap.String("reason", reason))
	s.SkippedFixed = append(s.SkippedFixed, models.SkippedFixed{
		StaffName: name,
		Token:     token,
		Reason:    reason,
	})
}

func pickLocation(tokens []string, i int, unspecified string) string {
	if i < len(tokens) && tokens[i] != "" {
		return tokens[i]
	}
	for _, t := range tokens {
		if t != "" {
			return t
		}
	}
	return unspecified
}

func splitTokens(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
