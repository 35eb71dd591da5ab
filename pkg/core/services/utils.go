package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/mlombardi/casa-rota/internal/config"
	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/core/schedule"
)

// resolveWeek turns a week reference into the Monday of the target week.
// Accepts the empty string (current week), a week id like "2023-w42", or a
// calendar date "2006-01-02".
func resolveWeek(ref string) (time.Time, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return schedule.WeekStart(time.Now()), nil
	}

	if strings.Contains(ref, "-w") {
		monday, err := schedule.ParseWeekID(ref)
		if err != nil {
			return time.Time{}, err
		}
		return monday, nil
	}

	date, err := time.Parse("2006-01-02", ref)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week reference %q: expected a week id or YYYY-MM-DD date", ref)
	}
	return schedule.WeekStart(date), nil
}

// findUser looks a roster user up by id
func findUser(users []model.RosterUser, userID string) (model.RosterUser, error) {
	for _, u := range users {
		if u.ID == userID {
			return u, nil
		}
	}
	return model.RosterUser{}, fmt.Errorf("user %s not found in roster", userID)
}

// closedDaysFor expands the configured closures for the session's week
func closedDaysFor(cfg *config.Config, weekStart time.Time) (map[model.Day]bool, error) {
	closed, err := cfg.ClosedDaysFor(weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to expand closure rules: %w", err)
	}
	return closed, nil
}
