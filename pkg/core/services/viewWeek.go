package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/core/schedule"
)

// RosterRow is one rendered schedule row: a user and their shifts per day
type RosterRow struct {
	User        model.RosterUser            `json:"user"`
	ShiftsByDay map[model.Day][]model.Shift `json:"shiftsByDay"`
}

// WeekViewResult contains the derived week view
type WeekViewResult struct {
	Week       *model.WeekSchedule `json:"week"`
	PrevWeekID string              `json:"prevWeekId"`
	NextWeekID string              `json:"nextWeekId"`
	Rows       []RosterRow         `json:"rows"`
}

// ViewWeek loads a week document and derives the display rows from it.
// weekRef may be empty (current week), a week id, or a date.
func ViewWeek(
	ctx context.Context,
	store ScheduleStore,
	roster RosterProvider,
	logger *zap.Logger,
	weekRef string,
	editMode bool,
) (*WeekViewResult, error) {
	monday, err := resolveWeek(weekRef)
	if err != nil {
		return nil, err
	}
	weekID := schedule.WeekID(monday)

	logger.Debug("Loading week schedule", zap.String("week_id", weekID), zap.Bool("edit_mode", editMode))

	week, err := store.GetWeekSchedule(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to load week schedule: %w", err)
	}

	users, err := roster.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	logger.Debug("Roster loaded", zap.Int("count", len(users)))

	vm := schedule.NewViewModel(week, users)

	visible := vm.VisibleUsers(editMode)
	rows := make([]RosterRow, 0, len(visible))
	for _, u := range visible {
		byDay := make(map[model.Day][]model.Shift, len(model.Days))
		for _, day := range model.Days {
			if shifts := vm.Shifts(u.ID, day); len(shifts) > 0 {
				byDay[day] = shifts
			}
		}
		rows = append(rows, RosterRow{User: u, ShiftsByDay: byDay})
	}

	return &WeekViewResult{
		Week:       week,
		PrevWeekID: schedule.WeekID(schedule.PrevWeek(monday)),
		NextWeekID: schedule.WeekID(schedule.NextWeek(monday)),
		Rows:       rows,
	}, nil
}
