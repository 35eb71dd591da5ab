package db

import (
	"context"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

// ScheduleStore is a keyed document store holding one WeekSchedule per week
// id. Reads of a never-seen week return the default empty document, never an
// error. Saves replace the whole document; there is no shift-level partial
// update and no conflict detection beyond last write wins.
type ScheduleStore interface {
	GetWeekSchedule(ctx context.Context, weekID string) (*model.WeekSchedule, error)
	SaveWeekSchedule(ctx context.Context, weekID string, week *model.WeekSchedule) error
}

// RosterStore supplies the staff/volunteer profiles consumed read-only by
// the scheduling core
type RosterStore interface {
	GetUsers(ctx context.Context) ([]model.RosterUser, error)
}
