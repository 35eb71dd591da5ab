package services

import (
	"context"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

// ScheduleStore defines the week-document operations the services need
type ScheduleStore interface {
	GetWeekSchedule(ctx context.Context, weekID string) (*model.WeekSchedule, error)
	SaveWeekSchedule(ctx context.Context, weekID string, week *model.WeekSchedule) error
}

// RosterProvider supplies the staff/volunteer roster
type RosterProvider interface {
	GetUsers(ctx context.Context) ([]model.RosterUser, error)
}
