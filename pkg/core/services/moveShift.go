package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/internal/config"
	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/core/schedule"
)

// MoveShiftRequest describes moving an existing shift to another cell
type MoveShiftRequest struct {
	ShiftID string
	Role    model.ShiftRole
	Day     model.Day
	WeekRef string

	Time                string
	AcknowledgeWarnings bool
}

// MoveShiftResult pairs the mutation outcome with the week it ran against
type MoveShiftResult struct {
	Outcome  *schedule.MutationOutcome
	Week     *model.WeekSchedule
	Unsynced bool
}

// MoveShift moves a shift to a new role+day cell. Moving onto the current
// cell is a no-op with no validation and no store write.
func MoveShift(
	ctx context.Context,
	store ScheduleStore,
	roster RosterProvider,
	cfg *config.Config,
	logger *zap.Logger,
	req MoveShiftRequest,
) (*MoveShiftResult, error) {
	monday, err := resolveWeek(req.WeekRef)
	if err != nil {
		return nil, err
	}
	weekID := schedule.WeekID(monday)

	logger.Debug("Moving shift",
		zap.String("week_id", weekID),
		zap.String("shift_id", req.ShiftID),
		zap.String("role", string(req.Role)),
		zap.String("day", string(req.Day)))

	users, err := roster.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	week, err := store.GetWeekSchedule(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to load week schedule: %w", err)
	}

	closed, err := closedDaysFor(cfg, monday)
	if err != nil {
		return nil, err
	}

	session := schedule.NewSession(schedule.SessionConfig{
		Week:           week,
		Roles:          cfg.RoleTable(),
		Roster:         users,
		Store:          store,
		Logger:         logger,
		ClosedDays:     closed,
		SoftShiftLimit: cfg.SoftShiftLimit,
	})

	outcome, err := session.Move(req.ShiftID, req.Role, req.Day, schedule.MoveOptions{
		Time:                req.Time,
		AcknowledgeWarnings: req.AcknowledgeWarnings,
	})
	if err != nil {
		return nil, err
	}

	session.Flush()

	return &MoveShiftResult{
		Outcome:  outcome,
		Week:     session.Week(),
		Unsynced: session.Unsynced(),
	}, nil
}
