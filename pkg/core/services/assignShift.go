package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/internal/config"
	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/core/schedule"
)

// AssignShiftRequest describes one assign attempt
type AssignShiftRequest struct {
	UserID  string
	Role    model.ShiftRole
	Day     model.Day
	WeekRef string // empty = current week

	// Time is the explicitly chosen window; required to complete a
	// flexible-role assignment
	Time string
	// ConfirmCount acknowledges the volunteer soft shift limit
	ConfirmCount bool
	// AcknowledgeWarnings accepts non-blocking warnings without the second
	// save round-trip
	AcknowledgeWarnings bool
}

// AssignShiftResult pairs the mutation outcome with the week it ran against
type AssignShiftResult struct {
	Outcome  *schedule.MutationOutcome
	Week     *model.WeekSchedule
	Unsynced bool
}

// AssignShift assigns a roster user to a role+day cell of the target week.
// The in-memory document is updated optimistically; the store write is
// flushed before returning so one-shot callers observe persistence failures
// via the Unsynced flag.
func AssignShift(
	ctx context.Context,
	store ScheduleStore,
	roster RosterProvider,
	cfg *config.Config,
	logger *zap.Logger,
	req AssignShiftRequest,
) (*AssignShiftResult, error) {
	monday, err := resolveWeek(req.WeekRef)
	if err != nil {
		return nil, err
	}
	weekID := schedule.WeekID(monday)

	logger.Debug("Assigning shift",
		zap.String("week_id", weekID),
		zap.String("user_id", req.UserID),
		zap.String("role", string(req.Role)),
		zap.String("day", string(req.Day)))

	users, err := roster.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	user, err := findUser(users, req.UserID)
	if err != nil {
		return nil, err
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

	outcome, err := session.Assign(user, req.Role, req.Day, schedule.AssignOptions{
		Time:                req.Time,
		ConfirmCount:        req.ConfirmCount,
		AcknowledgeWarnings: req.AcknowledgeWarnings,
	})
	if err != nil {
		return nil, err
	}

	session.Flush()

	return &AssignShiftResult{
		Outcome:  outcome,
		Week:     session.Week(),
		Unsynced: session.Unsynced(),
	}, nil
}
