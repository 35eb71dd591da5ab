package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/core/schedule"
)

// DeleteShiftResult pairs the mutation outcome with the week it ran against
type DeleteShiftResult struct {
	Outcome  *schedule.MutationOutcome
	Week     *model.WeekSchedule
	Unsynced bool
}

// DeleteShift removes a shift by id from the target week. Unknown ids are a
// no-op.
func DeleteShift(
	ctx context.Context,
	store ScheduleStore,
	logger *zap.Logger,
	weekRef string,
	shiftID string,
) (*DeleteShiftResult, error) {
	monday, err := resolveWeek(weekRef)
	if err != nil {
		return nil, err
	}
	weekID := schedule.WeekID(monday)

	logger.Debug("Deleting shift",
		zap.String("week_id", weekID),
		zap.String("shift_id", shiftID))

	week, err := store.GetWeekSchedule(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to load week schedule: %w", err)
	}

	session := schedule.NewSession(schedule.SessionConfig{
		Week:   week,
		Store:  store,
		Logger: logger,
	})

	outcome, err := session.Delete(shiftID)
	if err != nil {
		return nil, err
	}

	session.Flush()

	return &DeleteShiftResult{
		Outcome:  outcome,
		Week:     session.Week(),
		Unsynced: session.Unsynced(),
	}, nil
}
