package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/db"
)

// GetWeekSchedule loads the week document for the given id. A week with no
// stored document yields the default empty schedule, not an error.
func (d *DB) GetWeekSchedule(ctx context.Context, weekID string) (*model.WeekSchedule, error) {
	var (
		week      model.WeekSchedule
		rawShifts []byte
	)

	err := d.pool.QueryRow(ctx, `
		SELECT id, start_date::text, end_date::text, shifts
		FROM week_schedule
		WHERE id = $1
	`, weekID).Scan(&week.ID, &week.StartDate, &week.EndDate, &rawShifts)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.DefaultWeekSchedule(weekID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query week schedule %s: %w", weekID, err)
	}

	if err := json.Unmarshal(rawShifts, &week.Shifts); err != nil {
		return nil, fmt.Errorf("failed to decode shifts for week %s: %w", weekID, err)
	}
	if week.Shifts == nil {
		week.Shifts = []model.Shift{}
	}

	return &week, nil
}

// SaveWeekSchedule upserts the whole week document. The shifts array is
// replaced in full on every save, so concurrent editors of the same week
// resolve to last write wins.
func (d *DB) SaveWeekSchedule(ctx context.Context, weekID string, week *model.WeekSchedule) error {
	rawShifts, err := json.Marshal(week.Shifts)
	if err != nil {
		return fmt.Errorf("failed to encode shifts for week %s: %w", weekID, err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO week_schedule (id, start_date, end_date, shifts, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET start_date = EXCLUDED.start_date,
		    end_date = EXCLUDED.end_date,
		    shifts = EXCLUDED.shifts,
		    updated_at = NOW()
	`, weekID, week.StartDate, week.EndDate, rawShifts)
	if err != nil {
		return fmt.Errorf("failed to save week schedule %s: %w", weekID, err)
	}

	return nil
}
