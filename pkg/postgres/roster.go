package postgres

import (
	"context"
	"fmt"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

// GetUsers retrieves all roster users
func (d *DB) GetUsers(ctx context.Context) ([]model.RosterUser, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, role, main_shift, archived, show_in_schedule
		FROM roster_user
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster users: %w", err)
	}
	defer rows.Close()

	var users []model.RosterUser
	for rows.Next() {
		var (
			u         model.RosterUser
			mainShift *string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &mainShift, &u.Archived, &u.ShowInSchedule); err != nil {
			return nil, fmt.Errorf("failed to scan roster user: %w", err)
		}
		if mainShift != nil {
			u.MainShift = model.ShiftRole(*mainShift)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster users: %w", err)
	}

	return users, nil
}
