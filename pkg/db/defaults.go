package db

import (
	"fmt"

	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/core/schedule"
)

// DefaultWeekSchedule builds the empty document every backend returns for a
// week id with no stored document. Weeks are created lazily on first read.
func DefaultWeekSchedule(weekID string) (*model.WeekSchedule, error) {
	monday, err := schedule.ParseWeekID(weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive default week schedule: %w", err)
	}
	return schedule.NewWeekSchedule(monday), nil
}
