package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

// ListRoster fetches all roster users, archived ones included
func ListRoster(ctx context.Context, roster RosterProvider, logger *zap.Logger) ([]model.RosterUser, error) {
	users, err := roster.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	logger.Debug("Roster loaded", zap.Int("count", len(users)))

	return users, nil
}
