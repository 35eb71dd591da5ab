// Package redisstore implements the schedule document store on Redis:
// one JSON document per week key, whole-document reads and writes.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/db"
)

const weekKeyPrefix = "week:"

// Store is a Redis-backed ScheduleStore
type Store struct {
	client *redis.Client
}

// Options configure the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewStore connects to Redis and verifies the connection
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Store{client: client}, nil
}

// Close releases the Redis client
func (s *Store) Close() error {
	return s.client.Close()
}

// GetWeekSchedule loads the week document stored under "week:<id>". A
// missing key yields the default empty schedule, never an error.
func (s *Store) GetWeekSchedule(ctx context.Context, weekID string) (*model.WeekSchedule, error) {
	raw, err := s.client.Get(ctx, weekKeyPrefix+weekID).Bytes()
	if errors.Is(err, redis.Nil) {
		return db.DefaultWeekSchedule(weekID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get week schedule %s: %w", weekID, err)
	}

	var week model.WeekSchedule
	if err := json.Unmarshal(raw, &week); err != nil {
		return nil, fmt.Errorf("failed to decode week schedule %s: %w", weekID, err)
	}
	if week.Shifts == nil {
		week.Shifts = []model.Shift{}
	}

	return &week, nil
}

// SaveWeekSchedule replaces the whole document under "week:<id>".
// Last write wins; there is no conflict detection.
func (s *Store) SaveWeekSchedule(ctx context.Context, weekID string, week *model.WeekSchedule) error {
	raw, err := json.Marshal(week)
	if err != nil {
		return fmt.Errorf("failed to encode week schedule %s: %w", weekID, err)
	}

	if err := s.client.Set(ctx, weekKeyPrefix+weekID, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save week schedule %s: %w", weekID, err)
	}

	return nil
}
