package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/internal/config"
	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/core/schedule"
	"github.com/mlombardi/casa-rota/pkg/db"
)

// fakeStore is an in-memory week-document store. Missing weeks come back as
// empty documents, matching the real backends.
type fakeStore struct {
	mu    sync.Mutex
	weeks map[string]*model.WeekSchedule
}

func newFakeStore() *fakeStore {
	return &fakeStore{weeks: make(map[string]*model.WeekSchedule)}
}

func (f *fakeStore) GetWeekSchedule(ctx context.Context, weekID string) (*model.WeekSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if week, ok := f.weeks[weekID]; ok {
		copied := *week
		copied.Shifts = append([]model.Shift(nil), week.Shifts...)
		return &copied, nil
	}
	return db.DefaultWeekSchedule(weekID)
}

func (f *fakeStore) SaveWeekSchedule(ctx context.Context, weekID string, week *model.WeekSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.weeks[weekID] = week
	return nil
}

type fakeRoster struct {
	users []model.RosterUser
}

func (f *fakeRoster) GetUsers(ctx context.Context) ([]model.RosterUser, error) {
	return f.users, nil
}

func testVolunteer(id string) model.RosterUser {
	return model.RosterUser{ID: id, Name: "Vol " + id, Role: model.UserVolunteer, ShowInSchedule: true}
}

const testWeekRef = "2023-w42"

func TestViewWeek_MissingWeekIsEmpty(t *testing.T) {
	store := newFakeStore()
	roster := &fakeRoster{users: []model.RosterUser{testVolunteer("v1")}}

	result, err := ViewWeek(context.Background(), store, roster, zap.NewNop(), testWeekRef, false)
	require.NoError(t, err)

	assert.Equal(t, testWeekRef, result.Week.ID)
	assert.Equal(t, "2023-10-16", result.Week.StartDate)
	assert.Equal(t, "2023-10-22", result.Week.EndDate)
	assert.Empty(t, result.Week.Shifts)
	assert.Empty(t, result.Rows, "no one has a shift, default mode shows nobody")
	assert.Equal(t, "2023-w41", result.PrevWeekID)
	assert.Equal(t, "2023-w43", result.NextWeekID)
}

func TestViewWeek_AcceptsDateReference(t *testing.T) {
	store := newFakeStore()
	roster := &fakeRoster{}

	result, err := ViewWeek(context.Background(), store, roster, zap.NewNop(), "2023-10-18", false)
	require.NoError(t, err)

	assert.Equal(t, testWeekRef, result.Week.ID)
}

func TestViewWeek_InvalidReference(t *testing.T) {
	store := newFakeStore()

	_, err := ViewWeek(context.Background(), store, &fakeRoster{}, zap.NewNop(), "next tuesday", false)
	assert.Error(t, err)
}

func TestAssignThenView_RoundTrip(t *testing.T) {
	store := newFakeStore()
	roster := &fakeRoster{users: []model.RosterUser{testVolunteer("v1"), testVolunteer("v2")}}
	cfg := &config.Config{}

	assignResult, err := AssignShift(context.Background(), store, roster, cfg, zap.NewNop(), AssignShiftRequest{
		UserID:  "v1",
		Role:    model.RoleBreakfast,
		Day:     model.Wed,
		WeekRef: testWeekRef,
	})
	require.NoError(t, err)
	require.Equal(t, schedule.OutcomeApplied, assignResult.Outcome.Kind)
	assert.False(t, assignResult.Unsynced)

	viewResult, err := ViewWeek(context.Background(), store, roster, zap.NewNop(), testWeekRef, false)
	require.NoError(t, err)

	require.Len(t, viewResult.Rows, 1)
	row := viewResult.Rows[0]
	assert.Equal(t, "v1", row.User.ID)
	require.Len(t, row.ShiftsByDay[model.Wed], 1)
	got := row.ShiftsByDay[model.Wed][0]
	assert.Equal(t, assignResult.Outcome.Shift.ID, got.ID)
	assert.Equal(t, model.RoleBreakfast, got.Role)
	assert.Equal(t, "06:55 - 12:00", got.Time)
}

func TestAssignShift_UnknownUser(t *testing.T) {
	store := newFakeStore()
	roster := &fakeRoster{users: []model.RosterUser{testVolunteer("v1")}}

	_, err := AssignShift(context.Background(), store, roster, &config.Config{}, zap.NewNop(), AssignShiftRequest{
		UserID:  "ghost",
		Role:    model.RoleBreakfast,
		Day:     model.Mon,
		WeekRef: testWeekRef,
	})
	assert.ErrorContains(t, err, "not found in roster")
}

func TestAssignShift_FlexibleRoleNeedsTimeAndNothingStored(t *testing.T) {
	store := newFakeStore()
	roster := &fakeRoster{users: []model.RosterUser{testVolunteer("v1")}}

	result, err := AssignShift(context.Background(), store, roster, &config.Config{}, zap.NewNop(), AssignShiftRequest{
		UserID:  "v1",
		Role:    model.RoleBar,
		Day:     model.Fri,
		WeekRef: testWeekRef,
	})
	require.NoError(t, err)

	assert.Equal(t, schedule.OutcomeNeedsTimeChoice, result.Outcome.Kind)
	assert.Empty(t, store.weeks)
}

func TestAssignShift_ClosureRuleBlocksDay(t *testing.T) {
	store := newFakeStore()
	roster := &fakeRoster{users: []model.RosterUser{testVolunteer("v1")}}
	cfg := &config.Config{Closures: []string{"FREQ=WEEKLY;BYDAY=MO"}}

	result, err := AssignShift(context.Background(), store, roster, cfg, zap.NewNop(), AssignShiftRequest{
		UserID:  "v1",
		Role:    model.RoleBreakfast,
		Day:     model.Mon,
		WeekRef: testWeekRef,
	})
	require.NoError(t, err)

	assert.Equal(t, schedule.OutcomeRejected, result.Outcome.Kind)

	// Other days of the same week are untouched by the rule
	result, err = AssignShift(context.Background(), store, roster, cfg, zap.NewNop(), AssignShiftRequest{
		UserID:  "v1",
		Role:    model.RoleBreakfast,
		Day:     model.Tue,
		WeekRef: testWeekRef,
	})
	require.NoError(t, err)
	assert.Equal(t, schedule.OutcomeApplied, result.Outcome.Kind)
}

func TestMoveShift_PersistsNewCell(t *testing.T) {
	store := newFakeStore()
	roster := &fakeRoster{users: []model.RosterUser{testVolunteer("v1")}}
	cfg := &config.Config{}

	assignResult, err := AssignShift(context.Background(), store, roster, cfg, zap.NewNop(), AssignShiftRequest{
		UserID:  "v1",
		Role:    model.RoleBreakfast,
		Day:     model.Mon,
		WeekRef: testWeekRef,
	})
	require.NoError(t, err)
	shiftID := assignResult.Outcome.Shift.ID

	moveResult, err := MoveShift(context.Background(), store, roster, cfg, zap.NewNop(), MoveShiftRequest{
		ShiftID: shiftID,
		Role:    model.RoleCleaning,
		Day:     model.Thu,
		WeekRef: testWeekRef,
	})
	require.NoError(t, err)
	require.Equal(t, schedule.OutcomeApplied, moveResult.Outcome.Kind)

	stored, err := store.GetWeekSchedule(context.Background(), testWeekRef)
	require.NoError(t, err)
	require.Len(t, stored.Shifts, 1)
	assert.Equal(t, shiftID, stored.Shifts[0].ID)
	assert.Equal(t, model.RoleCleaning, stored.Shifts[0].Role)
	assert.Equal(t, model.Thu, stored.Shifts[0].Day)
}

func TestMoveShift_SameCellDoesNotWrite(t *testing.T) {
	store := newFakeStore()
	roster := &fakeRoster{users: []model.RosterUser{testVolunteer("v1")}}
	cfg := &config.Config{}

	assignResult, err := AssignShift(context.Background(), store, roster, cfg, zap.NewNop(), AssignShiftRequest{
		UserID:  "v1",
		Role:    model.RoleBreakfast,
		Day:     model.Mon,
		WeekRef: testWeekRef,
	})
	require.NoError(t, err)

	savedBefore := store.weeks[testWeekRef]

	moveResult, err := MoveShift(context.Background(), store, roster, cfg, zap.NewNop(), MoveShiftRequest{
		ShiftID: assignResult.Outcome.Shift.ID,
		Role:    model.RoleBreakfast,
		Day:     model.Mon,
		WeekRef: testWeekRef,
	})
	require.NoError(t, err)

	assert.Equal(t, schedule.OutcomeNoop, moveResult.Outcome.Kind)
	assert.Same(t, savedBefore, store.weeks[testWeekRef], "no-op must not rewrite the document")
}

func TestDeleteShift_RemovesFromStore(t *testing.T) {
	store := newFakeStore()
	roster := &fakeRoster{users: []model.RosterUser{testVolunteer("v1")}}
	cfg := &config.Config{}

	assignResult, err := AssignShift(context.Background(), store, roster, cfg, zap.NewNop(), AssignShiftRequest{
		UserID:  "v1",
		Role:    model.RoleBreakfast,
		Day:     model.Mon,
		WeekRef: testWeekRef,
	})
	require.NoError(t, err)

	deleteResult, err := DeleteShift(context.Background(), store, zap.NewNop(), testWeekRef, assignResult.Outcome.Shift.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.OutcomeApplied, deleteResult.Outcome.Kind)

	stored, err := store.GetWeekSchedule(context.Background(), testWeekRef)
	require.NoError(t, err)
	assert.Empty(t, stored.Shifts)
}

func TestDeleteShift_UnknownIDIsNoop(t *testing.T) {
	store := newFakeStore()

	result, err := DeleteShift(context.Background(), store, zap.NewNop(), testWeekRef, "ghost")
	require.NoError(t, err)

	assert.Equal(t, schedule.OutcomeNoop, result.Outcome.Kind)
	assert.Empty(t, store.weeks)
}

func TestListRoster_IncludesArchived(t *testing.T) {
	archived := testVolunteer("v2")
	archived.Archived = true
	roster := &fakeRoster{users: []model.RosterUser{testVolunteer("v1"), archived}}

	users, err := ListRoster(context.Background(), roster, zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, users, 2)
}
