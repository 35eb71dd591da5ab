package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/internal/config"
	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/db"
)

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

func newTestRouter(store *fakeStore, roster *fakeRoster) http.Handler {
	scheduleHandler := NewScheduleHandler(store, roster, &config.Config{}, zap.NewNop())
	rosterHandler := NewRosterHandler(roster, zap.NewNop())

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Get("/roster", rosterHandler.GetRoster)
		r.Get("/weeks/{weekID}", scheduleHandler.GetWeek)
		r.Post("/weeks/{weekID}/shifts", scheduleHandler.AssignShift)
		r.Put("/weeks/{weekID}/shifts/{shiftID}", scheduleHandler.MoveShift)
		r.Delete("/weeks/{weekID}/shifts/{shiftID}", scheduleHandler.DeleteShift)
	})
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func rosterVolunteer(id string) model.RosterUser {
	return model.RosterUser{ID: id, Name: "Vol " + id, Role: model.UserVolunteer, ShowInSchedule: true}
}

func TestGetWeek_EmptyWeek(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeRoster{})

	rec := doRequest(t, router, http.MethodGet, "/api/weeks/2023-w42", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Week struct {
			ID     string        `json:"id"`
			Shifts []model.Shift `json:"shifts"`
		} `json:"week"`
		PrevWeekID string `json:"prevWeekId"`
		NextWeekID string `json:"nextWeekId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2023-w42", body.Week.ID)
	assert.Empty(t, body.Week.Shifts)
	assert.Equal(t, "2023-w41", body.PrevWeekID)
	assert.Equal(t, "2023-w43", body.NextWeekID)
}

func TestGetWeek_InvalidWeekID(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeRoster{})

	rec := doRequest(t, router, http.MethodGet, "/api/weeks/not-a-week", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignShift_Applied(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(store, &fakeRoster{users: []model.RosterUser{rosterVolunteer("v1")}})

	rec := doRequest(t, router, http.MethodPost, "/api/weeks/2023-w42/shifts",
		`{"userId":"v1","role":"Breakfast","day":"Mon"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body mutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "applied", string(body.Outcome))
	require.NotNil(t, body.Shift)
	assert.Equal(t, "06:55 - 12:00", body.Shift.Time)
	assert.False(t, body.Unsynced)

	assert.Len(t, store.weeks["2023-w42"].Shifts, 1)
}

func TestAssignShift_FlexibleRoleConflicts(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeRoster{users: []model.RosterUser{rosterVolunteer("v1")}})

	rec := doRequest(t, router, http.MethodPost, "/api/weeks/2023-w42/shifts",
		`{"userId":"v1","role":"Bar","day":"Tue"}`)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body mutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "needs_time_choice", string(body.Outcome))
	assert.Equal(t, []string{"15:30 - 21:00", "17:00 - 22:30"}, body.TimeWindows)
}

func TestAssignShift_DoubleBookingUnprocessable(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(store, &fakeRoster{users: []model.RosterUser{rosterVolunteer("v1")}})

	rec := doRequest(t, router, http.MethodPost, "/api/weeks/2023-w42/shifts",
		`{"userId":"v1","role":"Breakfast","day":"Mon"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/weeks/2023-w42/shifts",
		`{"userId":"v1","role":"Cleaning","day":"Mon"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body mutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rejected", string(body.Outcome))
	assert.NotEmpty(t, body.Errors)
}

func TestAssignShift_InvalidBody(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeRoster{})

	rec := doRequest(t, router, http.MethodPost, "/api/weeks/2023-w42/shifts", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoveShift_Applied(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(store, &fakeRoster{users: []model.RosterUser{rosterVolunteer("v1")}})

	rec := doRequest(t, router, http.MethodPost, "/api/weeks/2023-w42/shifts",
		`{"userId":"v1","role":"Breakfast","day":"Mon"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created mutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(t, router, http.MethodPut, "/api/weeks/2023-w42/shifts/"+created.Shift.ID,
		`{"role":"Cleaning","day":"Thu"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body mutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "applied", string(body.Outcome))
	assert.Equal(t, model.Thu, body.Shift.Day)
}

func TestDeleteShift_UnknownIsNoop(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeRoster{})

	rec := doRequest(t, router, http.MethodDelete, "/api/weeks/2023-w42/shifts/ghost", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body mutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "noop", string(body.Outcome))
}

func TestGetRoster(t *testing.T) {
	roster := &fakeRoster{users: []model.RosterUser{rosterVolunteer("v1"), rosterVolunteer("v2")}}
	router := newTestRouter(newFakeStore(), roster)

	rec := doRequest(t, router, http.MethodGet, "/api/roster", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var users []model.RosterUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}
