package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/internal/config"
	"github.com/mlombardi/casa-rota/pkg/core/model"
	"github.com/mlombardi/casa-rota/pkg/core/schedule"
	"github.com/mlombardi/casa-rota/pkg/core/services"
)

// ScheduleHandler serves the week view and the shift mutation endpoints
type ScheduleHandler struct {
	store  services.ScheduleStore
	roster services.RosterProvider
	cfg    *config.Config
	logger *zap.Logger
}

// NewScheduleHandler creates a schedule handler
func NewScheduleHandler(store services.ScheduleStore, roster services.RosterProvider, cfg *config.Config, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{store: store, roster: roster, cfg: cfg, logger: logger}
}

// mutationResponse is the wire shape of a mutation outcome
type mutationResponse struct {
	Outcome     schedule.OutcomeKind `json:"outcome"`
	Shift       *model.Shift         `json:"shift,omitempty"`
	Errors      []string             `json:"errors,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
	TimeWindows []string             `json:"timeWindows,omitempty"`
	ShiftCount  int                  `json:"shiftCount,omitempty"`
	Unsynced    bool                 `json:"unsynced,omitempty"`
	Week        *model.WeekSchedule  `json:"week,omitempty"`
}

func outcomeStatus(kind schedule.OutcomeKind) int {
	switch kind {
	case schedule.OutcomeApplied, schedule.OutcomeNoop:
		return http.StatusOK
	case schedule.OutcomeRejected:
		return http.StatusUnprocessableEntity
	default:
		// The mutation is suspended pending a confirmation or time choice
		return http.StatusConflict
	}
}

func writeOutcome(w http.ResponseWriter, outcome *schedule.MutationOutcome, week *model.WeekSchedule, unsynced bool) {
	writeJSON(w, outcomeStatus(outcome.Kind), mutationResponse{
		Outcome:     outcome.Kind,
		Shift:       outcome.Shift,
		Errors:      outcome.Errors,
		Warnings:    outcome.Warnings,
		TimeWindows: outcome.TimeWindows,
		ShiftCount:  outcome.ShiftCount,
		Unsynced:    unsynced,
		Week:        week,
	})
}

// GetWeek handles GET /api/weeks/{weekID}
func (h *ScheduleHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	weekID := chi.URLParam(r, "weekID")
	editMode := r.URL.Query().Get("edit") == "true"

	result, err := services.ViewWeek(r.Context(), h.store, h.roster, h.logger, weekID, editMode)
	if err != nil {
		h.logger.Warn("Failed to load week view", zap.String("week_id", weekID), zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type assignShiftBody struct {
	UserID              string `json:"userId"`
	Role                string `json:"role"`
	Day                 string `json:"day"`
	Time                string `json:"time,omitempty"`
	ConfirmCount        bool   `json:"confirmCount,omitempty"`
	AcknowledgeWarnings bool   `json:"acknowledgeWarnings,omitempty"`
}

// AssignShift handles POST /api/weeks/{weekID}/shifts
func (h *ScheduleHandler) AssignShift(w http.ResponseWriter, r *http.Request) {
	weekID := chi.URLParam(r, "weekID")

	var body assignShiftBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := services.AssignShift(r.Context(), h.store, h.roster, h.cfg, h.logger, services.AssignShiftRequest{
		UserID:              body.UserID,
		Role:                model.ShiftRole(body.Role),
		Day:                 model.Day(body.Day),
		WeekRef:             weekID,
		Time:                body.Time,
		ConfirmCount:        body.ConfirmCount,
		AcknowledgeWarnings: body.AcknowledgeWarnings,
	})
	if err != nil {
		h.logger.Warn("Assign shift failed", zap.String("week_id", weekID), zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeOutcome(w, result.Outcome, result.Week, result.Unsynced)
}

type moveShiftBody struct {
	Role                string `json:"role"`
	Day                 string `json:"day"`
	Time                string `json:"time,omitempty"`
	AcknowledgeWarnings bool   `json:"acknowledgeWarnings,omitempty"`
}

// MoveShift handles PUT /api/weeks/{weekID}/shifts/{shiftID}
func (h *ScheduleHandler) MoveShift(w http.ResponseWriter, r *http.Request) {
	weekID := chi.URLParam(r, "weekID")
	shiftID := chi.URLParam(r, "shiftID")

	var body moveShiftBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := services.MoveShift(r.Context(), h.store, h.roster, h.cfg, h.logger, services.MoveShiftRequest{
		ShiftID:             shiftID,
		Role:                model.ShiftRole(body.Role),
		Day:                 model.Day(body.Day),
		WeekRef:             weekID,
		Time:                body.Time,
		AcknowledgeWarnings: body.AcknowledgeWarnings,
	})
	if err != nil {
		h.logger.Warn("Move shift failed", zap.String("shift_id", shiftID), zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeOutcome(w, result.Outcome, result.Week, result.Unsynced)
}

// DeleteShift handles DELETE /api/weeks/{weekID}/shifts/{shiftID}
func (h *ScheduleHandler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	weekID := chi.URLParam(r, "weekID")
	shiftID := chi.URLParam(r, "shiftID")

	result, err := services.DeleteShift(r.Context(), h.store, h.logger, weekID, shiftID)
	if err != nil {
		h.logger.Warn("Delete shift failed", zap.String("shift_id", shiftID), zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeOutcome(w, result.Outcome, result.Week, result.Unsynced)
}
