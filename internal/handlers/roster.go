package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/pkg/core/services"
)

// RosterHandler serves the roster listing
type RosterHandler struct {
	roster services.RosterProvider
	logger *zap.Logger
}

// NewRosterHandler creates a roster handler
func NewRosterHandler(roster services.RosterProvider, logger *zap.Logger) *RosterHandler {
	return &RosterHandler{roster: roster, logger: logger}
}

// GetRoster handles GET /api/roster
func (h *RosterHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	users, err := services.ListRoster(r.Context(), h.roster, h.logger)
	if err != nil {
		h.logger.Warn("Failed to load roster", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, users)
}
