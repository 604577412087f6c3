package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hansol-dev/leaguedesk/services"
)

type PlayerHandler struct {
	rosterService services.RosterService
	logger        *slog.Logger
}

func NewPlayerHandler(rosterService services.RosterService, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		rosterService: rosterService,
		logger:        logger,
	}
}

// ListPlayers handles GET /players?q=...
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")

	players, err := h.rosterService.ListPlayers(r.Context(), search)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list players", slog.Any("error", err))
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil)
}

// CreatePlayer handles POST /players
func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input services.AddPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.rosterService.AddPlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil)
}

// UpdatePlayer handles PUT /players/{playerID}
func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.rosterService.UpdatePlayer(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil)
}

// DeletePlayer handles DELETE /players/{playerID}
func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.rosterService.DeletePlayer(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "player deleted"}, nil)
}

// GetTeamDetail handles GET /teams/{teamID}/detail: the head coach line and
// roster the selection flows show once a school is picked.
func (h *PlayerHandler) GetTeamDetail(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.rosterService.FetchTeamDetail(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"detail": detail}, nil)
}
