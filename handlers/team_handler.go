package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hansol-dev/leaguedesk/services"
)

type TeamHandler struct {
	teamService services.TeamService
	logger      *slog.Logger
}

func NewTeamHandler(teamService services.TeamService, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		logger:      logger,
	}
}

// ListTeams handles GET /teams?category=...&q=...
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("q")

	teams, err := h.teamService.ListTeams(r.Context(), category, search)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list teams", slog.Any("error", err))
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil)
}

// ListCategories handles GET /teams/categories
func (h *TeamHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.teamService.ListCategories(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list categories", slog.Any("error", err))
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"categories": categories}, nil)
}

// GetTeam handles GET /teams/{teamID}
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetTeamByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil)
}

// CreateTeam handles POST /teams
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.RegisterTeam(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil)
}

// UpdateTeamField handles PATCH /teams/{teamID} with a single {field, value}
// pair, the shape an inline grid edit produces.
func (h *TeamHandler) UpdateTeamField(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.UpdateTeamField(r.Context(), id, input.Field, input.Value); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "team updated"}, nil)
}

// DeleteTeam handles DELETE /teams/{teamID}
func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.DeleteTeam(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "team deleted"}, nil)
}
