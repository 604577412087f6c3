package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hansol-dev/leaguedesk/models"
	"github.com/hansol-dev/leaguedesk/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
	logger              *slog.Logger
}

func NewRegistrationHandler(registrationService services.RegistrationService, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		logger:              logger,
	}
}

// ListCategories handles GET /registration/categories
func (h *RegistrationHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.registrationService.ListCategories(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"categories": categories}, nil)
}

// ListGameTitles handles GET /registration/titles
func (h *RegistrationHandler) ListGameTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := h.registrationService.ListGameTitles(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"titles": titles}, nil)
}

// RegisterGame handles POST /records as a multipart form: one side of a
// fixture, with an optional photo file under "photo".
func (h *RegistrationHandler) RegisterGame(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form or file too large"))
		return
	}

	input, closeFns, err := gameInputFromForm(r, "")
	defer runCloseFns(closeFns)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.registrationService.RegisterGame(r.Context(), input)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "game registration failed", slog.Any("error", err))
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"record": entry}, nil)
}

// RegisterFixture handles POST /records/fixture: both sides of one game in
// a single multipart form, prefixed home_/away_, registered under a shared
// game id. Per-side photos go under "home_photo" and "away_photo".
func (h *RegistrationHandler) RegisterFixture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxPhotoSize)
	if err := r.ParseMultipartForm(2 * maxPhotoSize); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form or file too large"))
		return
	}

	home, homeClose, err := gameInputFromForm(r, "home_")
	defer runCloseFns(homeClose)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	away, awayClose, err := gameInputFromForm(r, "away_")
	defer runCloseFns(awayClose)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.registrationService.RegisterFixture(r.Context(), home, away)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "fixture registration failed", slog.Any("error", err))
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"records": entries}, nil)
}

// gameInputFromForm reads one side's fields from the multipart form. The
// shared fields (game_title, gametime) have no prefix even in fixture
// submissions; the per-side ones (team_id, details, side, photo) do.
func gameInputFromForm(r *http.Request, prefix string) (services.RegisterGameInput, []func(), error) {
	var input services.RegisterGameInput
	var closeFns []func()

	input.GameID = r.FormValue("game_id")
	input.GameTitle = r.FormValue("game_title")
	input.Details = r.FormValue(prefix + "details")
	input.Side = models.MatchSide(r.FormValue(prefix + "side"))

	teamIDStr := r.FormValue(prefix + "team_id")
	teamID, err := strconv.Atoi(teamIDStr)
	if err != nil {
		return input, closeFns, fmt.Errorf("invalid %steam_id: %q", prefix, teamIDStr)
	}
	input.TeamID = teamID

	if raw := r.FormValue("gametime"); raw != "" {
		t, err := services.ParseGameTime(raw)
		if err != nil {
			return input, closeFns, err
		}
		input.GameTime = t
	}

	file, header, err := r.FormFile(prefix + "photo")
	switch {
	case err == nil:
		closeFns = append(closeFns, func() { file.Close() })
		input.Photo = &services.PhotoUpload{
			ContentType: header.Header.Get("Content-Type"),
			Data:        file,
		}
	case errors.Is(err, http.ErrMissingFile):
		// No photo for this side.
	default:
		return input, closeFns, fmt.Errorf("failed to read %sphoto: %w", prefix, err)
	}

	return input, closeFns, nil
}

func runCloseFns(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
