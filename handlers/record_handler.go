package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hansol-dev/leaguedesk/services"
)

// maxPhotoSize caps photo uploads at 10MiB.
const maxPhotoSize = 10 << 20

type RecordHandler struct {
	recordService services.RecordService
	logger        *slog.Logger
}

func NewRecordHandler(recordService services.RecordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		logger:        logger,
	}
}

// ListRecords handles GET /records?q=...
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")

	rows, err := h.recordService.ListRows(r.Context(), search)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list records", slog.Any("error", err))
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"records": rows}, nil)
}

// SaveCell handles PATCH /records/{recordID} with a single {field, value}
// pair. The edit is routed to the entity that owns the field, which for
// team-owned columns is the joined team, not the record itself.
func (h *RecordHandler) SaveCell(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "recordID")
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

	if err := h.recordService.SaveCell(r.Context(), id, input.Field, input.Value); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "record updated"}, nil)
}

// AttachPhoto handles POST /records/{recordID}/photo with a multipart form
// carrying the file under "photo". Replaces any existing photo.
func (h *RecordHandler) AttachPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "recordID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form or file too large"))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing photo file"))
		return
	}
	defer file.Close()

	url, err := h.recordService.AttachPhoto(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "photo attach failed",
			slog.Int("record_id", id), slog.Any("error", err))
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"photo": url}, nil)
}

// DeleteRecord handles DELETE /records/{recordID}
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "recordID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.recordService.DeleteEntry(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "record deleted"}, nil)
}
