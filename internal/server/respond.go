package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/NivBraz/contentfilter-service/internal/filter"
	"github.com/NivBraz/contentfilter-service/internal/models"
	"github.com/NivBraz/contentfilter-service/internal/store"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	maxBodyBytes      = 1 << 20
	invalidPayloadMsg = "Invalid request payload"
	unexpectedMsg     = "An unexpected error occurred."
)

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Unable to marshal response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}

func respondWithError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	respondWithJSON(w, code, models.ErrorResponse{
		Timestamp: time.Now().Format(time.RFC3339),
		Status:    code,
		Error:     http.StatusText(code),
		Message:   msg,
		Path:      r.URL.Path,
	})
}

// respondWithFailure logs err with its full chain and answers 500. Only the context
// message of a store or filter error reaches the client.
func respondWithFailure(w http.ResponseWriter, r *http.Request, err error) {
	msg := unexpectedMsg
	var filterErr *filter.FilterError
	var storeErr *store.StoreError
	switch {
	case errors.As(err, &filterErr):
		msg = filterErr.Msg
	case errors.As(err, &storeErr):
		msg = storeErr.Msg
	}

	slog.ErrorContext(r.Context(), "Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
		"error", err)
	respondWithError(w, r, http.StatusInternalServerError, msg)
}

// decodeWordRequest reads and validates a WordRequest body. On failure it writes the
// 400 response and returns false.
func decodeWordRequest(w http.ResponseWriter, r *http.Request) (models.WordRequest, bool) {
	var req models.WordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		slog.DebugContext(r.Context(), "Invalid request payload", "path", r.URL.Path, "error", err)
		respondWithError(w, r, http.StatusBadRequest, invalidPayloadMsg)
		return req, false
	}
	if err := models.ValidateWord(req.Word); err != nil {
		respondWithError(w, r, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}
