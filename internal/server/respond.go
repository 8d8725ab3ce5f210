package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"portfolio/internal/app"
	"portfolio/internal/util"
)

const serverErrorMessage = "Server error"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusForError maps application errors to a status and a client-safe message.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrPersonalInfoNotFound):
		return http.StatusNotFound, "Personal info not found"
	case errors.Is(err, app.ErrResumeNotFound):
		return http.StatusNotFound, "Resume not found"
	case errors.Is(err, app.ErrResumeFileMissing):
		return http.StatusNotFound, "Resume file not found on disk"
	case errors.Is(err, app.ErrMediaNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, serverErrorMessage
	}
}

// writeAppError logs unexpected failures and writes the mapped error body.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusForError(err)
	if status >= http.StatusInternalServerError {
		util.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeError(w, status, msg)
}
