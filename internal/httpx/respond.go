package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"Loadline/internal/backend"
	"Loadline/internal/page"
	"Loadline/internal/wizard"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]any{
		"error":   http.StatusText(status),
		"message": msg,
	})
}

// Fail maps a controller error to a response. Validation problems are 422
// with the offending field; failed backend stages are 502 naming the stage.
func Fail(w http.ResponseWriter, err error) {
	var ve *wizard.ValidationError
	if errors.As(err, &ve) {
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   http.StatusText(http.StatusUnprocessableEntity),
			"field":   ve.Field,
			"message": ve.Message,
		})
		return
	}

	if errors.Is(err, page.ErrNotFound) {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	if errors.Is(err, page.ErrWrongKind) {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	body := map[string]any{
		"error":   http.StatusText(http.StatusBadGateway),
		"message": err.Error(),
	}
	var stageErr *wizard.StageError
	if errors.As(err, &stageErr) {
		body["stage"] = stageErr.Stage
	}
	var se *backend.StatusError
	if errors.As(err, &se) {
		body["backend_status"] = se.Status
		if se.Status == http.StatusUnauthorized {
			body["error"] = http.StatusText(http.StatusUnauthorized)
			WriteJSON(w, http.StatusUnauthorized, body)
			return
		}
	}
	if errors.Is(err, backend.ErrNoAddress) {
		WriteError(w, http.StatusPreconditionFailed, err.Error())
		return
	}
	slog.Error("request failed", "error", err)
	WriteJSON(w, http.StatusBadGateway, body)
}

// Decode reads a JSON body into v and answers 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
