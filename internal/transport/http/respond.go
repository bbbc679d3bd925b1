package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"quizpulse-service/internal/domain"
)

type errorBody struct {
	Error           string              `json:"error"`
	Fields          []domain.FieldError `json:"fields,omitempty"`
	AlreadyAnswered bool                `json:"alreadyAnswered,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalid("body", "must be valid JSON")
	}
	return nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{Error: err.Error()}
	var status int
	var verrs domain.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrDuplicateSubmission):
		status = http.StatusConflict
		body.AlreadyAnswered = true
	case errors.As(err, &verrs):
		status = http.StatusBadRequest
		body.Fields = verrs
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrParticipantNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrBadgeNotFound),
		errors.Is(err, domain.ErrLabelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrQuestionActive):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("error", err))
		body.Error = "internal server error"
	}
	writeJSON(w, status, body)
}
