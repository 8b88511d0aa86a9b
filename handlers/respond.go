package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcards-web/api"
	"github.com/andrewpaige1/flashcards-web/capture"
	"github.com/andrewpaige1/flashcards-web/preview"
	"github.com/andrewpaige1/flashcards-web/review"
	"github.com/andrewpaige1/flashcards-web/study"
	"github.com/andrewpaige1/flashcards-web/utils"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// writeError maps err to a response. Missing preview state becomes a
// redirect to the capture page; everything else is a JSON message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var redirect *review.RedirectError
	if errors.As(err, &redirect) {
		http.Redirect(w, r, redirect.To, http.StatusSeeOther)
		return
	}
	if errors.Is(err, preview.ErrNoPreview) {
		http.Redirect(w, r, review.CaptureEntryPath, http.StatusSeeOther)
		return
	}

	status := statusFor(err)
	fields := []zap.Field{zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err)}
	if subject, ok := utils.GetSubject(r); ok {
		fields = append(fields, zap.String("user", subject))
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error(op+": request failed", fields...)
	} else {
		h.Logger.Info(op+": request rejected", fields...)
	}

	msg := err.Error()
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	writeMessage(w, status, msg)
}

func statusFor(err error) int {
	var validation *capture.ValidationError
	var maxBytes *http.MaxBytesError
	var apiErr *api.Error

	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation),
		errors.Is(err, http.ErrNotMultipart),
		errors.Is(err, capture.ErrModeLocked),
		errors.Is(err, capture.ErrNothingToSubmit),
		errors.Is(err, capture.ErrNeedsTranscription),
		errors.Is(err, preview.ErrEmptyFeedback),
		errors.Is(err, api.ErrNoInput),
		errors.Is(err, api.ErrAmbiguousInput),
		errors.Is(err, study.ErrUnknownAnswer):
		return http.StatusBadRequest
	case errors.Is(err, review.ErrInFlight),
		errors.Is(err, review.ErrNotReady),
		errors.Is(err, preview.ErrPreviewChanged),
		errors.Is(err, study.ErrInFlight),
		errors.Is(err, study.ErrNotStudying),
		errors.Is(err, study.ErrNotFlipped):
		return http.StatusConflict
	case errors.Is(err, api.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.Is(err, api.ErrEmptyResponse),
		errors.Is(err, api.ErrMalformedResponse),
		errors.Is(err, preview.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
