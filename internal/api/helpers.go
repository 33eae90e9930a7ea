package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/entity"
)

const errInternalText = "Something went wrong. Please try again."

type ResponseError struct {
	Message           string `json:"message"`
	RetryAfterMinutes int    `json:"retry_after_minutes,omitempty"`
}

func sendErr(ctx context.Context, w http.ResponseWriter, code int, err error, msg string) {
	slog.ErrorContext(ctx, msg, "error", err.Error(), "http_code", code)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	resp := ResponseError{Message: msg}

	var rateErr *entity.RateLimitedError
	if errors.As(err, &rateErr) {
		resp.RetryAfterMinutes = rateErr.RetryAfterMinutes
	}

	encErr := json.NewEncoder(w).Encode(resp)
	if encErr != nil {
		slog.ErrorContext(ctx, "failed to encode error response",
			"error", encErr.Error(),
			"http_code", http.StatusInternalServerError)
	}
}

func sendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
		return
	}
}

// httpStatus maps a service error to the response status and the message
// shown to the client. Provider failures are translated so raw upstream
// detail never leaves the server.
func httpStatus(err error) (int, string) {
	var phoneErr *entity.PhoneValidationError
	if errors.As(err, &phoneErr) {
		return http.StatusBadRequest, phoneErr.Reason
	}

	var rateErr *entity.RateLimitedError
	if errors.As(err, &rateErr) {
		return http.StatusTooManyRequests, rateLimitText(rateErr.RetryAfterMinutes)
	}

	switch {
	case errors.Is(err, entity.ErrPhoneRequired):
		return http.StatusBadRequest, "Phone number is required."
	case errors.Is(err, entity.ErrCodeRequired):
		return http.StatusBadRequest, "Verification code is required."
	case errors.Is(err, entity.ErrOtpSessionExpired):
		return http.StatusBadRequest, "Your verification session has expired. Please request a new code."
	case errors.Is(err, entity.ErrCodeInvalid):
		return http.StatusBadRequest, "Invalid or expired code. Please try again."
	case errors.Is(err, entity.ErrEventNameRequired):
		return http.StatusBadRequest, "Event name is required."
	case errors.Is(err, entity.ErrInvalidHoleNumber):
		return http.StatusBadRequest, "Hole number must be between 1 and 9."
	case errors.Is(err, entity.ErrInvalidKudosType):
		return http.StatusBadRequest, "Invalid kudos type."
	case errors.Is(err, entity.ErrUnauthenticated),
		errors.Is(err, entity.ErrTokenInvalid),
		errors.Is(err, entity.ErrTokenExpired):
		return http.StatusUnauthorized, "Authentication required."
	case errors.Is(err, entity.ErrNotParticipant):
		return http.StatusForbidden, "You are not a participant in this event."
	case errors.Is(err, entity.ErrEventNotFound):
		return http.StatusNotFound, "Event not found."
	case errors.Is(err, entity.ErrProviderRateLimited):
		return http.StatusTooManyRequests, "Too many requests. Please try again later."
	case errors.Is(err, entity.ErrProviderNotConfigured),
		errors.Is(err, entity.ErrProviderUnauthorized),
		errors.Is(err, entity.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, "Verification service is temporarily unavailable. Please try again later."
	}

	return http.StatusInternalServerError, errInternalText
}

func rateLimitText(minutes int) string {
	if minutes <= 1 {
		return "Too many attempts. Please try again in 1 minute."
	}

	return fmt.Sprintf("Too many attempts. Please try again in %d minutes.", minutes)
}

func sendServiceErr(ctx context.Context, w http.ResponseWriter, err error) {
	code, msg := httpStatus(err)
	sendErr(ctx, w, code, err, msg)
}
