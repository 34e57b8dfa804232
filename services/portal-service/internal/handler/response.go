package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/hlog"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/policy"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/usecase"
	"github.com/raushkum4590/job-portal-sub000/shared/validator"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

var errInvalidBody = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a JSON body into dst. An empty body is accepted when
// allowEmpty is set and leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidBody
	}
	return nil
}

// bind decodes and validates a request body, answering the request itself on
// failure. It reports whether the handler should continue.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	if err := decodeJSON(w, r, dst, allowEmpty); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.respondError(w, r, err)
		return false
	}
	return true
}

// respondError translates usecase and policy errors to HTTP responses.
// Anything unrecognized is logged, reported, and hidden from the caller.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr   *usecase.ValidationError
		fields validator.FieldErrors
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.As(err, &fields):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})

	case errors.Is(err, policy.ErrUnauthorized),
		errors.Is(err, usecase.ErrInvalidSession):
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrGoogleSignInFailed),
		errors.Is(err, usecase.ErrGoogleAccountInUse),
		errors.Is(err, usecase.ErrTokenExpired),
		errors.Is(err, usecase.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, policy.ErrRoleRequired),
		errors.Is(err, policy.ErrNotOwner),
		errors.Is(err, policy.ErrNotApplicant),
		errors.Is(err, policy.ErrUnknownAction):
		writeMessage(w, http.StatusForbidden, err.Error())

	case errors.Is(err, usecase.ErrJobNotFound),
		errors.Is(err, usecase.ErrApplicationNotFound),
		errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrTokenNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())

	case errors.Is(err, usecase.ErrAlreadyApplied),
		errors.Is(err, usecase.ErrJobNotAccepting),
		errors.Is(err, usecase.ErrDeadlinePassed),
		errors.Is(err, usecase.ErrInvalidJobTransition),
		errors.Is(err, usecase.ErrInvalidAppTransition),
		errors.Is(err, usecase.ErrProfileAlreadyCompleted),
		errors.Is(err, usecase.ErrRoleAlreadySelected),
		errors.Is(err, usecase.ErrUserAlreadyExists),
		errors.Is(err, usecase.ErrTokenAlreadyUsed),
		errors.Is(err, usecase.ErrGoogleDisabled):
		writeMessage(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, usecase.ErrConcurrentUpdate):
		writeMessage(w, http.StatusConflict, err.Error())

	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
		writeMessage(w, http.StatusInternalServerError, "something went wrong")
	}
}
