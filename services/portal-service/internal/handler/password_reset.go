package handler

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/payload"
)

const passwordResetRequested = "if an account exists for that email, a reset link has been sent"

// requestPasswordReset answers the same way whether or not the email is known.
func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if !h.bind(w, r, &req, false) {
		return
	}

	if err := h.passwordReset.RequestPasswordReset(r.Context(), req.Email); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to request password reset")
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.MessageResponse{Message: passwordResetRequested})
}

func (h *Handler) validatePasswordResetToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeMessage(w, http.StatusBadRequest, "token is required")
		return
	}

	if err := h.passwordReset.ValidatePasswordResetToken(r.Context(), token); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.MessageResponse{Message: "token is valid"})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if !h.bind(w, r, &req, false) {
		return
	}

	if err := h.passwordReset.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.MessageResponse{Message: "password has been reset"})
}
