package handler

import (
	"net/http"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/payload"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/usecase"
)

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.profiles.Me(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.UserEnvelope{User: payload.NewUserResponse(user)})
}

func (h *Handler) selectRole(w http.ResponseWriter, r *http.Request) {
	var req payload.SelectRoleRequest
	if !h.bind(w, r, &req, false) {
		return
	}

	user, err := h.profiles.SelectRole(r.Context(), principalFrom(r.Context()), model.Role(req.Role))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	// The role is picked but the account stays new until a profile is
	// completed, so the next step is always the matching profile form.
	redirectTo := "/jobseeker/complete-profile"
	if user.Role == model.RoleEmployer {
		redirectTo = "/employer/complete-profile"
	}

	writeJSON(w, http.StatusOK, payload.ProfileUpdateResponse{
		User:       payload.NewUserResponse(user),
		RedirectTo: redirectTo,
	})
}

func (h *Handler) completeEmployerProfile(w http.ResponseWriter, r *http.Request) {
	var req payload.CompleteEmployerProfileRequest
	if !h.bind(w, r, &req, false) {
		return
	}

	user, err := h.profiles.CompleteEmployerProfile(r.Context(), principalFrom(r.Context()), req.ToModel())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.writeProfileUpdate(w, user)
}

func (h *Handler) completeJobSeekerProfile(w http.ResponseWriter, r *http.Request) {
	var req payload.CompleteJobSeekerProfileRequest
	if !h.bind(w, r, &req, false) {
		return
	}

	user, err := h.profiles.CompleteJobSeekerProfile(r.Context(), principalFrom(r.Context()), req.ToModel())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.writeProfileUpdate(w, user)
}

func (h *Handler) writeProfileUpdate(w http.ResponseWriter, user *model.User) {
	writeJSON(w, http.StatusOK, payload.ProfileUpdateResponse{
		User:       payload.NewUserResponse(user),
		RedirectTo: usecase.LandingPath(user, user.IsNewUser()),
	})
}
