package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/payload"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/usecase"
)

// apply accepts an empty body; every application field is optional.
func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	var req payload.ApplyRequest
	if !h.bind(w, r, &req, true) {
		return
	}

	_, application, err := h.applications.Apply(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "id"), usecase.ApplyParams{
		CoverLetter:       req.CoverLetter,
		ResumeURL:         req.ResumeURL,
		PortfolioURL:      req.PortfolioURL,
		LinkedInURL:       req.LinkedInURL,
		SalaryExpectation: req.SalaryExpectation,
		Availability:      req.Availability,
		Skills:            req.Skills,
		References:        req.ToReferences(),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, payload.ApplyResponse{
		Message:     "application submitted successfully",
		Application: payload.NewApplicationResponse(application),
	})
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	res, err := h.applications.ListForJob(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := payload.JobApplicationsResponse{
		JobID:        res.Job.UUID,
		JobTitle:     res.Job.Title,
		Applications: make([]*payload.JobApplicationResponse, 0, len(res.Job.Applications)),
	}
	for i := range res.Job.Applications {
		a := &res.Job.Applications[i]
		resp.Applications = append(resp.Applications, payload.NewJobApplicationResponse(a, res.Applicants[a.Applicant]))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) updateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateApplicationStatusRequest
	if !h.bind(w, r, &req, false) {
		return
	}

	application, err := h.applications.UpdateStatus(
		r.Context(),
		principalFrom(r.Context()),
		chi.URLParam(r, "id"),
		req.ApplicationID,
		req.Status,
	)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.ApplicationStatusResponse{
		Message:     "application status updated",
		Application: payload.NewApplicationResponse(application),
	})
}

func (h *Handler) myApplications(w http.ResponseWriter, r *http.Request) {
	mine, err := h.applications.ListMine(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	now := time.Now()
	resp := payload.MyApplicationsResponse{
		Applications: make([]*payload.MyApplicationResponse, 0, len(mine.Applications)),
		Counts:       mine.Counts,
		Total:        len(mine.Applications),
	}
	for _, m := range mine.Applications {
		resp.Applications = append(resp.Applications, &payload.MyApplicationResponse{
			ApplicationResponse: payload.NewApplicationResponse(m.Application),
			Job:                 payload.NewJobSummaryResponse(m.Job, now),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
