package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/payload"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/usecase"
	"github.com/raushkum4590/job-portal-sub000/shared/validator"
)

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	query, err := parseListJobsQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validator.Struct(query); err != nil {
		h.respondError(w, r, err)
		return
	}

	params := usecase.ListJobsParams{
		EmployerID: query.Employer,
		Search:     query.Search,
		Location:   query.Location,
		Limit:      query.Limit,
		Offset:     query.Offset,
	}
	if query.Status != "" {
		params.Status = enumPtr[model.JobStatus](query.Status)
	}
	if query.Department != "" {
		params.Department = enumPtr[model.Department](query.Department)
	}
	if query.JobType != "" {
		params.JobType = enumPtr[model.JobType](query.JobType)
	}
	if query.WorkModel != "" {
		params.WorkModel = enumPtr[model.WorkModel](query.WorkModel)
	}
	if query.ExperienceLevel != "" {
		params.ExperienceLevel = enumPtr[model.ExperienceLevel](query.ExperienceLevel)
	}

	jobs, total, err := h.jobs.List(r.Context(), principalFrom(r.Context()), params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.ListJobsResponse{
		Jobs:  payload.NewJobResponses(jobs),
		Total: total,
	})
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateJobRequest
	if !h.bind(w, r, &req, false) {
		return
	}

	params := usecase.CreateJobParams{
		Title:               req.Title,
		Description:         req.Description,
		Requirements:        req.Requirements,
		Responsibilities:    req.Responsibilities,
		Benefits:            req.Benefits,
		Skills:              req.Skills,
		Department:          model.Department(req.Department),
		JobType:             model.JobType(req.JobType),
		WorkModel:           model.WorkModel(req.WorkModel),
		ExperienceLevel:     model.ExperienceLevel(req.ExperienceLevel),
		Location:            req.Location,
		Status:              model.JobStatus(req.Status),
		ApplicationDeadline: req.ApplicationDeadline,
		ExpiresAt:           req.ExpiresAt,
	}
	if s := req.SalaryRange; s != nil {
		params.SalaryRange = model.SalaryRange{Min: s.Min, Max: s.Max}
		if s.Currency != nil {
			params.SalaryRange.Currency = *s.Currency
		}
		if s.Period != nil {
			params.SalaryRange.Period = model.SalaryPeriod(*s.Period)
		}
		if s.Negotiable != nil {
			params.SalaryRange.Negotiable = *s.Negotiable
		}
	}

	job, err := h.jobs.Create(r.Context(), principalFrom(r.Context()), params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, payload.JobEnvelope{Job: payload.NewJobResponse(job)})
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Get(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.JobEnvelope{Job: payload.NewJobResponse(job)})
}

// jobSummary backs the apply page and does not count as a view.
func (h *Handler) jobSummary(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.PublicSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.JobSummaryEnvelope{
		Job: payload.NewJobSummaryResponse(job, time.Now()),
	})
}

func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFrom(w, r)
	if !ok {
		return
	}

	var req payload.UpdateJobRequest
	if !h.bind(w, r, &req, false) {
		return
	}

	params := usecase.UpdateJobParams{
		Title:               req.Title,
		Description:         req.Description,
		Requirements:        req.Requirements,
		Responsibilities:    req.Responsibilities,
		Benefits:            req.Benefits,
		Skills:              req.Skills,
		Department:          castPtr[model.Department](req.Department),
		JobType:             castPtr[model.JobType](req.JobType),
		WorkModel:           castPtr[model.WorkModel](req.WorkModel),
		ExperienceLevel:     castPtr[model.ExperienceLevel](req.ExperienceLevel),
		Location:            req.Location,
		Status:              castPtr[model.JobStatus](req.Status),
		ApplicationDeadline: req.ApplicationDeadline,
		ExpiresAt:           req.ExpiresAt,
	}
	if s := req.SalaryRange; s != nil {
		params.SalaryRange = &usecase.SalaryRangePatch{
			Min:        s.Min,
			Max:        s.Max,
			Currency:   s.Currency,
			Period:     castPtr[model.SalaryPeriod](s.Period),
			Negotiable: s.Negotiable,
		}
	}

	job, err := h.jobs.Update(r.Context(), principalFrom(r.Context()), jobID, params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.JobEnvelope{Job: payload.NewJobResponse(job)})
}

func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFrom(w, r)
	if !ok {
		return
	}

	if err := h.jobs.Delete(r.Context(), principalFrom(r.Context()), jobID); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.MessageResponse{Message: "job deleted successfully"})
}

// jobIDFrom reads the job id from the path, falling back to the id query
// parameter used by the collection routes.
func jobIDFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = r.URL.Query().Get("id")
	}
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "job id is required")
		return "", false
	}
	return id, true
}

func parseListJobsQuery(r *http.Request) (*payload.ListJobsQuery, error) {
	q := r.URL.Query()
	query := &payload.ListJobsQuery{
		Employer:        q.Get("employer"),
		Status:          q.Get("status"),
		Search:          q.Get("search"),
		Department:      q.Get("department"),
		JobType:         q.Get("jobType"),
		WorkModel:       q.Get("workModel"),
		ExperienceLevel: q.Get("experienceLevel"),
		Location:        q.Get("location"),
	}

	fields := validator.FieldErrors{}
	for name, dst := range map[string]*uint64{"limit": &query.Limit, "offset": &query.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fields[name] = name + " must be a non-negative integer"
			continue
		}
		*dst = n
	}
	if len(fields) > 0 {
		return nil, fields
	}

	return query, nil
}

func enumPtr[T ~string](s string) *T {
	v := T(s)
	return &v
}

func castPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	return enumPtr[T](*s)
}
