package payload

import (
	"time"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
)

type ReferenceRequest struct {
	Name         string `json:"name"         validate:"required,max=100"`
	Email        string `json:"email"        validate:"omitempty,email"`
	Phone        string `json:"phone"        validate:"omitempty,max=30"`
	Relationship string `json:"relationship" validate:"omitempty,max=100"`
}

type ApplyRequest struct {
	CoverLetter       string             `json:"coverLetter"       validate:"omitempty,max=5000"`
	ResumeURL         string             `json:"resumeUrl"         validate:"omitempty,url"`
	PortfolioURL      string             `json:"portfolioUrl"      validate:"omitempty,url"`
	LinkedInURL       string             `json:"linkedinUrl"       validate:"omitempty,url"`
	SalaryExpectation string             `json:"salaryExpectation" validate:"omitempty,max=100"`
	Availability      string             `json:"availability"      validate:"omitempty,max=100"`
	Skills            []string           `json:"skills"            validate:"omitempty,max=50,dive,required,max=60"`
	References        []ReferenceRequest `json:"references"        validate:"omitempty,max=5,dive"`
}

func (r ApplyRequest) ToReferences() []model.Reference {
	refs := make([]model.Reference, 0, len(r.References))
	for _, ref := range r.References {
		refs = append(refs, model.Reference{
			Name:         ref.Name,
			Email:        ref.Email,
			Phone:        ref.Phone,
			Relationship: ref.Relationship,
		})
	}
	return refs
}

// UpdateApplicationStatusRequest is checked against the status allow-list by
// the usecase, not here, so unknown values get a specific message.
type UpdateApplicationStatusRequest struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	Status        string `json:"status"        validate:"required"`
}

type StatusChangeResponse struct {
	From model.ApplicationStatus `json:"from"`
	To   model.ApplicationStatus `json:"to"`
	At   time.Time               `json:"at"`
}

type ApplicationResponse struct {
	ID                string                  `json:"id"`
	Status            model.ApplicationStatus `json:"status"`
	AppliedAt         time.Time               `json:"appliedAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
	CoverLetter       string                  `json:"coverLetter,omitempty"`
	ResumeURL         string                  `json:"resumeUrl,omitempty"`
	PortfolioURL      string                  `json:"portfolioUrl,omitempty"`
	LinkedInURL       string                  `json:"linkedinUrl,omitempty"`
	SalaryExpectation string                  `json:"salaryExpectation,omitempty"`
	Availability      string                  `json:"availability,omitempty"`
	Skills            []string                `json:"skills,omitempty"`
	References        []ReferenceRequest      `json:"references,omitempty"`
	StatusHistory     []StatusChangeResponse  `json:"statusHistory,omitempty"`
}

func NewApplicationResponse(a *model.Application) *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:                a.ID,
		Status:            a.Status,
		AppliedAt:         a.AppliedAt,
		UpdatedAt:         a.UpdatedAt,
		CoverLetter:       a.CoverLetter,
		ResumeURL:         a.ResumeURL,
		PortfolioURL:      a.PortfolioURL,
		LinkedInURL:       a.LinkedInURL,
		SalaryExpectation: a.SalaryExpectation,
		Availability:      a.Availability,
		Skills:            a.Skills,
	}
	for _, ref := range a.References {
		resp.References = append(resp.References, ReferenceRequest(ref))
	}
	for _, sc := range a.StatusHistory {
		resp.StatusHistory = append(resp.StatusHistory, StatusChangeResponse(sc))
	}
	return resp
}

// ApplicantResponse is the curated applicant projection an employer sees.
type ApplicantResponse struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	Email             string                `json:"email"`
	Image             string                `json:"image,omitempty"`
	Headline          string                `json:"headline,omitempty"`
	Location          string                `json:"location,omitempty"`
	Skills            []string              `json:"skills,omitempty"`
	ExperienceLevel   model.ExperienceLevel `json:"experienceLevel,omitempty"`
	YearsOfExperience int                   `json:"yearsOfExperience,omitempty"`
	ResumeURL         string                `json:"resumeUrl,omitempty"`
	LinkedInURL       string                `json:"linkedinUrl,omitempty"`
}

type JobApplicationResponse struct {
	*ApplicationResponse
	Applicant *ApplicantResponse `json:"applicant"`
}

// NewJobApplicationResponse pairs an application with its applicant. A nil
// user (deleted account) yields an empty applicant.
func NewJobApplicationResponse(a *model.Application, u *model.User) *JobApplicationResponse {
	resp := &JobApplicationResponse{
		ApplicationResponse: NewApplicationResponse(a),
		Applicant:           &ApplicantResponse{},
	}
	if u == nil {
		return resp
	}

	resp.Applicant.ID = u.UUID
	resp.Applicant.Name = u.Name
	resp.Applicant.Email = u.Email
	resp.Applicant.Image = u.Image
	if p := u.JobSeekerProfile; p != nil {
		resp.Applicant.Headline = p.Headline
		resp.Applicant.Location = p.Location
		resp.Applicant.Skills = p.Skills
		resp.Applicant.ExperienceLevel = p.ExperienceLevel
		resp.Applicant.YearsOfExperience = p.YearsOfExperience
		resp.Applicant.ResumeURL = p.ResumeURL
		resp.Applicant.LinkedInURL = p.LinkedInURL
	}
	return resp
}

type JobApplicationsResponse struct {
	JobID        string                    `json:"jobId"`
	JobTitle     string                    `json:"jobTitle"`
	Applications []*JobApplicationResponse `json:"applications"`
}

type ApplyResponse struct {
	Message     string               `json:"message"`
	Application *ApplicationResponse `json:"application"`
}

type MyApplicationResponse struct {
	*ApplicationResponse
	Job *JobSummaryResponse `json:"job"`
}

type MyApplicationsResponse struct {
	Applications []*MyApplicationResponse        `json:"applications"`
	Counts       map[model.ApplicationStatus]int `json:"counts"`
	Total        int                             `json:"total"`
}

type ApplicationStatusResponse struct {
	Message     string               `json:"message"`
	Application *ApplicationResponse `json:"application"`
}
