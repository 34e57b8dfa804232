package payload

import (
	"time"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
)

// SalaryRangeRequest is used for both create and partial update; a nil field
// keeps the stored value on update.
type SalaryRangeRequest struct {
	Min        *int64  `json:"min"        validate:"omitempty,min=0"`
	Max        *int64  `json:"max"        validate:"omitempty,min=0"`
	Currency   *string `json:"currency"   validate:"omitempty,len=3,uppercase"`
	Period     *string `json:"period"     validate:"omitempty,oneof=hourly monthly yearly"`
	Negotiable *bool   `json:"negotiable"`
}

type CreateJobRequest struct {
	Title               string              `json:"title"               validate:"required,min=3,max=150"`
	Description         string              `json:"description"         validate:"required,max=10000"`
	Requirements        []string            `json:"requirements"        validate:"required,min=1,dive,required,max=500"`
	Responsibilities    []string            `json:"responsibilities"    validate:"omitempty,dive,required,max=500"`
	Benefits            []string            `json:"benefits"            validate:"omitempty,dive,required,max=500"`
	Skills              []string            `json:"skills"              validate:"omitempty,max=50,dive,required,max=60"`
	Department          string              `json:"department"          validate:"required,oneof=engineering design marketing sales product operations finance hr customer-support data legal other"`
	JobType             string              `json:"jobType"             validate:"required,oneof=full-time part-time contract internship temporary freelance"`
	WorkModel           string              `json:"workModel"           validate:"required,oneof=on-site remote hybrid"`
	ExperienceLevel     string              `json:"experienceLevel"     validate:"required,oneof=entry junior mid senior lead executive"`
	Location            string              `json:"location"            validate:"required,max=200"`
	SalaryRange         *SalaryRangeRequest `json:"salaryRange"`
	Status              string              `json:"status"              validate:"omitempty,oneof=draft active"`
	ApplicationDeadline *time.Time          `json:"applicationDeadline"`
	ExpiresAt           *time.Time          `json:"expiresAt"`
}

// UpdateJobRequest is a partial update. Absent fields are left untouched.
type UpdateJobRequest struct {
	Title               *string             `json:"title"               validate:"omitempty,min=3,max=150"`
	Description         *string             `json:"description"         validate:"omitempty,max=10000"`
	Requirements        []string            `json:"requirements"        validate:"omitempty,dive,required,max=500"`
	Responsibilities    []string            `json:"responsibilities"    validate:"omitempty,dive,required,max=500"`
	Benefits            []string            `json:"benefits"            validate:"omitempty,dive,required,max=500"`
	Skills              []string            `json:"skills"              validate:"omitempty,max=50,dive,required,max=60"`
	Department          *string             `json:"department"          validate:"omitempty,oneof=engineering design marketing sales product operations finance hr customer-support data legal other"`
	JobType             *string             `json:"jobType"             validate:"omitempty,oneof=full-time part-time contract internship temporary freelance"`
	WorkModel           *string             `json:"workModel"           validate:"omitempty,oneof=on-site remote hybrid"`
	ExperienceLevel     *string             `json:"experienceLevel"     validate:"omitempty,oneof=entry junior mid senior lead executive"`
	Location            *string             `json:"location"            validate:"omitempty,max=200"`
	SalaryRange         *SalaryRangeRequest `json:"salaryRange"`
	Status              *string             `json:"status"              validate:"omitempty,oneof=draft active paused closed expired"`
	ApplicationDeadline *time.Time          `json:"applicationDeadline"`
	ExpiresAt           *time.Time          `json:"expiresAt"`
}

type SalaryRangeResponse struct {
	Min        *int64             `json:"min,omitempty"`
	Max        *int64             `json:"max,omitempty"`
	Currency   string             `json:"currency,omitempty"`
	Period     model.SalaryPeriod `json:"period,omitempty"`
	Negotiable bool               `json:"negotiable"`
}

type CompanyResponse struct {
	Name    string `json:"name"`
	Logo    string `json:"logo,omitempty"`
	Website string `json:"website,omitempty"`
}

// JobResponse never includes the embedded applications, only their count.
type JobResponse struct {
	ID                  string                `json:"id"`
	EmployerID          string                `json:"employerId"`
	Title               string                `json:"title"`
	Description         string                `json:"description"`
	Requirements        []string              `json:"requirements"`
	Responsibilities    []string              `json:"responsibilities,omitempty"`
	Benefits            []string              `json:"benefits,omitempty"`
	Skills              []string              `json:"skills,omitempty"`
	Department          model.Department      `json:"department"`
	JobType             model.JobType         `json:"jobType"`
	WorkModel           model.WorkModel       `json:"workModel"`
	ExperienceLevel     model.ExperienceLevel `json:"experienceLevel"`
	Location            string                `json:"location"`
	SalaryRange         SalaryRangeResponse   `json:"salaryRange"`
	Company             CompanyResponse       `json:"company"`
	Status              model.JobStatus       `json:"status"`
	ApplicationDeadline *time.Time            `json:"applicationDeadline,omitempty"`
	ExpiresAt           *time.Time            `json:"expiresAt,omitempty"`
	ApplicationsCount   int                   `json:"applicationsCount"`
	Views               int64                 `json:"views"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

func NewJobResponse(j *model.Job) *JobResponse {
	return &JobResponse{
		ID:               j.UUID,
		EmployerID:       j.EmployerUUID,
		Title:            j.Title,
		Description:      j.Description,
		Requirements:     j.Requirements,
		Responsibilities: j.Responsibilities,
		Benefits:         j.Benefits,
		Skills:           j.Skills,
		Department:       j.Department,
		JobType:          j.JobType,
		WorkModel:        j.WorkModel,
		ExperienceLevel:  j.ExperienceLevel,
		Location:         j.Location,
		SalaryRange: SalaryRangeResponse{
			Min:        j.SalaryRange.Min,
			Max:        j.SalaryRange.Max,
			Currency:   j.SalaryRange.Currency,
			Period:     j.SalaryRange.Period,
			Negotiable: j.SalaryRange.Negotiable,
		},
		Company:             newCompanyResponse(j.Company),
		Status:              j.Status,
		ApplicationDeadline: j.ApplicationDeadline,
		ExpiresAt:           j.ExpiresAt,
		ApplicationsCount:   len(j.Applications),
		Views:               j.Views,
		CreatedAt:           j.CreatedAt,
		UpdatedAt:           j.UpdatedAt,
	}
}

func NewJobResponses(jobs []*model.Job) []*JobResponse {
	resp := make([]*JobResponse, 0, len(jobs))
	for _, j := range jobs {
		resp = append(resp, NewJobResponse(j))
	}
	return resp
}

// JobSummaryResponse is the public view shown on the apply page.
type JobSummaryResponse struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	Company               CompanyResponse  `json:"company"`
	Location              string           `json:"location"`
	JobType               model.JobType    `json:"jobType"`
	WorkModel             model.WorkModel  `json:"workModel"`
	Department            model.Department `json:"department"`
	Status                model.JobStatus  `json:"status"`
	ApplicationDeadline   *time.Time       `json:"applicationDeadline,omitempty"`
	AcceptingApplications bool             `json:"acceptingApplications"`
}

func NewJobSummaryResponse(j *model.Job, now time.Time) *JobSummaryResponse {
	return &JobSummaryResponse{
		ID:                    j.UUID,
		Title:                 j.Title,
		Company:               newCompanyResponse(j.Company),
		Location:              j.Location,
		JobType:               j.JobType,
		WorkModel:             j.WorkModel,
		Department:            j.Department,
		Status:                j.Status,
		ApplicationDeadline:   j.ApplicationDeadline,
		AcceptingApplications: j.AcceptingApplications(now) && !j.DeadlinePassed(now),
	}
}

type ListJobsResponse struct {
	Jobs  []*JobResponse `json:"jobs"`
	Total int64          `json:"total"`
}

func newCompanyResponse(c model.Company) CompanyResponse {
	return CompanyResponse{Name: c.Name, Logo: c.Logo, Website: c.Website}
}

type JobEnvelope struct {
	Job *JobResponse `json:"job"`
}

type JobSummaryEnvelope struct {
	Job *JobSummaryResponse `json:"job"`
}

// ListJobsQuery is parsed from the query string of GET /jobs.
type ListJobsQuery struct {
	Employer        string `json:"employer"        validate:"omitempty,max=64"`
	Status          string `json:"status"          validate:"omitempty,oneof=draft active paused closed expired"`
	Search          string `json:"search"          validate:"omitempty,max=200"`
	Department      string `json:"department"      validate:"omitempty,oneof=engineering design marketing sales product operations finance hr customer-support data legal other"`
	JobType         string `json:"jobType"         validate:"omitempty,oneof=full-time part-time contract internship temporary freelance"`
	WorkModel       string `json:"workModel"       validate:"omitempty,oneof=on-site remote hybrid"`
	ExperienceLevel string `json:"experienceLevel" validate:"omitempty,oneof=entry junior mid senior lead executive"`
	Location        string `json:"location"        validate:"omitempty,max=200"`
	Limit           uint64 `json:"limit"           validate:"max=100"`
	Offset          uint64 `json:"offset"`
}
