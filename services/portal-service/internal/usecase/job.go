package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/policy"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/repository"
)

// maxSaveAttempts bounds the read-modify-write retries on a version conflict.
const maxSaveAttempts = 3

// JobUsecase defines the job lifecycle operations.
type JobUsecase interface {
	Create(ctx context.Context, p *policy.Principal, params CreateJobParams) (*model.Job, error)

	// List shows only active, unexpired jobs, except to an employer listing
	// their own jobs, who sees every status.
	List(ctx context.Context, p *policy.Principal, params ListJobsParams) ([]*model.Job, int64, error)

	// Get returns a job and counts the view. Drafts are visible to their owner only.
	Get(ctx context.Context, p *policy.Principal, jobID string) (*model.Job, error)

	// PublicSummary returns a job without counting a view.
	PublicSummary(ctx context.Context, jobID string) (*model.Job, error)

	Update(ctx context.Context, p *policy.Principal, jobID string, params UpdateJobParams) (*model.Job, error)
	Delete(ctx context.Context, p *policy.Principal, jobID string) error

	// ExpireJobs moves active and paused jobs past their expiry to expired.
	ExpireJobs(ctx context.Context) (int64, error)
}

// CreateJobParams defines the parameters for posting a job.
type CreateJobParams struct {
	Title               string
	Description         string
	Requirements        []string
	Responsibilities    []string
	Benefits            []string
	Skills              []string
	Department          model.Department
	JobType             model.JobType
	WorkModel           model.WorkModel
	ExperienceLevel     model.ExperienceLevel
	Location            string
	SalaryRange         model.SalaryRange
	Status              model.JobStatus
	ApplicationDeadline *time.Time
	ExpiresAt           *time.Time
}

// ListJobsParams defines the filters accepted by List. EmployerID is a public
// user id and only narrows the query.
type ListJobsParams struct {
	EmployerID      string
	Status          *model.JobStatus
	Search          string
	Department      *model.Department
	JobType         *model.JobType
	WorkModel       *model.WorkModel
	ExperienceLevel *model.ExperienceLevel
	Location        string
	Limit           uint64
	Offset          uint64
}

// UpdateJobParams defines the optional fields of a job update.
// Only the fields that are not nil will be updated.
type UpdateJobParams struct {
	Title               *string
	Description         *string
	Requirements        []string
	Responsibilities    []string
	Benefits            []string
	Skills              []string
	Department          *model.Department
	JobType             *model.JobType
	WorkModel           *model.WorkModel
	ExperienceLevel     *model.ExperienceLevel
	Location            *string
	SalaryRange         *SalaryRangePatch
	Status              *model.JobStatus
	ApplicationDeadline *time.Time
	ExpiresAt           *time.Time
}

// SalaryRangePatch is merged field by field into the stored salary range.
type SalaryRangePatch struct {
	Min        *int64
	Max        *int64
	Currency   *string
	Period     *model.SalaryPeriod
	Negotiable *bool
}

const maxListLimit = 100

type jobUsecase struct {
	jobRepo  repository.JobRepository
	userRepo repository.UserRepository
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewJobUsecase(
	jobRepo repository.JobRepository,
	userRepo repository.UserRepository,
	logger *zerolog.Logger,
) JobUsecase {
	return &jobUsecase{
		jobRepo:  jobRepo,
		userRepo: userRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func (u *jobUsecase) Create(ctx context.Context, p *policy.Principal, params CreateJobParams) (*model.Job, error) {
	if err := policy.CanPerform(p, policy.ActionCreateJob, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	if params.SalaryRange.Inverted() {
		return nil, newValidationError("salaryRange", "min must not be greater than max")
	}

	status := params.Status
	if status == "" {
		status = model.JobStatusActive
	}
	if status != model.JobStatusActive && status != model.JobStatusDraft {
		return nil, newValidationError("status", "a new job must be draft or active")
	}

	employer, err := u.userRepo.GetUserByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := u.now()
	expiresAt := now.Add(model.DefaultJobLifetime)
	if params.ExpiresAt != nil {
		if !params.ExpiresAt.After(now) {
			return nil, newValidationError("expiresAt", "must be in the future")
		}
		expiresAt = *params.ExpiresAt
	}

	job, err := u.jobRepo.CreateJob(ctx, &model.Job{
		UUID:                uuid.NewString(),
		Employer:            employer.ID,
		EmployerUUID:        employer.UUID,
		Title:               strings.TrimSpace(params.Title),
		Description:         params.Description,
		Requirements:        params.Requirements,
		Responsibilities:    params.Responsibilities,
		Benefits:            params.Benefits,
		Skills:              params.Skills,
		Department:          params.Department,
		JobType:             params.JobType,
		WorkModel:           params.WorkModel,
		ExperienceLevel:     params.ExperienceLevel,
		Location:            params.Location,
		SalaryRange:         params.SalaryRange,
		Company:             companySnapshot(employer),
		Status:              status,
		ApplicationDeadline: params.ApplicationDeadline,
		ExpiresAt:           &expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	u.logger.Info().Str("job", job.UUID).Str("employer", employer.UUID).Msg("job created")

	return job, nil
}

func (u *jobUsecase) List(ctx context.Context, p *policy.Principal, params ListJobsParams) ([]*model.Job, int64, error) {
	limit := params.Limit
	if limit == 0 || limit > maxListLimit {
		limit = 20
	}

	filter := repository.FilterJobsParams{
		Search:          strings.TrimSpace(params.Search),
		Department:      params.Department,
		JobType:         params.JobType,
		WorkModel:       params.WorkModel,
		ExperienceLevel: params.ExperienceLevel,
		Location:        strings.TrimSpace(params.Location),
		Limit:           limit,
		Offset:          params.Offset,
		SortDesc:        true,
		Now:             u.now(),
	}

	ownListing := params.EmployerID != "" &&
		p != nil && p.Role == model.RoleEmployer && p.UUID == params.EmployerID

	switch {
	case ownListing:
		filter.Employer = &p.ID
		if params.Status != nil {
			filter.Statuses = []model.JobStatus{*params.Status}
		}
	case params.EmployerID != "":
		employer, err := u.userRepo.GetUserByUUID(ctx, params.EmployerID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return []*model.Job{}, 0, nil
			}
			return nil, 0, err
		}
		filter.Employer = &employer.ID
		fallthrough
	default:
		filter.Statuses = []model.JobStatus{model.JobStatusActive}
		filter.HideExpired = true
	}

	jobs, total, err := u.jobRepo.ListJobs(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}

	return jobs, total, nil
}

func (u *jobUsecase) Get(ctx context.Context, p *policy.Principal, jobID string) (*model.Job, error) {
	job, err := u.load(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status == model.JobStatusDraft && (p == nil || p.ID != job.Employer) {
		return nil, ErrJobNotFound
	}

	if err := u.jobRepo.IncrementViews(ctx, job.UUID); err != nil {
		u.logger.Warn().Err(err).Str("job", job.UUID).Msg("failed to count job view")
	} else {
		job.Views++
	}

	return job, nil
}

func (u *jobUsecase) PublicSummary(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := u.load(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status == model.JobStatusDraft {
		return nil, ErrJobNotFound
	}

	return job, nil
}

func (u *jobUsecase) Update(
	ctx context.Context,
	p *policy.Principal,
	jobID string,
	params UpdateJobParams,
) (*model.Job, error) {
	return mutateJob(ctx, u.jobRepo, jobID, func(job *model.Job) (bool, error) {
		if err := policy.CanPerform(p, policy.ActionUpdateJob, policy.Resource{Job: job}).Err(); err != nil {
			return false, err
		}

		now := u.now()
		if err := applyJobUpdate(job, params, now); err != nil {
			return false, err
		}

		return true, nil
	})
}

func (u *jobUsecase) Delete(ctx context.Context, p *policy.Principal, jobID string) error {
	job, err := u.load(ctx, jobID)
	if err != nil {
		return err
	}

	if err := policy.CanPerform(p, policy.ActionDeleteJob, policy.Resource{Job: job}).Err(); err != nil {
		return err
	}

	if err := u.jobRepo.DeleteJob(ctx, job.UUID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrJobNotFound
		}
		return fmt.Errorf("delete job: %w", err)
	}

	u.logger.Info().
		Str("job", job.UUID).
		Int("applications", len(job.Applications)).
		Msg("job deleted")

	return nil
}

func (u *jobUsecase) ExpireJobs(ctx context.Context) (int64, error) {
	n, err := u.jobRepo.ExpireJobs(ctx, u.now())
	if err != nil {
		return 0, fmt.Errorf("expire jobs: %w", err)
	}

	if n > 0 {
		u.logger.Info().Int64("count", n).Msg("expired jobs")
	}

	return n, nil
}

func (u *jobUsecase) load(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := u.jobRepo.GetJobByUUID(ctx, jobID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// applyJobUpdate merges params into job, enforcing the status transition
// table and the salary range invariant on the merged result.
func applyJobUpdate(job *model.Job, params UpdateJobParams, now time.Time) error {
	if params.Title != nil {
		job.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		job.Description = *params.Description
	}
	if params.Requirements != nil {
		job.Requirements = params.Requirements
	}
	if params.Responsibilities != nil {
		job.Responsibilities = params.Responsibilities
	}
	if params.Benefits != nil {
		job.Benefits = params.Benefits
	}
	if params.Skills != nil {
		job.Skills = params.Skills
	}
	if params.Department != nil {
		job.Department = *params.Department
	}
	if params.JobType != nil {
		job.JobType = *params.JobType
	}
	if params.WorkModel != nil {
		job.WorkModel = *params.WorkModel
	}
	if params.ExperienceLevel != nil {
		job.ExperienceLevel = *params.ExperienceLevel
	}
	if params.Location != nil {
		job.Location = *params.Location
	}
	if params.ApplicationDeadline != nil {
		job.ApplicationDeadline = params.ApplicationDeadline
	}
	if params.ExpiresAt != nil {
		if !params.ExpiresAt.After(now) {
			return newValidationError("expiresAt", "must be in the future")
		}
		job.ExpiresAt = params.ExpiresAt
	}

	if s := params.SalaryRange; s != nil {
		if s.Min != nil {
			job.SalaryRange.Min = s.Min
		}
		if s.Max != nil {
			job.SalaryRange.Max = s.Max
		}
		if s.Currency != nil {
			job.SalaryRange.Currency = *s.Currency
		}
		if s.Period != nil {
			job.SalaryRange.Period = *s.Period
		}
		if s.Negotiable != nil {
			job.SalaryRange.Negotiable = *s.Negotiable
		}
	}
	if job.SalaryRange.Inverted() {
		return newValidationError("salaryRange", "min must not be greater than max")
	}

	if params.Status != nil && *params.Status != job.Status {
		from, to := job.Status, *params.Status
		if !model.IsJobTransitionAllowed(from, to) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidJobTransition, from, to)
		}
		job.Status = to

		// Reactivating a lapsed job gives it a fresh lifetime. Other edits
		// leave a passed expiry alone for the sweep to act on.
		if to == model.JobStatusActive && job.Expired(now) {
			expiresAt := now.Add(model.DefaultJobLifetime)
			job.ExpiresAt = &expiresAt
		}
	}

	return nil
}

// mutateJob runs a version-guarded read-modify-write on a job. mutate reports
// whether it changed anything; a lost race re-reads and re-runs mutate.
func mutateJob(
	ctx context.Context,
	jobRepo repository.JobRepository,
	jobID string,
	mutate func(job *model.Job) (bool, error),
) (*model.Job, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		job, err := jobRepo.GetJobByUUID(ctx, jobID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrJobNotFound
			}
			return nil, err
		}

		changed, err := mutate(job)
		if err != nil {
			return nil, err
		}
		if !changed {
			return job, nil
		}

		err = jobRepo.SaveJob(ctx, job)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save job: %w", err)
		}

		return job, nil
	}

	return nil, ErrConcurrentUpdate
}

func companySnapshot(employer *model.User) model.Company {
	if p := employer.EmployerProfile; p != nil && p.CompanyName != "" {
		return model.Company{Name: p.CompanyName, Logo: p.CompanyLogo, Website: p.CompanyWebsite}
	}
	return model.Company{Name: employer.Name}
}
