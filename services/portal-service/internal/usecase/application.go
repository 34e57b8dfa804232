package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/event"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/policy"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/repository"
)

// ApplicationUsecase defines the application lifecycle operations. Applications
// live inside their job, so every write goes through a version-guarded job save.
type ApplicationUsecase interface {
	// Apply checks, in order: the job exists, it accepts applications, the
	// caller has not applied yet, and the deadline has not passed.
	Apply(ctx context.Context, p *policy.Principal, jobID string, params ApplyParams) (*model.Job, *model.Application, error)

	// ListForJob returns the job's applications and their applicants, keyed by
	// applicant id. Only the owning employer may call it.
	ListForJob(ctx context.Context, p *policy.Principal, jobID string) (*JobApplications, error)

	// UpdateStatus moves an application along the review pipeline. Entering
	// shortlisted emits exactly one ApplicationShortlisted event.
	UpdateStatus(ctx context.Context, p *policy.Principal, jobID, applicationID, status string) (*model.Application, error)

	// ListMine returns the caller's applications across all jobs.
	ListMine(ctx context.Context, p *policy.Principal) (*MyApplications, error)
}

// ApplyParams holds the optional fields an applicant may submit.
type ApplyParams struct {
	CoverLetter       string
	ResumeURL         string
	PortfolioURL      string
	LinkedInURL       string
	SalaryExpectation string
	Availability      string
	Skills            []string
	References        []model.Reference
}

type JobApplications struct {
	Job        *model.Job
	Applicants map[bson.ObjectID]*model.User
}

// MyApplication pairs an application with the job it was submitted to.
type MyApplication struct {
	Job         *model.Job
	Application *model.Application
}

type MyApplications struct {
	Applications []MyApplication
	Counts       map[model.ApplicationStatus]int
}

type applicationUsecase struct {
	jobRepo   repository.JobRepository
	userRepo  repository.UserRepository
	publisher event.Publisher
	logger    *zerolog.Logger
	now       func() time.Time
}

func NewApplicationUsecase(
	jobRepo repository.JobRepository,
	userRepo repository.UserRepository,
	publisher event.Publisher,
	logger *zerolog.Logger,
) ApplicationUsecase {
	return &applicationUsecase{
		jobRepo:   jobRepo,
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (u *applicationUsecase) Apply(
	ctx context.Context,
	p *policy.Principal,
	jobID string,
	params ApplyParams,
) (*model.Job, *model.Application, error) {
	if err := policy.CanPerform(p, policy.ActionApply, policy.Resource{}).Err(); err != nil {
		return nil, nil, err
	}

	var application model.Application
	job, err := mutateJob(ctx, u.jobRepo, jobID, func(job *model.Job) (bool, error) {
		now := u.now()

		if !job.AcceptingApplications(now) {
			return false, ErrJobNotAccepting
		}
		if job.FindApplication(p.ID) != nil {
			return false, ErrAlreadyApplied
		}
		if job.DeadlinePassed(now) {
			return false, ErrDeadlinePassed
		}

		application = model.Application{
			ID:                uuid.NewString(),
			Applicant:         p.ID,
			Status:            model.ApplicationPending,
			AppliedAt:         now,
			UpdatedAt:         now,
			CoverLetter:       params.CoverLetter,
			ResumeURL:         params.ResumeURL,
			PortfolioURL:      params.PortfolioURL,
			LinkedInURL:       params.LinkedInURL,
			SalaryExpectation: params.SalaryExpectation,
			Availability:      params.Availability,
			Skills:            params.Skills,
			References:        params.References,
		}
		job.Applications = append(job.Applications, application)

		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}

	u.logger.Info().Str("job", job.UUID).Str("applicant", p.UUID).Msg("application submitted")

	u.publish(ctx, event.ApplicationSubmitted{
		JobID:          job.UUID,
		ApplicantEmail: p.Email,
		ApplicantName:  p.Name,
		JobTitle:       job.Title,
		CompanyName:    job.Company.Name,
	})

	return job, &application, nil
}

func (u *applicationUsecase) ListForJob(ctx context.Context, p *policy.Principal, jobID string) (*JobApplications, error) {
	job, err := u.jobRepo.GetJobByUUID(ctx, jobID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	if err := policy.CanPerform(p, policy.ActionListApplications, policy.Resource{Job: job}).Err(); err != nil {
		return nil, err
	}

	ids := make([]bson.ObjectID, 0, len(job.Applications))
	for _, a := range job.Applications {
		ids = append(ids, a.Applicant)
	}

	applicants := make(map[bson.ObjectID]*model.User, len(ids))
	if len(ids) > 0 {
		users, err := u.userRepo.GetUsersByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load applicants: %w", err)
		}
		for _, user := range users {
			applicants[user.ID] = user
		}
	}

	return &JobApplications{Job: job, Applicants: applicants}, nil
}

func (u *applicationUsecase) UpdateStatus(
	ctx context.Context,
	p *policy.Principal,
	jobID, applicationID, status string,
) (*model.Application, error) {
	to, err := model.ParseApplicationStatus(status)
	if err != nil {
		return nil, newValidationError("status", err.Error())
	}

	var (
		updated     model.Application
		from        model.ApplicationStatus
		transitions bool
	)
	job, err := mutateJob(ctx, u.jobRepo, jobID, func(job *model.Job) (bool, error) {
		if err := policy.CanPerform(p, policy.ActionReviewApplication, policy.Resource{Job: job}).Err(); err != nil {
			return false, err
		}

		application := job.ApplicationByID(applicationID)
		if application == nil {
			return false, ErrApplicationNotFound
		}

		from = application.Status
		if from == to {
			updated = *application
			transitions = false
			return false, nil
		}
		if !model.IsApplicationTransitionAllowed(from, to) {
			return false, fmt.Errorf("%w: %s to %s", ErrInvalidAppTransition, from, to)
		}

		now := u.now()
		application.Status = to
		application.UpdatedAt = now
		application.StatusHistory = append(application.StatusHistory, model.StatusChange{
			From: from,
			To:   to,
			At:   now,
		})
		updated = *application
		transitions = true

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if !transitions {
		return &updated, nil
	}

	u.logger.Info().
		Str("job", job.UUID).
		Str("application", updated.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("application status changed")

	if model.EntersShortlist(from, to) {
		u.notifyShortlisted(ctx, job, &updated)
	}

	return &updated, nil
}

func (u *applicationUsecase) ListMine(ctx context.Context, p *policy.Principal) (*MyApplications, error) {
	if err := policy.CanPerform(p, policy.ActionListMyApplications, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	jobs, err := u.jobRepo.ListJobsByApplicant(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	counts := make(map[model.ApplicationStatus]int, len(model.ApplicationStatuses))
	for _, s := range model.ApplicationStatuses {
		counts[s] = 0
	}

	mine := make([]MyApplication, 0, len(jobs))
	for _, job := range jobs {
		application := job.FindApplication(p.ID)
		if application == nil {
			continue
		}
		counts[application.Status]++
		mine = append(mine, MyApplication{Job: job, Application: application})
	}

	sort.SliceStable(mine, func(a, b int) bool {
		return mine[a].Application.AppliedAt.After(mine[b].Application.AppliedAt)
	})

	return &MyApplications{Applications: mine, Counts: counts}, nil
}

func (u *applicationUsecase) notifyShortlisted(ctx context.Context, job *model.Job, application *model.Application) {
	applicant, err := u.userRepo.GetUserByID(ctx, application.Applicant)
	if err != nil {
		u.logger.Warn().
			Err(err).
			Str("application", application.ID).
			Msg("failed to load applicant for shortlist notification")
		return
	}

	u.publish(ctx, event.ApplicationShortlisted{
		JobID:          job.UUID,
		ApplicantEmail: applicant.Email,
		ApplicantName:  applicant.Name,
		JobTitle:       job.Title,
		CompanyName:    job.Company.Name,
	})
}

func (u *applicationUsecase) publish(ctx context.Context, e event.Event) {
	if err := u.publisher.Publish(ctx, e); err != nil {
		u.logger.Warn().Err(err).Str("event", string(e.EventType())).Msg("failed to publish event")
	}
}
