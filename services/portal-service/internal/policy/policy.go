// Package policy decides whether a principal may perform an action on a job
// or application. Decisions are pure: callers load the principal and the
// resource fresh for every request and pass them in.
package policy

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRoleRequired  = errors.New("forbidden: role required")
	ErrNotOwner      = errors.New("forbidden: you do not own this job")
	ErrNotApplicant  = errors.New("forbidden: not your application")
	ErrUnknownAction = errors.New("forbidden: unknown action")
)

// Principal is the authenticated account behind a request, as currently stored.
type Principal struct {
	ID    bson.ObjectID
	UUID  string
	Email string
	Name  string
	Role  model.Role
}

type Action string

const (
	ActionCreateJob          Action = "job:create"
	ActionUpdateJob          Action = "job:update"
	ActionDeleteJob          Action = "job:delete"
	ActionListApplications   Action = "application:list"
	ActionReviewApplication  Action = "application:review"
	ActionApply              Action = "application:create"
	ActionViewApplication    Action = "application:view"
	ActionListMyApplications Action = "application:list-own"
)

// Resource is what the action targets. Job must be set for job mutations and
// reviews, Application for reading a single application.
type Resource struct {
	Job         *model.Job
	Application *model.Application
}

// Decision is the outcome of CanPerform. Reason is nil when Allowed.
type Decision struct {
	Allowed bool
	Reason  error
}

// Err returns the denial reason, or nil if the action is allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.Reason
}

var requiredRole = map[Action]model.Role{
	ActionCreateJob:          model.RoleEmployer,
	ActionUpdateJob:          model.RoleEmployer,
	ActionDeleteJob:          model.RoleEmployer,
	ActionListApplications:   model.RoleEmployer,
	ActionReviewApplication:  model.RoleEmployer,
	ActionApply:              model.RoleUser,
	ActionViewApplication:    model.RoleUser,
	ActionListMyApplications: model.RoleUser,
}

// CanPerform checks, in order: authentication, role, then ownership.
func CanPerform(p *Principal, action Action, res Resource) Decision {
	if p == nil {
		return deny(ErrUnauthorized)
	}

	role, ok := requiredRole[action]
	if !ok {
		return deny(ErrUnknownAction)
	}
	if p.Role != role {
		return deny(ErrRoleRequired)
	}

	switch action {
	case ActionUpdateJob, ActionDeleteJob, ActionListApplications, ActionReviewApplication:
		if res.Job == nil || res.Job.Employer != p.ID {
			return deny(ErrNotOwner)
		}
	case ActionViewApplication:
		if res.Application == nil || res.Application.Applicant != p.ID {
			return deny(ErrNotApplicant)
		}
	}

	return Decision{Allowed: true}
}

func deny(reason error) Decision {
	return Decision{Reason: reason}
}
