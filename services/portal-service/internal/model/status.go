// Status graphs for jobs and applications.
//
// Job:
//
//	draft ──► active ◄──► paused
//	  │         │           │
//	  │         ├──► expired ◄┘
//	  │         │       │
//	  └─────────┴───────┴──► closed
//
// expired may be re-activated; closed is terminal.
//
// Application:
//
//	pending ──► reviewing ──► shortlisted ◄──► interview ──► hired
//	   │            │  ▲          │                │
//	   └────────────┴──┼──────────┴────────────────┴──► rejected
//	                   └──────────────────────────────────┘
//
// pending may skip straight to shortlisted or interview, shortlisted may go
// back to reviewing, and a rejected candidate may be reconsidered. hired is
// terminal. Writing the current status again is always accepted as a no-op.
package model

import "fmt"

type JobStatus string

const (
	JobStatusDraft   JobStatus = "draft"
	JobStatusActive  JobStatus = "active"
	JobStatusPaused  JobStatus = "paused"
	JobStatusClosed  JobStatus = "closed"
	JobStatusExpired JobStatus = "expired"
)

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewing   ApplicationStatus = "reviewing"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationInterview   ApplicationStatus = "interview"
	ApplicationHired       ApplicationStatus = "hired"
	ApplicationRejected    ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every application status in pipeline order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationReviewing,
	ApplicationShortlisted,
	ApplicationInterview,
	ApplicationHired,
	ApplicationRejected,
}

var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusDraft:   {JobStatusActive, JobStatusClosed},
	JobStatusActive:  {JobStatusPaused, JobStatusClosed, JobStatusExpired},
	JobStatusPaused:  {JobStatusActive, JobStatusClosed, JobStatusExpired},
	JobStatusExpired: {JobStatusActive, JobStatusClosed},
	// closed is terminal
}

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:     {ApplicationReviewing, ApplicationShortlisted, ApplicationInterview, ApplicationRejected},
	ApplicationReviewing:   {ApplicationShortlisted, ApplicationInterview, ApplicationRejected},
	ApplicationShortlisted: {ApplicationReviewing, ApplicationInterview, ApplicationHired, ApplicationRejected},
	ApplicationInterview:   {ApplicationShortlisted, ApplicationHired, ApplicationRejected},
	ApplicationRejected:    {ApplicationReviewing},
	// hired is terminal
}

// ParseJobStatus converts a raw string to a JobStatus, returning an error for
// unknown values.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case JobStatusDraft, JobStatusActive, JobStatusPaused, JobStatusClosed, JobStatusExpired:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// ParseApplicationStatus converts a raw string to an ApplicationStatus,
// returning an error for unknown values.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	for _, known := range ApplicationStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsJobTransitionAllowed returns true when moving from → to is permitted.
// Same-status writes are allowed.
func IsJobTransitionAllowed(from, to JobStatus) bool {
	if from == to {
		return true
	}
	return contains(jobTransitions[from], to)
}

// IsApplicationTransitionAllowed returns true when moving from → to is
// permitted. Same-status writes are allowed.
func IsApplicationTransitionAllowed(from, to ApplicationStatus) bool {
	if from == to {
		return true
	}
	return contains(applicationTransitions[from], to)
}

// EntersShortlist is true only on the edge into shortlisted.
func EntersShortlist(from, to ApplicationStatus) bool {
	return from != ApplicationShortlisted && to == ApplicationShortlisted
}

func contains[T comparable](list []T, v T) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
