package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/event"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/policy"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/usecase"
)

type applicationFixture struct {
	*jobFixture
	publisher *recordingPublisher
	apps      usecase.ApplicationUsecase
}

func newApplicationFixture() *applicationFixture {
	jf := newJobFixture()
	f := &applicationFixture{jobFixture: jf, publisher: &recordingPublisher{}}
	f.apps = usecase.NewApplicationUsecase(jf.jobs, jf.users, f.publisher, discardLogger())
	return f
}

// ── Apply ──────────────────────────────────────────────────────────────────

func TestApply_DuplicateIsRejected(t *testing.T) {
	f := newApplicationFixture()
	f.seedJob("j", model.JobStatusActive)
	p := principalOf(f.seeker)

	_, app, err := f.apps.Apply(context.Background(), p, "j", usecase.ApplyParams{CoverLetter: "hi"})
	if err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if app.Status != model.ApplicationPending || app.ID == "" || app.Applicant != f.seeker.ID {
		t.Errorf("application = %+v", app)
	}
	if n := len(f.jobs.Get("j").Applications); n != 1 {
		t.Fatalf("applications = %d, want 1", n)
	}

	_, _, err = f.apps.Apply(context.Background(), p, "j", usecase.ApplyParams{})
	if !errors.Is(err, usecase.ErrAlreadyApplied) {
		t.Fatalf("second Apply err = %v, want ErrAlreadyApplied", err)
	}
	if n := len(f.jobs.Get("j").Applications); n != 1 {
		t.Errorf("applications = %d after duplicate, want 1", n)
	}

	submitted := f.publisher.ofType(event.TypeApplicationSubmitted)
	if len(submitted) != 1 {
		t.Fatalf("submitted events = %d, want 1", len(submitted))
	}
	want := event.ApplicationSubmitted{
		JobID:          "j",
		ApplicantEmail: f.seeker.Email,
		ApplicantName:  f.seeker.Name,
		JobTitle:       "Job j",
		CompanyName:    "Acme",
	}
	if submitted[0] != want {
		t.Errorf("event = %+v, want %+v", submitted[0], want)
	}
}

func TestApply_PreconditionOrder(t *testing.T) {
	f := newApplicationFixture()
	past := ptr(time.Now().Add(-time.Hour))

	f.seedJob("paused", model.JobStatusPaused)
	f.seedJob("paused-late", model.JobStatusPaused, func(j *model.Job) { j.ApplicationDeadline = past })
	f.seedJob("expired", model.JobStatusActive, func(j *model.Job) { j.ExpiresAt = past })
	f.seedJob("late", model.JobStatusActive, func(j *model.Job) { j.ApplicationDeadline = past })
	f.seedJob("applied-late", model.JobStatusActive, func(j *model.Job) {
		j.ApplicationDeadline = past
		j.Applications = []model.Application{{ID: "a1", Applicant: f.seeker.ID, Status: model.ApplicationPending}}
	})

	tests := []struct {
		job     string
		wantErr error
	}{
		{"missing", usecase.ErrJobNotFound},
		{"paused", usecase.ErrJobNotAccepting},
		{"paused-late", usecase.ErrJobNotAccepting},
		{"expired", usecase.ErrJobNotAccepting},
		{"late", usecase.ErrDeadlinePassed},
		{"applied-late", usecase.ErrAlreadyApplied},
	}

	for _, tt := range tests {
		t.Run(tt.job, func(t *testing.T) {
			_, _, err := f.apps.Apply(context.Background(), principalOf(f.seeker), tt.job, usecase.ApplyParams{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if n := len(f.publisher.ofType(event.TypeApplicationSubmitted)); n != 0 {
		t.Errorf("submitted events = %d, want 0", n)
	}
}

func TestApply_RoleRequired(t *testing.T) {
	f := newApplicationFixture()
	f.seedJob("j", model.JobStatusActive)

	if _, _, err := f.apps.Apply(context.Background(), nil, "j", usecase.ApplyParams{}); !errors.Is(err, policy.ErrUnauthorized) {
		t.Errorf("anonymous err = %v", err)
	}
	if _, _, err := f.apps.Apply(context.Background(), principalOf(f.employer), "j", usecase.ApplyParams{}); !errors.Is(err, policy.ErrRoleRequired) {
		t.Errorf("employer err = %v", err)
	}
}

func TestApply_ConcurrentDuplicateLosesRace(t *testing.T) {
	f := newApplicationFixture()
	f.seedJob("j", model.JobStatusActive)
	p := principalOf(f.seeker)

	// The competing Apply reads and saves between our read and our save.
	var competingErr error
	f.jobs.BeforeSave = func() {
		_, _, competingErr = f.apps.Apply(context.Background(), p, "j", usecase.ApplyParams{})
	}

	_, _, err := f.apps.Apply(context.Background(), p, "j", usecase.ApplyParams{})
	if competingErr != nil {
		t.Fatalf("competing Apply: %v", competingErr)
	}
	if !errors.Is(err, usecase.ErrAlreadyApplied) {
		t.Fatalf("err = %v, want ErrAlreadyApplied", err)
	}
	if n := len(f.jobs.Get("j").Applications); n != 1 {
		t.Errorf("applications = %d, want 1", n)
	}
}

// ── Review ─────────────────────────────────────────────────────────────────

func (f *applicationFixture) applied(t *testing.T, jobID string) *model.Application {
	t.Helper()
	f.seedJob(jobID, model.JobStatusActive)
	_, app, err := f.apps.Apply(context.Background(), principalOf(f.seeker), jobID, usecase.ApplyParams{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return app
}

func TestUpdateStatus_ShortlistEdgeNotifiesOnce(t *testing.T) {
	f := newApplicationFixture()
	app := f.applied(t, "j")
	owner := principalOf(f.employer)

	steps := []struct {
		status     string
		wantEvents int
	}{
		{"shortlisted", 1},
		{"shortlisted", 1},
		{"interview", 1},
		{"shortlisted", 2},
		{"interview", 2},
	}

	for i, step := range steps {
		updated, err := f.apps.UpdateStatus(context.Background(), owner, "j", app.ID, step.status)
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, step.status, err)
		}
		if string(updated.Status) != step.status {
			t.Errorf("step %d status = %q", i, updated.Status)
		}
		if n := len(f.publisher.ofType(event.TypeApplicationShortlisted)); n != step.wantEvents {
			t.Errorf("step %d shortlist events = %d, want %d", i, n, step.wantEvents)
		}
	}

	first := f.publisher.ofType(event.TypeApplicationShortlisted)[0].(event.ApplicationShortlisted)
	if first.ApplicantEmail != f.seeker.Email || first.JobTitle != "Job j" || first.CompanyName != "Acme" {
		t.Errorf("event = %+v", first)
	}

	stored := f.jobs.Get("j").ApplicationByID(app.ID)
	if len(stored.StatusHistory) != 4 {
		t.Errorf("history entries = %d, want 4 (no-op excluded)", len(stored.StatusHistory))
	}
}

func TestUpdateStatus_NoOpDoesNotWrite(t *testing.T) {
	f := newApplicationFixture()
	app := f.applied(t, "j")
	before := f.jobs.Get("j").Version

	if _, err := f.apps.UpdateStatus(context.Background(), principalOf(f.employer), "j", app.ID, "pending"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if after := f.jobs.Get("j").Version; after != before {
		t.Errorf("version %d -> %d, want unchanged", before, after)
	}
}

func TestUpdateStatus_Rejections(t *testing.T) {
	f := newApplicationFixture()
	app := f.applied(t, "j")
	owner := principalOf(f.employer)

	if _, err := f.apps.UpdateStatus(context.Background(), owner, "j", app.ID, "archived"); err == nil {
		t.Error("unknown status accepted")
	} else {
		var verr *usecase.ValidationError
		if !errors.As(err, &verr) || verr.Fields["status"] == "" {
			t.Errorf("unknown status err = %v, want validation error", err)
		}
	}

	if _, err := f.apps.UpdateStatus(context.Background(), owner, "j", app.ID, "hired"); !errors.Is(err, usecase.ErrInvalidAppTransition) {
		t.Errorf("pending to hired err = %v", err)
	}

	if _, err := f.apps.UpdateStatus(context.Background(), owner, "j", "nope", "reviewing"); !errors.Is(err, usecase.ErrApplicationNotFound) {
		t.Errorf("unknown application err = %v", err)
	}

	if _, err := f.apps.UpdateStatus(context.Background(), principalOf(f.rival), "j", app.ID, "shortlisted"); !errors.Is(err, policy.ErrNotOwner) {
		t.Errorf("rival err = %v, want ErrNotOwner", err)
	}
	if s := f.jobs.Get("j").ApplicationByID(app.ID).Status; s != model.ApplicationPending {
		t.Errorf("status = %q, want pending", s)
	}
	if n := len(f.publisher.ofType(event.TypeApplicationShortlisted)); n != 0 {
		t.Errorf("shortlist events = %d, want 0", n)
	}
}

// ── Listing ────────────────────────────────────────────────────────────────

func TestListForJob(t *testing.T) {
	f := newApplicationFixture()
	f.applied(t, "j")

	res, err := f.apps.ListForJob(context.Background(), principalOf(f.employer), "j")
	if err != nil {
		t.Fatalf("ListForJob: %v", err)
	}
	if len(res.Job.Applications) != 1 {
		t.Fatalf("applications = %d", len(res.Job.Applications))
	}
	applicant := res.Applicants[f.seeker.ID]
	if applicant == nil || applicant.Email != f.seeker.Email {
		t.Errorf("applicant = %+v", applicant)
	}
	if applicant != nil && applicant.PasswordHash != "" {
		t.Error("applicant password hash leaked")
	}

	if _, err := f.apps.ListForJob(context.Background(), principalOf(f.rival), "j"); !errors.Is(err, policy.ErrNotOwner) {
		t.Errorf("rival err = %v, want ErrNotOwner", err)
	}
	if _, err := f.apps.ListForJob(context.Background(), principalOf(f.seeker), "j"); !errors.Is(err, policy.ErrRoleRequired) {
		t.Errorf("seeker err = %v, want ErrRoleRequired", err)
	}
}

func TestListMine_CountsEveryStatus(t *testing.T) {
	f := newApplicationFixture()
	first := f.applied(t, "j1")
	f.applied(t, "j2")

	if _, err := f.apps.UpdateStatus(context.Background(), principalOf(f.employer), "j1", first.ID, "reviewing"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	mine, err := f.apps.ListMine(context.Background(), principalOf(f.seeker))
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine.Applications) != 2 {
		t.Fatalf("applications = %d, want 2", len(mine.Applications))
	}
	for _, s := range model.ApplicationStatuses {
		if _, ok := mine.Counts[s]; !ok {
			t.Errorf("count for %q missing", s)
		}
	}
	if mine.Counts[model.ApplicationPending] != 1 || mine.Counts[model.ApplicationReviewing] != 1 {
		t.Errorf("counts = %v", mine.Counts)
	}

	if _, err := f.apps.ListMine(context.Background(), principalOf(f.employer)); !errors.Is(err, policy.ErrRoleRequired) {
		t.Errorf("employer err = %v", err)
	}
}
