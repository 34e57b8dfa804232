package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
)

func TestBuildJobFilter_Empty(t *testing.T) {
	if f := buildJobFilter(FilterJobsParams{}); len(f) != 0 {
		t.Errorf("empty params should produce empty filter, got %v", f)
	}
}

func TestBuildJobFilter_PublicListing(t *testing.T) {
	now := time.Now()
	remote := model.WorkModelRemote

	f := buildJobFilter(FilterJobsParams{
		Statuses:    []model.JobStatus{model.JobStatusActive},
		HideExpired: true,
		WorkModel:   &remote,
		Search:      "go (golang)",
		Now:         now,
	})

	status, ok := f["status"].(bson.M)
	if !ok {
		t.Fatalf("status filter missing: %v", f)
	}
	if got := status["$in"].([]model.JobStatus); len(got) != 1 || got[0] != model.JobStatusActive {
		t.Errorf("status $in = %v, want [active]", got)
	}
	if f["work_model"] != remote {
		t.Errorf("work_model = %v, want %v", f["work_model"], remote)
	}

	and, ok := f["$and"].([]bson.M)
	if !ok || len(and) != 2 {
		t.Fatalf("$and should hold the expiry and search clauses, got %v", f["$and"])
	}

	search := and[1]["$or"].([]bson.M)
	title := search[0]["title"].(bson.Regex)
	if title.Pattern != `go \(golang\)` || title.Options != "i" {
		t.Errorf("search regex = %+v, want escaped case-insensitive pattern", title)
	}
}

func TestBuildJobFilter_Employer(t *testing.T) {
	id := bson.NewObjectID()
	f := buildJobFilter(FilterJobsParams{Employer: &id})

	if f["employer"] != id {
		t.Errorf("employer = %v, want %v", f["employer"], id)
	}
	if _, ok := f["status"]; ok {
		t.Error("no status filter expected when Statuses is empty")
	}
}
