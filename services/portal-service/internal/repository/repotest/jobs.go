package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/repository"
)

// Jobs is an in-memory repository.JobRepository.
type Jobs struct {
	mu     sync.Mutex
	byUUID map[string]*model.Job
	Err    error

	// BeforeSave runs once, outside the lock, at the start of the next
	// SaveJob call. Tests use it to interleave a competing write.
	BeforeSave func()
}

func NewJobs() *Jobs {
	return &Jobs{byUUID: map[string]*model.Job{}}
}

var _ repository.JobRepository = (*Jobs)(nil)

// Seed stores j and returns a copy.
func (r *Jobs) Seed(j *model.Job) *model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	if j.ID.IsZero() {
		j.ID = bson.NewObjectID()
	}
	if j.Version == 0 {
		j.Version = 1
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now()
	}
	r.byUUID[j.UUID] = cloneJob(j)
	return cloneJob(j)
}

// Get returns a copy of the stored job, or nil.
func (r *Jobs) Get(uuid string) *model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	if j, ok := r.byUUID[uuid]; ok {
		return cloneJob(j)
	}
	return nil
}

func (r *Jobs) CreateJob(_ context.Context, job *model.Job) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	if _, exists := r.byUUID[job.UUID]; exists {
		return nil, duplicateKey
	}

	now := time.Now()
	job.ID = bson.NewObjectID()
	job.CreatedAt = now
	job.UpdatedAt = now
	job.Version = 1
	if job.Applications == nil {
		job.Applications = []model.Application{}
	}
	r.byUUID[job.UUID] = cloneJob(job)

	return job, nil
}

func (r *Jobs) GetJobByUUID(_ context.Context, uuid string) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	j, ok := r.byUUID[uuid]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneJob(j), nil
}

func (r *Jobs) ListJobs(_ context.Context, params repository.FilterJobsParams) ([]*model.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}

	var matched []*model.Job
	for _, j := range r.byUUID {
		if matchesFilter(j, params) {
			matched = append(matched, cloneJob(j))
		}
	}

	sort.Slice(matched, func(a, b int) bool {
		if params.SortDesc {
			return matched[a].CreatedAt.After(matched[b].CreatedAt)
		}
		return matched[a].CreatedAt.Before(matched[b].CreatedAt)
	})

	total := int64(len(matched))

	limit := params.Limit
	if limit == 0 {
		limit = 20
	}
	start := params.Offset
	if start > uint64(len(matched)) {
		start = uint64(len(matched))
	}
	end := start + limit
	if end > uint64(len(matched)) {
		end = uint64(len(matched))
	}

	return matched[start:end], total, nil
}

func (r *Jobs) SaveJob(_ context.Context, job *model.Job) error {
	if hook := r.BeforeSave; hook != nil {
		r.BeforeSave = nil
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	stored, ok := r.byUUID[job.UUID]
	if !ok || stored.Version != job.Version {
		return repository.ErrVersionConflict
	}

	views := stored.Views
	job.Version++
	job.UpdatedAt = time.Now()

	next := cloneJob(job)
	next.Views = views
	r.byUUID[job.UUID] = next

	return nil
}

func (r *Jobs) DeleteJob(_ context.Context, uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	if _, ok := r.byUUID[uuid]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.byUUID, uuid)
	return nil
}

func (r *Jobs) IncrementViews(_ context.Context, uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	if j, ok := r.byUUID[uuid]; ok {
		j.Views++
	}
	return nil
}

func (r *Jobs) ListJobsByApplicant(_ context.Context, applicant bson.ObjectID) ([]*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	var jobs []*model.Job
	for _, j := range r.byUUID {
		if j.FindApplication(applicant) != nil {
			jobs = append(jobs, cloneJob(j))
		}
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].CreatedAt.After(jobs[b].CreatedAt) })
	return jobs, nil
}

func (r *Jobs) ExpireJobs(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}

	var n int64
	for _, j := range r.byUUID {
		if (j.Status == model.JobStatusActive || j.Status == model.JobStatusPaused) && j.Expired(now) {
			j.Status = model.JobStatusExpired
			j.Version++
			n++
		}
	}
	return n, nil
}

func matchesFilter(j *model.Job, p repository.FilterJobsParams) bool {
	if p.Employer != nil && j.Employer != *p.Employer {
		return false
	}
	if len(p.Statuses) > 0 {
		found := false
		for _, s := range p.Statuses {
			if j.Status == s {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if p.HideExpired && j.ExpiresAt != nil && j.ExpiresAt.Before(p.Now) {
		return false
	}
	if p.Department != nil && j.Department != *p.Department {
		return false
	}
	if p.JobType != nil && j.JobType != *p.JobType {
		return false
	}
	if p.WorkModel != nil && j.WorkModel != *p.WorkModel {
		return false
	}
	if p.ExperienceLevel != nil && j.ExperienceLevel != *p.ExperienceLevel {
		return false
	}
	if p.Location != "" && !containsFold(j.Location, p.Location) {
		return false
	}
	if p.Search != "" {
		hit := containsFold(j.Title, p.Search) ||
			containsFold(j.Description, p.Search) ||
			containsFold(j.Company.Name, p.Search)
		for _, s := range j.Skills {
			hit = hit || containsFold(s, p.Search)
		}
		if !hit {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func cloneJob(j *model.Job) *model.Job {
	c := *j
	c.Requirements = append([]string(nil), j.Requirements...)
	c.Responsibilities = append([]string(nil), j.Responsibilities...)
	c.Benefits = append([]string(nil), j.Benefits...)
	c.Skills = append([]string(nil), j.Skills...)
	if j.SalaryRange.Min != nil {
		v := *j.SalaryRange.Min
		c.SalaryRange.Min = &v
	}
	if j.SalaryRange.Max != nil {
		v := *j.SalaryRange.Max
		c.SalaryRange.Max = &v
	}
	if j.ApplicationDeadline != nil {
		t := *j.ApplicationDeadline
		c.ApplicationDeadline = &t
	}
	if j.ExpiresAt != nil {
		t := *j.ExpiresAt
		c.ExpiresAt = &t
	}
	c.Applications = make([]model.Application, len(j.Applications))
	for i, a := range j.Applications {
		a.Skills = append([]string(nil), a.Skills...)
		a.References = append([]model.Reference(nil), a.References...)
		a.StatusHistory = append([]model.StatusChange(nil), a.StatusHistory...)
		c.Applications[i] = a
	}
	return &c
}
