package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
)

// ErrVersionConflict is returned by SaveJob when the stored document changed
// after it was read.
var ErrVersionConflict = errors.New("job was modified concurrently")

// JobRepository defines the interface for job-related database operations.
type JobRepository interface {
	CreateJob(ctx context.Context, job *model.Job) (*model.Job, error)
	GetJobByUUID(ctx context.Context, uuid string) (*model.Job, error)
	ListJobs(ctx context.Context, params FilterJobsParams) ([]*model.Job, int64, error)

	// SaveJob writes every mutable field of job if the stored version still
	// equals job.Version, then bumps job.Version. Views are never written here.
	SaveJob(ctx context.Context, job *model.Job) error

	DeleteJob(ctx context.Context, uuid string) error
	IncrementViews(ctx context.Context, uuid string) error
	ListJobsByApplicant(ctx context.Context, applicant bson.ObjectID) ([]*model.Job, error)

	// ExpireJobs moves active and paused jobs whose expiry is before now to
	// expired and returns how many changed.
	ExpireJobs(ctx context.Context, now time.Time) (int64, error)
}

// FilterJobsParams defines the parameters for filtering and paginating jobs.
type FilterJobsParams struct {
	Employer        *bson.ObjectID
	Statuses        []model.JobStatus
	HideExpired     bool
	Search          string
	Department      *model.Department
	JobType         *model.JobType
	WorkModel       *model.WorkModel
	ExperienceLevel *model.ExperienceLevel
	Location        string
	Limit           uint64
	Offset          uint64
	SortBy          *string
	SortDesc        bool
	Now             time.Time
}

const jobCollection = "jobs"

type jobMongoRepository struct {
	db *mongo.Database
}

func NewJobMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) JobRepository {
	collection := db.Collection(jobCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "employer", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "applications.applicant", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create job indexes")
	}

	return &jobMongoRepository{db: db}
}

func (r *jobMongoRepository) CreateJob(ctx context.Context, job *model.Job) (*model.Job, error) {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	job.Version = 1
	if job.Applications == nil {
		job.Applications = []model.Application{}
	}

	result, err := r.db.Collection(jobCollection).InsertOne(ctx, job)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		job.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return job, nil
}

func (r *jobMongoRepository) GetJobByUUID(ctx context.Context, uuid string) (*model.Job, error) {
	result := r.db.Collection(jobCollection).FindOne(ctx, bson.M{"uuid": uuid})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var job model.Job
	if err := result.Decode(&job); err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *jobMongoRepository) ListJobs(ctx context.Context, params FilterJobsParams) ([]*model.Job, int64, error) {
	filter := buildJobFilter(params)

	total, err := r.db.Collection(jobCollection).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find()

	limit := params.Limit
	if limit == 0 {
		limit = 20
	}
	findOptions.SetLimit(int64(limit))

	if params.Offset > 0 {
		findOptions.SetSkip(int64(params.Offset))
	}

	sortBy := "created_at"
	if params.SortBy != nil {
		sortBy = *params.SortBy
	}

	sortOrder := -1
	if !params.SortDesc {
		sortOrder = 1
	}
	findOptions.SetSort(bson.D{{Key: sortBy, Value: sortOrder}})

	jobs, err := r.find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *jobMongoRepository) SaveJob(ctx context.Context, job *model.Job) error {
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"title":                job.Title,
			"description":          job.Description,
			"requirements":         job.Requirements,
			"responsibilities":     job.Responsibilities,
			"benefits":             job.Benefits,
			"skills":               job.Skills,
			"department":           job.Department,
			"job_type":             job.JobType,
			"work_model":           job.WorkModel,
			"experience_level":     job.ExperienceLevel,
			"location":             job.Location,
			"salary_range":         job.SalaryRange,
			"company":              job.Company,
			"status":               job.Status,
			"application_deadline": job.ApplicationDeadline,
			"expires_at":           job.ExpiresAt,
			"applications":         job.Applications,
			"updated_at":           now,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.db.Collection(jobCollection).UpdateOne(
		ctx,
		bson.M{"_id": job.ID, "version": job.Version},
		update,
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}

	job.Version++
	job.UpdatedAt = now

	return nil
}

func (r *jobMongoRepository) DeleteJob(ctx context.Context, uuid string) error {
	result, err := r.db.Collection(jobCollection).DeleteOne(ctx, bson.M{"uuid": uuid})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *jobMongoRepository) IncrementViews(ctx context.Context, uuid string) error {
	_, err := r.db.Collection(jobCollection).UpdateOne(
		ctx,
		bson.M{"uuid": uuid},
		bson.M{"$inc": bson.M{"views": 1}},
	)
	return err
}

func (r *jobMongoRepository) ListJobsByApplicant(ctx context.Context, applicant bson.ObjectID) ([]*model.Job, error) {
	return r.find(
		ctx,
		bson.M{"applications.applicant": applicant},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
}

func (r *jobMongoRepository) ExpireJobs(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"status":     bson.M{"$in": []model.JobStatus{model.JobStatusActive, model.JobStatusPaused}},
		"expires_at": bson.M{"$lt": now},
	}
	update := bson.M{
		"$set": bson.M{"status": model.JobStatusExpired, "updated_at": now},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.db.Collection(jobCollection).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}

	return result.ModifiedCount, nil
}

func (r *jobMongoRepository) find(
	ctx context.Context,
	filter bson.M,
	opts *options.FindOptionsBuilder,
) ([]*model.Job, error) {
	cursor, err := r.db.Collection(jobCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []*model.Job
	for cursor.Next(ctx) {
		var job model.Job
		if err := cursor.Decode(&job); err != nil {
			return nil, err
		}
		jobs = append(jobs, &job)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func buildJobFilter(params FilterJobsParams) bson.M {
	filter := bson.M{}

	if params.Employer != nil {
		filter["employer"] = *params.Employer
	}
	if len(params.Statuses) > 0 {
		filter["status"] = bson.M{"$in": params.Statuses}
	}
	if params.Department != nil {
		filter["department"] = *params.Department
	}
	if params.JobType != nil {
		filter["job_type"] = *params.JobType
	}
	if params.WorkModel != nil {
		filter["work_model"] = *params.WorkModel
	}
	if params.ExperienceLevel != nil {
		filter["experience_level"] = *params.ExperienceLevel
	}
	if params.Location != "" {
		filter["location"] = bson.Regex{Pattern: regexp.QuoteMeta(params.Location), Options: "i"}
	}

	var and []bson.M
	if params.HideExpired {
		and = append(and, bson.M{"$or": []bson.M{
			{"expires_at": nil},
			{"expires_at": bson.M{"$gte": params.Now}},
		}})
	}
	if params.Search != "" {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(params.Search), Options: "i"}
		and = append(and, bson.M{"$or": []bson.M{
			{"title": pattern},
			{"description": pattern},
			{"company.name": pattern},
			{"skills": pattern},
		}})
	}
	if len(and) > 0 {
		filter["$and"] = and
	}

	return filter
}
