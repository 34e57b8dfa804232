package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
)

// UserRepository defines the interface for user-related database operations.
// Reads omit the password hash unless the method name says otherwise.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id bson.ObjectID) (*model.User, error)
	GetUserByUUID(ctx context.Context, uuid string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByEmailWithPassword(ctx context.Context, email string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []bson.ObjectID) ([]*model.User, error)
	UpdateUser(ctx context.Context, id bson.ObjectID, params UpdateUserParams) (*model.User, error)

	// LinkGoogleAccount attaches a Google identity without touching role or password.
	LinkGoogleAccount(ctx context.Context, id bson.ObjectID, account model.OAuthAccount) (*model.User, error)

	// MarkWelcomeEmailSent flips welcome_email_sent to true and reports whether
	// this call was the one that flipped it.
	MarkWelcomeEmailSent(ctx context.Context, id bson.ObjectID) (bool, error)

	SetPasswordReset(ctx context.Context, id bson.ObjectID, reset model.PasswordReset) error
	GetUserByPasswordResetJTI(ctx context.Context, jti string) (*model.User, error)

	// ConsumePasswordReset sets a new password hash if the token is unused and
	// unexpired, marking it used in the same write.
	ConsumePasswordReset(ctx context.Context, jti, passwordHash string, now time.Time) error
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	Name             *string
	Role             *model.Role
	PasswordHash     *string
	JobSeekerProfile *model.JobSeekerProfile
	EmployerProfile  *model.EmployerProfile
	ProfileCompleted *bool
}

const userCollection = "users"

var withoutPassword = bson.M{"password_hash": 0}

type userMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "oauth.google.id", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "password_reset.jti", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUserByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, withoutPassword)
}

func (r *userMongoRepository) GetUserByUUID(ctx context.Context, uuid string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"uuid": uuid}, withoutPassword)
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, withoutPassword)
}

func (r *userMongoRepository) GetUserByEmailWithPassword(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, nil)
}

func (r *userMongoRepository) GetUserByPasswordResetJTI(ctx context.Context, jti string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"password_reset.jti": jti}, withoutPassword)
}

func (r *userMongoRepository) GetUsersByIDs(ctx context.Context, ids []bson.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.db.Collection(userCollection).Find(
		ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(withoutPassword),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id bson.ObjectID,
	params UpdateUserParams,
) (*model.User, error) {
	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Role != nil {
		updateMap["role"] = *params.Role
	}
	if params.PasswordHash != nil {
		updateMap["password_hash"] = *params.PasswordHash
	}
	if params.JobSeekerProfile != nil {
		updateMap["job_seeker_profile"] = params.JobSeekerProfile
	}
	if params.EmployerProfile != nil {
		updateMap["employer_profile"] = params.EmployerProfile
	}
	if params.ProfileCompleted != nil {
		updateMap["profile_completed"] = *params.ProfileCompleted
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no user fields to update")
	}

	updateMap["updated_at"] = time.Now()

	return r.findOneAndSet(ctx, bson.M{"_id": id}, updateMap)
}

func (r *userMongoRepository) LinkGoogleAccount(
	ctx context.Context,
	id bson.ObjectID,
	account model.OAuthAccount,
) (*model.User, error) {
	return r.findOneAndSet(ctx, bson.M{"_id": id}, bson.M{
		"oauth.google": account,
		"verified":     true,
		"updated_at":   time.Now(),
	})
}

func (r *userMongoRepository) MarkWelcomeEmailSent(ctx context.Context, id bson.ObjectID) (bool, error) {
	result, err := r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": id, "welcome_email_sent": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"welcome_email_sent": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, err
	}

	return result.ModifiedCount == 1, nil
}

func (r *userMongoRepository) SetPasswordReset(ctx context.Context, id bson.ObjectID, reset model.PasswordReset) error {
	result, err := r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_reset": reset, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *userMongoRepository) ConsumePasswordReset(ctx context.Context, jti, passwordHash string, now time.Time) error {
	filter := bson.M{
		"password_reset.jti":        jti,
		"password_reset.used":       false,
		"password_reset.expires_at": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"password_hash":       passwordHash,
			"password_reset.used": true,
			"updated_at":          now,
		},
	}

	result, err := r.db.Collection(userCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M, projection bson.M) (*model.User, error) {
	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	result := r.db.Collection(userCollection).FindOne(ctx, filter, opts)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) findOneAndSet(ctx context.Context, filter bson.M, set bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(withoutPassword),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}
