// Package repotest provides in-memory repositories with the same observable
// behavior as the MongoDB ones, for use in tests.
package repotest

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/repository"
)

var duplicateKey = mongo.WriteException{
	WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
}

// Users is an in-memory repository.UserRepository. Setting Err makes every
// call fail with it.
type Users struct {
	mu    sync.Mutex
	byID  map[bson.ObjectID]*model.User
	Err   error
	Calls int
}

func NewUsers() *Users {
	return &Users{byID: map[bson.ObjectID]*model.User{}}
}

var _ repository.UserRepository = (*Users)(nil)

// Seed stores u as-is (assigning an id if needed) and returns a copy.
func (r *Users) Seed(u *model.User) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	stored := cloneUser(u)
	r.byID[u.ID] = stored
	return cloneUser(stored)
}

// Get returns the stored record including the password hash.
func (r *Users) Get(id bson.ObjectID) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[id]; ok {
		return cloneUser(u)
	}
	return nil
}

// Count returns the number of stored users.
func (r *Users) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *Users) begin() error {
	r.Calls++
	return r.Err
}

func (r *Users) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(); err != nil {
		return nil, err
	}

	for _, existing := range r.byID {
		if existing.Email == user.Email || existing.UUID == user.UUID {
			return nil, duplicateKey
		}
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = cloneUser(user)

	return user, nil
}

func (r *Users) GetUserByID(_ context.Context, id bson.ObjectID) (*model.User, error) {
	return r.findOne(func(u *model.User) bool { return u.ID == id }, false)
}

func (r *Users) GetUserByUUID(_ context.Context, uuid string) (*model.User, error) {
	return r.findOne(func(u *model.User) bool { return u.UUID == uuid }, false)
}

func (r *Users) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	return r.findOne(func(u *model.User) bool { return u.Email == email }, false)
}

func (r *Users) GetUserByEmailWithPassword(_ context.Context, email string) (*model.User, error) {
	return r.findOne(func(u *model.User) bool { return u.Email == email }, true)
}

func (r *Users) GetUserByPasswordResetJTI(_ context.Context, jti string) (*model.User, error) {
	return r.findOne(func(u *model.User) bool {
		return u.PasswordReset != nil && u.PasswordReset.JTI == jti
	}, false)
}

func (r *Users) GetUsersByIDs(_ context.Context, ids []bson.ObjectID) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(); err != nil {
		return nil, err
	}

	var users []*model.User
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			users = append(users, withoutPassword(u))
		}
	}
	return users, nil
}

func (r *Users) UpdateUser(_ context.Context, id bson.ObjectID, params repository.UpdateUserParams) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(); err != nil {
		return nil, err
	}

	u, ok := r.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	changed := false
	if params.Name != nil {
		u.Name, changed = *params.Name, true
	}
	if params.Role != nil {
		u.Role, changed = *params.Role, true
	}
	if params.PasswordHash != nil {
		u.PasswordHash, changed = *params.PasswordHash, true
	}
	if params.JobSeekerProfile != nil {
		p := *params.JobSeekerProfile
		u.JobSeekerProfile, changed = &p, true
	}
	if params.EmployerProfile != nil {
		p := *params.EmployerProfile
		u.EmployerProfile, changed = &p, true
	}
	if params.ProfileCompleted != nil {
		u.ProfileCompleted, changed = *params.ProfileCompleted, true
	}
	if !changed {
		return nil, errors.New("no user fields to update")
	}
	u.UpdatedAt = time.Now()

	return withoutPassword(u), nil
}

func (r *Users) LinkGoogleAccount(_ context.Context, id bson.ObjectID, account model.OAuthAccount) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(); err != nil {
		return nil, err
	}

	u, ok := r.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	u.OAuth.Google = &account
	u.Verified = true
	u.UpdatedAt = time.Now()

	return withoutPassword(u), nil
}

func (r *Users) MarkWelcomeEmailSent(_ context.Context, id bson.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(); err != nil {
		return false, err
	}

	u, ok := r.byID[id]
	if !ok || u.WelcomeEmailSent {
		return false, nil
	}
	u.WelcomeEmailSent = true
	return true, nil
}

func (r *Users) SetPasswordReset(_ context.Context, id bson.ObjectID, reset model.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(); err != nil {
		return err
	}

	u, ok := r.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.PasswordReset = &reset
	return nil
}

func (r *Users) ConsumePasswordReset(_ context.Context, jti, passwordHash string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(); err != nil {
		return err
	}

	for _, u := range r.byID {
		pr := u.PasswordReset
		if pr == nil || pr.JTI != jti || pr.Used || !pr.ExpiresAt.After(now) {
			continue
		}
		u.PasswordHash = passwordHash
		pr.Used = true
		return nil
	}
	return mongo.ErrNoDocuments
}

func (r *Users) findOne(match func(*model.User) bool, includePassword bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.begin(); err != nil {
		return nil, err
	}

	for _, u := range r.byID {
		if match(u) {
			if includePassword {
				return cloneUser(u), nil
			}
			return withoutPassword(u), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func withoutPassword(u *model.User) *model.User {
	c := cloneUser(u)
	c.PasswordHash = ""
	return c
}

func cloneUser(u *model.User) *model.User {
	c := *u
	if u.OAuth.Google != nil {
		g := *u.OAuth.Google
		c.OAuth.Google = &g
	}
	if u.JobSeekerProfile != nil {
		p := *u.JobSeekerProfile
		p.Skills = append([]string(nil), u.JobSeekerProfile.Skills...)
		c.JobSeekerProfile = &p
	}
	if u.EmployerProfile != nil {
		p := *u.EmployerProfile
		c.EmployerProfile = &p
	}
	if u.PasswordReset != nil {
		p := *u.PasswordReset
		c.PasswordReset = &p
	}
	return &c
}
