package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/policy"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/repository"
)

// ProfileUsecase covers onboarding: role selection and profile completion.
type ProfileUsecase interface {
	Me(ctx context.Context, p *policy.Principal) (*model.User, error)

	// SelectRole is only allowed while the account is still new.
	SelectRole(ctx context.Context, p *policy.Principal, role model.Role) (*model.User, error)

	// CompleteEmployerProfile is one-shot; it also makes the account an employer.
	CompleteEmployerProfile(ctx context.Context, p *policy.Principal, profile model.EmployerProfile) (*model.User, error)

	CompleteJobSeekerProfile(ctx context.Context, p *policy.Principal, profile model.JobSeekerProfile) (*model.User, error)
}

type profileUsecase struct {
	userRepo repository.UserRepository
	logger   *zerolog.Logger
}

func NewProfileUsecase(userRepo repository.UserRepository, logger *zerolog.Logger) ProfileUsecase {
	return &profileUsecase{userRepo: userRepo, logger: logger}
}

func (u *profileUsecase) Me(ctx context.Context, p *policy.Principal) (*model.User, error) {
	if p == nil {
		return nil, policy.ErrUnauthorized
	}
	return u.load(ctx, p)
}

func (u *profileUsecase) SelectRole(ctx context.Context, p *policy.Principal, role model.Role) (*model.User, error) {
	if p == nil {
		return nil, policy.ErrUnauthorized
	}
	if role != model.RoleUser && role != model.RoleEmployer {
		return nil, newValidationError("role", "role must be one of [user employer]")
	}

	user, err := u.load(ctx, p)
	if err != nil {
		return nil, err
	}

	if !user.IsNewUser() {
		return nil, ErrRoleAlreadySelected
	}

	updated, err := u.userRepo.UpdateUser(ctx, user.ID, repository.UpdateUserParams{Role: &role})
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	u.logger.Info().Str("user", user.UUID).Str("role", string(role)).Msg("role selected")

	return updated, nil
}

func (u *profileUsecase) CompleteEmployerProfile(
	ctx context.Context,
	p *policy.Principal,
	profile model.EmployerProfile,
) (*model.User, error) {
	if p == nil {
		return nil, policy.ErrUnauthorized
	}
	if p.Role == model.RoleAdmin {
		return nil, policy.ErrRoleRequired
	}

	user, err := u.load(ctx, p)
	if err != nil {
		return nil, err
	}

	if user.EmployerProfile != nil && user.EmployerProfile.ProfileCompleted {
		return nil, ErrProfileAlreadyCompleted
	}

	role := model.RoleEmployer
	completed := true
	profile.ProfileCompleted = true

	updated, err := u.userRepo.UpdateUser(ctx, user.ID, repository.UpdateUserParams{
		Role:             &role,
		EmployerProfile:  &profile,
		ProfileCompleted: &completed,
	})
	if err != nil {
		return nil, fmt.Errorf("complete employer profile: %w", err)
	}

	return updated, nil
}

func (u *profileUsecase) CompleteJobSeekerProfile(
	ctx context.Context,
	p *policy.Principal,
	profile model.JobSeekerProfile,
) (*model.User, error) {
	if p == nil {
		return nil, policy.ErrUnauthorized
	}
	if p.Role != model.RoleUser {
		return nil, policy.ErrRoleRequired
	}

	user, err := u.load(ctx, p)
	if err != nil {
		return nil, err
	}

	completed := true
	profile.ProfileCompleted = true

	updated, err := u.userRepo.UpdateUser(ctx, user.ID, repository.UpdateUserParams{
		JobSeekerProfile: &profile,
		ProfileCompleted: &completed,
	})
	if err != nil {
		return nil, fmt.Errorf("complete job seeker profile: %w", err)
	}

	return updated, nil
}

func (u *profileUsecase) load(ctx context.Context, p *policy.Principal) (*model.User, error) {
	user, err := u.userRepo.GetUserByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
