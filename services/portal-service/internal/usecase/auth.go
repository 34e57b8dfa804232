package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/config"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/event"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/policy"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/repository"
	"github.com/raushkum4590/job-portal-sub000/shared/auth"
	"github.com/raushkum4590/job-portal-sub000/shared/provider"
	"github.com/raushkum4590/job-portal-sub000/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	// SignInWithPassword never tells the caller whether the email exists.
	SignInWithPassword(ctx context.Context, params SignInParams) (*SignInResult, error)
	SignUp(ctx context.Context, params SignUpParams) (*SignInResult, error)
	SignInWithGoogleIDToken(ctx context.Context, idToken string) (*SignInResult, error)
	SignInWithGoogleCode(ctx context.Context, code, verifier string) (*SignInResult, error)

	// RefreshSession reloads the account behind session so a role chosen
	// after sign-in reaches the live session.
	RefreshSession(ctx context.Context, session *model.Session) (*SignInResult, error)

	// Principal resolves the session's account from the store.
	Principal(ctx context.Context, session *model.Session) (*policy.Principal, error)

	IssueSessionToken(session *model.Session) (string, time.Time, error)
	ParseSessionToken(token string) (*model.Session, error)
}

// GoogleIdentityProvider verifies Google identities.
type GoogleIdentityProvider interface {
	Enabled() bool
	ValidateIDToken(ctx context.Context, idToken string) (*provider.GoogleProfile, error)
	Exchange(ctx context.Context, code, verifier string) (*provider.GoogleProfile, error)
}

// SignInParams defines the parameters for password sign-in.
type SignInParams struct {
	Email    string
	Password string
}

// SignUpParams defines the parameters for credential signup.
type SignUpParams struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// SignInResult is the issued session and where the UI should go next.
type SignInResult struct {
	Session    *model.Session
	RedirectTo string
}

// SessionClaims is the payload of the signed session token.
type SessionClaims struct {
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	IsNewUser bool       `json:"isNewUser"`
	Provider  string     `json:"provider"`
	jwt.RegisteredClaims
}

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrGoogleSignInFailed = errors.New("google sign-in failed")
	ErrGoogleDisabled     = errors.New("google sign-in is not configured")
	ErrGoogleAccountInUse = errors.New("this email is linked to a different google account")
)

type authUsecase struct {
	userRepo    repository.UserRepository
	publisher   event.Publisher
	google      GoogleIdentityProvider
	sessionAuth *auth.JWTAuthenticator
	cfg         *config.PortalServiceConfig
	logger      *zerolog.Logger
}

func NewAuthUsecase(
	userRepo repository.UserRepository,
	publisher event.Publisher,
	google GoogleIdentityProvider,
	sessionAuth *auth.JWTAuthenticator,
	cfg *config.PortalServiceConfig,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		publisher:   publisher,
		google:      google,
		sessionAuth: sessionAuth,
		cfg:         cfg,
		logger:      logger,
	}
}

func (u *authUsecase) SignInWithPassword(ctx context.Context, params SignInParams) (*SignInResult, error) {
	email := normalizeEmail(params.Email)
	if email == "" || params.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := u.userRepo.GetUserByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		u.logger.Warn().Err(err).Str("user", user.UUID).Msg("stored password hash could not be verified")
		return nil, ErrInvalidCredentials
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	u.sendWelcomeOnce(ctx, user)

	return newSignInResult(user, model.ProviderCredentials, false), nil
}

func (u *authUsecase) SignUp(ctx context.Context, params SignUpParams) (*SignInResult, error) {
	role := params.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleEmployer {
		return nil, newValidationError("role", "role must be one of [user employer]")
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		UUID:         uuid.NewString(),
		Name:         strings.TrimSpace(params.Name),
		Email:        normalizeEmail(params.Email),
		PasswordHash: passwordHash,
		Role:         role,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUserAlreadyExists
		}

		return nil, fmt.Errorf("create user: %w", err)
	}

	u.sendWelcomeOnce(ctx, user)

	return newSignInResult(user, model.ProviderCredentials, false), nil
}

func (u *authUsecase) SignInWithGoogleIDToken(ctx context.Context, idToken string) (*SignInResult, error) {
	if u.google == nil || !u.google.Enabled() {
		return nil, ErrGoogleDisabled
	}
	if idToken == "" {
		return nil, ErrGoogleSignInFailed
	}

	profile, err := u.google.ValidateIDToken(ctx, idToken)
	if err != nil {
		u.logger.Warn().Err(err).Msg("google id token rejected")
		return nil, ErrGoogleSignInFailed
	}

	return u.signInWithGoogle(ctx, profile)
}

func (u *authUsecase) SignInWithGoogleCode(ctx context.Context, code, verifier string) (*SignInResult, error) {
	if u.google == nil || !u.google.Enabled() {
		return nil, ErrGoogleDisabled
	}
	if code == "" || verifier == "" {
		return nil, ErrGoogleSignInFailed
	}

	profile, err := u.google.Exchange(ctx, code, verifier)
	if err != nil {
		u.logger.Warn().Err(err).Msg("google code exchange failed")
		return nil, ErrGoogleSignInFailed
	}

	return u.signInWithGoogle(ctx, profile)
}

// signInWithGoogle creates, links or simply loads the account for profile.
// Any store failure rejects the sign-in.
func (u *authUsecase) signInWithGoogle(ctx context.Context, profile *provider.GoogleProfile) (*SignInResult, error) {
	email := normalizeEmail(profile.Email)
	if email == "" || profile.ID == "" {
		return nil, ErrGoogleSignInFailed
	}

	account := model.OAuthAccount{ID: profile.ID, Email: email}

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		name := strings.TrimSpace(profile.Name)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}

		user, err = u.userRepo.CreateUser(ctx, &model.User{
			UUID:         uuid.NewString(),
			Name:         name,
			Email:        email,
			PasswordHash: model.OAuthPasswordSentinel,
			Role:         model.RoleUser,
			Verified:     true,
			Image:        profile.Picture,
			OAuth:        model.OAuthLinks{Google: &account},
		})
		if err != nil {
			return nil, fmt.Errorf("create google user: %w", err)
		}

		u.sendWelcomeOnce(ctx, user)

		return newSignInResult(user, model.ProviderGoogle, true), nil

	case err != nil:
		return nil, fmt.Errorf("find user by email: %w", err)

	case user.OAuth.Google != nil && !user.LinkedToGoogle(profile.ID):
		u.logger.Warn().
			Str("user", user.UUID).
			Str("linked", user.OAuth.Google.ID).
			Str("presented", profile.ID).
			Msg("google sign-in with a different account than the one linked")
		return nil, ErrGoogleAccountInUse

	case !user.LinkedToGoogle(profile.ID):
		user, err = u.userRepo.LinkGoogleAccount(ctx, user.ID, account)
		if err != nil {
			return nil, fmt.Errorf("link google account: %w", err)
		}

		u.logger.Info().Str("user", user.UUID).Msg("linked google account to existing user")
		u.sendWelcomeOnce(ctx, user)

		return newSignInResult(user, model.ProviderGoogle, false), nil
	}

	u.sendWelcomeOnce(ctx, user)

	return newSignInResult(user, model.ProviderGoogle, user.IsNewUser()), nil
}

func (u *authUsecase) RefreshSession(ctx context.Context, session *model.Session) (*SignInResult, error) {
	if session == nil || session.ID == "" {
		return nil, ErrInvalidSession
	}

	user, err := u.userRepo.GetUserByUUID(ctx, session.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidSession
		}

		return nil, fmt.Errorf("find user by uuid: %w", err)
	}

	isNewUser := session.IsNewUser
	if session.Provider == model.ProviderGoogle {
		isNewUser = user.IsNewUser()
	}

	return newSignInResult(user, session.Provider, isNewUser), nil
}

func (u *authUsecase) Principal(ctx context.Context, session *model.Session) (*policy.Principal, error) {
	if session == nil || session.Email == "" {
		return nil, policy.ErrUnauthorized
	}

	user, err := u.userRepo.GetUserByEmail(ctx, session.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidSession
		}

		return nil, fmt.Errorf("find user by email: %w", err)
	}

	return &policy.Principal{
		ID:    user.ID,
		UUID:  user.UUID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}

func (u *authUsecase) IssueSessionToken(session *model.Session) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(u.cfg.Token.SessionTokenExpiresIn)

	claims := SessionClaims{
		Email:     session.Email,
		Name:      session.Name,
		Role:      session.Role,
		IsNewUser: session.IsNewUser,
		Provider:  session.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   session.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    u.sessionAuth.Issuer(),
			Audience:  jwt.ClaimStrings{u.sessionAuth.Audience()},
		},
	}

	token, err := u.sessionAuth.GenerateToken(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

func (u *authUsecase) ParseSessionToken(token string) (*model.Session, error) {
	claims := &SessionClaims{}
	if _, err := u.sessionAuth.ValidateTokenWithClaims(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, ErrInvalidSession
	}

	return &model.Session{
		ID:        claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
		IsNewUser: claims.IsNewUser,
		Provider:  claims.Provider,
	}, nil
}

// sendWelcomeOnce emits FirstLoginCompleted for the caller that flips the
// account's welcome flag. Failures are logged and never fail the sign-in.
func (u *authUsecase) sendWelcomeOnce(ctx context.Context, user *model.User) {
	if user.WelcomeEmailSent {
		return
	}

	flipped, err := u.userRepo.MarkWelcomeEmailSent(ctx, user.ID)
	if err != nil {
		u.logger.Warn().Err(err).Str("user", user.UUID).Msg("failed to mark welcome email as sent")
		return
	}
	if !flipped {
		return
	}

	if err := u.publisher.Publish(ctx, event.FirstLoginCompleted{
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}); err != nil {
		u.logger.Warn().Err(err).Str("user", user.UUID).Msg("failed to publish first login event")
	}
}

func newSignInResult(user *model.User, via string, isNewUser bool) *SignInResult {
	return &SignInResult{
		Session:    model.NewSession(user, via, isNewUser),
		RedirectTo: LandingPath(user, isNewUser),
	}
}

// LandingPath is where the UI sends a user right after sign-in.
func LandingPath(user *model.User, isNewUser bool) string {
	switch {
	case user.Role == model.RoleAdmin:
		return "/admin"
	case isNewUser:
		return "/select-role"
	case user.Role == model.RoleEmployer:
		if user.EmployerProfile == nil || !user.EmployerProfile.ProfileCompleted {
			return "/employer/complete-profile"
		}
		return "/employer/dashboard"
	default:
		return "/jobs"
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
