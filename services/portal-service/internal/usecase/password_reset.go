package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/config"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/repository"
	"github.com/raushkum4590/job-portal-sub000/shared/auth"
	"github.com/raushkum4590/job-portal-sub000/shared/mailer"
	"github.com/raushkum4590/job-portal-sub000/shared/security"
)

// PasswordResetUsecase defines the business logic for password reset token operations.
type PasswordResetUsecase interface {
	// RequestPasswordReset initiates the password reset process for a given email.
	// It succeeds silently for unknown emails and OAuth-only accounts.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword sets a new password using a reset token issued by RequestPasswordReset.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// ValidatePasswordResetToken checks that the token is genuine, unused and unexpired.
	ValidatePasswordResetToken(ctx context.Context, token string) error
}

// PasswordResetClaims is the payload of a password reset token. The JTI is
// stored on the user and consumed on use.
type PasswordResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type passwordResetUsecase struct {
	userRepo  repository.UserRepository
	resetAuth *auth.JWTAuthenticator
	mailer    mailer.Sender
	cfg       *config.PortalServiceConfig
	logger    *zerolog.Logger
}

var (
	ErrTokenNotFound    = errors.New("password reset token not found")
	ErrTokenAlreadyUsed = errors.New("password reset token has already been used")
	ErrTokenExpired     = errors.New("password reset token has expired")
	ErrInvalidToken     = errors.New("invalid password reset token")
)

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	resetAuth *auth.JWTAuthenticator,
	mailer mailer.Sender,
	cfg *config.PortalServiceConfig,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:  userRepo,
		resetAuth: resetAuth,
		mailer:    mailer,
		cfg:       cfg,
		logger:    logger,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmailWithPassword(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// To prevent email enumeration, do not reveal that the email does not exist.
			return nil
		}
		return err
	}

	if !user.HasPassword() {
		u.logger.Info().Str("user", user.UUID).Msg("password reset requested for oauth-only account")
		return nil
	}

	tokenStr, jti, expiresAt, err := u.generatePasswordResetToken(user)
	if err != nil {
		return err
	}

	// Replaces any earlier token, so only the newest link works.
	if err := u.userRepo.SetPasswordReset(ctx, user.ID, model.PasswordReset{
		JTI:       jti,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s?token=%s", u.cfg.AppPasswordResetURL, tokenStr)
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received a request to reset the password for your Job Portal account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>Job Portal Team</p>
	`, html.EscapeString(user.Name), resetLink, resetLink, u.cfg.Token.PasswordResetTokenExpiresIn)

	if err := u.mailer.SendHTML([]string{user.Email}, "Password Reset Request", htmlBody); err != nil {
		return err
	}

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	jti, err := u.checkToken(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := u.userRepo.ConsumePasswordReset(ctx, jti, passwordHash, time.Now()); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Consumed or expired between the check and the write.
			return ErrTokenAlreadyUsed
		}
		return err
	}

	return nil
}

func (u *passwordResetUsecase) ValidatePasswordResetToken(ctx context.Context, token string) error {
	_, err := u.checkToken(ctx, token)
	return err
}

// checkToken verifies the signature and the stored state, returning the JTI.
func (u *passwordResetUsecase) checkToken(ctx context.Context, token string) (string, error) {
	claims := &PasswordResetClaims{}
	if _, err := u.resetAuth.ValidateTokenWithClaims(token, claims); err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	if claims.ID == "" {
		return "", ErrInvalidToken
	}

	user, err := u.userRepo.GetUserByPasswordResetJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrTokenNotFound
		}
		return "", err
	}

	reset := user.PasswordReset
	if reset.Used {
		return "", ErrTokenAlreadyUsed
	}

	if time.Now().After(reset.ExpiresAt) {
		return "", ErrTokenExpired
	}

	return claims.ID, nil
}

// generatePasswordResetToken creates a password reset JWT token with a unique JTI.
func (u *passwordResetUsecase) generatePasswordResetToken(user *model.User) (string, string, time.Time, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", "", time.Time{}, err
	}

	now := time.Now()
	expiresAt := now.Add(u.cfg.Token.PasswordResetTokenExpiresIn)
	claims := PasswordResetClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    u.resetAuth.Issuer(),
			Audience:  jwt.ClaimStrings{u.resetAuth.Audience()},
			Subject:   user.UUID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	tokenStr, err := u.resetAuth.GenerateToken(claims)
	if err != nil {
		return "", "", time.Time{}, err
	}

	return tokenStr, jti, expiresAt, nil
}

// generateJTI generates a unique JTI.
func generateJTI() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
