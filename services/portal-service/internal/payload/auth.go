package payload

import (
	"time"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
)

// SignInRequest is accepted by POST /auth/signin. Provider defaults to
// credentials; the google provider carries an ID token instead.
type SignInRequest struct {
	Provider string `json:"provider" validate:"omitempty,oneof=credentials google"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IDToken  string `json:"idToken"`
}

type CredentialsSignIn struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleSignIn struct {
	IDToken string `json:"idToken" validate:"required"`
}

type SignUpRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=user employer"`
}

// SessionResponse is returned by every endpoint that issues or renews a session.
// AccessToken is the same signed token set in the session cookie, for clients
// that send it as a bearer token instead.
type SessionResponse struct {
	Session     *model.Session `json:"session"`
	RedirectTo  string         `json:"redirectTo"`
	AccessToken string         `json:"accessToken"`
	ExpiresAt   time.Time      `json:"expiresAt"`
}

type CSRFResponse struct {
	CSRFToken string `json:"csrfToken"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
