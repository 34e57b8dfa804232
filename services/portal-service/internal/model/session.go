package model

// Session is the externally visible view of an authenticated principal.
// ID is the user's public UUID.
type Session struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	IsNewUser bool   `json:"isNewUser"`
	Provider  string `json:"-"`
}

const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

// NewSession builds the session view of u.
func NewSession(u *User, provider string, isNewUser bool) *Session {
	return &Session{
		ID:        u.UUID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsNewUser: isNewUser,
		Provider:  provider,
	}
}
