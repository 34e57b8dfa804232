package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	ErrInvalidGoogleAudience = errors.New("invalid google audience")
	ErrUnverifiedGoogleEmail = errors.New("google email is not verified")
)

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
}

// GoogleProfile is the subset of a Google account used to sign in.
type GoogleProfile struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// GoogleOAuthProvider verifies Google identities, either from an ID token
// posted by a client or through the authorization-code flow with PKCE.
type GoogleOAuthProvider struct {
	clientID   string
	oauth      *oauth2.Config
	httpClient *http.Client
}

func NewGoogleOAuthProvider(cfg GoogleConfig) *GoogleOAuthProvider {
	return &GoogleOAuthProvider{
		clientID: cfg.ClientID,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a client registration is configured.
func (p *GoogleOAuthProvider) Enabled() bool {
	return p.oauth.ClientID != "" && p.oauth.ClientSecret != ""
}

// AuthCodeURL builds the consent URL for the given state and PKCE verifier.
func (p *GoogleOAuthProvider) AuthCodeURL(state, verifier string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
}

// NewVerifier returns a fresh PKCE code verifier.
func (p *GoogleOAuthProvider) NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// Exchange trades an authorization code for a token and fetches the profile.
func (p *GoogleOAuthProvider) Exchange(ctx context.Context, code, verifier string) (*GoogleProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, err
	}

	svc, err := googleoauth2.NewService(ctx, option.WithTokenSource(p.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		return nil, ErrUnverifiedGoogleEmail
	}

	return &GoogleProfile{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

// ValidateIDToken checks an ID token with Google's tokeninfo endpoint and
// verifies it was issued for this client.
func (p *GoogleOAuthProvider) ValidateIDToken(ctx context.Context, idToken string) (*GoogleProfile, error) {
	svc, err := googleoauth2.NewService(ctx, option.WithHTTPClient(p.httpClient))
	if err != nil {
		return nil, err
	}

	tokenInfo, err := svc.Tokeninfo().IdToken(idToken).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	if tokenInfo.Audience != p.clientID {
		return nil, ErrInvalidGoogleAudience
	}

	if !tokenInfo.VerifiedEmail {
		return nil, ErrUnverifiedGoogleEmail
	}

	return &GoogleProfile{
		ID:    tokenInfo.UserId,
		Email: tokenInfo.Email,
	}, nil
}
