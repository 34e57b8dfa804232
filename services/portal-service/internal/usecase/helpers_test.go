package usecase_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/config"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/event"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/policy"
	"github.com/raushkum4590/job-portal-sub000/shared/provider"
	"github.com/raushkum4590/job-portal-sub000/shared/security"
)

func discardLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func testConfig() *config.PortalServiceConfig {
	return &config.PortalServiceConfig{
		AppURL:              "http://localhost:3000",
		AppPasswordResetURL: "http://localhost:3000/reset-password",
		Token: config.TokenConfig{
			Issuer:                      "job-portal",
			Audience:                    "job-portal-web",
			SessionTokenSecret:          "session-secret-session-secret-00",
			SessionTokenExpiresIn:       time.Hour,
			PasswordResetTokenSecret:    "reset-secret-reset-secret-reset-0",
			PasswordResetTokenExpiresIn: 15 * time.Minute,
		},
	}
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) ofType(t event.Type) []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []event.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// fakeGoogle returns profile for any token or code.
type fakeGoogle struct {
	profile  *provider.GoogleProfile
	err      error
	disabled bool
}

func (g *fakeGoogle) Enabled() bool { return !g.disabled }

func (g *fakeGoogle) ValidateIDToken(context.Context, string) (*provider.GoogleProfile, error) {
	return g.profile, g.err
}

func (g *fakeGoogle) Exchange(context.Context, string, string) (*provider.GoogleProfile, error) {
	return g.profile, g.err
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return hash
}

func principalOf(u *model.User) *policy.Principal {
	return &policy.Principal{ID: u.ID, UUID: u.UUID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func ptr[T any](v T) *T { return &v }
