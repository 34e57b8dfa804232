package usecase_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/config"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/repository/repotest"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/usecase"
	"github.com/raushkum4590/job-portal-sub000/shared/auth"
	"github.com/raushkum4590/job-portal-sub000/shared/security"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type recordingMailer struct {
	sent []sentMail
}

func (m *recordingMailer) SendHTML(to []string, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

var resetTokenPattern = regexp.MustCompile(`token=([A-Za-z0-9_\-.]+)`)

func (m *recordingMailer) lastToken(t *testing.T) string {
	t.Helper()
	if len(m.sent) == 0 {
		t.Fatal("no email sent")
	}
	match := resetTokenPattern.FindStringSubmatch(m.sent[len(m.sent)-1].body)
	if match == nil {
		t.Fatal("reset link not found in email body")
	}
	return match[1]
}

func newPasswordResetFixture(cfg *config.PortalServiceConfig) (*repotest.Users, *recordingMailer, usecase.PasswordResetUsecase) {
	users := repotest.NewUsers()
	mail := &recordingMailer{}
	uc := usecase.NewPasswordResetUsecase(
		users,
		auth.NewJWTAuthenticator(cfg.Token.PasswordResetTokenSecret, cfg.Token.Issuer, cfg.Token.Audience+"/password-reset"),
		mail,
		cfg,
		discardLogger(),
	)
	return users, mail, uc
}

func TestRequestPasswordReset_SilentForUnknownAndOAuthOnly(t *testing.T) {
	users, mail, uc := newPasswordResetFixture(testConfig())
	users.Seed(&model.User{UUID: "g", Email: "g@x.com", PasswordHash: model.OAuthPasswordSentinel, Role: model.RoleUser})

	for _, email := range []string{"nobody@x.com", "g@x.com"} {
		if err := uc.RequestPasswordReset(context.Background(), email); err != nil {
			t.Errorf("RequestPasswordReset(%q) = %v, want nil", email, err)
		}
	}
	if len(mail.sent) != 0 {
		t.Errorf("sent %d emails, want 0", len(mail.sent))
	}
}

func TestPasswordReset_FullFlow(t *testing.T) {
	users, mail, uc := newPasswordResetFixture(testConfig())
	u := users.Seed(&model.User{
		UUID:         "u1",
		Name:         "<b>Ada</b>",
		Email:        "ada@x.com",
		PasswordHash: mustHash(t, "old-password"),
		Role:         model.RoleUser,
	})

	if err := uc.RequestPasswordReset(context.Background(), "ADA@x.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if got := mail.sent[0].to; len(got) != 1 || got[0] != "ada@x.com" {
		t.Errorf("to = %v", got)
	}
	if strings.Contains(mail.sent[0].body, "<b>Ada</b>") {
		t.Error("user name must be escaped in the email body")
	}

	token := mail.lastToken(t)
	if err := uc.ValidatePasswordResetToken(context.Background(), token); err != nil {
		t.Fatalf("ValidatePasswordResetToken: %v", err)
	}

	if err := uc.ResetPassword(context.Background(), token, "new-password"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	stored := users.Get(u.ID)
	if ok, _ := security.VerifyPassword("new-password", stored.PasswordHash); !ok {
		t.Error("new password does not verify")
	}

	if err := uc.ResetPassword(context.Background(), token, "another-one"); !errors.Is(err, usecase.ErrTokenAlreadyUsed) {
		t.Errorf("second use err = %v, want ErrTokenAlreadyUsed", err)
	}
}

func TestPasswordReset_NewerRequestReplacesOlderToken(t *testing.T) {
	users, mail, uc := newPasswordResetFixture(testConfig())
	users.Seed(&model.User{UUID: "u1", Email: "a@x.com", PasswordHash: mustHash(t, "pw-12345"), Role: model.RoleUser})

	if err := uc.RequestPasswordReset(context.Background(), "a@x.com"); err != nil {
		t.Fatal(err)
	}
	first := mail.lastToken(t)
	if err := uc.RequestPasswordReset(context.Background(), "a@x.com"); err != nil {
		t.Fatal(err)
	}

	if err := uc.ValidatePasswordResetToken(context.Background(), first); !errors.Is(err, usecase.ErrTokenNotFound) {
		t.Errorf("old token err = %v, want ErrTokenNotFound", err)
	}
	if err := uc.ValidatePasswordResetToken(context.Background(), mail.lastToken(t)); err != nil {
		t.Errorf("new token err = %v", err)
	}
}

func TestPasswordReset_RejectsBadTokens(t *testing.T) {
	cfg := testConfig()
	cfg.Token.PasswordResetTokenExpiresIn = -time.Minute
	users, mail, uc := newPasswordResetFixture(cfg)
	users.Seed(&model.User{UUID: "u1", Email: "a@x.com", PasswordHash: mustHash(t, "pw-12345"), Role: model.RoleUser})

	if err := uc.RequestPasswordReset(context.Background(), "a@x.com"); err != nil {
		t.Fatal(err)
	}

	if err := uc.ResetPassword(context.Background(), mail.lastToken(t), "new-password"); !errors.Is(err, usecase.ErrTokenExpired) {
		t.Errorf("expired token err = %v, want ErrTokenExpired", err)
	}
	if err := uc.ValidatePasswordResetToken(context.Background(), "not-a-jwt"); !errors.Is(err, usecase.ErrInvalidToken) {
		t.Errorf("garbage token err = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordReset_SessionTokenIsNotAResetToken(t *testing.T) {
	cfg := testConfig()
	_, _, uc := newPasswordResetFixture(cfg)

	sessionAuth := auth.NewJWTAuthenticator(cfg.Token.SessionTokenSecret, cfg.Token.Issuer, cfg.Token.Audience)
	authUC := usecase.NewAuthUsecase(repotest.NewUsers(), &recordingPublisher{}, &fakeGoogle{}, sessionAuth, cfg, discardLogger())
	token, _, err := authUC.IssueSessionToken(&model.Session{ID: "u1", Email: "a@x.com"})
	if err != nil {
		t.Fatal(err)
	}

	if err := uc.ValidatePasswordResetToken(context.Background(), token); !errors.Is(err, usecase.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
