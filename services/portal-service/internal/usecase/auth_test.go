package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/event"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/repository"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/repository/repotest"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/usecase"
	"github.com/raushkum4590/job-portal-sub000/shared/auth"
	"github.com/raushkum4590/job-portal-sub000/shared/provider"
	"github.com/raushkum4590/job-portal-sub000/shared/security"
)

type authFixture struct {
	users     *repotest.Users
	publisher *recordingPublisher
	google    *fakeGoogle
	uc        usecase.AuthUsecase
}

func newAuthFixture() *authFixture {
	cfg := testConfig()
	f := &authFixture{
		users:     repotest.NewUsers(),
		publisher: &recordingPublisher{},
		google:    &fakeGoogle{},
	}
	f.uc = usecase.NewAuthUsecase(
		f.users,
		f.publisher,
		f.google,
		auth.NewJWTAuthenticator(cfg.Token.SessionTokenSecret, cfg.Token.Issuer, cfg.Token.Audience),
		cfg,
		discardLogger(),
	)
	return f
}

// ── Credentials ────────────────────────────────────────────────────────────

func TestSignUp_DefaultsToJobSeeker(t *testing.T) {
	f := newAuthFixture()

	res, err := f.uc.SignUp(context.Background(), usecase.SignUpParams{
		Name:     "Ada",
		Email:    " Ada@Example.com ",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if res.Session.Role != model.RoleUser {
		t.Errorf("role = %q, want user", res.Session.Role)
	}
	if res.Session.Email != "ada@example.com" {
		t.Errorf("email = %q, want normalized", res.Session.Email)
	}
	if res.Session.IsNewUser {
		t.Error("credential sessions should not be new")
	}
	if res.RedirectTo != "/jobs" {
		t.Errorf("redirect = %q, want /jobs", res.RedirectTo)
	}
	if got := len(f.publisher.ofType(event.TypeFirstLoginCompleted)); got != 1 {
		t.Errorf("welcome events = %d, want 1", got)
	}
}

func TestSignUp_EmployerLandsOnProfileCompletion(t *testing.T) {
	f := newAuthFixture()

	res, err := f.uc.SignUp(context.Background(), usecase.SignUpParams{
		Name: "Acme HR", Email: "hr@acme.io", Password: "correct-horse", Role: model.RoleEmployer,
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if res.RedirectTo != "/employer/complete-profile" {
		t.Errorf("redirect = %q", res.RedirectTo)
	}
}

func TestSignUp_RejectsAdminRole(t *testing.T) {
	f := newAuthFixture()

	_, err := f.uc.SignUp(context.Background(), usecase.SignUpParams{
		Name: "Root", Email: "root@x.com", Password: "correct-horse", Role: model.RoleAdmin,
	})
	var verr *usecase.ValidationError
	if !errors.As(err, &verr) || verr.Fields["role"] == "" {
		t.Fatalf("err = %v, want role validation error", err)
	}
	if f.users.Count() != 0 {
		t.Error("no user should be created")
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.users.Seed(&model.User{UUID: "u1", Email: "dup@x.com", Role: model.RoleUser})

	_, err := f.uc.SignUp(context.Background(), usecase.SignUpParams{
		Name: "Dup", Email: "DUP@x.com", Password: "correct-horse",
	})
	if !errors.Is(err, usecase.ErrUserAlreadyExists) {
		t.Fatalf("err = %v, want ErrUserAlreadyExists", err)
	}
}

func TestSignInWithPassword(t *testing.T) {
	f := newAuthFixture()
	f.users.Seed(&model.User{
		UUID:         "u1",
		Name:         "Emp",
		Email:        "e@x.com",
		PasswordHash: mustHash(t, "s3cret-pass"),
		Role:         model.RoleEmployer,
		EmployerProfile: &model.EmployerProfile{
			CompanyName:      "Acme",
			ProfileCompleted: true,
		},
	})
	f.users.Seed(&model.User{
		UUID:         "u2",
		Email:        "oauth@x.com",
		PasswordHash: model.OAuthPasswordSentinel,
		Role:         model.RoleUser,
	})

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "E@x.com", "s3cret-pass", nil},
		{"wrong password", "e@x.com", "nope", usecase.ErrInvalidCredentials},
		{"unknown email", "who@x.com", "s3cret-pass", usecase.ErrInvalidCredentials},
		{"oauth only account", "oauth@x.com", model.OAuthPasswordSentinel, usecase.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.uc.SignInWithPassword(context.Background(), usecase.SignInParams{
				Email:    tt.email,
				Password: tt.password,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if res.Session.Role != model.RoleEmployer || res.Session.IsNewUser {
				t.Errorf("session = %+v", res.Session)
			}
			if res.RedirectTo != "/employer/dashboard" {
				t.Errorf("redirect = %q", res.RedirectTo)
			}
		})
	}
}

func TestSignInWithPassword_EmptyInputSkipsStore(t *testing.T) {
	f := newAuthFixture()

	_, err := f.uc.SignInWithPassword(context.Background(), usecase.SignInParams{Email: "  ", Password: ""})
	if !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
	if f.users.Calls != 0 {
		t.Errorf("store calls = %d, want 0", f.users.Calls)
	}
}

func TestSignInWithPassword_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	f := newAuthFixture()
	f.users.Err = errors.New("connection reset")

	_, err := f.uc.SignInWithPassword(context.Background(), usecase.SignInParams{Email: "a@b.co", Password: "x"})
	if err == nil || errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}

// ── Welcome email ──────────────────────────────────────────────────────────

func TestWelcomeEventFiresOnce(t *testing.T) {
	f := newAuthFixture()
	f.users.Seed(&model.User{
		UUID:         "u1",
		Email:        "a@b.co",
		PasswordHash: mustHash(t, "pass-word"),
		Role:         model.RoleUser,
	})

	for i := 0; i < 3; i++ {
		if _, err := f.uc.SignInWithPassword(context.Background(), usecase.SignInParams{
			Email: "a@b.co", Password: "pass-word",
		}); err != nil {
			t.Fatalf("sign in %d: %v", i, err)
		}
	}

	events := f.publisher.ofType(event.TypeFirstLoginCompleted)
	if len(events) != 1 {
		t.Fatalf("welcome events = %d, want 1", len(events))
	}
	if got := events[0].(event.FirstLoginCompleted).Email; got != "a@b.co" {
		t.Errorf("welcome email to %q", got)
	}
}

func TestWelcomePublishFailureDoesNotFailSignIn(t *testing.T) {
	f := newAuthFixture()
	f.publisher.err = errors.New("bus full")

	if _, err := f.uc.SignUp(context.Background(), usecase.SignUpParams{
		Name: "A", Email: "a@b.co", Password: "pass-word",
	}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
}

// ── Google ─────────────────────────────────────────────────────────────────

func TestGoogleSignIn_NewAccount(t *testing.T) {
	f := newAuthFixture()
	f.google.profile = &provider.GoogleProfile{ID: "g-1", Email: "New@Gmail.com", Name: "Newbie"}

	res, err := f.uc.SignInWithGoogleIDToken(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("SignInWithGoogleIDToken: %v", err)
	}

	if res.Session.Role != model.RoleUser || !res.Session.IsNewUser {
		t.Errorf("session = %+v, want new job seeker", res.Session)
	}
	if res.RedirectTo != "/select-role" {
		t.Errorf("redirect = %q", res.RedirectTo)
	}

	stored, err := f.users.GetUserByEmailWithPassword(context.Background(), "new@gmail.com")
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.HasPassword() {
		t.Error("google accounts must not have a usable password")
	}
	if !stored.LinkedToGoogle("g-1") {
		t.Error("google account not linked")
	}
}

func TestGoogleSignIn_LinksExistingEmployer(t *testing.T) {
	f := newAuthFixture()
	hash := mustHash(t, "employer-pass")
	seeded := f.users.Seed(&model.User{
		UUID:             "emp",
		Name:             "Employer",
		Email:            "e@x.com",
		PasswordHash:     hash,
		Role:             model.RoleEmployer,
		WelcomeEmailSent: true,
	})
	f.google.profile = &provider.GoogleProfile{ID: "g-9", Email: "e@x.com", Name: "Someone Else"}

	res, err := f.uc.SignInWithGoogleCode(context.Background(), "code", "verifier")
	if err != nil {
		t.Fatalf("SignInWithGoogleCode: %v", err)
	}

	if res.Session.Role != model.RoleEmployer {
		t.Errorf("role = %q, want employer", res.Session.Role)
	}
	if res.Session.IsNewUser {
		t.Error("linked account must not be new")
	}

	stored := f.users.Get(seeded.ID)
	if !stored.LinkedToGoogle("g-9") {
		t.Error("google account not linked")
	}
	if stored.PasswordHash != hash {
		t.Error("password hash was overwritten")
	}
	if stored.Name != "Employer" {
		t.Errorf("name = %q, want unchanged", stored.Name)
	}
	if f.users.Count() != 1 {
		t.Errorf("users = %d, want 1", f.users.Count())
	}
	if n := len(f.publisher.ofType(event.TypeFirstLoginCompleted)); n != 0 {
		t.Errorf("welcome events = %d, want 0 for an already welcomed account", n)
	}
}

func TestGoogleSignIn_AlreadyLinkedUsesStoredState(t *testing.T) {
	f := newAuthFixture()
	f.users.Seed(&model.User{
		UUID:  "u1",
		Email: "seeker@x.com",
		Role:  model.RoleUser,
		OAuth: model.OAuthLinks{Google: &model.OAuthAccount{ID: "g-2", Email: "seeker@x.com"}},
		JobSeekerProfile: &model.JobSeekerProfile{
			Headline:         "Go dev",
			ProfileCompleted: true,
		},
	})
	f.google.profile = &provider.GoogleProfile{ID: "g-2", Email: "seeker@x.com"}

	res, err := f.uc.SignInWithGoogleIDToken(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("SignInWithGoogleIDToken: %v", err)
	}
	if res.Session.IsNewUser {
		t.Error("seeker with completed profile should not be new")
	}
	if res.RedirectTo != "/jobs" {
		t.Errorf("redirect = %q", res.RedirectTo)
	}
}

func TestGoogleSignIn_Failures(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := newAuthFixture()
		f.google.disabled = true
		if _, err := f.uc.SignInWithGoogleIDToken(context.Background(), "t"); !errors.Is(err, usecase.ErrGoogleDisabled) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("token rejected", func(t *testing.T) {
		f := newAuthFixture()
		f.google.err = errors.New("bad audience")
		if _, err := f.uc.SignInWithGoogleIDToken(context.Background(), "t"); !errors.Is(err, usecase.ErrGoogleSignInFailed) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("email linked to another google account", func(t *testing.T) {
		f := newAuthFixture()
		f.users.Seed(&model.User{
			UUID:  "u1",
			Email: "seeker@x.com",
			Role:  model.RoleUser,
			OAuth: model.OAuthLinks{Google: &model.OAuthAccount{ID: "g-2", Email: "seeker@x.com"}},
		})
		f.google.profile = &provider.GoogleProfile{ID: "g-other", Email: "seeker@x.com"}

		if _, err := f.uc.SignInWithGoogleIDToken(context.Background(), "t"); !errors.Is(err, usecase.ErrGoogleAccountInUse) {
			t.Fatalf("err = %v, want ErrGoogleAccountInUse", err)
		}

		stored, err := f.users.GetUserByEmail(context.Background(), "seeker@x.com")
		if err != nil {
			t.Fatalf("GetUserByEmail: %v", err)
		}
		if !stored.LinkedToGoogle("g-2") {
			t.Errorf("existing link replaced: %+v", stored.OAuth.Google)
		}
	})

	t.Run("store failure rejects sign in", func(t *testing.T) {
		f := newAuthFixture()
		f.google.profile = &provider.GoogleProfile{ID: "g", Email: "a@b.co"}
		f.users.Err = errors.New("timeout")
		res, err := f.uc.SignInWithGoogleIDToken(context.Background(), "t")
		if err == nil || res != nil {
			t.Errorf("res = %v, err = %v, want failure", res, err)
		}
	})
}

// ── Sessions ───────────────────────────────────────────────────────────────

func TestSessionToken_RoundTrip(t *testing.T) {
	f := newAuthFixture()
	in := &model.Session{
		ID: "u1", Email: "a@b.co", Name: "A", Role: model.RoleEmployer, Provider: model.ProviderGoogle,
	}

	token, expiresAt, err := f.uc.IssueSessionToken(in)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}
	if expiresAt.IsZero() {
		t.Error("expiresAt not set")
	}

	out, err := f.uc.ParseSessionToken(token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if *out != *in {
		t.Errorf("session = %+v, want %+v", out, in)
	}

	if _, err := f.uc.ParseSessionToken(token + "x"); !errors.Is(err, usecase.ErrInvalidSession) {
		t.Errorf("tampered token err = %v", err)
	}
}

func TestRefreshSession_PicksUpSelectedRole(t *testing.T) {
	f := newAuthFixture()
	u := f.users.Seed(&model.User{UUID: "u1", Email: "a@b.co", Role: model.RoleUser})

	role := model.RoleEmployer
	if _, err := f.users.UpdateUser(context.Background(), u.ID, repository.UpdateUserParams{Role: &role}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	res, err := f.uc.RefreshSession(context.Background(), &model.Session{
		ID: "u1", Email: "a@b.co", Role: model.RoleUser, IsNewUser: true, Provider: model.ProviderGoogle,
	})
	if err != nil {
		t.Fatalf("RefreshSession: %v", err)
	}
	if res.Session.Role != model.RoleEmployer || res.Session.IsNewUser {
		t.Errorf("session = %+v", res.Session)
	}
}

func TestRefreshSession_UnknownUser(t *testing.T) {
	f := newAuthFixture()
	_, err := f.uc.RefreshSession(context.Background(), &model.Session{ID: "gone", Email: "g@x.com"})
	if !errors.Is(err, usecase.ErrInvalidSession) {
		t.Errorf("err = %v", err)
	}
}

func TestPrincipal_ReflectsStoredRole(t *testing.T) {
	f := newAuthFixture()
	u := f.users.Seed(&model.User{UUID: "u1", Email: "a@b.co", Role: model.RoleEmployer})

	p, err := f.uc.Principal(context.Background(), &model.Session{ID: "u1", Email: "a@b.co", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("Principal: %v", err)
	}
	if p.ID != u.ID || p.Role != model.RoleEmployer {
		t.Errorf("principal = %+v", p)
	}
}

func TestLandingPath(t *testing.T) {
	tests := []struct {
		user      model.User
		isNewUser bool
		want      string
	}{
		{model.User{Role: model.RoleAdmin}, false, "/admin"},
		{model.User{Role: model.RoleUser}, true, "/select-role"},
		{model.User{Role: model.RoleUser}, false, "/jobs"},
		{model.User{Role: model.RoleEmployer}, false, "/employer/complete-profile"},
		{model.User{
			Role:            model.RoleEmployer,
			EmployerProfile: &model.EmployerProfile{ProfileCompleted: true},
		}, false, "/employer/dashboard"},
	}
	for _, tt := range tests {
		if got := usecase.LandingPath(&tt.user, tt.isNewUser); got != tt.want {
			t.Errorf("LandingPath(%s, %v) = %q, want %q", tt.user.Role, tt.isNewUser, got, tt.want)
		}
	}
}

func TestVerifyPasswordHelperAgreesWithSignUp(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.uc.SignUp(context.Background(), usecase.SignUpParams{
		Name: "A", Email: "a@b.co", Password: "pass-word",
	}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	stored, err := f.users.GetUserByEmailWithPassword(context.Background(), "a@b.co")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if ok, err := security.VerifyPassword("pass-word", stored.PasswordHash); err != nil || !ok {
		t.Errorf("VerifyPassword = %v, %v", ok, err)
	}
}
