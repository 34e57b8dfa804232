package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raushkum4590/job-portal-sub000/shared/cookie"
)

func TestNames_DependOnEnvironment(t *testing.T) {
	dev := cookie.NewJar(false)
	prod := cookie.NewJar(true)

	cases := []struct {
		got, want string
	}{
		{dev.SessionName(), "session-token"},
		{dev.CSRFName(), "csrf-token"},
		{dev.PKCEName(), "pkce.code_verifier"},
		{prod.SessionName(), "__Secure-session-token"},
		{prod.CSRFName(), "__Host-csrf-token"},
		{prod.PKCEName(), "__Secure-pkce.code_verifier"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("cookie name = %q, want %q", c.got, c.want)
		}
	}
}

func TestSetSession_Flags(t *testing.T) {
	jar := cookie.NewJar(true)
	rec := httptest.NewRecorder()

	jar.SetSession(rec, "tok", time.Now().Add(time.Hour))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("session cookie flags = httpOnly:%v secure:%v sameSite:%v", c.HttpOnly, c.Secure, c.SameSite)
	}
}

func TestVerifyCSRF(t *testing.T) {
	jar := cookie.NewJar(false)

	rec := httptest.NewRecorder()
	token, err := jar.IssueCSRF(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("IssueCSRF: %v", err)
	}

	withHeader := func(h string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.AddCookie(&http.Cookie{Name: jar.CSRFName(), Value: token})
		if h != "" {
			r.Header.Set(cookie.CSRFHeader, h)
		}
		return r
	}

	if !jar.VerifyCSRF(withHeader(token)) {
		t.Error("matching header should pass")
	}
	if jar.VerifyCSRF(withHeader("forged")) {
		t.Error("mismatched header should fail")
	}
	if jar.VerifyCSRF(withHeader("")) {
		t.Error("missing header should fail")
	}
}

func TestIssueCSRF_ReusesExisting(t *testing.T) {
	jar := cookie.NewJar(false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: jar.CSRFName(), Value: "existing"})

	got, err := jar.IssueCSRF(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("IssueCSRF: %v", err)
	}
	if got != "existing" {
		t.Errorf("token = %q, want existing", got)
	}
}
