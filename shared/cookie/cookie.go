// Package cookie names and writes the cookies that carry the session, the
// CSRF double-submit token and the OAuth PKCE state.
//
// In production the session and PKCE cookies use the __Secure- prefix and the
// CSRF cookie uses __Host-, which browsers only accept over HTTPS.
package cookie

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"time"
)

const (
	sessionName = "session-token"
	csrfName    = "csrf-token"
	pkceName    = "pkce.code_verifier"

	securePrefix = "__Secure-"
	hostPrefix   = "__Host-"

	// CSRFHeader carries the double-submit token on unsafe requests.
	CSRFHeader = "X-CSRF-Token"
)

// Jar knows the environment-dependent cookie names and flags.
type Jar struct {
	secure bool
}

// NewJar returns a Jar. Production jars use prefixed names and Secure cookies.
func NewJar(production bool) *Jar {
	return &Jar{secure: production}
}

func (j *Jar) SessionName() string {
	if j.secure {
		return securePrefix + sessionName
	}
	return sessionName
}

func (j *Jar) CSRFName() string {
	if j.secure {
		return hostPrefix + csrfName
	}
	return csrfName
}

func (j *Jar) PKCEName() string {
	if j.secure {
		return securePrefix + pkceName
	}
	return pkceName
}

// Secure reports whether cookies are marked Secure.
func (j *Jar) Secure() bool { return j.secure }

// SetSession writes the signed session token.
func (j *Jar) SetSession(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     j.SessionName(),
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession expires the session cookie.
func (j *Jar) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     j.SessionName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session returns the session token from the request, if any.
func (j *Jar) Session(r *http.Request) (string, bool) {
	c, err := r.Cookie(j.SessionName())
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// IssueCSRF reuses the request's CSRF token when present, otherwise mints a new
// one, and writes it back as a cookie readable by the UI.
func (j *Jar) IssueCSRF(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(j.CSRFName()); err == nil && c.Value != "" {
		return c.Value, nil
	}

	token, err := randomToken(32)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     j.CSRFName(),
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return token, nil
}

// VerifyCSRF checks the double-submit header against the CSRF cookie.
func (j *Jar) VerifyCSRF(r *http.Request) bool {
	c, err := r.Cookie(j.CSRFName())
	if err != nil || c.Value == "" {
		return false
	}

	header := r.Header.Get(CSRFHeader)
	if header == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(header)) == 1
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
