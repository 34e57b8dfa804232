package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/model"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/payload"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/usecase"
)

const (
	oauthStateKey    = "state"
	oauthVerifierKey = "verifier"
)

func (h *Handler) csrf(w http.ResponseWriter, r *http.Request) {
	token, err := h.cookies.IssueCSRF(w, r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.CSRFResponse{CSRFToken: token})
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req payload.SignUpRequest
	if !h.bind(w, r, &req, false) {
		return
	}

	res, err := h.auth.SignUp(r.Context(), usecase.SignUpParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusCreated, res)
}

// signIn accepts either credentials or a Google ID token.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req payload.SignInRequest
	if !h.bind(w, r, &req, false) {
		return
	}

	var (
		res *usecase.SignInResult
		err error
	)

	switch req.Provider {
	case model.ProviderGoogle:
		body := payload.GoogleSignIn{IDToken: req.IDToken}
		if err := h.validator.Struct(body); err != nil {
			h.respondError(w, r, err)
			return
		}
		res, err = h.auth.SignInWithGoogleIDToken(r.Context(), body.IDToken)
	default:
		body := payload.CredentialsSignIn{Email: req.Email, Password: req.Password}
		if err := h.validator.Struct(body); err != nil {
			h.respondError(w, r, err)
			return
		}
		res, err = h.auth.SignInWithPassword(r.Context(), usecase.SignInParams{
			Email:    body.Email,
			Password: body.Password,
		})
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, res)
}

// googleSignIn starts the authorization-code flow. The state and PKCE
// verifier travel in a signed cookie until the callback.
func (h *Handler) googleSignIn(w http.ResponseWriter, r *http.Request) {
	if h.google == nil || !h.google.Enabled() {
		h.respondError(w, r, usecase.ErrGoogleDisabled)
		return
	}

	state := uuid.NewString()
	verifier := h.google.NewVerifier()

	sess, _ := h.oauthStore.New(r, h.cookies.PKCEName())
	sess.Values[oauthStateKey] = state
	sess.Values[oauthVerifierKey] = verifier
	if err := sess.Save(r, w); err != nil {
		h.respondError(w, r, err)
		return
	}

	http.Redirect(w, r, h.google.AuthCodeURL(state, verifier), http.StatusFound)
}

func (h *Handler) googleCallback(w http.ResponseWriter, r *http.Request) {
	sess, err := h.oauthStore.Get(r, h.cookies.PKCEName())
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("unreadable oauth state cookie")
	}

	state, _ := sess.Values[oauthStateKey].(string)
	verifier, _ := sess.Values[oauthVerifierKey].(string)

	// The state cookie is single use.
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to clear oauth state cookie")
	}

	query := r.URL.Query()
	if state == "" || query.Get("state") != state {
		h.redirectToApp(w, r, "/signin", "OAuthCallback")
		return
	}
	if query.Get("error") != "" {
		h.redirectToApp(w, r, "/signin", "OAuthSignin")
		return
	}

	res, err := h.auth.SignInWithGoogleCode(r.Context(), query.Get("code"), verifier)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("google sign-in failed")
		h.redirectToApp(w, r, "/signin", "OAuthSignin")
		return
	}

	if _, _, err := h.setSessionCookie(w, res.Session); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.redirectToApp(w, r, res.RedirectTo, "")
}

// session renews the caller's session from the current account state.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	res, err := h.auth.RefreshSession(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, res)
}

func (h *Handler) signOut(w http.ResponseWriter, _ *http.Request) {
	h.cookies.ClearSession(w)
	writeJSON(w, http.StatusOK, payload.MessageResponse{Message: "signed out"})
}

func (h *Handler) writeSession(w http.ResponseWriter, r *http.Request, status int, res *usecase.SignInResult) {
	token, expiresAt, err := h.setSessionCookie(w, res.Session)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, status, payload.SessionResponse{
		Session:     res.Session,
		RedirectTo:  res.RedirectTo,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session *model.Session) (string, time.Time, error) {
	token, expiresAt, err := h.auth.IssueSessionToken(session)
	if err != nil {
		return "", time.Time{}, err
	}

	h.cookies.SetSession(w, token, expiresAt)

	return token, expiresAt, nil
}

func (h *Handler) redirectToApp(w http.ResponseWriter, r *http.Request, path, errorCode string) {
	target := strings.TrimRight(h.cfg.AppURL, "/") + path
	if errorCode != "" {
		target += "?error=" + url.QueryEscape(errorCode)
	}
	http.Redirect(w, r, target, http.StatusFound)
}
