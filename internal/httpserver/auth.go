// internal/httpserver/auth.go
//
// Accounts, JWT cookies and the anonymous browser id.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle-solver/internal/history"
)

const anonCookieName = "wordle_anon"

// authUser is placed into request context by the auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

func currentUser(ctx context.Context) *authUser {
	u, _ := ctx.Value(ctxUserKey{}).(*authUser)
	return u
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication and gated routes.
func (s *Server) mountAuthRoutes() {
	s.r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.With(s.requireAuth).Get("/me", s.handleMe)
	})
	s.r.With(s.requireAuth).Get("/stats/me", s.handleMyStats)
	s.r.With(s.requireAuth).Get("/attempts/mine", s.handleMyAttempts)
}

// handleSignup creates a user, signs a JWT, sets the auth cookie and claims
// anonymous history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "accounts_disabled")
		return
	}
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.history.CreateUser(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, history.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username taken")
		return
	case errors.Is(err, history.ErrInvalidSignup):
		writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), "history: invalid signup: "))
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "signup_failed")
		return
	}
	if !s.startSession(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates a user, sets the cookie and claims anonymous history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "accounts_disabled")
		return
	}
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.history.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		if !errors.Is(err, history.ErrBadCredentials) {
			hlog.FromRequest(r).Error().Err(err).Msg("authenticate")
		}
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !s.startSession(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, u *history.User) bool {
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.setCookie(w, s.cookieName(), tok, exp)
	anon := s.ensureAnonID(w, r)
	n, err := s.history.ClaimAnonymous(r.Context(), anon, u.ID)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("claim anonymous attempts")
	} else if n > 0 {
		hlog.FromRequest(r).Info().Int64("claimed", n).Str("user", u.ID).Msg("claimed anonymous attempts")
	}
	return true
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setCookie(w, s.cookieName(), "", time.Time{})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleMe returns the account with its stored counters.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.history.UserByID(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load user")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r.Context())
	st, err := s.history.Stats(r.Context(), history.Owner{UserID: me.ID})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":           me.ID,
		"played":       st.Played,
		"solved":       st.Solved,
		"streak":       st.Streak,
		"distribution": st.Distribution,
	})
}

func (s *Server) handleMyAttempts(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r.Context())
	recs, err := s.history.RecentAttempts(r.Context(), history.Owner{UserID: me.ID}, 50)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load attempts")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/username and the configured expiry.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	days := s.cfg.JWTExpiresDays
	if days <= 0 {
		days = 14
	}
	now := s.now()
	exp := now.Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseJWT verifies tok and returns the user it names.
func (s *Server) parseJWT(tok string) (*authUser, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &authUser{ID: id, Username: username}, nil
}

func (s *Server) cookieName() string {
	if s.cfg.CookieName != "" {
		return s.cfg.CookieName
	}
	return "wordle_token"
}

// setCookie writes an HttpOnly cookie; a zero exp deletes it.
func (s *Server) setCookie(w http.ResponseWriter, name, value string, exp time.Time) {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
	if exp.IsZero() {
		c.MaxAge = -1
	} else {
		c.Expires = exp
	}
	http.SetCookie(w, c)
}

// bearerOrCookie extracts a bearer token from the Authorization header or the auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cookieName()); err == nil {
		return c.Value
	}
	return ""
}

// ensureAnonID returns the browser's anonymous id, issuing one if needed.
// It keys the solver session and owns guest history.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	s.setCookie(w, anonCookieName, id, s.now().Add(180*24*time.Hour))
	return id
}

// ---------------------------- auth middleware ------------------------------

// withOptionalAuth decorates requests with user context when a valid JWT is
// present. It never rejects; guests may use these routes.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := s.authenticate(r); u != nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth enforces a valid JWT for an existing user.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.history == nil {
			writeError(w, http.StatusServiceUnavailable, "accounts_disabled")
			return
		}
		if s.bearerOrCookie(r) == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		u := s.authenticate(r)
		if u == nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
	})
}

// authenticate returns the signed-in user, or nil. The user must still exist.
func (s *Server) authenticate(r *http.Request) *authUser {
	tok := s.bearerOrCookie(r)
	if tok == "" || s.history == nil {
		return nil
	}
	u, err := s.parseJWT(tok)
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("rejected token")
		return nil
	}
	if _, err := s.history.UserByID(r.Context(), u.ID); err != nil {
		return nil
	}
	return u
}
