package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ProductCatalog/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20
	tokenTTL     = 15 * time.Minute

	loginLimitPerMin    = 5
	registerLimitPerMin = 3
	limitWindowSeconds  = 60
)

type Server struct {
	Log   *zap.Logger
	Store UserStore
	JWT   *TokenMaker

	// Per-IP request budgets per minute; zero means the defaults.
	LoginLimit    int
	RegisterLimit int
}

// Routes returns the token-issuing sub-API, intended to be mounted at /auth.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	notFound := func(w http.ResponseWriter, r *http.Request) {
		kit.WriteError(w, r, http.StatusNotFound, "route not found", kit.CodeNotFound)
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	loginLimit, registerLimit := s.LoginLimit, s.RegisterLimit
	if loginLimit <= 0 {
		loginLimit = loginLimitPerMin
	}
	if registerLimit <= 0 {
		registerLimit = registerLimitPerMin
	}
	loginLimiter := kit.NewIPRateLimiter(loginLimit, limitWindowSeconds)
	registerLimiter := kit.NewIPRateLimiter(registerLimit, limitWindowSeconds)

	r.With(registerLimiter.Middleware).Post("/register", s.handleRegister)
	r.With(loginLimiter.Middleware).Post("/login", s.handleLogin)
	r.Get("/whoami", s.handleWhoAmI)

	return r
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid json body", kit.CodeValidationError)
		return
	}

	if req.Email == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "email and password are required", kit.CodeValidationError)
		return
	}
	if len(req.Password) < 8 {
		kit.WriteError(w, r, http.StatusBadRequest, "password must be at least 8 characters", kit.CodeValidationError)
		return
	}

	id := "u_" + uuid.NewString()

	if err := s.Store.Create(r.Context(), req.Email, req.Password, "user", id); err != nil {
		if err == ErrEmailExists {
			kit.WriteError(w, r, http.StatusConflict, err.Error(), kit.CodeConflict)
			return
		}
		s.Log.Error("create user failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "Internal server error", kit.CodeServerError)
		return
	}

	kit.WriteData(w, http.StatusCreated, map[string]any{"id": id, "email": req.Email})
}

type loginResp struct {
	AccessToken string `json:"accessToken"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid json body", kit.CodeValidationError)
		return
	}

	if req.Email == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "email and password are required", kit.CodeValidationError)
		return
	}

	u, err := s.Store.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == ErrInvalidCredentials {
			kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", kit.CodeUnauthorized)
			return
		}
		s.Log.Error("verify user failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "Internal server error", kit.CodeServerError)
		return
	}

	tok, err := s.JWT.New(u.ID, u.Email, u.Role, tokenTTL)
	if err != nil {
		s.Log.Error("token issue failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "Internal server error", kit.CodeServerError)
		return
	}

	kit.WriteData(w, http.StatusOK, loginResp{AccessToken: tok})
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, bearerPrefix) {
		kit.WriteError(w, r, http.StatusUnauthorized, "missing or malformed credential", kit.CodeUnauthorized)
		return
	}

	claims, err := s.JWT.Parse(strings.TrimPrefix(authz, bearerPrefix))
	if err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", kit.CodeUnauthorized)
		return
	}

	kit.WriteData(w, http.StatusOK, map[string]any{
		"userId": claims.UserID,
		"email":  claims.Email,
		"role":   claims.Role,
	})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req credentialsReq
	if err := dec.Decode(&req); err != nil {
		return credentialsReq{}, err
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Password = strings.TrimSpace(req.Password)
	return req, nil
}
