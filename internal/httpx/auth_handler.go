package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sportsdist/commerce/internal/auth"
)

type CredentialStore interface {
	Signup(ctx context.Context, name, email, password string) (auth.Customer, error)
	Authenticate(ctx context.Context, email, password string) (auth.Customer, error)
	Get(ctx context.Context, customerID string) (auth.Customer, error)
}

type SessionStore interface {
	SessionResolver
	Create(ctx context.Context, customerID string) (token string, err error)
	Destroy(ctx context.Context, token string) error
}

type AuthHandler struct {
	Credentials CredentialStore
	Sessions    SessionStore
	TTL         time.Duration
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/signup", h.signup)
	r.Post("/auth/login", h.login)
	r.Post("/auth/logout", h.logout)
	r.Get("/auth/status", h.status)
}

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Credentials.Signup(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Signup successful.",
		"userId":  c.ID,
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Credentials.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	token, err := h.Sessions.Create(ctx, c.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	ok(w, map[string]any{
		"message": "Login successful.",
		"user":    map[string]any{"id": c.ID, "email": c.Email, "name": c.Name},
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if err := h.Sessions.Destroy(r.Context(), c.Value); err != nil {
			respondError(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	ok(w, map[string]any{"message": "Logout successful."})
}

// status reports login state without the failure envelope; an anonymous
// visitor is a normal outcome here, not an error.
func (h *AuthHandler) status(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		token = c.Value
	}

	customerID, err := h.Sessions.Resolve(r.Context(), token)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"isLoggedIn": false})
		return
	}

	c, err := h.Credentials.Get(r.Context(), customerID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"isLoggedIn": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"isLoggedIn": true,
		"user":       map[string]any{"id": c.ID, "email": c.Email, "name": c.Name},
	})
}
