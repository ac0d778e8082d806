package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"bookify/internal/auth"
	"bookify/internal/httpx"
	"bookify/internal/session"
)

type SessionHandler struct {
	sessions *session.Manager
	secret   string
	tokenTTL time.Duration
}

func NewSessionHandler(sessions *session.Manager, secret string, tokenTTL time.Duration) *SessionHandler {
	return &SessionHandler{sessions: sessions, secret: secret, tokenTTL: tokenTTL}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login serves POST /session/login. Authentication is a mock: any
// present email and password are accepted and a token is issued.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		JSONError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}

	token, err := auth.Login(h.secret, body.Email, body.Password, h.tokenTTL)
	if err != nil {
		if errors.Is(err, auth.ErrMissingCredentials) {
			JSONError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
			return
		}
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}

	if err := h.sessions.SetUser(r.Context(), body.Email, session.User{Email: body.Email}); err != nil {
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}

	JSONSuccess(w, map[string]any{
		"token": token,
		"user":  session.User{Email: body.Email},
	}, nil)
}

// Logout serves POST /session/logout: clears the user marker, cart and
// favorites. Ratings are kept.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	email := httpx.UserEmailFrom(r)
	if err := h.sessions.Logout(r.Context(), email); err != nil {
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}
	JSONSuccess(w, map[string]any{"logged_out": true}, nil)
}

// Me serves GET /session/me.
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	email := httpx.UserEmailFrom(r)
	lines, err := h.sessions.Cart(r.Context(), email)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}
	JSONSuccess(w, map[string]any{
		"email":      email,
		"cart_count": session.ItemCount(lines),
	}, nil)
}
