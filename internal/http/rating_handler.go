package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookify/internal/catalog"
	"bookify/internal/httpx"
	"bookify/internal/session"
)

type RatingHandler struct {
	catalogs *catalog.Holder
	sessions *session.Manager
}

func NewRatingHandler(catalogs *catalog.Holder, sessions *session.Manager) *RatingHandler {
	return &RatingHandler{catalogs: catalogs, sessions: sessions}
}

type rateRequest struct {
	Star int `json:"star"`
}

// Rate serves POST /catalog/books/{id}/rating. Rating requires login;
// the star is stored in the viewer's session, not on the catalog entry.
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRatingBookID(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	email := httpx.UserEmailFrom(r)
	if email == "" {
		JSONError(w, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}

	var body rateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		JSONError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}

	book, err := h.catalogs.Get().ByID(id)
	if err != nil {
		JSONError(w, http.StatusNotFound, "not_found", "book not found", nil)
		return
	}

	if err := h.sessions.Rate(r.Context(), email, id, body.Star); err != nil {
		if errors.Is(err, session.ErrInvalidStar) {
			JSONError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
			return
		}
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}

	JSONSuccess(w, map[string]any{
		"id":             id,
		"your_rating":    body.Star,
		"average_rating": blendedRating(book, body.Star),
	}, nil)
}

// GetRating serves GET /catalog/books/{id}/rating.
func (h *RatingHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRatingBookID(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	book, err := h.catalogs.Get().ByID(id)
	if err != nil {
		JSONError(w, http.StatusNotFound, "not_found", "book not found", nil)
		return
	}

	var yourRating int
	if email := httpx.UserEmailFrom(r); email != "" {
		if star, rErr := h.sessions.Rating(r.Context(), email, id); rErr == nil {
			yourRating = star
		}
	}

	JSONSuccess(w, map[string]any{
		"id":             id,
		"your_rating":    yourRating,
		"average_rating": blendedRating(book, yourRating),
	}, nil)
}

// parseRatingBookID handles /catalog/books/{id}/rating.
func parseRatingBookID(path string) (int, bool) {
	trimmed := strings.Trim(path, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 4 || parts[0] != "catalog" || parts[1] != "books" || parts[3] != "rating" {
		return 0, false
	}
	id, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, false
	}
	return id, true
}
