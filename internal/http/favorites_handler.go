package http

import (
	"net/http"
	"strconv"
	"strings"

	"bookify/internal/catalog"
	"bookify/internal/httpx"
	"bookify/internal/session"
)

type FavoritesHandler struct {
	catalogs *catalog.Holder
	sessions *session.Manager
}

func NewFavoritesHandler(catalogs *catalog.Holder, sessions *session.Manager) *FavoritesHandler {
	return &FavoritesHandler{catalogs: catalogs, sessions: sessions}
}

// List serves GET /favorites: the favorite entries resolved against the
// catalog. Ids no longer present in the catalog are skipped silently.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	email := httpx.UserEmailFrom(r)
	ids, err := h.sessions.Favorites(r.Context(), email)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}

	c := h.catalogs.Get()
	books := make([]catalog.Book, 0, len(ids))
	for _, id := range ids {
		if b, bErr := c.ByID(id); bErr == nil {
			books = append(books, b)
		}
	}
	JSONSuccess(w, books, map[string]any{"total": len(books)})
}

// Toggle serves POST /favorites/{id} and flips membership.
func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseFavoriteID(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	email := httpx.UserEmailFrom(r)

	if _, err := h.catalogs.Get().ByID(id); err != nil {
		JSONError(w, http.StatusNotFound, "not_found", "book not found", nil)
		return
	}

	favorite, err := h.sessions.ToggleFavorite(r.Context(), email, id)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}
	JSONSuccess(w, map[string]any{"id": id, "favorite": favorite}, nil)
}

// parseFavoriteID handles /favorites/{id}.
func parseFavoriteID(path string) (int, bool) {
	trimmed := strings.Trim(path, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] != "favorites" {
		return 0, false
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
