package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookify/internal/catalog"
	"bookify/internal/httpx"
	"bookify/internal/session"
)

// featuredCount is how many entries the home page shows.
const featuredCount = 16

type CatalogHandler struct {
	catalogs *catalog.Holder
	sessions *session.Manager
}

func NewCatalogHandler(catalogs *catalog.Holder, sessions *session.Manager) *CatalogHandler {
	return &CatalogHandler{catalogs: catalogs, sessions: sessions}
}

type genreSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (h *CatalogHandler) genreSummaries(c *catalog.Catalog) []genreSummary {
	genres := c.Genres()
	out := make([]genreSummary, 0, len(genres))
	for _, g := range genres {
		out = append(out, genreSummary{Name: g, Count: len(c.ByGenre(g))})
	}
	return out
}

// Home serves the storefront landing data: the genre grid plus the
// featured prefix of the catalog. An empty pre-load catalog renders as
// empty lists, never an error.
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	c := h.catalogs.Get()
	JSONSuccess(w, map[string]any{
		"genres":   h.genreSummaries(c),
		"featured": c.Featured(featuredCount),
	}, map[string]any{"total_books": c.Len()})
}

// List serves /catalog/books with optional genre, q and sort filters.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	c := h.catalogs.Get()

	books := c.Books()
	if genre := r.URL.Query().Get("genre"); genre != "" {
		books = c.ByGenre(genre)
	}
	if q := r.URL.Query().Get("q"); q != "" {
		books = filterBooks(books, q)
	}
	books = catalog.SortBooks(books, r.URL.Query().Get("sort"))

	JSONSuccess(w, books, map[string]any{"total": len(books)})
}

// GetByID serves /catalog/books/{id}: the entry, its related books, and
// the rating blended with the viewer's own star when they have one.
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBookID(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	c := h.catalogs.Get()
	book, err := c.ByID(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			JSONError(w, http.StatusNotFound, "not_found", "book not found", nil)
			return
		}
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}

	var yourRating int
	if email := httpx.UserEmailFrom(r); email != "" {
		if star, rErr := h.sessions.Rating(r.Context(), email, id); rErr == nil {
			yourRating = star
		}
	}

	JSONSuccess(w, map[string]any{
		"book":           book,
		"related":        c.Related(id, 4),
		"average_rating": blendedRating(book, yourRating),
		"your_rating":    yourRating,
	}, nil)
}

// Genres serves /catalog/genres.
func (h *CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, h.genreSummaries(h.catalogs.Get()), nil)
}

// GenreBooks serves /catalog/genres/{genre}/books. The genre segment
// may be URL-encoded or markup-escaped; both find the same entries.
func (h *CatalogHandler) GenreBooks(w http.ResponseWriter, r *http.Request) {
	genre, ok := parseGenre(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	books := h.catalogs.Get().ByGenre(genre)
	books = catalog.SortBooks(books, r.URL.Query().Get("sort"))
	JSONSuccess(w, books, map[string]any{"genre": genre, "total": len(books)})
}

// Search serves /catalog/search?q= against title and author.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		JSONError(w, http.StatusBadRequest, "bad_request", "query parameter q is required", nil)
		return
	}
	results := h.catalogs.Get().Search(q)
	JSONSuccess(w, results, map[string]any{"query": q, "total": len(results)})
}

func filterBooks(books []catalog.Book, q string) []catalog.Book {
	needle := strings.ToLower(q)
	var out []catalog.Book
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), needle) || strings.Contains(strings.ToLower(b.Author), needle) {
			out = append(out, b)
		}
	}
	return out
}

// blendedRating averages the catalog rating with the viewer's star, the
// way the detail page displays it. Without a star the catalog rating
// stands as-is.
func blendedRating(b catalog.Book, star int) string {
	if star <= 0 {
		return b.Rating
	}
	base, err := strconv.ParseFloat(b.Rating, 64)
	if err != nil {
		return b.Rating
	}
	return strconv.FormatFloat((base+float64(star))/2, 'f', 1, 64)
}

// parseBookID handles /catalog/books/{id} with net/http's ServeMux.
func parseBookID(path string) (int, bool) {
	trimmed := strings.Trim(path, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 3 || parts[0] != "catalog" || parts[1] != "books" {
		return 0, false
	}
	id, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseGenre handles /catalog/genres/{genre}/books.
func parseGenre(path string) (string, bool) {
	trimmed := strings.Trim(path, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 4 || parts[0] != "catalog" || parts[1] != "genres" || parts[3] != "books" {
		return "", false
	}
	return parts[2], parts[2] != ""
}
