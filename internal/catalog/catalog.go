package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/net/html"
)

// Catalog is the immutable, id-ordered result of one ingestion run.
// It is built once and never mutated; session state references entries
// by id instead of embedding copies.
type Catalog struct {
	books []Book
	byID  map[int]Book
}

func New(books []Book) *Catalog {
	byID := make(map[int]Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	return &Catalog{books: books, byID: byID}
}

func (c *Catalog) Len() int { return len(c.books) }

// Books returns all entries in ascending id order.
func (c *Catalog) Books() []Book {
	out := make([]Book, len(c.books))
	copy(out, c.books)
	return out
}

func (c *Catalog) ByID(id int) (Book, error) {
	b, ok := c.byID[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

// Featured returns the first n entries. Iteration order is deterministic
// (id ascending), so featured and carousel views are stable across loads.
func (c *Catalog) Featured(n int) []Book {
	if n > len(c.books) {
		n = len(c.books)
	}
	out := make([]Book, n)
	copy(out, c.books[:n])
	return out
}

// Genres returns the unique genre names, sorted.
func (c *Catalog) Genres() []string {
	seen := make(map[string]bool)
	var genres []string
	for _, b := range c.books {
		if !seen[b.Genre] {
			seen[b.Genre] = true
			genres = append(genres, b.Genre)
		}
	}
	sort.Strings(genres)
	return genres
}

// ByGenre returns the entries in a genre. The name may arrive literal,
// markup-escaped, or URL-encoded; all three forms match the same books.
func (c *Catalog) ByGenre(name string) []Book {
	want := normalizeGenre(name)
	var out []Book
	for _, b := range c.books {
		if normalizeGenre(b.Genre) == want {
			out = append(out, b)
		}
	}
	return out
}

// Related returns up to n entries sharing a genre with id, excluding id.
func (c *Catalog) Related(id int, n int) []Book {
	b, err := c.ByID(id)
	if err != nil {
		return nil
	}
	var out []Book
	for _, other := range c.books {
		if other.ID != id && other.Genre == b.Genre {
			out = append(out, other)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

// Search matches the query against title and author, case-insensitively.
func (c *Catalog) Search(query string) []Book {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Book
	for _, b := range c.books {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			out = append(out, b)
		}
	}
	return out
}

// Sort keys accepted by SortBooks.
const (
	SortTitle     = "title"
	SortPriceAsc  = "price-low"
	SortPriceDesc = "price-high"
	SortRating    = "rating"
)

// SortBooks returns a copy of books ordered by the given key. Unknown
// keys leave the original order untouched.
func SortBooks(books []Book, key string) []Book {
	out := make([]Book, len(books))
	copy(out, books)
	switch key {
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return priceOf(out[i]) < priceOf(out[j]) })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return priceOf(out[i]) > priceOf(out[j]) })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return ratingOf(out[i]) > ratingOf(out[j]) })
	}
	return out
}

func priceOf(b Book) float64 {
	v, _ := strconv.ParseFloat(b.Price, 64)
	return v
}

func ratingOf(b Book) float64 {
	v, _ := strconv.ParseFloat(b.Rating, 64)
	return v
}

func normalizeGenre(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		s = u
	}
	return strings.TrimSpace(html.UnescapeString(s))
}

// Holder hands the catalog reference to readers. The reference is
// swapped exactly once per load; readers see either the empty pre-load
// catalog or the fully populated one, never a partial list.
type Holder struct {
	ptr atomic.Pointer[Catalog]
}

func NewHolder() *Holder {
	h := &Holder{}
	h.ptr.Store(New(nil))
	return h
}

func (h *Holder) Get() *Catalog { return h.ptr.Load() }

func (h *Holder) Set(c *Catalog) { h.ptr.Store(c) }
