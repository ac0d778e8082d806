package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookify/internal/session"
	"bookify/internal/store"
	"bookify/internal/testutil"
)

func newFavoritesEnv(t *testing.T) (*FavoritesHandler, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(store.NewMemoryKV())
	return NewFavoritesHandler(newTestCatalog(), sessions), sessions
}

func TestFavoritesToggle(t *testing.T) {
	h, _ := newFavoritesEnv(t)

	w := httptest.NewRecorder()
	h.Toggle(w, asUser(testutil.NewRequest(http.MethodPost, "/favorites/2", nil), testutil.TestEmail))
	require.Equal(t, http.StatusOK, w.Code)
	data := testutil.DecodeBody(w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["favorite"])

	w = httptest.NewRecorder()
	h.Toggle(w, asUser(testutil.NewRequest(http.MethodPost, "/favorites/2", nil), testutil.TestEmail))
	require.Equal(t, http.StatusOK, w.Code)
	data = testutil.DecodeBody(w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["favorite"], "second toggle removes")
}

func TestFavoritesToggleUnknownBook(t *testing.T) {
	h, _ := newFavoritesEnv(t)
	w := httptest.NewRecorder()
	h.Toggle(w, asUser(testutil.NewRequest(http.MethodPost, "/favorites/99", nil), testutil.TestEmail))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoritesList(t *testing.T) {
	h, sessions := newFavoritesEnv(t)
	r := asUser(testutil.NewRequest(http.MethodGet, "/favorites", nil), testutil.TestEmail)

	_, err := sessions.ToggleFavorite(r.Context(), testutil.TestEmail, 3)
	require.NoError(t, err)
	_, err = sessions.ToggleFavorite(r.Context(), testutil.TestEmail, 1)
	require.NoError(t, err)
	// a favorite whose book has since left the catalog
	_, err = sessions.ToggleFavorite(r.Context(), testutil.TestEmail, 77)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	books := testutil.DecodeBody(w)["data"].([]interface{})
	require.Len(t, books, 2, "vanished ids are skipped")
	assert.Equal(t, "Gamma", books[0].(map[string]interface{})["title"])
	assert.Equal(t, "Alpha", books[1].(map[string]interface{})["title"])
}
