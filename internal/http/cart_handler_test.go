package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookify/internal/checkout"
	"bookify/internal/session"
	"bookify/internal/store"
	"bookify/internal/testutil"
)

func newCartEnv(t *testing.T) (*CartHandler, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(store.NewMemoryKV())
	return NewCartHandler(newTestCatalog(), sessions, checkout.NewService(sessions)), sessions
}

func cartBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := testutil.DecodeBody(w)
	require.NotNil(t, body["data"], "expected a cart payload, got %v", body)
	return body["data"].(map[string]interface{})
}

func TestCartGetEmpty(t *testing.T) {
	h, _ := newCartEnv(t)

	w := httptest.NewRecorder()
	h.Get(w, asUser(testutil.NewRequest(http.MethodGet, "/cart", nil), testutil.TestEmail))

	require.Equal(t, http.StatusOK, w.Code)
	data := cartBody(t, w)
	assert.Empty(t, data["items"])
	assert.Equal(t, float64(0), data["count"])

	totals := data["totals"].(map[string]interface{})
	assert.Equal(t, "0.00", totals["total"])
}

func TestCartAddItem(t *testing.T) {
	h, _ := newCartEnv(t)

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPost, "/cart/items", map[string]int{"id": 1, "quantity": 2})
	h.AddItem(w, asUser(r, testutil.TestEmail))

	require.Equal(t, http.StatusOK, w.Code)
	data := cartBody(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(2), data["count"])

	totals := data["totals"].(map[string]interface{})
	assert.Equal(t, "20.00", totals["subtotal"])
	assert.Equal(t, "1.60", totals["tax"])
	assert.Equal(t, "21.60", totals["total"])
}

func TestCartAddItemUnknownBook(t *testing.T) {
	h, _ := newCartEnv(t)

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPost, "/cart/items", map[string]int{"id": 99, "quantity": 1})
	h.AddItem(w, asUser(r, testutil.TestEmail))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartAdjustItem(t *testing.T) {
	h, sessions := newCartEnv(t)

	seed := asUser(testutil.NewRequest(http.MethodPost, "/cart/items", map[string]int{"id": 1, "quantity": 2}), testutil.TestEmail)
	h.AddItem(httptest.NewRecorder(), seed)

	t.Run("negative delta shrinks the line", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPatch, "/cart/items/1", map[string]int{"delta": -1})
		h.AdjustItem(w, asUser(r, testutil.TestEmail))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), cartBody(t, w)["count"])
	})

	t.Run("delta to zero removes the line", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPatch, "/cart/items/1", map[string]int{"delta": -1})
		h.AdjustItem(w, asUser(r, testutil.TestEmail))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, cartBody(t, w)["items"])

		lines, err := sessions.Cart(r.Context(), testutil.TestEmail)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("absent line", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPatch, "/cart/items/42", map[string]int{"delta": 1})
		h.AdjustItem(w, asUser(r, testutil.TestEmail))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCartRemoveItem(t *testing.T) {
	h, _ := newCartEnv(t)

	seed := asUser(testutil.NewRequest(http.MethodPost, "/cart/items", map[string]int{"id": 2, "quantity": 1}), testutil.TestEmail)
	h.AddItem(httptest.NewRecorder(), seed)

	w := httptest.NewRecorder()
	h.RemoveItem(w, asUser(testutil.NewRequest(http.MethodDelete, "/cart/items/2", nil), testutil.TestEmail))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cartBody(t, w)["items"])
}

func TestCartCheckout(t *testing.T) {
	validForm := map[string]string{
		"card_number": "4242 4242 4242 4242",
		"expiry":      "12/28",
		"cvv":         "123",
	}

	t.Run("empty cart conflicts", func(t *testing.T) {
		h, _ := newCartEnv(t)
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/cart/checkout", validForm)
		h.Checkout(w, asUser(r, testutil.TestEmail))

		assert.Equal(t, http.StatusConflict, w.Code)
		body := testutil.DecodeBody(w)
		assert.Equal(t, "empty_cart", body["error"].(map[string]interface{})["code"])
	})

	t.Run("invalid form reports fields", func(t *testing.T) {
		h, _ := newCartEnv(t)
		seed := asUser(testutil.NewRequest(http.MethodPost, "/cart/items", map[string]int{"id": 1, "quantity": 1}), testutil.TestEmail)
		h.AddItem(httptest.NewRecorder(), seed)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/cart/checkout", map[string]string{
			"card_number": "4242",
			"expiry":      "13/28",
			"cvv":         "1",
		})
		h.Checkout(w, asUser(r, testutil.TestEmail))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errBody := testutil.DecodeBody(w)["error"].(map[string]interface{})
		assert.Equal(t, "validation_failed", errBody["code"])
		assert.Len(t, errBody["details"], 3)
	})

	t.Run("valid form yields an order and clears the cart", func(t *testing.T) {
		h, sessions := newCartEnv(t)
		seed := asUser(testutil.NewRequest(http.MethodPost, "/cart/items", map[string]int{"id": 1, "quantity": 1}), testutil.TestEmail)
		h.AddItem(httptest.NewRecorder(), seed)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/cart/checkout", validForm)
		h.Checkout(w, asUser(r, testutil.TestEmail))

		require.Equal(t, http.StatusOK, w.Code)
		order := testutil.DecodeBody(w)["data"].(map[string]interface{})
		assert.NotEmpty(t, order["id"])
		assert.GreaterOrEqual(t, order["number"], float64(100000))
		assert.Len(t, order["lines"], 1)

		lines, err := sessions.Cart(r.Context(), testutil.TestEmail)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}
