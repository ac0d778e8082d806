package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookify/internal/catalog"
	"bookify/internal/checkout"
	"bookify/internal/httpx"
	"bookify/internal/session"
)

type CartHandler struct {
	catalogs *catalog.Holder
	sessions *session.Manager
	checkout *checkout.Service
}

func NewCartHandler(catalogs *catalog.Holder, sessions *session.Manager, checkoutSvc *checkout.Service) *CartHandler {
	return &CartHandler{catalogs: catalogs, sessions: sessions, checkout: checkoutSvc}
}

// Get serves GET /cart: lines, totals, badge count.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := httpx.UserEmailFrom(r)
	lines, err := h.sessions.Cart(r.Context(), email)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}
	h.respondCart(w, lines)
}

type addItemRequest struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// AddItem serves POST /cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	email := httpx.UserEmailFrom(r)

	var body addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		JSONError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}

	book, err := h.catalogs.Get().ByID(body.ID)
	if err != nil {
		JSONError(w, http.StatusNotFound, "not_found", "book not found", nil)
		return
	}

	lines, err := h.sessions.AddToCart(r.Context(), email, book, body.Quantity)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}
	h.respondCart(w, lines)
}

type adjustItemRequest struct {
	Delta int `json:"delta"`
}

// AdjustItem serves PATCH /cart/items/{id}; a delta driving the
// quantity to zero or below removes the line.
func (h *CartHandler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseCartItemID(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	email := httpx.UserEmailFrom(r)

	var body adjustItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		JSONError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}

	lines, err := h.sessions.AdjustQuantity(r.Context(), email, id, body.Delta)
	if err != nil {
		if errors.Is(err, session.ErrNotInCart) {
			JSONError(w, http.StatusNotFound, "not_found", "book not in cart", nil)
			return
		}
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}
	h.respondCart(w, lines)
}

// RemoveItem serves DELETE /cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseCartItemID(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	email := httpx.UserEmailFrom(r)
	lines, err := h.sessions.RemoveFromCart(r.Context(), email, id)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}
	h.respondCart(w, lines)
}

// Checkout serves POST /cart/checkout: validates the payment form,
// snapshots the cart into an order, and clears it. No payment network
// is ever contacted.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	email := httpx.UserEmailFrom(r)

	var form checkout.PaymentForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		JSONError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}

	order, fieldErrs, err := h.checkout.Complete(r.Context(), email, form)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			JSONError(w, http.StatusConflict, "empty_cart", "cart is empty", nil)
			return
		}
		JSONError(w, http.StatusInternalServerError, "internal_error", "server error", nil)
		return
	}
	if fieldErrs != nil {
		details := make([]ErrorDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, ErrorDetail{Field: fe.Field, Message: fe.Message})
		}
		JSONError(w, http.StatusUnprocessableEntity, "validation_failed", "payment form is invalid", details)
		return
	}

	JSONSuccess(w, order, nil)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, lines []session.CartLine) {
	if lines == nil {
		lines = []session.CartLine{}
	}
	JSONSuccess(w, map[string]any{
		"items":  lines,
		"totals": session.CartTotals(lines),
		"count":  session.ItemCount(lines),
	}, nil)
}

// parseCartItemID handles /cart/items/{id}.
func parseCartItemID(path string) (int, bool) {
	trimmed := strings.Trim(path, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 3 || parts[0] != "cart" || parts[1] != "items" {
		return 0, false
	}
	id, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, false
	}
	return id, true
}
