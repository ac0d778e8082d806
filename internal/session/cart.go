package session

import (
	"context"
	"errors"
	"strconv"

	"bookify/internal/catalog"
)

var ErrNotInCart = errors.New("book not in cart")

// CartLine is one cart entry. Title, author and price are denormalized
// display fields; the id is the reference back into the catalog.
type CartLine struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// Totals is the checkout arithmetic: subtotal plus 8% tax.
type Totals struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

const taxRate = 0.08

func (m *Manager) Cart(ctx context.Context, owner string) ([]CartLine, error) {
	var lines []CartLine
	if err := m.readJSON(ctx, key(owner, "cart"), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (m *Manager) saveCart(ctx context.Context, owner string, lines []CartLine) error {
	return m.writeJSON(ctx, key(owner, "cart"), lines)
}

// AddToCart merges quantity into an existing line or appends a new one.
// The merged quantity is capped at the book's stock.
func (m *Manager) AddToCart(ctx context.Context, owner string, b catalog.Book, quantity int) ([]CartLine, error) {
	if quantity < 1 {
		quantity = 1
	}
	lines, err := m.Cart(ctx, owner)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range lines {
		if lines[i].ID == b.ID {
			lines[i].Quantity += quantity
			if lines[i].Quantity > b.Stock {
				lines[i].Quantity = b.Stock
			}
			merged = true
			break
		}
	}
	if !merged {
		if quantity > b.Stock {
			quantity = b.Stock
		}
		lines = append(lines, CartLine{
			ID:       b.ID,
			Title:    b.Title,
			Author:   b.Author,
			Price:    b.Price,
			Quantity: quantity,
		})
	}
	if err := m.saveCart(ctx, owner, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// AdjustQuantity applies a delta to a line's quantity. A result of zero
// or less removes the line, as in the storefront's minus button.
func (m *Manager) AdjustQuantity(ctx context.Context, owner string, id, delta int) ([]CartLine, error) {
	lines, err := m.Cart(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if lines[i].ID != id {
			continue
		}
		lines[i].Quantity += delta
		if lines[i].Quantity <= 0 {
			lines = append(lines[:i], lines[i+1:]...)
		}
		if err := m.saveCart(ctx, owner, lines); err != nil {
			return nil, err
		}
		return lines, nil
	}
	return nil, ErrNotInCart
}

func (m *Manager) RemoveFromCart(ctx context.Context, owner string, id int) ([]CartLine, error) {
	lines, err := m.Cart(ctx, owner)
	if err != nil {
		return nil, err
	}
	kept := lines[:0]
	for _, l := range lines {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if err := m.saveCart(ctx, owner, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (m *Manager) ClearCart(ctx context.Context, owner string) error {
	return m.saveCart(ctx, owner, []CartLine{})
}

// CartTotals computes the order summary for a set of lines.
func CartTotals(lines []CartLine) Totals {
	var subtotal float64
	for _, l := range lines {
		price, _ := strconv.ParseFloat(l.Price, 64)
		subtotal += price * float64(l.Quantity)
	}
	tax := subtotal * taxRate
	return Totals{
		Subtotal: strconv.FormatFloat(subtotal, 'f', 2, 64),
		Tax:      strconv.FormatFloat(tax, 'f', 2, 64),
		Total:    strconv.FormatFloat(subtotal+tax, 'f', 2, 64),
	}
}

// ItemCount is the badge number: the sum of line quantities.
func ItemCount(lines []CartLine) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
