// Package session persists per-user shopping state (login marker, cart,
// favorites, ratings) through the opaque key-value store. Each of the
// four values lives under its own key, is serialized as JSON, and is
// written back on every mutation, so a restart restores the session
// exactly as it was left.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bookify/internal/store"
)

var ErrInvalidStar = errors.New("rating must be between 1 and 5")

// User is the logged-in user marker. Authentication is a mock: there is
// no account record beyond this.
type User struct {
	Email string `json:"email"`
}

type Manager struct {
	kv store.KV
}

func NewManager(kv store.KV) *Manager {
	return &Manager{kv: kv}
}

func key(owner, kind string) string {
	return fmt.Sprintf("bookify:%s:%s", owner, kind)
}

func (m *Manager) readJSON(ctx context.Context, k string, v any) error {
	raw, ok, err := m.kv.Get(ctx, k)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

func (m *Manager) writeJSON(ctx context.Context, k string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, k, string(raw))
}

// SetUser records the login marker.
func (m *Manager) SetUser(ctx context.Context, owner string, u User) error {
	return m.writeJSON(ctx, key(owner, "user"), u)
}

func (m *Manager) User(ctx context.Context, owner string) (User, bool, error) {
	var u User
	if err := m.readJSON(ctx, key(owner, "user"), &u); err != nil {
		return User{}, false, err
	}
	return u, u.Email != "", nil
}

// Logout clears the user marker, cart and favorites. Ratings survive a
// logout on purpose: they are opinions, not session baggage.
func (m *Manager) Logout(ctx context.Context, owner string) error {
	for _, kind := range []string{"user", "cart", "favorites"} {
		if err := m.kv.Delete(ctx, key(owner, kind)); err != nil {
			return err
		}
	}
	return nil
}

// Favorites returns the favorite book ids in insertion order.
func (m *Manager) Favorites(ctx context.Context, owner string) ([]int, error) {
	var ids []int
	if err := m.readJSON(ctx, key(owner, "favorites"), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ToggleFavorite flips membership of id and reports the new state.
func (m *Manager) ToggleFavorite(ctx context.Context, owner string, id int) (bool, error) {
	ids, err := m.Favorites(ctx, owner)
	if err != nil {
		return false, err
	}
	kept := ids[:0]
	found := false
	for _, v := range ids {
		if v == id {
			found = true
			continue
		}
		kept = append(kept, v)
	}
	if !found {
		kept = append(kept, id)
	}
	if err := m.writeJSON(ctx, key(owner, "favorites"), kept); err != nil {
		return false, err
	}
	return !found, nil
}

// Ratings returns the id -> star map.
func (m *Manager) Ratings(ctx context.Context, owner string) (map[int]int, error) {
	ratings := make(map[int]int)
	if err := m.readJSON(ctx, key(owner, "ratings"), &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// Rate records a 1..5 star rating for a book.
func (m *Manager) Rate(ctx context.Context, owner string, id, star int) error {
	if star < 1 || star > 5 {
		return ErrInvalidStar
	}
	ratings, err := m.Ratings(ctx, owner)
	if err != nil {
		return err
	}
	ratings[id] = star
	return m.writeJSON(ctx, key(owner, "ratings"), ratings)
}

func (m *Manager) Rating(ctx context.Context, owner string, id int) (int, error) {
	ratings, err := m.Ratings(ctx, owner)
	if err != nil {
		return 0, err
	}
	return ratings[id], nil
}
