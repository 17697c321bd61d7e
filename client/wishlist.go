package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/urbannest/real_estate_platform/backend/models"
)

// Wishlist mirrors the server-side wishlist. Every mutation refetches the
// whole list rather than patching the local copy, matching the frontend.
type Wishlist struct {
	c *Client

	mu      sync.Mutex
	entries []models.WishlistEntry
}

func NewWishlist(c *Client) *Wishlist {
	return &Wishlist{c: c}
}

func (w *Wishlist) Entries() []models.WishlistEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.WishlistEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *Wishlist) Contains(propertyID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range w.entries {
		if e.Property != nil && e.Property.ID.Hex() == propertyID {
			return true
		}
	}
	return false
}

func (w *Wishlist) Refresh(ctx context.Context) error {
	var entries []models.WishlistEntry
	if err := w.c.do(ctx, http.MethodGet, "/wishlist", nil, &entries); err != nil {
		return err
	}
	w.mu.Lock()
	w.entries = entries
	w.mu.Unlock()
	return nil
}

func (w *Wishlist) Add(ctx context.Context, propertyID string) error {
	body := map[string]string{"propertyId": propertyID}
	if err := w.c.do(ctx, http.MethodPost, "/wishlist", body, nil); err != nil {
		return err
	}
	return w.Refresh(ctx)
}

func (w *Wishlist) Remove(ctx context.Context, propertyID string) error {
	if err := w.c.do(ctx, http.MethodDelete, "/wishlist/"+propertyID, nil, nil); err != nil {
		return err
	}
	return w.Refresh(ctx)
}

// Toggle adds the property when absent and removes it when present.
func (w *Wishlist) Toggle(ctx context.Context, propertyID string) error {
	if w.Contains(propertyID) {
		return w.Remove(ctx, propertyID)
	}
	return w.Add(ctx, propertyID)
}
