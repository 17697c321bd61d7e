package client

import (
	"errors"
	"sync"

	"github.com/urbannest/real_estate_platform/backend/models"
)

// MaxCompare is the most properties that can sit in a comparison at once.
const MaxCompare = 3

// ErrComparisonFull is returned when adding beyond the cap; nothing is
// evicted to make room.
var ErrComparisonFull = errors.New("you can only compare up to 3 properties")

// Comparison is a purely local selection of properties for side-by-side
// viewing. It is never persisted to the server.
type Comparison struct {
	mu   sync.Mutex
	list []models.Property
}

func NewComparison() *Comparison {
	return &Comparison{}
}

// Add puts the property in the comparison. Adding one already present is a
// no-op; adding past the cap fails with ErrComparisonFull.
func (c *Comparison) Add(p models.Property) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.containsLocked(p.ID.Hex()) {
		return nil
	}
	if len(c.list) >= MaxCompare {
		return ErrComparisonFull
	}
	c.list = append(c.list, p)
	return nil
}

func (c *Comparison) Remove(propertyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.list[:0]
	for _, p := range c.list {
		if p.ID.Hex() != propertyID {
			kept = append(kept, p)
		}
	}
	c.list = kept
}

func (c *Comparison) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = nil
}

func (c *Comparison) Contains(propertyID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.containsLocked(propertyID)
}

func (c *Comparison) List() []models.Property {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Property, len(c.list))
	copy(out, c.list)
	return out
}

func (c *Comparison) containsLocked(propertyID string) bool {
	for _, p := range c.list {
		if p.ID.Hex() == propertyID {
			return true
		}
	}
	return false
}
