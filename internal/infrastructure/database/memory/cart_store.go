// internal/infrastructure/database/memory/cart_store.go
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/shop-services/internal/domain/cart"
)

// CartStore keeps carts in process memory. Every mutation runs under one
// lock, which makes AddItem an atomic append-or-increment.
type CartStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*cart.Cart
	now   func() time.Time
}

// NewCartStore creates an empty cart store
func NewCartStore() *CartStore {
	return &CartStore{
		carts: make(map[uuid.UUID]*cart.Cart),
		now:   time.Now,
	}
}

func (s *CartStore) FindByUserID(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[userID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return copyCart(c), nil
}

func (s *CartStore) AddItem(_ context.Context, userID uuid.UUID, item cart.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	c, ok := s.carts[userID]
	if !ok {
		c = cart.NewCart(userID)
		c.CreatedAt = now
		s.carts[userID] = c
	}
	if err := c.AddItem(item); err != nil {
		return err
	}
	c.UpdatedAt = now
	return nil
}

func (s *CartStore) RemoveItem(_ context.Context, userID uuid.UUID, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[userID]; ok && c.RemoveItem(productID) {
		c.UpdatedAt = s.now().UTC()
	}
	return nil
}

func (s *CartStore) SetItemQuantity(_ context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		return cart.ErrCartNotFound
	}
	if err := c.SetQuantity(productID, quantity); err != nil {
		return err
	}
	c.UpdatedAt = s.now().UTC()
	return nil
}

func (s *CartStore) Save(_ context.Context, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	stored := copyCart(c)
	if existing, ok := s.carts[c.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.carts[c.UserID] = stored
	return nil
}

func copyCart(c *cart.Cart) *cart.Cart {
	out := *c
	out.Items = make([]cart.Item, len(c.Items))
	copy(out.Items, c.Items)
	return &out
}
