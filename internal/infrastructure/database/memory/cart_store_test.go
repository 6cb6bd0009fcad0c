package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shop-services/internal/domain/cart"
)

func newItem(t *testing.T, productID uuid.UUID, qty int) cart.Item {
	t.Helper()
	item, err := cart.NewItem(productID, "Widget", decimal.RequireFromString("9.99"), qty)
	require.NoError(t, err)
	return item
}

func TestCartStore_FindMissing(t *testing.T) {
	store := NewCartStore()

	_, err := store.FindByUserID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestCartStore_AddItemCreatesAndMerges(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore()
	userID, productID := uuid.New(), uuid.New()

	require.NoError(t, store.AddItem(ctx, userID, newItem(t, productID, 2)))
	require.NoError(t, store.AddItem(ctx, userID, newItem(t, productID, 3)))

	c, err := store.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestCartStore_ConcurrentAddsAreNotLost(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore()
	userID, productID := uuid.New(), uuid.New()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.AddItem(ctx, userID, newItem(t, productID, 1)))
		}()
	}
	wg.Wait()

	c, err := store.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, workers, c.Items[0].Quantity)
}

func TestCartStore_RemoveItem(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore()
	userID, keep, drop := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, store.AddItem(ctx, userID, newItem(t, keep, 1)))
	require.NoError(t, store.AddItem(ctx, userID, newItem(t, drop, 1)))

	require.NoError(t, store.RemoveItem(ctx, userID, drop))
	require.NoError(t, store.RemoveItem(ctx, userID, drop))
	require.NoError(t, store.RemoveItem(ctx, uuid.New(), drop))

	c, err := store.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, keep, c.Items[0].ProductID)
}

func TestCartStore_SetItemQuantity(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore()
	userID, productID := uuid.New(), uuid.New()

	assert.ErrorIs(t, store.SetItemQuantity(ctx, userID, productID, 1), cart.ErrCartNotFound)

	require.NoError(t, store.AddItem(ctx, userID, newItem(t, productID, 1)))
	require.NoError(t, store.SetItemQuantity(ctx, userID, productID, 7))
	assert.ErrorIs(t, store.SetItemQuantity(ctx, userID, uuid.New(), 1), cart.ErrItemNotFound)

	c, err := store.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Items[0].Quantity)
}

func TestCartStore_SaveReplacesAndReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore()
	userID := uuid.New()

	require.NoError(t, store.AddItem(ctx, userID, newItem(t, uuid.New(), 1)))
	before, err := store.FindByUserID(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, cart.NewCart(userID)))

	after, err := store.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)

	after.Items = append(after.Items, newItem(t, uuid.New(), 1))
	again, err := store.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, again.Items)
}
