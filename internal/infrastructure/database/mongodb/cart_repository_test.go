package mongodb

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/your-org/shop-services/internal/domain/cart"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupTestRepository(t *testing.T) *CartRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	repo := NewCartRepository(client.Database("cart_test"), "carts")
	require.NoError(t, repo.CreateIndexes(ctx))
	return repo
}

func testItem(productID uuid.UUID, quantity int) cart.Item {
	return cart.Item{
		ProductID:   productID,
		ProductName: "Kettle",
		UnitPrice:   decimal.RequireFromString("24.95"),
		Quantity:    quantity,
	}
}

func TestCartRepository_FindByUserID_NotFound(t *testing.T) {
	repo := setupTestRepository(t)

	c, err := repo.FindByUserID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
	assert.Nil(t, c)
}

func TestCartRepository_AddItem(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	userID, productID := uuid.New(), uuid.New()

	require.NoError(t, repo.AddItem(ctx, userID, testItem(productID, 2)))
	require.NoError(t, repo.AddItem(ctx, userID, testItem(productID, 3)))
	require.NoError(t, repo.AddItem(ctx, userID, testItem(uuid.New(), 1)))

	c, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, c.UserID)
	require.Len(t, c.Items, 2)
	assert.Equal(t, productID, c.Items[0].ProductID)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.True(t, c.Items[0].UnitPrice.Equal(decimal.RequireFromString("24.95")))
	assert.False(t, c.CreatedAt.IsZero())
}

func TestCartRepository_ConcurrentAddItem(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	userID, productID := uuid.New(), uuid.New()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.AddItem(ctx, userID, testItem(productID, 1)))
		}()
	}
	wg.Wait()

	c, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, workers, c.Items[0].Quantity)
}

func TestCartRepository_SetItemQuantity(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	userID, productID := uuid.New(), uuid.New()

	assert.ErrorIs(t, repo.SetItemQuantity(ctx, userID, productID, 4), cart.ErrItemNotFound)

	require.NoError(t, repo.AddItem(ctx, userID, testItem(productID, 1)))
	require.NoError(t, repo.SetItemQuantity(ctx, userID, productID, 4))

	c, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Items[0].Quantity)
}

func TestCartRepository_RemoveItem(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	userID, productID := uuid.New(), uuid.New()

	require.NoError(t, repo.RemoveItem(ctx, userID, productID))

	require.NoError(t, repo.AddItem(ctx, userID, testItem(productID, 1)))
	require.NoError(t, repo.RemoveItem(ctx, userID, productID))
	require.NoError(t, repo.RemoveItem(ctx, userID, productID))

	c, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestCartRepository_SaveReplacesItems(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.AddItem(ctx, userID, testItem(uuid.New(), 1)))
	require.NoError(t, repo.Save(ctx, cart.NewCart(userID)))

	c, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	fresh := uuid.New()
	require.NoError(t, repo.Save(ctx, cart.NewCart(fresh)))
	_, err = repo.FindByUserID(ctx, fresh)
	require.NoError(t, err)
}
