package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shop-services/internal/domain/cart"
	"github.com/your-org/shop-services/internal/infrastructure/database/memory"
	"github.com/your-org/shop-services/internal/pkg/errs"
	"github.com/your-org/shop-services/internal/pkg/logger"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newService() *cart.Service {
	return cart.NewService(memory.NewCartStore(), logger.Discard())
}

func TestService_GetCartReturnsEmptyCartForUnknownUser(t *testing.T) {
	userID := uuid.New()

	c, err := newService().GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, c.UserID)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
}

func TestService_AddItemThenGet(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	userID, productID := uuid.New(), uuid.New()

	req := &cart.AddItemRequest{ProductID: productID, ProductName: "Mug", UnitPrice: price("4.50"), Quantity: 2}
	require.NoError(t, svc.AddItem(ctx, userID, req))
	require.NoError(t, svc.AddItem(ctx, userID, req))

	c, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)

	resp := cart.ToResponse(c)
	assert.Equal(t, 4, resp.ItemCount)
	assert.Equal(t, "18", resp.TotalPrice.String())
	assert.Equal(t, "18", resp.Items[0].Total.String())
}

func TestService_AddItemValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	tests := []struct {
		name   string
		req    *cart.AddItemRequest
		target error
		field  string
	}{
		{"missing body", nil, errs.ErrBadRequest, "body"},
		{"missing price", &cart.AddItemRequest{ProductID: uuid.New(), Quantity: 1}, errs.ErrValidation, "unit_price"},
		{"negative price", &cart.AddItemRequest{ProductID: uuid.New(), UnitPrice: price("-1"), Quantity: 1}, errs.ErrValidation, "unit_price"},
		{"zero quantity", &cart.AddItemRequest{ProductID: uuid.New(), UnitPrice: price("1"), Quantity: 0}, errs.ErrValidation, "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.AddItem(ctx, uuid.New(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, errs.FieldErrors(err), tt.field)
		})
	}
}

func TestService_UpdateItemQuantity(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	userID, productID := uuid.New(), uuid.New()

	err := svc.UpdateItemQuantity(ctx, userID, productID, 3)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, svc.AddItem(ctx, userID, &cart.AddItemRequest{
		ProductID: productID, ProductName: "Mug", UnitPrice: price("1"), Quantity: 1,
	}))
	require.NoError(t, svc.UpdateItemQuantity(ctx, userID, productID, 3))

	err = svc.UpdateItemQuantity(ctx, userID, productID, 0)
	assert.ErrorIs(t, err, errs.ErrValidation)

	c, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestService_RemoveItemIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	userID, productID := uuid.New(), uuid.New()

	require.NoError(t, svc.RemoveItem(ctx, userID, productID))

	require.NoError(t, svc.AddItem(ctx, userID, &cart.AddItemRequest{
		ProductID: productID, ProductName: "Mug", UnitPrice: price("1"), Quantity: 1,
	}))
	require.NoError(t, svc.RemoveItem(ctx, userID, productID))
	require.NoError(t, svc.RemoveItem(ctx, userID, productID))

	c, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestService_ClearCart(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	userID := uuid.New()

	require.NoError(t, svc.AddItem(ctx, userID, &cart.AddItemRequest{
		ProductID: uuid.New(), ProductName: "Mug", UnitPrice: price("1"), Quantity: 1,
	}))
	require.NoError(t, svc.ClearCart(ctx, userID))

	c, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

type failingRepo struct{ cart.Repository }

func (failingRepo) FindByUserID(context.Context, uuid.UUID) (*cart.Cart, error) {
	return nil, errors.New("connection refused")
}

func TestService_GetCartPropagatesStoreErrors(t *testing.T) {
	svc := cart.NewService(failingRepo{}, logger.Discard())

	_, err := svc.GetCart(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}
