// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shop-services/internal/pkg/errs"
)

// Service handles cart business logic
type Service struct {
	repo   Repository
	logger *logrus.Logger
}

// NewService creates a new cart service
func NewService(repo Repository, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	ProductName string           `json:"product_name" binding:"required,max=200"`
	UnitPrice   *decimal.Decimal `json:"unit_price" binding:"required"`
	Quantity    int              `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ItemResponse represents a cart line with its computed total
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// Response represents a shopping cart with items and summary
type Response struct {
	UserID     uuid.UUID       `json:"user_id"`
	Items      []ItemResponse  `json:"items"`
	ItemCount  int             `json:"item_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// GetCart returns the user's cart, or an empty one if none is stored
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	c, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return NewCart(userID), nil
	}
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to load cart")
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return c, nil
}

// AddItem adds the product to the user's cart, increasing the quantity of an
// existing line for the same product
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req *AddItemRequest) error {
	if req == nil {
		return errs.BadRequest(map[string]string{"body": "item data is required"})
	}

	if req.UnitPrice == nil {
		return errs.Invalid("unit_price", "is required")
	}

	item, err := NewItem(req.ProductID, req.ProductName, *req.UnitPrice, req.Quantity)
	if err != nil {
		return toValidation(err)
	}

	if err := s.repo.AddItem(ctx, userID, item); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"product_id": req.ProductID,
		}).Error("failed to add cart item")
		return fmt.Errorf("failed to add item to cart: %w", err)
	}

	return nil
}

// UpdateItemQuantity sets the quantity of an existing line
func (s *Service) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return toValidation(ErrInvalidQuantity)
	}

	err := s.repo.SetItemQuantity(ctx, userID, productID, quantity)
	if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrCartNotFound) {
		return errs.NotFound("product %s in cart of user %s", productID, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

// RemoveItem removes the product from the user's cart. Absent items are ignored.
func (s *Service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"product_id": productID,
		}).Error("failed to remove cart item")
		return fmt.Errorf("failed to remove item from cart: %w", err)
	}
	return nil
}

// ClearCart removes all items from the cart
func (s *Service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Save(ctx, NewCart(userID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// ToResponse maps the cart to its wire representation
func ToResponse(c *Cart) *Response {
	items := make([]ItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = ItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Total:       item.Total(),
		}
	}

	return &Response{
		UserID:     c.UserID,
		Items:      items,
		ItemCount:  c.ItemCount(),
		TotalPrice: c.Total(),
	}
}

func toValidation(err error) error {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return errs.Invalid("quantity", err.Error())
	case errors.Is(err, ErrInvalidPrice):
		return errs.Invalid("unit_price", err.Error())
	}
	return err
}
