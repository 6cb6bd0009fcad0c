// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/shop-services/internal/domain/cart"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// GetCart handles GET /carts/:userId
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, err := pathUUID(c, "userId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, cart.ToResponse(result))
}

// AddItem handles POST /carts/:userId/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := pathUUID(c, "userId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req cart.AddItemRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.cartService.AddItem(c.Request.Context(), userID, &req); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateItem handles PUT /carts/:userId/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, err := pathUUID(c, "userId")
	if err != nil {
		_ = c.Error(err)
		return
	}
	productID, err := pathUUID(c, "productId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req cart.UpdateItemRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.cartService.UpdateItemQuantity(c.Request.Context(), userID, productID, req.Quantity); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveItem handles DELETE /carts/:userId/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := pathUUID(c, "userId")
	if err != nil {
		_ = c.Error(err)
		return
	}
	productID, err := pathUUID(c, "productId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearCart handles DELETE /carts/:userId
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, err := pathUUID(c, "userId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
