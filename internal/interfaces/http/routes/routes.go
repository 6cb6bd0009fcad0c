// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/shop-services/internal/domain/cart"
	"github.com/your-org/shop-services/internal/domain/product"
	"github.com/your-org/shop-services/internal/interfaces/http/handlers"
	"github.com/your-org/shop-services/internal/interfaces/http/middleware"
	"github.com/your-org/shop-services/internal/pkg/auth"
)

// SetupCartRoutes sets up cart related routes. Every route requires the
// cart owner or an admin.
func SetupCartRoutes(rg *gin.RouterGroup, cartService *cart.Service, jwtManager *auth.JWTManager) {
	cartHandler := handlers.NewCartHandler(cartService)

	carts := rg.Group("/carts/:userId")
	carts.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireSelfOrAdmin("userId"))
	{
		carts.GET("", cartHandler.GetCart)
		carts.DELETE("", cartHandler.ClearCart)
		carts.POST("/items", cartHandler.AddItem)
		carts.PUT("/items/:productId", cartHandler.UpdateItem)
		carts.DELETE("/items/:productId", cartHandler.RemoveItem)
	}
}

// SetupProductRoutes sets up catalog routes. Reads are public, writes
// require the admin role.
func SetupProductRoutes(rg *gin.RouterGroup, productService *product.Service, jwtManager *auth.JWTManager) {
	productHandler := handlers.NewProductHandler(productService)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)

		admin := products.Group("")
		admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
		{
			admin.POST("", productHandler.CreateProduct)
			admin.PUT("/:id", productHandler.UpdateProduct)
			admin.DELETE("/:id", productHandler.DeleteProduct)
		}
	}

	rg.GET("/categories", productHandler.GetCategories)
	rg.GET("/brands", productHandler.GetBrands)
}
