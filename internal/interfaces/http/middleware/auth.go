// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/shop-services/internal/pkg/auth"
	"github.com/your-org/shop-services/internal/pkg/errs"
)

const claimsKey = "token_claims"

// AuthMiddleware requires a valid bearer access token
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, fmt.Errorf("authorization header required: %w", errs.ErrUnauthenticated))
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			abortWith(c, fmt.Errorf("invalid authorization header format: %w", errs.ErrUnauthenticated))
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			abortWith(c, fmt.Errorf("invalid or expired token: %w", errs.ErrUnauthenticated))
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole allows only authenticated callers holding role
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			abortWith(c, errs.ErrUnauthenticated)
			return
		}
		if !claims.HasRole(role) {
			abortWith(c, fmt.Errorf("role %q required: %w", role, errs.ErrForbidden))
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin allows the user named by the path parameter, or an admin
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			abortWith(c, errs.ErrUnauthenticated)
			return
		}
		if claims.IsAdmin() {
			c.Next()
			return
		}

		target, err := uuid.Parse(c.Param(param))
		if err != nil || target != claims.UserID {
			abortWith(c, fmt.Errorf("cannot access another user's resources: %w", errs.ErrForbidden))
			return
		}
		c.Next()
	}
}

// GetClaims returns the validated token claims of the request
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
