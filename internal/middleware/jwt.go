package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AnanthuNarashimman/Skeduler/internal/service"
	appErrors "github.com/AnanthuNarashimman/Skeduler/pkg/errors"
	"github.com/AnanthuNarashimman/Skeduler/pkg/response"
)

// ContextClaimsKey is the gin context key storing JWT claims.
const ContextClaimsKey = "currentTeacher"

// JWT protects routes by requiring a valid access token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// CurrentClaims returns the claims stored by the JWT middleware, or nil.
func CurrentClaims(c *gin.Context) *service.Claims {
	if v, exists := c.Get(ContextClaimsKey); exists {
		if claims, ok := v.(*service.Claims); ok {
			return claims
		}
	}
	return nil
}
