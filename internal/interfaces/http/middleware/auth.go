package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/interfaces/http/dto"
)

// BearerAuth rejects requests without a credential the resolver accepts
func BearerAuth(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			abortUnauthorized(c, "missing bearer credential")
			return
		}
		if resolver == nil {
			abortUnauthorized(c, "credentials cannot be verified")
			return
		}
		if _, err := resolver.Resolve(c.Request.Context(), token); err != nil {
			abortUnauthorized(c, "invalid credential")
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
		dto.ErrCodeUnauthorized,
		message,
		GetRequestID(c),
	))
}
