package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/storefront/cart/internal/infrastructure/telemetry"
)

// ProfilingLabels attaches the matched route and method to profile samples
// taken while the request is handled. Unmatched paths are not labelled.
func ProfilingLabels() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := map[string]string{
			telemetry.ProfilingLabelRoute:  route,
			telemetry.ProfilingLabelMethod: c.Request.Method,
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
