package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/auth"
	"github.com/yeremiapane/qrmenu/utils"
)

// TenantGuard allows the request only when the caller may act on the
// restaurant named by the slug route parameter. Must run after AuthMiddleware.
func TenantGuard(resolver auth.SlugResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.CurrentIdentity(c)
		if !ok {
			utils.AbortWithAppError(c, utils.Unauthenticated("unauthorized"))
			return
		}

		slug := c.Param("slug")
		if !auth.Authorize(c.Request.Context(), resolver, identity, slug) {
			utils.AbortWithAppError(c, utils.Forbidden("You do not have access to this restaurant"))
			return
		}
		c.Next()
	}
}
