package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/auth"
	"github.com/yeremiapane/qrmenu/utils"
)

func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.CurrentIdentity(c)
		if !ok {
			utils.AbortWithAppError(c, utils.Unauthenticated("unauthorized"))
			return
		}
		if !identity.IsSuperAdmin {
			utils.AbortWithAppError(c, utils.Forbidden("super admin access required"))
			return
		}
		c.Next()
	}
}
