package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/qrmenu/auth"
	"github.com/yeremiapane/qrmenu/utils"
)

// AuditLogger records who changed what on admin routes. Reads are not logged.
func AuditLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet {
			return
		}
		identity, _ := auth.CurrentIdentity(c)
		fields := logrus.Fields{
			"user_id": identity.UserID,
			"slug":    c.Param("slug"),
			"status":  c.Writer.Status(),
		}
		if c.Writer.Status() < http.StatusBadRequest {
			utils.InfoLogger.WithFields(fields).Infof("audit: %s %s", c.Request.Method, c.FullPath())
		} else {
			utils.ErrorLogger.WithFields(fields).Warnf("audit: %s %s rejected", c.Request.Method, c.FullPath())
		}
	}
}
