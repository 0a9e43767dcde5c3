package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondAppError answers with the status matching the error kind. Anything
// that is not an *AppError is logged and hidden behind a generic 500.
func RespondAppError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		ErrorLogger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, JSONResponse{
			Status:  false,
			Message: internalErrorMessage,
		})
		return
	}

	var data interface{}
	if len(appErr.Details) > 0 {
		data = gin.H{"errors": appErr.Details}
	}
	c.JSON(appErr.StatusCode(), JSONResponse{
		Status:  false,
		Message: appErr.Message,
		Data:    data,
	})
}

// RespondBindError turns a ShouldBind failure into a 400 listing the offending fields.
func RespondBindError(c *gin.Context, err error) {
	RespondAppError(c, BindingError(err))
}

// AbortWithAppError is RespondAppError for middlewares.
func AbortWithAppError(c *gin.Context, err error) {
	RespondAppError(c, err)
	c.Abort()
}
