package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, handler gin.HandlerFunc) (int, JSONResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	var body JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondAppError(t *testing.T) {
	code, body := respond(t, func(c *gin.Context) {
		RespondAppError(c, Validation("One or more validation errors occurred", "name is required"))
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, body.Status)
	assert.Equal(t, map[string]interface{}{"errors": []interface{}{"name is required"}}, body.Data)

	code, body = respond(t, func(c *gin.Context) {
		RespondAppError(c, NotFound("Table", 7))
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Table (7) was not found", body.Message)
	assert.Nil(t, body.Data)

	// internal causes and plain errors never reach the client
	for _, err := range []error{Internal("load table", errors.New("disk on fire")), errors.New("boom")} {
		code, body = respond(t, func(c *gin.Context) { RespondAppError(c, err) })
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, internalErrorMessage, body.Message)
	}
}

func TestRespondJSON(t *testing.T) {
	code, body := respond(t, func(c *gin.Context) {
		RespondJSON(c, http.StatusCreated, "Table created successfully", gin.H{"qr_code": "TABLE001"})
	})
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, body.Status)
	assert.Equal(t, "Table created successfully", body.Message)
}
