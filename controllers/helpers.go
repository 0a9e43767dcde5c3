package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/auth"
	"github.com/yeremiapane/qrmenu/utils"
)

// idParam reads a positive numeric route parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondAppError(c, utils.Validation("Invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// optionalUintQuery returns nil when the query parameter is absent.
func optionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		utils.RespondAppError(c, utils.Validation("Invalid "+name))
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func currentIdentity(c *gin.Context) (auth.Identity, bool) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		utils.RespondAppError(c, utils.Unauthenticated("unauthorized"))
	}
	return identity, ok
}
