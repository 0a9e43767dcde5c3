package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/services"
	"github.com/yeremiapane/qrmenu/utils"
)

type AuthController struct {
	Service *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{Service: svc}
}

func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	result, err := ac.Service.Login(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", result)
}

func (ac *AuthController) Me(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	user, err := ac.Service.Me(c.Request.Context(), identity)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Current user", user)
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req services.ChangePasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	if err := ac.Service.ChangePassword(c.Request.Context(), identity, req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Password changed successfully", nil)
}

func (ac *AuthController) Logout(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	ac.Service.Logout(identity)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// ValidateToken -> reaching this handler means the auth middleware accepted the token
func (ac *AuthController) ValidateToken(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Token is valid", gin.H{
		"user_id":        identity.UserID,
		"username":       identity.Username,
		"is_super_admin": identity.IsSuperAdmin,
		"restaurant_id":  identity.RestaurantID,
		"expires_at":     identity.ExpiresAt,
	})
}
