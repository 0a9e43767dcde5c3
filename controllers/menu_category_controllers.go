package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/services"
	"github.com/yeremiapane/qrmenu/utils"
)

type MenuCategoryController struct {
	Service *services.MenuService
}

func NewMenuCategoryController(svc *services.MenuService) *MenuCategoryController {
	return &MenuCategoryController{Service: svc}
}

func (mc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	category, err := mc.Service.CreateCategory(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created successfully", category)
}

func (mc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	category, err := mc.Service.UpdateCategory(c.Request.Context(), c.Param("slug"), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory -> removes the category together with its menu items
func (mc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := mc.Service.DeleteCategory(c.Request.Context(), c.Param("slug"), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"id": id})
}
