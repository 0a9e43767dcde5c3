package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/services"
	"github.com/yeremiapane/qrmenu/utils"
)

type MenuController struct {
	Service *services.MenuService
}

func NewMenuController(svc *services.MenuService) *MenuController {
	return &MenuController{Service: svc}
}

// PublicMenu -> menu for a scanned table QR code
func (mc *MenuController) PublicMenu(c *gin.Context) {
	menu, err := mc.Service.PublicMenu(c.Request.Context(), c.Param("slug"), c.Param("qrCode"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", menu)
}

// AdminMenu -> same menu for the restaurant's admins, not counted as a visit
func (mc *MenuController) AdminMenu(c *gin.Context) {
	menu, err := mc.Service.AdminMenu(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", menu)
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req services.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	item, err := mc.Service.CreateMenuItem(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created successfully", item)
}

func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	item, err := mc.Service.UpdateMenuItem(c.Request.Context(), c.Param("slug"), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated successfully", item)
}

func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := mc.Service.DeleteMenuItem(c.Request.Context(), c.Param("slug"), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"id": id})
}

// ImportMenuItems -> bulk create from an uploaded xlsx file ("file" form field)
func (mc *MenuController) ImportMenuItems(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondAppError(c, utils.Validation("Excel file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondAppError(c, utils.Internal("open upload", err))
		return
	}
	defer file.Close()

	result, err := mc.Service.ImportMenuItems(c.Request.Context(), c.Param("slug"), file)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu items imported", result)
}
