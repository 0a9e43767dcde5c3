package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/services"
	"github.com/yeremiapane/qrmenu/utils"
)

type RestaurantController struct {
	Service *services.RestaurantService
}

func NewRestaurantController(svc *services.RestaurantService) *RestaurantController {
	return &RestaurantController{Service: svc}
}

// GetActiveRestaurants -> public list, active tenants only
func (rc *RestaurantController) GetActiveRestaurants(c *gin.Context) {
	restaurants, err := rc.Service.ListActive(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	restaurants, err := rc.Service.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

// CreateRestaurant -> restaurant and its first admin user
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var req services.CreateRestaurantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	created, err := rc.Service.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created successfully", created)
}

func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateRestaurantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	restaurant, err := rc.Service.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated successfully", restaurant)
}

func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := rc.Service.Delete(c.Request.Context(), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"id": id})
}

func (rc *RestaurantController) GetRestaurantUsers(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	users, err := rc.Service.Users(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}
