package Controllers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/qrmenu/controllers"
	"github.com/yeremiapane/qrmenu/models"
	"github.com/yeremiapane/qrmenu/services"
)

func setupMenuRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	menuService := services.NewMenuService(db, nil, nil)
	menuCtrl := controllers.NewMenuController(menuService)
	categoryCtrl := controllers.NewMenuCategoryController(menuService)

	router.GET("/menu/:slug/:qrCode", menuCtrl.PublicMenu)
	admin := router.Group("/menu/admin/:slug")
	admin.GET("", menuCtrl.AdminMenu)
	admin.POST("/categories", categoryCtrl.CreateCategory)
	admin.PUT("/categories/:id", categoryCtrl.UpdateCategory)
	admin.DELETE("/categories/:id", categoryCtrl.DeleteCategory)
	admin.POST("/menu-items", menuCtrl.CreateMenuItem)
	admin.PUT("/menu-items/:id", menuCtrl.UpdateMenuItem)
	admin.DELETE("/menu-items/:id", menuCtrl.DeleteMenuItem)
	return router
}

func createCategoryVia(t *testing.T, router *gin.Engine, slug, name string, order int) uint {
	w, response := performJSON(router, "POST", "/menu/admin/"+slug+"/categories", map[string]interface{}{
		"name":          name,
		"display_order": order,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Category created successfully", response["message"])
	return uint(response["data"].(map[string]interface{})["id"].(float64))
}

func TestCreateMenuItem(t *testing.T) {
	db := setupTestDB(t)
	seedRestaurant(t, db, "lezzet")
	router := setupMenuRouter(db)
	categoryID := createCategoryVia(t, router, "lezzet", "Soups", 1)

	w, response := performJSON(router, "POST", "/menu/admin/lezzet/menu-items", map[string]interface{}{
		"category_id": categoryID,
		"name":        "Lentil Soup",
		"price":       45.499,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Menu item created successfully", response["message"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Lentil Soup", data["name"])
	assert.Equal(t, 45.5, data["price"])
	assert.Equal(t, true, data["is_available"])
	assert.Nil(t, data["image_url"])
}

func TestCreateMenuItemRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	seedRestaurant(t, db, "lezzet")
	other := seedRestaurant(t, db, "kebapci")
	foreign := models.Category{RestaurantID: other.ID, Name: "Grill"}
	require.NoError(t, db.Create(&foreign).Error)
	router := setupMenuRouter(db)

	w, response := performJSON(router, "POST", "/menu/admin/lezzet/menu-items", map[string]interface{}{
		"name":  "Free Soup",
		"price": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := response["data"].(map[string]interface{})["errors"].([]interface{})
	assert.Contains(t, errs, "price must be greater than 0")

	// a category of another restaurant is invisible under this slug
	w, _ = performJSON(router, "POST", "/menu/admin/lezzet/menu-items", map[string]interface{}{
		"category_id": foreign.ID,
		"name":        "Adana",
		"price":       120,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateMenuItemKeepsCategoryWhenOmitted(t *testing.T) {
	db := setupTestDB(t)
	seedRestaurant(t, db, "lezzet")
	router := setupMenuRouter(db)
	categoryID := createCategoryVia(t, router, "lezzet", "Soups", 1)

	_, created := performJSON(router, "POST", "/menu/admin/lezzet/menu-items", map[string]interface{}{
		"category_id": categoryID,
		"name":        "Lentil Soup",
		"price":       45,
	})
	id := strconv.Itoa(int(created["data"].(map[string]interface{})["id"].(float64)))

	w, response := performJSON(router, "PUT", "/menu/admin/lezzet/menu-items/"+id, map[string]interface{}{
		"name":         "Tomato Soup",
		"price":        50,
		"is_available": false,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Menu item updated successfully", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(categoryID), data["category_id"])
	assert.Equal(t, "Tomato Soup", data["name"])
	assert.Equal(t, false, data["is_available"])

	w, _ = performJSON(router, "PUT", "/menu/admin/lezzet/menu-items/"+id, map[string]interface{}{
		"category_id": 9999,
		"name":        "Tomato Soup",
		"price":       50,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, response = performJSON(router, "DELETE", "/menu/admin/lezzet/menu-items/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Menu item deleted", response["message"])
}

func TestPublicMenuRecordsAccess(t *testing.T) {
	db := setupTestDB(t)
	r := seedRestaurant(t, db, "lezzet")
	require.NoError(t, db.Create(&models.Table{RestaurantID: r.ID, TableNumber: "1", QRCode: "TABLE001", IsActive: true}).Error)
	router := setupMenuRouter(db)

	mains := createCategoryVia(t, router, "lezzet", "Mains", 2)
	soups := createCategoryVia(t, router, "lezzet", "Soups", 1)
	performJSON(router, "POST", "/menu/admin/lezzet/menu-items", map[string]interface{}{
		"category_id": soups, "name": "Lentil Soup", "price": 45,
	})

	w, response := performJSON(router, "GET", "/menu/lezzet/TABLE001", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Menu", response["message"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "TABLE001", data["table"].(map[string]interface{})["qr_code"])
	categories := data["categories"].([]interface{})
	require.Len(t, categories, 2)
	assert.Equal(t, float64(soups), categories[0].(map[string]interface{})["id"])
	assert.Equal(t, float64(mains), categories[1].(map[string]interface{})["id"])
	assert.Len(t, categories[0].(map[string]interface{})["menu_items"], 1)
	assert.Empty(t, categories[1].(map[string]interface{})["menu_items"])

	// the admin view is not a visit
	w, _ = performJSON(router, "GET", "/menu/admin/lezzet", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.QRCodeAccess{}).Count(&count)
	assert.Equal(t, int64(1), count)

	w, _ = performJSON(router, "GET", "/menu/lezzet/TABLE404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCategoryRemovesItems(t *testing.T) {
	db := setupTestDB(t)
	seedRestaurant(t, db, "lezzet")
	router := setupMenuRouter(db)
	categoryID := createCategoryVia(t, router, "lezzet", "Soups", 1)
	performJSON(router, "POST", "/menu/admin/lezzet/menu-items", map[string]interface{}{
		"category_id": categoryID, "name": "Lentil Soup", "price": 45,
	})

	w, _ := performJSON(router, "PUT", "/menu/admin/lezzet/categories/"+strconv.Itoa(int(categoryID)), map[string]interface{}{
		"name": "Hot Soups",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, response := performJSON(router, "DELETE", "/menu/admin/lezzet/categories/"+strconv.Itoa(int(categoryID)), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Category deleted", response["message"])

	var count int64
	db.Model(&models.MenuItem{}).Count(&count)
	assert.Zero(t, count)
}
