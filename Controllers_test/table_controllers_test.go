package Controllers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/qrmenu/controllers"
	"github.com/yeremiapane/qrmenu/services"
)

func setupTableRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	tableCtrl := controllers.NewTableController(services.NewTableService(db, nil))
	router.GET("/menu/admin/:slug/tables", tableCtrl.GetAllTables)
	router.POST("/menu/admin/:slug/tables", tableCtrl.CreateTable)
	router.PUT("/menu/admin/:slug/tables/:id", tableCtrl.UpdateTable)
	router.DELETE("/menu/admin/:slug/tables/:id", tableCtrl.DeleteTable)
	return router
}

func TestGetAllTables(t *testing.T) {
	db := setupTestDB(t)
	seedRestaurant(t, db, "lezzet")
	router := setupTableRouter(db)

	for _, number := range []string{"1", "2"} {
		w, _ := performJSON(router, "POST", "/menu/admin/lezzet/tables", map[string]string{"table_number": number})
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w, response := performJSON(router, "GET", "/menu/admin/lezzet/tables", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "List of tables", response["message"])

	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
	assert.Equal(t, "TABLE001", data[0].(map[string]interface{})["qr_code"])
}

func TestCreateTableCollision(t *testing.T) {
	db := setupTestDB(t)
	seedRestaurant(t, db, "lezzet")
	router := setupTableRouter(db)

	w, _ := performJSON(router, "POST", "/menu/admin/lezzet/tables", map[string]string{"table_number": "5"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, response := performJSON(router, "POST", "/menu/admin/lezzet/tables", map[string]string{"table_number": "05"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "A table with QR code 'TABLE005' already exists", response["message"])

	w, _ = performJSON(router, "POST", "/menu/admin/lezzet/tables", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAndDeleteTable(t *testing.T) {
	db := setupTestDB(t)
	seedRestaurant(t, db, "lezzet")
	router := setupTableRouter(db)

	_, created := performJSON(router, "POST", "/menu/admin/lezzet/tables", map[string]string{"table_number": "1"})
	id := strconv.Itoa(int(created["data"].(map[string]interface{})["id"].(float64)))

	w, response := performJSON(router, "PUT", "/menu/admin/lezzet/tables/"+id, map[string]interface{}{
		"table_number": "12",
		"is_active":    false,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Table updated", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "TABLE012", data["qr_code"])
	assert.Equal(t, false, data["is_active"])

	w, _ = performJSON(router, "DELETE", "/menu/admin/other/tables/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = performJSON(router, "DELETE", "/menu/admin/lezzet/tables/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
