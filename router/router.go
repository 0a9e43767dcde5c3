package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/config"
	"github.com/yeremiapane/qrmenu/controllers"
	"github.com/yeremiapane/qrmenu/live"
	"github.com/yeremiapane/qrmenu/middlewares"
	"github.com/yeremiapane/qrmenu/services"
	"github.com/yeremiapane/qrmenu/storage"
	"github.com/yeremiapane/qrmenu/utils"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, images *storage.LocalImageStore, hub *live.Hub) *gin.Engine {
	utils.RegisterValidators()

	r := gin.New()
	r.Use(middlewares.LoggerMiddleware())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		utils.AbortWithAppError(c, utils.Internal("panic", fmt.Errorf("%v", recovered)))
	}))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.Security.AllowedOrigins))

	r.Static("/images", images.Dir())

	// Services
	restaurantSvc := services.NewRestaurantService(db, images)
	menuSvc := services.NewMenuService(db, images, hub)
	tableSvc := services.NewTableService(db, hub)
	statsSvc := services.NewStatisticsService(db, restaurantSvc)
	userSvc := services.NewUserService(db)
	authSvc := services.NewAuthService(db, userSvc)
	imageSvc := services.NewImageService(db, images)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	restaurantCtrl := controllers.NewRestaurantController(restaurantSvc)
	menuCtrl := controllers.NewMenuController(menuSvc)
	categoryCtrl := controllers.NewMenuCategoryController(menuSvc)
	tableCtrl := controllers.NewTableController(tableSvc)
	statsCtrl := controllers.NewStatisticsController(statsSvc)
	userCtrl := controllers.NewUserController(userSvc)
	fileCtrl := controllers.NewFileController(imageSvc, cfg.Storage.MaxImageBytes)
	liveCtrl := controllers.NewLiveController(hub, restaurantSvc, cfg.Security.AllowedOrigins)

	loginLimiter := middlewares.NewRateLimiter(cfg.Security.LoginRatePerMinute)
	menuLimiter := middlewares.NewRateLimiter(cfg.Security.MenuRatePerMinute)

	tenantGuard := middlewares.TenantGuard(restaurantSvc)
	requireAuth := middlewares.AuthMiddleware(userSvc)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/menu/:slug/:qrCode", menuLimiter.RateLimit(), menuCtrl.PublicMenu)
	r.GET("/restaurants", restaurantCtrl.GetActiveRestaurants)
	r.POST("/auth/login", loginLimiter.RateLimit(), authCtrl.Login)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	authed := r.Group("/")
	authed.Use(requireAuth)
	{
		authed.GET("/auth/me", authCtrl.Me)
		authed.POST("/auth/change-password", authCtrl.ChangePassword)
		authed.POST("/auth/logout", authCtrl.Logout)
		authed.GET("/auth/validate-token", authCtrl.ValidateToken)

		authed.POST("/file/upload-image", fileCtrl.UploadImage)
		authed.DELETE("/file/delete-image/:name", middlewares.AuditLogger(), fileCtrl.DeleteImage)

		// self or super admin, checked by the user service
		authed.GET("/users/:id", userCtrl.GetUser)
		authed.PUT("/users/:id", middlewares.AuditLogger(), userCtrl.UpdateUser)
	}

	// Tenant admin (or super admin) of :slug
	menuAdmin := r.Group("/menu/admin/:slug")
	menuAdmin.Use(requireAuth, tenantGuard, middlewares.AuditLogger())
	{
		menuAdmin.GET("", menuCtrl.AdminMenu)

		menuAdmin.POST("/categories", categoryCtrl.CreateCategory)
		menuAdmin.PUT("/categories/:id", categoryCtrl.UpdateCategory)
		menuAdmin.DELETE("/categories/:id", categoryCtrl.DeleteCategory)

		menuAdmin.POST("/menu-items", menuCtrl.CreateMenuItem)
		menuAdmin.POST("/menu-items/import", menuCtrl.ImportMenuItems)
		menuAdmin.PUT("/menu-items/:id", menuCtrl.UpdateMenuItem)
		menuAdmin.DELETE("/menu-items/:id", menuCtrl.DeleteMenuItem)

		menuAdmin.GET("/tables", tableCtrl.GetAllTables)
		menuAdmin.POST("/tables", tableCtrl.CreateTable)
		menuAdmin.PUT("/tables/:id", tableCtrl.UpdateTable)
		menuAdmin.DELETE("/tables/:id", tableCtrl.DeleteTable)
	}

	stats := r.Group("/statistics/:slug")
	stats.Use(requireAuth, tenantGuard)
	{
		stats.GET("/daily-access", statsCtrl.DailyAccess)
		stats.GET("/qr-access", statsCtrl.QRAccess)
		stats.GET("/export", statsCtrl.Export)
	}

	// WebSocket endpoint, token in the query string
	r.GET("/live/:slug", middlewares.WebSocketAuthMiddleware(userSvc), tenantGuard, liveCtrl.Stream)

	// ----------------------------------------------------------------
	//                      SUPER ADMIN ROUTES
	// ----------------------------------------------------------------
	super := r.Group("/")
	super.Use(requireAuth, middlewares.RequireSuperAdmin(), middlewares.AuditLogger())
	{
		super.GET("/restaurants/admin/all", restaurantCtrl.GetAllRestaurants)
		super.POST("/restaurants", restaurantCtrl.CreateRestaurant)
		super.PUT("/restaurants/:id", restaurantCtrl.UpdateRestaurant)
		super.DELETE("/restaurants/:id", restaurantCtrl.DeleteRestaurant)
		super.GET("/restaurants/:id/users", restaurantCtrl.GetRestaurantUsers)

		super.GET("/users", userCtrl.GetAllUsers)
		super.POST("/users", userCtrl.CreateUser)
		super.DELETE("/users/:id", userCtrl.DeleteUser)
	}

	return r
}
