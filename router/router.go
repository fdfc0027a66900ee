package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinehall/restaurant-pos/controllers"
	"github.com/dinehall/restaurant-pos/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Per-IP limiter over the whole API (50 req/s). Registered before the
	// routes: gin freezes each route's handler chain at registration, so a
	// Use after route setup would never run.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	sessionCtrl := controllers.NewSessionController(db)
	orderCtrl := controllers.NewOrderController(db)
	customerCtrl := controllers.NewCustomerController(db)
	menuItemCtrl := controllers.NewMenuItemController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	notificationCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limited login/register
	public := r.Group("/auth")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/token", userCtrl.Login)
	}

	// Catalog reads need no auth
	r.GET("/menu-items", menuItemCtrl.GetAllMenuItems)
	r.GET("/menu-items/by-subcategory", menuItemCtrl.GetMenuItemsBySubcategory)
	r.GET("/menu-categories", categoryCtrl.GetAllCategories)
	r.GET("/menu-subcategories", categoryCtrl.GetAllSubcategories)

	// Floor websocket; the token rides the query string on upgrade
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/floor", controllers.FloorHandler)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	// USERS
	auth.GET("/users/me", userCtrl.GetProfile)
	auth.POST("/users/logout", userCtrl.Logout)
	auth.GET("/users", userCtrl.GetAllUsers)

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.POST("/tables", middlewares.RequireRole("admin"), tableCtrl.CreateTable)
	auth.DELETE("/tables/:table_id", middlewares.RequireRole("admin"), tableCtrl.DeleteTable)

	// TABLE SESSIONS
	auth.POST("/table-sessions", sessionCtrl.CreateSession)
	auth.GET("/table-sessions/history/paginated", sessionCtrl.GetSessionHistory)
	auth.GET("/table-sessions/:session_id", sessionCtrl.GetSessionByID)
	auth.PATCH("/table-sessions/:session_id", sessionCtrl.UpdateSession)
	auth.POST("/table-sessions/:session_id/orders", sessionCtrl.CreateOrderInSession)
	auth.POST("/table-sessions/:session_id/close", sessionCtrl.CloseSession)
	auth.DELETE("/table-sessions/:session_id", sessionCtrl.DeleteSession)

	// ORDERS
	auth.GET("/order/:order_id", orderCtrl.GetOrderByID)
	auth.POST("/order/:order_id/items", orderCtrl.AddItem)
	auth.POST("/order/:order_id/serve", orderCtrl.ServeOrder)
	auth.DELETE("/order/:order_id", orderCtrl.DeleteOrder)

	// CUSTOMERS
	auth.GET("/customers", customerCtrl.GetAllCustomers)
	auth.POST("/customers", customerCtrl.CreateCustomer)
	auth.GET("/customers/by-phone/:phone", customerCtrl.GetCustomerByPhone)
	auth.GET("/customers/:customer_id", customerCtrl.GetCustomerByID)
	auth.PATCH("/customers/:customer_id", customerCtrl.UpdateCustomer)
	auth.DELETE("/customers/:customer_id", customerCtrl.DeleteCustomer)

	// MENU (admin writes)
	auth.POST("/menu-items", middlewares.RequireRole("admin"), menuItemCtrl.CreateMenuItem)
	auth.GET("/menu-items/:item_id", menuItemCtrl.GetMenuItemByID)
	auth.PATCH("/menu-items/:item_id", middlewares.RequireRole("admin"), menuItemCtrl.UpdateMenuItem)
	auth.DELETE("/menu-items/:item_id", middlewares.RequireRole("admin"), menuItemCtrl.DeleteMenuItem)

	auth.POST("/menu-categories", middlewares.RequireRole("admin"), categoryCtrl.CreateCategory)
	auth.PATCH("/menu-categories/:cat_id", middlewares.RequireRole("admin"), categoryCtrl.UpdateCategory)
	auth.DELETE("/menu-categories/:cat_id", middlewares.RequireRole("admin"), categoryCtrl.DeleteCategory)

	auth.POST("/menu-subcategories", middlewares.RequireRole("admin"), categoryCtrl.CreateSubcategory)
	auth.DELETE("/menu-subcategories/:sub_id", middlewares.RequireRole("admin"), categoryCtrl.DeleteSubcategory)

	// NOTIFICATIONS
	auth.GET("/notifications", notificationCtrl.GetAllNotifications)
	auth.POST("/notifications", notificationCtrl.CreateNotification)
	auth.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	return r
}
