package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bloodlink/dashboard/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(handlers *Handlers, guard *service.Guard) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), RejectCrossOrigin())
	router.SetHTMLTemplate(handlers.templates)

	router.GET("/", handlers.Landing)
	router.GET("/healthz", handlers.Healthz)

	router.GET("/login", handlers.LoginPage)
	router.POST("/login", handlers.Login)
	router.POST("/logout", handlers.Logout)

	// Protected dashboard routes
	dashboard := router.Group("/dashboard")
	dashboard.Use(RequireSession(guard, handlers.browser, handlers.cookie.Name))
	{
		dashboard.GET("", handlers.Dashboard)
		dashboard.POST("/requests", handlers.CreateRequest)
		dashboard.POST("/requests/:id/status", handlers.UpdateRequestStatus)
		dashboard.POST("/inventory", handlers.UpsertInventory)
		dashboard.POST("/inventory/:id/delete", handlers.DeleteInventory)
	}

	return router
}
