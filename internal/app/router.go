package app

import (
	"textbook_backend/docs"
	"textbook_backend/internal/config"
	"textbook_backend/internal/middleware"
	"textbook_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// The event endpoint serves anonymous visitors too; authentication only
	// decides whether type-specific answer rows are written.
	router.GET("/api/hsblog", middleware.TryAuthMiddleware(cfg), c.event.LogBookEvent)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
	}

	// Book pages enforce login per course, so auth is optional here as well.
	router.GET("/books/:course/*page", middleware.TryAuthMiddleware(cfg), c.book.ServePage)
}
