package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/postboard-backend/internal/config"
	"github.com/ignatzorin/postboard-backend/internal/http/handlers"
	"github.com/ignatzorin/postboard-backend/internal/http/middleware"
	"github.com/ignatzorin/postboard-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	favoriteHandler *handlers.FavoriteHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/me", authHandler.Me)
	}

	// Публичные маршруты
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", middleware.IDValidator("id"), postHandler.Get)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/posts", postHandler.Create)
		protected.PUT("/posts/:id", middleware.IDValidator("id"), postHandler.Update)
		protected.DELETE("/posts/:id", middleware.IDValidator("id"), postHandler.Delete)

		protected.POST("/posts/:id/favorite", middleware.IDValidator("id"), favoriteHandler.FavoritePost)
		protected.DELETE("/posts/:id/favorite", middleware.IDValidator("id"), favoriteHandler.UnfavoritePost)
		protected.POST("/users/:id/favorite", middleware.IDValidator("id"), favoriteHandler.FavoriteUser)
		protected.DELETE("/users/:id/favorite", middleware.IDValidator("id"), favoriteHandler.UnfavoriteUser)
		protected.GET("/favorites", favoriteHandler.List)
		protected.POST("/favorites", favoriteHandler.Add)
		protected.DELETE("/favorites/:type/:id", favoriteHandler.Remove)

		protected.GET("/notifications", notificationHandler.List)
		protected.PUT("/notifications/:id/read", middleware.IDValidator("id"), notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
	}

	return r
}
