package router

import (
	"net/http"

	"user-service/internal/adapter/gin/handler"
	"user-service/internal/adapter/gin/middleware"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

const (
	apiSpecPath = "/apispec.json"
	apiDocsPath = "/apidocs/index.html"
)

// SetupRouter configures and returns a Gin router with all routes and middleware.
// apiSpec is the OpenAPI document served for the docs UI; nil disables the docs routes.
func SetupRouter(
	userHandler *handler.UserHandler,
	healthHandler *handler.HealthHandler,
	apiSpec []byte,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(handler.NotFound)
	router.NoMethod(handler.MethodNotAllowed)

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	router.GET("/health", healthHandler.Health)

	users := router.Group("/api/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.GET("/:user_id", userHandler.GetUser)
	}

	if apiSpec != nil {
		router.GET(apiSpecPath, func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json; charset=utf-8", apiSpec)
		})
		router.GET("/apidocs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL(apiSpecPath),
		)))
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, apiDocsPath)
		})
	}

	return router
}
