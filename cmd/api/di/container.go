package di

import (
	"context"
	"fmt"

	"user-service/api/swagger"
	"user-service/cmd/api/infrastructure"
	"user-service/internal/adapter/db/postgres"
	ginhandler "user-service/internal/adapter/gin/handler"
	ginrouter "user-service/internal/adapter/gin/router"
	"user-service/internal/config"
	"user-service/internal/usecase/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	UserRepo      *postgres.UserRepoPG
	UserUC        *user.Service
	UserHandler   *ginhandler.UserHandler
	HealthHandler *ginhandler.HealthHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repository
	repo := postgres.NewUserRepoPG(db, l)

	// Initialize use case
	userUC := user.New(repo, l)

	return &Container{
		Config:        cfg,
		Logger:        l,
		DB:            db,
		UserRepo:      repo,
		UserUC:        userUC,
		UserHandler:   ginhandler.NewUserHandler(userUC, l),
		HealthHandler: ginhandler.NewHealthHandler(repo, cfg.Logger.ServiceName, l),
	}, nil
}

// Router builds the gin engine serving every route
func (c *Container) Router() *gin.Engine {
	return ginrouter.SetupRouter(c.UserHandler, c.HealthHandler, swagger.OpenAPI, c.Logger)
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
