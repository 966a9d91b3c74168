package router

import (
	"time"

	"github.com/Kavin-Nithil/inventory-svc/internal/config"
	"github.com/Kavin-Nithil/inventory-svc/internal/handler"
	"github.com/Kavin-Nithil/inventory-svc/internal/middleware"
	"github.com/Kavin-Nithil/inventory-svc/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires the HTTP surface around an already-constructed engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svc service.ReservationService) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	inventoryH := handler.NewInventoryHandler(svc)

	r.GET("/health", handler.Health(db, rdb, cfg.EventSink))

	v1 := r.Group("/v1")
	{
		inv := v1.Group("/inventory")
		{
			inv.POST("/reserve", inventoryH.Reserve)
			inv.POST("/release", inventoryH.Release)
			inv.GET("/availability", inventoryH.Availability)
		}
	}

	return r
}
