package api

import (
	"context"
	"net/http"
	"time"

	healthHandler "meal-planner/internal/api/handlers/health"
	planHandler "meal-planner/internal/api/handlers/plan"
	recipeHandler "meal-planner/internal/api/handlers/recipe"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/export"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/session"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (2MB)：匯入的計劃文件是最大的合法請求體
	maxBodySize = 2 << 20
)

// Dependencies 路由需要的服務集合，由 main 組裝
type Dependencies struct {
	Store       *store.SQLiteStore
	Sessions    *session.Store
	Planner     *mealplan.Planner
	RatingQueue *mealplan.RatingQueue
	Delivery    *export.Client
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps *Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流與去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	// 全局中間件：設置超時並注入配置與服務
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("rating_queue", deps.RatingQueue)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck(deps.Store))
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		planHandlerInstance := planHandler.NewHandler(deps.Planner, deps.Sessions, deps.Delivery)
		recipeHandlerInstance := recipeHandler.NewHandler(deps.Store, deps.RatingQueue)

		planGroup := api.Group("/plan")
		{
			// 產生膳食計劃
			planGroup.POST("/generate", planHandlerInstance.HandleGenerate)

			// 範例文化計劃
			planGroup.GET("/samples", planHandlerInstance.HandleListSamples)
			planGroup.POST("/samples/:culture", planHandlerInstance.HandleGenerateSample)

			// 匯出、匯入與交付
			planGroup.GET("/:id/export", planHandlerInstance.HandleExport)
			planGroup.POST("/import", planHandlerInstance.HandleImport)
			planGroup.POST("/:id/deliver", planHandlerInstance.HandleDeliver)
		}

		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.GET("/:id", recipeHandlerInstance.HandleGetRecipe)
			recipeGroup.POST("/:id/rating", recipeHandlerInstance.HandleRating)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
