package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-planner/internal/api"
	"meal-planner/internal/core/export"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/session"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("store_path", cfg.Store.Path),
		zap.Bool("session_redis", cfg.Session.Enabled),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("delivery_enabled", cfg.Delivery.Enabled),
	)

	// 開啟食譜儲存
	recipeStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		common.LogFatal("Failed to open recipe store", zap.Error(err))
	}
	defer recipeStore.Close()

	// 空庫載入範例資料
	if cfg.Store.Seed {
		if err := recipeStore.Seed(context.Background()); err != nil {
			common.LogFatal("Failed to seed recipe store", zap.Error(err))
		}
	}

	// 初始化會話儲存
	sessions, err := session.NewStore(&cfg.Session)
	if err != nil {
		common.LogFatal("Failed to initialize session store", zap.Error(err))
	}
	defer sessions.Close()

	// 初始化計劃快取與規劃服務
	planCache := mealplan.NewPlanCache(&cfg.Cache)
	defer planCache.Close()
	planner := mealplan.NewPlanner(recipeStore, planCache)

	// 初始化評分隊列
	ratingQueue := mealplan.NewRatingQueue(&cfg.Queue, recipeStore)
	defer ratingQueue.Close()

	// 初始化交付客戶端
	delivery := export.NewClient(&cfg.Delivery)

	// 設置路由
	router, err := api.SetupRouter(cfg, &api.Dependencies{
		Store:       recipeStore,
		Sessions:    sessions,
		Planner:     planner,
		RatingQueue: ratingQueue,
		Delivery:    delivery,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
