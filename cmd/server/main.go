package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bblatev/bjs-menu-sub006/internal/config"
	"github.com/bblatev/bjs-menu-sub006/internal/inventory/entity"
	"github.com/bblatev/bjs-menu-sub006/internal/inventory/handler"
	"github.com/bblatev/bjs-menu-sub006/internal/inventory/repository"
	"github.com/bblatev/bjs-menu-sub006/internal/inventory/service"
	"github.com/bblatev/bjs-menu-sub006/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting inventory engine",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate inventory tables", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// Redis（可选，仅用于预测序列缓存）
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
	}

	// MinIO（可选，仅用于导出文件归档）
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			zapLogger.Fatal("Failed to init minio client", zap.Error(err))
		}
	}

	// 初始化依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos.Stores(), rdb, minioClient, cfg.MinIO.Bucket, service.ForecastConfig{
		LookbackDays:   cfg.Engine.LookbackDays,
		WeightMA7:      cfg.Engine.WeightMA7,
		WeightMA14:     cfg.Engine.WeightMA14,
		WeightMA30:     cfg.Engine.WeightMA30,
		ServiceLevel:   cfg.Engine.ServiceLevel,
		OrderingCost:   cfg.Engine.OrderingCost,
		HoldingCostPct: cfg.Engine.HoldingCostPct,
	})
	handlers := handler.NewHandlers(services, handler.Defaults{
		Reconcile: service.ReconcileConfig{
			WarningThresholdQty:  cfg.Engine.WarningThresholdQty,
			CriticalThresholdQty: cfg.Engine.CriticalThresholdQty,
		},
		Reorder: service.ReorderConfig{
			UseForecast:  cfg.Engine.UseForecast,
			RoundToCase:  cfg.Engine.RoundToCase,
			ServiceLevel: cfg.Engine.ServiceLevel,
		},
	})

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	// 健康检查
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "inventory-engine"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "inventory-engine"})
	})

	// 版本信息
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "inventory-engine",
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := router.Group("/api/v1/inventory")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 商品识别
		products := v1.Group("/products")
		{
			products.POST("/match", handlers.Product.Match)
			products.GET("/search", handlers.Product.Search)
		}

		// 需求预测
		forecast := v1.Group("/forecast")
		{
			forecast.GET("/:product_id/demand", handlers.Forecast.Demand)
			forecast.GET("/:product_id/safety-stock", handlers.Forecast.SafetyStock)
			forecast.GET("/:product_id/eoq", handlers.Forecast.EOQ)
		}

		// 盘点
		sessions := v1.Group("/count-sessions")
		{
			sessions.POST("", handlers.Count.CreateSession)
			sessions.GET("/:id", handlers.Count.GetSession)
			sessions.POST("/:id/lines", handlers.Count.AddLine)
			sessions.GET("/:id/lines", handlers.Count.ListLines)
			sessions.POST("/:id/commit", handlers.Count.Commit)

			// 对账
			sessions.POST("/:id/reconcile", handlers.Reconciliation.Reconcile)
			sessions.GET("/:id/reconciliation", handlers.Reconciliation.Results)

			// 补货建议
			sessions.POST("/:id/proposals", handlers.Reorder.Generate)
			sessions.GET("/:id/proposals", handlers.Reorder.List)
			sessions.GET("/:id/proposals/by-supplier", handlers.Reorder.BySupplier)

			// 草稿
			sessions.POST("/:id/drafts", handlers.Draft.Create)
			sessions.GET("/:id/drafts", handlers.Draft.ListBySession)
		}

		proposals := v1.Group("/proposals")
		{
			proposals.PUT("/:id", handlers.Reorder.Update)
		}

		drafts := v1.Group("/drafts")
		{
			drafts.GET("/:id", handlers.Draft.Get)
			drafts.GET("/:id/export", handlers.Draft.Export)
			drafts.POST("/:id/finalize", handlers.Draft.Finalize)
			drafts.POST("/:id/send", handlers.Draft.MarkSent)
		}
	}

	// 启动服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return db, nil
}
