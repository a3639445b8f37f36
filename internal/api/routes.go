package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"foliogen/internal/ai"
	"foliogen/internal/api/middleware"
	"foliogen/internal/auth"
	"foliogen/internal/config"
	"foliogen/internal/storage"
)

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
	aiService *ai.Service,
	keyPool *ai.KeyPool,
) {
	resumeHandler := NewResumeHandler(db, cfg.API.MaxResumes)
	portfolioHandler := NewPortfolioHandler(db, storageClient, logger)
	aiHandler := NewAIHandler(aiService, keyPool, db, asynqClient)
	authHandler := NewAuthHandler(
		db,
		authService,
		redisClient,
		logger,
		cfg.Auth.LoginRateLimitPerHour,
		cfg.Auth.LoginLockThreshold,
		time.Duration(cfg.Auth.LoginLockTTLMinutes)*time.Minute,
		cfg.Auth.CookieDomain,
	)
	wsHandler := NewWsHandler(redisClient, authService, logger, cfg.API.AllowedOrigins)
	photoHandler := NewPhotoHandler(storageClient, logger, cfg.Auth.ClamdAddr)
	authMiddleware := middleware.AuthMiddleware(authService)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
		}

		aiGroup := v1.Group("/ai")
		{
			// 同步生成端点无需登录：生成结果不落库，与原型阶段的前端兼容。
			aiGroup.POST("/generate", aiHandler.Generate)
			aiGroup.POST("/generate-portfolio", aiHandler.GeneratePortfolio)
			aiGroup.GET("/test", aiHandler.Test)
			aiGroup.POST("/generate-portfolio/async", authMiddleware, aiHandler.GeneratePortfolioAsync)
		}

		resumeGroup := v1.Group("/resume")
		resumeGroup.Use(authMiddleware)
		{
			resumeGroup.GET("/latest", resumeHandler.GetLatestResume)
			resumeGroup.GET("", resumeHandler.ListResumes)
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.PUT("/:id", resumeHandler.UpdateResume)
			resumeGroup.DELETE("/:id", resumeHandler.DeleteResume)
		}

		portfolioGroup := v1.Group("/portfolios")
		portfolioGroup.Use(authMiddleware)
		{
			portfolioGroup.POST("", portfolioHandler.CreatePortfolio)
			portfolioGroup.GET("", portfolioHandler.ListPortfolios)
			portfolioGroup.GET("/:id", portfolioHandler.GetPortfolio)
			portfolioGroup.GET("/:id/share-link", portfolioHandler.GetShareLink)
			portfolioGroup.DELETE("/:id", portfolioHandler.DeletePortfolio)
		}

		photoGroup := v1.Group("/photos")
		photoGroup.Use(authMiddleware)
		{
			photoGroup.POST("/upload", photoHandler.UploadPhoto)
			photoGroup.GET("/view", photoHandler.GetPhotoURL)
		}
	}
}
