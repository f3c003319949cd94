package main

import (
	"log"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/config"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/handler"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/mail"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/middleware"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/repository"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/service"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/storage"
	"github.com/vicrey1/Gallerypavilion-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	logger.Init(cfg.Log.Level)
	defer logger.Sync()

	// 初始化数据库
	db, err := repository.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 初始化 Redis
	rdb, err := repository.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	// Debug 模式下插入种子数据
	if cfg.Server.Mode == "debug" {
		if err := repository.SeedData(db); err != nil {
			log.Printf("Warning: Failed to seed data: %v", err)
		}
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	linkRepo := repository.NewShareLinkRepository(db)
	inviteRepo := repository.NewInvitationRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// 初始化存储管理器
	var storageManager *storage.Manager
	if len(cfg.Storage.Targets) > 0 {
		storageManager, err = storage.NewManager(cfg.Storage)
		if err != nil {
			log.Printf("Warning: Failed to init storage manager: %v", err)
		}
	}

	// 初始化邮件客户端
	var mailer service.Mailer
	if cfg.Mail.Enabled {
		mailer = mail.NewClient(cfg.Mail.Endpoint, cfg.Mail.APIKey, cfg.Mail.From)
	}

	// 初始化 Service
	authSvc := service.NewAuthService(userRepo, rdb, cfg.JWT)
	gallerySvc := service.NewGalleryService(galleryRepo, photoRepo, storageManager)
	linkSvc := service.NewShareLinkService(linkRepo, galleryRepo, rdb, cfg.Access)
	inviteSvc := service.NewInvitationService(inviteRepo, galleryRepo, mailer, cfg.Access)
	accessSvc := service.NewAccessService(linkRepo, galleryRepo, inviteRepo, photoRepo,
		ledgerRepo, auditRepo, rdb, cfg.Access)
	analyticsSvc := service.NewAnalyticsService(auditRepo, galleryRepo)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authSvc)
	galleryHandler := handler.NewGalleryHandler(gallerySvc, linkSvc)
	shareHandler := handler.NewShareHandler(accessSvc, linkSvc)
	inviteHandler := handler.NewInvitationHandler(inviteSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	systemHandler := handler.NewSystemHandler(db)

	// 设置 Gin
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// 中间件
	r.Use(middleware.Cors())
	r.Use(middleware.Logger())

	// 路由
	api := r.Group("/api/v1")
	{
		// 认证接口
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/profile", middleware.Auth(cfg.JWT.Secret), authHandler.Profile)
		}

		// 游客访问接口（限流防止在线猜测邀请码/密码）
		share := api.Group("/share")
		share.Use(middleware.RateLimit(rdb, cfg.Access.RateLimitPerMinute))
		{
			share.GET("/:token", shareHandler.View)
			share.POST("/:token/verify-password", shareHandler.VerifyPassword)
		}

		// 相册管理接口（摄影师）
		galleries := api.Group("/galleries")
		galleries.Use(middleware.Auth(cfg.JWT.Secret))
		{
			galleries.POST("", galleryHandler.Create)
			galleries.GET("", galleryHandler.List)
			galleries.GET("/:id", galleryHandler.Get)
			galleries.PUT("/:id", galleryHandler.Update)
			galleries.DELETE("/:id", galleryHandler.Delete)

			galleries.POST("/:id/photos", galleryHandler.UploadPhoto)
			galleries.GET("/:id/photos", galleryHandler.ListPhotos)

			galleries.POST("/:id/share-links", galleryHandler.CreateShareLink)
			galleries.GET("/:id/share-links", galleryHandler.ListShareLinks)

			galleries.GET("/:id/invitations", inviteHandler.List)
			galleries.GET("/:id/invites/analytics", analyticsHandler.Summarize)
		}

		// 照片与分享链接的独立删除接口
		photos := api.Group("/photos")
		photos.Use(middleware.Auth(cfg.JWT.Secret))
		{
			photos.DELETE("/:photoId", galleryHandler.DeletePhoto)
		}
		links := api.Group("/share-links")
		links.Use(middleware.Auth(cfg.JWT.Secret))
		{
			links.DELETE("/:id", galleryHandler.DeleteShareLink)
		}

		// 邀请管理接口（摄影师）
		invitations := api.Group("/invitations")
		invitations.Use(middleware.Auth(cfg.JWT.Secret))
		{
			invitations.POST("/create", inviteHandler.Create)
			invitations.POST("/send", inviteHandler.Send)
			invitations.DELETE("/:id", inviteHandler.Revoke)
		}

		// 系统接口
		system := api.Group("/system")
		{
			system.GET("/health", systemHandler.Health)
			system.GET("/stats", middleware.Auth(cfg.JWT.Secret), systemHandler.Stats)
		}
	}

	// 启动服务
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
