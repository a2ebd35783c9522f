package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"homestyling/internal/config"
	"homestyling/internal/handler"
	"homestyling/internal/model"
	"homestyling/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// defaultSlides is the landing-page promotion set served until marketing
// content is wired in from the backend CMS.
var defaultSlides = []model.Slide{
	{Title: "우리 집에 딱 맞는 가전 찾기", Subtitle: "1분 온보딩으로 맞춤 추천을 받아보세요", Link: "/onboarding"},
	{Title: "구독으로 부담 없이", Subtitle: "월 구독료로 최신 가전을 사용해보세요", Link: "/onboarding"},
	{Title: "전문가 상담 예약", Subtitle: "베스트샵 매니저가 직접 안내해드립니다", Link: "/consultation"},
}

func main() {
	// Print version info
	log.Printf("Homestyling Gateway")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize structured logger
	logger, err := newLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize upstream backend client
	backend := service.NewBackendClient(&cfg.Backend, logger)
	log.Printf("✅ Backend client initialized")
	log.Printf("   - Base URL: %s", cfg.Backend.BaseURL)
	log.Printf("   - Timeout: %s", cfg.Backend.Timeout)
	log.Printf("   - Retries: %d", cfg.Backend.RetryCount)

	// Initialize session store
	store := service.NewSessionStore(cfg.Wizard.SessionTTL, cfg.Wizard.CleanupInterval)
	defer store.Close()

	// Initialize services
	wizardService := service.NewWizardService(store, backend, logger)
	portfolioService := service.NewPortfolioService(backend, logger)
	chatService := service.NewChatService(store, backend, logger)
	carousel := service.NewCarousel(defaultSlides, cfg.Carousel.Interval)
	defer carousel.Stop()

	log.Println("✅ Services initialized")

	// Initialize handlers
	wizardHandler := handler.NewWizardHandler(wizardService)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService)
	chatHandler := handler.NewChatHandler(chatService)
	promoHandler := handler.NewPromoHandler(carousel, backend)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "homestyling-gateway",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Onboarding wizard
		apiV1.POST("/wizard/sessions", wizardHandler.CreateSession)
		apiV1.GET("/wizard/sessions/:id", wizardHandler.GetSession)
		apiV1.POST("/wizard/sessions/:id/answers", wizardHandler.ApplyAnswer)
		apiV1.POST("/wizard/sessions/:id/next", wizardHandler.Next)
		apiV1.POST("/wizard/sessions/:id/back", wizardHandler.Back)
		apiV1.POST("/wizard/sessions/:id/skip", wizardHandler.Skip)
		apiV1.POST("/wizard/sessions/:id/restart", wizardHandler.Restart)
		apiV1.POST("/wizard/sessions/:id/submit", wizardHandler.Submit)

		// Results and portfolio
		apiV1.POST("/results/preview", portfolioHandler.Preview)
		apiV1.GET("/results/session/:id", portfolioHandler.SessionResult)
		apiV1.GET("/portfolio/:id", portfolioHandler.Get)
		apiV1.POST("/portfolio/:id/share", portfolioHandler.Share)
		apiV1.POST("/consultation", portfolioHandler.Consultation)
		apiV1.GET("/products/image", portfolioHandler.ProductImage)

		// Chat
		apiV1.POST("/chat", chatHandler.Send)
		apiV1.GET("/chat/:id/transcript", chatHandler.Transcript)

		// Landing page
		apiV1.GET("/promotions", promoHandler.State)
		apiV1.POST("/promotions/next", promoHandler.Next)
		apiV1.POST("/promotions/prev", promoHandler.Prev)
		apiV1.POST("/promotions/goto", promoHandler.GoTo)
		apiV1.POST("/promotions/pause", promoHandler.Pause)
		apiV1.POST("/promotions/resume", promoHandler.Resume)
		apiV1.POST("/recommend", promoHandler.QuickRecommend)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API Documentation: http://localhost:%d/api/v1", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}

func newLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
