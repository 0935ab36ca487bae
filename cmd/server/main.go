package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"broker/internal/client/yahoo"
	"broker/internal/config"
	cronrunner "broker/internal/cron"
	"broker/internal/db"
	"broker/internal/handler"
	"broker/internal/logger"
	gormrepository "broker/internal/repository/gorm"
	"broker/internal/service"

	_ "broker/docs"
)

func main() {
	cfgPath := os.Getenv("BK_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("BK_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	quoteHTTP := &http.Client{Timeout: cfg.Quote.Timeout}
	quotes := yahoo.NewClient(quoteHTTP, yahoo.Options{
		ChartBaseURL:  cfg.Quote.ChartBaseURL,
		SearchBaseURL: cfg.Quote.SearchBaseURL,
		UserAgent:     cfg.Quote.UserAgent,
		SearchCount:   cfg.Quote.SearchCount,
	})

	store := gormrepository.New(dbConn.Gorm)
	orderSvc := &service.OrderService{Repo: store, Quotes: quotes, Logger: logger}
	valuationSvc := &service.ValuationService{Repo: store, Quotes: quotes, Logger: logger}
	historySvc := &service.HistoryService{Repo: store}
	snapshotSvc := &service.SnapshotService{Repo: store, Valuation: valuationSvc, Logger: logger}
	overviewSvc := &service.MarketOverviewService{Quotes: quotes, Logger: logger}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	orderHandler := &handler.OrderHandler{Orders: orderSvc, Repo: store}
	orderHandler.Register(engine)
	portfolioHandler := &handler.PortfolioHandler{Valuation: valuationSvc, History: historySvc}
	portfolioHandler.Register(engine)
	marketHandler := &handler.MarketHandler{Overview: overviewSvc, Quotes: quotes}
	marketHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Snapshot.Enabled {
		_, err := cronRunner.Add(cfg.Snapshot.Spec, func(ctx context.Context) {
			if err := snapshotSvc.RecordAll(ctx); err != nil {
				logger.Warn("portfolio snapshot run failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register snapshot failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
