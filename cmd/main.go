package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"GameSquares/internal/adapter/apisports"
	"GameSquares/internal/adapter/oddsapi"
	"GameSquares/internal/api"
	"GameSquares/internal/config"
	"GameSquares/internal/hub"
	"GameSquares/internal/service"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. 初始化日志
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if cfg.Server.Mode == gin.DebugMode {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.Info("config loaded")

	oddsCfg := cfg.Feed(config.FeedOdds)
	sportsCfg := cfg.Feed(config.FeedAPISports)
	if oddsCfg.AuthKey == "" {
		logger.Warn("ODDS_API_KEY not set, squares will carry no odds")
	}
	if sportsCfg.AuthKey == "" {
		logger.Warn("API_SPORTS_KEY not set, board will stay empty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 数据源、hub、看板
	oddsFeed := oddsapi.NewOddsAdapter(oddsCfg, logger)
	sportsFeed := apisports.NewAPISportsAdapter(sportsCfg, logger)

	wsHub := hub.NewHub(logger)
	go wsHub.Run(ctx)

	board := service.NewBoardService(oddsFeed, sportsFeed, sportsFeed, logger,
		service.WithPublisher(api.BoardPublisher{Hub: wsHub}),
		service.WithStatsTimeout(cfg.Refresh.StatsTimeout),
	)
	go board.Run(ctx, cfg.Refresh.Interval)

	// 4. 注册路由
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	pprof.Register(r)

	squareHandler := api.NewSquareHandler(board, logger)
	r.GET("/health", squareHandler.Health)
	r.GET("/api/squares", squareHandler.ListSquares)
	r.GET("/api/squares/:id", squareHandler.GetSquare)
	r.POST("/api/squares/:id/efficiency", squareHandler.ComputeEfficiency)
	r.POST("/api/refresh", squareHandler.Refresh)

	streamHandler := api.NewStreamHandler(wsHub, board, logger)
	r.GET("/ws/squares", streamHandler.Stream)

	// 5. 启动服务
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("listening on :%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http server shutdown")
	}
}
