// @title           Polymarket Arbitrage Agent API
// @version         0.1.0
// @description     Scan, qualification, risk and trade controls for the near-certainty agent.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
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
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/activity"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/client/clob"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/client/gamma"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/config"
	cronrunner "github.com/xFactorSOL/polymarket-arbitrage-agent/internal/cron"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/executor"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/handler"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/logger"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/market"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/notify"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/risk"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/scanner"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/service"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/verify"

	_ "github.com/xFactorSOL/polymarket-arbitrage-agent/docs"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("PMA_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("PMA_ENV_ONLY"); envOnlyRaw != "" {
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

	gammaHTTP := &http.Client{Timeout: cfg.Gamma.Timeout}
	gammaClient := gamma.NewClient(gammaHTTP, cfg.Gamma.BaseURL)
	clobHTTP := &http.Client{Timeout: cfg.Clob.Timeout}
	clobClient := clob.NewClient(clobHTTP, cfg.Clob.BaseURL)
	venue := &clobVenue{
		client: clobClient,
		auth: clob.TradingAuth{
			APIKey:       strings.TrimSpace(os.Getenv("PMA_CLOB_API_KEY")),
			APISecret:    strings.TrimSpace(os.Getenv("PMA_CLOB_API_SECRET")),
			Passphrase:   strings.TrimSpace(os.Getenv("PMA_CLOB_PASSPHRASE")),
			Address:      strings.TrimSpace(os.Getenv("PMA_CLOB_ADDRESS")),
			SignRequests: os.Getenv("PMA_CLOB_API_SECRET") != "",
		},
	}

	activityLog := activity.NewLog(cfg.Activity.Capacity)

	var sender notify.Sender
	if cfg.Notify.Enabled && cfg.Notify.SlackWebhookURL != "" {
		sender = notify.NewSlackSender(cfg.Notify.SlackWebhookURL)
	}
	notifier := notify.NewNotifier(sender, cfg.Notify.MaxSummaryItems, logger)

	var verifier *verify.Verifier
	if cfg.Verify.Enabled {
		verifyHTTP := &http.Client{Timeout: cfg.Verify.Timeout}
		verifier = verify.NewVerifier(logger,
			verify.NewSportsSource(cfg.Verify, verifyHTTP),
			verify.NewNewsSource(cfg.Verify, verifyHTTP),
		)
	}

	riskMgr := risk.NewManager(cfg.Risk, cfg.Scanner, venue, logger)
	marketScanner, err := scanner.New(cfg.Scanner, gammaClient, clobClient, notifier, logger)
	if err != nil {
		logger.Fatal("scanner init failed", zap.Error(err))
	}
	trader := executor.New(cfg.Executor, riskMgr, venue, activityLog, notifier, logger)

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanSvc := service.NewScanService(ctx, marketScanner, logger)
	callback := tradeCallback(ctx, cfg, trader, verifier, activityLog, logger)

	healthHandler := &handler.HealthHandler{Scanner: marketScanner}
	healthHandler.Register(engine)
	agentHandler := &handler.AgentHandler{
		Scanner:  marketScanner,
		Scans:    scanSvc,
		Verifier: verifier,
		Activity: activityLog,
		Config:   cfg,
		Callback: callback,
	}
	agentHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.ActivitySummary, "activity_summary", func(ctx context.Context) error {
			stats := activityLog.Stats()
			logger.Info("activity summary",
				zap.Int("total_scans", stats.TotalScans),
				zap.Int("qualified_markets", stats.QualifiedMarkets),
				zap.Int("trades_attempted", stats.TradesAttempted),
				zap.Int("trades_succeeded", stats.TradesSucceeded),
				zap.Float64("total_size_usd", stats.TotalSizeUSD),
			)
			notifier.StatsSummary(ctx, stats)
			return nil
		})
		if err != nil {
			logger.Fatal("cron setup failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	if cfg.Scanner.Autostart {
		err := scanSvc.Start(
			cfg.Scanner.MinProbability,
			cfg.Scanner.MaxProbability,
			cfg.Scanner.MaxHoursToResolution,
			callback,
		)
		if err != nil {
			logger.Fatal("scan autostart failed", zap.Error(err))
		}
	}

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

	if scanSvc.Running() {
		_ = scanSvc.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// tradeCallback turns each delivery of qualified candidates into
// trade attempts on the winning outcome, optionally gated by outcome
// verification.
func tradeCallback(ctx context.Context, cfg config.Config, trader *executor.Executor, verifier *verify.Verifier, activityLog *activity.Log, logger *zap.Logger) scanner.Callback {
	return func(candidates []*market.Candidate) {
		activityLog.RecordScan(len(candidates))
		for _, c := range candidates {
			if ctx.Err() != nil {
				return
			}
			if verifier != nil {
				res := verifier.VerifyOutcome(ctx, c)
				logger.Info("verification",
					zap.Int("market_id", c.MarketID),
					zap.Bool("verified", res.Verified),
					zap.Float64("confidence", res.Confidence),
				)
			}
			result := trader.ExecuteTrade(ctx, c, c.WinningOutcomeIndex, c.WinningProbability)
			if !result.Success {
				logger.Warn("trade attempt failed",
					zap.Int("market_id", c.MarketID),
					zap.String("error", result.Error),
				)
			}
		}
	}
}

// clobVenue adapts the CLOB client to the execution and balance
// collaborator interfaces with the process credentials bound in.
type clobVenue struct {
	client *clob.Client
	auth   clob.TradingAuth
}

func (v *clobVenue) GetUSDCBalance(ctx context.Context) (float64, error) {
	return v.client.GetUSDCBalance(ctx, v.auth)
}

func (v *clobVenue) GetOrderbookPrice(ctx context.Context, tokenID string) (float64, error) {
	price, err := v.client.GetPrice(ctx, tokenID, "BUY")
	if err != nil {
		return 0, err
	}
	return price.InexactFloat64(), nil
}

func (v *clobVenue) ExecuteMarketOrder(ctx context.Context, tokenID string, amountUSD float64) (string, error) {
	return v.client.ExecuteMarketOrder(ctx, tokenID, amountUSD, v.auth)
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
