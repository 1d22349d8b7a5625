// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"credit-engine/internal/common/aws"
	"credit-engine/internal/common/config"
	"credit-engine/internal/common/database"
	"credit-engine/internal/common/genai"
	"credit-engine/internal/common/logger"
	"credit-engine/internal/common/observability"
	"credit-engine/internal/notify"
	"credit-engine/internal/processors/documents"
	"credit-engine/internal/processors/fivecs"
	"credit-engine/internal/processors/mlscore"
	"credit-engine/internal/processors/statements"
	"credit-engine/internal/server"
	"credit-engine/internal/storage/applications"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting credit engine API server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("api-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init SQLite ---
	sqlite, err := database.NewSQLite(cfg.Database.SQLite)
	if err != nil {
		zapLog.Fatal("sqlite init failed", zap.Error(err))
	}
	defer sqlite.Close()
	zapLog.Info("SQLite database ready", zap.String("path", cfg.Database.SQLite.Path))

	// --- Init Redis with retry (optional; stats caching only) ---
	var redisClient *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, dashboard stats caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Score Model ---
	scorerConfig := mlscore.LoadConfig()
	scorerConfig.ArtifactPath = cfg.Model.ArtifactPath
	scorer := mlscore.NewHandler(scorerConfig, log)

	// --- Statement Analysis Providers ---
	var providers []statements.Provider
	statementConfig := statements.LoadConfig()
	statementConfig.BedrockModelID = cfg.Providers.Bedrock.ModelID
	statementConfig.BedrockTimeout = config.GetDuration(cfg.Providers.Bedrock.Timeout)
	statementConfig.GeminiTimeout = config.GetDuration(cfg.Providers.Gemini.Timeout)

	if cfg.Providers.Bedrock.Enabled {
		bedrockClient, err := aws.NewBedrockClient(ctx, cfg.Providers.Bedrock.Region)
		if err != nil {
			zapLog.Warn("bedrock client init failed, continuing without it", zap.Error(err))
		} else {
			providers = append(providers, statements.NewBedrockProvider(
				bedrockClient, statementConfig.BedrockModelID, statementConfig.BedrockTimeout,
			))
		}
	}

	geminiClient := genai.NewClient(genai.Config{
		BaseURL: cfg.Providers.Gemini.BaseURL,
		APIKey:  cfg.Providers.Gemini.APIKey,
		Model:   cfg.Providers.Gemini.Model,
	})
	providers = append(providers, statements.NewGeminiProvider(geminiClient, statementConfig.GeminiTimeout))

	statementHandler := statements.NewHandler(statementConfig, providers, log)

	// --- 5 C's Assessment ---
	assessorConfig := fivecs.LoadConfig()
	assessorConfig.Timeout = config.GetDuration(cfg.Providers.Gemini.Timeout)
	assessorConfig.PromptPath = cfg.Providers.Gemini.PromptPath
	assessor := fivecs.NewHandler(assessorConfig, geminiClient, log)

	// --- Document Validation ---
	documentHandler := documents.NewHandler(log)

	// --- Persistence ---
	var statsRedis *redis.Client
	if redisClient != nil {
		statsRedis = redisClient.Client
	}
	repo := applications.NewRepository(
		sqlite.GetDB(),
		statsRedis,
		config.GetDuration(cfg.Database.Redis.StatsTTL),
		log,
	)

	// --- Notifications (optional) ---
	var notifier server.Notifier
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		notifyConfig := notify.LoadConfig()
		notifyConfig.EmailEnabled = cfg.Notifications.Email.Enabled
		notifyConfig.SMSEnabled = cfg.Notifications.SMS.Enabled
		notifyConfig.FromEmail = cfg.Notifications.Email.FromEmail
		notifyConfig.SenderID = cfg.Notifications.SMS.SenderID

		var sesClient notify.SESService
		var snsClient notify.SNSService
		if cfg.Notifications.Email.Enabled {
			client, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Warn("ses client init failed, email notifications disabled", zap.Error(err))
			} else {
				sesClient = client
			}
		}
		if cfg.Notifications.SMS.Enabled {
			client, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Warn("sns client init failed, sms notifications disabled", zap.Error(err))
			} else {
				snsClient = client
			}
		}
		notifier = notify.NewNotifier(notifyConfig, sesClient, snsClient, log)
	}

	srv := server.New(cfg, log, obs, scorer, assessor, statementHandler, documentHandler, repo, notifier)

	// --- Start Server ---
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("shutdown did not complete cleanly", zap.Error(err))
		}
	}

	zapLog.Info("Credit engine API server stopped gracefully")
}
