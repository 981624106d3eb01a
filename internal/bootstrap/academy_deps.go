// Package bootstrap wires configuration, infrastructure, and services.
package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"academy_server/adapter/in/worker"
	"academy_server/adapter/out/messaging"
	"academy_server/adapter/out/mongodb"
	"academy_server/adapter/out/persistence"
	"academy_server/config"
	"academy_server/core/agent/llm"
	"academy_server/core/domain"
	"academy_server/core/port/out"
	"academy_server/core/service/classification"
	"academy_server/core/service/feedback"
	"academy_server/core/service/notification"
	"academy_server/infra/database"
	"academy_server/pkg/cache"
	"academy_server/pkg/logger"
	"academy_server/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies holds every shared component the API and worker use.
type Dependencies struct {
	Config *config.Config

	// Infrastructure
	DB      *pgxpool.Pool
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	// Repositories
	FeedbackRepo     domain.FeedbackRepository
	QuestionRepo     domain.QuestionRepository
	ClassRepo        domain.ClassRepository
	NotificationRepo domain.NotificationRepository
	AuditRepo        out.AnalysisAuditRepository

	// Messaging
	MessageProducer out.MessageProducer

	// Classification
	LLMClient *llm.Client
	Pipeline  *classification.Pipeline

	// Services
	NotificationService *notification.Service
	AnalysisProcessor   *worker.AnalysisProcessor
	FeedbackService     *feedback.Service
}

// NewDependencies builds the dependency graph. The returned cleanup closes
// everything in reverse order. Redis and MongoDB are optional: without Redis
// analysis falls back to in-process goroutines, without MongoDB the audit
// trail is skipped.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// PostgreSQL (pgx pool)
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	deps.DB = db
	cleanups = append(cleanups, db.Close)
	logger.Info("PostgreSQL connected")

	// sqlx over pgx stdlib for the repository layer
	sqlxURL := cfg.DatabaseURL
	if strings.Contains(sqlxURL, "?") {
		sqlxURL += "&default_query_exec_mode=simple_protocol"
	} else {
		sqlxURL += "?default_query_exec_mode=simple_protocol"
	}

	sqlDB, err := sqlx.Connect("pgx", sqlxURL)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("connect sqlx: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { _ = sqlDB.Close() })

	metrics.RegisterPool("postgres", sqlDB.DB)

	// Redis (optional)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, continuing without queue")
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { _ = redisClient.Close() })
			logger.Info("Redis connected")
		}
	}

	// MongoDB (optional, analysis audit trail)
	if cfg.MongoDBURL != "" {
		mongoClient, err := mongodb.NewClient(cfg.MongoDBURL)
		if err != nil {
			logger.WithError(err).Warn("MongoDB unavailable, audit trail disabled")
		} else {
			deps.MongoDB = mongoClient
			cleanups = append(cleanups, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = mongoClient.Disconnect(ctx)
			})

			auditAdapter := mongodb.NewAuditAdapter(mongoClient.Database(cfg.MongoDBName))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := auditAdapter.EnsureIndexes(ctx); err != nil {
				logger.WithError(err).Warn("Failed to ensure audit indexes")
			}
			cancel()
			deps.AuditRepo = auditAdapter
			logger.Info("MongoDB connected")
		}
	}

	// Repositories
	deps.FeedbackRepo = persistence.NewFeedbackAdapter(sqlDB)
	deps.QuestionRepo = persistence.NewQuestionAdapter(sqlDB)
	if deps.Redis != nil {
		deps.QuestionRepo = persistence.NewCachedQuestionRepo(
			deps.QuestionRepo,
			cache.NewRedisCache(deps.Redis),
		)
	}
	deps.ClassRepo = persistence.NewClassAdapter(sqlDB)
	deps.NotificationRepo = persistence.NewNotificationAdapter(sqlDB)

	// Message producer (only with Redis)
	if deps.Redis != nil {
		deps.MessageProducer = messaging.NewRedisProducer(deps.Redis)
	}

	// LLM client (optional; without it the heuristic stage handles everything)
	if cfg.OpenAIAPIKey != "" {
		deps.LLMClient = llm.NewClientWithConfig(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		})
		logger.Info("LLM client configured (model: %s)", cfg.LLMModel)
	} else {
		logger.Warn("OPENAI_API_KEY not set, classification runs heuristic-only")
	}

	deps.Pipeline = classification.NewPipeline(deps.LLMClient, &classification.PipelineConfig{
		AITimeout:           cfg.LLMTimeout(),
		EnableSecondary:     cfg.SecondaryAnalysis,
		HeuristicConfidence: cfg.HeuristicConfidence,
	})

	// Services
	deps.NotificationService = notification.NewService(deps.NotificationRepo, deps.ClassRepo)
	deps.AnalysisProcessor = worker.NewAnalysisProcessor(
		deps.FeedbackRepo,
		deps.Pipeline,
		deps.AuditRepo,
		deps.NotificationService,
	)
	deps.FeedbackService = feedback.NewService(
		deps.FeedbackRepo,
		deps.QuestionRepo,
		deps.MessageProducer,
		deps.AnalysisProcessor,
	)

	return deps, cleanup, nil
}

// HealthCheck pings the core infrastructure.
func (d *Dependencies) HealthCheck(ctx context.Context) error {
	if d.DB != nil {
		if err := d.DB.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
