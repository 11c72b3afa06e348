package setup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robalyx/personaguard/internal/database"
	"github.com/robalyx/personaguard/internal/database/migrations"
	"github.com/robalyx/personaguard/internal/engine"
	"github.com/robalyx/personaguard/internal/engine/gate"
	"github.com/robalyx/personaguard/internal/engine/moderate"
	"github.com/robalyx/personaguard/internal/engine/rules"
	"github.com/robalyx/personaguard/internal/engine/session"
	"github.com/robalyx/personaguard/internal/engine/trigger"
	"github.com/robalyx/personaguard/internal/redis"
	"github.com/robalyx/personaguard/internal/setup/config"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config  // Application configuration
	Logger       *zap.Logger     // Main application logger
	DBLogger     *zap.Logger     // Database-specific logger
	DB           database.Client // Database connection pool
	RedisManager *redis.Manager  // Redis connection manager
	Engine       *engine.Engine  // Message pipeline
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, logDir string) (*App, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logger, dbLogger, err := GetLoggers(logDir, cfg.Debug.LogLevel, cfg.Debug.MaxLogsToKeep)
	if err != nil {
		return nil, err
	}

	// Redis manager provides connection pools for various subsystems
	redisManager := redis.NewManager(&cfg.Redis, logger)

	// Initialize database with migration check
	db, err := checkAndRunMigrations(ctx, &cfg.PostgreSQL, dbLogger)
	if err != nil {
		return nil, err
	}

	eng, err := buildEngine(cfg, db, redisManager, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger,
		DB:           db,
		RedisManager: redisManager,
		Engine:       eng,
	}, nil
}

// buildEngine wires the pipeline stages from their backing stores.
func buildEngine(
	cfg *config.Config, db database.Client, redisManager *redis.Manager, logger *zap.Logger,
) (*engine.Engine, error) {
	table := rules.DefaultTable()
	if err := table.Validate(); err != nil {
		return nil, err
	}

	sessionClient, err := redisManager.GetClient(redis.SessionDBIndex)
	if err != nil {
		return nil, err
	}

	lockClient, err := redisManager.GetClient(redis.LockDBIndex)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(
		sessionClient, time.Duration(cfg.Engine.SessionTTL)*time.Minute, logger)
	locks := session.NewLocker(
		lockClient, time.Duration(cfg.Engine.LockTTL)*time.Millisecond, logger)

	gateManager := gate.NewManager(table, db.Model().Consent(), logger)
	detector := trigger.NewDetector(
		db.Model().TriggerLog(), logger, time.Duration(cfg.Engine.MatcherTimeout)*time.Millisecond)
	moderator := moderate.NewModerator(logger)

	return engine.New(
		db.Service().Progression(),
		db.Model(),
		gateManager,
		detector,
		moderator,
		sessions,
		locks,
		logger,
	), nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(_ context.Context) {
	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}

	// Close database connections
	if err := s.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	// Close Redis connections last as other components might need it during cleanup
	s.RedisManager.Close()
}

// checkAndRunMigrations runs database migrations if needed.
func checkAndRunMigrations(ctx context.Context, cfg *config.PostgreSQL, dbLogger *zap.Logger) (database.Client, error) {
	tempDB, err := database.NewConnection(ctx, cfg, dbLogger, false)
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(tempDB.DB(), migrations.Migrations)

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		tempDB.Close()
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}

	var db database.Client

	unapplied := ms.Unapplied()
	if len(unapplied) > 0 {
		log.Println("Database migrations are pending. Would you like to run them now? (y/N)")

		var response string

		_, _ = fmt.Scanln(&response)

		if response == "y" || response == "Y" {
			tempDB.Close()

			db, err = database.NewConnection(ctx, cfg, dbLogger, true)
		} else {
			log.Fatalf("Closing program due to incomplete migrations")
		}
	} else {
		db = tempDB
	}

	return db, err
}
