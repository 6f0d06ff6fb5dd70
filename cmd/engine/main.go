// Package main is the entry point of the EduTrack assessment engine.
//
// The engine runs one processing pipeline per invocation:
//   - Ingest a roster (CSV file or the built-in sample roster)
//   - Normalize scores, derive grades and SGPA
//   - Compute cohort statistics and CO-PO attainment
//   - Predict next-semester performance per student
//   - Persist the result and refresh the read caches
//
// PostgreSQL and Redis are optional: without them the run stays in memory
// and the result is only logged.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/edutrack-pro/assessment-engine/config"
	"github.com/edutrack-pro/assessment-engine/internal/application/command"
	"github.com/edutrack-pro/assessment-engine/internal/application/eventhandler"
	"github.com/edutrack-pro/assessment-engine/internal/application/query"
	"github.com/edutrack-pro/assessment-engine/internal/domain/assessment"
	"github.com/edutrack-pro/assessment-engine/internal/domain/course"
	"github.com/edutrack-pro/assessment-engine/internal/domain/prediction"
	"github.com/edutrack-pro/assessment-engine/internal/infrastructure/ingestion"
	"github.com/edutrack-pro/assessment-engine/internal/infrastructure/messaging"
	"github.com/edutrack-pro/assessment-engine/internal/infrastructure/notification"
	"github.com/edutrack-pro/assessment-engine/internal/infrastructure/persistence/postgres"
	"github.com/edutrack-pro/assessment-engine/internal/infrastructure/persistence/redis"
	"github.com/edutrack-pro/assessment-engine/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting assessment engine",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Semester(cfg.Engine.Semester),
		logger.CourseCode(cfg.Engine.CourseCode),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var repo *postgres.CourseRepository
	if !cfg.Database.Disabled {
		log.Info("connecting to database")
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close()

		if err := conn.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}

		migrator := postgres.NewMigrator(conn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		repo = postgres.NewCourseRepository(conn)
		log.Info("database ready")
	} else {
		log.Info("database disabled, results stay in memory")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var resultCache *redis.ResultCache
	if !cfg.Redis.Disabled && cfg.Redis.URL != "" {
		log.Info("connecting to redis")
		cache, err := redis.NewCacheFromURL(cfg.Redis.URL)
		if err != nil {
			log.Warn("redis unavailable, caching disabled", logger.Err(err))
		} else {
			defer cache.Close()
			resultCache = redis.NewResultCache(cache)
			log.Info("redis ready")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EVENT BUS AND HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	bus := messaging.NewInMemoryEventBus(log)
	defer bus.Close()

	notifier := notification.NewConsoleNotifier(log)
	coordinator := ""
	if cfg.Notification.Enabled {
		coordinator = cfg.Notification.CoordinatorAddress
	}
	processedHandler := eventhandler.NewCourseProcessedHandler(notifier, coordinator, log)
	if err := processedHandler.Register(bus); err != nil {
		return fmt.Errorf("failed to register event handler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ROSTER INGESTION
	// ─────────────────────────────────────────────────────────────────────────
	var records []assessment.RawScoreRecord
	if cfg.Engine.RosterPath != "" {
		log.Info("reading roster", logger.String("path", cfg.Engine.RosterPath))
		records, err = ingestion.ReadCSVFile(cfg.Engine.RosterPath)
		if err != nil {
			return fmt.Errorf("failed to read roster: %w", err)
		}
	} else {
		log.Info("no roster configured, using sample roster",
			logger.Int64("seed", cfg.Engine.SampleSeed))
		records = ingestion.SampleRoster(cfg.Engine.SampleSeed)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. PROCESSING RUN
	// ─────────────────────────────────────────────────────────────────────────
	var engine *prediction.Engine
	if cfg.Engine.PredictionSeed != 0 {
		engine = prediction.NewEngine(rand.New(rand.NewSource(cfg.Engine.PredictionSeed)))
	}

	var cachePort command.ResultCache
	if resultCache != nil {
		cachePort = resultCache
	}
	handler := command.NewProcessCourseHandler(repoOrNil(repo), cachePort, engine, bus, log)

	runCtx, cancelRun := context.WithTimeout(ctx, cfg.Engine.RunTimeout)
	defer cancelRun()

	result, err := handler.Handle(runCtx, command.ProcessCourseCommand{
		Semester:   cfg.Engine.Semester,
		CourseCode: cfg.Engine.CourseCode,
		Records:    records,
	})
	if err != nil {
		return fmt.Errorf("processing run failed: %w", err)
	}

	log.Info("run summary",
		logger.RunID(result.Result.RunID),
		logger.CohortSize(len(result.Result.Students)),
		logger.Int("skipped_rows", len(result.Warnings)),
		logger.Float64("average_marks", result.Result.Stats.AverageMarks),
		logger.Float64("pass_percentage", result.Result.Stats.PassPercentage),
		logger.Bool("persisted", result.Persisted),
		logger.Duration("duration", result.Duration),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. CATALOGUE OVERVIEW (requires the database)
	// ─────────────────────────────────────────────────────────────────────────
	if repo != nil {
		compare := query.NewCompareCoursesHandler(repo, log)
		out, err := compare.Handle(ctx, query.CompareCoursesQuery{})
		if err != nil {
			log.Warn("catalogue overview failed", logger.Err(err))
		} else {
			for _, row := range out.Rows {
				log.Info("catalogue entry",
					logger.String("course", row.CatalogueKey),
					logger.Int("students", row.TotalStudents),
					logger.Float64("average_marks", row.AverageMarks),
					logger.Float64("pass_percentage", row.PassPercentage),
				)
			}
		}
	}

	log.Info("assessment engine finished")
	return nil
}

// repoOrNil avoids handing a typed nil pointer to an interface parameter.
func repoOrNil(repo *postgres.CourseRepository) course.Repository {
	if repo == nil {
		return nil
	}
	return repo
}
